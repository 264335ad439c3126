// package services defines interface Counter for the songs microservice
//
// The songs microservice owns the song documents and their favourite
// counters; this side only ever adjusts a counter or resolves a title.
package services

import (
	"context"
)

// Counter is the remote contract consumed by the like/unlike workflow.
//
// Both calls are synchronous, single-attempt, and surface transport failure
// distinctly from "song not found": a transport or timeout error wraps
// shared.ErrRemoteUnavailable, a remote-side error wraps
// shared.ErrRemoteRejected, and an unknown song is reported through the
// boolean with a nil error.
type Counter interface {
	// AdjustFavouriteCount increments (or, with decrement set, decrements)
	// the song's favourite counter. The remote service never drives the
	// counter below zero. Returns whether the song exists remotely.
	AdjustFavouriteCount(ctx context.Context, songID string, decrement bool) (bool, error)

	// LookupTitle resolves a song id to its title, reporting absence
	// through the boolean.
	LookupTitle(ctx context.Context, songID string) (string, bool, error)
}
