package graph

import (
	"context"
	"fmt"

	"github.com/desertthunder/songgraph/internal/models"
	"github.com/desertthunder/songgraph/internal/shared"
)

// Store is the graph store contract: profiles, playlists, songs and the
// follows/includes edges between them.
//
// Every mutation executes as a single atomic unit of work: existence checks
// and writes happen inside one transaction with a single commit point, so a
// precondition can never hold for two concurrent callers at once. On any
// backend failure the unit of work is discarded and the error wraps
// [shared.ErrStoreUnavailable].
type Store interface {
	// EnsureSchema creates constraints and indexes. Idempotent.
	EnsureSchema(ctx context.Context) error

	// CreateProfile atomically creates a profile and its favourites playlist.
	CreateProfile(ctx context.Context, profile models.Profile) error

	// Follow creates a directed follows edge between two existing profiles.
	Follow(ctx context.Context, userName, friendUserName string) error

	// Unfollow removes a follows edge. Self-unfollow is rejected.
	Unfollow(ctx context.Context, userName, friendUserName string) error

	// AddIncludes upserts the song node and the includes edge from the
	// user's playlist. Returns false when the edge already existed; this
	// no-op is still a success.
	AddIncludes(ctx context.Context, userName, songID string) (bool, error)

	// RemoveIncludes deletes the includes edge and garbage-collects the song
	// node when no playlist references it anymore.
	RemoveIncludes(ctx context.Context, userName, songID string) error

	// PurgeSong detach-deletes a song and every edge touching it.
	// Purging a song that is already gone is a success.
	PurgeSong(ctx context.Context, songID string) error

	// FriendsFavourites maps each followed friend to the ordered song ids in
	// that friend's playlist. Following nobody yields an empty map.
	FriendsFavourites(ctx context.Context, userName string) (models.FavouritesByFriend, error)

	// SongExists reports whether a song node is present in the graph.
	SongExists(ctx context.Context, songID string) (bool, error)

	// Close releases the underlying driver or database handle.
	Close(ctx context.Context) error
}

// requirePair validates the two identifiers common to edge operations.
func requirePair(a, b string) error {
	if a == "" || b == "" {
		return fmt.Errorf("%w: both identifiers are required", shared.ErrInvalidInput)
	}
	return nil
}

// storeErr tags a backend failure with [shared.ErrStoreUnavailable] while
// keeping the underlying cause in the message.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, shared.ErrStoreUnavailable)
}
