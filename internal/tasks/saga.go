package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songgraph/internal/graph"
	"github.com/desertthunder/songgraph/internal/models"
	"github.com/desertthunder/songgraph/internal/services"
	"github.com/desertthunder/songgraph/internal/shared"
)

// LikeEngine sequences one graph mutation with one counter mutation across
// the two stores. There is no shared transaction and no rollback: a failure
// after the first step is surfaced as [StatePartialFailure], never hidden
// and never compensated automatically.
type LikeEngine struct {
	store   graph.Store
	counter services.Counter
	logger  *log.Logger
}

// NewLikeEngine creates a new LikeEngine with the given store and counter client.
func NewLikeEngine(store graph.Store, counter services.Counter, logger *log.Logger) *LikeEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &LikeEngine{store: store, counter: counter, logger: logger}
}

// LikeSong adds the song to the user's playlist, then increments the remote
// favourite counter.
//
// Ordering: graph first. If the graph step fails nothing was mutated and no
// remote call is made. If the graph step was a no-op (edge already present)
// the counter is left untouched, so liking an already-liked song is
// idempotent end to end. Only a genuine new edge triggers the counter call;
// if that call then fails, the edge stays and the mismatch is reported.
func (e *LikeEngine) LikeSong(ctx context.Context, userName, songID string) LikeResult {
	added, err := e.store.AddIncludes(ctx, userName, songID)
	if err != nil {
		return LikeResult{State: StateRejected, Message: "song not added to playlist", Err: err}
	}
	if !added {
		return LikeResult{State: StateSuccess, NoOp: true, Message: "song already in playlist"}
	}

	found, err := e.counter.AdjustFavouriteCount(ctx, songID, false)
	if err != nil {
		e.logger.Error("favourites count not incremented, graph edge kept",
			"userName", userName, "songId", songID, "state", StatePartialFailure, "err", err)
		return LikeResult{
			State:   StatePartialFailure,
			Message: "song added to playlist but favourites count not updated",
			Err:     err,
		}
	}
	if !found {
		err := fmt.Errorf("song %q unknown to songs service: %w", songID, shared.ErrRemoteRejected)
		e.logger.Error("song liked in graph but absent remotely",
			"userName", userName, "songId", songID, "state", StatePartialFailure)
		return LikeResult{
			State:   StatePartialFailure,
			Message: "song added to playlist but does not exist in the songs service",
			Err:     err,
		}
	}

	return LikeResult{State: StateSuccess, Message: "song added to playlist"}
}

// UnlikeSong decrements the remote favourite counter, then removes the song
// from the user's playlist.
//
// Ordering is the mirror of LikeSong: remote first. A remote rejection or
// outage leaves the graph untouched. If the graph step then fails the
// counter has already been decremented; that mismatch is surfaced, not
// rolled back.
func (e *LikeEngine) UnlikeSong(ctx context.Context, userName, songID string) LikeResult {
	if userName == "" || songID == "" {
		err := fmt.Errorf("%w: userName and songId are required", shared.ErrInvalidInput)
		return LikeResult{State: StateRejected, Message: "missing parameters", Err: err}
	}

	found, err := e.counter.AdjustFavouriteCount(ctx, songID, true)
	if err != nil {
		return LikeResult{
			State:   StateRejected,
			Message: "favourites count not updated, playlist untouched",
			Err:     err,
		}
	}
	if !found {
		err := fmt.Errorf("song %q unknown to songs service: %w", songID, shared.ErrRemoteRejected)
		return LikeResult{State: StateRejected, Message: "song does not exist in the songs service", Err: err}
	}

	if err := e.store.RemoveIncludes(ctx, userName, songID); err != nil {
		e.logger.Error("favourites count decremented but graph edge not removed",
			"userName", userName, "songId", songID, "state", StatePartialFailure, "err", err)
		return LikeResult{
			State:   StatePartialFailure,
			Message: "favourites count updated but song not removed from playlist",
			Err:     err,
		}
	}

	return LikeResult{State: StateSuccess, Message: "song removed from playlist"}
}

// CascadeDeleteSong purges the song node and every edge touching it.
//
// Called by the songs service after it deletes its own record; that ordering
// is owned by the caller. No counter call is made here, and purging a song
// nobody ever liked is a success.
func (e *LikeEngine) CascadeDeleteSong(ctx context.Context, songID string) error {
	if err := (models.SongRef{SongID: songID}).Validate(); err != nil {
		return err
	}
	return e.store.PurgeSong(ctx, songID)
}
