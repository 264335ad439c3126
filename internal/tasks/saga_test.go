package tasks

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/desertthunder/songgraph/internal/graph"
	"github.com/desertthunder/songgraph/internal/models"
	"github.com/desertthunder/songgraph/internal/shared"
	tu "github.com/desertthunder/songgraph/internal/testing"
)

// setupGraph creates an in-memory store seeded with one profile
func setupGraph(t *testing.T, userNames ...string) graph.Store {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := graph.NewSQLiteStore(db)
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("failed to ensure schema: %v", err)
	}
	for _, userName := range userNames {
		profile := models.NewProfile(userName, userName+" Test", "pw")
		if err := store.CreateProfile(context.Background(), profile); err != nil {
			t.Fatalf("failed to create profile %s: %v", userName, err)
		}
	}
	return store
}

func TestLikeSong(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		store := setupGraph(t, "alice")
		counter := tu.NewStubCounter()
		engine := NewLikeEngine(store, counter, nil)

		result := engine.LikeSong(ctx, "alice", "song1")
		if result.State != StateSuccess {
			t.Fatalf("expected success, got %s (%v)", result.State, result.Err)
		}
		if result.NoOp {
			t.Error("first like should not be a no-op")
		}
		if counter.CallCount() != 1 {
			t.Errorf("expected 1 counter call, got %d", counter.CallCount())
		}
		if counter.AdjustCalls[0].Decrement {
			t.Error("like must increment, not decrement")
		}
	})

	t.Run("NoOp Skips Counter", func(t *testing.T) {
		store := setupGraph(t, "alice")
		counter := tu.NewStubCounter()
		engine := NewLikeEngine(store, counter, nil)

		if result := engine.LikeSong(ctx, "alice", "song1"); result.State != StateSuccess {
			t.Fatalf("first like failed: %v", result.Err)
		}
		result := engine.LikeSong(ctx, "alice", "song1")
		if result.State != StateSuccess || !result.NoOp {
			t.Errorf("expected no-op success, got state=%s noop=%v", result.State, result.NoOp)
		}
		if counter.CallCount() != 1 {
			t.Errorf("no-op like must not call the counter, got %d calls", counter.CallCount())
		}
	})

	t.Run("Graph Rejection Makes No Remote Call", func(t *testing.T) {
		store := setupGraph(t) // no profiles
		counter := tu.NewStubCounter()
		engine := NewLikeEngine(store, counter, nil)

		result := engine.LikeSong(ctx, "ghost", "song1")
		if result.State != StateRejected {
			t.Errorf("expected rejected, got %s", result.State)
		}
		if !errors.Is(result.Err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", result.Err)
		}
		if counter.CallCount() != 0 {
			t.Errorf("rejected like must not call the counter, got %d calls", counter.CallCount())
		}
	})

	t.Run("Counter Failure Keeps Graph Edge", func(t *testing.T) {
		store := setupGraph(t, "alice", "observer")
		counter := tu.NewStubCounter()
		counter.AdjustErr = fmt.Errorf("dial tcp: %w", shared.ErrRemoteUnavailable)
		engine := NewLikeEngine(store, counter, nil)

		result := engine.LikeSong(ctx, "alice", "song1")
		if result.State != StatePartialFailure {
			t.Fatalf("expected partial failure, got %s", result.State)
		}
		if !errors.Is(result.Err, shared.ErrRemoteUnavailable) {
			t.Errorf("expected ErrRemoteUnavailable, got %v", result.Err)
		}

		// no rollback: the edge stays
		if err := store.Follow(ctx, "observer", "alice"); err != nil {
			t.Fatalf("follow failed: %v", err)
		}
		favourites, err := store.FriendsFavourites(ctx, "observer")
		if err != nil {
			t.Fatalf("friends favourites failed: %v", err)
		}
		if got := favourites["alice"]; len(got) != 1 || got[0] != "song1" {
			t.Errorf("graph edge must remain after counter failure, got %v", got)
		}
	})

	t.Run("Song Absent Remotely Is Partial Failure", func(t *testing.T) {
		store := setupGraph(t, "alice")
		counter := tu.NewStubCounter()
		counter.AdjustFound = false
		engine := NewLikeEngine(store, counter, nil)

		result := engine.LikeSong(ctx, "alice", "song1")
		if result.State != StatePartialFailure {
			t.Errorf("expected partial failure, got %s", result.State)
		}
		if !errors.Is(result.Err, shared.ErrRemoteRejected) {
			t.Errorf("expected ErrRemoteRejected, got %v", result.Err)
		}
	})
}

func TestUnlikeSong(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		store := setupGraph(t, "alice")
		counter := tu.NewStubCounter()
		engine := NewLikeEngine(store, counter, nil)

		if result := engine.LikeSong(ctx, "alice", "song1"); result.State != StateSuccess {
			t.Fatalf("like failed: %v", result.Err)
		}

		result := engine.UnlikeSong(ctx, "alice", "song1")
		if result.State != StateSuccess {
			t.Fatalf("expected success, got %s (%v)", result.State, result.Err)
		}
		if counter.CallCount() != 2 {
			t.Fatalf("expected 2 counter calls, got %d", counter.CallCount())
		}
		if !counter.AdjustCalls[1].Decrement {
			t.Error("unlike must decrement")
		}

		// orphan GC ran
		if exists, _ := store.SongExists(ctx, "song1"); exists {
			t.Error("song should be garbage collected after last unlike")
		}
	})

	t.Run("Counter Failure Leaves Graph Untouched", func(t *testing.T) {
		store := setupGraph(t, "alice")
		counter := tu.NewStubCounter()
		engine := NewLikeEngine(store, counter, nil)

		if result := engine.LikeSong(ctx, "alice", "song1"); result.State != StateSuccess {
			t.Fatalf("like failed: %v", result.Err)
		}

		counter.AdjustErr = fmt.Errorf("dial tcp: %w", shared.ErrRemoteUnavailable)
		result := engine.UnlikeSong(ctx, "alice", "song1")
		if result.State != StateRejected {
			t.Errorf("expected rejected, got %s", result.State)
		}

		// remote-first ordering: graph step never attempted
		if exists, _ := store.SongExists(ctx, "song1"); !exists {
			t.Error("graph edge must remain when the counter call fails first")
		}
	})

	t.Run("Graph Failure After Decrement Is Partial Failure", func(t *testing.T) {
		store := setupGraph(t, "alice")
		counter := tu.NewStubCounter()
		engine := NewLikeEngine(store, counter, nil)

		// song was never liked locally, but the remote knows it
		result := engine.UnlikeSong(ctx, "alice", "song1")
		if result.State != StatePartialFailure {
			t.Fatalf("expected partial failure, got %s (%v)", result.State, result.Err)
		}
		if !errors.Is(result.Err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound from the graph step, got %v", result.Err)
		}
		if counter.CallCount() != 1 {
			t.Errorf("counter should have been decremented once, got %d calls", counter.CallCount())
		}
	})

	t.Run("Missing Parameters Rejected Before Remote Call", func(t *testing.T) {
		store := setupGraph(t, "alice")
		counter := tu.NewStubCounter()
		engine := NewLikeEngine(store, counter, nil)

		result := engine.UnlikeSong(ctx, "", "song1")
		if result.State != StateRejected {
			t.Errorf("expected rejected, got %s", result.State)
		}
		if !errors.Is(result.Err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", result.Err)
		}
		if counter.CallCount() != 0 {
			t.Errorf("invalid input must not reach the counter, got %d calls", counter.CallCount())
		}
	})
}

func TestCascadeDeleteSong(t *testing.T) {
	ctx := context.Background()

	t.Run("Removes Song From All Playlists", func(t *testing.T) {
		store := setupGraph(t, "alice", "bob")
		counter := tu.NewStubCounter()
		engine := NewLikeEngine(store, counter, nil)

		for _, userName := range []string{"alice", "bob"} {
			if result := engine.LikeSong(ctx, userName, "song1"); result.State != StateSuccess {
				t.Fatalf("like failed for %s: %v", userName, result.Err)
			}
		}
		calls := counter.CallCount()

		if err := engine.CascadeDeleteSong(ctx, "song1"); err != nil {
			t.Fatalf("cascade delete failed: %v", err)
		}
		if exists, _ := store.SongExists(ctx, "song1"); exists {
			t.Error("song should be gone after cascade delete")
		}
		if counter.CallCount() != calls {
			t.Error("cascade delete must not call the counter")
		}
	})

	t.Run("Idempotent For Missing Song", func(t *testing.T) {
		store := setupGraph(t)
		engine := NewLikeEngine(store, tu.NewStubCounter(), nil)

		if err := engine.CascadeDeleteSong(ctx, "never-existed"); err != nil {
			t.Errorf("deleting an unknown song should succeed: %v", err)
		}
	})

	t.Run("Rejects Blank ID", func(t *testing.T) {
		store := setupGraph(t)
		engine := NewLikeEngine(store, tu.NewStubCounter(), nil)

		for _, songID := range []string{"", "   "} {
			if err := engine.CascadeDeleteSong(ctx, songID); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("songID %q: expected ErrInvalidInput, got %v", songID, err)
			}
		}
	})
}
