package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/songgraph/internal/models"
	"github.com/desertthunder/songgraph/internal/shared"
	tu "github.com/desertthunder/songgraph/internal/testing"
)

func TestSocialEngine(t *testing.T) {
	ctx := context.Background()

	t.Run("Create And Follow", func(t *testing.T) {
		store := setupGraph(t, "alice", "bob")
		engine := NewSocialEngine(store, tu.NewStubCounter(), nil)

		if err := engine.FollowFriend(ctx, "alice", "bob"); err != nil {
			t.Fatalf("follow failed: %v", err)
		}
		if err := engine.FollowFriend(ctx, "alice", "bob"); !errors.Is(err, shared.ErrAlreadyExists) {
			t.Errorf("duplicate follow: expected ErrAlreadyExists, got %v", err)
		}
		if err := engine.UnfollowFriend(ctx, "alice", "bob"); err != nil {
			t.Errorf("unfollow failed: %v", err)
		}
	})

	t.Run("Duplicate Profile", func(t *testing.T) {
		store := setupGraph(t, "alice")
		engine := NewSocialEngine(store, tu.NewStubCounter(), nil)

		profile := models.NewProfile("alice", "Alice Again", "pw")
		if err := engine.CreateProfile(ctx, profile); !errors.Is(err, shared.ErrAlreadyExists) {
			t.Errorf("expected ErrAlreadyExists, got %v", err)
		}
	})
}

func TestFriendFavourites(t *testing.T) {
	ctx := context.Background()

	store := setupGraph(t, "alice", "bob", "carol")
	counter := tu.NewStubCounter()
	social := NewSocialEngine(store, counter, nil)
	likes := NewLikeEngine(store, counter, nil)

	if err := social.FollowFriend(ctx, "alice", "bob"); err != nil {
		t.Fatalf("follow failed: %v", err)
	}
	if err := social.FollowFriend(ctx, "alice", "carol"); err != nil {
		t.Fatalf("follow failed: %v", err)
	}
	for _, songID := range []string{"song1", "song2"} {
		if result := likes.LikeSong(ctx, "bob", songID); result.State != StateSuccess {
			t.Fatalf("like failed: %v", result.Err)
		}
	}

	favourites, err := social.FriendFavourites(ctx, "alice")
	if err != nil {
		t.Fatalf("friend favourites failed: %v", err)
	}
	if len(favourites) != 2 {
		t.Fatalf("expected 2 friends, got %d", len(favourites))
	}
	if got := favourites["bob"]; len(got) != 2 {
		t.Errorf("expected bob to have 2 favourites, got %v", got)
	}
	if got := favourites["carol"]; len(got) != 0 {
		t.Errorf("expected carol to have an empty list, got %v", got)
	}
}

func TestFriendFavouriteTitles(t *testing.T) {
	ctx := context.Background()

	t.Run("Resolves Titles", func(t *testing.T) {
		store := setupGraph(t, "alice", "bob")
		counter := tu.NewStubCounter()
		counter.Titles = map[string]string{"song1": "Take Five", "song2": "So What"}
		social := NewSocialEngine(store, counter, nil)
		likes := NewLikeEngine(store, counter, nil)

		if err := social.FollowFriend(ctx, "alice", "bob"); err != nil {
			t.Fatalf("follow failed: %v", err)
		}
		for _, songID := range []string{"song1", "song2"} {
			if result := likes.LikeSong(ctx, "bob", songID); result.State != StateSuccess {
				t.Fatalf("like failed: %v", result.Err)
			}
		}

		titles, err := social.FriendFavouriteTitles(ctx, "alice")
		if err != nil {
			t.Fatalf("friend favourite titles failed: %v", err)
		}
		want := []string{"Take Five", "So What"}
		got := titles["bob"]
		if len(got) != len(want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("title %d: expected %q, got %q", i, want[i], got[i])
			}
		}
	})

	t.Run("Skips Unknown Songs", func(t *testing.T) {
		store := setupGraph(t, "alice", "bob")
		counter := tu.NewStubCounter()
		counter.Titles = map[string]string{"song1": "Take Five"}
		social := NewSocialEngine(store, counter, nil)
		likes := NewLikeEngine(store, counter, nil)

		if err := social.FollowFriend(ctx, "alice", "bob"); err != nil {
			t.Fatalf("follow failed: %v", err)
		}
		for _, songID := range []string{"song1", "song2"} {
			if result := likes.LikeSong(ctx, "bob", songID); result.State != StateSuccess {
				t.Fatalf("like failed: %v", result.Err)
			}
		}

		titles, err := social.FriendFavouriteTitles(ctx, "alice")
		if err != nil {
			t.Fatalf("friend favourite titles failed: %v", err)
		}
		if got := titles["bob"]; len(got) != 1 || got[0] != "Take Five" {
			t.Errorf("expected only the resolvable title, got %v", got)
		}
	})

	t.Run("Lookup Failure Fails The Call", func(t *testing.T) {
		store := setupGraph(t, "alice", "bob")
		counter := tu.NewStubCounter()
		social := NewSocialEngine(store, counter, nil)
		likes := NewLikeEngine(store, counter, nil)

		if err := social.FollowFriend(ctx, "alice", "bob"); err != nil {
			t.Fatalf("follow failed: %v", err)
		}
		if result := likes.LikeSong(ctx, "bob", "song1"); result.State != StateSuccess {
			t.Fatalf("like failed: %v", result.Err)
		}

		counter.LookupErr = shared.ErrRemoteUnavailable
		if _, err := social.FriendFavouriteTitles(ctx, "alice"); !errors.Is(err, shared.ErrRemoteUnavailable) {
			t.Errorf("expected ErrRemoteUnavailable, got %v", err)
		}
	})

	t.Run("Missing Profile", func(t *testing.T) {
		store := setupGraph(t)
		social := NewSocialEngine(store, tu.NewStubCounter(), nil)

		if _, err := social.FriendFavouriteTitles(ctx, "ghost"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
