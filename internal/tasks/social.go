package tasks

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songgraph/internal/graph"
	"github.com/desertthunder/songgraph/internal/models"
	"github.com/desertthunder/songgraph/internal/services"
	"github.com/desertthunder/songgraph/internal/shared"
)

// SocialEngine exposes the profile and follow operations. It adds no state of
// its own: the graph store owns every structural invariant, this layer owns
// the fan-out and title resolution on top.
type SocialEngine struct {
	store   graph.Store
	counter services.Counter
	logger  *log.Logger
}

// NewSocialEngine creates a new SocialEngine with the given store and counter client.
func NewSocialEngine(store graph.Store, counter services.Counter, logger *log.Logger) *SocialEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &SocialEngine{store: store, counter: counter, logger: logger}
}

// CreateProfile creates a profile together with its favourites playlist.
func (e *SocialEngine) CreateProfile(ctx context.Context, profile models.Profile) error {
	return e.store.CreateProfile(ctx, profile)
}

// FollowFriend makes userName follow friendUserName.
func (e *SocialEngine) FollowFriend(ctx context.Context, userName, friendUserName string) error {
	return e.store.Follow(ctx, userName, friendUserName)
}

// UnfollowFriend removes the follow edge from userName to friendUserName.
func (e *SocialEngine) UnfollowFriend(ctx context.Context, userName, friendUserName string) error {
	return e.store.Unfollow(ctx, userName, friendUserName)
}

// FriendFavourites maps each followed friend to the ordered song ids in that
// friend's playlist. Friend iteration order is not guaranteed; the per-friend
// list preserves playlist order.
func (e *SocialEngine) FriendFavourites(ctx context.Context, userName string) (models.FavouritesByFriend, error) {
	return e.store.FriendsFavourites(ctx, userName)
}

// FriendFavouriteTitles resolves each friend's song ids to titles through the
// songs service, one lookup per id.
//
// Ids the songs service no longer knows are skipped with a warning rather
// than failing the whole aggregation; a transport failure does fail it.
func (e *SocialEngine) FriendFavouriteTitles(ctx context.Context, userName string) (models.TitlesByFriend, error) {
	favourites, err := e.store.FriendsFavourites(ctx, userName)
	if err != nil {
		return nil, err
	}

	titlesByFriend := models.TitlesByFriend{}
	for friend, songIDs := range favourites {
		titles := make([]string, 0, len(songIDs))
		for _, songID := range songIDs {
			title, found, err := e.counter.LookupTitle(ctx, songID)
			if err != nil {
				return nil, err
			}
			if !found {
				e.logger.Warn("song id in graph unknown to songs service",
					"friend", friend, "songId", songID)
				continue
			}
			titles = append(titles, title)
		}
		titlesByFriend[friend] = titles
	}

	return titlesByFriend, nil
}
