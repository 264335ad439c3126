package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songgraph/internal/models"
	"github.com/desertthunder/songgraph/internal/shared"
	"github.com/desertthunder/songgraph/internal/tasks"
)

// Response status values returned in the envelope body.
const (
	StatusOK       = "OK"
	StatusNotFound = "NOT_FOUND"
	StatusError    = "ERROR"
)

// Response is the envelope every endpoint writes.
type Response struct {
	Path    string `json:"path"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// API exposes the social graph operations over HTTP.
type API struct {
	social *tasks.SocialEngine
	likes  *tasks.LikeEngine
	logger *log.Logger
}

func NewAPI(social *tasks.SocialEngine, likes *tasks.LikeEngine, logger *log.Logger) *API {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &API{social: social, likes: likes, logger: logger}
}

// Mount registers every endpoint on the given [Router].
func (a *API) Mount(r Router) {
	r.Handle(http.MethodPost, "/profile", http.HandlerFunc(a.CreateProfile))
	r.Handle(http.MethodPut, "/followFriend/{userName}/{friendUserName}", http.HandlerFunc(a.FollowFriend))
	r.Handle(http.MethodPut, "/unfollowFriend/{userName}/{friendUserName}", http.HandlerFunc(a.UnfollowFriend))
	r.Handle(http.MethodPut, "/likeSong/{userName}/{songId}", http.HandlerFunc(a.LikeSong))
	r.Handle(http.MethodPut, "/unlikeSong/{userName}/{songId}", http.HandlerFunc(a.UnlikeSong))
	r.Handle(http.MethodGet, "/getAllFriendFavouriteSongTitles/{userName}", http.HandlerFunc(a.FriendFavouriteTitles))
	r.Handle(http.MethodPut, "/deleteAllSongsFromDb/{songId}", http.HandlerFunc(a.DeleteAllSongs))
}

// CreateProfile handles POST /profile?userName=..&fullName=..&password=..
func (a *API) CreateProfile(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	profile := models.NewProfile(query.Get("userName"), query.Get("fullName"), query.Get("password"))
	if err := profile.Validate(); err != nil {
		a.respondErr(w, r, err)
		return
	}

	if err := a.social.CreateProfile(r.Context(), profile); err != nil {
		a.respondErr(w, r, err)
		return
	}
	a.respond(w, r, http.StatusOK, Response{Status: StatusOK, Message: "profile created"})
}

// FollowFriend handles PUT /followFriend/{userName}/{friendUserName}
func (a *API) FollowFriend(w http.ResponseWriter, r *http.Request) {
	userName := r.PathValue("userName")
	friendUserName := r.PathValue("friendUserName")

	if err := a.social.FollowFriend(r.Context(), userName, friendUserName); err != nil {
		a.respondErr(w, r, err)
		return
	}
	a.respond(w, r, http.StatusOK, Response{Status: StatusOK, Message: "friend followed"})
}

// UnfollowFriend handles PUT /unfollowFriend/{userName}/{friendUserName}
func (a *API) UnfollowFriend(w http.ResponseWriter, r *http.Request) {
	userName := r.PathValue("userName")
	friendUserName := r.PathValue("friendUserName")

	if err := a.social.UnfollowFriend(r.Context(), userName, friendUserName); err != nil {
		a.respondErr(w, r, err)
		return
	}
	a.respond(w, r, http.StatusOK, Response{Status: StatusOK, Message: "friend unfollowed"})
}

// LikeSong handles PUT /likeSong/{userName}/{songId}
func (a *API) LikeSong(w http.ResponseWriter, r *http.Request) {
	result := a.likes.LikeSong(r.Context(), r.PathValue("userName"), r.PathValue("songId"))
	a.respondResult(w, r, result)
}

// UnlikeSong handles PUT /unlikeSong/{userName}/{songId}
func (a *API) UnlikeSong(w http.ResponseWriter, r *http.Request) {
	result := a.likes.UnlikeSong(r.Context(), r.PathValue("userName"), r.PathValue("songId"))
	a.respondResult(w, r, result)
}

// FriendFavouriteTitles handles GET /getAllFriendFavouriteSongTitles/{userName}
func (a *API) FriendFavouriteTitles(w http.ResponseWriter, r *http.Request) {
	titles, err := a.social.FriendFavouriteTitles(r.Context(), r.PathValue("userName"))
	if err != nil {
		a.respondErr(w, r, err)
		return
	}
	a.respond(w, r, http.StatusOK, Response{Status: StatusOK, Data: titles})
}

// DeleteAllSongs handles PUT /deleteAllSongsFromDb/{songId}
func (a *API) DeleteAllSongs(w http.ResponseWriter, r *http.Request) {
	if err := a.likes.CascadeDeleteSong(r.Context(), r.PathValue("songId")); err != nil {
		a.respondErr(w, r, err)
		return
	}
	a.respond(w, r, http.StatusOK, Response{Status: StatusOK, Message: "song removed from all playlists"})
}

func (a *API) respond(w http.ResponseWriter, r *http.Request, code int, resp Response) {
	resp.Path = r.URL.Path
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		a.logger.Error("failed to encode response", "path", r.URL.Path, "err", err)
	}
}

// respondErr maps the error taxonomy onto HTTP codes and envelope statuses.
func (a *API) respondErr(w http.ResponseWriter, r *http.Request, err error) {
	var code int
	var status string

	switch {
	case errors.Is(err, shared.ErrNotFound):
		code, status = http.StatusNotFound, StatusNotFound
	case errors.Is(err, shared.ErrInvalidInput), errors.Is(err, shared.ErrAlreadyExists):
		code, status = http.StatusBadRequest, StatusError
	default:
		code, status = http.StatusInternalServerError, StatusError
		a.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}

	a.respond(w, r, code, Response{Status: status, Message: err.Error()})
}

// respondResult translates a saga outcome into a response. Partial failures
// report ERROR so callers retry, even though the graph write stuck.
func (a *API) respondResult(w http.ResponseWriter, r *http.Request, result tasks.LikeResult) {
	switch result.State {
	case tasks.StateSuccess:
		a.respond(w, r, http.StatusOK, Response{Status: StatusOK, Message: result.Message})
	case tasks.StateRejected:
		a.respondErr(w, r, result.Err)
	default:
		a.logger.Error("saga left partial state", "path", r.URL.Path, "err", result.Err)
		a.respond(w, r, http.StatusInternalServerError, Response{Status: StatusError, Message: result.Message})
	}
}
