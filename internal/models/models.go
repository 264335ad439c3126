// package models defines the data model for the songgraph social service
package models

import (
	"fmt"
	"strings"

	"github.com/desertthunder/songgraph/internal/shared"
)

// Profile represents a user profile stored in the graph.
//
// UserName is the identity: unique, immutable, and non-empty. Password is
// opaque to this service and stored as given.
type Profile struct {
	UserName string
	FullName string
	Password string
}

// NewProfile creates a Profile from its three attributes.
func NewProfile(userName, fullName, password string) Profile {
	return Profile{UserName: userName, FullName: fullName, Password: password}
}

// Validate checks that all profile attributes are present.
func (p Profile) Validate() error {
	if p.UserName == "" || p.FullName == "" || p.Password == "" {
		return fmt.Errorf("%w: userName, fullName and password are required", shared.ErrInvalidInput)
	}
	return nil
}

// PlaylistName returns the name of the profile's favourites playlist.
//
// Every profile owns exactly one playlist, created with the profile.
func (p Profile) PlaylistName() string {
	return PlaylistName(p.UserName)
}

// PlaylistName derives the favourites playlist name for a userName.
func PlaylistName(userName string) string {
	return userName + "-favorites"
}

// FavouritesByFriend maps a followed friend's userName to the ordered song ids
// in that friend's favourites playlist.
type FavouritesByFriend map[string][]string

// TitlesByFriend maps a followed friend's userName to resolved song titles.
type TitlesByFriend map[string][]string

// SongRef is a song's projection in the graph: an externally issued id with
// no attributes of its own.
type SongRef struct {
	SongID string
}

// Validate checks the song id is present and not blank.
func (s SongRef) Validate() error {
	if strings.TrimSpace(s.SongID) == "" {
		return fmt.Errorf("%w: songId is required", shared.ErrInvalidInput)
	}
	return nil
}
