// Package models defines domain entities shared across the songgraph service.
//
// The graph store keys everything by natural identifiers rather than
// surrogate ids:
//   - [Profile] : a user, identified by userName
//   - [PlaylistName] : the derived `<userName>-favorites` playlist identity
//   - [SongRef] : a song's graph projection, identified by an externally
//     issued songId (the songs microservice owns the full record)
//
// Aggregation results ([FavouritesByFriend], [TitlesByFriend]) are plain map
// types so the routing layer can serialize them directly.
package models
