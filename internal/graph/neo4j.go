// Neo4j implementation of [Store]
//
// Node labels and relationship types follow the graph model:
// (profile)-[:created]->(playlist)-[:includes]->(song) and
// (profile)-[:follows]->(profile).
package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/songgraph/internal/models"
	"github.com/desertthunder/songgraph/internal/shared"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4jStore implements [Store] against a bolt-connected Neo4j instance.
//
// Every operation runs inside one managed transaction (ExecuteWrite or
// ExecuteRead), so existence checks and writes commit atomically.
type Neo4jStore struct {
	driver neo4j.DriverWithContext
}

// NewNeo4jStore creates a new [Neo4jStore] with the given driver.
func NewNeo4jStore(driver neo4j.DriverWithContext) *Neo4jStore {
	return &Neo4jStore{driver: driver}
}

// EnsureSchema creates uniqueness constraints so identifier lookups are indexed.
func (s *Neo4jStore) EnsureSchema(ctx context.Context) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		constraints := []string{
			`CREATE CONSTRAINT profile_user_name IF NOT EXISTS FOR (p:profile) REQUIRE p.userName IS UNIQUE`,
			`CREATE CONSTRAINT playlist_pl_name IF NOT EXISTS FOR (pl:playlist) REQUIRE pl.plName IS UNIQUE`,
			`CREATE CONSTRAINT song_song_id IF NOT EXISTS FOR (sn:song) REQUIRE sn.songId IS UNIQUE`,
		}
		for _, query := range constraints {
			if _, err := tx.Run(ctx, query, nil); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return wrapNeo4jErr("ensure schema", err)
}

// CreateProfile creates the profile node and its favourites playlist via a
// created edge, in one write.
func (s *Neo4jStore) CreateProfile(ctx context.Context, profile models.Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		exists, err := nodeExists(ctx, tx,
			`MATCH (p:profile {userName: $userName}) RETURN p`,
			map[string]any{"userName": profile.UserName})
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("profile %q: %w", profile.UserName, shared.ErrAlreadyExists)
		}

		_, err = tx.Run(ctx,
			`CREATE (p:profile {userName: $userName, fullName: $fullName, password: $password})
			        -[:created]->(pl:playlist {plName: $plName})`,
			map[string]any{
				"userName": profile.UserName,
				"fullName": profile.FullName,
				"password": profile.Password,
				"plName":   profile.PlaylistName(),
			})
		return nil, err
	})
	return wrapNeo4jErr("create profile", err)
}

// Follow creates a follows edge between two existing profiles.
func (s *Neo4jStore) Follow(ctx context.Context, userName, friendUserName string) error {
	if err := requirePair(userName, friendUserName); err != nil {
		return err
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if err := requireProfileNodes(ctx, tx, userName, friendUserName); err != nil {
			return nil, err
		}

		linked, err := relationExists(ctx, tx,
			`MATCH (a:profile {userName: $userName}), (b:profile {userName: $friendUserName})
			 RETURN EXISTS((a)-[:follows]->(b)) AS rlExists`,
			map[string]any{"userName": userName, "friendUserName": friendUserName})
		if err != nil {
			return nil, err
		}
		if linked {
			return nil, fmt.Errorf("%s already follows %s: %w", userName, friendUserName, shared.ErrAlreadyExists)
		}

		_, err = tx.Run(ctx,
			`MATCH (a:profile {userName: $userName})
			 MATCH (b:profile {userName: $friendUserName})
			 MERGE (a)-[:follows]->(b)`,
			map[string]any{"userName": userName, "friendUserName": friendUserName})
		return nil, err
	})
	return wrapNeo4jErr("follow", err)
}

// Unfollow deletes a follows edge between two existing profiles.
func (s *Neo4jStore) Unfollow(ctx context.Context, userName, friendUserName string) error {
	if err := requirePair(userName, friendUserName); err != nil {
		return err
	}
	if userName == friendUserName {
		return fmt.Errorf("%w: user cannot unfollow themself", shared.ErrInvalidInput)
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if err := requireProfileNodes(ctx, tx, userName, friendUserName); err != nil {
			return nil, err
		}

		linked, err := relationExists(ctx, tx,
			`MATCH (a:profile {userName: $userName}), (b:profile {userName: $friendUserName})
			 RETURN EXISTS((a)-[:follows]->(b)) AS rlExists`,
			map[string]any{"userName": userName, "friendUserName": friendUserName})
		if err != nil {
			return nil, err
		}
		if !linked {
			return nil, fmt.Errorf("%s does not follow %s: %w", userName, friendUserName, shared.ErrNotFound)
		}

		_, err = tx.Run(ctx,
			`MATCH (a:profile {userName: $userName})-[r:follows]->(b:profile {userName: $friendUserName})
			 DELETE r`,
			map[string]any{"userName": userName, "friendUserName": friendUserName})
		return nil, err
	})
	return wrapNeo4jErr("unfollow", err)
}

// AddIncludes merges the song node and the includes edge from the user's playlist.
func (s *Neo4jStore) AddIncludes(ctx context.Context, userName, songID string) (bool, error) {
	if err := requirePair(userName, songID); err != nil {
		return false, err
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	added, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		exists, err := nodeExists(ctx, tx,
			`MATCH (p:profile {userName: $userName}) RETURN p`,
			map[string]any{"userName": userName})
		if err != nil {
			return false, err
		}
		if !exists {
			return false, fmt.Errorf("profile %q: %w", userName, shared.ErrNotFound)
		}

		plName := models.PlaylistName(userName)

		// Derive added from the MERGE's own counters. A separate pre-read
		// would take no locks, letting two concurrent likes of the same
		// pair both report a new edge; MERGE re-checks under node locks,
		// so only the creator sees relationshipsCreated > 0.
		res, err := tx.Run(ctx,
			`MATCH (pl:playlist {plName: $plName})
			 MERGE (sn:song {songId: $songId})
			 MERGE (pl)-[:includes]->(sn)`,
			map[string]any{"plName": plName, "songId": songID})
		if err != nil {
			return false, err
		}
		summary, err := res.Consume(ctx)
		if err != nil {
			return false, err
		}
		return summary.Counters().RelationshipsCreated() > 0, nil
	})
	if err != nil {
		return false, wrapNeo4jErr("add includes", err)
	}
	return added.(bool), nil
}

// RemoveIncludes deletes the includes edge, then garbage-collects the song
// node in the same transaction when no playlist references it anymore.
func (s *Neo4jStore) RemoveIncludes(ctx context.Context, userName, songID string) error {
	if err := requirePair(userName, songID); err != nil {
		return err
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		exists, err := nodeExists(ctx, tx,
			`MATCH (p:profile {userName: $userName}) RETURN p`,
			map[string]any{"userName": userName})
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("profile %q: %w", userName, shared.ErrNotFound)
		}

		exists, err = nodeExists(ctx, tx,
			`MATCH (sn:song {songId: $songId}) RETURN sn`,
			map[string]any{"songId": songID})
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("song %q: %w", songID, shared.ErrNotFound)
		}

		plName := models.PlaylistName(userName)

		linked, err := relationExists(ctx, tx,
			`MATCH (pl:playlist {plName: $plName}), (sn:song {songId: $songId})
			 RETURN EXISTS((pl)-[:includes]->(sn)) AS rlExists`,
			map[string]any{"plName": plName, "songId": songID})
		if err != nil {
			return nil, err
		}
		if !linked {
			return nil, fmt.Errorf("%s's playlist does not include %q: %w", userName, songID, shared.ErrNotFound)
		}

		if _, err := tx.Run(ctx,
			`MATCH (pl:playlist {plName: $plName})-[r:includes]->(sn:song {songId: $songId})
			 DELETE r`,
			map[string]any{"plName": plName, "songId": songID}); err != nil {
			return nil, err
		}

		// orphan rule: a song with no incoming includes edges must not persist
		_, err = tx.Run(ctx,
			`MATCH (sn:song {songId: $songId})
			 WHERE NOT ()-[:includes]->(sn)
			 DETACH DELETE sn`,
			map[string]any{"songId": songID})
		return nil, err
	})
	return wrapNeo4jErr("remove includes", err)
}

// PurgeSong detach-deletes the song node and every edge touching it.
func (s *Neo4jStore) PurgeSong(ctx context.Context, songID string) error {
	if songID == "" {
		return fmt.Errorf("%w: songId is required", shared.ErrInvalidInput)
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx,
			`MATCH (sn:song {songId: $songId}) DETACH DELETE sn`,
			map[string]any{"songId": songID})
		return nil, err
	})
	return wrapNeo4jErr("purge song", err)
}

// FriendsFavourites returns each followed friend's ordered song id list.
func (s *Neo4jStore) FriendsFavourites(ctx context.Context, userName string) (models.FavouritesByFriend, error) {
	if userName == "" {
		return nil, fmt.Errorf("%w: userName is required", shared.ErrInvalidInput)
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		exists, err := nodeExists(ctx, tx,
			`MATCH (p:profile {userName: $userName}) RETURN p`,
			map[string]any{"userName": userName})
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("profile %q: %w", userName, shared.ErrNotFound)
		}

		res, err := tx.Run(ctx,
			`MATCH (p:profile {userName: $userName})-[:follows]->(f:profile)
			 RETURN f.userName AS name`,
			map[string]any{"userName": userName})
		if err != nil {
			return nil, err
		}

		var friends []string
		for res.Next(ctx) {
			name, _ := res.Record().Get("name")
			friends = append(friends, name.(string))
		}
		if err := res.Err(); err != nil {
			return nil, err
		}

		favourites := models.FavouritesByFriend{}
		for _, friend := range friends {
			res, err := tx.Run(ctx,
				`MATCH (f:profile {userName: $userName})-[:created]->(pl:playlist)
				 MATCH (pl)-[:includes]->(sn:song)
				 RETURN sn.songId AS songId`,
				map[string]any{"userName": friend})
			if err != nil {
				return nil, err
			}

			songIDs := []string{}
			for res.Next(ctx) {
				songID, _ := res.Record().Get("songId")
				songIDs = append(songIDs, songID.(string))
			}
			if err := res.Err(); err != nil {
				return nil, err
			}
			favourites[friend] = songIDs
		}
		return favourites, nil
	})
	if err != nil {
		return nil, wrapNeo4jErr("friends favourites", err)
	}
	return result.(models.FavouritesByFriend), nil
}

// SongExists reports whether a song node is present.
func (s *Neo4jStore) SongExists(ctx context.Context, songID string) (bool, error) {
	if songID == "" {
		return false, fmt.Errorf("%w: songId is required", shared.ErrInvalidInput)
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	exists, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nodeExists(ctx, tx,
			`MATCH (sn:song {songId: $songId}) RETURN sn`,
			map[string]any{"songId": songID})
	})
	if err != nil {
		return false, wrapNeo4jErr("song exists", err)
	}
	return exists.(bool), nil
}

// Close closes the underlying driver.
func (s *Neo4jStore) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// nodeExists runs a MATCH query and reports whether it returned a record.
func nodeExists(ctx context.Context, tx neo4j.ManagedTransaction, query string, params map[string]any) (bool, error) {
	res, err := tx.Run(ctx, query, params)
	if err != nil {
		return false, err
	}
	if res.Next(ctx) {
		return true, nil
	}
	return false, res.Err()
}

// relationExists runs a query returning a boolean rlExists column.
func relationExists(ctx context.Context, tx neo4j.ManagedTransaction, query string, params map[string]any) (bool, error) {
	res, err := tx.Run(ctx, query, params)
	if err != nil {
		return false, err
	}
	if res.Next(ctx) {
		val, _ := res.Record().Get("rlExists")
		linked, ok := val.(bool)
		return ok && linked, nil
	}
	return false, res.Err()
}

// requireProfileNodes checks that both endpoints of a follows edge exist.
func requireProfileNodes(ctx context.Context, tx neo4j.ManagedTransaction, userName, friendUserName string) error {
	for _, name := range []string{userName, friendUserName} {
		exists, err := nodeExists(ctx, tx,
			`MATCH (p:profile {userName: $userName}) RETURN p`,
			map[string]any{"userName": name})
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("profile %q: %w", name, shared.ErrNotFound)
		}
	}
	return nil
}

// wrapNeo4jErr passes through the store's own error taxonomy and tags
// anything else (driver, connectivity, constraint) as unavailable.
func wrapNeo4jErr(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range []error{
		shared.ErrInvalidInput, shared.ErrNotFound, shared.ErrAlreadyExists,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return storeErr(op, err)
}
