package graph

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/songgraph/internal/models"
	"github.com/desertthunder/songgraph/internal/shared"
)

// sqliteSchema models the graph relationally: one table per node label, one
// table per edge type. Edge tables carry a composite primary key so an edge
// exists at most once per ordered pair. The includes rowid preserves the
// order songs were added to a playlist.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		user_name TEXT PRIMARY KEY,
		full_name TEXT NOT NULL,
		password TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS playlists (
		pl_name TEXT PRIMARY KEY,
		owner TEXT NOT NULL UNIQUE REFERENCES profiles(user_name)
	)`,
	`CREATE TABLE IF NOT EXISTS songs (
		song_id TEXT PRIMARY KEY
	)`,
	`CREATE TABLE IF NOT EXISTS follows (
		user_name TEXT NOT NULL REFERENCES profiles(user_name),
		friend_user_name TEXT NOT NULL REFERENCES profiles(user_name),
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (user_name, friend_user_name)
	)`,
	`CREATE TABLE IF NOT EXISTS includes (
		pl_name TEXT NOT NULL REFERENCES playlists(pl_name),
		song_id TEXT NOT NULL REFERENCES songs(song_id),
		PRIMARY KEY (pl_name, song_id)
	)`,
}

// SQLiteStore implements [Store] on an embedded SQLite database.
//
// Each operation runs in one transaction: read-check-then-write with a single
// commit point, mirroring the semantics of the Neo4j backend.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new [SQLiteStore] with the given database connection.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// EnsureSchema creates the node and edge tables if they do not exist.
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("ensure schema", err)
	}
	defer tx.Rollback()

	for _, stmt := range sqliteSchema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return storeErr("ensure schema", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storeErr("ensure schema", err)
	}
	return nil
}

// CreateProfile inserts the profile and its favourites playlist in one transaction.
func (s *SQLiteStore) CreateProfile(ctx context.Context, profile models.Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("create profile", err)
	}
	defer tx.Rollback()

	exists, err := rowExists(ctx, tx, `SELECT 1 FROM profiles WHERE user_name = ?`, profile.UserName)
	if err != nil {
		return storeErr("create profile", err)
	}
	if exists {
		return fmt.Errorf("profile %q: %w", profile.UserName, shared.ErrAlreadyExists)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO profiles (user_name, full_name, password) VALUES (?, ?, ?)`,
		profile.UserName, profile.FullName, profile.Password); err != nil {
		return storeErr("create profile", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO playlists (pl_name, owner) VALUES (?, ?)`,
		profile.PlaylistName(), profile.UserName); err != nil {
		return storeErr("create profile", err)
	}

	if err := tx.Commit(); err != nil {
		return storeErr("create profile", err)
	}
	return nil
}

// Follow creates a follows edge from userName to friendUserName.
func (s *SQLiteStore) Follow(ctx context.Context, userName, friendUserName string) error {
	if err := requirePair(userName, friendUserName); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("follow", err)
	}
	defer tx.Rollback()

	if err := requireProfiles(ctx, tx, userName, friendUserName); err != nil {
		return err
	}

	exists, err := rowExists(ctx, tx,
		`SELECT 1 FROM follows WHERE user_name = ? AND friend_user_name = ?`, userName, friendUserName)
	if err != nil {
		return storeErr("follow", err)
	}
	if exists {
		return fmt.Errorf("%s already follows %s: %w", userName, friendUserName, shared.ErrAlreadyExists)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO follows (user_name, friend_user_name) VALUES (?, ?)`,
		userName, friendUserName); err != nil {
		return storeErr("follow", err)
	}

	if err := tx.Commit(); err != nil {
		return storeErr("follow", err)
	}
	return nil
}

// Unfollow removes the follows edge from userName to friendUserName.
func (s *SQLiteStore) Unfollow(ctx context.Context, userName, friendUserName string) error {
	if err := requirePair(userName, friendUserName); err != nil {
		return err
	}
	if userName == friendUserName {
		return fmt.Errorf("%w: user cannot unfollow themself", shared.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("unfollow", err)
	}
	defer tx.Rollback()

	if err := requireProfiles(ctx, tx, userName, friendUserName); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM follows WHERE user_name = ? AND friend_user_name = ?`, userName, friendUserName)
	if err != nil {
		return storeErr("unfollow", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return storeErr("unfollow", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s does not follow %s: %w", userName, friendUserName, shared.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return storeErr("unfollow", err)
	}
	return nil
}

// AddIncludes upserts the song node and the includes edge from the user's
// playlist. A second call for the same pair reports added=false and leaves
// exactly one edge in place.
func (s *SQLiteStore) AddIncludes(ctx context.Context, userName, songID string) (bool, error) {
	if err := requirePair(userName, songID); err != nil {
		return false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, storeErr("add includes", err)
	}
	defer tx.Rollback()

	exists, err := rowExists(ctx, tx, `SELECT 1 FROM profiles WHERE user_name = ?`, userName)
	if err != nil {
		return false, storeErr("add includes", err)
	}
	if !exists {
		return false, fmt.Errorf("profile %q: %w", userName, shared.ErrNotFound)
	}

	plName := models.PlaylistName(userName)

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO songs (song_id) VALUES (?) ON CONFLICT (song_id) DO NOTHING`, songID); err != nil {
		return false, storeErr("add includes", err)
	}

	// added comes from the insert itself, not a pre-read, so a concurrent
	// like of the same pair resolves on the composite primary key: exactly
	// one caller sees a row inserted.
	res, err := tx.ExecContext(ctx,
		`INSERT INTO includes (pl_name, song_id) VALUES (?, ?)
		   ON CONFLICT (pl_name, song_id) DO NOTHING`, plName, songID)
	if err != nil {
		return false, storeErr("add includes", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, storeErr("add includes", err)
	}

	if err := tx.Commit(); err != nil {
		return false, storeErr("add includes", err)
	}
	return rows > 0, nil
}

// RemoveIncludes deletes the includes edge, then garbage-collects the song
// node in the same transaction when nothing references it anymore.
func (s *SQLiteStore) RemoveIncludes(ctx context.Context, userName, songID string) error {
	if err := requirePair(userName, songID); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("remove includes", err)
	}
	defer tx.Rollback()

	exists, err := rowExists(ctx, tx, `SELECT 1 FROM profiles WHERE user_name = ?`, userName)
	if err != nil {
		return storeErr("remove includes", err)
	}
	if !exists {
		return fmt.Errorf("profile %q: %w", userName, shared.ErrNotFound)
	}

	exists, err = rowExists(ctx, tx, `SELECT 1 FROM songs WHERE song_id = ?`, songID)
	if err != nil {
		return storeErr("remove includes", err)
	}
	if !exists {
		return fmt.Errorf("song %q: %w", songID, shared.ErrNotFound)
	}

	plName := models.PlaylistName(userName)

	res, err := tx.ExecContext(ctx,
		`DELETE FROM includes WHERE pl_name = ? AND song_id = ?`, plName, songID)
	if err != nil {
		return storeErr("remove includes", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return storeErr("remove includes", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s's playlist does not include %q: %w", userName, songID, shared.ErrNotFound)
	}

	// orphan rule: a song with no incoming includes edges must not persist
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM songs WHERE song_id = ?
		   AND NOT EXISTS (SELECT 1 FROM includes WHERE song_id = ?)`, songID, songID); err != nil {
		return storeErr("remove includes", err)
	}

	if err := tx.Commit(); err != nil {
		return storeErr("remove includes", err)
	}
	return nil
}

// PurgeSong removes the song node and every includes edge touching it.
// Purging a song that is already gone is a success.
func (s *SQLiteStore) PurgeSong(ctx context.Context, songID string) error {
	if songID == "" {
		return fmt.Errorf("%w: songId is required", shared.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("purge song", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM includes WHERE song_id = ?`, songID); err != nil {
		return storeErr("purge song", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM songs WHERE song_id = ?`, songID); err != nil {
		return storeErr("purge song", err)
	}

	if err := tx.Commit(); err != nil {
		return storeErr("purge song", err)
	}
	return nil
}

// FriendsFavourites returns each followed friend's ordered song id list.
func (s *SQLiteStore) FriendsFavourites(ctx context.Context, userName string) (models.FavouritesByFriend, error) {
	if userName == "" {
		return nil, fmt.Errorf("%w: userName is required", shared.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storeErr("friends favourites", err)
	}
	defer tx.Rollback()

	exists, err := rowExists(ctx, tx, `SELECT 1 FROM profiles WHERE user_name = ?`, userName)
	if err != nil {
		return nil, storeErr("friends favourites", err)
	}
	if !exists {
		return nil, fmt.Errorf("profile %q: %w", userName, shared.ErrNotFound)
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT friend_user_name FROM follows WHERE user_name = ?`, userName)
	if err != nil {
		return nil, storeErr("friends favourites", err)
	}
	defer rows.Close()

	var friends []string
	for rows.Next() {
		var friend string
		if err := rows.Scan(&friend); err != nil {
			return nil, storeErr("friends favourites", err)
		}
		friends = append(friends, friend)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("friends favourites", err)
	}

	favourites := models.FavouritesByFriend{}
	for _, friend := range friends {
		songIDs, err := playlistSongs(ctx, tx, models.PlaylistName(friend))
		if err != nil {
			return nil, storeErr("friends favourites", err)
		}
		favourites[friend] = songIDs
	}

	if err := tx.Commit(); err != nil {
		return nil, storeErr("friends favourites", err)
	}
	return favourites, nil
}

// SongExists reports whether a song node is present.
func (s *SQLiteStore) SongExists(ctx context.Context, songID string) (bool, error) {
	if songID == "" {
		return false, fmt.Errorf("%w: songId is required", shared.ErrInvalidInput)
	}

	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM songs WHERE song_id = ?`, songID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, storeErr("song exists", err)
	}
	return true, nil
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close(ctx context.Context) error {
	return s.db.Close()
}

// playlistSongs reads a playlist's song ids in insertion order.
func playlistSongs(ctx context.Context, tx *sql.Tx, plName string) ([]string, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT song_id FROM includes WHERE pl_name = ? ORDER BY rowid ASC`, plName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	songIDs := []string{}
	for rows.Next() {
		var songID string
		if err := rows.Scan(&songID); err != nil {
			return nil, err
		}
		songIDs = append(songIDs, songID)
	}
	return songIDs, rows.Err()
}

// requireProfiles checks that both endpoints of a follows edge exist.
func requireProfiles(ctx context.Context, tx *sql.Tx, userName, friendUserName string) error {
	for _, name := range []string{userName, friendUserName} {
		exists, err := rowExists(ctx, tx, `SELECT 1 FROM profiles WHERE user_name = ?`, name)
		if err != nil {
			return storeErr("check profile", err)
		}
		if !exists {
			return fmt.Errorf("profile %q: %w", name, shared.ErrNotFound)
		}
	}
	return nil
}

func rowExists(ctx context.Context, tx *sql.Tx, query string, args ...any) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
