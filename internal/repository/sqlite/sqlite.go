// Package sqlite implements the repository interfaces on SQLite.
//
// modernc.org/sqlite is a pure Go translation of SQLite, so there is no
// CGo requirement. The blank import below registers it with database/sql
// as the "sqlite" driver.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/sakif/record-crate/internal/repository"
)

// DB wraps a sql.DB connection pool and exposes one store per entity.
// All stores share the pool; DB owns its lifecycle.
type DB struct {
	conn *sql.DB

	Artists *ArtistStore
	Albums  *AlbumStore
	Labels  *LabelStore
	Tracks  *TrackStore
	Ratings *RatingStore
	Lists   *ListStore
	Users   *UserStore
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" for tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed while a write is in flight, which matters for a
	// web server. Foreign keys are off by default in SQLite; the catalog
	// depends on them (cascaded deletes, label references).
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	db.Artists = &ArtistStore{conn: conn}
	db.Albums = &AlbumStore{conn: conn}
	db.Labels = &LabelStore{conn: conn}
	db.Tracks = &TrackStore{conn: conn}
	db.Ratings = &RatingStore{conn: conn}
	db.Lists = &ListStore{conn: conn}
	db.Users = &UserStore{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Always defer this next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the catalog schema. CREATE ... IF NOT EXISTS keeps it
// safe to run on every start.
func (db *DB) migrate() error {
	stmts := []struct {
		name string
		sql  string
	}{
		{"users", `
			CREATE TABLE IF NOT EXISTS users (
				id            TEXT PRIMARY KEY,
				username      TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				is_admin      INTEGER NOT NULL DEFAULT 0,
				created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
		`},
		{"labels", `
			CREATE TABLE IF NOT EXISTS labels (
				id           TEXT PRIMARY KEY,
				name         TEXT NOT NULL UNIQUE,
				description  TEXT NOT NULL DEFAULT '',
				founded_year INTEGER NOT NULL DEFAULT 0,
				country      TEXT NOT NULL DEFAULT '',
				website      TEXT NOT NULL DEFAULT '',
				created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
		`},
		{"artists", `
			CREATE TABLE IF NOT EXISTS artists (
				id          TEXT PRIMARY KEY,
				name        TEXT NOT NULL,
				bio         TEXT NOT NULL DEFAULT '',
				location    TEXT NOT NULL DEFAULT '',
				formed_year INTEGER NOT NULL DEFAULT 0,
				label_id    TEXT REFERENCES labels(id) ON DELETE SET NULL,
				created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_artists_name ON artists(name);
			CREATE INDEX IF NOT EXISTS idx_artists_label_id ON artists(label_id);
		`},
		{"albums", `
			CREATE TABLE IF NOT EXISTS albums (
				id           TEXT PRIMARY KEY,
				title        TEXT NOT NULL,
				artist_id    TEXT NOT NULL REFERENCES artists(id) ON DELETE CASCADE,
				release_year INTEGER NOT NULL DEFAULT 0,
				label        TEXT NOT NULL DEFAULT '',
				label_id     TEXT REFERENCES labels(id) ON DELETE SET NULL,
				cover_image  TEXT NOT NULL DEFAULT '',
				format       TEXT NOT NULL DEFAULT '',
				style        TEXT NOT NULL DEFAULT '',
				release_type TEXT NOT NULL DEFAULT '',
				created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_albums_artist_id ON albums(artist_id);
			CREATE INDEX IF NOT EXISTS idx_albums_label_id ON albums(label_id);
		`},
		{"tracks", `
			CREATE TABLE IF NOT EXISTS tracks (
				id         TEXT PRIMARY KEY,
				album_id   TEXT NOT NULL REFERENCES albums(id) ON DELETE CASCADE,
				position   TEXT NOT NULL DEFAULT '',
				title      TEXT NOT NULL,
				duration   TEXT NOT NULL DEFAULT '',
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_tracks_album_id ON tracks(album_id);
		`},
		{"ratings", `
			CREATE TABLE IF NOT EXISTS ratings (
				user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				album_id   TEXT NOT NULL REFERENCES albums(id) ON DELETE CASCADE,
				rating     INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				PRIMARY KEY (user_id, album_id)
			);
			CREATE INDEX IF NOT EXISTS idx_ratings_album_id ON ratings(album_id);
		`},
		{"lists", `
			CREATE TABLE IF NOT EXISTS lists (
				id          TEXT PRIMARY KEY,
				user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				name        TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				is_public   INTEGER NOT NULL DEFAULT 1,
				share_id    TEXT NOT NULL UNIQUE,
				created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_lists_user_id ON lists(user_id);
		`},
		{"list_items", `
			CREATE TABLE IF NOT EXISTS list_items (
				id         TEXT PRIMARY KEY,
				list_id    TEXT NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
				item_type  TEXT NOT NULL CHECK (item_type IN ('artist', 'album')),
				artist_id  TEXT REFERENCES artists(id) ON DELETE CASCADE,
				album_id   TEXT REFERENCES albums(id) ON DELETE CASCADE,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_list_items_list_id ON list_items(list_id);
			-- SQLite treats NULLs as distinct in plain UNIQUE constraints,
			-- so the duplicate guard is an expression index over coalesced
			-- target columns. This is what makes AddItem atomic.
			CREATE UNIQUE INDEX IF NOT EXISTS idx_list_items_target
				ON list_items(list_id, item_type, COALESCE(artist_id, ''), COALESCE(album_id, ''));
		`},
	}

	for _, s := range stmts {
		if _, err := db.conn.Exec(s.sql); err != nil {
			return fmt.Errorf("creating %s: %w", s.name, err)
		}
	}
	return nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
// database/sql has no portable error code for this; the modernc driver
// surfaces SQLite's message text.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// normalizePage clamps pagination options to sane values. Limit 0 would
// otherwise translate to LIMIT 0 and return nothing.
func normalizePage(opts repository.ListOptions) (limit, offset int) {
	limit = opts.Limit
	if limit <= 0 {
		limit = 20
	}
	offset = opts.Offset
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// nullable maps the empty string to NULL for optional foreign-key columns.
// An empty-string reference would trip the foreign-key check; NULL means
// "no reference".
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
