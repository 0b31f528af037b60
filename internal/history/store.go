// Package history provides the bounded, session-lifetime log of past detections.
//
// The store is backed by SQLite but is in-memory by default: history is scoped
// to the process and never persisted across runs. It also owns the transient
// selection set used for arithmetic over past results.
package history

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// MaxEntries bounds the history log. Appends beyond this evict the oldest entries.
const MaxEntries = 50

// Store holds past detections and the current selection set.
type Store struct {
	db *sql.DB

	mu        sync.Mutex
	selection []string
}

// New creates a Store. An empty path means a private in-memory database,
// which is the normal mode; a file path is accepted for debugging sessions.
func New(path string) (*Store, error) {
	if path == "" {
		path = ":memory:"
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// database/sql opens one :memory: database per connection; a single
	// connection keeps every query on the same database.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}

	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection. For the in-memory store this
// discards all history.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Detections table - one row per recorded finger count
		`CREATE TABLE IF NOT EXISTS detections (
			id TEXT PRIMARY KEY,
			value INTEGER NOT NULL CHECK(value >= 0),
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_detections_created_at ON detections(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
