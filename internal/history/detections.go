package history

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Item represents a recorded past detection. Immutable once created.
type Item struct {
	ID        string    `json:"id"`
	Value     int       `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

// Append records a detection result. When the most recent entry already holds
// the same value the append is a no-op and returns nil. Insert and truncation
// to MaxEntries happen in one transaction, so the log never observably exceeds
// MaxEntries. Any actual insert clears the selection set.
func (s *Store) Append(value int) (*Item, error) {
	if value < 0 {
		return nil, fmt.Errorf("history: value must be non-negative, got %d", value)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var last int
	err = tx.QueryRow(`SELECT value FROM detections ORDER BY rowid DESC LIMIT 1`).Scan(&last)
	switch {
	case err == nil:
		if last == value {
			// Adjacent duplicate: nothing to record.
			return nil, nil
		}
	case errors.Is(err, sql.ErrNoRows):
		// Empty log, first entry.
	default:
		return nil, err
	}

	item := &Item{
		ID:        uuid.NewString(),
		Value:     value,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := tx.Exec(
		`INSERT INTO detections (id, value, created_at) VALUES (?, ?, ?)`,
		item.ID, item.Value, item.CreatedAt,
	); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(
		`DELETE FROM detections WHERE rowid NOT IN
			(SELECT rowid FROM detections ORDER BY rowid DESC LIMIT ?)`,
		MaxEntries,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	// Selection ids may now point at evicted rows; any mutation drops the set.
	s.mu.Lock()
	s.selection = nil
	s.mu.Unlock()

	return item, nil
}

// List returns all entries, newest first.
func (s *Store) List() ([]Item, error) {
	rows, err := s.db.Query(
		`SELECT id, value, created_at FROM detections ORDER BY rowid DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Value, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// Count returns the number of recorded entries.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM detections`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Clear removes all entries and clears the selection set.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM detections`); err != nil {
		return err
	}

	s.mu.Lock()
	s.selection = nil
	s.mu.Unlock()

	return nil
}
