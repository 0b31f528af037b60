package history

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrUnknownEntry is returned when selecting an id that is not in the log.
var ErrUnknownEntry = errors.New("history: unknown entry")

// Select adds an entry to the selection set. Selection order is preserved;
// selecting an already-selected id is a no-op.
func (s *Store) Select(id string) error {
	var exists int
	err := s.db.QueryRow(`SELECT 1 FROM detections WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrUnknownEntry, id)
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sel := range s.selection {
		if sel == id {
			return nil
		}
	}
	s.selection = append(s.selection, id)
	return nil
}

// Deselect removes an entry from the selection set. Unknown ids are ignored.
func (s *Store) Deselect(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sel := range s.selection {
		if sel == id {
			s.selection = append(s.selection[:i], s.selection[i+1:]...)
			return
		}
	}
}

// Selection returns the selected ids in selection order.
func (s *Store) Selection() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.selection))
	copy(out, s.selection)
	return out
}

// ClearSelection empties the selection set without touching the log.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = nil
}

// SelectedValues resolves the selection to finger counts, in selection order.
func (s *Store) SelectedValues() ([]int, error) {
	ids := s.Selection()

	values := make([]int, 0, len(ids))
	for _, id := range ids {
		var v int
		err := s.db.QueryRow(`SELECT value FROM detections WHERE id = ?`, id).Scan(&v)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownEntry, id)
		}
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	return values, nil
}
