package history

import (
	"errors"
	"testing"
)

func TestSelect_UnknownEntry(t *testing.T) {
	s := newTestStore(t)

	err := s.Select("no-such-id")
	if !errors.Is(err, ErrUnknownEntry) {
		t.Errorf("Select(unknown) error = %v, want ErrUnknownEntry", err)
	}
}

func TestSelection_PreservesOrder(t *testing.T) {
	s := newTestStore(t)

	a, _ := s.Append(6)
	b, _ := s.Append(3)
	c, _ := s.Append(1)

	// Selection order is user order, not history order.
	for _, it := range []*Item{b, c, a} {
		if err := s.Select(it.ID); err != nil {
			t.Fatalf("Select(%s) error = %v", it.ID, err)
		}
	}

	values, err := s.SelectedValues()
	if err != nil {
		t.Fatalf("SelectedValues() error = %v", err)
	}

	want := []int{3, 1, 6}
	if len(values) != len(want) {
		t.Fatalf("SelectedValues() = %v, want %v", values, want)
	}
	for i := range want {
		if values[i] != want[i] {
			t.Errorf("SelectedValues()[%d] = %d, want %d", i, values[i], want[i])
		}
	}
}

func TestSelect_Idempotent(t *testing.T) {
	s := newTestStore(t)

	a, _ := s.Append(2)
	for i := 0; i < 3; i++ {
		if err := s.Select(a.ID); err != nil {
			t.Fatalf("Select() #%d error = %v", i, err)
		}
	}

	if sel := s.Selection(); len(sel) != 1 {
		t.Errorf("Selection() = %v, want exactly one id", sel)
	}
}

func TestDeselect(t *testing.T) {
	s := newTestStore(t)

	a, _ := s.Append(2)
	b, _ := s.Append(5)

	s.Select(a.ID)
	s.Select(b.ID)
	s.Deselect(a.ID)

	sel := s.Selection()
	if len(sel) != 1 || sel[0] != b.ID {
		t.Errorf("Selection() = %v, want [%s]", sel, b.ID)
	}

	// Deselecting something absent is a no-op.
	s.Deselect("no-such-id")
	if sel := s.Selection(); len(sel) != 1 {
		t.Errorf("Selection() = %v after bogus Deselect, want 1 id", sel)
	}
}

func TestAppend_ClearsSelection(t *testing.T) {
	s := newTestStore(t)

	a, _ := s.Append(2)
	if err := s.Select(a.ID); err != nil {
		t.Fatalf("Select() error = %v", err)
	}

	if _, err := s.Append(5); err != nil {
		t.Fatalf("Append(5) error = %v", err)
	}

	if sel := s.Selection(); len(sel) != 0 {
		t.Errorf("Selection() = %v after append, want empty (mutations clear selection)", sel)
	}
}

func TestAppend_DuplicateNoOpKeepsSelection(t *testing.T) {
	s := newTestStore(t)

	a, _ := s.Append(2)
	s.Select(a.ID)

	// Adjacent duplicate does not mutate the log, so the selection survives.
	if _, err := s.Append(2); err != nil {
		t.Fatalf("Append(2) error = %v", err)
	}

	if sel := s.Selection(); len(sel) != 1 {
		t.Errorf("Selection() = %v after no-op append, want 1 id", sel)
	}
}

func TestClearSelection(t *testing.T) {
	s := newTestStore(t)

	a, _ := s.Append(2)
	s.Select(a.ID)
	s.ClearSelection()

	if sel := s.Selection(); len(sel) != 0 {
		t.Errorf("Selection() = %v after ClearSelection(), want empty", sel)
	}

	// The log itself is untouched.
	n, _ := s.Count()
	if n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
}
