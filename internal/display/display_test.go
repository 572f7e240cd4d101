package display

import (
	"errors"
	"testing"
)

var (
	_ Display = (*LCD)(nil)
	_ Display = (*Buffer)(nil)
)

func TestBufferWriteAt(t *testing.T) {
	b := NewBuffer(Cols, Rows)

	b.WriteAt(0, 0, "Wipers: ")
	b.WriteAt(8, 0, "INT  ")
	b.WriteAt(0, 1, "INT: SHORT")

	lines := b.Lines()
	if lines[0] != "Wipers: INT     " {
		t.Errorf("line 0: got %q", lines[0])
	}
	if lines[1] != "INT: SHORT      " {
		t.Errorf("line 1: got %q", lines[1])
	}

	// A shorter label overwrites in place.
	b.WriteAt(8, 0, "LOW ")
	b.WriteAt(0, 1, "          ")
	lines = b.Lines()
	if lines[0] != "Wipers: LOW     " {
		t.Errorf("line 0 after LOW: got %q", lines[0])
	}
	if lines[1] != "                " {
		t.Errorf("line 1 after blank: got %q", lines[1])
	}
}

func TestBufferClipsAndRejects(t *testing.T) {
	b := NewBuffer(4, 1)
	if err := b.WriteAt(2, 0, "HIGH"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := b.Lines()[0]; got != "  HI" {
		t.Errorf("clipped: got %q", got)
	}
	if err := b.WriteAt(0, 1, "x"); err == nil {
		t.Error("expected error for row out of range")
	}
	if err := b.WriteAt(4, 0, "x"); err == nil {
		t.Error("expected error for column out of range")
	}
}

func TestBufferClear(t *testing.T) {
	b := NewBuffer(Cols, Rows)
	b.WriteAt(0, 0, "Wipers: HIGH")
	b.Clear()
	for i, l := range b.Lines() {
		if l != "                " {
			t.Errorf("line %d after clear: got %q", i, l)
		}
	}
}

type failing struct{}

func (failing) WriteAt(int, int, string) error { return errors.New("bus error") }
func (failing) Clear() error                   { return errors.New("bus error") }

func TestMultiWritesAll(t *testing.T) {
	a := NewBuffer(Cols, Rows)
	b := NewBuffer(Cols, Rows)
	m := Multi(failing{}, a, b)

	if err := m.WriteAt(8, 0, "OFF "); err == nil {
		t.Error("expected joined error")
	}
	if a.Lines()[0] != b.Lines()[0] || a.Lines()[0] != "        OFF     " {
		t.Errorf("mirrors differ: %q vs %q", a.Lines()[0], b.Lines()[0])
	}

	if err := m.Clear(); err == nil {
		t.Error("expected joined error")
	}
	if a.Lines()[0] != "                " {
		t.Errorf("expected cleared, got %q", a.Lines()[0])
	}
}
