// Package display writes the wiper status to a two-line character display.
package display

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Display is a character display addressed by (column, row).
type Display interface {
	WriteAt(col, row int, text string) error
	Clear() error
}

// Geometry of the 16x2 module.
const (
	Cols = 16
	Rows = 2
)

// Buffer is an in-memory display. It mirrors what the physical display shows
// for status pages and tests. Safe for concurrent use.
type Buffer struct {
	mu    sync.RWMutex
	cols  int
	lines [][]byte
}

// NewBuffer creates a blank buffer of the given size.
func NewBuffer(cols, rows int) *Buffer {
	b := &Buffer{cols: cols, lines: make([][]byte, rows)}
	for i := range b.lines {
		b.lines[i] = []byte(strings.Repeat(" ", cols))
	}
	return b
}

// WriteAt overwrites text starting at (col, row). Text past the right edge is dropped.
func (b *Buffer) WriteAt(col, row int, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if row < 0 || row >= len(b.lines) || col < 0 || col >= b.cols {
		return fmt.Errorf("display: position (%d,%d) out of range", col, row)
	}
	copy(b.lines[row][col:], text)
	return nil
}

// Clear blanks every line.
func (b *Buffer) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.lines {
		for j := range b.lines[i] {
			b.lines[i][j] = ' '
		}
	}
	return nil
}

// Lines returns the current content of each row.
func (b *Buffer) Lines() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, len(b.lines))
	for i, l := range b.lines {
		out[i] = string(l)
	}
	return out
}

type multi []Display

// Multi duplicates every write to all displays, like io.MultiWriter.
// All displays are written even if one fails.
func Multi(ds ...Display) Display {
	return multi(ds)
}

func (m multi) WriteAt(col, row int, text string) error {
	var errs []error
	for _, d := range m {
		if err := d.WriteAt(col, row, text); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m multi) Clear() error {
	var errs []error
	for _, d := range m {
		if err := d.Clear(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
