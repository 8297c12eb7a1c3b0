package shell

import (
	"errors"
	"fmt"
	"iter"
)

// DefaultHistorySize is the number of lines kept by default.
const DefaultHistorySize = 10

// ErrInvalidHistoryIndex is returned when replaying an entry that isn't held.
var ErrInvalidHistoryIndex = errors.New("invalid history index")

// History is a fixed capacity ring of command lines. Entries are addressed by
// logical index, 0 being the oldest retained line.
type History struct {
	entries []string
	maxLine int
	// next is the physical slot the next line is written to.
	next  int
	count int
}

// NewHistory creates a ring holding size lines, each truncated to maxLine-1
// bytes.
func NewHistory(size, maxLine int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	if maxLine <= 1 {
		maxLine = DefaultMaxLine
	}
	return &History{
		entries: make([]string, size),
		maxLine: maxLine,
	}
}

// Record stores a copy of line, evicting the oldest entry once full.
func (h *History) Record(line string) {
	if len(line) > h.maxLine-1 {
		line = line[:h.maxLine-1]
	}
	h.entries[h.next] = line
	h.next = (h.next + 1) % len(h.entries)
	if h.count < len(h.entries) {
		h.count++
	}
}

// Len returns the number of retained entries.
func (h *History) Len() int {
	return h.count
}

// Cap returns the ring capacity.
func (h *History) Cap() int {
	return len(h.entries)
}

func (h *History) slot(index int) int {
	return (h.next - h.count + index + len(h.entries)) % len(h.entries)
}

// All yields (logical index, line) pairs, oldest first.
func (h *History) All() iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		for i := 0; i < h.count; i++ {
			if !yield(i, h.entries[h.slot(i)]) {
				return
			}
		}
	}
}

// Replay returns the line stored at the logical index.
func (h *History) Replay(index int) (string, error) {
	if index < 0 || index >= h.count {
		return "", fmt.Errorf("%w: %d", ErrInvalidHistoryIndex, index)
	}
	return h.entries[h.slot(index)], nil
}
