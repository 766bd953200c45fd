// Package memory implements the in-process rolling conversation memory.
// The buffer is the fallback context source whenever the durable history
// store is cold or unavailable, and its length drives the persona state
// machine's mood selection.
package memory

import "sync"

// DefaultCapacity is the number of rendered lines kept in memory.
const DefaultCapacity = 100

// Buffer is a capacity-bounded FIFO of rendered "speaker: text" lines.
// Message handlers run in parallel goroutines, so all mutation goes
// through one mutex.
type Buffer struct {
	mu       sync.Mutex
	lines    []string
	capacity int
}

// NewBuffer creates a buffer with the given capacity.
// A capacity of zero or less falls back to DefaultCapacity.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{capacity: capacity}
}

// Append adds a line to the end, evicting from the front once the
// capacity is exceeded.
func (b *Buffer) Append(line string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lines = append(b.lines, line)
	if over := len(b.lines) - b.capacity; over > 0 {
		b.lines = append(b.lines[:0], b.lines[over:]...)
	}
}

// Tail returns the last limit lines in their original relative order.
// A limit of zero or less, or one beyond the current length, returns
// everything.
func (b *Buffer) Tail(limit int) []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	start := 0
	if limit > 0 && len(b.lines) > limit {
		start = len(b.lines) - limit
	}

	out := make([]string, len(b.lines)-start)
	copy(out, b.lines[start:])
	return out
}

// Len returns the current number of buffered lines. While the buffer is
// below capacity this doubles as the interaction counter used for mood
// selection; once the buffer saturates it stalls at the capacity, which
// is the reference behavior (see DESIGN.md).
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.lines)
}
