package memory

import (
	"fmt"
	"testing"
)

func TestBufferAppendWithinCapacity(t *testing.T) {
	b := NewBuffer(5)

	b.Append("alice: hi")
	b.Append("bob: hey")

	if b.Len() != 2 {
		t.Fatalf("expected length 2, got %d", b.Len())
	}

	lines := b.Tail(0)
	if lines[0] != "alice: hi" || lines[1] != "bob: hey" {
		t.Errorf("unexpected order: %v", lines)
	}
}

func TestBufferEvictsOldestBeyondCapacity(t *testing.T) {
	b := NewBuffer(100)

	for i := 0; i < 150; i++ {
		b.Append(fmt.Sprintf("user: msg %d", i))
		if b.Len() > 100 {
			t.Fatalf("length %d exceeds capacity after append %d", b.Len(), i)
		}
	}

	if b.Len() != 100 {
		t.Fatalf("expected saturated length 100, got %d", b.Len())
	}

	lines := b.Tail(0)
	if lines[0] != "user: msg 50" {
		t.Errorf("expected oldest surviving line to be msg 50, got %q", lines[0])
	}
	if lines[99] != "user: msg 149" {
		t.Errorf("expected newest line to be msg 149, got %q", lines[99])
	}
}

func TestBufferTailLimit(t *testing.T) {
	b := NewBuffer(10)
	for i := 0; i < 6; i++ {
		b.Append(fmt.Sprintf("line %d", i))
	}

	tail := b.Tail(3)
	if len(tail) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(tail))
	}
	if tail[0] != "line 3" || tail[2] != "line 5" {
		t.Errorf("unexpected tail: %v", tail)
	}

	// Limit larger than contents returns everything.
	if got := b.Tail(100); len(got) != 6 {
		t.Errorf("expected all 6 lines, got %d", len(got))
	}
}

func TestBufferDefaultCapacity(t *testing.T) {
	b := NewBuffer(0)
	for i := 0; i < DefaultCapacity+20; i++ {
		b.Append("x")
	}
	if b.Len() != DefaultCapacity {
		t.Errorf("expected length %d, got %d", DefaultCapacity, b.Len())
	}
}
