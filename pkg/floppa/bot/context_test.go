package bot

import (
	"fmt"
	"testing"

	"github.com/jholhewres/floppa/pkg/floppa/memory"
)

// fakeTranscriptSource returns canned transcripts or errors.
type fakeTranscriptSource struct {
	lines []string
	err   error
}

func (f *fakeTranscriptSource) RecentTranscript(channelID int64, limit int) ([]string, error) {
	return f.lines, f.err
}

func TestBuildContextPrefersStore(t *testing.T) {
	buf := memory.NewBuffer(100)
	buf.Append("memory: should not appear")

	src := &fakeTranscriptSource{lines: []string{"alice: hello", "Bot: hi"}}
	a := NewContextAssembler(src, buf, nil)

	got := a.BuildContext(10)
	want := "alice: hello\nBot: hi"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuildContextFallsBackOnEmptyStore(t *testing.T) {
	buf := memory.NewBuffer(100)
	buf.Append("alice: from memory")

	a := NewContextAssembler(&fakeTranscriptSource{}, buf, nil)

	got := a.BuildContext(10)
	if got != "alice: from memory" {
		t.Errorf("expected memory fallback, got %q", got)
	}
}

func TestBuildContextFallsBackOnStoreError(t *testing.T) {
	buf := memory.NewBuffer(100)
	buf.Append("alice: from memory")

	src := &fakeTranscriptSource{err: fmt.Errorf("database is locked")}
	a := NewContextAssembler(src, buf, nil)

	got := a.BuildContext(10)
	if got != "alice: from memory" {
		t.Errorf("expected memory fallback on error, got %q", got)
	}
}

func TestBuildContextEmptyEverywhere(t *testing.T) {
	a := NewContextAssembler(&fakeTranscriptSource{}, memory.NewBuffer(100), nil)

	if got := a.BuildContext(10); got != "" {
		t.Errorf("expected empty context, got %q", got)
	}
}
