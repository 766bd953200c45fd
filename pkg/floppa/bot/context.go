// Package bot – context.go assembles the conversation transcript handed to
// the prompt builder.
package bot

import (
	"log/slog"
	"strings"

	"github.com/jholhewres/floppa/pkg/floppa/memory"
)

// transcriptLimit is the maximum number of lines assembled into one context.
const transcriptLimit = 100

// transcriptSource is the slice of the history store the assembler needs.
type transcriptSource interface {
	RecentTranscript(channelID int64, limit int) ([]string, error)
}

// ContextAssembler builds the transcript for a channel, preferring durable
// history and falling back to the rolling memory buffer when the store is
// cold or unavailable. The fallback keeps the bot conversational on fresh
// deployments and during store outages.
type ContextAssembler struct {
	store  transcriptSource
	buffer *memory.Buffer
	logger *slog.Logger
}

// NewContextAssembler creates an assembler over the given sources.
func NewContextAssembler(store transcriptSource, buffer *memory.Buffer, logger *slog.Logger) *ContextAssembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContextAssembler{
		store:  store,
		buffer: buffer,
		logger: logger.With("component", "context"),
	}
}

// BuildContext returns the newline-joined transcript for the channel,
// oldest line first.
func (a *ContextAssembler) BuildContext(channelID int64) string {
	lines, err := a.store.RecentTranscript(channelID, transcriptLimit)
	if err != nil {
		a.logger.Error("failed to fetch transcript from store, using memory fallback",
			"channel_id", channelID, "error", err)
		lines = nil
	}

	if len(lines) == 0 {
		lines = a.buffer.Tail(transcriptLimit)
	}

	return strings.Join(lines, "\n")
}
