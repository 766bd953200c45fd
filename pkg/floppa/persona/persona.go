// Package persona holds the bot personality and composes the system
// instruction sent with every completion request.
//
// The instruction mutates over the lifetime of a conversation: the first
// interaction and every fifth one restate the persona and ask the model to
// stay in character, and past forty interactions the directive shifts to a
// slightly irritated tone. The mood is recomputed from the interaction
// count on every triggering message, never latched.
package persona

import (
	"fmt"
	"log/slog"
)

// Default is the personality used when none is configured.
const Default = "I am Big Floppa (also known as Gosha or Gregory), a caracal cat born in a Moscow Zoo on " +
	"December 21, 2017. I live in Russia with my owners Andrey and Elena. I have distinctive " +
	"big ears with tufts and an expressive face that has made me an internet sensation."

// Mood is the tone selected for one response.
type Mood int

const (
	// MoodStandard is the neutral in-character tone.
	MoodStandard Mood = iota

	// MoodRefreshed restates the full persona and asks the model to stay
	// in character. Selected on the first interaction and every fifth one.
	MoodRefreshed

	// MoodIrritated directs a slightly irritated tone once the
	// conversation has run past forty interactions.
	MoodIrritated
)

// String returns the mood name for logging.
func (m Mood) String() string {
	switch m {
	case MoodRefreshed:
		return "refreshed"
	case MoodIrritated:
		return "irritated"
	default:
		return "standard"
	}
}

// MoodFor selects the mood for the n-th interaction, where n is the
// interaction count evaluated after the triggering message was appended
// to memory. The refresh condition wins over irritation: counts past
// forty that are multiples of five still reset the tone.
func MoodFor(n int) Mood {
	switch {
	case n%5 == 0 || n == 1:
		return MoodRefreshed
	case n > 40:
		return MoodIrritated
	default:
		return MoodStandard
	}
}

// Builder composes system instructions from a fixed persona text.
// The persona is loaded once at startup and shared read-only.
type Builder struct {
	persona string
	logger  *slog.Logger
}

// NewBuilder creates a Builder. An empty persona text falls back to Default.
func NewBuilder(personaText string, logger *slog.Logger) *Builder {
	if personaText == "" {
		personaText = Default
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		persona: personaText,
		logger:  logger.With("component", "persona"),
	}
}

// Persona returns the configured persona text.
func (b *Builder) Persona() string { return b.persona }

// Instruction builds the system instruction for the n-th interaction.
// The result always carries the conversation context and the persona
// verbatim, plus a directive for the selected mood.
func (b *Builder) Instruction(authorName, context string, n int) string {
	mood := MoodFor(n)
	b.logger.Info("building instruction", "interactions", n, "mood", mood.String(), "author", authorName)

	switch mood {
	case MoodRefreshed:
		return fmt.Sprintf(
			"Previous conversation context:\n%s\n"+
				"You are: %s\n"+
				"Respond to %s in first person. Stay in character.",
			context, b.persona, authorName,
		)
	case MoodIrritated:
		return fmt.Sprintf(
			"Previous conversation context:\n%s\n"+
				"You are: %s\n"+
				"You will never admit to being an AI. You are currently annoyed. "+
				"Respond to %s in first person with a slightly irritated tone.",
			context, b.persona, authorName,
		)
	default:
		return fmt.Sprintf(
			"Previous conversation context:\n%s\n"+
				"You are: %s\n"+
				"You will never admit to being an AI. Respond to %s in first person.",
			context, b.persona, authorName,
		)
	}
}
