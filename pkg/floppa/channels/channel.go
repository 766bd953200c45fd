// Package channels defines the interface and types for Floppa communication
// channels. Each channel (currently Discord) implements the Channel
// interface to receive and send messages in a unified way.
package channels

import (
	"context"
	"fmt"
	"time"
)

// Channel defines the interface that every communication channel must implement.
type Channel interface {
	// Name returns the channel identifier (e.g. "discord").
	Name() string

	// Connect establishes the connection to the messaging platform.
	Connect(ctx context.Context) error

	// Disconnect gracefully closes the connection.
	Disconnect() error

	// Send sends a message to the specified conversation.
	Send(ctx context.Context, to string, message *OutgoingMessage) error

	// Receive returns a Go channel that emits incoming messages.
	Receive() <-chan *IncomingMessage

	// IsConnected returns true if the channel is connected.
	IsConnected() bool

	// Self returns the bot's own identity on the platform.
	// The zero Identity is returned before Connect succeeds.
	Self() Identity

	// Health returns the channel health status.
	Health() HealthStatus
}

// PresenceChannel extends Channel with typing/presence indicators.
type PresenceChannel interface {
	Channel

	// SendTyping sends a "typing..." indicator to the conversation.
	SendTyping(ctx context.Context, to string) error

	// SendPresence updates the bot's presence status.
	SendPresence(ctx context.Context, available bool) error
}

// Identity is the bot's own account on a platform.
type Identity struct {
	// ID is the platform user id.
	ID string

	// Username is the display name.
	Username string
}

// IncomingMessage represents a message received from any channel.
type IncomingMessage struct {
	// ID is the unique message identifier in the source channel.
	ID string

	// Channel identifies the source channel (e.g. "discord").
	Channel string

	// From is the sender identifier on the platform.
	From string

	// FromName is the sender display name.
	FromName string

	// FromBot indicates whether the sender is itself a bot account.
	FromBot bool

	// ChatID is the conversation (channel/DM) identifier.
	ChatID string

	// GuildID is the guild/group identifier, empty for DMs.
	GuildID string

	// IsGroup indicates whether the message is from a group conversation.
	IsGroup bool

	// Content is the raw text content of the message.
	Content string

	// CleanContent is Content with the bot's own mention markup removed,
	// suitable as user-level input for the completion API.
	CleanContent string

	// Mentioned is true when the message addresses the bot.
	Mentioned bool

	// Timestamp is when the message was sent.
	Timestamp time.Time
}

// OutgoingMessage represents a message to be sent through a channel.
type OutgoingMessage struct {
	// Content is the text content of the message.
	Content string

	// ReplyTo contains the ID of the message to reply to (optional).
	ReplyTo string
}

// HealthStatus represents the health state of a channel.
type HealthStatus struct {
	Connected     bool
	LastMessageAt time.Time
	ErrorCount    int
}

// Errors.
var (
	ErrChannelDisconnected = fmt.Errorf("channel is not connected")
	ErrConnectionFailed    = fmt.Errorf("failed to connect to channel")
)
