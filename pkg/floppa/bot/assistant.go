// Package bot implements the main orchestrator for Floppa.
// Coordinates channels, the history store, the rolling memory, and the
// persona to turn mentions into completion-API replies.
package bot

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jholhewres/floppa/pkg/floppa/channels"
	"github.com/jholhewres/floppa/pkg/floppa/history"
	"github.com/jholhewres/floppa/pkg/floppa/memory"
	"github.com/jholhewres/floppa/pkg/floppa/persona"
)

// apologyMessage is the fixed user-visible reply when the completion API fails.
const apologyMessage = "Sorry, there was an error processing your request."

// completer is the completion API surface the dispatcher needs.
type completer interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// historyStore is the slice of the SQLite store the assistant uses.
type historyStore interface {
	UpsertUser(userID int64, username string, isBot bool, now int64, incMessage, incMention bool) error
	LogMessage(m history.Message) error
	RecentTranscript(channelID int64, limit int) ([]string, error)
}

// Assistant is the main orchestrator.
// Message flow: receive → record (store + memory) → mention check →
// assemble context → build instruction → completion call → reply + record.
type Assistant struct {
	config *Config

	// channelMgr manages communication channels.
	channelMgr *channels.Manager

	// store is the durable participant/message history.
	store historyStore

	// buffer is the in-process rolling memory and interaction counter.
	buffer *memory.Buffer

	// assembler builds per-channel transcripts.
	assembler *ContextAssembler

	// persona builds mood-dependent system instructions.
	persona *persona.Builder

	// llm is the completion API client.
	llm completer

	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new Assistant with all dependencies.
func New(cfg *Config, store historyStore, llm completer, logger *slog.Logger) *Assistant {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	buffer := memory.NewBuffer(memory.DefaultCapacity)

	return &Assistant{
		config:     cfg,
		channelMgr: channels.NewManager(logger.With("component", "channels")),
		store:      store,
		buffer:     buffer,
		assembler:  NewContextAssembler(store, buffer, logger),
		persona:    persona.NewBuilder(cfg.Personality, logger),
		llm:        llm,
		logger:     logger,
	}
}

// Start connects the channels and launches the message loop.
func (a *Assistant) Start(ctx context.Context) error {
	a.ctx, a.cancel = context.WithCancel(ctx)

	a.logger.Info("starting Floppa",
		"name", a.config.Name,
		"model", a.config.Model,
	)

	if err := a.channelMgr.Start(a.ctx); err != nil {
		return err
	}

	go a.messageLoop()

	a.logger.Info("Floppa started successfully")
	return nil
}

// Stop gracefully shuts down the channels and the message loop.
func (a *Assistant) Stop() {
	a.logger.Info("stopping Floppa...")

	if a.cancel != nil {
		a.cancel()
	}
	a.channelMgr.Stop()

	a.logger.Info("Floppa stopped")
}

// ChannelManager returns the channel manager for external registration.
func (a *Assistant) ChannelManager() *channels.Manager {
	return a.channelMgr
}

// messageLoop consumes messages from all channels. Each message is handled
// in its own goroutine so one in-flight completion call never blocks the
// other channels.
func (a *Assistant) messageLoop() {
	for {
		select {
		case msg, ok := <-a.channelMgr.Messages():
			if !ok {
				return
			}
			go a.handleMessage(msg)

		case <-a.ctx.Done():
			return
		}
	}
}

// handleMessage records an incoming message and, when the bot is mentioned,
// dispatches a response.
func (a *Assistant) handleMessage(msg *channels.IncomingMessage) {
	logger := a.logger.With(
		"trace_id", uuid.NewString(),
		"channel", msg.Channel,
		"chat_id", msg.ChatID,
		"from", msg.From,
	)

	now := time.Now().Unix()

	// Track the participant and append to the durable log. Failures here
	// never interrupt handling; the memory buffer keeps the conversation
	// alive while the store is unavailable.
	if err := a.store.UpsertUser(parseSnowflake(msg.From), msg.FromName, msg.FromBot, now, true, msg.Mentioned); err != nil {
		logger.Error("failed to record participant", "error", err)
	}
	if err := a.store.LogMessage(history.Message{
		TS:        now,
		UserID:    parseSnowflake(msg.From),
		Username:  msg.FromName,
		GuildID:   parseSnowflake(msg.GuildID),
		ChannelID: parseSnowflake(msg.ChatID),
		MessageID: parseSnowflake(msg.ID),
		IsBot:     msg.FromBot,
		Content:   msg.Content,
	}); err != nil {
		logger.Error("failed to log incoming message", "error", err)
	}

	a.buffer.Append(msg.FromName + ": " + msg.Content)

	if !msg.Mentioned {
		return
	}

	a.respond(logger, msg)
}

// respond assembles the context, builds the instruction, calls the
// completion API, and routes the reply to the channel and the history.
func (a *Assistant) respond(logger *slog.Logger, msg *channels.IncomingMessage) {
	start := time.Now()
	channelID := parseSnowflake(msg.ChatID)

	if pc, ok := a.presence(msg.Channel); ok {
		if err := pc.SendTyping(a.ctx, msg.ChatID); err != nil {
			logger.Debug("typing indicator failed", "error", err)
		}
	}

	transcript := a.assembler.BuildContext(channelID)

	// Mood is a pure function of the interaction count evaluated after the
	// triggering message was appended to memory.
	n := a.buffer.Len()
	instruction := a.persona.Instruction(msg.FromName, transcript, n)

	reply, err := a.llm.Complete(a.ctx, instruction, msg.CleanContent)
	if err != nil {
		logger.Error("completion request failed", "error", err)
		a.sendReply(logger, msg, apologyMessage)
		a.buffer.Append("Bot: " + apologyMessage)
		// The apology is deliberately not written to the history store:
		// it is not a language-model output and would pollute transcripts.
		return
	}

	a.sendReply(logger, msg, reply)
	a.buffer.Append("Bot: " + reply)
	a.recordBotReply(logger, msg, reply)

	logger.Info("message processed",
		"duration_ms", time.Since(start).Milliseconds(),
		"interactions", n,
		"mood", persona.MoodFor(n).String(),
	)
}

// recordBotReply persists the bot's own reply: participant row plus a
// bot-flagged message record. Errors are logged and swallowed.
func (a *Assistant) recordBotReply(logger *slog.Logger, original *channels.IncomingMessage, reply string) {
	self := a.selfIdentity(original.Channel)
	now := time.Now().Unix()

	if err := a.store.UpsertUser(parseSnowflake(self.ID), self.Username, true, now, true, false); err != nil {
		logger.Error("failed to record bot participant", "error", err)
	}
	if err := a.store.LogMessage(history.Message{
		TS:        now,
		UserID:    parseSnowflake(self.ID),
		Username:  self.Username,
		GuildID:   parseSnowflake(original.GuildID),
		ChannelID: parseSnowflake(original.ChatID),
		IsBot:     true,
		Content:   reply,
	}); err != nil {
		logger.Error("failed to log bot reply", "error", err)
	}
}

// sendReply sends a response to the original message's channel.
func (a *Assistant) sendReply(logger *slog.Logger, original *channels.IncomingMessage, content string) {
	out := &channels.OutgoingMessage{Content: content}

	if err := a.channelMgr.Send(a.ctx, original.Channel, original.ChatID, out); err != nil {
		logger.Error("failed to send reply", "error", err)
	}
}

// presence returns the channel as a PresenceChannel when it supports
// typing indicators.
func (a *Assistant) presence(name string) (channels.PresenceChannel, bool) {
	ch, ok := a.channelMgr.Channel(name)
	if !ok {
		return nil, false
	}
	pc, ok := ch.(channels.PresenceChannel)
	return pc, ok
}

// selfIdentity returns the bot's identity on the named channel.
func (a *Assistant) selfIdentity(name string) channels.Identity {
	ch, ok := a.channelMgr.Channel(name)
	if !ok {
		return channels.Identity{}
	}
	return ch.Self()
}

// parseSnowflake converts a platform id to the numeric form stored in the
// database. Empty or non-numeric ids map to zero, stored as NULL.
func parseSnowflake(id string) int64 {
	if id == "" {
		return 0
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
