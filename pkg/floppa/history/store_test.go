package history

import (
	"path/filepath"
	"strings"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestUpsertUserCreatesAndIncrements(t *testing.T) {
	store := openTestStore(t)

	if err := store.UpsertUser(42, "alice", false, 1000, true, true); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := store.UpsertUser(42, "alice", false, 2000, true, true); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	var username string
	var firstSeen, lastSeen, msgCount, mentionCount int64
	err := store.db.QueryRow(`
SELECT username, first_seen_at, last_seen_at, message_count, mention_count
FROM users WHERE user_id = 42`).Scan(&username, &firstSeen, &lastSeen, &msgCount, &mentionCount)
	if err != nil {
		t.Fatalf("query user: %v", err)
	}

	if msgCount != 2 || mentionCount != 2 {
		t.Errorf("expected counters 2/2, got %d/%d", msgCount, mentionCount)
	}
	if firstSeen != 1000 {
		t.Errorf("first_seen_at should be preserved, got %d", firstSeen)
	}
	if lastSeen != 2000 {
		t.Errorf("last_seen_at should advance, got %d", lastSeen)
	}
}

func TestUpsertUserRefreshesNameAndBotFlag(t *testing.T) {
	store := openTestStore(t)

	if err := store.UpsertUser(7, "oldname", false, 100, true, false); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := store.UpsertUser(7, "newname", true, 200, false, false); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	var username string
	var isBot, msgCount int64
	err := store.db.QueryRow(`SELECT username, is_bot, message_count FROM users WHERE user_id = 7`).
		Scan(&username, &isBot, &msgCount)
	if err != nil {
		t.Fatalf("query user: %v", err)
	}

	if username != "newname" || isBot != 1 {
		t.Errorf("expected refreshed name/flag, got %q/%d", username, isBot)
	}
	if msgCount != 1 {
		t.Errorf("counters must not reset or over-increment, got %d", msgCount)
	}
}

func TestRecentTranscriptOrderAndRendering(t *testing.T) {
	store := openTestStore(t)

	msgs := []Message{
		{TS: 1, UserID: 1, Username: "alice", ChannelID: 10, Content: "hello"},
		{TS: 2, UserID: 2, Username: "floppa", ChannelID: 10, IsBot: true, Content: "hi alice"},
		{TS: 3, UserID: 1, Username: "alice", ChannelID: 10, Content: "how are you"},
		{TS: 4, UserID: 3, Username: "bob", ChannelID: 99, Content: "other channel"},
	}
	for _, m := range msgs {
		if err := store.LogMessage(m); err != nil {
			t.Fatalf("LogMessage: %v", err)
		}
	}

	lines, err := store.RecentTranscript(10, 100)
	if err != nil {
		t.Fatalf("RecentTranscript: %v", err)
	}

	want := []string{"alice: hello", "Bot: hi alice", "alice: how are you"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %v", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestRecentTranscriptLimit(t *testing.T) {
	store := openTestStore(t)

	for i := int64(1); i <= 10; i++ {
		if err := store.LogMessage(Message{TS: i, UserID: 1, Username: "alice", ChannelID: 5, Content: "m"}); err != nil {
			t.Fatalf("LogMessage: %v", err)
		}
	}

	lines, err := store.RecentTranscript(5, 3)
	if err != nil {
		t.Fatalf("RecentTranscript: %v", err)
	}
	if len(lines) != 3 {
		t.Errorf("expected 3 lines, got %d", len(lines))
	}
}

func TestRecentTranscriptEmptyChannel(t *testing.T) {
	store := openTestStore(t)

	lines, err := store.RecentTranscript(123, 100)
	if err != nil {
		t.Fatalf("RecentTranscript: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("expected empty transcript, got %v", lines)
	}
}

func TestLogMessageOptionalIDs(t *testing.T) {
	store := openTestStore(t)

	// Bot replies have no platform message id; DMs have no guild.
	if err := store.LogMessage(Message{TS: 1, UserID: 9, Username: "floppa", ChannelID: 4, IsBot: true, Content: "reply"}); err != nil {
		t.Fatalf("LogMessage: %v", err)
	}

	var guildID, messageID any
	err := store.db.QueryRow(`SELECT guild_id, message_id FROM messages WHERE channel_id = 4`).
		Scan(&guildID, &messageID)
	if err != nil {
		t.Fatalf("query message: %v", err)
	}
	if guildID != nil || messageID != nil {
		t.Errorf("expected NULL optional ids, got %v/%v", guildID, messageID)
	}
}

func TestTotals(t *testing.T) {
	store := openTestStore(t)

	if err := store.UpsertUser(1, "alice", false, 1, true, false); err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}
	if err := store.LogMessage(Message{TS: 1, UserID: 1, Username: "alice", ChannelID: 1, Content: "hi"}); err != nil {
		t.Fatalf("LogMessage: %v", err)
	}

	users, messages, err := store.Totals()
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if users != 1 || messages != 1 {
		t.Errorf("expected 1/1, got %d/%d", users, messages)
	}
}

func TestOpenCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "floppa.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	if !strings.HasSuffix(path, "floppa.db") {
		t.Fatal("sanity")
	}
}
