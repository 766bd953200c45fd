// Package history persists participants and conversation messages in
// SQLite. One floppa.db file holds the users table (per-participant
// counters) and the append-only messages log queried for channel
// transcripts.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver.
)

// schema is the DDL executed on every startup (idempotent via IF NOT EXISTS).
const schema = `
-- Participants, keyed by platform user id. Never deleted.
CREATE TABLE IF NOT EXISTS users (
    user_id       INTEGER PRIMARY KEY,
    username      TEXT,
    is_bot        INTEGER NOT NULL DEFAULT 0,
    first_seen_at INTEGER NOT NULL,
    last_seen_at  INTEGER NOT NULL,
    message_count INTEGER NOT NULL DEFAULT 0,
    mention_count INTEGER NOT NULL DEFAULT 0
);

-- Append-only message log, ordered by timestamp within a channel.
CREATE TABLE IF NOT EXISTS messages (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    ts         INTEGER NOT NULL,
    user_id    INTEGER,
    username   TEXT,
    guild_id   INTEGER,
    channel_id INTEGER,
    message_id INTEGER,
    is_bot     INTEGER NOT NULL DEFAULT 0,
    content    TEXT NOT NULL,
    FOREIGN KEY(user_id) REFERENCES users(user_id)
);
CREATE INDEX IF NOT EXISTS idx_messages_channel_ts ON messages(channel_id, ts);
CREATE INDEX IF NOT EXISTS idx_messages_user_ts ON messages(user_id, ts);
`

// Message is one immutable row in the messages log. Zero-valued UserID,
// GuildID, and MessageID are stored as NULL.
type Message struct {
	TS        int64
	UserID    int64
	Username  string
	GuildID   int64
	ChannelID int64
	MessageID int64
	IsBot     bool
	Content   string
}

// Store is the SQLite-backed history store. Each write is independently
// atomic; callers may use it concurrently.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at the given path, enables WAL mode,
// and creates the schema.
func Open(path string) (*Store, error) {
	if path == "" {
		path = "./data/floppa.db"
	}

	// Ensure parent directory exists.
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create database directory %q: %w", dir, err)
	}

	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database %q: %w", path, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// UpsertUser creates the participant row on first sight, and on every later
// call refreshes the username, bot flag, and last-seen timestamp while
// incrementing the message and mention counters by 0 or 1 per flag.
// first_seen_at is preserved across updates.
func (s *Store) UpsertUser(userID int64, username string, isBot bool, now int64, incMessage, incMention bool) error {
	msgInc := 0
	if incMessage {
		msgInc = 1
	}
	mentionInc := 0
	if incMention {
		mentionInc = 1
	}

	_, err := s.db.Exec(`
INSERT INTO users (user_id, username, is_bot, first_seen_at, last_seen_at, message_count, mention_count)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
    username=excluded.username,
    is_bot=excluded.is_bot,
    last_seen_at=excluded.last_seen_at,
    message_count=users.message_count + ?,
    mention_count=users.mention_count + ?;`,
		userID, username, boolToInt(isBot), now, now, msgInc, mentionInc,
		msgInc, mentionInc,
	)
	if err != nil {
		return fmt.Errorf("upsert user %d: %w", userID, err)
	}
	return nil
}

// LogMessage appends one immutable record to the messages log.
func (s *Store) LogMessage(m Message) error {
	_, err := s.db.Exec(`
INSERT INTO messages (ts, user_id, username, guild_id, channel_id, message_id, is_bot, content)
VALUES (?, ?, ?, ?, ?, ?, ?, ?);`,
		m.TS, nullableID(m.UserID), m.Username, nullableID(m.GuildID),
		m.ChannelID, nullableID(m.MessageID), boolToInt(m.IsBot), m.Content,
	)
	if err != nil {
		return fmt.Errorf("log message in channel %d: %w", m.ChannelID, err)
	}
	return nil
}

// RecentTranscript returns up to limit of the most recent records for the
// channel, rendered oldest-first as "speaker: text" lines. Bot-authored
// rows render with the fixed "Bot" label instead of their stored name.
func (s *Store) RecentTranscript(channelID int64, limit int) ([]string, error) {
	rows, err := s.db.Query(`
SELECT username, content, is_bot
FROM messages
WHERE channel_id = ?
ORDER BY ts DESC, id DESC
LIMIT ?;`, channelID, limit)
	if err != nil {
		return nil, fmt.Errorf("query transcript for channel %d: %w", channelID, err)
	}
	defer rows.Close()

	// Newest first from the query; prepend to end up oldest first.
	var lines []string
	for rows.Next() {
		var username sql.NullString
		var content string
		var isBot int
		if err := rows.Scan(&username, &content, &isBot); err != nil {
			return nil, fmt.Errorf("scan transcript row: %w", err)
		}

		speaker := username.String
		if isBot != 0 {
			speaker = "Bot"
		}
		lines = append([]string{speaker + ": " + content}, lines...)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transcript rows: %w", err)
	}

	return lines, nil
}

// Totals returns the row counts of both tables, for the periodic stats log.
func (s *Store) Totals() (users, messages int64, err error) {
	if err = s.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&users); err != nil {
		return 0, 0, fmt.Errorf("count users: %w", err)
	}
	if err = s.db.QueryRow(`SELECT COUNT(*) FROM messages`).Scan(&messages); err != nil {
		return 0, 0, fmt.Errorf("count messages: %w", err)
	}
	return users, messages, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nullableID maps the zero id to NULL, matching the optional columns.
func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
