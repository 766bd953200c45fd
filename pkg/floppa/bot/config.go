// Package bot – config.go defines all configuration structures for the
// Floppa assistant.
package bot

import (
	"github.com/jholhewres/floppa/pkg/floppa/channels/discord"
	"github.com/jholhewres/floppa/pkg/floppa/persona"
)

// Config holds all assistant configuration.
type Config struct {
	// Name is the bot name shown in logs.
	Name string `yaml:"name"`

	// Model is the LLM model to use (e.g. "gpt-4o-mini").
	Model string `yaml:"model"`

	// Personality is the persona text injected into every instruction.
	Personality string `yaml:"personality"`

	// API configures the completion API endpoint.
	API APIConfig `yaml:"api"`

	// Discord configures the Discord channel.
	Discord discord.Config `yaml:"discord"`

	// Database configures the history store.
	Database DatabaseConfig `yaml:"database"`

	// Health configures the liveness endpoint.
	Health HealthConfig `yaml:"health"`

	// Stats configures the periodic stats log.
	Stats StatsConfig `yaml:"stats"`

	// Logging configures log output.
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the completion API.
type APIConfig struct {
	// BaseURL is the API base URL (OpenAI-compatible).
	BaseURL string `yaml:"base_url"`

	// APIKey is the API credential. Prefer ${OPENAI_API_KEY} in the file.
	APIKey string `yaml:"api_key"`

	// MaxTokens bounds the generated reply length.
	MaxTokens int `yaml:"max_tokens"`
}

// DatabaseConfig configures the SQLite history store.
type DatabaseConfig struct {
	// Path is the database file path.
	Path string `yaml:"path"`
}

// HealthConfig configures the liveness HTTP server.
type HealthConfig struct {
	// Port is the listen port. Zero disables the server.
	Port int `yaml:"port"`
}

// StatsConfig configures the scheduled stats log.
type StatsConfig struct {
	// Enabled turns the stats job on/off.
	Enabled bool `yaml:"enabled"`

	// Schedule is a cron expression or descriptor (e.g. "@hourly").
	Schedule string `yaml:"schedule"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	// Level is the log level ("debug", "info", "warn", "error").
	Level string `yaml:"level"`

	// Format is the log format ("json", "text").
	Format string `yaml:"format"`
}

// DefaultConfig returns the default assistant configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:        "Floppa",
		Model:       "gpt-4o-mini",
		Personality: persona.Default,
		API: APIConfig{
			BaseURL:   "https://api.openai.com/v1",
			MaxTokens: 500,
		},
		Discord: discord.DefaultConfig(),
		Database: DatabaseConfig{
			Path: "./data/floppa.db",
		},
		Health: HealthConfig{
			Port: 8080,
		},
		Stats: StatsConfig{
			Enabled:  true,
			Schedule: "@hourly",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
