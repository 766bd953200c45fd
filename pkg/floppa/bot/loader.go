// Package bot – loader.go handles loading configuration from YAML files,
// with credentials resolved from the environment, .env files, and the
// legacy JSON credential files some deployments still carry.
package bot

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Credential fallback files, read only when the environment and the config
// file do not provide the value.
const (
	apiKeyFile       = "OPENAI_API_KEY.json"
	discordTokenFile = "DISCORD_BOT_TOKEN.json"
	personalityFile  = "floppa_personality.txt"
)

// envVarPattern matches ${VAR_NAME} or $VAR_NAME in config values.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Z_][A-Z0-9_]*)`)

// LoadConfig loads configuration. When path is empty, standard locations
// are searched; when no file exists, defaults plus environment values are
// used. The .env file is loaded first so env vars can come from it.
func LoadConfig(path string) (*Config, error) {
	loadEnvFiles()

	if path == "" {
		path = FindConfigFile()
	}

	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		// Expand environment variables in YAML before parsing.
		expanded := expandEnvVars(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parsing config YAML: %w", err)
		}
	}

	resolveEnvironment(cfg)
	resolveCredentialFiles(cfg)
	resolvePersonalityFile(cfg)

	return cfg, nil
}

// Validate checks that the credentials required to start are present.
// A failure here is fatal at startup.
func (c *Config) Validate() error {
	if c.API.APIKey == "" {
		return fmt.Errorf("completion API key not configured: set OPENAI_API_KEY or provide %s", apiKeyFile)
	}
	if c.Discord.Token == "" {
		return fmt.Errorf("Discord bot token not configured: set DISCORD_BOT_TOKEN or provide %s", discordTokenFile)
	}
	return nil
}

// FindConfigFile searches for config files in standard locations.
func FindConfigFile() string {
	candidates := []string{
		"config.yaml",
		"config.yml",
		"floppa.yaml",
		"floppa.yml",
		"configs/config.yaml",
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// ---------- Internal ----------

// loadEnvFiles loads .env files from standard locations.
func loadEnvFiles() {
	for _, f := range []string{".env", ".env.local"} {
		// godotenv.Load does NOT overwrite existing env vars.
		_ = godotenv.Load(f)
	}
}

// expandEnvVars replaces ${VAR} and $VAR references in a string with their
// environment variable values. Unset references are left as-is.
func expandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

// resolveEnvironment fills config values from environment variables.
// The environment wins over the config file for credentials and overrides
// the remaining values only when the config file left them at defaults.
func resolveEnvironment(cfg *Config) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.API.APIKey = key
	}
	if token := os.Getenv("DISCORD_BOT_TOKEN"); token != "" {
		cfg.Discord.Token = token
	}
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		cfg.Model = model
	}
	if p := os.Getenv("BOT_PERSONALITY"); p != "" {
		cfg.Personality = p
	}
	if path := os.Getenv("DB_PATH"); path != "" {
		cfg.Database.Path = path
	}
	if port := os.Getenv("PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil {
			cfg.Health.Port = n
		}
	}
}

// resolveCredentialFiles reads the JSON credential files when the
// environment and config file did not provide the secrets. The expected
// layouts are {"key": ...} and {"token": ...}.
func resolveCredentialFiles(cfg *Config) {
	if cfg.API.APIKey == "" {
		if v, err := readJSONField(apiKeyFile, "key"); err == nil && v != "" {
			cfg.API.APIKey = v
		}
	}
	if cfg.Discord.Token == "" {
		if v, err := readJSONField(discordTokenFile, "token"); err == nil && v != "" {
			cfg.Discord.Token = v
		}
	}
}

// resolvePersonalityFile loads the persona text file when present.
// The file wins over env/config so operators can mount a custom persona
// without touching the deployment environment.
func resolvePersonalityFile(cfg *Config) {
	data, err := os.ReadFile(personalityFile)
	if err != nil {
		return
	}
	if text := strings.TrimSpace(string(data)); text != "" {
		cfg.Personality = text
	}
}

// readJSONField reads a single string field from a small JSON file.
func readJSONField(path, field string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return "", fmt.Errorf("parsing %s: %w", path, err)
	}
	return m[field], nil
}
