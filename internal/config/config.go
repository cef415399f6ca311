// Package config loads easel.yml, applies environment overrides and validates the result.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where commands look for the config file.
const DefaultPath = "easel.yml"

// Defaults applied by ApplyDefaults.
const (
	DefaultAPIURL          = "https://api.miro.com/v2"
	DefaultIntervalSeconds = 5
	DefaultTagBackend      = "sqlite"
	DefaultTagDB           = ".easel/tags.db"
	DefaultLLMProvider     = "gemini"
	DefaultLLMModel        = "gemini-2.5-flash"
	DefaultLLMTimeout      = 60
	maxPageLimit           = 50
)

// Config is the top-level easel.yml.
type Config struct {
	Version    string      `yaml:"version"`
	Board      BoardConfig `yaml:"board"`
	Poll       PollConfig  `yaml:"poll,omitempty"`
	Tags       TagsConfig  `yaml:"tags,omitempty"`
	LLM        LLMConfig   `yaml:"llm,omitempty"`
	HealthAddr string      `yaml:"health_addr,omitempty"` // empty disables the health server
}

// BoardConfig identifies the whiteboard and how to reach it.
type BoardConfig struct {
	ID        string `yaml:"id"`
	Token     string `yaml:"token,omitempty"` // prefer MIRO_API_TOKEN
	APIURL    string `yaml:"api_url,omitempty"`
	PageLimit int    `yaml:"page_limit,omitempty"`
}

// PollConfig controls the poll loop.
type PollConfig struct {
	IntervalSeconds int `yaml:"interval_seconds,omitempty"`
}

// TagsConfig selects the tag index backend.
type TagsConfig struct {
	Backend  string `yaml:"backend,omitempty"` // "sqlite" or "redis"
	DBPath   string `yaml:"db_path,omitempty"`
	RedisURL string `yaml:"redis_url,omitempty"`
}

// LLMConfig selects the decision and proposal provider.
type LLMConfig struct {
	Provider       string `yaml:"provider,omitempty"` // "gemini" or "fake"
	Model          string `yaml:"model,omitempty"`
	APIKey         string `yaml:"api_key,omitempty"` // prefer GEMINI_API_KEY
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"`
	FakeLabel      string `yaml:"fake_label,omitempty"`
}

// Interval returns the poll interval.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Poll.IntervalSeconds) * time.Second
}

// LLMTimeout returns the per-request model timeout.
func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLM.TimeoutSeconds) * time.Second
}

// ApplyDefaults fills every unset optional field.
func (c *Config) ApplyDefaults() {
	if c.Version == "" {
		c.Version = "1.0"
	}
	if c.Board.APIURL == "" {
		c.Board.APIURL = DefaultAPIURL
	}
	if c.Poll.IntervalSeconds == 0 {
		c.Poll.IntervalSeconds = DefaultIntervalSeconds
	}
	if c.Tags.Backend == "" {
		c.Tags.Backend = DefaultTagBackend
	}
	if c.Tags.Backend == "sqlite" && c.Tags.DBPath == "" {
		c.Tags.DBPath = DefaultTagDB
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = DefaultLLMProvider
	}
	if c.LLM.Model == "" {
		c.LLM.Model = DefaultLLMModel
	}
	if c.LLM.TimeoutSeconds == 0 {
		c.LLM.TimeoutSeconds = DefaultLLMTimeout
	}
}

// ApplyEnv overrides fields from environment variables read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("MIRO_BOARD_ID", &c.Board.ID)
	str("MIRO_API_TOKEN", &c.Board.Token)
	str("MIRO_API_URL", &c.Board.APIURL)
	str("EASEL_TAG_BACKEND", &c.Tags.Backend)
	str("EASEL_TAG_DB", &c.Tags.DBPath)
	str("REDIS_URL", &c.Tags.RedisURL)
	str("LLM_PROVIDER", &c.LLM.Provider)
	str("LLM_MODEL", &c.LLM.Model)
	str("GOOGLE_API_KEY", &c.LLM.APIKey)
	str("GEMINI_API_KEY", &c.LLM.APIKey)
	str("EASEL_HEALTH_ADDR", &c.HealthAddr)

	if v, ok := lookup("INTERVAL_SECONDS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("INTERVAL_SECONDS must be an integer, got %q", v)
		}
		c.Poll.IntervalSeconds = n
	}

	return nil
}

// Validate performs strict validation on the configuration.
func (c *Config) Validate() error {
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (expected: 1.0)", c.Version)
	}

	if c.Board.ID == "" {
		return fmt.Errorf("board.id is required (or set MIRO_BOARD_ID)")
	}
	if c.Board.Token == "" {
		return fmt.Errorf("board token is required (set MIRO_API_TOKEN)")
	}
	if c.Board.PageLimit < 0 || c.Board.PageLimit > maxPageLimit {
		return fmt.Errorf("board.page_limit must be between 1 and %d, got %d", maxPageLimit, c.Board.PageLimit)
	}

	if c.Poll.IntervalSeconds < 1 {
		return fmt.Errorf("poll.interval_seconds must be >= 1, got %d", c.Poll.IntervalSeconds)
	}

	switch c.Tags.Backend {
	case "sqlite":
		if c.Tags.DBPath == "" {
			return fmt.Errorf("tags.db_path is required for the sqlite backend")
		}
	case "redis":
		if c.Tags.RedisURL == "" {
			return fmt.Errorf("tags.redis_url is required for the redis backend (or set REDIS_URL)")
		}
	default:
		return fmt.Errorf("invalid tags.backend: %s (must be 'sqlite' or 'redis')", c.Tags.Backend)
	}

	switch c.LLM.Provider {
	case "gemini":
		if c.LLM.APIKey == "" {
			return fmt.Errorf("llm api key is required for the gemini provider (set GEMINI_API_KEY)")
		}
	case "fake":
	default:
		return fmt.Errorf("invalid llm.provider: %s (must be 'gemini' or 'fake')", c.LLM.Provider)
	}
	if c.LLM.TimeoutSeconds < 1 {
		return fmt.Errorf("llm.timeout_seconds must be >= 1, got %d", c.LLM.TimeoutSeconds)
	}

	return nil
}

// Load reads easel.yml from path, loads a sibling .env file if present,
// then applies environment overrides and defaults and validates.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := LoadDotEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}

	return finish(&config)
}

// FromEnv builds a configuration from the environment alone, loading .env
// from the working directory if present.
func FromEnv() (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	return finish(&Config{})
}

// LoadOrEnv loads path when it exists and falls back to FromEnv otherwise.
func LoadOrEnv(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return FromEnv()
	}
	return Load(path)
}

// LoadDotEnv sets variables from a .env file without overriding ones already
// set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func finish(config *Config) (*Config, error) {
	if err := config.ApplyEnv(os.LookupEnv); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}
	config.ApplyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}
