// Package config loads palaver's configuration: defaults, then the user's
// JSON config file, then environment overrides, validated as a whole.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
)

// Config is the full application configuration.
type Config struct {
	Agent   AgentConfig   `json:"agent"`
	Storage StorageConfig `json:"storage"`
	Display DisplayConfig `json:"display"`

	LogLevel string `json:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// AgentConfig configures the remote agent endpoint.
type AgentConfig struct {
	BaseURL string `json:"base_url" validate:"omitempty,url"`
	APIKey  string `json:"api_key"`
	// ID is the fixed agent identifier sent with every call.
	ID string `json:"id" validate:"required"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Backend string `json:"backend" validate:"oneof=badger sqlite file none"`
	// Dir overrides the default XDG state directory.
	Dir string `json:"dir"`
}

// DisplayConfig configures terminal rendering.
type DisplayConfig struct {
	Width     int  `json:"width" validate:"gte=0"`
	Highlight bool `json:"highlight"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Agent: AgentConfig{
			ID: "palaver-default",
		},
		Storage: StorageConfig{
			Backend: "badger",
		},
		Display: DisplayConfig{
			Width:     0,
			Highlight: true,
		},
		LogLevel: "warn",
	}
}

// DefaultConfigPath is the user config file location.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "palaver", "config.json")
}

// DataDir resolves the storage directory, preferring the configured
// override.
func (c *Config) DataDir() string {
	if c.Storage.Dir != "" {
		return c.Storage.Dir
	}
	return filepath.Join(xdg.StateHome, "palaver")
}

// Load reads configuration from path (or the default location when empty),
// applies environment overrides, and validates the result. A missing config
// file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = DefaultConfigPath()
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks a configuration against its struct constraints.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PALAVER_API_KEY"); v != "" {
		cfg.Agent.APIKey = v
	}
	if v := os.Getenv("PALAVER_BASE_URL"); v != "" {
		cfg.Agent.BaseURL = v
	}
	if v := os.Getenv("PALAVER_AGENT_ID"); v != "" {
		cfg.Agent.ID = v
	}
	if v := os.Getenv("PALAVER_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
