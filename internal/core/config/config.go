package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/neilberkman/quickchat/internal/core/chat"
	"github.com/neilberkman/quickchat/internal/core/history"
)

// DefaultProvider is the label used when neither flag nor config names one
const DefaultProvider = "OpenAI"

type Config struct {
	HistoryPath   string        // Location of the JSON history document
	Provider      string        // Provider label attributed to replies
	ReplyDelay    time.Duration // Simulated assistant latency
	ReplyTemplate string        // Mustache template for replies
}

type tomlConfig struct {
	HistoryPath   string `toml:"history_path"`
	Provider      string `toml:"provider"`
	ReplyDelay    string `toml:"reply_delay"`
	ReplyTemplate string `toml:"reply_template"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		HistoryPath:   history.DefaultPath(),
		Provider:      DefaultProvider,
		ReplyDelay:    chat.DefaultReplyDelay,
		ReplyTemplate: chat.DefaultReplyTemplate,
	}
}

// Dir returns ~/.config/quickchat
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".config", "quickchat")
}

// DefaultPath returns ~/.config/quickchat/config.toml
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads config from ~/.config/quickchat/config.toml
func Load() (*Config, error) {
	return LoadFile(DefaultPath())
}

// LoadFile reads config from path. A missing file yields the defaults.
// Invalid values are reported but the defaults for them are kept, so the
// returned Config is always usable.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err != nil {
		return cfg, nil // Use defaults
	}

	var tc tomlConfig
	if _, err := toml.DecodeFile(path, &tc); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if tc.HistoryPath != "" {
		cfg.HistoryPath = expandHome(tc.HistoryPath)
	}
	if tc.Provider != "" {
		cfg.Provider = tc.Provider
	}
	if tc.ReplyTemplate != "" {
		cfg.ReplyTemplate = tc.ReplyTemplate
	}
	if tc.ReplyDelay != "" {
		d, err := time.ParseDuration(tc.ReplyDelay)
		if err != nil || d < 0 {
			return cfg, fmt.Errorf("invalid reply_delay %q in %s", tc.ReplyDelay, path)
		}
		cfg.ReplyDelay = d
	}

	return cfg, nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
