// Package config loads geofetch configuration from YAML files, the
// environment, and command-line flag overrides, in that order of precedence
// (lowest to highest).
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the retriever CLI.
type Config struct {
	// Twitter API credentials
	Twitter TwitterConfig `yaml:"twitter" json:"twitter"`

	// Default query parameters applied when flags are absent
	Defaults DefaultsConfig `yaml:"defaults" json:"defaults"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// TwitterConfig holds the Twitter credential pair.
type TwitterConfig struct {
	ConsumerKey string `yaml:"consumer_key" json:"consumer_key"`
	AccessToken string `yaml:"access_token" json:"access_token"`
}

// DefaultsConfig holds default query parameters.
type DefaultsConfig struct {
	Quantity int      `yaml:"quantity" json:"quantity"`
	Media    []string `yaml:"media" json:"media"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			Quantity: 15,
			Media:    []string{"image", "sound", "text", "video"},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the effective configuration. It starts from defaults, merges a
// YAML file when present, then environment variables, then flag overrides.
func Load(configFile string, flags map[string]interface{}) (*Config, error) {
	cfg := DefaultConfig()

	// A .env file supplies environment variables for local development.
	// Missing files are fine.
	_ = godotenv.Load()

	if configFile != "" {
		if err := loadFromFile(cfg, configFile); err != nil {
			return nil, err
		}
	}

	loadFromEnv(cfg)
	applyFlags(cfg, flags)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile merges settings from a YAML file into cfg.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// loadFromEnv merges settings from environment variables into cfg.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TWITTER_CONSUMER_KEY"); v != "" {
		cfg.Twitter.ConsumerKey = v
	}
	if v := os.Getenv("TWITTER_ACCESS_TOKEN"); v != "" {
		cfg.Twitter.AccessToken = v
	}
	if v := os.Getenv("GEOFETCH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("GEOFETCH_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
}

// applyFlags merges command-line flag overrides into cfg.
func applyFlags(cfg *Config, flags map[string]interface{}) {
	for key, value := range flags {
		switch key {
		case "consumer-key":
			if v, ok := value.(string); ok {
				cfg.Twitter.ConsumerKey = v
			}
		case "access-token":
			if v, ok := value.(string); ok {
				cfg.Twitter.AccessToken = v
			}
		case "quantity":
			if v, ok := value.(int); ok {
				cfg.Defaults.Quantity = v
			}
		case "media":
			if v, ok := value.([]string); ok {
				cfg.Defaults.Media = v
			}
		case "log-level":
			if v, ok := value.(string); ok {
				cfg.Logging.Level = v
			}
		}
	}
}

// Validate checks the configuration for values no command could accept.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error", "fatal", "disabled":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Defaults.Quantity < 0 {
		return fmt.Errorf("default quantity must not be negative: %d", c.Defaults.Quantity)
	}

	return nil
}
