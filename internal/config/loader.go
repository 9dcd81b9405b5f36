// This file contains config loading functionality including:
// - XDG config path detection
// - TOML file parsing
// - Environment variable overrides
// - Validation

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// ConfigEnv names an explicit config file path.
const ConfigEnv = "WFDISPATCH_CONFIG"

// DefaultConfigPath returns ~/.config/wfdispatch/config.toml, honouring
// XDG_CONFIG_HOME. Returns "" if the home directory cannot be determined.
func DefaultConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "wfdispatch", "config.toml")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config", "wfdispatch", "config.toml")
}

// DetectConfigPath searches for a config file.
// Returns the first config file found, or empty string if none exists.
//
// Search order:
// 1. $WFDISPATCH_CONFIG
// 2. DefaultConfigPath()
func DetectConfigPath() string {
	if p := os.Getenv(ConfigEnv); p != "" {
		return p
	}

	configPath := DefaultConfigPath()
	if configPath == "" {
		return ""
	}
	if _, err := os.Stat(configPath); err == nil {
		return configPath
	}
	return ""
}

// Load loads a config from the specified path.
// If the file doesn't exist, returns an error.
// After loading, applies environment variable overrides and validates.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	// Start with defaults
	cfg := DefaultConfig()

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads path when given, otherwise the detected config file.
// If no config file is found, returns defaults with env overrides applied.
func LoadWithDefaults(path string) (*Config, error) {
	if path == "" {
		path = DetectConfigPath()
	}
	if path != "" {
		return Load(path)
	}

	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables follow the pattern: WFDISPATCH_<SECTION>_<FIELD>
//
// Examples:
// - WFDISPATCH_API_BASE_URL overrides [api].base_url
// - WFDISPATCH_DISPATCH_POLL_INTERVAL overrides [dispatch].poll_interval
// - WFDISPATCH_LOG_LEVEL overrides [log].level
func applyEnvOverrides(c *Config) {
	applyString := func(key string, target *string) {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			*target = val
		}
	}

	applyInt := func(key string, target *int) {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			if i, err := strconv.Atoi(val); err == nil {
				*target = i
			}
		}
	}

	applyFloat := func(key string, target *float64) {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				*target = f
			}
		}
	}

	// API section
	applyString("WFDISPATCH_API_BASE_URL", &c.API.BaseURL)
	applyString("WFDISPATCH_API_USER_AGENT", &c.API.UserAgent)
	applyFloat("WFDISPATCH_API_RATE_LIMIT", &c.API.RateLimit)
	applyInt("WFDISPATCH_API_BURST", &c.API.Burst)
	applyInt("WFDISPATCH_API_TIMEOUT", &c.API.TimeoutSeconds)

	// Dispatch section
	applyString("WFDISPATCH_DISPATCH_DEFAULT_REPO", &c.Dispatch.DefaultRepo)
	applyInt("WFDISPATCH_DISPATCH_POLL_INTERVAL", &c.Dispatch.PollIntervalSeconds)

	// Log section
	applyString("WFDISPATCH_LOG_LEVEL", &c.Log.Level)
	applyString("WFDISPATCH_LOG_FORMAT", &c.Log.Format)

	// Output section
	applyString("WFDISPATCH_OUTPUT_FORMAT", &c.Output.Format)
}
