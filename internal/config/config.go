// Package config provides configuration management for wfdispatch.
//
// The configuration file is stored in TOML format and supports validation
// and default values for all fields. Dispatch inputs themselves come from
// flags or GitHub Actions INPUT_* variables; see inputs.go.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config is the top-level configuration struct for wfdispatch.
type Config struct {
	API      APIConfig      `toml:"api"`
	Dispatch DispatchConfig `toml:"dispatch"`
	Log      LogConfig      `toml:"log"`
	Output   OutputConfig   `toml:"output"`
}

// APIConfig contains GitHub API client settings.
type APIConfig struct {
	// BaseURL is the REST endpoint (set it for GitHub Enterprise Server).
	BaseURL string `toml:"base_url"`

	// UserAgent is sent with every request.
	UserAgent string `toml:"user_agent"`

	// RateLimit is the maximum requests per second; 0 disables pacing.
	RateLimit float64 `toml:"rate_limit"`

	// Burst is the number of requests allowed above RateLimit at once.
	Burst int `toml:"burst"`

	// TimeoutSeconds bounds each HTTP request.
	TimeoutSeconds int `toml:"timeout"`
}

// DispatchConfig contains dispatch defaults.
type DispatchConfig struct {
	// DefaultRepo is used as "owner/repo" when neither --repo nor the
	// Actions context provide one.
	DefaultRepo string `toml:"default_repo"`

	// PollIntervalSeconds is the pause between run status checks.
	PollIntervalSeconds int `toml:"poll_interval"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of: debug, info, warn, error.
	Level string `toml:"level"`

	// Format is one of: text, json.
	Format string `toml:"format"`
}

// OutputConfig contains result rendering settings.
type OutputConfig struct {
	// Format is one of: text, json, yaml.
	Format string `toml:"format"`
}

// DefaultConfig returns a Config with all default values set.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "https://api.github.com",
			UserAgent:      "wfdispatch",
			RateLimit:      10,
			Burst:          5,
			TimeoutSeconds: 30,
		},
		Dispatch: DispatchConfig{
			DefaultRepo:         "",
			PollIntervalSeconds: 10,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}

// PollInterval returns the configured poll interval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Dispatch.PollIntervalSeconds) * time.Second
}

// Timeout returns the configured HTTP request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// Validate checks the configuration for valid values.
// Returns a nil error if the config is valid, or an error describing the problem.
func (c *Config) Validate() error {
	// Validate API section
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url cannot be empty")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute http(s) URL; got %q", c.API.BaseURL)
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("api.rate_limit must be >= 0; got %v", c.API.RateLimit)
	}
	if c.API.RateLimit > 0 && c.API.Burst < 1 {
		return fmt.Errorf("api.burst must be >= 1 when api.rate_limit is set; got %d", c.API.Burst)
	}
	if c.API.TimeoutSeconds < 1 {
		return fmt.Errorf("api.timeout must be >= 1; got %d", c.API.TimeoutSeconds)
	}

	// Validate Dispatch section
	if c.Dispatch.DefaultRepo != "" {
		if _, _, err := SplitRepo(c.Dispatch.DefaultRepo); err != nil {
			return fmt.Errorf("dispatch.default_repo: %w", err)
		}
	}
	if c.Dispatch.PollIntervalSeconds < 1 {
		return fmt.Errorf("dispatch.poll_interval must be >= 1; got %d", c.Dispatch.PollIntervalSeconds)
	}

	// Validate Log section
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", c.Log.Level)
	}
	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.Log.Format] {
		return fmt.Errorf("log.format must be one of: text, json; got %q", c.Log.Format)
	}

	// Validate Output section
	if !ValidOutputFormat(c.Output.Format) {
		return fmt.Errorf("output.format must be one of: text, json, yaml; got %q", c.Output.Format)
	}

	return nil
}

// ValidOutputFormat reports whether f is a supported result format.
func ValidOutputFormat(f string) bool {
	switch f {
	case "text", "json", "yaml":
		return true
	}
	return false
}

// SplitRepo splits "owner/repo" into its two parts.
func SplitRepo(slug string) (owner, repo string, err error) {
	parts := strings.Split(slug, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("repository must be in owner/repo form; got %q", slug)
	}
	return parts[0], parts[1], nil
}
