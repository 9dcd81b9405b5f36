// Package cli provides Cobra command definitions for wfdispatch.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/chazuruo/wfdispatch/internal/config"
	"github.com/chazuruo/wfdispatch/internal/github"
	"github.com/chazuruo/wfdispatch/internal/log"
)

// GlobalOptions are the persistent flags shared by every command.
type GlobalOptions struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string
	Output     string

	// NoTUI disables spinners and interactive prompts.
	NoTUI bool
}

// AddGlobalFlags adds global flags to a command.
func AddGlobalFlags(cmd *cobra.Command, g *GlobalOptions) {
	cmd.PersistentFlags().StringVar(&g.ConfigPath, "config", "",
		"config file path (default $"+config.ConfigEnv+" or ~/.config/wfdispatch/config.toml)")
	cmd.PersistentFlags().StringVar(&g.LogLevel, "log-level", "",
		"log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&g.LogFormat, "log-format", "",
		"log format: text, json")
	cmd.PersistentFlags().StringVarP(&g.Output, "output", "o", "",
		"result format: text, json, yaml")
	cmd.PersistentFlags().BoolVar(&g.NoTUI, "no-tui", false,
		"disable TUI/interactive mode; use plain text output")
}

// session is what every command needs after flags are parsed.
type session struct {
	cfg *config.Config
	log *slog.Logger
	cid string
}

// setup loads the config, lets flags override it, and configures logging.
func (g *GlobalOptions) setup() (*session, error) {
	cfg, err := config.LoadWithDefaults(g.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}
	if g.LogFormat != "" {
		cfg.Log.Format = g.LogFormat
	}
	if g.Output != "" {
		cfg.Output.Format = g.Output
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}

	cid := log.NewCorrelationID()
	l := log.WithCorrelation(log.Setup(cfg.Log.Level, cfg.Log.Format), cid)

	return &session{cfg: cfg, log: l, cid: cid}, nil
}

// component returns the session logger tagged with a component name.
func (rt *session) component(name string) *slog.Logger {
	return rt.log.With(slog.String(log.ComponentKey, name))
}

// newClient builds a GitHub client from the API config. apiURL is the
// runner's GITHUB_API_URL and only replaces the built-in default endpoint.
func (rt *session) newClient(token, apiURL string) *github.Client {
	baseURL := rt.cfg.API.BaseURL
	if apiURL != "" && baseURL == github.DefaultBaseURL {
		baseURL = apiURL
	}
	return github.NewClient(baseURL, token,
		github.WithUserAgent(rt.cfg.API.UserAgent),
		github.WithTimeout(rt.cfg.Timeout()),
		github.WithRateLimit(rt.cfg.API.RateLimit, rt.cfg.API.Burst),
	)
}
