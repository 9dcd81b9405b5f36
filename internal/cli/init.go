package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/chazuruo/wfdispatch/internal/config"
)

// InitOptions contains the options for the init command.
type InitOptions struct {
	Force       bool
	DefaultRepo string
	BaseURL     string

	// Prompt, when set, edits the config before it is validated and written.
	Prompt func(*config.Config) error
}

// NewInitCommand creates the init command.
func NewInitCommand(g *GlobalOptions) *cobra.Command {
	opts := &InitOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long: `Write a config file with every setting at its default value.

The file goes to --config when given, otherwise to
~/.config/wfdispatch/config.toml. An existing file is kept unless --force is set.

In a terminal the main settings are asked for interactively; use --no-tui or
the flags for scripted setup.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if g.interactive() && !cmd.Flags().Changed("default-repo") && !cmd.Flags().Changed("base-url") {
				opts.Prompt = promptInit
			}
			return runInit(g.ConfigPath, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "overwrite an existing config file")
	cmd.Flags().StringVar(&opts.DefaultRepo, "default-repo", "", "owner/repo to use when none is given or inferred")
	cmd.Flags().StringVar(&opts.BaseURL, "base-url", "", "GitHub API URL (for GitHub Enterprise Server)")

	return cmd
}

func runInit(path string, opts *InitOptions, out io.Writer) error {
	if path == "" {
		path = config.DefaultConfigPath()
	}
	if path == "" {
		return fmt.Errorf("cannot determine config path; pass --config")
	}

	if _, err := os.Stat(path); err == nil && !opts.Force {
		return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
	}

	cfg := config.DefaultConfig()
	if opts.DefaultRepo != "" {
		cfg.Dispatch.DefaultRepo = opts.DefaultRepo
	}
	if opts.BaseURL != "" {
		cfg.API.BaseURL = opts.BaseURL
	}
	if opts.Prompt != nil {
		if err := opts.Prompt(cfg); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if err := config.Write(path, cfg); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "Wrote config to %s\n", path)
	return nil
}

// promptInit asks for the settings users most often change.
func promptInit(cfg *config.Config) error {
	pollInterval := strconv.Itoa(cfg.Dispatch.PollIntervalSeconds)

	if err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Default repository").
				Description("owner/repo used when none is given or inferred (optional)").
				Value(&cfg.Dispatch.DefaultRepo).
				Validate(validateOptionalRepo),
			huh.NewInput().
				Title("GitHub API URL").
				Description("Change for GitHub Enterprise Server").
				Value(&cfg.API.BaseURL),
			huh.NewInput().
				Title("Poll interval").
				Description("Seconds between run status checks").
				Value(&pollInterval).
				Validate(validatePositiveInt),
			huh.NewSelect[string]().
				Title("Result format").
				Options(huh.NewOptions("text", "json", "yaml")...).
				Value(&cfg.Output.Format),
		),
	).Run(); err != nil {
		return fmt.Errorf("form error: %w", err)
	}

	secs, err := strconv.Atoi(pollInterval)
	if err != nil {
		return fmt.Errorf("poll interval: %w", err)
	}
	cfg.Dispatch.PollIntervalSeconds = secs
	return nil
}

func validateOptionalRepo(s string) error {
	if s == "" {
		return nil
	}
	_, _, err := config.SplitRepo(s)
	return err
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fmt.Errorf("must be a whole number of seconds, at least 1")
	}
	return nil
}
