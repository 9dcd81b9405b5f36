package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
)

// StatusOptions contains the options for the status command.
type StatusOptions struct {
	Token string
	Repo  string
}

// NewStatusCommand creates the status command.
func NewStatusCommand(g *GlobalOptions) *cobra.Command {
	opts := &StatusOptions{}

	cmd := &cobra.Command{
		Use:   "status RUN_ID",
		Short: "Show the status of a workflow run",
		Long: `Show status and conclusion of one workflow run, for example the runId
output of an earlier dispatch.

Examples:
  wfdispatch status 1234567890 -R octo/hello`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || runID <= 0 {
				return fmt.Errorf("invalid run id %q", args[0])
			}
			return runStatus(cmd.Context(), g, opts, runID, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.Token, "token", "", "GitHub token (INPUT_TOKEN, GITHUB_TOKEN, GH_TOKEN)")
	cmd.Flags().StringVarP(&opts.Repo, "repo", "R", "", "repository as owner/repo (INPUT_REPO)")

	return cmd
}

func runStatus(ctx context.Context, g *GlobalOptions, opts *StatusOptions, runID int64, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	rt, err := g.setup()
	if err != nil {
		return err
	}

	client, owner, repo, err := repoClient(ctx, rt, opts.Token, opts.Repo)
	if err != nil {
		return err
	}

	run, err := client.GetWorkflowRun(ctx, owner, repo, runID)
	if err != nil {
		return fmt.Errorf("failed to get run status: %w", err)
	}
	return renderRun(out, rt.cfg.Output.Format, run)
}
