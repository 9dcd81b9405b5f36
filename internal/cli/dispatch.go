package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/chazuruo/wfdispatch/internal/actions"
	"github.com/chazuruo/wfdispatch/internal/config"
	"github.com/chazuruo/wfdispatch/internal/dispatcher"
	"github.com/chazuruo/wfdispatch/internal/log"
	"github.com/chazuruo/wfdispatch/internal/tui"
)

// DispatchOptions contains the options for the dispatch command.
// Empty values fall back to the INPUT_* environment.
type DispatchOptions struct {
	Workflow     string
	Token        string
	Ref          string
	Repo         string
	Inputs       string
	WaitTime     string
	PollInterval int
}

// NewDispatchCommand creates the dispatch command.
func NewDispatchCommand(g *GlobalOptions) *cobra.Command {
	opts := &DispatchOptions{}

	cmd := &cobra.Command{
		Use:   "dispatch",
		Short: "Trigger a workflow_dispatch run",
		Long: `Trigger a GitHub Actions workflow through a workflow_dispatch event and
optionally wait for the run to complete.

The workflow can be given by name, numeric id, or file path (a suffix such as
"deploy.yml" is enough). Every flag falls back to the matching INPUT_*
variable, so the command runs unchanged as an Actions step.

Examples:
  wfdispatch dispatch --workflow deploy.yml --ref main
  wfdispatch dispatch --workflow Deploy --inputs '{"env":"prod"}' --wait-time 600
  INPUT_WORKFLOW=ci.yml INPUT_TOKEN=... wfdispatch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDispatch(cmd.Context(), g, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.Workflow, "workflow", "w", "", "workflow name, id or file (INPUT_WORKFLOW)")
	cmd.Flags().StringVar(&opts.Token, "token", "", "GitHub token (INPUT_TOKEN, GITHUB_TOKEN, GH_TOKEN)")
	cmd.Flags().StringVar(&opts.Ref, "ref", "", "branch, tag or SHA to run on (INPUT_REF, default current branch)")
	cmd.Flags().StringVarP(&opts.Repo, "repo", "R", "", "target repository as owner/repo (INPUT_REPO)")
	cmd.Flags().StringVar(&opts.Inputs, "inputs", "", "workflow inputs as a JSON object (INPUT_INPUTS)")
	cmd.Flags().StringVar(&opts.WaitTime, "wait-time", "", "seconds to wait for the run to complete; unset means do not wait (INPUT_WAITTIME)")
	cmd.Flags().IntVar(&opts.PollInterval, "poll-interval", 0, "seconds between run status checks (default from config)")

	return cmd
}

// overlay applies non-empty flag values on top of in.
func (o *DispatchOptions) overlay(in config.Inputs) config.Inputs {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&in.Workflow, o.Workflow)
	set(&in.Token, o.Token)
	set(&in.Ref, o.Ref)
	set(&in.Repo, o.Repo)
	set(&in.Inputs, o.Inputs)
	set(&in.WaitTime, o.WaitTime)
	return in
}

func runDispatch(ctx context.Context, g *GlobalOptions, opts *DispatchOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	rt, err := g.setup()
	if err != nil {
		return err
	}
	logger := rt.component("cli")

	renv, err := actions.LoadEnv()
	if err != nil {
		return err
	}
	cmds := actions.NewCommands(out)
	fail := func(err error) error {
		if renv.Actions {
			cmds.Error(err.Error())
		}
		return err
	}

	in, err := config.LoadInputs()
	if err != nil {
		return fail(err)
	}
	in = opts.overlay(in)

	poll := rt.cfg.PollInterval()
	if opts.PollInterval > 0 {
		poll = time.Duration(opts.PollInterval) * time.Second
	}

	resolved, err := in.Resolve(invocationContext(ctx, renv, rt.cfg), poll)
	if err != nil {
		return fail(err)
	}
	logger.Debug("resolved inputs",
		"workflow", resolved.Options.WorkflowRef,
		"repo", resolved.Options.Slug(),
		"ref", resolved.Options.Ref,
		"wait", resolved.Options.Wait)

	client := rt.newClient(resolved.Token, renv.APIURL)
	spinner := resolved.Options.Wait && !renv.Actions && rt.cfg.Output.Format == "text" && g.interactive()
	run := func(extra ...dispatcher.Option) (*dispatcher.Result, error) {
		dopts := append([]dispatcher.Option{dispatcher.WithLogger(dispatcherLogger(rt, spinner))}, extra...)
		return dispatcher.New(client, dopts...).Run(ctx, resolved.Options)
	}

	var (
		res    *dispatcher.Result
		runErr error
	)
	if spinner {
		runErr = tui.RunWithProgress(os.Stderr, resolved.Options.WorkflowRef, func(report func(dispatcher.Progress)) error {
			var err error
			res, err = run(dispatcher.WithProgress(report))
			return err
		})
	} else {
		res, runErr = run()
	}

	if res != nil {
		if err := actions.WriteOutputs(renv.OutputPath, actions.ResultOutputs(res)); err != nil {
			logger.Warn("could not write step outputs", "path", renv.OutputPath, "error", err)
		}
		if res.Skipped && renv.Actions {
			cmds.Warning(res.Warning)
		}
		if err := renderResult(out, rt.cfg.Output.Format, res); err != nil {
			return fail(err)
		}
	}

	if runErr != nil {
		return fail(fmt.Errorf("dispatch failed: %w", runErr))
	}
	return nil
}

// dispatcherLogger returns the dispatcher's logger. While the spinner owns
// stderr only warnings and errors are let through.
func dispatcherLogger(rt *session, spinner bool) *slog.Logger {
	l := rt.component("dispatcher")
	if spinner {
		return log.AtLeast(l, slog.LevelWarn)
	}
	return l
}
