package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/chazuruo/wfdispatch/internal/actions"
	"github.com/chazuruo/wfdispatch/internal/config"
	"github.com/chazuruo/wfdispatch/internal/github"
)

// ListOptions contains the options for the list command.
type ListOptions struct {
	Token string
	Repo  string
}

// NewListCommand creates the list command.
func NewListCommand(g *GlobalOptions) *cobra.Command {
	opts := &ListOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the workflows of a repository",
		Long: `List every workflow defined in a repository, in API order.

The NAME, ID and PATH columns show the values a dispatch reference can match.

Examples:
  wfdispatch list                   # repository of the current checkout
  wfdispatch list -R octo/hello
  wfdispatch list -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context(), g, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.Token, "token", "", "GitHub token (INPUT_TOKEN, GITHUB_TOKEN, GH_TOKEN)")
	cmd.Flags().StringVarP(&opts.Repo, "repo", "R", "", "repository as owner/repo (INPUT_REPO)")

	return cmd
}

// repoClient resolves token and repository the same way dispatch does and
// returns a client for them.
func repoClient(ctx context.Context, rt *session, token, repoFlag string) (*github.Client, string, string, error) {
	renv, err := actions.LoadEnv()
	if err != nil {
		return nil, "", "", err
	}
	in, err := config.LoadInputs()
	if err != nil {
		return nil, "", "", err
	}
	if token != "" {
		in.Token = token
	}
	if repoFlag != "" {
		in.Repo = repoFlag
	}

	tok, err := in.ResolveToken()
	if err != nil {
		return nil, "", "", err
	}
	owner, repo, err := in.ResolveRepo(invocationContext(ctx, renv, rt.cfg))
	if err != nil {
		return nil, "", "", err
	}
	return rt.newClient(tok, renv.APIURL), owner, repo, nil
}

func runList(ctx context.Context, g *GlobalOptions, opts *ListOptions, out io.Writer) error {
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

	workflows, err := client.ListWorkflows(ctx, owner, repo)
	if err != nil {
		return fmt.Errorf("failed to list workflows: %w", err)
	}
	rt.component("cli").Debug("listed workflows", "repo", owner+"/"+repo, "count", len(workflows))

	if ok, err := encode(out, rt.cfg.Output.Format, workflows); ok {
		return err
	}
	printWorkflowTable(out, workflows)
	return nil
}

// printWorkflowTable prints workflows in table format.
func printWorkflowTable(w io.Writer, workflows []github.Workflow) {
	if len(workflows) == 0 {
		_, _ = fmt.Fprintln(w, "No workflows found.")
		return
	}

	tbl := table.New("ID", "NAME", "PATH", "STATE").
		WithWriter(w).
		WithHeaderFormatter(func(format string, vals ...interface{}) string {
			return labelStyle.Render(fmt.Sprintf(format, vals...))
		})
	for _, wf := range workflows {
		tbl.AddRow(wf.ID, wf.Name, wf.Path, wf.State)
	}
	tbl.Print()

	_, _ = fmt.Fprintf(w, "\nTotal: %d workflow(s)\n", len(workflows))
}
