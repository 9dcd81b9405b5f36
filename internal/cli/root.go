package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the wfdispatch command tree. Run without a
// subcommand it dispatches, which is how the Actions step invokes it.
func NewRootCommand(info VersionInfo) *cobra.Command {
	g := &GlobalOptions{}
	dispatchCmd := NewDispatchCommand(g)

	rootCmd := &cobra.Command{
		Use:   "wfdispatch",
		Short: "Trigger GitHub Actions workflows and wait for them",
		Long: `wfdispatch triggers a GitHub Actions workflow through a workflow_dispatch
event and can wait for the resulting run to finish.

As an Actions step it reads its inputs from INPUT_* variables and writes the
workflowId output. From a terminal it defaults the ref and repository from
the current Git checkout.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          dispatchCmd.RunE,
	}
	rootCmd.Flags().AddFlagSet(dispatchCmd.Flags())

	AddGlobalFlags(rootCmd, g)

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(dispatchCmd)
	rootCmd.AddCommand(NewListCommand(g))
	rootCmd.AddCommand(NewStatusCommand(g))
	rootCmd.AddCommand(NewInitCommand(g))
	rootCmd.AddCommand(NewVersionCommand(info))

	return rootCmd
}
