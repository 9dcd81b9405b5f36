package cli

import (
	"os"

	"github.com/mattn/go-isatty"
)

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// interactive reports whether TUI elements may be shown: --no-tui is unset
// and both stdin and stderr are terminals.
func (g *GlobalOptions) interactive() bool {
	return !g.NoTUI && isTerminal(os.Stdin) && isTerminal(os.Stderr)
}
