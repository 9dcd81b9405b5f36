package actions

import (
	"fmt"
	"io"
	"strings"
)

// Commands writes workflow commands (::warning:: and friends) to the runner.
type Commands struct {
	w io.Writer
}

// NewCommands returns a Commands writing to w, normally stdout.
func NewCommands(w io.Writer) *Commands {
	return &Commands{w: w}
}

// Warning emits a warning annotation.
func (c *Commands) Warning(msg string) { c.issue("warning", msg) }

// Error emits an error annotation.
func (c *Commands) Error(msg string) { c.issue("error", msg) }

// Notice emits a notice annotation.
func (c *Commands) Notice(msg string) { c.issue("notice", msg) }

func (c *Commands) issue(name, msg string) {
	_, _ = fmt.Fprintf(c.w, "::%s::%s\n", name, escapeData(msg))
}

var dataEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")

func escapeData(s string) string {
	return dataEscaper.Replace(s)
}
