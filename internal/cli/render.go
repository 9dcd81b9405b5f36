package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/chazuruo/wfdispatch/internal/dispatcher"
	"github.com/chazuruo/wfdispatch/internal/github"
)

var (
	labelStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	titleCaser = cases.Title(language.English)
)

// encode writes v as JSON or YAML. It reports false for any other format.
func encode(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(v); err != nil {
			return true, fmt.Errorf("failed to encode JSON: %w", err)
		}
		return true, nil
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return true, fmt.Errorf("failed to encode YAML: %w", err)
		}
		return true, encoder.Close()
	}
	return false, nil
}

// renderResult prints a dispatch result.
func renderResult(w io.Writer, format string, res *dispatcher.Result) error {
	if ok, err := encode(w, format, res); ok {
		return err
	}

	field := func(label, value string) {
		_, _ = fmt.Fprintf(w, "%s %s\n", labelStyle.Render(label+":"), value)
	}

	field("Workflow", fmt.Sprintf("%s %s", res.WorkflowName, mutedStyle.Render(fmt.Sprintf("(%d, %s)", res.WorkflowID, res.WorkflowPath))))
	field("Repository", res.Repository)
	field("Ref", res.Ref)

	if res.Skipped {
		field("Dispatch", warnStyle.Render("skipped: "+res.Warning))
		return nil
	}
	if res.DispatchStatus != "" {
		field("Dispatch", res.DispatchStatus)
	}
	if res.RunURL != "" {
		field("Run", res.RunURL)
	}
	if res.Waited {
		field("Status", formatRunState(res.Status, res.Conclusion))
		field("Elapsed", fmt.Sprintf("%ds", res.ElapsedSeconds))
	}
	return nil
}

// renderRun prints a single workflow run.
func renderRun(w io.Writer, format string, run *github.WorkflowRun) error {
	if ok, err := encode(w, format, run); ok {
		return err
	}

	field := func(label, value string) {
		_, _ = fmt.Fprintf(w, "%s %s\n", labelStyle.Render(label+":"), value)
	}
	field("Run", fmt.Sprintf("%d %s", run.ID, mutedStyle.Render(run.Name)))
	field("Status", formatRunState(run.Status, run.Conclusion))
	if run.HeadBranch != "" {
		field("Branch", run.HeadBranch)
	}
	if run.Event != "" {
		field("Event", run.Event)
	}
	if !run.CreatedAt.IsZero() {
		field("Created", run.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	}
	if run.HTMLURL != "" {
		field("URL", run.HTMLURL)
	}
	return nil
}

// formatRunState renders "Completed (Success)" style text, coloured by conclusion.
func formatRunState(status, conclusion string) string {
	s := titleCaser.String(humanize(status))
	if conclusion == "" {
		return s
	}
	c := titleCaser.String(humanize(conclusion))
	switch conclusion {
	case "success":
		c = successStyle.Render(c)
	case "failure", "timed_out", "startup_failure":
		c = failureStyle.Render(c)
	default:
		c = warnStyle.Render(c)
	}
	return fmt.Sprintf("%s (%s)", s, c)
}

func humanize(s string) string {
	if s == "" {
		return "unknown"
	}
	return strings.ReplaceAll(s, "_", " ")
}
