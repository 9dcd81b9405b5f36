// Package tui provides Bubble Tea models for wfdispatch.
package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chazuruo/wfdispatch/internal/dispatcher"
)

// ProgressMsg carries one wait cycle into the model.
type ProgressMsg dispatcher.Progress

// DoneMsg is sent when the dispatch returned.
type DoneMsg struct{}

// WaitModel shows a spinner while a dispatched run is being waited on.
type WaitModel struct {
	// Title names the workflow being waited on.
	Title string

	// Last is the most recent progress report.
	Last dispatcher.Progress

	// Polls counts the progress reports received.
	Polls int

	// Done indicates the dispatch returned.
	Done bool

	spinner    spinner.Model
	titleStyle lipgloss.Style
	mutedStyle lipgloss.Style
}

// NewWaitModel creates a wait model for the named workflow.
func NewWaitModel(title string) WaitModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return WaitModel{
		Title:      title,
		spinner:    s,
		titleStyle: lipgloss.NewStyle().Bold(true),
		mutedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// Init starts the spinner.
func (m WaitModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles progress, completion and spinner ticks.
func (m WaitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ProgressMsg:
		m.Last = dispatcher.Progress(msg)
		m.Polls++
		return m, nil
	case DoneMsg:
		m.Done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the current wait state. It is empty once done so the final
// result printed afterwards is not preceded by a stale spinner line.
func (m WaitModel) View() string {
	if m.Done {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(m.titleStyle.Render(m.Title))
	b.WriteString(" ")

	switch {
	case m.Polls == 0:
		b.WriteString("dispatching")
	case m.Last.RunID == 0:
		b.WriteString("waiting for the run to appear")
	default:
		b.WriteString(fmt.Sprintf("run %d %s", m.Last.RunID, strings.ReplaceAll(m.Last.Status, "_", " ")))
	}

	if m.Polls > 0 {
		b.WriteString(" ")
		b.WriteString(m.mutedStyle.Render(fmt.Sprintf("%s / %s", m.Last.Elapsed.Round(time.Second), m.Last.WaitTime.Round(time.Second))))
	}
	b.WriteString("\n")
	return b.String()
}

// RunWithProgress runs work while rendering a WaitModel to w. work receives a
// callback to feed progress into the view. The error of work is returned; a
// rendering failure only stops the spinner.
func RunWithProgress(w io.Writer, title string, work func(report func(dispatcher.Progress)) error) error {
	p := tea.NewProgram(NewWaitModel(title),
		tea.WithOutput(w),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)

	errc := make(chan error, 1)
	go func() {
		err := work(func(pr dispatcher.Progress) { p.Send(ProgressMsg(pr)) })
		errc <- err
		p.Send(DoneMsg{})
	}()

	_, _ = p.Run()
	return <-errc
}
