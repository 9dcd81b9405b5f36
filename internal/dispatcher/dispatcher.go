// Package dispatcher triggers a GitHub Actions workflow and optionally waits
// for the resulting run to finish.
//
// A dispatch is a linear sequence: resolve the workflow reference against the
// repository's workflow list, send one workflow_dispatch request, then, when a
// wait time was given, poll the run on a fixed interval until it reports
// "completed" or the deadline passes. No step is retried.
package dispatcher

import (
	"context"
	"time"

	"github.com/chazuruo/wfdispatch/internal/github"
	"github.com/chazuruo/wfdispatch/internal/log"
)

// DefaultPollInterval is the pause between two run status checks.
const DefaultPollInterval = 10 * time.Second

// API is the subset of the GitHub client the dispatcher consumes.
type API interface {
	ListWorkflows(ctx context.Context, owner, repo string) ([]github.Workflow, error)
	DispatchWorkflow(ctx context.Context, owner, repo string, id int64, req github.DispatchRequest) (*github.DispatchResponse, error)
	GetWorkflowRun(ctx context.Context, owner, repo string, runID int64) (*github.WorkflowRun, error)
	ListWorkflowRuns(ctx context.Context, owner, repo string, id int64, f github.RunFilter) ([]github.WorkflowRun, error)
}

// Logger is the logging capability the dispatcher needs. *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// InvocationContext carries the defaults of the environment that invoked the
// dispatch: the ref being built and the repository it belongs to.
type InvocationContext struct {
	Ref   string
	Owner string
	Repo  string
}

// Options are the fully resolved inputs of one dispatch.
type Options struct {
	// WorkflowRef is a workflow name, numeric id, or path suffix.
	WorkflowRef string
	// Ref is the branch, tag or SHA the run executes against.
	Ref   string
	Owner string
	Repo  string
	// Inputs are passed through as workflow_dispatch inputs.
	Inputs map[string]any

	// Wait enables polling. WaitTime is the deadline measured in poll
	// intervals slept, not wall-clock time.
	Wait         bool
	WaitTime     time.Duration
	PollInterval time.Duration
}

// Slug returns "owner/repo".
func (o Options) Slug() string { return o.Owner + "/" + o.Repo }

// Result describes what a dispatch did.
type Result struct {
	WorkflowID     int64  `json:"workflowId" yaml:"workflowId"`
	WorkflowName   string `json:"workflowName" yaml:"workflowName"`
	WorkflowPath   string `json:"workflowPath" yaml:"workflowPath"`
	Ref            string `json:"ref" yaml:"ref"`
	Repository     string `json:"repository" yaml:"repository"`
	DispatchStatus string `json:"dispatchStatus,omitempty" yaml:"dispatchStatus,omitempty"`

	RunID  int64  `json:"runId,omitempty" yaml:"runId,omitempty"`
	RunURL string `json:"runUrl,omitempty" yaml:"runUrl,omitempty"`

	Waited         bool          `json:"waited" yaml:"waited"`
	Status         string        `json:"status,omitempty" yaml:"status,omitempty"`
	Conclusion     string        `json:"conclusion,omitempty" yaml:"conclusion,omitempty"`
	Elapsed        time.Duration `json:"-" yaml:"-"`
	ElapsedSeconds int           `json:"elapsedSeconds,omitempty" yaml:"elapsedSeconds,omitempty"`

	// Skipped is set when the dispatch was refused because the workflow is
	// disabled; Warning then holds the upstream message.
	Skipped bool   `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Warning string `json:"warning,omitempty" yaml:"warning,omitempty"`
}

// Progress reports one cycle of waiting on a run. RunID is zero and Status
// empty while the dispatched run is not visible yet.
type Progress struct {
	RunID    int64
	Status   string
	Elapsed  time.Duration
	WaitTime time.Duration
}

// Dispatcher runs dispatches against an API.
type Dispatcher struct {
	api      API
	log      Logger
	clock    Clock
	progress func(Progress)
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.log = l
		}
	}
}

// WithClock sets the clock used for polling.
func WithClock(c Clock) Option {
	return func(d *Dispatcher) {
		if c != nil {
			d.clock = c
		}
	}
}

// WithProgress registers fn to be called after every wait cycle that got past
// the deadline check.
func WithProgress(fn func(Progress)) Option {
	return func(d *Dispatcher) { d.progress = fn }
}

// New creates a Dispatcher.
func New(api API, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		api:   api,
		log:   log.WithComponent("dispatcher"),
		clock: RealClock{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run resolves, dispatches and optionally waits.
//
// A refusal because the workflow is disabled is not a failure: Run logs a
// warning and returns a Result with Skipped set and a nil error.
// On any other error the returned Result is still non-nil once the workflow
// was resolved, so callers can publish the workflow id.
func (d *Dispatcher) Run(ctx context.Context, opts Options) (*Result, error) {
	res := &Result{Ref: opts.Ref, Repository: opts.Slug()}

	err := d.run(ctx, opts, res)
	if err == nil {
		return res, nil
	}

	if IsDisabledWorkflowError(err.Error()) {
		d.log.Warn("workflow is disabled, nothing was dispatched",
			"workflow", opts.WorkflowRef, "repo", opts.Slug(), "error", err.Error())
		res.Skipped = true
		res.Warning = err.Error()
		return res, nil
	}

	if res.WorkflowID == 0 {
		return nil, err
	}
	return res, err
}

func (d *Dispatcher) run(ctx context.Context, opts Options, res *Result) error {
	wf, err := d.ResolveWorkflow(ctx, opts.Owner, opts.Repo, opts.WorkflowRef)
	if err != nil {
		return err
	}
	res.WorkflowID = wf.ID
	res.WorkflowName = wf.Name
	res.WorkflowPath = wf.Path

	dispatchedAt := d.clock.Now()
	resp, err := d.Dispatch(ctx, opts, wf)
	if err != nil {
		return err
	}
	res.DispatchStatus = resp.Status
	res.RunID = resp.RunID
	res.RunURL = resp.HTMLURL

	if !opts.Wait {
		return nil
	}

	res.Waited = true
	run, elapsed, err := d.WaitForCompletion(ctx, opts, wf, resp.RunID, dispatchedAt)
	res.Elapsed = elapsed
	res.ElapsedSeconds = int(elapsed / time.Second)
	if run != nil {
		res.RunID = run.ID
		res.Status = run.Status
		res.Conclusion = run.Conclusion
		if run.HTMLURL != "" {
			res.RunURL = run.HTMLURL
		}
	}
	return err
}

func (d *Dispatcher) report(p Progress) {
	if d.progress != nil {
		d.progress(p)
	}
}
