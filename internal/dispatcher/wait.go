package dispatcher

import (
	"context"
	"fmt"
	"strings"
	"time"

	wferrors "github.com/chazuruo/wfdispatch/internal/errors"
	"github.com/chazuruo/wfdispatch/internal/github"
)

// createdSkew widens the run lookup window to absorb clock drift between
// this host and GitHub.
const createdSkew = 30 * time.Second

// WaitForCompletion polls the run started by a dispatch until it completes.
//
// Each cycle sleeps one interval, adds it to the elapsed time, fails if the
// elapsed time exceeds opts.WaitTime, and only then fetches the run. So a
// wait time shorter than one interval always times out, and the last poll
// may land up to one interval after the deadline would have allowed.
//
// When runID is zero the dispatch response carried no run details; the run
// is then looked up among workflow_dispatch runs created since dispatchedAt,
// and a cycle in which it is not visible yet counts as not completed.
func (d *Dispatcher) WaitForCompletion(ctx context.Context, opts Options, wf github.Workflow, runID int64, dispatchedAt time.Time) (*github.WorkflowRun, time.Duration, error) {
	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	var (
		elapsed time.Duration
		last    *github.WorkflowRun
	)

	maxCycles := int(opts.WaitTime/interval) + 1
	for cycle := 0; cycle < maxCycles; cycle++ {
		if err := d.clock.Sleep(ctx, interval); err != nil {
			return last, elapsed, &wferrors.WorkflowError{Op: "wait", Ref: opts.WorkflowRef, Err: err}
		}
		elapsed += interval

		if elapsed > opts.WaitTime {
			return last, elapsed, d.timeout(opts, runID)
		}

		if runID == 0 {
			found, err := d.findRun(ctx, opts, wf, dispatchedAt)
			if err != nil {
				return last, elapsed, &wferrors.WorkflowError{Op: "wait", Ref: opts.WorkflowRef, Err: err}
			}
			if found == nil {
				d.log.Debug("dispatched run not visible yet", "workflow_id", wf.ID, "elapsed", elapsed)
				d.report(Progress{Elapsed: elapsed, WaitTime: opts.WaitTime})
				continue
			}
			runID = found.ID
			d.log.Info("located dispatched run", "run_id", runID, "url", found.HTMLURL)
		}

		run, err := d.api.GetWorkflowRun(ctx, opts.Owner, opts.Repo, runID)
		if err != nil {
			return last, elapsed, &wferrors.WorkflowError{Op: "wait", Ref: opts.WorkflowRef, Err: err}
		}
		last = run
		d.log.Debug("polled run", "run_id", runID, "status", run.Status, "elapsed", elapsed)
		d.report(Progress{RunID: runID, Status: run.Status, Elapsed: elapsed, WaitTime: opts.WaitTime})

		if run.Status == github.StatusCompleted {
			d.log.Info("workflow run completed",
				"run_id", run.ID,
				"conclusion", run.Conclusion,
				"elapsed_seconds", int(elapsed/time.Second))
			return run, elapsed, nil
		}
	}

	return last, elapsed, d.timeout(opts, runID)
}

func (d *Dispatcher) timeout(opts Options, runID int64) error {
	run := "dispatched run"
	if runID != 0 {
		run = fmt.Sprintf("run %d", runID)
	}
	return &wferrors.WorkflowError{
		Op:  "wait",
		Ref: opts.WorkflowRef,
		Err: fmt.Errorf("%s did not complete within the wait time of %d seconds: %w",
			run, int(opts.WaitTime/time.Second), wferrors.ErrTimeout),
	}
}

// findRun returns the newest workflow_dispatch run of wf on the dispatched
// ref created since dispatchedAt, or nil when none is listed yet.
func (d *Dispatcher) findRun(ctx context.Context, opts Options, wf github.Workflow, dispatchedAt time.Time) (*github.WorkflowRun, error) {
	since := dispatchedAt.Add(-createdSkew)

	runs, err := d.api.ListWorkflowRuns(ctx, opts.Owner, opts.Repo, wf.ID, github.RunFilter{
		Event:   "workflow_dispatch",
		Branch:  branchName(opts.Ref),
		Created: since,
	})
	if err != nil {
		return nil, err
	}

	for i := range runs {
		if !runs[i].CreatedAt.Before(since) {
			return &runs[i], nil
		}
	}
	return nil, nil
}

// branchName strips the refs/heads/ or refs/tags/ prefix; the runs API
// filters on the bare head branch name.
func branchName(ref string) string {
	ref = strings.TrimPrefix(ref, "refs/heads/")
	return strings.TrimPrefix(ref, "refs/tags/")
}
