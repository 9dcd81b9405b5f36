package dispatcher

import (
	"context"

	wferrors "github.com/chazuruo/wfdispatch/internal/errors"
	"github.com/chazuruo/wfdispatch/internal/github"
)

// Dispatch sends one workflow_dispatch request for wf.
// Only the client's own error for a non-2xx response counts as failure.
func (d *Dispatcher) Dispatch(ctx context.Context, opts Options, wf github.Workflow) (*github.DispatchResponse, error) {
	inputs := opts.Inputs
	if inputs == nil {
		inputs = map[string]any{}
	}

	resp, err := d.api.DispatchWorkflow(ctx, opts.Owner, opts.Repo, wf.ID, github.DispatchRequest{
		Ref:              opts.Ref,
		Inputs:           inputs,
		ReturnRunDetails: true,
	})
	if err != nil {
		return nil, &wferrors.WorkflowError{Op: "dispatch", Ref: opts.WorkflowRef, Repo: opts.Slug(), Err: err}
	}

	d.log.Info("dispatched workflow", "id", wf.ID, "ref", opts.Ref, "status", resp.Status, "run_id", resp.RunID)
	return resp, nil
}
