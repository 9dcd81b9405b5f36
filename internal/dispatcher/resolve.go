package dispatcher

import (
	"context"
	"strconv"
	"strings"

	wferrors "github.com/chazuruo/wfdispatch/internal/errors"
	"github.com/chazuruo/wfdispatch/internal/github"
)

// Matches reports whether w is identified by ref: its name, its id in
// decimal, or a suffix of its path.
func Matches(w github.Workflow, ref string) bool {
	return w.Name == ref ||
		strconv.FormatInt(w.ID, 10) == ref ||
		strings.HasSuffix(w.Path, ref)
}

// FindWorkflow returns the first workflow in list matching ref.
func FindWorkflow(list []github.Workflow, ref string) (github.Workflow, bool) {
	for _, w := range list {
		if Matches(w, ref) {
			return w, true
		}
	}
	return github.Workflow{}, false
}

// ResolveWorkflow lists every workflow of owner/repo and returns the first
// one matching ref.
func (d *Dispatcher) ResolveWorkflow(ctx context.Context, owner, repo, ref string) (github.Workflow, error) {
	slug := owner + "/" + repo

	list, err := d.api.ListWorkflows(ctx, owner, repo)
	if err != nil {
		return github.Workflow{}, &wferrors.WorkflowError{Op: "resolve", Ref: ref, Repo: slug, Err: err}
	}
	d.log.Debug("listed workflows", "repo", slug, "count", len(list))

	wf, ok := FindWorkflow(list, ref)
	if !ok {
		return github.Workflow{}, &wferrors.WorkflowError{Op: "resolve", Ref: ref, Repo: slug, Err: wferrors.ErrNotFound}
	}

	d.log.Info("found workflow", "id", wf.ID, "name", wf.Name, "path", wf.Path)
	return wf, nil
}
