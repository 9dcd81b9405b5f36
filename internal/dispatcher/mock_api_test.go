package dispatcher

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/chazuruo/wfdispatch/internal/github"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) ListWorkflows(ctx context.Context, owner, repo string) ([]github.Workflow, error) {
	args := m.Called(ctx, owner, repo)
	list, _ := args.Get(0).([]github.Workflow)
	return list, args.Error(1)
}

func (m *mockAPI) DispatchWorkflow(ctx context.Context, owner, repo string, id int64, req github.DispatchRequest) (*github.DispatchResponse, error) {
	args := m.Called(ctx, owner, repo, id, req)
	resp, _ := args.Get(0).(*github.DispatchResponse)
	return resp, args.Error(1)
}

func (m *mockAPI) GetWorkflowRun(ctx context.Context, owner, repo string, runID int64) (*github.WorkflowRun, error) {
	args := m.Called(ctx, owner, repo, runID)
	run, _ := args.Get(0).(*github.WorkflowRun)
	return run, args.Error(1)
}

func (m *mockAPI) ListWorkflowRuns(ctx context.Context, owner, repo string, id int64, f github.RunFilter) ([]github.WorkflowRun, error) {
	args := m.Called(ctx, owner, repo, id, f)
	runs, _ := args.Get(0).([]github.WorkflowRun)
	return runs, args.Error(1)
}
