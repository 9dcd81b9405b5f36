package github_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wferrors "github.com/chazuruo/wfdispatch/internal/errors"
	"github.com/chazuruo/wfdispatch/internal/github"
	"github.com/chazuruo/wfdispatch/internal/testutil"
)

func newClient(f *testutil.FakeGitHub) *github.Client {
	return github.NewClient(f.URL(), "s3cret", github.WithRateLimit(0, 0))
}

func TestListWorkflows_FollowsPagination(t *testing.T) {
	f := testutil.NewFakeGitHub(t)
	f.Token = "s3cret"
	f.PageSize = 2
	for i := 1; i <= 5; i++ {
		f.Workflows = append(f.Workflows, github.Workflow{
			ID:   int64(i),
			Name: fmt.Sprintf("wf-%d", i),
			Path: fmt.Sprintf(".github/workflows/wf-%d.yml", i),
		})
	}

	got, err := newClient(f).ListWorkflows(context.Background(), "octo", "hello")
	require.NoError(t, err)
	require.Len(t, got, 5)
	for i, w := range got {
		assert.Equal(t, int64(i+1), w.ID, "API order must be kept")
	}
	assert.Equal(t, 3, f.Requests())
}

func TestListWorkflows_RefusesForeignNextPage(t *testing.T) {
	f := testutil.NewFakeGitHub(t)
	f.PageSize = 1
	f.LinkBase = "https://elsewhere.example"
	f.Workflows = []github.Workflow{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}

	got, err := newClient(f).ListWorkflows(context.Background(), "octo", "hello")
	require.Error(t, err)
	assert.Nil(t, got)
	assert.Contains(t, err.Error(), "elsewhere.example")
	assert.Equal(t, 1, f.Requests(), "the token must not leave the API host")
}

func TestListWorkflows_Empty(t *testing.T) {
	f := testutil.NewFakeGitHub(t)

	got, err := newClient(f).ListWorkflows(context.Background(), "octo", "hello")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListWorkflows_BadCredentials(t *testing.T) {
	f := testutil.NewFakeGitHub(t)
	f.Token = "other"

	_, err := newClient(f).ListWorkflows(context.Background(), "octo", "hello")
	require.Error(t, err)

	apiErr, ok := wferrors.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, 401, apiErr.StatusCode)
	assert.Equal(t, "Bad credentials", apiErr.Message)
}

func TestDispatchWorkflow_NoContent(t *testing.T) {
	f := testutil.NewFakeGitHub(t)

	resp, err := newClient(f).DispatchWorkflow(context.Background(), "octo", "hello", 42, github.DispatchRequest{Ref: "main"})
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)
	assert.Zero(t, resp.RunID)

	calls := f.Dispatches()
	require.Len(t, calls, 1)
	assert.Equal(t, int64(42), calls[0].WorkflowID)
	assert.Equal(t, "octo", calls[0].Owner)
	assert.Equal(t, "main", calls[0].Body.Ref)
	assert.NotNil(t, calls[0].Body.Inputs, "inputs must be sent as an empty object")
	assert.Empty(t, calls[0].Body.Inputs)
}

func TestDispatchWorkflow_RunDetails(t *testing.T) {
	f := testutil.NewFakeGitHub(t)
	f.DispatchRunID = 9001

	resp, err := newClient(f).DispatchWorkflow(context.Background(), "octo", "hello", 42, github.DispatchRequest{
		Ref:              "v1.2.0",
		Inputs:           map[string]any{"env": "prod"},
		ReturnRunDetails: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, int64(9001), resp.RunID)
	assert.Contains(t, resp.HTMLURL, "/actions/runs/9001")
	assert.Equal(t, "prod", f.Dispatches()[0].Body.Inputs["env"])
}

func TestDispatchWorkflow_DisabledMessageSurvives(t *testing.T) {
	f := testutil.NewFakeGitHub(t)
	f.DispatchErrStatus = 422
	f.DispatchErrMessage = "Cannot trigger a 'workflow_dispatch' on a disabled workflow"

	_, err := newClient(f).DispatchWorkflow(context.Background(), "octo", "hello", 42, github.DispatchRequest{Ref: "main"})
	require.Error(t, err)
	assert.True(t, strings.HasSuffix(err.Error(), "a disabled workflow"), err.Error())
	assert.True(t, wferrors.IsAPI(err))
}

func TestGetWorkflowRun(t *testing.T) {
	f := testutil.NewFakeGitHub(t)
	f.RunStatuses = []github.WorkflowRun{
		{ID: 7, Status: github.StatusQueued},
		{ID: 7, Status: github.StatusCompleted, Conclusion: "success"},
	}

	c := newClient(f)
	ctx := context.Background()

	run, err := c.GetWorkflowRun(ctx, "octo", "hello", 7)
	require.NoError(t, err)
	assert.Equal(t, github.StatusQueued, run.Status)

	run, err = c.GetWorkflowRun(ctx, "octo", "hello", 7)
	require.NoError(t, err)
	assert.Equal(t, github.StatusCompleted, run.Status)
	assert.Equal(t, "success", run.Conclusion)
}

func TestListWorkflowRuns(t *testing.T) {
	f := testutil.NewFakeGitHub(t)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	f.Runs = []github.WorkflowRun{
		{ID: 3, Event: "workflow_dispatch", HeadBranch: "main", CreatedAt: created},
	}

	runs, err := newClient(f).ListWorkflowRuns(context.Background(), "octo", "hello", 42, github.RunFilter{
		Event:   "workflow_dispatch",
		Branch:  "main",
		Created: created,
	})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, int64(3), runs[0].ID)
	assert.True(t, runs[0].CreatedAt.Equal(created))
}
