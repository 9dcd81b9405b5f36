package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazuruo/wfdispatch/internal/config"
	wferrors "github.com/chazuruo/wfdispatch/internal/errors"
	"github.com/chazuruo/wfdispatch/internal/github"
	"github.com/chazuruo/wfdispatch/internal/log"
	"github.com/chazuruo/wfdispatch/internal/testutil"
)

func TestRoot_ActionsStep(t *testing.T) {
	isolate(t)
	outputPath := actionsEnv(t)

	fake := testutil.NewFakeGitHub(t)
	fake.Workflows = sampleWorkflows
	fake.Token = "s3cret"
	cfg := fakeConfig(t, fake, "")

	t.Setenv("INPUT_WORKFLOW", "deploy.yaml")
	t.Setenv("INPUT_TOKEN", "s3cret")

	out, err := execute(t, "--config", cfg)
	require.NoError(t, err)

	calls := fake.Dispatches()
	require.Len(t, calls, 1)
	assert.Equal(t, "octo", calls[0].Owner)
	assert.Equal(t, "hello", calls[0].Repo)
	assert.Equal(t, int64(202), calls[0].WorkflowID)
	assert.Equal(t, "refs/heads/main", calls[0].Body.Ref)
	assert.Empty(t, calls[0].Body.Inputs)
	assert.True(t, calls[0].Body.ReturnRunDetails)

	assert.Equal(t, "workflowId=202\n", readFile(t, outputPath))
	assert.Contains(t, out, "Deploy")
	assert.Equal(t, 0, fake.RunGets(), "no wait time means no polling")
}

func TestDispatch_FlagsOverrideInputs(t *testing.T) {
	isolate(t)

	fake := testutil.NewFakeGitHub(t)
	fake.Workflows = sampleWorkflows
	fake.Token = "flag-token"
	cfg := fakeConfig(t, fake, "")

	t.Setenv("INPUT_WORKFLOW", "ci.yml")
	t.Setenv("INPUT_TOKEN", "env-token")

	out, err := execute(t, "dispatch", "--config", cfg,
		"--workflow", "Deploy",
		"--token", "flag-token",
		"--repo", "octo/hello",
		"--ref", "v1.0.0",
		"--inputs", `{"env":"prod","replicas":3}`,
		"-o", "json")
	require.NoError(t, err)

	calls := fake.Dispatches()
	require.Len(t, calls, 1)
	assert.Equal(t, int64(202), calls[0].WorkflowID)
	assert.Equal(t, "v1.0.0", calls[0].Body.Ref)
	assert.Equal(t, map[string]any{"env": "prod", "replicas": float64(3)}, calls[0].Body.Inputs)

	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, float64(202), res["workflowId"])
	assert.Equal(t, "octo/hello", res["repository"])
	assert.Equal(t, false, res["waited"])
}

func TestDispatch_WaitForCompletion(t *testing.T) {
	isolate(t)
	outputPath := actionsEnv(t)

	fake := testutil.NewFakeGitHub(t)
	fake.Workflows = sampleWorkflows
	fake.DispatchRunID = 77
	fake.RunStatuses = []github.WorkflowRun{
		{ID: 77, Status: github.StatusCompleted, Conclusion: "success", HTMLURL: "https://github.com/octo/hello/actions/runs/77"},
	}
	cfg := fakeConfig(t, fake, "")

	out, err := execute(t, "--config", cfg,
		"--workflow", "CI", "--token", "t", "--wait-time", "5", "-o", "yaml")
	require.NoError(t, err)

	assert.Equal(t, 1, fake.RunGets())
	assert.Contains(t, out, "workflowId: 101")
	assert.Contains(t, out, "runId: 77")
	assert.Contains(t, out, "conclusion: success")
	assert.Contains(t, out, "elapsedSeconds: 1")

	assert.Equal(t,
		"workflowId=101\nrunId=77\nrunUrl=https://github.com/octo/hello/actions/runs/77\nconclusion=success\n",
		readFile(t, outputPath))
}

func TestDispatch_DisabledWorkflowWarns(t *testing.T) {
	isolate(t)
	outputPath := actionsEnv(t)

	fake := testutil.NewFakeGitHub(t)
	fake.Workflows = sampleWorkflows
	fake.DispatchErrStatus = 422
	fake.DispatchErrMessage = "Cannot trigger a 'workflow_dispatch' on a disabled workflow"
	cfg := fakeConfig(t, fake, "")

	out, err := execute(t, "--config", cfg, "--workflow", "Nightly", "--token", "t")
	require.NoError(t, err)

	assert.Contains(t, out, "::warning::")
	assert.Contains(t, out, "on a disabled workflow")
	assert.NotContains(t, out, "::error::")
	assert.Equal(t, "workflowId=303\n", readFile(t, outputPath))
}

func TestDispatch_APIErrorFails(t *testing.T) {
	isolate(t)
	outputPath := actionsEnv(t)

	fake := testutil.NewFakeGitHub(t)
	fake.Workflows = sampleWorkflows
	fake.DispatchErrStatus = 422
	fake.DispatchErrMessage = "No ref found for: nope"
	cfg := fakeConfig(t, fake, "")

	out, err := execute(t, "--config", cfg, "--workflow", "CI", "--token", "t", "--ref", "nope")
	require.Error(t, err)
	assert.True(t, wferrors.IsAPI(err))
	assert.Contains(t, out, "::error::")

	// The workflow id is published even though the dispatch failed.
	assert.Equal(t, "workflowId=101\n", readFile(t, outputPath))
}

func TestDispatch_WorkflowNotFound(t *testing.T) {
	isolate(t)
	outputPath := actionsEnv(t)

	fake := testutil.NewFakeGitHub(t)
	fake.Workflows = sampleWorkflows
	cfg := fakeConfig(t, fake, "")

	out, err := execute(t, "--config", cfg, "--workflow", "release.yml", "--token", "t")
	require.Error(t, err)
	assert.True(t, wferrors.IsNotFound(err))
	assert.Contains(t, err.Error(), "octo/hello")
	assert.Contains(t, out, "::error::")
	assert.Empty(t, fake.Dispatches())

	_, statErr := os.Stat(outputPath)
	assert.True(t, os.IsNotExist(statErr), "no outputs without a resolved workflow")
}

func TestDispatch_ConfigErrorsMakeNoRequests(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"non-numeric wait time", []string{"--workflow", "CI", "--token", "t", "--repo", "o/r", "--ref", "main", "--wait-time", "abc"}},
		{"malformed inputs", []string{"--workflow", "CI", "--token", "t", "--repo", "o/r", "--ref", "main", "--inputs", "{nope"}},
		{"missing token", []string{"--workflow", "CI", "--repo", "o/r", "--ref", "main"}},
		{"missing repo", []string{"--workflow", "CI", "--token", "t", "--ref", "main"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			fake := testutil.NewFakeGitHub(t)
			cfg := fakeConfig(t, fake, "")

			_, err := execute(t, append([]string{"--config", cfg}, tt.args...)...)
			require.Error(t, err)
			_, ok := wferrors.AsConfigError(err)
			assert.True(t, ok, "want *ConfigError, got %v", err)
			assert.Equal(t, 0, fake.Requests())
		})
	}
}

func TestDispatch_DefaultRepoFromConfig(t *testing.T) {
	isolate(t)

	fake := testutil.NewFakeGitHub(t)
	fake.Workflows = sampleWorkflows
	cfg := fakeConfig(t, fake, `default_repo = "team/svc"`)

	_, err := execute(t, "--config", cfg, "--workflow", "101", "--token", "t", "--ref", "main")
	require.NoError(t, err)

	calls := fake.Dispatches()
	require.Len(t, calls, 1)
	assert.Equal(t, "team", calls[0].Owner)
	assert.Equal(t, "svc", calls[0].Repo)
}

func TestDispatch_LocalCheckoutDefaults(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	isolate(t)

	dir := t.TempDir()
	for _, args := range [][]string{
		{"init", "-q"},
		{"symbolic-ref", "HEAD", "refs/heads/feature/x"},
		{"remote", "add", "origin", "https://github.com/octo/hello.git"},
	} {
		c := exec.Command("git", args...)
		c.Dir = dir
		out, err := c.CombinedOutput()
		require.NoError(t, err, string(out))
	}
	chdir(t, dir)

	fake := testutil.NewFakeGitHub(t)
	fake.Workflows = sampleWorkflows
	cfg := fakeConfig(t, fake, "")
	t.Setenv("GH_TOKEN", "from-gh")

	_, err := execute(t, "--config", cfg, "--workflow", "ci.yml")
	require.NoError(t, err)

	calls := fake.Dispatches()
	require.Len(t, calls, 1)
	assert.Equal(t, "octo", calls[0].Owner)
	assert.Equal(t, "hello", calls[0].Repo)
	assert.Equal(t, "feature/x", calls[0].Body.Ref)
}

func TestDispatch_UnknownArgument(t *testing.T) {
	isolate(t)

	_, err := execute(t, "bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestDispatchOptions_Overlay(t *testing.T) {
	opts := &DispatchOptions{Workflow: "flag", WaitTime: "30"}
	in := opts.overlay(config.Inputs{Workflow: "env", Token: "env-token", WaitTime: "10"})

	assert.Equal(t, "flag", in.Workflow)
	assert.Equal(t, "env-token", in.Token)
	assert.Equal(t, "30", in.WaitTime)
}

func TestDispatcherLogger_QuietUnderSpinner(t *testing.T) {
	var buf bytes.Buffer
	rt := &session{log: log.New(&buf, "info", "text")}

	dispatcherLogger(rt, true).Info("dispatched workflow")
	assert.Empty(t, buf.String(), "info lines would draw over the spinner")

	dispatcherLogger(rt, true).Warn("workflow is disabled")
	assert.Contains(t, buf.String(), "workflow is disabled")

	buf.Reset()
	dispatcherLogger(rt, false).Info("dispatched workflow")
	assert.Contains(t, buf.String(), "component=dispatcher")
}
