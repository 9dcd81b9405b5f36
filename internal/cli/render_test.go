package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazuruo/wfdispatch/internal/dispatcher"
)

func TestRenderResult_Text(t *testing.T) {
	res := &dispatcher.Result{
		WorkflowID:     202,
		WorkflowName:   "Deploy",
		WorkflowPath:   ".github/workflows/deploy.yaml",
		Ref:            "main",
		Repository:     "octo/hello",
		DispatchStatus: "200 OK",
		RunID:          77,
		RunURL:         "https://github.com/octo/hello/actions/runs/77",
		Waited:         true,
		Status:         "completed",
		Conclusion:     "success",
		ElapsedSeconds: 20,
	}

	var buf bytes.Buffer
	require.NoError(t, renderResult(&buf, "text", res))
	out := buf.String()

	assert.Contains(t, out, "Deploy")
	assert.Contains(t, out, "(202, .github/workflows/deploy.yaml)")
	assert.Contains(t, out, "200 OK")
	assert.Contains(t, out, "runs/77")
	assert.Contains(t, out, "Success")
	assert.Contains(t, out, "20s")
}

func TestRenderResult_Skipped(t *testing.T) {
	res := &dispatcher.Result{WorkflowID: 303, WorkflowName: "Nightly", Skipped: true, Warning: "on a disabled workflow"}

	var buf bytes.Buffer
	require.NoError(t, renderResult(&buf, "text", res))
	assert.Contains(t, buf.String(), "skipped: on a disabled workflow")
	assert.NotContains(t, buf.String(), "Elapsed")
}

func TestRenderResult_YAMLOmitsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderResult(&buf, "yaml", &dispatcher.Result{WorkflowID: 1, Ref: "main"}))

	out := buf.String()
	assert.Contains(t, out, "workflowId: 1\n")
	assert.NotContains(t, out, "runId")
	assert.NotContains(t, out, "elapsed")
}

func TestFormatRunState(t *testing.T) {
	tests := []struct {
		status, conclusion string
		want               []string
	}{
		{"queued", "", []string{"Queued"}},
		{"in_progress", "", []string{"In Progress"}},
		{"completed", "success", []string{"Completed", "Success"}},
		{"completed", "timed_out", []string{"Completed", "Timed Out"}},
		{"", "", []string{"Unknown"}},
	}

	for _, tt := range tests {
		t.Run(tt.status+"/"+tt.conclusion, func(t *testing.T) {
			got := formatRunState(tt.status, tt.conclusion)
			for _, w := range tt.want {
				assert.True(t, strings.Contains(got, w), "formatRunState(%q, %q) = %q, want %q", tt.status, tt.conclusion, got, w)
			}
		})
	}
}
