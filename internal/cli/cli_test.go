package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/chazuruo/wfdispatch/internal/github"
	"github.com/chazuruo/wfdispatch/internal/testutil"
)

var testVersion = VersionInfo{Version: "1.2.3", Commit: "abc1234", Date: "2026-10-17"}

var sampleWorkflows = []github.Workflow{
	{ID: 101, Name: "CI", Path: ".github/workflows/ci.yml", State: "active"},
	{ID: 202, Name: "Deploy", Path: ".github/workflows/deploy.yaml", State: "active"},
	{ID: 303, Name: "Nightly", Path: ".github/workflows/nightly/build.yml", State: "disabled_manually"},
}

// isolate clears every variable the commands read and moves the test into an
// empty directory outside any Git checkout.
func isolate(t *testing.T) {
	t.Helper()
	testutil.ClearDispatchEnv(t)
	chdir(t, t.TempDir())
}

// chdir mirrors testing.T.Chdir (Go 1.24+): it changes the working directory
// and restores it when the test finishes.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	if abs, err := filepath.Abs(dir); err == nil {
		t.Setenv("PWD", abs)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restoring working directory: %v", err)
		}
	})
}

// fakeConfig writes a config pointing at the fake API with pacing disabled.
// dispatchExtra is appended to the [dispatch] section.
func fakeConfig(t *testing.T, f *testutil.FakeGitHub, dispatchExtra string) string {
	t.Helper()
	return testutil.WriteConfig(t, fmt.Sprintf(`
[api]
base_url = %q
rate_limit = 0

[log]
level = "error"

[dispatch]
poll_interval = 1
%s
`, f.URL(), dispatchExtra))
}

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand(testVersion)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// actionsEnv simulates a GitHub Actions step and returns the output file path.
func actionsEnv(t *testing.T) string {
	t.Helper()
	return testutil.ActionsRunner(t, "octo/hello", "refs/heads/main")
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
