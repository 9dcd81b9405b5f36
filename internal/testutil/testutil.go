// Package testutil provides helper functions for testing.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// dispatchEnv lists every variable wfdispatch reads from its environment.
var dispatchEnv = []string{
	"INPUT_WORKFLOW", "INPUT_TOKEN", "INPUT_REF", "INPUT_REPO", "INPUT_INPUTS", "INPUT_WAITTIME",
	"GITHUB_TOKEN", "GH_TOKEN",
	"GITHUB_ACTIONS", "GITHUB_REF", "GITHUB_REPOSITORY", "GITHUB_API_URL", "GITHUB_OUTPUT",
	"WFDISPATCH_CONFIG",
	"WFDISPATCH_API_BASE_URL", "WFDISPATCH_API_USER_AGENT", "WFDISPATCH_API_RATE_LIMIT",
	"WFDISPATCH_API_BURST", "WFDISPATCH_API_TIMEOUT",
	"WFDISPATCH_DISPATCH_DEFAULT_REPO", "WFDISPATCH_DISPATCH_POLL_INTERVAL",
	"WFDISPATCH_LOG_LEVEL", "WFDISPATCH_LOG_FORMAT", "WFDISPATCH_OUTPUT_FORMAT",
}

// ClearDispatchEnv blanks every input, runner and override variable for the
// duration of the test and points XDG_CONFIG_HOME at an empty directory.
func ClearDispatchEnv(t *testing.T) {
	t.Helper()
	for _, key := range dispatchEnv {
		t.Setenv(key, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

// ActionsRunner makes the test look like a GitHub Actions step running on
// ref in repo and returns the path of its GITHUB_OUTPUT file.
func ActionsRunner(t *testing.T, repo, ref string) string {
	t.Helper()
	outputPath := filepath.Join(t.TempDir(), "github_output")
	t.Setenv("GITHUB_ACTIONS", "true")
	t.Setenv("GITHUB_REF", ref)
	t.Setenv("GITHUB_REPOSITORY", repo)
	t.Setenv("GITHUB_OUTPUT", outputPath)
	return outputPath
}

// WriteConfig writes TOML content to a config file in a fresh temporary
// directory and returns its path.
func WriteConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}
