// Package gitrepo inspects a local Git checkout.
// It shells out to the git binary, which keeps it a thin wrapper around
// whatever git the user already has configured.
package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Repo is the interface for the read-only Git queries wfdispatch needs.
type Repo interface {
	// Path returns the repository path.
	Path() string

	// IsInitialized returns true if Path is inside a Git work tree.
	IsInitialized(ctx context.Context) bool

	// CurrentBranch returns the checked-out branch name.
	// A detached HEAD is an error.
	CurrentBranch(ctx context.Context) (string, error)

	// RemoteURL returns the fetch URL of the named remote.
	RemoteURL(ctx context.Context, remote string) (string, error)

	// GetConfig reads a git config value.
	GetConfig(ctx context.Context, key string) (string, error)
}

// gitRepo represents a Git repository on disk.
type gitRepo struct {
	path string
}

// GitError wraps an error from a Git command.
type GitError struct {
	// Args is the arguments passed to the Git command.
	Args []string
	// Err is the underlying error.
	Err error
	// ExitCode is the exit code from the Git command.
	ExitCode int
}

// Error returns the error message.
func (e *GitError) Error() string {
	return fmt.Sprintf("git %s: %s", strings.Join(e.Args, " "), e.Err.Error())
}

// Unwrap returns the underlying error.
func (e *GitError) Unwrap() error {
	return e.Err
}

// New creates a new Repo instance for the given path.
func New(path string) Repo {
	return &gitRepo{path: path}
}

// Path returns the repository path.
func (r *gitRepo) Path() string {
	return r.path
}

// runGit executes a git command in the repository and returns its trimmed stdout.
func (r *gitRepo) runGit(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.path

	var stderr strings.Builder
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		var exitCode int
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			exitCode = ee.ExitCode()
		}
		return "", &GitError{
			Args:     args,
			Err:      fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String())),
			ExitCode: exitCode,
		}
	}
	return strings.TrimSpace(string(output)), nil
}

// IsInitialized returns true if the repository is already initialized.
func (r *gitRepo) IsInitialized(ctx context.Context) bool {
	_, err := r.runGit(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil
}

// CurrentBranch returns the current branch name. It works on an unborn
// branch (no commits yet), unlike rev-parse.
func (r *gitRepo) CurrentBranch(ctx context.Context) (string, error) {
	return r.runGit(ctx, "symbolic-ref", "--short", "-q", "HEAD")
}

// RemoteURL returns the URL of remote.
func (r *gitRepo) RemoteURL(ctx context.Context, remote string) (string, error) {
	return r.runGit(ctx, "remote", "get-url", remote)
}

// GetConfig reads a git config value.
func (r *gitRepo) GetConfig(ctx context.Context, key string) (string, error) {
	return r.runGit(ctx, "config", "--get", key)
}
