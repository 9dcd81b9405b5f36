package gitrepo

import (
	"context"
	"os/exec"
	"testing"
)

// initRepo creates a repository with an unborn "trunk" branch in a temp dir.
func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	tmpDir := t.TempDir()
	for _, args := range [][]string{
		{"init", "-q"},
		{"symbolic-ref", "HEAD", "refs/heads/trunk"},
	} {
		cmd := exec.Command("git", args...)
		cmd.Dir = tmpDir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v: %s", args, err, out)
		}
	}
	return tmpDir
}

func TestNew(t *testing.T) {
	path := "/test/path"
	repo := New(path)

	if repo == nil {
		t.Fatal("New() returned nil")
	}

	if repo.Path() != path {
		t.Errorf("Path() = %s, want %s", repo.Path(), path)
	}
}

func TestGitRepo_IsInitialized(t *testing.T) {
	t.Run("not initialized", func(t *testing.T) {
		if _, err := exec.LookPath("git"); err != nil {
			t.Skip("git not installed")
		}
		repo := New(t.TempDir())

		if repo.IsInitialized(context.Background()) {
			t.Error("IsInitialized() = true, want false")
		}
	})

	t.Run("initialized", func(t *testing.T) {
		repo := New(initRepo(t))

		if !repo.IsInitialized(context.Background()) {
			t.Error("IsInitialized() = false, want true")
		}
	})
}

func TestGitRepo_CurrentBranch(t *testing.T) {
	repo := New(initRepo(t))

	branch, err := repo.CurrentBranch(context.Background())
	if err != nil {
		t.Fatalf("CurrentBranch() error = %v", err)
	}
	if branch != "trunk" {
		t.Errorf("CurrentBranch() = %q, want trunk", branch)
	}
}

func TestGitRepo_RemoteURL(t *testing.T) {
	dir := initRepo(t)
	repo := New(dir)
	ctx := context.Background()

	if _, err := repo.RemoteURL(ctx, "origin"); err == nil {
		t.Error("RemoteURL() on a repo without origin should fail")
	} else if _, ok := err.(*GitError); !ok {
		t.Errorf("RemoteURL() error type = %T, want *GitError", err)
	}

	cmd := exec.Command("git", "remote", "add", "origin", "git@github.com:octo/hello.git")
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git remote add: %v: %s", err, out)
	}

	got, err := repo.RemoteURL(ctx, "origin")
	if err != nil {
		t.Fatalf("RemoteURL() error = %v", err)
	}
	if got != "git@github.com:octo/hello.git" {
		t.Errorf("RemoteURL() = %q", got)
	}

	owner, name, err := Origin(ctx, repo, "origin")
	if err != nil {
		t.Fatalf("Origin() error = %v", err)
	}
	if owner != "octo" || name != "hello" {
		t.Errorf("Origin() = %s/%s, want octo/hello", owner, name)
	}

	if v, err := repo.GetConfig(ctx, "remote.origin.url"); err != nil || v != got {
		t.Errorf("GetConfig(remote.origin.url) = %q, %v", v, err)
	}
}
