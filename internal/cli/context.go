package cli

import (
	"context"
	"os"

	"github.com/chazuruo/wfdispatch/internal/actions"
	"github.com/chazuruo/wfdispatch/internal/config"
	"github.com/chazuruo/wfdispatch/internal/dispatcher"
	"github.com/chazuruo/wfdispatch/internal/gitrepo"
)

// invocationContext collects default ref and repository. Inside Actions the
// runner context is authoritative; elsewhere the local checkout fills the
// gaps, then dispatch.default_repo from the config file.
func invocationContext(ctx context.Context, renv actions.Env, cfg *config.Config) dispatcher.InvocationContext {
	ictx := renv.InvocationContext()

	if !renv.Actions {
		if dir, err := os.Getwd(); err == nil {
			fillFromCheckout(ctx, gitrepo.New(dir), &ictx)
		}
	}

	if ictx.Owner == "" && cfg.Dispatch.DefaultRepo != "" {
		if owner, repo, err := config.SplitRepo(cfg.Dispatch.DefaultRepo); err == nil {
			ictx.Owner, ictx.Repo = owner, repo
		}
	}
	return ictx
}

// fillFromCheckout sets empty fields of ictx from a local Git repository.
// Failures leave the fields empty; Resolve reports what is still missing.
func fillFromCheckout(ctx context.Context, repo gitrepo.Repo, ictx *dispatcher.InvocationContext) {
	if !repo.IsInitialized(ctx) {
		return
	}
	if ictx.Ref == "" {
		if branch, err := repo.CurrentBranch(ctx); err == nil {
			ictx.Ref = branch
		}
	}
	if ictx.Owner == "" {
		if owner, name, err := gitrepo.Origin(ctx, repo, "origin"); err == nil {
			ictx.Owner, ictx.Repo = owner, name
		}
	}
}
