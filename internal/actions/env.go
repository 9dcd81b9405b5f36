// Package actions integrates with the GitHub Actions runner: it reads the
// GITHUB_* context, appends step outputs and emits workflow commands.
package actions

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v6"

	"github.com/chazuruo/wfdispatch/internal/dispatcher"
)

// Env is the subset of the runner's default environment wfdispatch reads.
type Env struct {
	Actions    bool   `env:"GITHUB_ACTIONS"`
	Ref        string `env:"GITHUB_REF"`
	Repository string `env:"GITHUB_REPOSITORY"`
	APIURL     string `env:"GITHUB_API_URL"`
	OutputPath string `env:"GITHUB_OUTPUT"`
}

// LoadEnv reads Env from the process environment.
func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse runner environment: %w", err)
	}
	return e, nil
}

// InvocationContext returns the ref and repository of the running workflow.
// Fields the runner did not provide are left empty.
func (e Env) InvocationContext() dispatcher.InvocationContext {
	ictx := dispatcher.InvocationContext{Ref: e.Ref}
	if owner, repo, ok := strings.Cut(e.Repository, "/"); ok {
		ictx.Owner, ictx.Repo = owner, repo
	}
	return ictx
}
