package config

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"

	"github.com/chazuruo/wfdispatch/internal/dispatcher"
	wferrors "github.com/chazuruo/wfdispatch/internal/errors"
)

// Inputs are the raw, unvalidated dispatch inputs. In a GitHub Actions step
// they arrive as INPUT_<NAME> variables; the CLI overlays its flags on top.
type Inputs struct {
	Workflow string `env:"INPUT_WORKFLOW"`
	Token    string `env:"INPUT_TOKEN"`
	Ref      string `env:"INPUT_REF"`
	Repo     string `env:"INPUT_REPO"`
	Inputs   string `env:"INPUT_INPUTS"`
	WaitTime string `env:"INPUT_WAITTIME"`

	// Fallback credentials when no token input is given.
	GitHubToken string `env:"GITHUB_TOKEN"`
	GHToken     string `env:"GH_TOKEN"`
}

// Resolved is the validated form of Inputs.
type Resolved struct {
	Token   string
	Options dispatcher.Options
}

// LoadInputs reads Inputs from the process environment.
func LoadInputs() (Inputs, error) {
	var in Inputs
	if err := env.Parse(&in); err != nil {
		return Inputs{}, fmt.Errorf("parse action inputs: %w", err)
	}
	return in, nil
}

// Resolve validates the inputs and fills defaults from ictx. It performs no
// I/O, so every configuration failure surfaces before any network call.
func (in Inputs) Resolve(ictx dispatcher.InvocationContext, pollInterval time.Duration) (*Resolved, error) {
	workflow := strings.TrimSpace(in.Workflow)
	if workflow == "" {
		return nil, &wferrors.ConfigError{Field: "workflow", Err: fmt.Errorf("%w: a workflow name, id or file is required", wferrors.ErrInvalid)}
	}

	token, err := in.ResolveToken()
	if err != nil {
		return nil, err
	}

	ref := firstNonEmpty(in.Ref, ictx.Ref)
	if ref == "" {
		return nil, &wferrors.ConfigError{Field: "ref", Err: fmt.Errorf("%w: no ref given and none could be inferred", wferrors.ErrInvalid)}
	}

	owner, repo, err := in.ResolveRepo(ictx)
	if err != nil {
		return nil, err
	}

	inputs, err := ParseWorkflowInputs(in.Inputs)
	if err != nil {
		return nil, err
	}

	opts := dispatcher.Options{
		WorkflowRef:  workflow,
		Ref:          ref,
		Owner:        owner,
		Repo:         repo,
		Inputs:       inputs,
		PollInterval: pollInterval,
	}

	if in.WaitTime != "" {
		secs, err := ParseWaitTime(in.WaitTime)
		if err != nil {
			return nil, err
		}
		opts.Wait = true
		opts.WaitTime = time.Duration(secs) * time.Second
	}

	return &Resolved{Token: token, Options: opts}, nil
}

// ResolveToken returns the token input, falling back to GITHUB_TOKEN and then
// GH_TOKEN.
func (in Inputs) ResolveToken() (string, error) {
	token := firstNonEmpty(in.Token, in.GitHubToken, in.GHToken)
	if token == "" {
		return "", &wferrors.ConfigError{Field: "token", Err: fmt.Errorf("%w: a token is required", wferrors.ErrInvalid)}
	}
	return token, nil
}

// ResolveRepo returns the owner and name of the target repository: the repo
// input when given, otherwise the one from ictx.
func (in Inputs) ResolveRepo(ictx dispatcher.InvocationContext) (owner, repo string, err error) {
	owner, repo = ictx.Owner, ictx.Repo
	if in.Repo != "" {
		owner, repo, err = SplitRepo(in.Repo)
		if err != nil {
			return "", "", &wferrors.ConfigError{Field: "repo", Err: fmt.Errorf("%w: %v", wferrors.ErrInvalid, err)}
		}
	}
	if owner == "" || repo == "" {
		return "", "", &wferrors.ConfigError{Field: "repo", Err: fmt.Errorf("%w: no repository given and none could be inferred", wferrors.ErrInvalid)}
	}
	return owner, repo, nil
}

// ParseWorkflowInputs decodes a JSON object of workflow inputs.
// An empty string yields an empty, non-nil map.
func ParseWorkflowInputs(raw string) (map[string]any, error) {
	inputs := map[string]any{}
	if strings.TrimSpace(raw) == "" {
		return inputs, nil
	}
	if err := json.Unmarshal([]byte(raw), &inputs); err != nil {
		return nil, &wferrors.ConfigError{Field: "inputs", Err: fmt.Errorf("%w: %w", wferrors.ErrMalformedInput, err)}
	}
	if inputs == nil {
		// The literal null decodes into a nil map.
		inputs = map[string]any{}
	}
	return inputs, nil
}

// maxWaitSeconds is the longest wait a time.Duration can hold.
const maxWaitSeconds = math.MaxInt64 / int64(time.Second)

// ParseWaitTime parses a wait time in whole seconds.
func ParseWaitTime(raw string) (int, error) {
	secs, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &wferrors.ConfigError{Field: "waitTime", Err: fmt.Errorf("%w: %q is not a number of seconds", wferrors.ErrInvalid, raw)}
	}
	if secs < 0 {
		return 0, &wferrors.ConfigError{Field: "waitTime", Err: fmt.Errorf("%w: %d must not be negative", wferrors.ErrInvalid, secs)}
	}
	if int64(secs) > maxWaitSeconds {
		return 0, &wferrors.ConfigError{Field: "waitTime", Err: fmt.Errorf("%w: %d exceeds the maximum of %d seconds", wferrors.ErrInvalid, secs, maxWaitSeconds)}
	}
	return secs, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
