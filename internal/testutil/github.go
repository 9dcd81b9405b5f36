package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/chazuruo/wfdispatch/internal/github"
)

// DispatchCall records one POST to the dispatches endpoint.
type DispatchCall struct {
	Owner      string
	Repo       string
	WorkflowID int64
	Body       github.DispatchRequest
}

// FakeGitHub is an in-process stand-in for the GitHub Actions REST API.
// Configure the exported fields before issuing requests.
type FakeGitHub struct {
	Server *httptest.Server

	// Workflows is served by the list endpoint, PageSize entries per page.
	Workflows []github.Workflow
	PageSize  int
	// LinkBase replaces the server URL in next-page links when set.
	LinkBase string

	// DispatchRunID is returned with a 200 when non-zero; otherwise 204.
	DispatchRunID int64
	// DispatchErrStatus and DispatchErrMessage make dispatch fail.
	DispatchErrStatus  int
	DispatchErrMessage string

	// RunStatuses is consumed one entry per GET of a run; the last entry repeats.
	RunStatuses []github.WorkflowRun
	// Runs is served by the list-runs endpoint.
	Runs []github.WorkflowRun

	// Token, when set, must match the bearer token of every request.
	Token string

	mu         sync.Mutex
	dispatches []DispatchCall
	runGets    int
	requests   int
}

// NewFakeGitHub starts a fake API server closed at test cleanup.
func NewFakeGitHub(t *testing.T) *FakeGitHub {
	t.Helper()

	f := &FakeGitHub{PageSize: 100}

	r := chi.NewRouter()
	r.Use(f.count, f.auth)
	r.Get("/repos/{owner}/{repo}/actions/workflows", f.listWorkflows)
	r.Post("/repos/{owner}/{repo}/actions/workflows/{id}/dispatches", f.dispatch)
	r.Get("/repos/{owner}/{repo}/actions/workflows/{id}/runs", f.listRuns)
	r.Get("/repos/{owner}/{repo}/actions/runs/{runID}", f.getRun)

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)
	return f
}

// URL is the base URL to hand to github.NewClient.
func (f *FakeGitHub) URL() string { return f.Server.URL }

// Dispatches returns the recorded dispatch calls.
func (f *FakeGitHub) Dispatches() []DispatchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]DispatchCall(nil), f.dispatches...)
}

// RunGets returns how many times a run was fetched.
func (f *FakeGitHub) RunGets() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.runGets
}

// Requests returns the total number of requests served.
func (f *FakeGitHub) Requests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

func (f *FakeGitHub) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests++
		f.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (f *FakeGitHub) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if f.Token != "" && r.Header.Get("Authorization") != "Bearer "+f.Token {
			writeError(w, http.StatusUnauthorized, "Bad credentials")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeGitHub) listWorkflows(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	size := f.PageSize
	if size < 1 {
		size = 100
	}

	start := (page - 1) * size
	end := start + size
	if start > len(f.Workflows) {
		start = len(f.Workflows)
	}
	if end > len(f.Workflows) {
		end = len(f.Workflows)
	}

	if end < len(f.Workflows) {
		base := f.Server.URL
		if f.LinkBase != "" {
			base = f.LinkBase
		}
		next := fmt.Sprintf("%s%s?per_page=%d&page=%d", base, r.URL.Path, size, page+1)
		w.Header().Set("Link", fmt.Sprintf(`<%s>; rel="next", <%s>; rel="last"`, next, next))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_count": len(f.Workflows),
		"workflows":   f.Workflows[start:end],
	})
}

func (f *FakeGitHub) dispatch(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}

	var body github.DispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Problems parsing JSON")
		return
	}

	f.mu.Lock()
	f.dispatches = append(f.dispatches, DispatchCall{
		Owner:      chi.URLParam(r, "owner"),
		Repo:       chi.URLParam(r, "repo"),
		WorkflowID: id,
		Body:       body,
	})
	f.mu.Unlock()

	if f.DispatchErrStatus != 0 {
		writeError(w, f.DispatchErrStatus, f.DispatchErrMessage)
		return
	}
	if f.DispatchRunID == 0 || !body.ReturnRunDetails {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"workflow_run_id": f.DispatchRunID,
		"run_url":         fmt.Sprintf("%s/repos/o/r/actions/runs/%d", f.Server.URL, f.DispatchRunID),
		"html_url":        fmt.Sprintf("https://github.com/o/r/actions/runs/%d", f.DispatchRunID),
	})
}

func (f *FakeGitHub) getRun(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	idx := f.runGets
	f.runGets++
	f.mu.Unlock()

	if len(f.RunStatuses) == 0 {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	if idx >= len(f.RunStatuses) {
		idx = len(f.RunStatuses) - 1
	}
	writeJSON(w, http.StatusOK, f.RunStatuses[idx])
}

func (f *FakeGitHub) listRuns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"total_count":   len(f.Runs),
		"workflow_runs": f.Runs,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"message":           message,
		"documentation_url": "https://docs.github.com/rest",
	})
}
