// Package github is a minimal GitHub Actions REST client covering the calls
// wfdispatch needs: listing workflows, dispatching one, and reading runs.
package github

import "time"

// Workflow describes one workflow definition of a repository.
type Workflow struct {
	ID      int64  `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Path    string `json:"path" yaml:"path"`
	State   string `json:"state" yaml:"state"`
	HTMLURL string `json:"html_url" yaml:"html_url"`
}

// DispatchRequest is the body of a workflow_dispatch call.
type DispatchRequest struct {
	Ref    string         `json:"ref"`
	Inputs map[string]any `json:"inputs"`
	// ReturnRunDetails asks the API to answer with the created run's id.
	ReturnRunDetails bool `json:"return_run_details,omitempty"`
}

// DispatchResponse is what the API answered to a dispatch.
// RunID is zero when the API replied 204 without run details.
type DispatchResponse struct {
	StatusCode int    `json:"-"`
	Status     string `json:"-"`
	RunID      int64  `json:"workflow_run_id"`
	RunURL     string `json:"run_url"`
	HTMLURL    string `json:"html_url"`
}

// WorkflowRun is one execution of a workflow.
type WorkflowRun struct {
	ID         int64     `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	Status     string    `json:"status" yaml:"status"`
	Conclusion string    `json:"conclusion" yaml:"conclusion"`
	Event      string    `json:"event" yaml:"event"`
	HeadBranch string    `json:"head_branch" yaml:"head_branch"`
	HTMLURL    string    `json:"html_url" yaml:"html_url"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

// Run statuses reported by the API.
const (
	StatusQueued     = "queued"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// RunFilter narrows ListWorkflowRuns.
type RunFilter struct {
	Event   string
	Branch  string
	Created time.Time // runs created at or after this instant
	PerPage int
}

type workflowsPage struct {
	TotalCount int        `json:"total_count"`
	Workflows  []Workflow `json:"workflows"`
}

type runsPage struct {
	TotalCount   int           `json:"total_count"`
	WorkflowRuns []WorkflowRun `json:"workflow_runs"`
}

type apiErrorBody struct {
	Message string `json:"message"`
}
