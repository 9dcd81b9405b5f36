package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	wferrors "github.com/chazuruo/wfdispatch/internal/errors"
)

// DefaultBaseURL is the public GitHub REST endpoint.
const DefaultBaseURL = "https://api.github.com"

const (
	apiVersion       = "2022-11-28"
	defaultUserAgent = "wfdispatch"
	defaultPerPage   = 100
)

// Client talks to the GitHub REST API.
type Client struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client (useful for testing).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithRateLimit paces outgoing requests. A non-positive rps disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// NewClient creates a Client. An empty baseURL means DefaultBaseURL.
func NewClient(baseURL, token string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		userAgent:  defaultUserAgent,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(10), 5),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListWorkflows returns every workflow of owner/repo, following pagination.
// Order is whatever the API returns.
func (c *Client) ListWorkflows(ctx context.Context, owner, repo string) ([]Workflow, error) {
	next := fmt.Sprintf("%s/repos/%s/%s/actions/workflows?per_page=%d",
		c.baseURL, url.PathEscape(owner), url.PathEscape(repo), defaultPerPage)

	var all []Workflow
	for next != "" {
		var page workflowsPage
		resp, err := c.do(ctx, http.MethodGet, next, nil, &page)
		if err != nil {
			return nil, fmt.Errorf("listing workflows: %w", err)
		}
		all = append(all, page.Workflows...)
		next = nextPageURL(resp.Header.Get("Link"))
		if next != "" && !c.sameOrigin(next) {
			return nil, fmt.Errorf("listing workflows: next page %q is not on %s", next, c.baseURL)
		}
	}
	return all, nil
}

// DispatchWorkflow triggers a workflow_dispatch event for workflow id.
func (c *Client) DispatchWorkflow(ctx context.Context, owner, repo string, id int64, req DispatchRequest) (*DispatchResponse, error) {
	if req.Inputs == nil {
		req.Inputs = map[string]any{}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding dispatch request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/repos/%s/%s/actions/workflows/%d/dispatches",
		c.baseURL, url.PathEscape(owner), url.PathEscape(repo), id)

	var out DispatchResponse
	resp, err := c.do(ctx, http.MethodPost, endpoint, body, &out)
	if err != nil {
		return nil, fmt.Errorf("dispatching workflow %d: %w", id, err)
	}
	out.StatusCode = resp.StatusCode
	out.Status = resp.Status
	return &out, nil
}

// GetWorkflowRun fetches one run by id.
func (c *Client) GetWorkflowRun(ctx context.Context, owner, repo string, runID int64) (*WorkflowRun, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/actions/runs/%d",
		c.baseURL, url.PathEscape(owner), url.PathEscape(repo), runID)

	var run WorkflowRun
	if _, err := c.do(ctx, http.MethodGet, endpoint, nil, &run); err != nil {
		return nil, fmt.Errorf("fetching run %d: %w", runID, err)
	}
	return &run, nil
}

// ListWorkflowRuns returns the first page of runs of workflow id matching f,
// newest first.
func (c *Client) ListWorkflowRuns(ctx context.Context, owner, repo string, id int64, f RunFilter) ([]WorkflowRun, error) {
	q := url.Values{}
	perPage := f.PerPage
	if perPage <= 0 {
		perPage = 20
	}
	q.Set("per_page", strconv.Itoa(perPage))
	if f.Event != "" {
		q.Set("event", f.Event)
	}
	if f.Branch != "" {
		q.Set("branch", f.Branch)
	}
	if !f.Created.IsZero() {
		q.Set("created", ">="+f.Created.UTC().Format(time.RFC3339))
	}

	endpoint := fmt.Sprintf("%s/repos/%s/%s/actions/workflows/%d/runs?%s",
		c.baseURL, url.PathEscape(owner), url.PathEscape(repo), id, q.Encode())

	var page runsPage
	if _, err := c.do(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
		return nil, fmt.Errorf("listing runs of workflow %d: %w", id, err)
	}
	return page.WorkflowRuns, nil
}

// do sends one request and decodes a JSON body into out when there is one.
// Non-2xx responses become *errors.APIError.
func (c *Client) do(ctx context.Context, method, endpoint string, body []byte, out any) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &wferrors.APIError{
			Method:     method,
			Path:       req.URL.Path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(data, resp.Status),
		}
	}

	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return nil, fmt.Errorf("decoding response: %w", err)
		}
	}
	return resp, nil
}

// sameOrigin reports whether target has the scheme and host of the client's
// base URL. The bearer token is only ever sent there.
func (c *Client) sameOrigin(target string) bool {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return false
	}
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Scheme, base.Scheme) && strings.EqualFold(u.Host, base.Host)
}

// errorMessage extracts the "message" field of a GitHub error body, falling
// back to the raw body and then the HTTP status text.
func errorMessage(body []byte, status string) string {
	var e apiErrorBody
	if err := json.Unmarshal(body, &e); err == nil && e.Message != "" {
		return e.Message
	}
	if s := strings.TrimSpace(string(body)); s != "" {
		return s
	}
	return status
}

// nextPageURL returns the rel="next" target of a Link header, or "".
func nextPageURL(link string) string {
	for _, part := range strings.Split(link, ",") {
		segs := strings.Split(strings.TrimSpace(part), ";")
		if len(segs) < 2 {
			continue
		}
		target := strings.TrimSpace(segs[0])
		if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
			continue
		}
		for _, param := range segs[1:] {
			if strings.TrimSpace(param) == `rel="next"` {
				return strings.Trim(target, "<>")
			}
		}
	}
	return ""
}
