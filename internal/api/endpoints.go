package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/robby/ghtriage/internal/domain"
)

// ReposResponse is the body of GET /api/{org}/repos.
type ReposResponse struct {
	Repos []domain.Repository `json:"repos"`
}

// IssuesResponse is the body of GET /api/{owner}/{repo}/issue-scores.
// Error is set when the backend could not score the repository; Issues is
// then usually empty.
type IssuesResponse struct {
	RepoURL string         `json:"repo_url"`
	Issues  []domain.Issue `json:"issues"`
	Error   string         `json:"error,omitempty"`
}

// SubmitRequest is the body of POST /api/{owner}/{repo}/{number}/issue-response.
type SubmitRequest struct {
	ActionType    domain.ActionType `json:"action_type"`
	MessageType   string            `json:"message_type"`
	CustomMessage string            `json:"custom_message"`
}

// SubmitResponse is the result of a triage submission.
type SubmitResponse struct {
	Error       string `json:"error,omitempty"`
	IssueClosed bool   `json:"issue_closed,omitempty"`
}

// Trigger issues GET /api/{location} and returns the body for display. Non-2xx
// responses are not errors: their body is returned the same way.
func (c *Client) Trigger(ctx context.Context, location string) (string, error) {
	location = strings.Trim(strings.TrimSpace(location), "/")
	if location == "" {
		return "", fmt.Errorf("trigger location is empty")
	}

	_, raw, err := c.do(ctx, http.MethodGet, location, nil)
	if err != nil {
		return "", err
	}
	return Display(raw), nil
}

// FetchRepos lists the repositories of an organization.
func (c *Client) FetchRepos(ctx context.Context, org string) (*ReposResponse, error) {
	var wire struct {
		Repos *[]domain.Repository `json:"repos"`
		Error string               `json:"error"`
	}
	if err := c.call(ctx, http.MethodGet, url.PathEscape(org)+"/repos", nil, &wire); err != nil {
		return nil, fmt.Errorf("failed to fetch repos for %s: %w", org, err)
	}

	if wire.Repos == nil {
		if wire.Error != "" {
			return nil, &ServerError{Message: wire.Error}
		}
		return nil, fmt.Errorf("%w: missing repos", ErrMalformedResponse)
	}
	return &ReposResponse{Repos: *wire.Repos}, nil
}

// FetchRepoIssues lists the scored open issues of a repository. A body that
// only carries an error is a valid, empty result.
func (c *Client) FetchRepoIssues(ctx context.Context, owner, repo string) (*IssuesResponse, error) {
	var wire struct {
		RepoURL string          `json:"repo_url"`
		Issues  *[]domain.Issue `json:"issues"`
		Error   string          `json:"error"`
	}
	path := url.PathEscape(owner) + "/" + url.PathEscape(repo) + "/issue-scores"
	if err := c.call(ctx, http.MethodGet, path, nil, &wire); err != nil {
		return nil, fmt.Errorf("failed to fetch issues for %s/%s: %w", owner, repo, err)
	}

	if wire.Issues == nil && wire.Error == "" {
		return nil, fmt.Errorf("%w: missing issues", ErrMalformedResponse)
	}

	resp := &IssuesResponse{RepoURL: wire.RepoURL, Error: wire.Error}
	if wire.Issues != nil {
		resp.Issues = *wire.Issues
	}
	return resp, nil
}

// SubmitResponse posts a triage action for one issue.
func (c *Client) SubmitResponse(ctx context.Context, owner, repo string, number int, req SubmitRequest) (*SubmitResponse, error) {
	path := url.PathEscape(owner) + "/" + url.PathEscape(repo) + "/" + strconv.Itoa(number) + "/issue-response"

	var resp SubmitResponse
	if err := c.call(ctx, http.MethodPost, path, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to submit response for %s/%s#%d: %w", owner, repo, number, err)
	}
	return &resp, nil
}
