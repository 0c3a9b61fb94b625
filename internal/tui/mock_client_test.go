package tui

import (
	"context"
	"log/slog"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/robby/ghtriage/internal/api"
)

// submitCall records one SubmitResponse invocation.
type submitCall struct {
	owner  string
	repo   string
	number int
	req    api.SubmitRequest
}

// mockClient is a scriptable Client. Unset responses return zero values.
type mockClient struct {
	mu sync.Mutex

	triggerText string
	triggerErr  error
	repos       *api.ReposResponse
	reposErr    error
	issues      *api.IssuesResponse
	issuesErr   error
	submitResp  *api.SubmitResponse
	submitErr   error

	triggered   []string
	repoOrgs    []string
	issueRepos  []string
	submissions []submitCall
}

func (c *mockClient) Trigger(_ context.Context, location string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.triggered = append(c.triggered, location)
	return c.triggerText, c.triggerErr
}

func (c *mockClient) FetchRepos(_ context.Context, org string) (*api.ReposResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.repoOrgs = append(c.repoOrgs, org)
	return c.repos, c.reposErr
}

func (c *mockClient) FetchRepoIssues(_ context.Context, owner, repo string) (*api.IssuesResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issueRepos = append(c.issueRepos, owner+"/"+repo)
	return c.issues, c.issuesErr
}

func (c *mockClient) SubmitResponse(_ context.Context, owner, repo string, number int, req api.SubmitRequest) (*api.SubmitResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.submissions = append(c.submissions, submitCall{owner: owner, repo: repo, number: number, req: req})
	if c.submitErr != nil {
		return nil, c.submitErr
	}
	if c.submitResp == nil {
		return &api.SubmitResponse{}, nil
	}
	return c.submitResp, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// collect runs cmd and returns the messages it produces, expanding batches.
// Only call it on commands that return immediately.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// find returns the first message of type T produced by cmd.
func find[T any](cmd tea.Cmd) (T, bool) {
	for _, msg := range collect(cmd) {
		if t, ok := msg.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}
