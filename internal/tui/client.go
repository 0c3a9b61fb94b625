package tui

import (
	"context"

	"github.com/robby/ghtriage/internal/api"
)

// Client is the data access surface the screens depend on.
// *api.Client satisfies it.
type Client interface {
	Trigger(ctx context.Context, location string) (string, error)
	FetchRepos(ctx context.Context, org string) (*api.ReposResponse, error)
	FetchRepoIssues(ctx context.Context, owner, repo string) (*api.IssuesResponse, error)
	SubmitResponse(ctx context.Context, owner, repo string, number int, req api.SubmitRequest) (*api.SubmitResponse, error)
}

var _ Client = (*api.Client)(nil)

// Options carries the configuration the screens need.
type Options struct {
	Organization     string   // Organization listed on the index screen
	MessageTypes     []string // Catalog offered by the message-type picker
	TriggerLocations []string // Preset admin task locations
}
