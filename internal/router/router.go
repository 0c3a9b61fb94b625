// Package router maps dashboard paths to named screens.
package router

import (
	"net/url"
	"strings"
)

// State names a dashboard screen.
type State string

const (
	StateManage State = "manage" // Admin panel for manual task triggers
	StateIssues State = "issues" // Issue list of one repository
	StateIndex  State = "index"  // Organization repository list
)

// Route parameter names.
const (
	ParamRepoUsername = "repo_username"
	ParamRepoID       = "repo_id"
)

// Route is a resolved path.
type Route struct {
	State  State
	Params map[string]string
}

// RepoUsername returns the repository owner of an issues route.
func (r Route) RepoUsername() string {
	return r.Params[ParamRepoUsername]
}

// RepoID returns the repository name of an issues route.
func (r Route) RepoID() string {
	return r.Params[ParamRepoID]
}

// Path rebuilds the canonical path for the route.
func (r Route) Path() string {
	for _, def := range registry {
		if def.state != r.State {
			continue
		}
		segments := make([]string, 0, len(def.segments))
		for _, seg := range def.segments {
			if name, ok := strings.CutPrefix(seg, ":"); ok {
				segments = append(segments, url.PathEscape(r.Params[name]))
				continue
			}
			segments = append(segments, seg)
		}
		return "/" + strings.Join(segments, "/")
	}
	return "/"
}

// routeDef is one entry of the registry. Segments starting with ':' bind a
// parameter.
type routeDef struct {
	state    State
	segments []string
}

// registry is consulted in order; the first match wins.
var registry = []routeDef{
	{state: StateManage, segments: []string{"manage"}},
	{state: StateIssues, segments: []string{":" + ParamRepoUsername, ":" + ParamRepoID}},
	{state: StateIndex, segments: []string{}},
}

// Index is the fallback route.
var Index = Route{State: StateIndex, Params: map[string]string{}}

// Resolve maps a path to exactly one route. Unmatched paths resolve to the
// index route. A leading '#' is accepted so hash-style links work too.
func Resolve(path string) Route {
	path = strings.TrimPrefix(strings.TrimSpace(path), "#")
	path = strings.Trim(path, "/")

	var parts []string
	if path != "" {
		parts = strings.Split(path, "/")
	}

	for _, def := range registry {
		if params, ok := match(def.segments, parts); ok {
			return Route{State: def.state, Params: params}
		}
	}
	return Index
}

// IssuesPath builds the path of the issue list for owner/repo.
func IssuesPath(owner, repo string) string {
	return Route{
		State: StateIssues,
		Params: map[string]string{
			ParamRepoUsername: owner,
			ParamRepoID:       repo,
		},
	}.Path()
}

func match(segments, parts []string) (map[string]string, bool) {
	if len(segments) != len(parts) {
		return nil, false
	}
	params := make(map[string]string)
	for i, seg := range segments {
		part, err := url.PathUnescape(parts[i])
		if err != nil || part == "" {
			return nil, false
		}
		if name, ok := strings.CutPrefix(seg, ":"); ok {
			params[name] = part
			continue
		}
		if seg != part {
			return nil, false
		}
	}
	return params, true
}
