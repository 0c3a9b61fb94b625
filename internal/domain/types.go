// Package domain defines the normalized types exchanged with the triage API.
// These types mirror the JSON bodies served under /api and carry no behaviour
// beyond decoding and copying.
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Repository is a repository row in the organization overview.
type Repository struct {
	Name            string `json:"name"`              // Repository name within the organization
	OpenIssuesCount int    `json:"open_issues_count"` // Open issues (and PRs) as reported by GitHub
	StargazersCount int    `json:"stargazers_count"`  // Star count
}

// Issue is one scored issue of a repository.
type Issue struct {
	Number       int            `json:"number"`
	Title        string         `json:"title"`
	Username     string         `json:"username"` // Submitter login
	Avatar       string         `json:"avatar"`   // Submitter avatar URL
	Created      Timestamp      `json:"created"`
	Updated      Timestamp      `json:"updated"`
	Comments     int            `json:"comments"`
	References   int            `json:"references"`
	Rank         float64        `json:"rank"`
	Score        float64        `json:"score"`
	ScoreData    ScoreBreakdown `json:"score_data"`
	Assignee     string         `json:"assignee,omitempty"`
	Milestone    string         `json:"milestone,omitempty"`
	PullRequest  Flag           `json:"pull_request"`
	RepoUsername string         `json:"repo_username,omitempty"`
	RepoID       string         `json:"repo_id,omitempty"`
}

// Clone returns a deep copy of the issue.
func (i Issue) Clone() Issue {
	c := i
	if i.ScoreData != nil {
		c.ScoreData = make(ScoreBreakdown, len(i.ScoreData))
		copy(c.ScoreData, i.ScoreData)
	}
	return c
}

// ActionType is the triage action applied to an issue.
type ActionType string

const (
	ActionClose   ActionType = "close"
	ActionComment ActionType = "comment"
	ActionLabel   ActionType = "label"
)

// ActionTypes lists the supported actions in display order.
var ActionTypes = []ActionType{ActionClose, ActionComment, ActionLabel}

// Next returns the action following a in ActionTypes, wrapping around.
func (a ActionType) Next() ActionType {
	for i, t := range ActionTypes {
		if t == a {
			return ActionTypes[(i+1)%len(ActionTypes)]
		}
	}
	return ActionTypes[0]
}

// DraftAction is a locally owned copy of a selected issue plus the triage
// choice that has not been confirmed by the server yet.
type DraftAction struct {
	Issue         Issue
	ActionType    ActionType
	MessageType   string // App-defined message template key, empty until chosen
	CustomMessage string
	Disabled      bool   // Set while a submission is in flight
	Error         string // Last submission error, empty when none
}

// Complete reports whether both the action type and message type are set.
func (d *DraftAction) Complete() bool {
	return d.ActionType != "" && d.MessageType != ""
}

// Factor is one named contribution to an issue's score.
type Factor struct {
	Name  string
	Value float64
}

// ScoreBreakdown maps scoring factors to their contribution. It keeps the
// key order of the JSON object it was decoded from.
type ScoreBreakdown []Factor

// UnmarshalJSON decodes a JSON object preserving key order. Null values
// decode as zero. A repeated key keeps its first position and its last value.
func (b *ScoreBreakdown) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*b = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("score breakdown: expected object, got %v", tok)
	}

	out := ScoreBreakdown{}
	seen := map[string]int{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("score breakdown: unexpected key %v", keyTok)
		}

		var value *float64
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("score breakdown %q: %w", name, err)
		}
		f := Factor{Name: name}
		if value != nil {
			f.Value = *value
		}
		if i, ok := seen[name]; ok {
			out[i] = f
			continue
		}
		seen[name] = len(out)
		out = append(out, f)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	*b = out
	return nil
}

// MarshalJSON encodes the breakdown as an object in its stored order.
func (b ScoreBreakdown) MarshalJSON() ([]byte, error) {
	if b == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatFloat(f.Value, 'f', -1, 64))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Timestamp is a point in time as served by the API. It accepts RFC 3339
// strings, zone-less ISO strings and epoch milliseconds.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	if data[0] != '"' {
		ms, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("timestamp: %w", err)
		}
		t.Time = time.UnixMilli(int64(ms)).UTC()
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp: unrecognized format %q", s)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

// Flag is a loosely typed boolean: any value other than null, false, 0 or
// an empty string decodes as true. The API reports pull requests either as a
// boolean or as the pull request object.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "", "null", "false", "0", `""`:
		*f = false
	default:
		*f = true
	}
	return nil
}
