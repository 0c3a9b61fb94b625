// Package store holds the issue-list screen state: the fetched issues, the
// repository metadata and the single in-progress draft action.
// It is owned by the Bubble Tea update loop and is not safe for concurrent use.
package store

import (
	"errors"

	"github.com/robby/ghtriage/internal/domain"
)

var (
	// ErrNoDraft indicates no issue has been selected.
	ErrNoDraft = errors.New("no issue selected")
	// ErrIssueNotFound indicates the requested issue is not in the list.
	ErrIssueNotFound = errors.New("issue not found")
	// ErrDraftIncomplete indicates the draft lacks an action or message type.
	ErrDraftIncomplete = errors.New("action type and message type are required")
	// ErrDraftInFlight indicates a submission is already running for the draft.
	ErrDraftInFlight = errors.New("submission already in progress")
)

// Store manages the issue list and the draft action for one repository.
type Store struct {
	repoURL     string
	serverError string
	issues      []domain.Issue

	// draft is a copy of the selected issue plus pending triage choices.
	// Editing it never touches the list entry.
	draft *domain.DraftAction
}

// New creates a new empty Store instance.
func New() *Store {
	return &Store{}
}

// SetResult replaces the issue list and repository metadata with a fetch result.
func (s *Store) SetResult(repoURL string, issues []domain.Issue, serverError string) {
	s.repoURL = repoURL
	s.serverError = serverError
	s.issues = append([]domain.Issue(nil), issues...)
}

// Issues returns a copy of the issue list in server order.
func (s *Store) Issues() []domain.Issue {
	return append([]domain.Issue(nil), s.issues...)
}

// Len returns the number of issues held.
func (s *Store) Len() int {
	return len(s.issues)
}

// RepoURL returns the repository web URL reported by the server.
func (s *Store) RepoURL() string {
	return s.repoURL
}

// ServerError returns the error message reported alongside the issues.
func (s *Store) ServerError() string {
	return s.serverError
}

// RemoveIssue removes the first issue with the given number.
// Returns ErrIssueNotFound if no issue matches.
func (s *Store) RemoveIssue(number int) error {
	for i, issue := range s.issues {
		if issue.Number == number {
			s.issues = append(s.issues[:i:i], s.issues[i+1:]...)
			return nil
		}
	}
	return ErrIssueNotFound
}

// Select replaces the draft with a fresh copy of issue.
// The action type defaults to close and the message type starts empty.
func (s *Store) Select(issue domain.Issue) {
	s.draft = &domain.DraftAction{
		Issue:      issue.Clone(),
		ActionType: domain.ActionClose,
	}
}

// Draft returns a copy of the current draft, or false when none is selected.
func (s *Store) Draft() (domain.DraftAction, bool) {
	if s.draft == nil {
		return domain.DraftAction{}, false
	}
	d := *s.draft
	d.Issue = s.draft.Issue.Clone()
	return d, true
}

// ClearDraft discards the current draft.
func (s *Store) ClearDraft() {
	s.draft = nil
}

// SetActionType sets the draft action type.
func (s *Store) SetActionType(action domain.ActionType) error {
	if s.draft == nil {
		return ErrNoDraft
	}
	s.draft.ActionType = action
	return nil
}

// SetMessageType sets the draft message template key.
func (s *Store) SetMessageType(messageType string) error {
	if s.draft == nil {
		return ErrNoDraft
	}
	s.draft.MessageType = messageType
	return nil
}

// SetCustomMessage sets the free-form text sent with the action.
func (s *Store) SetCustomMessage(msg string) error {
	if s.draft == nil {
		return ErrNoDraft
	}
	s.draft.CustomMessage = msg
	return nil
}

// BeginSubmit marks the draft as in flight and returns a snapshot to send.
// The previous error is cleared before the completeness check, so an
// incomplete draft shows no stale error.
func (s *Store) BeginSubmit() (domain.DraftAction, error) {
	if s.draft == nil {
		return domain.DraftAction{}, ErrNoDraft
	}
	if s.draft.Disabled {
		return domain.DraftAction{}, ErrDraftInFlight
	}
	s.draft.Error = ""
	if !s.draft.Complete() {
		return domain.DraftAction{}, ErrDraftIncomplete
	}
	s.draft.Disabled = true
	d, _ := s.Draft()
	return d, nil
}

// CompleteSubmit applies a submission result for the issue with the given
// number. A closed issue is always removed from the list. The draft is only
// touched when it still belongs to that issue: a non-empty errText is
// recorded on it and re-enables it, otherwise it is cleared.
// The return value reports whether the draft was updated.
func (s *Store) CompleteSubmit(number int, errText string, closed bool) bool {
	if errText == "" && closed {
		_ = s.RemoveIssue(number)
	}
	if s.draft == nil || s.draft.Issue.Number != number {
		return false
	}
	if errText != "" {
		s.draft.Error = errText
		s.draft.Disabled = false
		return true
	}
	s.draft = nil
	return true
}
