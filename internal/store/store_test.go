package store

import (
	"testing"

	"github.com/robby/ghtriage/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test fixtures
func createTestIssues() []domain.Issue {
	return []domain.Issue{
		{
			Number:    7,
			Title:     "Crash on startup",
			Username:  "alice",
			Score:     90,
			ScoreData: domain.ScoreBreakdown{{Name: "comments", Value: 10}},
		},
		{Number: 8, Title: "Docs typo", Username: "bob", Score: 10},
		{Number: 7, Title: "Duplicate number", Username: "carol", Score: 5},
	}
}

func newLoadedStore() *Store {
	s := New()
	s.SetResult("https://github.com/driftyco/ionic", createTestIssues(), "")
	return s
}

func TestNew(t *testing.T) {
	s := New()
	assert.Zero(t, s.Len())
	assert.Empty(t, s.RepoURL())
	_, ok := s.Draft()
	assert.False(t, ok)
}

func TestSetResult(t *testing.T) {
	s := New()
	s.SetResult("https://github.com/driftyco/ionic", createTestIssues(), "partial data")

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, "https://github.com/driftyco/ionic", s.RepoURL())
	assert.Equal(t, "partial data", s.ServerError())

	issues := s.Issues()
	assert.Equal(t, 7, issues[0].Number)
	assert.Equal(t, 8, issues[1].Number)
}

func TestIssues_ReturnsCopy(t *testing.T) {
	s := newLoadedStore()

	issues := s.Issues()
	issues[0].Title = "mutated"

	assert.Equal(t, "Crash on startup", s.Issues()[0].Title)
}

func TestRemoveIssue_FirstMatchOnly(t *testing.T) {
	s := newLoadedStore()

	require.NoError(t, s.RemoveIssue(7))

	issues := s.Issues()
	require.Len(t, issues, 2)
	assert.Equal(t, 8, issues[0].Number)
	assert.Equal(t, "Duplicate number", issues[1].Title)
}

func TestRemoveIssue_NotFound(t *testing.T) {
	s := newLoadedStore()
	assert.ErrorIs(t, s.RemoveIssue(99), ErrIssueNotFound)
	assert.Equal(t, 3, s.Len())
}

func TestSelect_CreatesIndependentCopy(t *testing.T) {
	s := newLoadedStore()
	issue := s.Issues()[0]

	s.Select(issue)
	require.NoError(t, s.SetCustomMessage("thanks"))

	draft, ok := s.Draft()
	require.True(t, ok)
	assert.Equal(t, domain.ActionClose, draft.ActionType)
	assert.Empty(t, draft.MessageType)
	assert.Equal(t, "thanks", draft.CustomMessage)

	draft.Issue.ScoreData[0].Value = 1000
	again, _ := s.Draft()
	assert.Equal(t, float64(10), again.Issue.ScoreData[0].Value)
	assert.Equal(t, float64(10), s.Issues()[0].ScoreData[0].Value)
}

func TestSelect_ReplacesDraft(t *testing.T) {
	s := newLoadedStore()
	issues := s.Issues()

	s.Select(issues[0])
	require.NoError(t, s.SetMessageType("duplicate"))
	s.Select(issues[1])

	draft, ok := s.Draft()
	require.True(t, ok)
	assert.Equal(t, 8, draft.Issue.Number)
	assert.Empty(t, draft.MessageType)
}

func TestSetters_WithoutDraft(t *testing.T) {
	s := newLoadedStore()

	assert.ErrorIs(t, s.SetActionType(domain.ActionLabel), ErrNoDraft)
	assert.ErrorIs(t, s.SetMessageType("x"), ErrNoDraft)
	assert.ErrorIs(t, s.SetCustomMessage("x"), ErrNoDraft)

	_, err := s.BeginSubmit()
	assert.ErrorIs(t, err, ErrNoDraft)
}

func TestBeginSubmit_Incomplete(t *testing.T) {
	s := newLoadedStore()
	s.Select(s.Issues()[0])

	_, err := s.BeginSubmit()
	assert.ErrorIs(t, err, ErrDraftIncomplete)

	draft, _ := s.Draft()
	assert.False(t, draft.Disabled)
}

func TestBeginSubmit_DisablesDraft(t *testing.T) {
	s := newLoadedStore()
	s.Select(s.Issues()[0])
	require.NoError(t, s.SetMessageType("forum_question"))

	snapshot, err := s.BeginSubmit()
	require.NoError(t, err)
	assert.True(t, snapshot.Disabled)
	assert.Equal(t, "forum_question", snapshot.MessageType)

	_, err = s.BeginSubmit()
	assert.ErrorIs(t, err, ErrDraftInFlight)
}

func TestBeginSubmit_ClearsPreviousError(t *testing.T) {
	s := newLoadedStore()
	s.Select(s.Issues()[0])
	require.NoError(t, s.SetMessageType("forum_question"))

	_, err := s.BeginSubmit()
	require.NoError(t, err)
	require.True(t, s.CompleteSubmit(7, "issue locked", false))

	draft, _ := s.Draft()
	assert.Equal(t, "issue locked", draft.Error)
	assert.False(t, draft.Disabled)

	require.NoError(t, s.SetMessageType(""))
	_, err = s.BeginSubmit()
	assert.ErrorIs(t, err, ErrDraftIncomplete)

	draft, _ = s.Draft()
	assert.Empty(t, draft.Error)
}

func TestCompleteSubmit_Closed(t *testing.T) {
	s := newLoadedStore()
	s.Select(s.Issues()[0])
	require.NoError(t, s.SetMessageType("forum_question"))
	_, err := s.BeginSubmit()
	require.NoError(t, err)

	assert.True(t, s.CompleteSubmit(7, "", true))

	_, ok := s.Draft()
	assert.False(t, ok)
	issues := s.Issues()
	require.Len(t, issues, 2)
	assert.Equal(t, 8, issues[0].Number)
	assert.Equal(t, 7, issues[1].Number)
}

func TestCompleteSubmit_NotClosedKeepsIssue(t *testing.T) {
	s := newLoadedStore()
	s.Select(s.Issues()[1])
	require.NoError(t, s.SetActionType(domain.ActionComment))
	require.NoError(t, s.SetMessageType("needs_reply"))
	_, err := s.BeginSubmit()
	require.NoError(t, err)

	assert.True(t, s.CompleteSubmit(8, "", false))

	_, ok := s.Draft()
	assert.False(t, ok)
	assert.Equal(t, 3, s.Len())
}

func TestCompleteSubmit_StaleDraft(t *testing.T) {
	s := newLoadedStore()
	issues := s.Issues()

	s.Select(issues[0])
	require.NoError(t, s.SetMessageType("forum_question"))
	_, err := s.BeginSubmit()
	require.NoError(t, err)

	// User moved on to another issue before the response arrived.
	s.Select(issues[1])

	assert.False(t, s.CompleteSubmit(7, "boom", false))
	draft, ok := s.Draft()
	require.True(t, ok)
	assert.Equal(t, 8, draft.Issue.Number)
	assert.Empty(t, draft.Error)

	assert.False(t, s.CompleteSubmit(7, "", true))
	assert.Equal(t, 2, s.Len())
	_, ok = s.Draft()
	assert.True(t, ok)
}

func TestCompleteSubmit_NoDraft(t *testing.T) {
	s := newLoadedStore()
	assert.False(t, s.CompleteSubmit(7, "boom", false))
	assert.Equal(t, 3, s.Len())
}
