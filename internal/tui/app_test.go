package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/robby/ghtriage/internal/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() Options {
	return Options{
		Organization:     "driftyco",
		MessageTypes:     []string{"forum_question", "custom"},
		TriggerLocations: []string{"maintenance"},
	}
}

func TestAppModel_StartRoutes(t *testing.T) {
	tests := []struct {
		path  string
		state router.State
		model any
	}{
		{"/", router.StateIndex, RepoListModel{}},
		{"/manage", router.StateManage, ManageModel{}},
		{"/driftyco/ionic", router.StateIssues, IssueListModel{}},
		{"/a/b/c", router.StateIndex, RepoListModel{}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			m := NewAppModel(context.Background(), &mockClient{}, testOptions(), testLogger(), tt.path)
			assert.Equal(t, tt.state, m.Route().State)
			assert.IsType(t, tt.model, m.currentModel)
		})
	}
}

func TestAppModel_InitFetchesForStartScreen(t *testing.T) {
	client := &mockClient{issues: testIssues()}
	m := NewAppModel(context.Background(), client, testOptions(), testLogger(), "/driftyco/ionic")

	loaded, ok := find[issuesLoadedMsg](m.Init())
	require.True(t, ok)
	assert.Equal(t, []string{"driftyco/ionic"}, client.issueRepos)

	model, _ := m.Update(loaded)
	m = model.(AppModel)
	issues, ok := m.currentModel.(IssueListModel)
	require.True(t, ok)
	assert.False(t, issues.Loading())
}

func TestAppModel_NavigateSwapsScreen(t *testing.T) {
	client := &mockClient{repos: testRepos(), issues: testIssues()}
	m := NewAppModel(context.Background(), client, testOptions(), testLogger(), "/")

	model, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = model.(AppModel)

	model, cmd := m.Update(NavigateMsg{Path: "/driftyco/ionic"})
	m = model.(AppModel)

	assert.Equal(t, router.StateIssues, m.Route().State)
	assert.Equal(t, "driftyco", m.Route().RepoUsername())
	assert.Equal(t, "ionic", m.Route().RepoID())

	size, ok := find[tea.WindowSizeMsg](cmd)
	require.True(t, ok)
	assert.Equal(t, 120, size.Width)
	_, ok = find[issuesLoadedMsg](cmd)
	assert.True(t, ok)
}

func TestAppModel_DropsCompletionsFromPreviousScreen(t *testing.T) {
	client := &mockClient{repos: testRepos(), issues: testIssues()}
	m := NewAppModel(context.Background(), client, testOptions(), testLogger(), "/driftyco/ionic")

	stale, ok := find[issuesLoadedMsg](m.Init())
	require.True(t, ok)

	// Leave and come back before the first fetch completes.
	model, _ := m.Update(NavigateMsg{Path: "/"})
	m = model.(AppModel)
	model, _ = m.Update(NavigateMsg{Path: "/driftyco/ionic"})
	m = model.(AppModel)

	model, _ = m.Update(stale)
	m = model.(AppModel)
	issues := m.currentModel.(IssueListModel)
	assert.True(t, issues.Loading())
}

func TestAppModel_RepoSelectionReachesIssues(t *testing.T) {
	client := &mockClient{repos: testRepos(), issues: testIssues()}
	m := NewAppModel(context.Background(), client, testOptions(), testLogger(), "/")

	loaded, ok := find[reposLoadedMsg](m.Init())
	require.True(t, ok)
	model, _ := m.Update(loaded)
	m = model.(AppModel)

	// enter -> selection message -> navigation message
	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = model.(AppModel)
	for i := 0; i < 2; i++ {
		msgs := collect(cmd)
		require.Len(t, msgs, 1)
		model, cmd = m.Update(msgs[0])
		m = model.(AppModel)
	}

	assert.Equal(t, router.StateIssues, m.Route().State)
	assert.Equal(t, "/driftyco/ion-ion", m.Route().Path())
}

func TestAppModel_Quit(t *testing.T) {
	m := NewAppModel(context.Background(), &mockClient{}, testOptions(), testLogger(), "/")

	_, cmd := m.Update(QuitMsg{})
	_, ok := find[tea.QuitMsg](cmd)
	assert.True(t, ok)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	_, ok = find[tea.QuitMsg](cmd)
	assert.True(t, ok)
}
