package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/robby/ghtriage/internal/api"
	"github.com/robby/ghtriage/internal/domain"
	"github.com/robby/ghtriage/internal/format"
	"github.com/robby/ghtriage/internal/grid"
	"github.com/robby/ghtriage/internal/router"
)

// repoColumns is the repository grid configuration.
func repoColumns() []grid.Column[domain.Repository] {
	return []grid.Column[domain.Repository]{
		{
			Key: "name", Title: "Repo", Width: 60,
			Value: func(r domain.Repository) string { return r.Name },
			Less:  func(a, b domain.Repository) bool { return a.Name < b.Name },
		},
		{
			Key: "open_issues_count", Title: "Issues", Width: 20,
			Value: func(r domain.Repository) string { return format.Count(r.OpenIssuesCount) },
			Less:  func(a, b domain.Repository) bool { return a.OpenIssuesCount < b.OpenIssuesCount },
		},
		{
			Key: "stargazers_count", Title: "Stars", Width: 20,
			Value: func(r domain.Repository) string { return format.Count(r.StargazersCount) },
			Less:  func(a, b domain.Repository) bool { return a.StargazersCount < b.StargazersCount },
		},
	}
}

// RepoListModel is the index screen listing an organization's repositories.
type RepoListModel struct {
	// Dependencies
	client Client
	ctx    context.Context
	viewID int
	org    string

	// UI components
	keymap  KeyMap
	help    HelpModel
	spinner spinner.Model
	grid    grid.Model[domain.Repository]

	// State
	loading  bool
	repos    []domain.Repository
	errText  string
	showHelp bool

	width  int
	height int
}

// NewRepoListModel creates the repository list for org.
func NewRepoListModel(ctx context.Context, client Client, viewID int, org string) RepoListModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	keymap := DefaultKeyMap()
	return RepoListModel{
		client:  client,
		ctx:     ctx,
		viewID:  viewID,
		org:     org,
		keymap:  keymap,
		help:    NewHelpModel(keymap.RepoListHelp()),
		spinner: sp,
		grid:    grid.New(repoColumns(), grid.SortSpec{Key: "open_issues_count", Desc: true}),
		loading: true,
	}
}

// Loading reports whether the repository request is still outstanding.
func (m RepoListModel) Loading() bool {
	return m.loading
}

// Repos returns the fetched repositories in server order.
func (m RepoListModel) Repos() []domain.Repository {
	return append([]domain.Repository(nil), m.repos...)
}

// Init starts fetching the repositories.
func (m RepoListModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchRepos())
}

// Update handles messages
func (m RepoListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.grid.SetWidth(msg.Width)
		m.grid.SetHeight(msg.Height - 4)
		return m, nil

	case reposLoadedMsg:
		if msg.viewID != m.viewID {
			return m, nil
		}
		if msg.err != nil {
			// The loading flag stays set; only the error text is surfaced.
			m.errText = api.ErrorText(msg.err)
			return m, nil
		}
		m.repos = msg.resp.Repos
		m.loading = false
		m.grid.SetRows(m.repos)
		return m, nil

	case grid.SelectionChangedMsg[domain.Repository]:
		if !msg.Selected {
			return m, nil
		}
		return m, navigate(router.IssuesPath(m.org, msg.Row.Name))

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	return m, nil
}

// handleKeyPress processes keyboard input
func (m RepoListModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		if msg.String() == "?" || msg.String() == "q" || msg.String() == "esc" {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m, func() tea.Msg { return QuitMsg{} }
	case key.Matches(msg, m.keymap.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keymap.Manage):
		return m, navigate("/" + string(router.StateManage))
	case key.Matches(msg, m.keymap.SortColumn):
		m.grid.CycleSort()
		return m, nil
	case key.Matches(msg, m.keymap.SortDirection):
		m.grid.ToggleDirection()
		return m, nil
	}

	var cmd tea.Cmd
	m.grid, cmd = m.grid.Update(msg)
	return m, cmd
}

// View renders the repository list.
func (m RepoListModel) View() string {
	width := m.width
	if width == 0 {
		width = 80
	}

	if m.showHelp {
		return m.help.View(width)
	}

	header := titleStyle.Render(m.org)
	switch {
	case m.errText != "":
		header += "  " + ErrorStyle.Render(m.errText)
	case m.loading:
		header += "  " + m.spinner.View() + dimStyle.Render(" Loading repositories...")
	default:
		header += "  " + dimStyle.Render(fmt.Sprintf("%d repos", len(m.repos)))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.grid.View(),
		HelpStyle.Render(m.help.ShortView(width)),
	)
}

// fetchRepos requests the organization's repositories.
func (m RepoListModel) fetchRepos() tea.Cmd {
	client, ctx, viewID, org := m.client, m.ctx, m.viewID, m.org
	return func() tea.Msg {
		resp, err := client.FetchRepos(ctx, org)
		return reposLoadedMsg{viewID: viewID, resp: resp, err: err}
	}
}
