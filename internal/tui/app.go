package tui

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/robby/ghtriage/internal/router"
)

// AppModel is the root Bubble Tea model. It resolves paths through the
// router and swaps the active screen on NavigateMsg.
type AppModel struct {
	// Dependencies
	client Client
	opts   Options
	logger *slog.Logger
	ctx    context.Context

	// Current state
	route        router.Route
	viewID       int // Incremented on every navigation
	currentModel tea.Model

	width  int
	height int
}

// NewAppModel creates the root model starting at startPath.
func NewAppModel(ctx context.Context, client Client, opts Options, logger *slog.Logger, startPath string) AppModel {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	m := AppModel{
		client: client,
		opts:   opts,
		logger: logger,
		ctx:    ctx,
	}
	m.enter(router.Resolve(startPath))
	return m
}

// Route returns the active route.
func (m AppModel) Route() router.Route {
	return m.route
}

// Init initializes the starting screen.
func (m AppModel) Init() tea.Cmd {
	return m.currentModel.Init()
}

// Update handles global keys, navigation and delegates everything else to
// the active screen.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Global quit handler
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case QuitMsg:
		return m, tea.Quit

	case NavigateMsg:
		route := router.Resolve(msg.Path)
		m.logger.Debug("navigate", "path", msg.Path, "state", route.State)
		m.enter(route)
		return m, tea.Batch(m.currentModel.Init(), m.replaySize())
	}

	if m.currentModel != nil {
		var cmd tea.Cmd
		m.currentModel, cmd = m.currentModel.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the current screen.
func (m AppModel) View() string {
	if m.currentModel != nil {
		return m.currentModel.View()
	}
	return ""
}

// enter builds a fresh screen for route. Previous screens are discarded, so
// their in-flight completions no longer match the active view id.
func (m *AppModel) enter(route router.Route) {
	m.route = route
	m.viewID++

	switch route.State {
	case router.StateManage:
		m.currentModel = NewManageModel(m.ctx, m.client, m.viewID, m.opts.TriggerLocations)
	case router.StateIssues:
		m.currentModel = NewIssueListModel(m.ctx, m.client, m.logger, m.viewID,
			route.RepoUsername(), route.RepoID(), m.opts.MessageTypes)
	default:
		m.currentModel = NewRepoListModel(m.ctx, m.client, m.viewID, m.opts.Organization)
	}
}

// replaySize hands the last known terminal size to a newly entered screen.
func (m AppModel) replaySize() tea.Cmd {
	if m.width == 0 && m.height == 0 {
		return tea.WindowSize()
	}
	size := tea.WindowSizeMsg{Width: m.width, Height: m.height}
	return func() tea.Msg { return size }
}
