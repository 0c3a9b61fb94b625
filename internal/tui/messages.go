// Package tui provides Bubble Tea models for the interactive TUI.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/robby/ghtriage/internal/api"
)

// NavigateMsg is emitted when a screen wants to move to another route.
type NavigateMsg struct {
	Path string
}

// QuitMsg is emitted when the user requests to quit.
type QuitMsg struct{}

// Completion messages for data access commands. Each carries the id of the
// screen that issued it so a screen never applies another screen's result.
type (
	triggerDoneMsg struct {
		viewID int
		text   string
	}

	reposLoadedMsg struct {
		viewID int
		resp   *api.ReposResponse
		err    error
	}

	issuesLoadedMsg struct {
		viewID int
		resp   *api.IssuesResponse
		err    error
	}

	submitDoneMsg struct {
		viewID  int
		number  int
		errText string
		closed  bool
	}
)

func navigate(path string) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Path: path} }
}
