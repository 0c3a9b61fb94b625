package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all key bindings used by the screens.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Select   key.Binding
	Deselect key.Binding
	Back     key.Binding
	Manage   key.Binding

	// Grid
	SortColumn    key.Binding
	SortDirection key.Binding

	// Issue actions
	OpenIssue     key.Binding
	OpenUser      key.Binding
	CycleAction   key.Binding
	MessageType   key.Binding
	CustomMessage key.Binding
	Submit        key.Binding

	// Admin panel
	Trigger    key.Binding
	FocusInput key.Binding

	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Deselect: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "deselect"),
		),
		Back: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "back to repos"),
		),
		Manage: key.NewBinding(
			key.WithKeys("M"),
			key.WithHelp("M", "admin panel"),
		),
		SortColumn: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort column"),
		),
		SortDirection: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "sort direction"),
		),
		OpenIssue: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open issue"),
		),
		OpenUser: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "open submitter"),
		),
		CycleAction: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "cycle action"),
		),
		MessageType: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "message type"),
		),
		CustomMessage: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "custom message"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "submit"),
		),
		Trigger: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "run task"),
		),
		FocusInput: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "list/custom location"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}
}

// screenKeys is the help.KeyMap of a single screen.
type screenKeys struct {
	short []key.Binding
	full  [][]key.Binding
}

func (s screenKeys) ShortHelp() []key.Binding  { return s.short }
func (s screenKeys) FullHelp() [][]key.Binding { return s.full }

// ManageHelp returns the bindings shown on the admin panel.
func (k KeyMap) ManageHelp() help.KeyMap {
	return screenKeys{
		short: []key.Binding{k.Trigger, k.FocusInput, k.Help, k.Quit},
		full: [][]key.Binding{
			{k.Up, k.Down, k.Trigger, k.FocusInput},
			{k.Back, k.Help, k.Quit},
		},
	}
}

// RepoListHelp returns the bindings shown on the repository list.
func (k KeyMap) RepoListHelp() help.KeyMap {
	return screenKeys{
		short: []key.Binding{k.Select, k.SortColumn, k.Help, k.Quit},
		full: [][]key.Binding{
			{k.Up, k.Down, k.Select},
			{k.SortColumn, k.SortDirection, k.Manage},
			{k.Help, k.Quit},
		},
	}
}

// IssueListHelp returns the bindings shown on the issue list.
func (k KeyMap) IssueListHelp() help.KeyMap {
	return screenKeys{
		short: []key.Binding{k.Select, k.CycleAction, k.MessageType, k.Submit, k.Help},
		full: [][]key.Binding{
			{k.Up, k.Down, k.Select, k.Deselect},
			{k.CycleAction, k.MessageType, k.CustomMessage, k.Submit},
			{k.OpenIssue, k.OpenUser, k.SortColumn, k.SortDirection},
			{k.Back, k.Help, k.Quit},
		},
	}
}
