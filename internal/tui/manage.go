package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/robby/ghtriage/internal/api"
)

// Admin panel texts.
const (
	manageInitialText = "Nothing to show. Click below to manually trigger a cron task."
	managePendingText = "Making request. This might take a while..."
)

// locationItem wraps a task location for use in bubbles/list.
type locationItem string

func (i locationItem) FilterValue() string { return string(i) }

// locationDelegate renders one location per line.
type locationDelegate struct{}

func (d locationDelegate) Height() int                             { return 1 }
func (d locationDelegate) Spacing() int                            { return 0 }
func (d locationDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d locationDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(locationItem)
	if !ok {
		return
	}

	str := "/api/" + string(i)
	if index == m.Index() {
		fmt.Fprint(w, SelectedItemStyle.Render("> "+str))
	} else {
		fmt.Fprint(w, NormalItemStyle.Render("  "+str))
	}
}

// ManageModel is the admin panel: it triggers backend tasks and shows the
// raw response.
type ManageModel struct {
	// Dependencies
	client Client
	ctx    context.Context
	viewID int

	// UI components
	keymap    KeyMap
	help      HelpModel
	spinner   spinner.Model
	locations list.Model
	input     textinput.Model
	output    viewport.Model

	// State
	text       string
	pending    int // Triggers still in flight
	inputFocus bool
	showHelp   bool

	width  int
	height int
}

// NewManageModel creates the admin panel with preset task locations.
func NewManageModel(ctx context.Context, client Client, viewID int, locations []string) ManageModel {
	items := make([]list.Item, len(locations))
	for i, loc := range locations {
		items[i] = locationItem(loc)
	}

	l := list.New(items, locationDelegate{}, 60, 8)
	l.Title = "Cron tasks"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = TitleStyle
	l.KeyMap.Quit.SetEnabled(false)

	ti := textinput.New()
	ti.Placeholder = "owner/repo/123/maintenance"
	ti.Prompt = "/api/"
	ti.CharLimit = 256

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	keymap := DefaultKeyMap()
	m := ManageModel{
		client:    client,
		ctx:       ctx,
		viewID:    viewID,
		keymap:    keymap,
		help:      NewHelpModel(keymap.ManageHelp()),
		spinner:   sp,
		locations: l,
		input:     ti,
		output:    viewport.New(60, 10),
		text:      manageInitialText,
	}
	m.output.SetContent(m.text)
	return m
}

// Text returns the displayed response text.
func (m ManageModel) Text() string {
	return m.text
}

// Init initializes the model. The spinner only runs while a trigger is pending.
func (m ManageModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m ManageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		(&m).resize()
		return m, nil

	case triggerDoneMsg:
		if msg.viewID != m.viewID {
			return m, nil
		}
		if m.pending > 0 {
			m.pending--
		}
		(&m).setText(msg.text)
		return m, nil

	case spinner.TickMsg:
		if m.pending == 0 {
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
func (m ManageModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		if msg.String() == "?" || msg.String() == "q" || msg.String() == "esc" {
			m.showHelp = false
		}
		return m, nil
	}

	// Input mode: everything but enter, tab and esc goes to the text input.
	if m.inputFocus {
		switch {
		case key.Matches(msg, m.keymap.Trigger):
			location := strings.TrimSpace(m.input.Value())
			if location == "" {
				return m, nil
			}
			return m.triggerTask(location)
		case key.Matches(msg, m.keymap.FocusInput), msg.String() == "esc":
			m.inputFocus = false
			m.input.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m, func() tea.Msg { return QuitMsg{} }
	case key.Matches(msg, m.keymap.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keymap.Back):
		return m, navigate("/")
	case key.Matches(msg, m.keymap.FocusInput):
		m.inputFocus = true
		return m, m.input.Focus()
	case key.Matches(msg, m.keymap.Trigger):
		if item, ok := m.locations.SelectedItem().(locationItem); ok {
			return m.triggerTask(string(item))
		}
		return m, nil
	case msg.String() == "pgup", msg.String() == "pgdown":
		var cmd tea.Cmd
		m.output, cmd = m.output.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.locations, cmd = m.locations.Update(msg)
	return m, cmd
}

// triggerTask shows the pending text and requests /api/{location}.
// Whatever the server answers replaces the text, success or not.
func (m ManageModel) triggerTask(location string) (tea.Model, tea.Cmd) {
	m.pending++
	(&m).setText(managePendingText)

	client, ctx, viewID := m.client, m.ctx, m.viewID
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		text, err := client.Trigger(ctx, location)
		if err != nil {
			text = api.ErrorText(err)
		}
		return triggerDoneMsg{viewID: viewID, text: text}
	})
}

func (m *ManageModel) setText(text string) {
	m.text = text
	m.output.SetContent(wordwrap.String(text, max(m.output.Width-2, 10)))
	m.output.GotoTop()
}

func (m *ManageModel) resize() {
	width := max(m.width-4, 20)
	m.locations.SetWidth(width)
	m.locations.SetHeight(min(len(m.locations.Items())+3, 10))
	m.input.Width = width - len(m.input.Prompt) - 2
	m.output.Width = width
	m.output.Height = max(m.height-m.locations.Height()-10, 3)
	m.setText(m.text)
}

// View renders the admin panel.
func (m ManageModel) View() string {
	width := m.width
	if width == 0 {
		width = 80
	}

	if m.showHelp {
		return m.help.View(width)
	}

	status := ""
	if m.pending > 0 {
		status = m.spinner.View() + " running"
	}

	inputStyle := panelBorderStyle
	if m.inputFocus {
		inputStyle = focusedPanelBorderStyle
	}

	sections := []string{
		titleStyle.Render("Admin") + "  " + dimStyle.Render(status),
		m.locations.View(),
		labelStyle.Render("Custom location"),
		inputStyle.Render(m.input.View()),
		labelStyle.Render("Response"),
		panelBorderStyle.Render(m.output.View()),
		HelpStyle.Render(m.help.ShortView(width)),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
