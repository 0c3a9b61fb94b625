package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// messageTypeItem wraps a message template key for use in bubbles/list.
type messageTypeItem string

func (i messageTypeItem) FilterValue() string {
	return string(i)
}

func (i messageTypeItem) Title() string {
	return string(i)
}

// Description turns the key into a readable label ("needs_reply" -> "needs reply").
func (i messageTypeItem) Description() string {
	return strings.ReplaceAll(string(i), "_", " ")
}

// messageTypeDelegate is a custom item delegate for message type items.
type messageTypeDelegate struct{}

func (d messageTypeDelegate) Height() int                             { return 2 }
func (d messageTypeDelegate) Spacing() int                            { return 0 }
func (d messageTypeDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d messageTypeDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(messageTypeItem)
	if !ok {
		return
	}

	str := fmt.Sprintf("%d. %s", index+1, i.Title())
	desc := i.Description()

	if index == m.Index() {
		fmt.Fprint(w, SelectedItemStyle.Render("> "+str))
		fmt.Fprint(w, "\n  "+NormalItemStyle.Render(desc))
	} else {
		fmt.Fprint(w, NormalItemStyle.Render("  "+str))
		fmt.Fprint(w, "\n  "+lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(desc))
	}
}

// messageTypeChosenMsg is emitted when the picker closes. An empty value
// means the picker was cancelled.
type messageTypeChosenMsg struct {
	value string
}

// MessageTypePickerModel lets the user pick the message template of a draft.
type MessageTypePickerModel struct {
	list list.Model
}

// NewMessageTypePickerModel creates a picker over types with current preselected.
func NewMessageTypePickerModel(types []string, current string) MessageTypePickerModel {
	items := make([]list.Item, len(types))
	selected := 0
	for i, t := range types {
		items[i] = messageTypeItem(t)
		if t == current {
			selected = i
		}
	}

	l := list.New(items, messageTypeDelegate{}, 40, 14)
	l.Title = "Select a Message Type"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = TitleStyle
	l.KeyMap.Quit.SetEnabled(false)
	l.Select(selected)

	return MessageTypePickerModel{list: l}
}

// SetSize resizes the picker.
func (m *MessageTypePickerModel) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

// Update handles picker keys.
func (m MessageTypePickerModel) Update(msg tea.Msg) (MessageTypePickerModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc", "q":
			return m, func() tea.Msg { return messageTypeChosenMsg{} }
		case "enter":
			if item, ok := m.list.SelectedItem().(messageTypeItem); ok {
				return m, func() tea.Msg { return messageTypeChosenMsg{value: string(item)} }
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the picker.
func (m MessageTypePickerModel) View() string {
	return m.list.View()
}
