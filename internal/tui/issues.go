package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"github.com/pkg/browser"
	"github.com/robby/ghtriage/internal/api"
	"github.com/robby/ghtriage/internal/domain"
	"github.com/robby/ghtriage/internal/format"
	"github.com/robby/ghtriage/internal/grid"
	"github.com/robby/ghtriage/internal/store"
)

// githubURL prefixes submitter profile links.
const githubURL = "https://github.com/"

// detailHeight is the number of lines reserved for the detail pane.
const detailHeight = 12

// openURL opens links in the user's browser. Replaced in tests.
var openURL = browser.OpenURL

// issueColumns is the issue grid configuration.
func issueColumns() []grid.Column[domain.Issue] {
	return []grid.Column[domain.Issue]{
		{
			Key: "rank", Title: "Rank", Width: 5,
			Value: func(i domain.Issue) string { return format.Number(i.Rank) },
			Less:  func(a, b domain.Issue) bool { return a.Rank < b.Rank },
		},
		{
			Key: "score", Title: "Score", Width: 6,
			Value: func(i domain.Issue) string { return format.Number(i.Score) },
			Less:  func(a, b domain.Issue) bool { return a.Score < b.Score },
		},
		{
			Key: "number", Title: "Issue", Width: 6,
			Value: func(i domain.Issue) string { return "#" + strconv.Itoa(i.Number) },
			Less:  func(a, b domain.Issue) bool { return a.Number < b.Number },
		},
		{
			Key: "comments", Title: "Comments", Width: 7,
			Value: func(i domain.Issue) string { return format.Count(i.Comments) },
			Less:  func(a, b domain.Issue) bool { return a.Comments < b.Comments },
		},
		{
			Key: "references", Title: "Refs", Width: 5,
			Value: func(i domain.Issue) string { return format.Count(i.References) },
			Less:  func(a, b domain.Issue) bool { return a.References < b.References },
		},
		{
			Key: "created", Title: "Created", Width: 8,
			Value: func(i domain.Issue) string { return format.Date(i.Created) },
			Less:  func(a, b domain.Issue) bool { return a.Created.Before(b.Created.Time) },
		},
		{
			Key: "updated", Title: "Updated", Width: 8,
			Value: func(i domain.Issue) string { return format.Date(i.Updated) },
			Less:  func(a, b domain.Issue) bool { return a.Updated.Before(b.Updated.Time) },
		},
		{
			Key: "username", Title: "User", Width: 12,
			Value: func(i domain.Issue) string { return i.Username },
			Less:  func(a, b domain.Issue) bool { return strings.ToLower(a.Username) < strings.ToLower(b.Username) },
		},
		{
			Key: "title", Title: "Title", Width: 27,
			Value: format.Title,
			Less:  func(a, b domain.Issue) bool { return format.Title(a) < format.Title(b) },
		},
		{
			Key: "assignee", Title: "Assignee", Width: 8,
			Value: func(i domain.Issue) string { return i.Assignee },
			Less:  func(a, b domain.Issue) bool { return a.Assignee < b.Assignee },
		},
		{
			Key: "milestone", Title: "Milestone", Width: 8,
			Value: func(i domain.Issue) string { return i.Milestone },
			Less:  func(a, b domain.Issue) bool { return a.Milestone < b.Milestone },
		},
	}
}

// IssueListModel shows the scored issues of one repository and the triage
// form for the selected issue.
type IssueListModel struct {
	// Dependencies
	client Client
	logger *slog.Logger
	ctx    context.Context
	viewID int
	owner  string
	repo   string
	store  *store.Store

	// UI components
	keymap         KeyMap
	help           HelpModel
	spinner        spinner.Model
	grid           grid.Model[domain.Issue]
	picker         MessageTypePickerModel
	messageInput   textarea.Model
	messageTypes   []string
	pickerOpen     bool
	messageEditing bool

	// State
	loading  bool
	fetchErr string
	showHelp bool

	width  int
	height int
}

// NewIssueListModel creates the issue list for owner/repo.
func NewIssueListModel(ctx context.Context, client Client, logger *slog.Logger, viewID int, owner, repo string, messageTypes []string) IssueListModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ta := textarea.New()
	ta.Placeholder = "Optional message sent with the action..."
	ta.CharLimit = 65535
	ta.SetHeight(4)
	ta.SetWidth(60) // Will be resized
	ta.ShowLineNumbers = false
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle() // No highlight on cursor line
	ta.FocusedStyle.Base = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("228"))
	ta.BlurredStyle.Base = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240"))

	keymap := DefaultKeyMap()
	return IssueListModel{
		client:       client,
		logger:       logger,
		ctx:          ctx,
		viewID:       viewID,
		owner:        owner,
		repo:         repo,
		store:        store.New(),
		keymap:       keymap,
		help:         NewHelpModel(keymap.IssueListHelp()),
		spinner:      sp,
		grid:         grid.New(issueColumns(), grid.SortSpec{Key: "score", Desc: true}),
		messageInput: ta,
		messageTypes: messageTypes,
		loading:      true,
	}
}

// Loading reports whether the issue request is still outstanding.
func (m IssueListModel) Loading() bool {
	return m.loading
}

// submitting reports whether the current draft is in flight.
func (m IssueListModel) submitting() bool {
	draft, ok := m.store.Draft()
	return ok && draft.Disabled
}

// Store exposes the screen state.
func (m IssueListModel) Store() *store.Store {
	return m.store
}

// Init starts fetching the issues.
func (m IssueListModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchIssues())
}

// Update handles messages
func (m IssueListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		(&m).resize()
		return m, nil

	case issuesLoadedMsg:
		if msg.viewID != m.viewID {
			return m, nil
		}
		if msg.err != nil {
			// The loading flag stays set; only the error text is surfaced.
			m.fetchErr = api.ErrorText(msg.err)
			m.logger.Warn("fetch issues failed", "owner", m.owner, "repo", m.repo, "error", msg.err)
			return m, nil
		}
		m.store.SetResult(msg.resp.RepoURL, msg.resp.Issues, msg.resp.Error)
		m.loading = false
		m.grid.SetRows(m.store.Issues())
		return m, nil

	case submitDoneMsg:
		if msg.viewID != m.viewID {
			return m, nil
		}
		if !m.store.CompleteSubmit(msg.number, msg.errText, msg.closed) {
			m.logger.Debug("submit result for replaced draft", "number", msg.number)
		}
		m.grid.SetRows(m.store.Issues())
		return m, nil

	case grid.SelectionChangedMsg[domain.Issue]:
		if !msg.Selected {
			return m, nil
		}
		m.store.Select(msg.Row)
		draft, _ := m.store.Draft()
		m.logger.Debug("draft action",
			"number", draft.Issue.Number,
			"action_type", draft.ActionType,
			"title", draft.Issue.Title)
		return m, nil

	case messageTypeChosenMsg:
		m.pickerOpen = false
		if msg.value != "" {
			_ = m.store.SetMessageType(msg.value)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading && !m.submitting() {
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
func (m IssueListModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		if msg.String() == "?" || msg.String() == "q" || msg.String() == "esc" {
			m.showHelp = false
		}
		return m, nil
	}

	if m.pickerOpen {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}

	// Message mode - textarea gets all key events except special ones
	if m.messageEditing {
		switch {
		case msg.String() == "esc":
			(&m).finishMessage()
			return m, nil
		case key.Matches(msg, m.keymap.Submit):
			(&m).finishMessage()
			return m.submit()
		default:
			var cmd tea.Cmd
			m.messageInput, cmd = m.messageInput.Update(msg)
			return m, cmd
		}
	}

	draft, hasDraft := m.store.Draft()
	editable := hasDraft && !draft.Disabled

	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m, func() tea.Msg { return QuitMsg{} }
	case key.Matches(msg, m.keymap.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keymap.Back):
		return m, navigate("/")
	case key.Matches(msg, m.keymap.SortColumn):
		m.grid.CycleSort()
		return m, nil
	case key.Matches(msg, m.keymap.SortDirection):
		m.grid.ToggleDirection()
		return m, nil
	case key.Matches(msg, m.keymap.OpenIssue):
		if issue, ok := m.grid.Cursor(); ok {
			if url := m.issueURL(issue); url != "" {
				_ = openURL(url)
			}
		}
		return m, nil
	case key.Matches(msg, m.keymap.OpenUser):
		if issue, ok := m.grid.Cursor(); ok && issue.Username != "" {
			_ = openURL(githubURL + issue.Username)
		}
		return m, nil
	case key.Matches(msg, m.keymap.CycleAction):
		if editable {
			_ = m.store.SetActionType(draft.ActionType.Next())
		}
		return m, nil
	case key.Matches(msg, m.keymap.MessageType):
		if editable && len(m.messageTypes) > 0 {
			m.picker = NewMessageTypePickerModel(m.messageTypes, draft.MessageType)
			m.picker.SetSize(max(m.width/2, 30), max(m.height-4, 8))
			m.pickerOpen = true
		}
		return m, nil
	case key.Matches(msg, m.keymap.CustomMessage):
		if editable {
			m.messageInput.SetValue(draft.CustomMessage)
			m.messageEditing = true
			m.messageInput.Focus()
			return m, textarea.Blink
		}
		return m, nil
	case key.Matches(msg, m.keymap.Submit):
		return m.submit()
	}

	var cmd tea.Cmd
	m.grid, cmd = m.grid.Update(msg)
	return m, cmd
}

// finishMessage stores the textarea content on the draft and leaves message mode.
func (m *IssueListModel) finishMessage() {
	_ = m.store.SetCustomMessage(m.messageInput.Value())
	m.messageEditing = false
	m.messageInput.Blur()
}

// submit sends the draft unless it is incomplete or already in flight.
func (m IssueListModel) submit() (tea.Model, tea.Cmd) {
	draft, err := m.store.BeginSubmit()
	if err != nil {
		m.logger.Debug("submit skipped", "reason", err)
		return m, nil
	}

	owner, repo := draft.Issue.RepoUsername, draft.Issue.RepoID
	if owner == "" || repo == "" {
		owner, repo = m.owner, m.repo
	}
	req := api.SubmitRequest{
		ActionType:    draft.ActionType,
		MessageType:   draft.MessageType,
		CustomMessage: draft.CustomMessage,
	}

	client, ctx, viewID, number := m.client, m.ctx, m.viewID, draft.Issue.Number
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		resp, err := client.SubmitResponse(ctx, owner, repo, number, req)
		if err != nil {
			return submitDoneMsg{viewID: viewID, number: number, errText: api.ErrorText(err)}
		}
		return submitDoneMsg{viewID: viewID, number: number, errText: resp.Error, closed: resp.IssueClosed}
	})
}

// issueURL links an issue on GitHub, empty until the repository URL is known.
func (m IssueListModel) issueURL(issue domain.Issue) string {
	if m.store.RepoURL() == "" {
		return ""
	}
	return fmt.Sprintf("%s/issues/%d", strings.TrimSuffix(m.store.RepoURL(), "/"), issue.Number)
}

func (m *IssueListModel) resize() {
	m.grid.SetWidth(m.width)
	m.grid.SetHeight(max(m.height-detailHeight-3, 3))
	m.messageInput.SetWidth(max(m.width-6, 20))
	if m.pickerOpen {
		m.picker.SetSize(max(m.width/2, 30), max(m.height-4, 8))
	}
}

// View renders the issue list with its detail pane.
func (m IssueListModel) View() string {
	width := m.width
	if width == 0 {
		width = 80
	}

	if m.showHelp {
		return m.help.View(width)
	}
	if m.pickerOpen {
		return focusedPanelBorderStyle.Render(m.picker.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(width),
		m.grid.View(),
		m.renderDetail(width),
		HelpStyle.Render(m.help.ShortView(width)),
	)
}

// renderHeader renders the repository name and load status.
func (m IssueListModel) renderHeader(width int) string {
	title := titleStyle.Render(m.owner + "/" + m.repo)

	var status string
	switch {
	case m.fetchErr != "":
		status = ErrorStyle.Render(m.fetchErr)
	case m.loading:
		status = m.spinner.View() + dimStyle.Render(" Loading issues...")
	case m.store.ServerError() != "":
		status = warningStyle.Render(m.store.ServerError())
	default:
		status = dimStyle.Render(fmt.Sprintf("%d issues", m.store.Len()))
	}

	return truncate.StringWithTail(title+"  "+status, uint(width), "…")
}

// renderDetail renders the cursor issue's score breakdown and the draft form.
func (m IssueListModel) renderDetail(width int) string {
	inner := max(width-4, 20)
	var lines []string

	if issue, ok := m.grid.Cursor(); ok {
		lines = append(lines,
			titleStyle.Render(truncate.StringWithTail(fmt.Sprintf("#%d %s", issue.Number, format.Title(issue)), uint(inner), "…")),
			labelStyle.Render("Score ")+valueStyle.Render(format.Number(issue.Score))+"  "+
				linkStyle.Render(m.issueURL(issue)),
		)
		if breakdown := format.ScoreBreakdown(issue.ScoreData); breakdown != "" {
			lines = append(lines, dimStyle.Render(wordwrap.String(breakdown, inner)))
		}
	}

	draft, ok := m.store.Draft()
	if !ok {
		lines = append(lines, "", dimStyle.Render("Press enter to triage the highlighted issue."))
		return panelBorderStyle.Width(inner).Render(strings.Join(lines, "\n"))
	}

	messageType := draft.MessageType
	if messageType == "" {
		messageType = "(none)"
	}
	lines = append(lines, "",
		badgeStyle.Render(fmt.Sprintf("#%d", draft.Issue.Number))+" "+
			labelStyle.Render("action ")+valueStyle.Render(string(draft.ActionType))+"  "+
			labelStyle.Render("message ")+valueStyle.Render(messageType),
	)

	if m.messageEditing {
		lines = append(lines, m.messageInput.View())
	} else if draft.CustomMessage != "" {
		lines = append(lines, valueStyle.Render(wordwrap.String(draft.CustomMessage, inner)))
	}

	switch {
	case draft.Disabled:
		lines = append(lines, m.spinner.View()+dimStyle.Render(" Submitting..."))
	case draft.Error != "":
		lines = append(lines, ErrorStyle.Render(wordwrap.String(draft.Error, inner)))
	}

	return focusedPanelBorderStyle.Width(inner).Render(strings.Join(lines, "\n"))
}

// fetchIssues requests the repository's scored issues.
func (m IssueListModel) fetchIssues() tea.Cmd {
	client, ctx, viewID, owner, repo := m.client, m.ctx, m.viewID, m.owner, m.repo
	return func() tea.Msg {
		resp, err := client.FetchRepoIssues(ctx, owner, repo)
		return issuesLoadedMsg{viewID: viewID, resp: resp, err: err}
	}
}
