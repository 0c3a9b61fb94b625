// Package grid renders a sortable, single-select data table on top of
// bubbles/table. Callers describe columns once and hand over rows; the grid
// owns ordering, widths and the selection events.
package grid

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// Column describes one grid column.
type Column[T any] struct {
	Key   string
	Title string
	Width int // Percent of the available width

	Value func(row T) string
	Less  func(a, b T) bool // Nil makes the column unsortable
}

// SortSpec names the sort column and direction.
type SortSpec struct {
	Key  string
	Desc bool
}

// SelectionChangedMsg is emitted when the cursor row is selected (enter) or
// the selection is cleared (esc).
type SelectionChangedMsg[T any] struct {
	Row      T
	Selected bool
}

var (
	selectKey   = key.NewBinding(key.WithKeys("enter"))
	deselectKey = key.NewBinding(key.WithKeys("esc"))
)

// Styles used by every grid.
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true).
			Padding(0, 1)

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205"))
)

// Model is a sortable grid of T rows.
type Model[T any] struct {
	columns []Column[T]
	sort    SortSpec
	rows    []T // Display order
	table   table.Model
	width   int
}

// New creates a grid with the given columns and initial sort.
func New[T any](columns []Column[T], sort SortSpec) Model[T] {
	styles := table.DefaultStyles()
	styles.Header = headerStyle
	styles.Selected = selectedRowStyle

	m := Model[T]{
		columns: columns,
		sort:    sort,
		width:   80,
		table: table.New(
			table.WithFocused(true),
			table.WithHeight(10),
			table.WithStyles(styles),
		),
	}
	m.table.SetColumns(m.tableColumns())
	return m
}

// SetRows replaces the data source, keeping the current sort.
// The cursor is clamped to the new row count.
func (m *Model[T]) SetRows(rows []T) {
	m.rows = append([]T(nil), rows...)
	m.apply()
}

// Rows returns the rows in display order.
func (m Model[T]) Rows() []T {
	return append([]T(nil), m.rows...)
}

// Len returns the number of rows.
func (m Model[T]) Len() int {
	return len(m.rows)
}

// Sort returns the active sort.
func (m Model[T]) Sort() SortSpec {
	return m.sort
}

// SetSort changes the sort column and direction.
// Unknown or unsortable keys are ignored.
func (m *Model[T]) SetSort(spec SortSpec) {
	if c, ok := m.column(spec.Key); !ok || c.Less == nil {
		return
	}
	m.sort = spec
	m.apply()
}

// CycleSort moves the sort to the next sortable column, keeping the direction.
func (m *Model[T]) CycleSort() {
	start := m.columnIndex(m.sort.Key)
	for i := 1; i <= len(m.columns); i++ {
		c := m.columns[(start+i)%len(m.columns)]
		if c.Less != nil {
			m.sort.Key = c.Key
			m.apply()
			return
		}
	}
}

// ToggleDirection flips between ascending and descending.
func (m *Model[T]) ToggleDirection() {
	m.sort.Desc = !m.sort.Desc
	m.apply()
}

// Cursor returns the row under the cursor.
func (m Model[T]) Cursor() (T, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rows) {
		var zero T
		return zero, false
	}
	return m.rows[idx], true
}

// SetWidth sets the total width the grid may use.
func (m *Model[T]) SetWidth(width int) {
	if width < 20 {
		width = 20
	}
	m.width = width
	m.table.SetColumns(m.tableColumns())
	m.table.SetWidth(width)
	m.apply()
}

// SetHeight sets the number of visible lines, header included.
func (m *Model[T]) SetHeight(height int) {
	if height < 3 {
		height = 3
	}
	m.table.SetHeight(height)
}

// Update handles cursor movement and emits SelectionChangedMsg.
func (m Model[T]) Update(msg tea.Msg) (Model[T], tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, selectKey):
			row, ok := m.Cursor()
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg { return SelectionChangedMsg[T]{Row: row, Selected: true} }
		case key.Matches(keyMsg, deselectKey):
			return m, func() tea.Msg { return SelectionChangedMsg[T]{Selected: false} }
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the grid.
func (m Model[T]) View() string {
	return m.table.View()
}

// apply sorts the rows and pushes them into the table.
func (m *Model[T]) apply() {
	if c, ok := m.column(m.sort.Key); ok && c.Less != nil {
		less := c.Less
		desc := m.sort.Desc
		slices.SortStableFunc(m.rows, func(a, b T) int {
			x, y := a, b
			if desc {
				x, y = b, a
			}
			switch {
			case less(x, y):
				return -1
			case less(y, x):
				return 1
			default:
				return 0
			}
		})
	}

	cols := m.tableColumns()
	rows := make([]table.Row, len(m.rows))
	for i, r := range m.rows {
		row := make(table.Row, len(m.columns))
		for j, c := range m.columns {
			row[j] = truncate.StringWithTail(oneLine(c.Value(r)), uint(max(cols[j].Width, 1)), "…")
		}
		rows[i] = row
	}
	m.table.SetColumns(cols)
	m.table.SetRows(rows)
	if n := len(rows); n > 0 && m.table.Cursor() >= n {
		m.table.SetCursor(n - 1)
	}
}

// tableColumns converts percentage widths into cell widths.
// Each cell carries two characters of padding.
func (m Model[T]) tableColumns() []table.Column {
	usable := m.width - 2*len(m.columns)
	if usable < len(m.columns) {
		usable = len(m.columns)
	}

	cols := make([]table.Column, len(m.columns))
	for i, c := range m.columns {
		title := c.Title
		if c.Key == m.sort.Key {
			if m.sort.Desc {
				title += " ▼"
			} else {
				title += " ▲"
			}
		}
		cols[i] = table.Column{Title: title, Width: max(usable*c.Width/100, 1)}
	}
	return cols
}

func (m Model[T]) column(k string) (Column[T], bool) {
	if i := m.columnIndex(k); i >= 0 {
		return m.columns[i], true
	}
	return Column[T]{}, false
}

func (m Model[T]) columnIndex(k string) int {
	return slices.IndexFunc(m.columns, func(c Column[T]) bool { return c.Key == k })
}

// oneLine collapses newlines so a cell never breaks the row layout.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
