package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gastroflow/gastroflow-cli/internal/listing"
	"github.com/gastroflow/gastroflow-cli/internal/ui/components"
)

// listLoadedMsg carries a fetch result back to the list that issued it.
type listLoadedMsg[T any] struct {
	list string
	res  listing.Result[T]
}

// Column renders one table column for a record.
type Column[T any] struct {
	Header string
	Width  int
	Align  lipgloss.Position
	Value  func(T) string
}

type textFilter struct {
	name  string
	label string
}

type choiceFilter struct {
	name    string
	label   string
	options []string
	display func(string) string
}

// ListView renders a listing.Controller as a paged table with a filter bar.
// Every entity tab and every picker is one of these.
type ListView[T any] struct {
	title     string
	ctrl      *listing.Controller[T]
	columns   []Column[T]
	texts     []textFilter
	choice    *choiceFilter
	cursor    components.Cursor
	filtering bool
	filterIdx int
	width     int
	alert     func(T) bool
}

// NewListView wraps ctrl with the given columns.
func NewListView[T any](title string, ctrl *listing.Controller[T], columns []Column[T]) *ListView[T] {
	return &ListView[T]{title: title, ctrl: ctrl, columns: columns}
}

// WithTextFilter adds a free-text filter edited with f.
func (l *ListView[T]) WithTextFilter(name, label string) *ListView[T] {
	l.texts = append(l.texts, textFilter{name: name, label: label})
	return l
}

// WithAlert marks rows for which alert reports true.
func (l *ListView[T]) WithAlert(alert func(T) bool) *ListView[T] {
	l.alert = alert
	return l
}

// WithChoiceFilter adds a filter cycled with c. options[0] should be "" (all).
func (l *ListView[T]) WithChoiceFilter(name, label string, options []string, display func(string) string) *ListView[T] {
	if display == nil {
		display = func(s string) string { return s }
	}
	l.choice = &choiceFilter{name: name, label: label, options: options, display: display}
	return l
}

func (l *ListView[T]) Controller() *listing.Controller[T] { return l.ctrl }

func (l *ListView[T]) SetWidth(width int) { l.width = width }

func (l *ListView[T]) Cursor() int { return l.cursor.Pos() }

func (l *ListView[T]) Filtering() bool { return l.filtering }

// Load issues a fetch with the current filters and page.
func (l *ListView[T]) Load() tea.Cmd {
	return l.cmd(l.ctrl.Load())
}

func (l *ListView[T]) cmd(fetch listing.Fetch[T]) tea.Cmd {
	if fetch == nil {
		return nil
	}
	name := l.ctrl.Name()
	return func() tea.Msg {
		return listLoadedMsg[T]{list: name, res: fetch()}
	}
}

// Loaded applies msg if it belongs to this list. It returns whether the
// message was consumed and any follow-up fetch.
func (l *ListView[T]) Loaded(msg listLoadedMsg[T]) (bool, tea.Cmd) {
	if msg.list != l.ctrl.Name() {
		return false, nil
	}
	_, follow := l.ctrl.Apply(msg.res)
	l.clampCursor()
	return true, l.cmd(follow)
}

// Current returns the record under the cursor.
func (l *ListView[T]) Current() (T, bool) {
	visible := l.ctrl.Visible()
	pos := l.cursor.Pos()
	if pos >= len(visible) {
		var zero T
		return zero, false
	}
	return visible[pos], true
}

// Open selects the record under the cursor for the detail overlay.
func (l *ListView[T]) Open() (T, bool) {
	item, ok := l.Current()
	if ok {
		l.ctrl.Select(item)
	}
	return item, ok
}

// Close clears the selection and reloads the page so edits show up.
func (l *ListView[T]) Close() tea.Cmd {
	return l.cmd(l.ctrl.Deselect())
}

// AtTop reports whether the cursor sits on the first row.
func (l *ListView[T]) AtTop() bool {
	return l.cursor.AtTop()
}

func (l *ListView[T]) clampCursor() {
	l.cursor.SetCount(len(l.ctrl.Visible()))
}

// HandleKey processes list navigation and filter keys. Keys it does not
// own are reported unhandled so the owning tab can act on them.
func (l *ListView[T]) HandleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	if l.filtering {
		return true, l.handleFilterKey(msg)
	}
	switch {
	case isDown(msg):
		l.clampCursor()
		l.cursor.Down()
		return true, nil
	case isUp(msg):
		return l.cursor.Up(), nil
	case isNextPage(msg):
		if !l.ctrl.HasNext() {
			return true, nil
		}
		l.cursor.Home()
		return true, l.cmd(l.ctrl.NextPage())
	case isPrevPage(msg):
		if !l.ctrl.HasPrev() {
			return true, nil
		}
		l.cursor.Home()
		return true, l.cmd(l.ctrl.PrevPage())
	case isKey(msg, "f"):
		if len(l.texts) == 0 {
			return false, nil
		}
		l.filtering = true
		return true, nil
	case isKey(msg, "c"):
		if l.choice == nil || len(l.choice.options) == 0 {
			return false, nil
		}
		l.cursor.Home()
		return true, l.cmd(l.ctrl.SetChoice(l.choice.name, l.nextChoice()))
	case isKey(msg, "x"):
		if len(l.ctrl.Filters()) == 0 {
			return true, nil
		}
		l.cursor.Home()
		return true, l.cmd(l.ctrl.ClearFilters())
	case isKey(msg, "r"):
		return true, l.Load()
	}
	return false, nil
}

func (l *ListView[T]) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	field := l.texts[l.filterIdx]
	draft := l.ctrl.Draft(field.name)
	switch {
	case isEnter(msg):
		l.filtering = false
		l.cursor.Home()
		return l.cmd(l.ctrl.CommitFilters())
	case isBack(msg):
		l.filtering = false
		l.cursor.Home()
		return l.cmd(l.ctrl.ClearFilters())
	case isKey(msg, "tab"):
		l.filterIdx = (l.filterIdx + 1) % len(l.texts)
		return nil
	case isKey(msg, "backspace"):
		if draft == "" {
			return nil
		}
		return l.setFilter(field.name, dropLastRune(draft))
	case isKey(msg, "ctrl+u"):
		return l.setFilter(field.name, "")
	}
	if text, ok := typedText(msg); ok {
		return l.setFilter(field.name, draft+text)
	}
	return nil
}

func (l *ListView[T]) setFilter(name, value string) tea.Cmd {
	fetch := l.ctrl.SetFilter(name, value)
	l.clampCursor()
	return l.cmd(fetch)
}

func (l *ListView[T]) nextChoice() string {
	current := l.ctrl.Committed(l.choice.name)
	for i, opt := range l.choice.options {
		if opt == current {
			return l.choice.options[(i+1)%len(l.choice.options)]
		}
	}
	return l.choice.options[0]
}

// --- Rendering ---

// View renders the table inside a titled box.
func (l *ListView[T]) View() string {
	var b strings.Builder
	b.WriteString(MutedStyle.Render(l.summaryLine()))
	if l.filtering {
		b.WriteString("\n\n")
		b.WriteString(l.renderFilterInputs())
	}
	b.WriteString("\n\n")
	b.WriteString(l.renderBody())
	b.WriteString("\n\n")
	b.WriteString(MutedStyle.Render(l.ctrl.PageLabel()))
	return components.TitledBox(l.title, b.String(), l.width)
}

func (l *ListView[T]) summaryLine() string {
	parts := []string{fmt.Sprintf("%d total", l.ctrl.Total())}
	for _, f := range l.texts {
		if v := strings.TrimSpace(l.ctrl.Committed(f.name)); v != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", strings.ToLower(f.label), v))
		}
	}
	if l.choice != nil {
		parts = append(parts, fmt.Sprintf("%s: %s", strings.ToLower(l.choice.label), l.choice.display(l.ctrl.Committed(l.choice.name))))
	}
	if l.ctrl.Dirty() && !l.filtering {
		parts = append(parts, "unapplied filter")
	}
	return strings.Join(parts, " · ")
}

func (l *ListView[T]) renderFilterInputs() string {
	var b strings.Builder
	for i, f := range l.texts {
		value := components.SanitizeOneLine(l.ctrl.Draft(f.name))
		if i == l.filterIdx {
			b.WriteString(SelectedStyle.Render("> " + f.label + ": "))
			b.WriteString(NormalStyle.Render(value))
			b.WriteString(AccentStyle.Render("█"))
		} else {
			b.WriteString(MutedStyle.Render("  " + f.label + ": " + value))
		}
		if i < len(l.texts)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (l *ListView[T]) renderBody() string {
	visible := l.ctrl.Visible()
	switch {
	case l.ctrl.Loading() && len(visible) == 0:
		return MutedStyle.Render("Loading...")
	case l.ctrl.Err() != nil:
		return ErrorStyle.Render(describeError("load "+strings.ToLower(l.title), l.ctrl.Err()))
	case l.ctrl.Empty():
		return MutedStyle.Render("No records found.")
	}

	cols := make([]components.TableColumn, len(l.columns))
	for i, c := range l.columns {
		cols[i] = components.TableColumn{Header: c.Header, Width: c.Width, Align: c.Align}
	}
	rows := make([]components.GridRow, len(visible))
	for i, item := range visible {
		cells := make([]string, len(l.columns))
		for j, c := range l.columns {
			cells[j] = c.Value(item)
		}
		rows[i] = components.GridRow{Cells: cells, Alert: l.alert != nil && l.alert(item)}
	}
	return components.RenderGrid(cols, rows, l.tableWidth(), l.cursor.Pos())
}

func (l *ListView[T]) tableWidth() int {
	if w := components.BoxContentWidth(l.width); w > 0 {
		return w
	}
	total := 2
	for _, c := range l.columns {
		total += c.Width + 1
	}
	return total
}

// listHints returns the status bar hints for a list view.
func listHints[T any](l *ListView[T]) []string {
	if l.filtering {
		hints := []string{
			components.Hint("enter", "Apply"),
			components.Hint("esc", "Clear"),
		}
		if len(l.texts) > 1 {
			hints = append(hints, components.Hint("tab", "Next filter"))
		}
		return hints
	}
	hints := []string{
		components.Hint("↑/↓", "Move"),
		components.Hint("enter", "Open"),
		components.Hint("[/]", "Page"),
	}
	if len(l.texts) > 0 {
		hints = append(hints, components.Hint("f", "Filter"))
	}
	if l.choice != nil {
		hints = append(hints, components.Hint("c", l.choice.label))
	}
	return append(hints, components.Hint("x", "Clear"), components.Hint("r", "Reload"))
}
