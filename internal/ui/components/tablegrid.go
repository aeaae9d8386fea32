package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TableColumn is one grid column. Width excludes separators; the last
// column absorbs whatever width the table has left.
type TableColumn struct {
	Header string
	Width  int
	Align  lipgloss.Position
}

// GridRow is one data row. Alert rows are drawn in the alert colour, such
// as products that ran out of stock.
type GridRow struct {
	Cells []string
	Alert bool
}

const gridIndent = 2

var (
	gridLineStyle      = lipgloss.NewStyle().Foreground(colorBorder)
	gridHeaderStyle    = lipgloss.NewStyle().Foreground(colorHerb).Bold(true)
	gridActiveStyle    = lipgloss.NewStyle().Foreground(colorText).Background(colorRow).Bold(true)
	gridActiveSepStyle = lipgloss.NewStyle().Foreground(colorBorder).Background(colorRow)
	gridAlertStyle     = lipgloss.NewStyle().Foreground(colorRemoved)
)

// TableGrid renders rows under a header line and a rule, tableWidth wide.
// Pass components.BoxContentWidth(termWidth) to fit inside a box.
func TableGrid(columns []TableColumn, rows [][]string, tableWidth int) string {
	return TableGridWithActiveRow(columns, rows, tableWidth, -1)
}

// TableGridWithActiveRow is TableGrid with one row highlighted; -1 highlights none.
func TableGridWithActiveRow(columns []TableColumn, rows [][]string, tableWidth, active int) string {
	grid := make([]GridRow, len(rows))
	for i, cells := range rows {
		grid[i] = GridRow{Cells: cells}
	}
	return RenderGrid(columns, grid, tableWidth, active)
}

// RenderGrid draws rows with per-row alert state. active is the highlighted
// row, -1 for none.
func RenderGrid(columns []TableColumn, rows []GridRow, tableWidth, active int) string {
	if tableWidth <= 0 {
		return ""
	}
	if len(columns) == 0 {
		return padRight("", tableWidth)
	}

	border := lipgloss.RoundedBorder()
	sep := orDefault(border.Left, "|")
	cols := fitColumns(columns, lipgloss.Width(sep), tableWidth)

	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = SanitizeOneLine(c.Header)
	}

	lines := make([]string, 0, len(rows)+2)
	lines = append(lines,
		gridLine(cols, headers, sep, tableWidth, gridHeaderStyle, gridLineStyle),
		gridRule(cols, orDefault(border.Middle, "+"), orDefault(border.Top, "-"), tableWidth),
	)
	for i, row := range rows {
		cell, line := lipgloss.NewStyle(), gridLineStyle
		switch {
		case i == active && row.Alert:
			cell, line = gridActiveStyle.Foreground(colorRemoved), gridActiveSepStyle
		case i == active:
			cell, line = gridActiveStyle, gridActiveSepStyle
		case row.Alert:
			cell = gridAlertStyle
		}
		lines = append(lines, gridLine(cols, row.Cells, sep, tableWidth, cell, line))
	}
	return strings.Join(lines, "\n")
}

func fitColumns(columns []TableColumn, sepWidth, tableWidth int) []TableColumn {
	cols := append([]TableColumn(nil), columns...)
	avail := max(tableWidth-gridIndent, len(cols))
	used := max(sepWidth, 1) * (len(cols) - 1)
	for i := range cols {
		cols[i].Width = max(cols[i].Width, 1)
		used += cols[i].Width
	}
	last := &cols[len(cols)-1]
	last.Width = max(last.Width+avail-used, 1)
	return cols
}

func gridLine(cols []TableColumn, cells []string, sep string, tableWidth int, cellStyle, sepStyle lipgloss.Style) string {
	divider := sepStyle.Inline(true).Render(sep)
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", gridIndent))
	for i, col := range cols {
		if i > 0 {
			b.WriteString(divider)
		}
		text := ""
		if i < len(cells) {
			text = cells[i]
		}
		b.WriteString(cellStyle.Inline(true).Render(alignCell(text, col.Width, col.Align)))
	}
	return padRight(b.String(), tableWidth)
}

func gridRule(cols []TableColumn, cross, horiz string, tableWidth int) string {
	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = strings.Repeat(horiz, col.Width)
	}
	line := strings.Repeat(" ", gridIndent) + strings.Join(parts, cross)
	return gridLineStyle.Inline(true).Render(padRight(line, tableWidth))
}

func alignCell(text string, width int, align lipgloss.Position) string {
	if width <= 0 {
		return ""
	}
	text = ClampTextWidthEllipsis(text, width)
	pad := width - lipgloss.Width(text)
	if pad <= 0 {
		return truncateRunes(text, width)
	}
	switch align {
	case lipgloss.Right:
		return strings.Repeat(" ", pad) + text
	case lipgloss.Center:
		left := pad / 2
		return strings.Repeat(" ", left) + text + strings.Repeat(" ", pad-left)
	}
	return text + strings.Repeat(" ", pad)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
