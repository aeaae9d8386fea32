package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const hintGap = "   "

var (
	hintDescStyle = lipgloss.NewStyle().Foreground(colorMuted)
	keyCapStyle   = lipgloss.NewStyle().
			Foreground(colorInk).
			Background(colorDim).
			Bold(true).
			Padding(0, 1)
	statusRuleStyle = lipgloss.NewStyle().Foreground(colorBorder)
)

// Hint formats a key binding as a key cap followed by its action.
func Hint(key, desc string) string {
	return keyCapStyle.Render(key) + " " + hintDescStyle.Render(desc)
}

// StatusBar renders hints under a rule, wrapped and centred to width.
// A width of zero keeps every hint on one line.
func StatusBar(hints []string, width int) string {
	if len(hints) == 0 {
		return ""
	}
	if width <= 0 {
		return strings.Join(hints, hintGap)
	}
	rows := packHints(hints, width)
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, statusRuleStyle.Render(strings.Repeat("─", width)))
	for _, row := range rows {
		lines = append(lines, lipgloss.PlaceHorizontal(width, lipgloss.Center, row))
	}
	return strings.Join(lines, "\n")
}

// packHints fills rows greedily. A hint wider than width gets a row of its own.
func packHints(hints []string, width int) []string {
	gap := lipgloss.Width(hintGap)
	var rows []string
	var row []string
	used := 0
	for _, h := range hints {
		w := lipgloss.Width(h)
		if len(row) > 0 && used+gap+w > width {
			rows = append(rows, strings.Join(row, hintGap))
			row, used = nil, 0
		}
		if len(row) > 0 {
			used += gap
		}
		row = append(row, h)
		used += w
	}
	if len(row) > 0 {
		rows = append(rows, strings.Join(row, hintGap))
	}
	return rows
}
