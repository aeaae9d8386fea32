package ui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/gastroflow/gastroflow-cli/internal/api"
	"github.com/gastroflow/gastroflow-cli/internal/listing"
	"github.com/gastroflow/gastroflow-cli/internal/logging"
)

// --- Shared tab helpers ---

// renderModeLine draws the "List Add ..." selector at the top of a tab.
func renderModeLine(modes []string, active int, focused bool) string {
	segments := make([]string, 0, len(modes))
	for i, mode := range modes {
		if i == active {
			segments = append(segments, TabActiveStyle.Render(mode))
		} else {
			segments = append(segments, TabInactiveStyle.Render(mode))
		}
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, segments...)
	if focused {
		return SelectedStyle.Render("› ") + line
	}
	return line
}

func toListingPage[T any](page *api.Page[T]) listing.Page[T] {
	if page == nil {
		return listing.Page[T]{}
	}
	return listing.Page[T]{Items: page.Items, TotalPages: page.TotalPages, Total: page.Total}
}

func loggerFor(client *api.Client) *slog.Logger {
	if client == nil || client.Session() == nil {
		return logging.Discard()
	}
	return client.Session().Logger()
}

func formatQty(qty float64, unit string) string {
	text := humanize.Commaf(qty)
	if unit == "" {
		return text
	}
	return text + " " + unit
}

func formatMoney(v float64) string {
	return "R$ " + humanize.CommafWithDigits(v, 2)
}

// relativeDate renders a YYYY-MM-DD date as "3 days ago" style text.
func relativeDate(date string, now time.Time) string {
	t, err := time.ParseInLocation(time.DateOnly, api.DatePart(date), time.Local)
	if err != nil {
		return "-"
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if t.Equal(today) {
		return "today"
	}
	return humanize.RelTime(t, today, "ago", "from now")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func idLabel(id int64) string {
	return fmt.Sprintf("#%d", id)
}
