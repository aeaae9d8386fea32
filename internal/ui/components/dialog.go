package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const dialogWidth = 44

var (
	dialogFrame = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2).
			Width(dialogWidth)
	dialogTitleStyle = lipgloss.NewStyle().Foreground(colorPaprika).Bold(true)
	dialogBodyStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	dialogFieldStyle = lipgloss.NewStyle().Foreground(colorHerb)
	dialogErrStyle   = lipgloss.NewStyle().Foreground(colorError)
)

// Answer is a key a dialog accepts, shown under its content.
type Answer struct {
	Key   string
	Label string
}

var (
	confirmAnswers = []Answer{{"y", "confirm"}, {"n", "cancel"}}
	inputAnswers   = []Answer{{"enter", "submit"}, {"esc", "cancel"}}
)

// Dialog is a framed prompt. Field is shown as an editable line when
// Editing is set.
type Dialog struct {
	Title   string
	Message string
	Field   string
	Editing bool
	Err     string
	Answers []Answer
}

// Render draws the dialog at its fixed width.
func (d Dialog) Render() string {
	parts := []string{dialogTitleStyle.Render(SanitizeOneLine(d.Title))}
	if d.Message != "" {
		parts = append(parts, dialogBodyStyle.Render(SanitizeText(d.Message)))
	}
	if d.Editing {
		parts = append(parts, dialogFieldStyle.Render("> "+SanitizeOneLine(d.Field)+"█"))
	}
	content := strings.Join(parts, "\n\n")
	if d.Err != "" {
		content += "\n" + dialogErrStyle.Render(SanitizeOneLine(d.Err))
	}
	if line := answerLine(d.Answers); line != "" {
		content += "\n\n" + line
	}
	return dialogFrame.Render(content)
}

func answerLine(answers []Answer) string {
	items := make([]string, len(answers))
	for i, a := range answers {
		items[i] = a.Key + ": " + a.Label
	}
	return dialogBodyStyle.Render(strings.Join(items, " | "))
}

// ConfirmDialog renders a yes/no confirmation.
func ConfirmDialog(title, message string) string {
	return Dialog{Title: title, Message: message, Answers: confirmAnswers}.Render()
}

// InputDialog renders a one-line prompt with its validation error, if any.
func InputDialog(title, input, errText string) string {
	return Dialog{Title: title, Field: input, Editing: true, Err: errText, Answers: inputAnswers}.Render()
}

// ConfirmRecordDialog asks to confirm an action on the record described by rows.
func ConfirmRecordDialog(title string, rows []TableRow, width int) string {
	sections := make([]string, 0, 2)
	if len(rows) > 0 {
		sections = append(sections, Table("Record", rows, width))
	}
	sections = append(sections, answerLine(confirmAnswers))
	return TitledBox(title, strings.Join(sections, "\n\n"), width)
}
