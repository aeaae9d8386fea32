package ui

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gastroflow/gastroflow-cli/internal/ui/components"
)

type fieldKind int

const (
	fieldText fieldKind = iota
	fieldSecret
	fieldChoice
	fieldAction
)

type formField struct {
	label   string
	value   string
	kind    fieldKind
	options []string
	display func(string) string
}

type formAction int

const (
	formNone formAction = iota
	formSubmit
	formCancel
	formActivate
	formLeaveTop
)

// Form is a vertical list of fields edited in place. Action fields open a
// picker owned by the caller and only display a summary.
type Form struct {
	title  string
	fields []formField
	focus  int
	err    string
	saving bool
}

func newForm(title string, fields ...formField) *Form {
	return &Form{title: title, fields: fields}
}

func textField(label string) formField {
	return formField{label: label}
}

func secretField(label string) formField {
	return formField{label: label, kind: fieldSecret}
}

func choiceField(label string, options []string, display func(string) string) formField {
	value := ""
	if len(options) > 0 {
		value = options[0]
	}
	return formField{label: label, kind: fieldChoice, options: options, value: value, display: display}
}

func actionField(label string) formField {
	return formField{label: label, kind: fieldAction}
}

// Value returns the trimmed value of field i.
func (f *Form) Value(i int) string {
	if i < 0 || i >= len(f.fields) {
		return ""
	}
	return strings.TrimSpace(f.fields[i].value)
}

// Raw returns the untrimmed value of field i.
func (f *Form) Raw(i int) string {
	if i < 0 || i >= len(f.fields) {
		return ""
	}
	return f.fields[i].value
}

func (f *Form) Set(i int, value string) {
	if i < 0 || i >= len(f.fields) {
		return
	}
	f.fields[i].value = value
}

func (f *Form) Focus() int { return f.focus }

// HasInput reports whether any text field holds something.
func (f *Form) HasInput() bool {
	for _, field := range f.fields {
		if field.kind == fieldText || field.kind == fieldSecret {
			if strings.TrimSpace(field.value) != "" {
				return true
			}
		}
	}
	return false
}

// Reset clears text fields, rewinds choices and drops the error.
func (f *Form) Reset() {
	for i := range f.fields {
		field := &f.fields[i]
		switch field.kind {
		case fieldChoice:
			field.value = ""
			if len(field.options) > 0 {
				field.value = field.options[0]
			}
		default:
			field.value = ""
		}
	}
	f.focus = 0
	f.err = ""
	f.saving = false
}

// Update applies a key to the focused field.
func (f *Form) Update(msg tea.KeyMsg) formAction {
	if f.saving {
		return formNone
	}
	switch {
	case isSave(msg):
		return formSubmit
	case isBack(msg):
		return formCancel
	case isDown(msg), isKey(msg, "tab"):
		f.focus = (f.focus + 1) % len(f.fields)
		return formNone
	case isUp(msg), isKey(msg, "shift+tab"):
		if f.focus == 0 {
			return formLeaveTop
		}
		f.focus--
		return formNone
	}

	field := &f.fields[f.focus]
	switch field.kind {
	case fieldChoice:
		switch {
		case isKey(msg, "left"):
			field.value = cycleOption(field.options, field.value, -1)
		case isKey(msg, "right"), isSpace(msg):
			field.value = cycleOption(field.options, field.value, 1)
		case isEnter(msg):
			return f.advance()
		}
	case fieldAction:
		if isEnter(msg) || isSpace(msg) {
			return formActivate
		}
	default:
		switch {
		case isEnter(msg):
			return f.advance()
		case isKey(msg, "backspace"):
			field.value = dropLastRune(field.value)
		case isKey(msg, "ctrl+u"):
			field.value = ""
		default:
			if text, ok := typedText(msg); ok {
				field.value += text
			}
		}
	}
	return formNone
}

// advance moves to the next field, submitting from the last one.
func (f *Form) advance() formAction {
	if f.focus == len(f.fields)-1 {
		return formSubmit
	}
	f.focus++
	return formNone
}

func cycleOption(options []string, current string, step int) string {
	if len(options) == 0 {
		return current
	}
	idx := 0
	for i, opt := range options {
		if opt == current {
			idx = i
			break
		}
	}
	idx = (idx + step + len(options)) % len(options)
	return options[idx]
}

// View renders the form inside a titled box.
func (f *Form) View(width int) string {
	if f.saving {
		return components.TitledBox(f.title, MutedStyle.Render("Saving..."), width)
	}
	var b strings.Builder
	for i, field := range f.fields {
		focused := i == f.focus
		if focused {
			b.WriteString(SelectedStyle.Render("> " + field.label + ":"))
		} else {
			b.WriteString(MutedStyle.Render("  " + field.label + ":"))
		}
		b.WriteString("\n")
		b.WriteString(renderFieldValue(field, focused))
		if i < len(f.fields)-1 {
			b.WriteString("\n\n")
		}
	}
	if f.err != "" {
		b.WriteString("\n\n")
		b.WriteString(ErrorStyle.Render(components.SanitizeOneLine(f.err)))
	}
	return components.TitledBox(f.title, b.String(), width)
}

func renderFieldValue(field formField, focused bool) string {
	value := components.SanitizeOneLine(field.value)
	switch field.kind {
	case fieldSecret:
		value = strings.Repeat("•", len([]rune(field.value)))
	case fieldChoice:
		if field.display != nil {
			value = field.display(field.value)
		}
		if focused {
			return NormalStyle.Render("  ‹ " + value + " ›")
		}
		return NormalStyle.Render("  " + value)
	case fieldAction:
		if value == "" {
			value = "none"
		}
		if focused {
			return NormalStyle.Render("  "+value) + MutedStyle.Render("  (enter to pick)")
		}
		return NormalStyle.Render("  " + value)
	}
	if focused {
		return NormalStyle.Render("  "+value) + AccentStyle.Render("█")
	}
	if value == "" {
		value = "-"
	}
	return NormalStyle.Render("  " + value)
}

// parseNumber accepts both "1.5" and "1,5".
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formHints(f *Form) []string {
	hints := []string{
		components.Hint("↑/↓", "Field"),
		components.Hint("ctrl+s", "Save"),
		components.Hint("esc", "Cancel"),
	}
	if f != nil && f.focus < len(f.fields) {
		switch f.fields[f.focus].kind {
		case fieldChoice:
			hints = append(hints, components.Hint("←/→", "Change"))
		case fieldAction:
			hints = append(hints, components.Hint("enter", "Pick"), components.Hint("backspace", "Remove last"))
		}
	}
	return hints
}
