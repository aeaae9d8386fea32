package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeOneLineStripsOscAndNewlines(t *testing.T) {
	input := "\x1b]8;;https://evil\x07click\x1b]8;;\x07\nline\tmore"
	out := SanitizeOneLine(input)

	assert.False(t, strings.Contains(out, "\x1b"))
	assert.False(t, strings.Contains(out, "\n"))
	assert.False(t, strings.Contains(out, "\t"))
	assert.Equal(t, "click line more", out)
}

func TestSanitizeTextRemovesBidiControls(t *testing.T) {
	input := "safe‮exe.txt"
	out := SanitizeText(input)

	assert.NotContains(t, out, "‮")
}

func TestSanitizeTextStripsColors(t *testing.T) {
	assert.Equal(t, "red", SanitizeText("\x1b[31mred\x1b[0m"))
}

func TestClampTextWidthEllipsis(t *testing.T) {
	assert.Equal(t, "Farinha", ClampTextWidthEllipsis("Farinha", 10))
	assert.Equal(t, "Farin…", ClampTextWidthEllipsis("Farinha de trigo", 6))
	assert.Equal(t, "…", ClampTextWidthEllipsis("Farinha", 1))
	assert.Equal(t, "Farinha", ClampTextWidthEllipsis("Farinha", 0))
}
