package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestIsQuit(t *testing.T) {
	assert.True(t, isQuit(tea.KeyMsg{Type: tea.KeyCtrlC}))
	assert.True(t, isQuit(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}))
	assert.False(t, isQuit(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}))
}

func TestIsEnter(t *testing.T) {
	assert.True(t, isEnter(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.False(t, isEnter(tea.KeyMsg{Type: tea.KeySpace}))
}

func TestIsSpace(t *testing.T) {
	assert.True(t, isSpace(tea.KeyMsg{Type: tea.KeySpace}))
	assert.False(t, isSpace(tea.KeyMsg{Type: tea.KeyEnter}))
}

func TestIsBack(t *testing.T) {
	assert.True(t, isBack(tea.KeyMsg{Type: tea.KeyEsc}))
	assert.False(t, isBack(tea.KeyMsg{Type: tea.KeyEnter}))
}

func TestIsDown(t *testing.T) {
	assert.True(t, isDown(tea.KeyMsg{Type: tea.KeyDown}))
	assert.False(t, isDown(tea.KeyMsg{Type: tea.KeyUp}))
	assert.False(t, isDown(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}))
}

func TestIsUp(t *testing.T) {
	assert.True(t, isUp(tea.KeyMsg{Type: tea.KeyUp}))
	assert.False(t, isUp(tea.KeyMsg{Type: tea.KeyDown}))
	assert.False(t, isUp(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}}))
}

func TestPageKeys(t *testing.T) {
	assert.True(t, isNextPage(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{']'}}))
	assert.True(t, isNextPage(tea.KeyMsg{Type: tea.KeyPgDown}))
	assert.True(t, isPrevPage(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'['}}))
	assert.True(t, isPrevPage(tea.KeyMsg{Type: tea.KeyPgUp}))
	assert.False(t, isNextPage(tea.KeyMsg{Type: tea.KeyRight}))
}

func TestIsSave(t *testing.T) {
	assert.True(t, isSave(tea.KeyMsg{Type: tea.KeyCtrlS}))
	assert.False(t, isSave(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}}))
}

func TestTypedTextKeepsAccents(t *testing.T) {
	text, ok := typedText(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ç")})
	assert.True(t, ok)
	assert.Equal(t, "ç", text)

	text, ok = typedText(tea.KeyMsg{Type: tea.KeySpace})
	assert.True(t, ok)
	assert.Equal(t, " ", text)

	_, ok = typedText(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, ok)
	_, ok = typedText(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}, Alt: true})
	assert.False(t, ok)
}

func TestDropLastRune(t *testing.T) {
	assert.Equal(t, "feij", dropLastRune("feijã"))
	assert.Equal(t, "", dropLastRune(""))
}

func TestIsKey(t *testing.T) {
	assert.True(t, isKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}}, "s"))
	assert.True(t, isKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}, "a"))
	assert.True(t, isKey(tea.KeyMsg{Type: tea.KeyBackspace}, "backspace"))
	assert.True(t, isKey(tea.KeyMsg{Type: tea.KeyLeft}, "left"))
	assert.True(t, isKey(tea.KeyMsg{Type: tea.KeyRight}, "right"))
	assert.False(t, isKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}}, "a"))
	assert.False(t, isKey(tea.KeyMsg{Type: tea.KeyLeft}, "right"))
}
