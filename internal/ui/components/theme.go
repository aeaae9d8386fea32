package components

import "github.com/charmbracelet/lipgloss"

// Kitchen palette shared with the ui package styles.
var (
	colorPaprika = lipgloss.Color("#c0622f")
	colorHerb    = lipgloss.Color("#5f8a5b")
	colorSaffron = lipgloss.Color("#e0a84f")
	colorInk     = lipgloss.Color("#16161d")
	colorRow     = lipgloss.Color("#1f2530")
	colorBorder  = lipgloss.Color("#273540")
	colorText    = lipgloss.Color("#d7d9da")
	colorMuted   = lipgloss.Color("#9ba0bf")
	colorDim     = lipgloss.Color("#888ba4")
	colorError   = lipgloss.Color("#e06c75")
	colorErrBody = lipgloss.Color("#d6b5b5")
	colorErrEdge = lipgloss.Color("#7a2f3a")
	colorRemoved = lipgloss.Color("#d1606b")
	colorAlert   = lipgloss.Color("#ff4d6d")
)
