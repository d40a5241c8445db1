package tui

import "github.com/charmbracelet/lipgloss"

// micro:bit style red LEDs on a dark board.
var (
	ColorLEDOn  = lipgloss.Color("#FF2A2A")
	ColorLEDOff = lipgloss.Color("#3A1010")
	ColorBoard  = lipgloss.Color("#1A1A1A")
	ColorText   = lipgloss.Color("#D0D0D0")
	ColorDim    = lipgloss.Color("#707070")
	ColorAccent = lipgloss.Color("#FFCC00")
	ColorWarn   = lipgloss.Color("#FF6600")
)

var (
	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	StyleLEDOn = lipgloss.NewStyle().
			Foreground(ColorLEDOn).
			Bold(true)

	StyleLEDOff = lipgloss.NewStyle().
			Foreground(ColorLEDOff)

	StyleMatrix = lipgloss.NewStyle().
			Background(ColorBoard).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDim).
			Padding(0, 1)

	StyleStatus = lipgloss.NewStyle().
			Foreground(ColorText)

	StyleWarn = lipgloss.NewStyle().
			Foreground(ColorWarn).
			Bold(true)

	StyleHelp = lipgloss.NewStyle().
			Foreground(ColorDim)

	StyleLog = lipgloss.NewStyle().
			Foreground(ColorDim).
			MarginTop(1)
)

const (
	glyphOn  = "●"
	glyphOff = "·"
)
