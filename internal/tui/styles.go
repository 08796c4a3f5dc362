package tui

import "github.com/charmbracelet/lipgloss"

// Semantic color palette.
var (
	colorPrimary = lipgloss.Color("#00BFFF") // cyan, primary accent
	colorAccent  = lipgloss.Color("#FFD700") // gold, best candidate
	colorSuccess = lipgloss.Color("#00E676") // green, delta-v figures
	colorMuted   = lipgloss.Color("#636363") // gray, de-emphasized
	colorWhite   = lipgloss.Color("#EEEEEE") // off-white, primary text
)

// Selection indicator prepended to the active row.
const selectionIndicator = "▸"

var (
	styleTitle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleBest = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	styleDeltaV = lipgloss.NewStyle().
			Foreground(colorSuccess)

	styleRow = lipgloss.NewStyle().
			Foreground(colorWhite)

	styleSelected = lipgloss.NewStyle().
			Foreground(colorWhite).
			Bold(true)

	styleDim = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleDetailHeader = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true).
				Underline(true)
)
