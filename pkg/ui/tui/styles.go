package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	neonCyan    = lipgloss.Color("#00FFFF")
	neonMagenta = lipgloss.Color("#FF00FF")
	neonPink    = lipgloss.Color("#FF10F0")
	neonGreen   = lipgloss.Color("#39FF14")
	neonYellow  = lipgloss.Color("#FFFF00")
	neonOrange  = lipgloss.Color("#FF6700")
	alertRed    = lipgloss.Color("#FF3B30")
	darkBg      = lipgloss.Color("#0A0E27")
	darkBg2     = lipgloss.Color("#1A1E37")
	dimWhite    = lipgloss.Color("#B0B0B0")
	faintGray   = lipgloss.Color("#626262")

	logoStyle = lipgloss.NewStyle().
			Foreground(neonPink).
			Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(neonMagenta).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Background(neonMagenta).
			Foreground(darkBg).
			Bold(true).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(neonCyan).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(neonYellow)

	dimStyle = lipgloss.NewStyle().
			Foreground(dimWhite)

	errorStyle = lipgloss.NewStyle().
			Foreground(alertRed).
			Bold(true)

	verifiedStyle = lipgloss.NewStyle().
			Foreground(neonCyan)

	// Tabs
	tabStyle = lipgloss.NewStyle().
			Foreground(dimWhite).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(darkBg).
			Background(neonCyan).
			Bold(true).
			Padding(0, 1)

	// Lists
	itemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(neonGreen).
				Bold(true).
				PaddingLeft(2)

	toastStyle = lipgloss.NewStyle().
			Foreground(alertRed).
			Background(darkBg2).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(neonOrange).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(faintGray).
			PaddingTop(1)
)

// GlowText renders text bold in color
func GlowText(text string, color lipgloss.Color) string {
	return lipgloss.NewStyle().
		Foreground(color).
		Bold(true).
		Render(text)
}
