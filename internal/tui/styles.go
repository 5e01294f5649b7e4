package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/habitmap/internal/theme"
)

// Fixed colors shared by both themes.
var (
	colorSuccess = lipgloss.Color("#2ECC71")
	colorWarning = lipgloss.Color("#F39C12")
	colorError   = lipgloss.Color("#E74C3C")
)

// styles is rebuilt from the active palette on every render so a theme
// toggle takes effect immediately.
type styles struct {
	activeTab   lipgloss.Style
	inactiveTab lipgloss.Style
	panel       lipgloss.Style
	activePanel lipgloss.Style

	title    lipgloss.Style
	muted    lipgloss.Style
	accent   lipgloss.Style
	badge    lipgloss.Style
	success  lipgloss.Style
	warning  lipgloss.Style
	errorTxt lipgloss.Style

	header lipgloss.Style
	footer lipgloss.Style

	selectedItem lipgloss.Style
	normalItem   lipgloss.Style
}

func newStyles(p theme.Palette) styles {
	accent := lipgloss.Color(p.Accent)
	muted := lipgloss.Color(p.Muted)
	text := lipgloss.Color(p.Text)
	border := lipgloss.Color(p.Border)

	return styles{
		activeTab: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(accent).
			Padding(0, 2),
		inactiveTab: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 2),

		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		activePanel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),

		title:  lipgloss.NewStyle().Bold(true).Foreground(text),
		muted:  lipgloss.NewStyle().Foreground(muted),
		accent: lipgloss.NewStyle().Foreground(accent),
		badge: lipgloss.NewStyle().
			Foreground(text).
			Background(lipgloss.Color(p.Empty)).
			Padding(0, 1),
		success:  lipgloss.NewStyle().Foreground(colorSuccess),
		warning:  lipgloss.NewStyle().Foreground(colorWarning),
		errorTxt: lipgloss.NewStyle().Foreground(colorError),

		header: lipgloss.NewStyle().Padding(0, 1),
		footer: lipgloss.NewStyle().Foreground(muted).Padding(0, 1),

		selectedItem: lipgloss.NewStyle().Foreground(accent).Bold(true),
		normalItem:   lipgloss.NewStyle().Foreground(text),
	}
}
