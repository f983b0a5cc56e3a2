package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme contains the visual styles of the menus and the leaderboard.
type Theme struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	ItemNormal  lipgloss.Style
	ItemActive  lipgloss.Style
	ItemLocked  lipgloss.Style
	Description lipgloss.Style
	Stars       lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	Panel       lipgloss.Style
	Help        lipgloss.Style
	Warning     lipgloss.Style

	// Progress bar gradient
	BarFrom, BarTo string
}

// DefaultTheme returns the default visual theme.
func DefaultTheme() Theme {
	return Theme{
		Title:       lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		Subtitle:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		ItemNormal:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		ItemActive:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		ItemLocked:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Description: lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
		Stars:       lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		TabActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 1),
		TabInactive: lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
		Help:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		BarFrom: "#5A56E0",
		BarTo:   "#EE6FF8",
	}
}

// MonochromeTheme returns a grayscale theme for terminals without color.
func MonochromeTheme() Theme {
	theme := DefaultTheme()
	theme.Title = lipgloss.NewStyle().Bold(true)
	theme.ItemActive = lipgloss.NewStyle().Bold(true).Underline(true)
	theme.Stars = lipgloss.NewStyle()
	theme.TabActive = lipgloss.NewStyle().Bold(true).Reverse(true).Padding(0, 1)
	theme.BarFrom, theme.BarTo = "#FFFFFF", "#808080"
	return theme
}
