package tui

import "github.com/charmbracelet/lipgloss/v2"

// Style definitions for the UI.
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	markerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	seenMarkerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	feedStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			PaddingLeft(1)

	eventStyles = map[string]lipgloss.Style{
		"spy.added":     lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		"spy.removed":   lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		"spy.spied":     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		"spy.refreshed": lipgloss.NewStyle().Foreground(lipgloss.Color("141")),
	}
)
