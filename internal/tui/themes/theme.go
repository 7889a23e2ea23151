// Package themes defines the color schemes used by the terminal views.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	StatusPending lipgloss.Style
	StatusActive  lipgloss.Style
	StatusError   lipgloss.Style
	StatusSuccess lipgloss.Style
	Title         lipgloss.Style
	Normal        lipgloss.Style
	Help          lipgloss.Style
	RoundedBox    lipgloss.Style
	Primary       lipgloss.Color
}

// Default is the default theme.
var Default = Theme{
	Primary: lipgloss.Color("#3FA34D"),

	// Text styles
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#3FA34D")).
		MarginBottom(1),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fafafa")),
	Help: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")).
		MarginTop(1),

	// Component styles
	RoundedBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		Padding(0, 2),

	// Status styles
	StatusSuccess: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10b981")).
		Bold(true),
	StatusActive: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#3FA34D")).
		Bold(true),
	StatusError: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ef4444")).
		Bold(true),
	StatusPending: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")).
		Italic(true),
}

// Plain renders without color, for logs and screenshots.
var Plain = Theme{
	Title:         lipgloss.NewStyle().Bold(true).MarginBottom(1),
	Normal:        lipgloss.NewStyle(),
	Help:          lipgloss.NewStyle().MarginTop(1),
	RoundedBox:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2),
	StatusSuccess: lipgloss.NewStyle(),
	StatusActive:  lipgloss.NewStyle(),
	StatusError:   lipgloss.NewStyle(),
	StatusPending: lipgloss.NewStyle(),
}
