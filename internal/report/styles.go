package report

import (
	"strings"

	"github.com/Veraticus/agricarbon/internal/cli"
	"github.com/Veraticus/agricarbon/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all styling definitions for result formatting.
type Styles struct {
	// Base styles from CLI package
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Info     lipgloss.Style
	Subtle   lipgloss.Style
	Normal   lipgloss.Style
	Money    lipgloss.Style

	// Result-specific styles
	Box          lipgloss.Style
	SummaryBox   lipgloss.Style
	RevenueBox   lipgloss.Style
	LocationBox  lipgloss.Style
	DisclaimBox  lipgloss.Style
	Label        lipgloss.Style
	TableHeader  lipgloss.Style
	ProgressFill lipgloss.Style
	ProgressRest lipgloss.Style
}

// NewStyles creates a new Styles instance with default styling.
func NewStyles() *Styles {
	s := &Styles{
		Title:    cli.TitleStyle,
		Subtitle: cli.SubtitleStyle,
		Success:  cli.SuccessStyle,
		Warning:  cli.WarningStyle,
		Error:    cli.ErrorStyle,
		Info:     cli.InfoStyle,
		Subtle:   cli.SubtleStyle,
		Normal:   lipgloss.NewStyle(),
		Money:    cli.MoneyStyle,
	}

	s.Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cli.SubtleColor).
		Padding(0, 1)

	s.SummaryBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cli.PrimaryColor).
		Padding(0, 1)

	s.RevenueBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cli.EarthColor).
		Padding(0, 1).
		MarginTop(1)

	s.LocationBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cli.InfoColor).
		Padding(0, 1).
		MarginTop(1)

	s.DisclaimBox = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(cli.WarningColor).
		Padding(0, 1).
		MarginTop(1)

	s.Label = lipgloss.NewStyle().
		Bold(true)

	s.TableHeader = cli.TableHeaderStyle

	s.ProgressFill = lipgloss.NewStyle().
		Foreground(cli.SuccessColor)

	s.ProgressRest = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#333333"))

	return s
}

// WithWidth returns a copy whose boxes fit a terminal of the given width.
func (s *Styles) WithWidth(width int) *Styles {
	newStyles := *s

	if width > 0 && width < 100 {
		newStyles.Box = s.Box.Width(width - 4)
		newStyles.SummaryBox = s.SummaryBox.Width(width - 4)
		newStyles.RevenueBox = s.RevenueBox.Width(width - 4)
		newStyles.LocationBox = s.LocationBox.Width(width - 4)
		newStyles.DisclaimBox = s.DisclaimBox.Width(width - 4)
	}

	return &newStyles
}

// ForConfidence returns the style for a confidence tier.
func (s *Styles) ForConfidence(level model.ConfidenceLevel) lipgloss.Style {
	switch level {
	case model.ConfidenceHigh:
		return s.Success
	case model.ConfidenceMedium:
		return s.Warning
	case model.ConfidenceLow:
		return s.Error
	default:
		return s.Normal
	}
}

// RenderBar draws a bar of width cells with fraction filled.
func (s *Styles) RenderBar(fraction float64, width int) string {
	if width <= 0 {
		width = 30
	}

	filled := int(float64(width) * fraction)
	filled = max(0, min(filled, width))

	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// RenderBox renders content in a styled box with optional title.
func (s *Styles) RenderBox(content string, title string, style lipgloss.Style) string {
	if title != "" {
		titleStyled := s.Info.Bold(true).Render(" " + title + " ")
		return style.Render(titleStyled + "\n" + content)
	}
	return style.Render(content)
}
