package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	accentColor  = lipgloss.Color("#0EA5E9") // Sky blue
	okColor      = lipgloss.Color("#10B981") // Green
	warningColor = lipgloss.Color("#F59E0B") // Amber
	errorColor   = lipgloss.Color("#EF4444") // Red
	mutedColor   = lipgloss.Color("#6B7280") // Gray
	textColor    = lipgloss.Color("#F9FAFB") // Light gray
)

// App chrome
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor).
			Background(accentColor).
			Padding(0, 1).
			MarginBottom(1)

	navStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginBottom(1)

	navActiveStyle   = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	navInactiveStyle = lipgloss.NewStyle().Foreground(mutedColor)

	statusStyle = lipgloss.NewStyle().Foreground(mutedColor).MarginTop(1)
)

// Content
var (
	cardTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor).
			MarginBottom(1)

	metricLabelStyle = lipgloss.NewStyle().Foreground(mutedColor).Width(20)
	metricValueStyle = lipgloss.NewStyle().Bold(true).Foreground(textColor)

	errorStyle   = lipgloss.NewStyle().Foreground(errorColor)
	successStyle = lipgloss.NewStyle().Foreground(okColor)
	warningStyle = lipgloss.NewStyle().Foreground(warningColor)

	helpKeyStyle  = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	helpDescStyle = lipgloss.NewStyle().Foreground(mutedColor)
)

// Chat
var (
	coachLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(okColor)
	userLabelStyle  = lipgloss.NewStyle().Bold(true).Foreground(accentColor)

	coachTextStyle = lipgloss.NewStyle().Foreground(textColor).PaddingLeft(2)
	userTextStyle  = lipgloss.NewStyle().Foreground(mutedColor).PaddingLeft(2)

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)
)

var (
	barFullStyle  = lipgloss.NewStyle().Foreground(okColor)
	barEmptyStyle = lipgloss.NewStyle().Foreground(mutedColor)
)

// RenderMetric renders a labeled metric line
func RenderMetric(label, value string) string {
	return metricLabelStyle.Render(label) + metricValueStyle.Render(value)
}

// RenderProgressBar renders a bar filled to the given fraction of width cells
func RenderProgressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	switch {
	case filled < 0:
		filled = 0
	case filled > width:
		filled = width
	}
	return barFullStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// RenderKeyHelp renders a key binding help item
func RenderKeyHelp(key, desc string) string {
	return helpKeyStyle.Render(key) + " " + helpDescStyle.Render(desc)
}
