package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// HelpModel is the help screen model
type HelpModel struct{}

// NewHelpModel creates a new help model
func NewHelpModel() HelpModel {
	return HelpModel{}
}

// Init initializes the help screen
func (m HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

type keyHelp struct {
	key  string
	desc string
}

// keySections drive the shortcut listing; rendering is uniform per section.
var keySections = []struct {
	title string
	keys  []keyHelp
}{
	{"Navigation", []keyHelp{
		{"1", "Coach chat"},
		{"2", "Weekly stats"},
		{"3", "Sync screen"},
		{"?", "Help (this screen)"},
		{"ctrl+c", "Quit"},
		{"esc", "Back / close help"},
	}},
	{"Coach Chat", []keyHelp{
		{"enter", "Send message"},
		{"esc", "Leave / focus the input"},
		{"i", "Focus the input"},
	}},
	{"Stats", []keyHelp{
		{"r", "Refresh data"},
	}},
	{"Sync Screen", []keyHelp{
		{"s / enter", "Start sync"},
	}},
}

var metricNotes = []keyHelp{
	{"Zones (Z1-Z5)", "Time in heart-rate zones. Z1 is easy, Z5 is maximal."},
	{"Rolling 7d/28d", "Distance over the last 7 and 28 days."},
	{"7d/28d ratio", "Acute vs chronic load. Around 0.25 means a steady week."},
	{"Weekly load", "Duration weighted by time at high intensity."},
}

// View renders the help screen
func (m HelpModel) View() string {
	var b strings.Builder

	b.WriteString(cardTitleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n")

	for _, section := range keySections {
		b.WriteString("\n")
		b.WriteString(successStyle.Bold(true).Render(section.title))
		b.WriteString("\n")
		for _, k := range section.keys {
			b.WriteString("  " + RenderKeyHelp(k.key, k.desc) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(successStyle.Bold(true).Render("Metrics Explained"))
	b.WriteString("\n\n")
	for _, n := range metricNotes {
		b.WriteString("  " + helpKeyStyle.Render(n.key) + "\n")
		b.WriteString("  " + helpDescStyle.Render(n.desc) + "\n\n")
	}

	return b.String()
}
