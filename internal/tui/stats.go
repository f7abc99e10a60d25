package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"runcoach/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// StatsModel is the weekly stats screen model
type StatsModel struct {
	statsService *service.StatsService
	week         *service.WeekStats
	mileage      []float64
	loading      bool
	err          error
}

// NewStatsModel creates a new stats model
func NewStatsModel(ss *service.StatsService) StatsModel {
	return StatsModel{
		statsService: ss,
		loading:      true,
	}
}

// Init initializes the stats screen
func (m StatsModel) Init() tea.Cmd {
	return m.loadStats
}

type statsLoadedMsg struct {
	week    *service.WeekStats
	mileage []float64
	err     error
}

func (m StatsModel) loadStats() tea.Msg {
	ctx := context.Background()
	now := time.Now()

	week, err := m.statsService.CurrentWeek(ctx, now)
	if err != nil {
		return statsLoadedMsg{err: err}
	}
	mileage := m.statsService.WeeklyMileage(ctx, service.ChartWeeks, now)
	return statsLoadedMsg{week: week, mileage: mileage}
}

// Update handles messages
func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.week = msg.week
		m.mileage = msg.mileage

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadStats
		}
	}
	return m, nil
}

// View renders the stats screen
func (m StatsModel) View() string {
	if m.loading {
		return "\n  Loading stats..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if m.week == nil {
		return "\n  No data available. Press '3' to sync."
	}

	sections := []string{
		m.renderCurrentWeek(),
		m.renderZones(),
		m.renderLoad(),
		m.renderMileageChart(),
		statusStyle.Render("  [r] Refresh"),
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m StatsModel) renderCurrentWeek() string {
	snap := m.week.Snapshot

	var lines []string
	lines = append(lines, cardTitleStyle.Render("This Week"))
	lines = append(lines, RenderMetric("Distance", formatKm(snap.Totals.DistanceKm)))
	lines = append(lines, RenderMetric("Sessions", fmt.Sprintf("%d", snap.Totals.Sessions)))
	lines = append(lines, RenderMetric("Duration", formatDuration(snap.Totals.DurationMin)))
	lines = append(lines, RenderMetric("Avg pace", formatPace(snap.Totals.DurationMin, snap.Totals.DistanceKm)+" /km"))
	if snap.Totals.AvgHR != nil {
		lines = append(lines, RenderMetric("Avg HR", fmt.Sprintf("%.0f bpm", *snap.Totals.AvgHR)))
	}
	if snap.LongestRunKm != nil {
		lines = append(lines, RenderMetric("Longest run", formatKm(*snap.LongestRunKm)))
	}

	return strings.Join(lines, "\n")
}

func (m StatsModel) renderZones() string {
	snap := m.week.Snapshot
	if len(snap.ZonesPercent) == 0 {
		return ""
	}

	var lines []string
	lines = append(lines, "")
	lines = append(lines, cardTitleStyle.Render("Time in Zone"))

	for i := 1; i <= 5; i++ {
		key := fmt.Sprintf("z%d", i)
		frac := snap.ZonesPercent[key]
		bar := RenderProgressBar(frac, 30)
		lines = append(lines, fmt.Sprintf("  Z%d %s %5.1f%%", i, bar, frac*100))
	}

	return strings.Join(lines, "\n")
}

func (m StatsModel) renderLoad() string {
	load := m.week.Load

	var lines []string
	lines = append(lines, "")
	lines = append(lines, cardTitleStyle.Render("Rolling Load"))
	lines = append(lines, RenderMetric("Last 7 days", formatKm(load.Load7d)))
	lines = append(lines, RenderMetric("Last 28 days", formatKm(load.Load28d)))
	lines = append(lines, RenderMetric("7d/28d ratio", fmt.Sprintf("%.2f", load.Ratio)))

	return strings.Join(lines, "\n")
}

func (m StatsModel) renderMileageChart() string {
	if len(m.mileage) == 0 {
		return ""
	}

	graph := asciigraph.Plot(m.mileage,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Precision(1),
	)

	var lines []string
	lines = append(lines, "")
	lines = append(lines, cardTitleStyle.Render(fmt.Sprintf("Weekly Mileage (last %d weeks)", len(m.mileage))))
	lines = append(lines, graph)

	return strings.Join(lines, "\n")
}
