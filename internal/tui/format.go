package tui

import "fmt"

// formatKm formats a distance in kilometers
func formatKm(km float64) string {
	return fmt.Sprintf("%.1f km", km)
}

// formatDuration formats minutes as "Hh MMm" (or "Mm" under an hour)
func formatDuration(minutes float64) string {
	total := int(minutes)
	h := total / 60
	m := total % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", h, m)
}

// formatPace formats min/km pace as "M:SS"
func formatPace(durationMin, km float64) string {
	if km <= 0 || durationMin <= 0 {
		return "-"
	}
	paceSeconds := durationMin * 60 / km
	mins := int(paceSeconds) / 60
	secs := int(paceSeconds) % 60
	return fmt.Sprintf("%d:%02d", mins, secs)
}
