package analysis

import "time"

// SessionLoad derives an intensity-weighted training load for one workout.
// Minutes at high intensity (z4/z5) count roughly twice as much as easy
// minutes: load = duration * (1 + 2 * highIntensityFraction).
func SessionLoad(durationMin float64, zones ZoneMinutes) float64 {
	hiFrac := zones.HighIntensity() / max(durationMin, 1)
	return durationMin * (1 + 2*hiFrac)
}

// RollingLoad holds trailing distance sums used for the current-week display.
type RollingLoad struct {
	Load7d  float64
	Load28d float64
	Ratio   float64
}

// DayStart returns midnight of the calendar day containing t, in t's
// location. Day bucketing follows the athlete's clock, not UTC; a late
// evening run belongs to the local date it was run on.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ComputeRollingLoad sums daily distances over the trailing 7 and 28 days
// (inclusive of today) and returns both sums plus their ratio. The ratio is 0
// when the 28-day sum is 0.
func ComputeRollingLoad(dailyKm map[time.Time]float64, today time.Time) RollingLoad {
	day := DayStart(today)
	last7 := day.AddDate(0, 0, -6)
	last28 := day.AddDate(0, 0, -27)

	var rl RollingLoad
	for date, km := range dailyKm {
		d := DayStart(date)
		if d.After(day) {
			continue
		}
		if !d.Before(last7) {
			rl.Load7d += km
		}
		if !d.Before(last28) {
			rl.Load28d += km
		}
	}

	if rl.Load28d > 0 {
		rl.Ratio = rl.Load7d / rl.Load28d
	}
	return rl
}
