package snapshot

import (
	"time"

	"runcoach/internal/analysis"
)

// DateLayout is the wire format for period boundary dates.
const DateLayout = "2006-01-02"

// Period is a date range in wire format. Start and End are yyyy-MM-dd strings,
// which compare chronologically as plain strings.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// NewPeriod formats a time range as a wire period.
func NewPeriod(start, end time.Time) Period {
	return Period{
		Start: start.Format(DateLayout),
		End:   end.Format(DateLayout),
	}
}

// Totals aggregates the workouts of one period.
// AvgHR is the mean of per-workout average HR over all sessions, zero-HR
// sessions included; it is nil only when the period has no sessions.
type Totals struct {
	DistanceKm  float64  `json:"distance_km"`
	DurationMin float64  `json:"duration_min"`
	Sessions    int      `json:"sessions"`
	ElevationM  float64  `json:"elevation_m"`
	AvgHR       *float64 `json:"avg_hr,omitempty"`
}

// TrainingLoad carries the intensity-weighted load for a snapshot.
// Load28d and Ratio are only meaningful for the rolling current-week
// computation and stay 0 on period snapshots.
type TrainingLoad struct {
	Load7d  float64 `json:"load_7d"`
	Load28d float64 `json:"load_28d"`
	Ratio   float64 `json:"ratio"`
}

// DailyRun is one workout denormalized into a snapshot, zone minutes included.
type DailyRun struct {
	Date        string  `json:"date"` // RFC 3339
	DistanceKm  float64 `json:"distance_km"`
	DurationMin float64 `json:"duration_min"`
	ElevationM  float64 `json:"elevation_m"`
	AvgHR       float64 `json:"avg_hr"`
	Z1          float64 `json:"z1"`
	Z2          float64 `json:"z2"`
	Z3          float64 `json:"z3"`
	Z4          float64 `json:"z4"`
	Z5          float64 `json:"z5"`
}

// ZoneMinutes returns the run's zone minutes as a fixed array.
func (r DailyRun) ZoneMinutes() analysis.ZoneMinutes {
	return analysis.ZoneMinutes{r.Z1, r.Z2, r.Z3, r.Z4, r.Z5}
}

// Snapshot is the aggregate view of one calendar period. It is immutable once
// built: one instance per disjoint period, never updated in place.
type Snapshot struct {
	WeekLabel    string             `json:"week_label"`
	Period       Period             `json:"period"`
	Totals       Totals             `json:"totals"`
	ZonesPercent map[string]float64 `json:"zones_percent"`
	DailyRuns    []DailyRun         `json:"daily_runs"`
	TrainingLoad *TrainingLoad      `json:"training_load,omitempty"`
	LongestRunKm *float64           `json:"longest_run_km,omitempty"`
}

// zoneKeys are the wire keys of ZonesPercent, indexed by zone.
var zoneKeys = [analysis.NumZones]string{"z1", "z2", "z3", "z4", "z5"}

// zonesPercent normalizes total zone minutes into per-zone fractions summing
// to 1. An empty map is returned when no zone time exists at all; the map is
// never partially populated.
func zonesPercent(total analysis.ZoneMinutes) map[string]float64 {
	sum := total.Total()
	if sum <= 0 {
		return map[string]float64{}
	}

	percent := make(map[string]float64, analysis.NumZones)
	for i, key := range zoneKeys {
		percent[key] = total[i] / sum
	}
	return percent
}

// Z4Z5Pct returns the fraction of time spent at high intensity.
func (s Snapshot) Z4Z5Pct() float64 {
	return s.ZonesPercent["z4"] + s.ZonesPercent["z5"]
}

// Z1Z3Pct returns the low-intensity fraction (zones 1 and 3).
func (s Snapshot) Z1Z3Pct() float64 {
	return s.ZonesPercent["z1"] + s.ZonesPercent["z3"]
}

// HasRuns reports whether the period contains at least one session.
func (s Snapshot) HasRuns() bool {
	return s.Totals.Sessions > 0
}
