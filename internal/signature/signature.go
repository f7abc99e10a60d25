// Package signature reduces a chronological series of weekly snapshots into a
// longitudinal profile of an athlete's training pattern: volume, intensity,
// load, regularity and robustness trends over a multi-month window.
package signature

import (
	"errors"
	"sort"

	"runcoach/internal/analysis"
	"runcoach/internal/snapshot"
)

// MinWeeks is the minimum history needed to build a signature.
const MinWeeks = 8

// minSessionsPerWeek is the session count below which a week is considered
// non-representative and excluded from trend comparisons.
const minSessionsPerWeek = 3

// ErrInsufficientHistory is returned when fewer than MinWeeks snapshots are
// available. Callers degrade to "no signature" rather than failing.
var ErrInsufficientHistory = errors.New("not enough weekly history for a signature")

// PeriodFacet describes the window the signature covers.
type PeriodFacet struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Weeks int    `json:"weeks"`
}

// VolumeFacet summarizes weekly distance.
type VolumeFacet struct {
	WeeklyAvgKm float64 `json:"weekly_avg_km"`
	WeeklyStdKm float64 `json:"weekly_std_km"`
	Trend12wPct float64 `json:"trend_12w_pct"`
}

// DurationFacet summarizes weekly running time.
type DurationFacet struct {
	WeeklyAvgMin float64 `json:"weekly_avg_min"`
	WeeklyStdMin float64 `json:"weekly_std_min"`
}

// FrequencyFacet summarizes weekly session counts.
type FrequencyFacet struct {
	WeeklyAvgSessions float64 `json:"weekly_avg_sessions"`
	WeeklyStdSessions float64 `json:"weekly_std_sessions"`
}

// IntensityFacet summarizes the zone distribution across weeks.
type IntensityFacet struct {
	Z4Z5AvgPct     float64 `json:"z4_z5_avg_pct"`
	Z4Z5Trend12Pct float64 `json:"z4_z5_trend_12w_pct"`
	Z1Z3AvgPct     float64 `json:"z1_z3_avg_pct"`
}

// LoadFacet summarizes weekly training load, including the acute:chronic
// workload ratio over the trailing window.
type LoadFacet struct {
	WeeklyAvgLoad float64 `json:"weekly_avg_load"`
	WeeklyStdLoad float64 `json:"weekly_std_load"`
	AcwrAvg       float64 `json:"acwr_avg"`
	AcwrMax       float64 `json:"acwr_max"`
}

// RegularityFacet measures how consistently the athlete trains.
type RegularityFacet struct {
	WeeksWithRunsPct float64 `json:"weeks_with_runs_pct"`
	LongestBreakDays int     `json:"longest_break_days"`
}

// RobustnessFacet measures streaks and interruptions.
type RobustnessFacet struct {
	InjuryFreeWeeksPct  float64 `json:"injury_free_weeks_pct"`
	MaxConsecutiveWeeks int     `json:"max_consecutive_weeks"`
	BreaksOver7dCount   int     `json:"breaks_over7d_count"`
}

// AdaptationFacet tracks how the load the athlete absorbs is trending.
type AdaptationFacet struct {
	LoadStdTrend12wPct float64 `json:"load_std_trend12w_pct"`
}

// Signature is the nine-facet longitudinal summary attached to a coaching
// session. It is built once and treated as read-only.
type Signature struct {
	Period     PeriodFacet     `json:"period"`
	Volume     VolumeFacet     `json:"volume"`
	Duration   DurationFacet   `json:"duration"`
	Frequency  FrequencyFacet  `json:"frequency"`
	Intensity  IntensityFacet  `json:"intensity"`
	Load       LoadFacet       `json:"load"`
	Regularity RegularityFacet `json:"regularity"`
	Robustness RobustnessFacet `json:"robustness"`
	Adaptation AdaptationFacet `json:"adaptation"`
}

// Build reduces a chronological series of weekly snapshots into a Signature.
// The input is sorted by period start defensively; fewer than MinWeeks
// snapshots returns ErrInsufficientHistory.
func Build(weeks []snapshot.Snapshot) (*Signature, error) {
	if len(weeks) < MinWeeks {
		return nil, ErrInsufficientHistory
	}

	sorted := make([]snapshot.Snapshot, len(weeks))
	copy(sorted, weeks)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Period.Start < sorted[j].Period.Start
	})

	distances := make([]float64, len(sorted))
	durations := make([]float64, len(sorted))
	sessions := make([]float64, len(sorted))
	sessionCounts := make([]int, len(sorted))
	z4z5 := make([]float64, len(sorted))
	z1z3 := make([]float64, len(sorted))

	// loads only covers weeks that actually carry a training load; loadSeries
	// is the full zero-filled series the adaptation trend runs over.
	loads := make([]float64, 0, len(sorted))
	loadSeries := make([]float64, len(sorted))

	for i, w := range sorted {
		distances[i] = w.Totals.DistanceKm
		durations[i] = w.Totals.DurationMin
		sessions[i] = float64(w.Totals.Sessions)
		sessionCounts[i] = w.Totals.Sessions
		z4z5[i] = w.Z4Z5Pct()
		z1z3[i] = w.Z1Z3Pct()
		if w.TrainingLoad != nil {
			loads = append(loads, w.TrainingLoad.Load7d)
			loadSeries[i] = w.TrainingLoad.Load7d
		}
	}

	sig := &Signature{
		Period: PeriodFacet{
			Start: sorted[0].Period.Start,
			End:   sorted[len(sorted)-1].Period.End,
			Weeks: len(sorted),
		},
		Volume: VolumeFacet{
			WeeklyAvgKm: analysis.Mean(distances),
			WeeklyStdKm: analysis.SampleStdDev(distances),
			Trend12wPct: analysis.Trend12wFiltered(distances, sessionCounts, minSessionsPerWeek),
		},
		Duration: DurationFacet{
			WeeklyAvgMin: analysis.Mean(durations),
			WeeklyStdMin: analysis.SampleStdDev(durations),
		},
		Frequency: FrequencyFacet{
			WeeklyAvgSessions: analysis.Mean(sessions),
			WeeklyStdSessions: analysis.SampleStdDev(sessions),
		},
		Intensity: IntensityFacet{
			Z4Z5AvgPct:     analysis.Mean(z4z5),
			Z4Z5Trend12Pct: analysis.Trend12wFiltered(z4z5, sessionCounts, minSessionsPerWeek),
			Z1Z3AvgPct:     analysis.Mean(z1z3),
		},
		Load:       loadFacet(loads),
		Regularity: regularityFacet(sorted),
		Robustness: robustnessFacet(sorted),
		Adaptation: AdaptationFacet{
			LoadStdTrend12wPct: analysis.Trend12wFiltered(loadSeries, sessionCounts, minSessionsPerWeek),
		},
	}
	return sig, nil
}

// loadFacet computes load averages and the ACWR over the trailing window.
// The acute window is the last 4 weeks, the chronic baseline the mean of the
// last 12; each acute point is divided by that single fixed baseline rather
// than a rolling one.
func loadFacet(loads []float64) LoadFacet {
	acute := tail(loads, 4)
	chronic := analysis.Mean(tail(loads, 12))

	ratios := make([]float64, len(acute))
	var maxRatio float64
	for i, l := range acute {
		if chronic > 0 {
			ratios[i] = l / chronic
		}
		if ratios[i] > maxRatio {
			maxRatio = ratios[i]
		}
	}

	return LoadFacet{
		WeeklyAvgLoad: analysis.Mean(loads),
		WeeklyStdLoad: analysis.SampleStdDev(loads),
		AcwrAvg:       analysis.Mean(ratios),
		AcwrMax:       maxRatio,
	}
}

func regularityFacet(weeks []snapshot.Snapshot) RegularityFacet {
	active := 0
	longestBreak := 0
	currentBreak := 0

	for _, w := range weeks {
		if w.HasRuns() {
			active++
			currentBreak = 0
			continue
		}
		currentBreak += 7
		if currentBreak > longestBreak {
			longestBreak = currentBreak
		}
	}

	return RegularityFacet{
		WeeksWithRunsPct: float64(active) / float64(len(weeks)) * 100,
		LongestBreakDays: longestBreak,
	}
}

func robustnessFacet(weeks []snapshot.Snapshot) RobustnessFacet {
	active := 0
	streak := 0
	maxStreak := 0
	breaks := 0

	for _, w := range weeks {
		if w.HasRuns() {
			active++
			streak++
			if streak > maxStreak {
				maxStreak = streak
			}
			continue
		}
		// An active streak ending counts as one break, however long the gap
		// that follows turns out to be.
		if streak >= 1 {
			breaks++
		}
		streak = 0
	}

	return RobustnessFacet{
		InjuryFreeWeeksPct:  float64(active) / float64(len(weeks)) * 100,
		MaxConsecutiveWeeks: maxStreak,
		BreaksOver7dCount:   breaks,
	}
}

// tail returns the last n elements of values, or all of them if fewer.
func tail(values []float64, n int) []float64 {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}
