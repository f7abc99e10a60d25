package snapshot

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"runcoach/internal/analysis"
	"runcoach/internal/sensor"
)

// DataSource supplies workout records and their raw heart-rate samples for a
// date range. Implementations follow the empty-on-failure policy: a fetch
// that fails yields an empty slice, never an error, so snapshot building
// degrades to a zeroed snapshot instead of aborting.
type DataSource interface {
	FetchWorkouts(ctx context.Context, start, end time.Time) []sensor.Workout
	FetchHeartRateSamples(ctx context.Context, workout sensor.Workout) []analysis.HeartRateSample
}

// DateRange is a half-open [Start, End) time interval.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Builder builds period snapshots from a sensor data source.
type Builder struct {
	source     DataSource
	thresholds analysis.ZoneThresholds
}

// NewBuilder creates a Builder using the given zone thresholds.
func NewBuilder(source DataSource, thresholds analysis.ZoneThresholds) *Builder {
	return &Builder{source: source, thresholds: thresholds}
}

// Build aggregates all workouts in [start, end) into one snapshot.
//
// Zone breakdowns are computed per workout in parallel; each goroutine writes
// only its own slot of the result slice, so the join needs no locking. A
// workout with fewer than two heart-rate samples contributes zero-minute
// zones. A range without workouts yields a zeroed snapshot with nil AvgHR,
// empty ZonesPercent and nil TrainingLoad; that is a valid result, not an
// error.
func (b *Builder) Build(ctx context.Context, start, end time.Time) Snapshot {
	workouts := b.source.FetchWorkouts(ctx, start, end)
	if len(workouts) == 0 {
		return emptySnapshot(start, end)
	}

	runs := make([]DailyRun, len(workouts))
	var wg sync.WaitGroup
	for i, w := range workouts {
		wg.Add(1)
		go func(i int, w sensor.Workout) {
			defer wg.Done()
			runs[i] = b.enrich(ctx, w)
		}(i, w)
	}
	wg.Wait()

	return reduce(start, end, runs)
}

// enrich computes the zone breakdown for one workout and denormalizes it.
func (b *Builder) enrich(ctx context.Context, w sensor.Workout) DailyRun {
	samples := b.source.FetchHeartRateSamples(ctx, w)

	zones, err := analysis.ComputeZoneMinutes(samples, b.thresholds)
	if err != nil && !errors.Is(err, analysis.ErrInsufficientSamples) {
		log.Printf("zone breakdown for workout %d: %v", w.ID, err)
	}
	// On ErrInsufficientSamples zones stays all-zero, which is the documented
	// substitute for a missing breakdown.

	return DailyRun{
		Date:        w.StartTime.Format(time.RFC3339),
		DistanceKm:  w.DistanceKm,
		DurationMin: w.DurationMin,
		ElevationM:  w.ElevationGainM,
		AvgHR:       w.AverageHR,
		Z1:          zones[0],
		Z2:          zones[1],
		Z3:          zones[2],
		Z4:          zones[3],
		Z5:          zones[4],
	}
}

// reduce collapses enriched runs into snapshot totals.
func reduce(start, end time.Time, runs []DailyRun) Snapshot {
	sort.Slice(runs, func(i, j int) bool { return runs[i].Date < runs[j].Date })

	var totals Totals
	var zoneSum analysis.ZoneMinutes
	var hrSum float64
	var longest float64
	var load float64

	for _, r := range runs {
		totals.DistanceKm += r.DistanceKm
		totals.DurationMin += r.DurationMin
		totals.ElevationM += r.ElevationM
		hrSum += r.AvgHR

		zones := r.ZoneMinutes()
		for z := range zoneSum {
			zoneSum[z] += zones[z]
		}

		load += analysis.SessionLoad(r.DurationMin, zones)

		if r.DistanceKm > longest {
			longest = r.DistanceKm
		}
	}

	totals.Sessions = len(runs)
	// Sessions without a heart-rate reading still count in the divisor.
	// Consumers of the payload expect the mean over every run in the period.
	avgHR := hrSum / float64(len(runs))
	totals.AvgHR = &avgHR

	return Snapshot{
		WeekLabel:    "Custom period",
		Period:       NewPeriod(start, end),
		Totals:       totals,
		ZonesPercent: zonesPercent(zoneSum),
		DailyRuns:    runs,
		TrainingLoad: &TrainingLoad{Load7d: load},
		LongestRunKm: &longest,
	}
}

func emptySnapshot(start, end time.Time) Snapshot {
	return Snapshot{
		WeekLabel:    "Custom period",
		Period:       NewPeriod(start, end),
		ZonesPercent: map[string]float64{},
		DailyRuns:    []DailyRun{},
	}
}

// BuildRanges builds one snapshot per range concurrently and returns them
// sorted ascending by period start. Branches complete in arbitrary order;
// the sort after the join is the ordering contract downstream trend math
// depends on, so it happens here explicitly rather than by timing.
func (b *Builder) BuildRanges(ctx context.Context, ranges []DateRange) []Snapshot {
	snapshots := make([]Snapshot, len(ranges))

	var wg sync.WaitGroup
	for i, r := range ranges {
		wg.Add(1)
		go func(i int, r DateRange) {
			defer wg.Done()
			snapshots[i] = b.Build(ctx, r.Start, r.End)
		}(i, r)
	}
	wg.Wait()

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Period.Start < snapshots[j].Period.Start
	})
	return snapshots
}

// BuildWeeks builds snapshots for the trailing n calendar weeks, oldest
// first, the current (possibly incomplete) week included.
func (b *Builder) BuildWeeks(ctx context.Context, n int, now time.Time) []Snapshot {
	current := WeekStart(now)

	ranges := make([]DateRange, 0, n)
	for offset := n - 1; offset >= 0; offset-- {
		start := current.AddDate(0, 0, -7*offset)
		ranges = append(ranges, DateRange{Start: start, End: start.AddDate(0, 0, 7)})
	}

	snapshots := b.BuildRanges(ctx, ranges)
	for i := range snapshots {
		snapshots[i].WeekLabel = "Week of " + snapshots[i].Period.Start
	}
	return snapshots
}

// BuildYear builds a single snapshot covering one calendar year.
func (b *Builder) BuildYear(ctx context.Context, year int) Snapshot {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(1, 0, 0)

	snap := b.Build(ctx, start, end)
	snap.WeekLabel = "Year " + snap.Period.Start[:4]
	return snap
}

// WeekStart returns the Monday 00:00 of the week containing t.
func WeekStart(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the week that started the previous Monday
	}
	return t.AddDate(0, 0, -(weekday - 1))
}
