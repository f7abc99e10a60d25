package snapshot

import (
	"context"
	"math"
	"testing"
	"time"

	"runcoach/internal/analysis"
	"runcoach/internal/sensor"
)

// fakeSource serves canned workouts filtered by the requested range.
type fakeSource struct {
	workouts []sensor.Workout
	samples  map[int64][]analysis.HeartRateSample
}

func (f *fakeSource) FetchWorkouts(ctx context.Context, start, end time.Time) []sensor.Workout {
	var out []sensor.Workout
	for _, w := range f.workouts {
		if !w.StartTime.Before(start) && w.StartTime.Before(end) {
			out = append(out, w)
		}
	}
	return out
}

func (f *fakeSource) FetchHeartRateSamples(ctx context.Context, w sensor.Workout) []analysis.HeartRateSample {
	return f.samples[w.ID]
}

// steadySamples generates evenly spaced samples at a constant bpm.
func steadySamples(start time.Time, bpm float64, minutes int) []analysis.HeartRateSample {
	samples := make([]analysis.HeartRateSample, minutes+1)
	for i := range samples {
		samples[i] = analysis.HeartRateSample{Time: start.Add(time.Duration(i) * time.Minute), BPM: bpm}
	}
	return samples
}

func testSource() *fakeSource {
	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	w1 := sensor.Workout{
		ID: 1, StartTime: monday.Add(7 * time.Hour),
		DurationMin: 40, DistanceKm: 8, ElevationGainM: 50, AverageHR: 135,
	}
	w2 := sensor.Workout{
		ID: 2, StartTime: monday.Add(48*time.Hour + 18*time.Hour),
		DurationMin: 60, DistanceKm: 12, ElevationGainM: 120, AverageHR: 170,
	}
	// w3 has no usable samples
	w3 := sensor.Workout{
		ID: 3, StartTime: monday.Add(96 * time.Hour),
		DurationMin: 30, DistanceKm: 5, ElevationGainM: 10, AverageHR: 0,
	}

	return &fakeSource{
		workouts: []sensor.Workout{w2, w1, w3}, // deliberately unsorted
		samples: map[int64][]analysis.HeartRateSample{
			1: steadySamples(w1.StartTime, 130, 40), // zone 1
			2: steadySamples(w2.StartTime, 180, 60), // zone 5
		},
	}
}

func TestBuild(t *testing.T) {
	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	builder := NewBuilder(testSource(), analysis.DefaultZoneThresholds())

	snap := builder.Build(context.Background(), monday, monday.AddDate(0, 0, 7))

	if snap.Period.Start != "2025-06-02" {
		t.Errorf("Period.Start = %q, want 2025-06-02", snap.Period.Start)
	}
	if snap.Period.End != "2025-06-09" {
		t.Errorf("Period.End = %q, want 2025-06-09", snap.Period.End)
	}

	if snap.Totals.Sessions != 3 {
		t.Errorf("Sessions = %d, want 3", snap.Totals.Sessions)
	}
	if snap.Totals.Sessions != len(snap.DailyRuns) {
		t.Errorf("Sessions (%d) must match len(DailyRuns) (%d)", snap.Totals.Sessions, len(snap.DailyRuns))
	}
	if snap.Totals.DistanceKm != 25 {
		t.Errorf("DistanceKm = %v, want 25", snap.Totals.DistanceKm)
	}
	if snap.Totals.DurationMin != 130 {
		t.Errorf("DurationMin = %v, want 130", snap.Totals.DurationMin)
	}

	// Runs come back sorted by date regardless of fetch order
	for i := 1; i < len(snap.DailyRuns); i++ {
		if snap.DailyRuns[i-1].Date > snap.DailyRuns[i].Date {
			t.Errorf("DailyRuns not sorted: %q after %q", snap.DailyRuns[i-1].Date, snap.DailyRuns[i].Date)
		}
	}

	if snap.LongestRunKm == nil || *snap.LongestRunKm != 12 {
		t.Errorf("LongestRunKm = %v, want 12", snap.LongestRunKm)
	}

	// Mean HR divides over every session, the zero-HR w3 included
	if snap.Totals.AvgHR == nil {
		t.Fatal("AvgHR should be set for a week with runs")
	}
	if want := (135.0 + 170.0 + 0.0) / 3; math.Abs(*snap.Totals.AvgHR-want) > 1e-9 {
		t.Errorf("AvgHR = %v, want %v", *snap.Totals.AvgHR, want)
	}

	// Zone fractions over recorded time must sum to ~1
	var sum float64
	for _, frac := range snap.ZonesPercent {
		sum += frac
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("zone fractions sum to %v, want 1", sum)
	}

	// 40 easy minutes vs 60 hard minutes
	if got := snap.ZonesPercent["z1"]; math.Abs(got-0.4) > 1e-9 {
		t.Errorf("z1 fraction = %v, want 0.4", got)
	}
	if got := snap.ZonesPercent["z5"]; math.Abs(got-0.6) > 1e-9 {
		t.Errorf("z5 fraction = %v, want 0.6", got)
	}

	if snap.TrainingLoad == nil {
		t.Fatal("TrainingLoad should be set for a week with runs")
	}
	// w1: 40 easy = 40; w2: 60 all-hi = 180; w3: no zones = 30
	if math.Abs(snap.TrainingLoad.Load7d-250) > 1e-9 {
		t.Errorf("Load7d = %v, want 250", snap.TrainingLoad.Load7d)
	}
}

func TestBuildEmptyRange(t *testing.T) {
	builder := NewBuilder(testSource(), analysis.DefaultZoneThresholds())
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	snap := builder.Build(context.Background(), start, start.AddDate(0, 0, 7))

	if snap.Totals.Sessions != 0 {
		t.Errorf("Sessions = %d, want 0", snap.Totals.Sessions)
	}
	if snap.Totals.AvgHR != nil {
		t.Error("AvgHR should be nil for an empty range")
	}
	if snap.TrainingLoad != nil {
		t.Error("TrainingLoad should be nil for an empty range")
	}
	if snap.LongestRunKm != nil {
		t.Error("LongestRunKm should be nil for an empty range")
	}
	if snap.ZonesPercent == nil || len(snap.ZonesPercent) != 0 {
		t.Errorf("ZonesPercent = %v, want empty map", snap.ZonesPercent)
	}
	if snap.DailyRuns == nil || len(snap.DailyRuns) != 0 {
		t.Errorf("DailyRuns = %v, want empty slice", snap.DailyRuns)
	}
	if snap.HasRuns() {
		t.Error("HasRuns() should be false")
	}
}

func TestBuildRangesOrdering(t *testing.T) {
	builder := NewBuilder(testSource(), analysis.DefaultZoneThresholds())

	// Ranges passed newest first; result must come back oldest first.
	base := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	var ranges []DateRange
	for i := 0; i < 6; i++ {
		start := base.AddDate(0, 0, -7*i)
		ranges = append(ranges, DateRange{Start: start, End: start.AddDate(0, 0, 7)})
	}

	snaps := builder.BuildRanges(context.Background(), ranges)

	if len(snaps) != 6 {
		t.Fatalf("got %d snapshots, want 6", len(snaps))
	}
	for i := 1; i < len(snaps); i++ {
		if snaps[i-1].Period.Start >= snaps[i].Period.Start {
			t.Errorf("snapshots out of order: %q before %q", snaps[i-1].Period.Start, snaps[i].Period.Start)
		}
	}
}

func TestBuildWeeks(t *testing.T) {
	builder := NewBuilder(testSource(), analysis.DefaultZoneThresholds())
	now := time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC) // Wednesday of the data week

	snaps := builder.BuildWeeks(context.Background(), 4, now)

	if len(snaps) != 4 {
		t.Fatalf("got %d weeks, want 4", len(snaps))
	}

	last := snaps[len(snaps)-1]
	if last.Period.Start != "2025-06-02" {
		t.Errorf("last week starts %q, want 2025-06-02", last.Period.Start)
	}
	if last.WeekLabel != "Week of 2025-06-02" {
		t.Errorf("WeekLabel = %q", last.WeekLabel)
	}
	if !last.HasRuns() {
		t.Error("data week should have runs")
	}
	for _, earlier := range snaps[:3] {
		if earlier.HasRuns() {
			t.Errorf("week %s should be empty", earlier.Period.Start)
		}
	}
}

func TestBuildYear(t *testing.T) {
	builder := NewBuilder(testSource(), analysis.DefaultZoneThresholds())

	snap := builder.BuildYear(context.Background(), 2025)

	if snap.WeekLabel != "Year 2025" {
		t.Errorf("WeekLabel = %q, want %q", snap.WeekLabel, "Year 2025")
	}
	if snap.Totals.Sessions != 3 {
		t.Errorf("Sessions = %d, want 3", snap.Totals.Sessions)
	}
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"monday stays", time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC), "2025-06-02"},
		{"wednesday", time.Date(2025, 6, 4, 9, 30, 0, 0, time.UTC), "2025-06-02"},
		{"sunday maps back", time.Date(2025, 6, 8, 23, 59, 0, 0, time.UTC), "2025-06-02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeekStart(tt.in)
			if got.Format(DateLayout) != tt.want {
				t.Errorf("WeekStart(%v) = %v, want %v", tt.in, got.Format(DateLayout), tt.want)
			}
			if got.Hour() != 0 || got.Minute() != 0 {
				t.Errorf("WeekStart should be midnight, got %v", got)
			}
		})
	}
}
