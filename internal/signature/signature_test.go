package signature

import (
	"math"
	"testing"
	"time"

	"runcoach/internal/snapshot"
)

// week fabricates a weekly snapshot n weeks after the base Monday.
func week(n int, km float64, sessionCount int) snapshot.Snapshot {
	base := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC) // a Monday
	start := base.AddDate(0, 0, 7*n)

	snap := snapshot.Snapshot{
		Period: snapshot.NewPeriod(start, start.AddDate(0, 0, 7)),
		Totals: snapshot.Totals{
			DistanceKm:  km,
			DurationMin: km * 6,
			Sessions:    sessionCount,
		},
	}
	if sessionCount > 0 {
		snap.TrainingLoad = &snapshot.TrainingLoad{Load7d: km * 6}
		snap.ZonesPercent = map[string]float64{
			"z1": 0.4, "z2": 0.3, "z3": 0.2, "z4": 0.07, "z5": 0.03,
		}
	}
	return snap
}

func weeksFromPattern(kms []float64, sessionCounts []int) []snapshot.Snapshot {
	weeks := make([]snapshot.Snapshot, len(kms))
	for i := range kms {
		weeks[i] = week(i, kms[i], sessionCounts[i])
	}
	return weeks
}

func TestBuildRequiresHistory(t *testing.T) {
	var weeks []snapshot.Snapshot
	for i := 0; i < MinWeeks-1; i++ {
		weeks = append(weeks, week(i, 30, 3))
	}

	if _, err := Build(weeks); err != ErrInsufficientHistory {
		t.Errorf("Build with %d weeks: err = %v, want ErrInsufficientHistory", len(weeks), err)
	}

	weeks = append(weeks, week(MinWeeks-1, 30, 3))
	if _, err := Build(weeks); err != nil {
		t.Errorf("Build with %d weeks: unexpected error %v", len(weeks), err)
	}
}

func TestBuildBasicFacets(t *testing.T) {
	kms := []float64{20, 22, 0, 25, 30, 28, 24, 26}
	counts := []int{3, 4, 0, 4, 5, 4, 3, 4}
	weeks := weeksFromPattern(kms, counts)

	sig, err := Build(weeks)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if sig.Period.Weeks != 8 {
		t.Errorf("Period.Weeks = %d, want 8", sig.Period.Weeks)
	}
	if sig.Period.Start != "2025-01-06" {
		t.Errorf("Period.Start = %q, want 2025-01-06", sig.Period.Start)
	}

	wantAvg := (20.0 + 22 + 0 + 25 + 30 + 28 + 24 + 26) / 8
	if math.Abs(sig.Volume.WeeklyAvgKm-wantAvg) > 1e-9 {
		t.Errorf("WeeklyAvgKm = %v, want %v", sig.Volume.WeeklyAvgKm, wantAvg)
	}

	// 7 of 8 weeks have runs
	if math.Abs(sig.Regularity.WeeksWithRunsPct-87.5) > 1e-9 {
		t.Errorf("WeeksWithRunsPct = %v, want 87.5", sig.Regularity.WeeksWithRunsPct)
	}
	if sig.Regularity.LongestBreakDays != 7 {
		t.Errorf("LongestBreakDays = %v, want 7", sig.Regularity.LongestBreakDays)
	}

	if sig.Robustness.MaxConsecutiveWeeks != 5 {
		t.Errorf("MaxConsecutiveWeeks = %v, want 5", sig.Robustness.MaxConsecutiveWeeks)
	}
	if sig.Robustness.BreaksOver7dCount != 1 {
		t.Errorf("BreaksOver7dCount = %v, want 1", sig.Robustness.BreaksOver7dCount)
	}
}

func TestBuildSortsInput(t *testing.T) {
	kms := []float64{20, 22, 24, 25, 30, 28, 24, 26}
	counts := []int{3, 4, 3, 4, 5, 4, 3, 4}
	weeks := weeksFromPattern(kms, counts)

	// Shuffle deterministically
	shuffled := []snapshot.Snapshot{weeks[5], weeks[0], weeks[7], weeks[2], weeks[4], weeks[1], weeks[6], weeks[3]}

	a, err := Build(weeks)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	b, err := Build(shuffled)
	if err != nil {
		t.Fatalf("Build shuffled: %v", err)
	}

	if *a != *b {
		t.Errorf("signature differs for shuffled input:\n%+v\n%+v", a, b)
	}
}

func TestAcwrConstantLoad(t *testing.T) {
	// Constant 10km weeks: every acute point equals the chronic baseline.
	kms := make([]float64, 16)
	counts := make([]int, 16)
	for i := range kms {
		kms[i] = 10
		counts[i] = 3
	}

	sig, err := Build(weeksFromPattern(kms, counts))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if math.Abs(sig.Load.AcwrAvg-1) > 1e-9 {
		t.Errorf("AcwrAvg = %v, want 1.0", sig.Load.AcwrAvg)
	}
	if math.Abs(sig.Load.AcwrMax-1) > 1e-9 {
		t.Errorf("AcwrMax = %v, want 1.0", sig.Load.AcwrMax)
	}
}

func TestAcwrSkipsWeeksWithoutLoad(t *testing.T) {
	// Empty weeks carry no training load and must not dilute the baseline.
	kms := []float64{10, 10, 0, 10, 10, 0, 10, 10, 10, 10}
	counts := []int{3, 3, 0, 3, 3, 0, 3, 3, 3, 3}

	sig, err := Build(weeksFromPattern(kms, counts))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// All loaded weeks are identical, so ratios stay exactly 1.
	if math.Abs(sig.Load.AcwrAvg-1) > 1e-9 {
		t.Errorf("AcwrAvg = %v, want 1.0", sig.Load.AcwrAvg)
	}
}

func TestLongestBreakAccumulates(t *testing.T) {
	// Active, three empty weeks, active, two empty, active, active.
	kms := []float64{20, 0, 0, 0, 20, 0, 0, 20}
	counts := []int{3, 0, 0, 0, 3, 0, 0, 3}

	sig, err := Build(weeksFromPattern(kms, counts))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if sig.Regularity.LongestBreakDays != 21 {
		t.Errorf("LongestBreakDays = %v, want 21", sig.Regularity.LongestBreakDays)
	}
	if sig.Robustness.BreaksOver7dCount != 2 {
		t.Errorf("BreaksOver7dCount = %v, want 2", sig.Robustness.BreaksOver7dCount)
	}
	if math.Abs(sig.Regularity.WeeksWithRunsPct-37.5) > 1e-9 {
		t.Errorf("WeeksWithRunsPct = %v, want 37.5", sig.Regularity.WeeksWithRunsPct)
	}
}

func TestVolumeTrendIgnoresSparseWeeks(t *testing.T) {
	// 12 weeks around 20km, then 12 around 30km, with sparse weeks sprinkled
	// in that would flatten the trend if counted.
	var kms []float64
	var counts []int
	for i := 0; i < 12; i++ {
		kms = append(kms, 20, 2)
		counts = append(counts, 3, 1)
	}
	for i := 0; i < 12; i++ {
		kms = append(kms, 30, 2)
		counts = append(counts, 3, 1)
	}

	sig, err := Build(weeksFromPattern(kms, counts))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if math.Abs(sig.Volume.Trend12wPct-50) > 1e-9 {
		t.Errorf("Trend12wPct = %v, want 50", sig.Volume.Trend12wPct)
	}
}
