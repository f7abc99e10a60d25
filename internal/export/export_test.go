package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"runcoach/internal/signature"
	"runcoach/internal/snapshot"
)

func sampleWeeks() []snapshot.Snapshot {
	base := time.Date(2025, 4, 7, 0, 0, 0, 0, time.UTC)

	week := func(n int, km float64, runs []snapshot.DailyRun) snapshot.Snapshot {
		start := base.AddDate(0, 0, 7*n)
		longest := 0.0
		for _, r := range runs {
			if r.DistanceKm > longest {
				longest = r.DistanceKm
			}
		}
		return snapshot.Snapshot{
			Period: snapshot.NewPeriod(start, start.AddDate(0, 0, 7)),
			Totals: snapshot.Totals{
				DistanceKm:  km,
				DurationMin: km * 6,
				Sessions:    len(runs),
			},
			ZonesPercent: map[string]float64{"z1": 0.5, "z2": 0.2, "z3": 0.2, "z4": 0.07, "z5": 0.03},
			DailyRuns:    runs,
			TrainingLoad: &snapshot.TrainingLoad{Load7d: km * 6},
			LongestRunKm: &longest,
		}
	}

	return []snapshot.Snapshot{
		week(0, 20, []snapshot.DailyRun{
			{Date: base.Format(time.RFC3339), DistanceKm: 8, DurationMin: 48, Z1: 40, Z3: 8},
			{Date: base.AddDate(0, 0, 2).Format(time.RFC3339), DistanceKm: 12, DurationMin: 70, Z1: 30, Z4: 25, Z5: 15},
		}),
		week(1, 25, []snapshot.DailyRun{
			{Date: base.AddDate(0, 0, 8).Format(time.RFC3339), DistanceKm: 25, DurationMin: 150, Z1: 150},
		}),
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return rows
}

func TestWriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	weeks := sampleWeeks()

	sig := &signature.Signature{}
	sig.Volume.WeeklyAvgKm = 22.5
	sig.Regularity.LongestBreakDays = 7

	if err := WriteAll(dir, weeks, sig); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	weekRows := readCSV(t, filepath.Join(dir, "weeks.csv"))
	if len(weekRows) != 3 {
		t.Fatalf("weeks.csv has %d rows, want header + 2", len(weekRows))
	}

	header := weekRows[0]
	if header[0] != "week_start" || header[2] != "distance_km" {
		t.Errorf("unexpected weeks header: %v", header)
	}

	first := weekRows[1]
	if first[0] != "2025-04-07" {
		t.Errorf("first week start = %q", first[0])
	}
	if first[2] != "20.00" {
		t.Errorf("first week distance = %q, want 20.00", first[2])
	}
	// variation_km is 0 for the first row, the delta after
	if first[7] != "0.00" {
		t.Errorf("first week variation = %q, want 0.00", first[7])
	}
	if weekRows[2][7] != "5.00" {
		t.Errorf("second week variation = %q, want 5.00", weekRows[2][7])
	}

	// Signature columns repeat on every row
	for _, row := range weekRows[1:] {
		if row[10] != "22.50" {
			t.Errorf("sig_weekly_avg_km = %q, want 22.50", row[10])
		}
		if row[16] != "7" {
			t.Errorf("sig_longest_break_days = %q, want 7", row[16])
		}
	}

	sessionRows := readCSV(t, filepath.Join(dir, "sessions.csv"))
	if len(sessionRows) != 4 {
		t.Fatalf("sessions.csv has %d rows, want header + 3", len(sessionRows))
	}
	if sessionRows[1][0] != "2025-04-07" {
		t.Errorf("first session date = %q", sessionRows[1][0])
	}
	// 48 min over 8 km = 6.00 min/km
	if sessionRows[1][3] != "6.00" {
		t.Errorf("first session pace = %q, want 6.00", sessionRows[1][3])
	}
}

func TestWriteAllWithoutSignature(t *testing.T) {
	dir := t.TempDir()

	if err := WriteAll(dir, sampleWeeks(), nil); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	rows := readCSV(t, filepath.Join(dir, "weeks.csv"))
	if len(rows) != 3 {
		t.Fatalf("weeks.csv has %d rows", len(rows))
	}
	// Signature columns stay blank
	if rows[1][10] != "" || rows[1][20] != "" {
		t.Errorf("signature columns should be empty, got %q / %q", rows[1][10], rows[1][20])
	}
}
