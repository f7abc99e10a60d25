// Package export writes synced training history to CSV files for use in
// spreadsheets or ML pipelines.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"runcoach/internal/signature"
	"runcoach/internal/snapshot"
)

// WriteWeeks writes one row per week to weeks.csv in dir. Signature columns
// repeat the athlete-level facets on every row so the file is self-contained
// for downstream feature pipelines. sig may be nil when history is too short.
func WriteWeeks(dir string, weeks []snapshot.Snapshot, sig *signature.Signature) error {
	f, err := os.Create(filepath.Join(dir, "weeks.csv"))
	if err != nil {
		return fmt.Errorf("creating weeks.csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"week_start", "week_end", "distance_km", "sessions", "duration_min",
		"low_intensity_pct", "high_intensity_pct", "variation_km",
		"longest_run_km", "weekly_load",
		"sig_weekly_avg_km", "sig_trend_12w_pct", "sig_z4_z5_avg_pct",
		"sig_acwr_avg", "sig_acwr_max", "sig_weeks_with_runs_pct",
		"sig_longest_break_days", "sig_injury_free_weeks_pct",
		"sig_max_consecutive_weeks", "sig_breaks_over7d_count",
		"sig_load_std_trend12w_pct",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	sigCols := signatureColumns(sig)

	prevKm := 0.0
	for i, week := range weeks {
		variation := 0.0
		if i > 0 {
			variation = week.Totals.DistanceKm - prevKm
		}
		prevKm = week.Totals.DistanceKm

		longest := 0.0
		if week.LongestRunKm != nil {
			longest = *week.LongestRunKm
		}
		load := 0.0
		if week.TrainingLoad != nil {
			load = week.TrainingLoad.Load7d
		}

		row := []string{
			week.Period.Start,
			week.Period.End,
			formatFloat(week.Totals.DistanceKm),
			strconv.Itoa(week.Totals.Sessions),
			formatFloat(week.Totals.DurationMin),
			formatFloat(week.Z1Z3Pct()),
			formatFloat(week.Z4Z5Pct()),
			formatFloat(variation),
			formatFloat(longest),
			formatFloat(load),
		}
		row = append(row, sigCols...)

		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// WriteSessions writes one row per run to sessions.csv in dir
func WriteSessions(dir string, weeks []snapshot.Snapshot) error {
	f, err := os.Create(filepath.Join(dir, "sessions.csv"))
	if err != nil {
		return fmt.Errorf("creating sessions.csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"date", "distance_km", "duration_min", "pace_min_per_km",
		"z1_min", "z2_min", "z3_min", "z4_min", "z5_min",
		"low_intensity_pct", "high_intensity_pct",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, week := range weeks {
		for _, run := range week.DailyRuns {
			pace := 0.0
			if run.DistanceKm > 0 {
				pace = run.DurationMin / run.DistanceKm
			}

			zones := run.ZoneMinutes()
			total := zones.Total()
			lowPct, highPct := 0.0, 0.0
			if total > 0 {
				lowPct = (zones[0] + zones[2]) / total * 100
				highPct = zones.HighIntensity() / total * 100
			}

			date := run.Date
			if t, err := time.Parse(time.RFC3339, run.Date); err == nil {
				date = t.Format(snapshot.DateLayout)
			}

			row := []string{
				date,
				formatFloat(run.DistanceKm),
				formatFloat(run.DurationMin),
				formatFloat(pace),
				formatFloat(run.Z1),
				formatFloat(run.Z2),
				formatFloat(run.Z3),
				formatFloat(run.Z4),
				formatFloat(run.Z5),
				formatFloat(lowPct),
				formatFloat(highPct),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

// WriteAll writes both files, creating dir if needed
func WriteAll(dir string, weeks []snapshot.Snapshot, sig *signature.Signature) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}
	if err := WriteWeeks(dir, weeks, sig); err != nil {
		return err
	}
	return WriteSessions(dir, weeks)
}

func signatureColumns(sig *signature.Signature) []string {
	if sig == nil {
		return make([]string, 11)
	}
	return []string{
		formatFloat(sig.Volume.WeeklyAvgKm),
		formatFloat(sig.Volume.Trend12wPct),
		formatFloat(sig.Intensity.Z4Z5AvgPct),
		formatFloat(sig.Load.AcwrAvg),
		formatFloat(sig.Load.AcwrMax),
		formatFloat(sig.Regularity.WeeksWithRunsPct),
		strconv.Itoa(sig.Regularity.LongestBreakDays),
		formatFloat(sig.Robustness.InjuryFreeWeeksPct),
		strconv.Itoa(sig.Robustness.MaxConsecutiveWeeks),
		strconv.Itoa(sig.Robustness.BreaksOver7dCount),
		formatFloat(sig.Adaptation.LoadStdTrend12wPct),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
