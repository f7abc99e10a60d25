package store

import (
	"fmt"
	"time"

	"runcoach/internal/analysis"
)

// Workout is a synced sensor-platform workout row.
type Workout struct {
	ID             int64
	StartTime      time.Time
	DurationMin    float64
	DistanceKm     float64
	ElevationGainM float64
	AverageHR      float64
	SamplesSynced  bool
}

// UpsertWorkout inserts or updates a workout
func (db *DB) UpsertWorkout(w *Workout) error {
	_, err := db.Exec(`
		INSERT INTO workouts (
			id, start_time, duration_min, distance_km, elevation_gain_m,
			average_hr, samples_synced, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			start_time = excluded.start_time,
			duration_min = excluded.duration_min,
			distance_km = excluded.distance_km,
			elevation_gain_m = excluded.elevation_gain_m,
			average_hr = excluded.average_hr,
			samples_synced = excluded.samples_synced,
			updated_at = CURRENT_TIMESTAMP
	`,
		w.ID, w.StartTime.Format(time.RFC3339), w.DurationMin, w.DistanceKm,
		w.ElevationGainM, w.AverageHR, boolToInt(w.SamplesSynced),
	)
	return err
}

// GetWorkoutsInRange returns workouts with start_time in [start, end),
// ordered ascending by start time.
func (db *DB) GetWorkoutsInRange(start, end time.Time) ([]Workout, error) {
	rows, err := db.Query(`
		SELECT id, start_time, duration_min, distance_km, elevation_gain_m,
			average_hr, samples_synced
		FROM workouts
		WHERE start_time >= ? AND start_time < ?
		ORDER BY start_time ASC
	`, start.Format(time.RFC3339), end.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var workouts []Workout
	for rows.Next() {
		var w Workout
		var startTime string
		var synced int
		if err := rows.Scan(&w.ID, &startTime, &w.DurationMin, &w.DistanceKm,
			&w.ElevationGainM, &w.AverageHR, &synced); err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		w.StartTime, err = time.Parse(time.RFC3339, startTime)
		if err != nil {
			return nil, fmt.Errorf("parsing workout start time: %w", err)
		}
		w.SamplesSynced = synced != 0
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}

// GetWorkoutsWithoutSamples returns workouts whose samples have not been
// fetched yet.
func (db *DB) GetWorkoutsWithoutSamples() ([]Workout, error) {
	rows, err := db.Query(`
		SELECT id, start_time, duration_min, distance_km, elevation_gain_m,
			average_hr, samples_synced
		FROM workouts
		WHERE samples_synced = 0
		ORDER BY start_time ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying unsynced workouts: %w", err)
	}
	defer rows.Close()

	var workouts []Workout
	for rows.Next() {
		var w Workout
		var startTime string
		var synced int
		if err := rows.Scan(&w.ID, &startTime, &w.DurationMin, &w.DistanceKm,
			&w.ElevationGainM, &w.AverageHR, &synced); err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		w.StartTime, err = time.Parse(time.RFC3339, startTime)
		if err != nil {
			return nil, fmt.Errorf("parsing workout start time: %w", err)
		}
		w.SamplesSynced = synced != 0
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}

// MarkSamplesSynced flags a workout's samples as fetched.
func (db *DB) MarkSamplesSynced(workoutID int64) error {
	_, err := db.Exec(`
		UPDATE workouts SET samples_synced = 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, workoutID)
	return err
}

// DailyDistances returns total distance per calendar day for workouts with
// start_time in [start, end). Days without workouts are absent from the map.
func (db *DB) DailyDistances(start, end time.Time) (map[time.Time]float64, error) {
	workouts, err := db.GetWorkoutsInRange(start, end)
	if err != nil {
		return nil, err
	}

	daily := make(map[time.Time]float64)
	for _, w := range workouts {
		day := analysis.DayStart(w.StartTime)
		daily[day] += w.DistanceKm
	}
	return daily, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
