package store

import (
	"fmt"
	"time"
)

// HRSample is one stored heart-rate reading.
type HRSample struct {
	WorkoutID int64
	Time      time.Time
	BPM       float64
}

// InsertHRSamples stores a workout's heart-rate samples in one transaction.
// Existing samples for the same timestamps are replaced.
func (db *DB) InsertHRSamples(workoutID int64, samples []HRSample) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO hr_samples (workout_id, sample_time, bpm)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range samples {
		if _, err := stmt.Exec(workoutID, s.Time.Format(time.RFC3339Nano), s.BPM); err != nil {
			return fmt.Errorf("inserting sample: %w", err)
		}
	}

	return tx.Commit()
}

// GetHRSamples returns a workout's heart-rate samples ordered ascending by
// time, as the zone classifier requires.
func (db *DB) GetHRSamples(workoutID int64) ([]HRSample, error) {
	rows, err := db.Query(`
		SELECT workout_id, sample_time, bpm
		FROM hr_samples
		WHERE workout_id = ?
		ORDER BY sample_time ASC
	`, workoutID)
	if err != nil {
		return nil, fmt.Errorf("querying samples: %w", err)
	}
	defer rows.Close()

	var samples []HRSample
	for rows.Next() {
		var s HRSample
		var sampleTime string
		if err := rows.Scan(&s.WorkoutID, &sampleTime, &s.BPM); err != nil {
			return nil, fmt.Errorf("scanning sample: %w", err)
		}
		s.Time, err = time.Parse(time.RFC3339Nano, sampleTime)
		if err != nil {
			return nil, fmt.Errorf("parsing sample time: %w", err)
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}
