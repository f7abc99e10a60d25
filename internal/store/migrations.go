package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Authentication (singleton row)
		`CREATE TABLE IF NOT EXISTS auth (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			athlete_id INTEGER NOT NULL,
			access_token TEXT NOT NULL,
			refresh_token TEXT NOT NULL,
			expires_at INTEGER NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Workouts (summary records from the sensor platform)
		`CREATE TABLE IF NOT EXISTS workouts (
			id INTEGER PRIMARY KEY,
			start_time TEXT NOT NULL,
			duration_min REAL NOT NULL,
			distance_km REAL NOT NULL,
			elevation_gain_m REAL NOT NULL DEFAULT 0,
			average_hr REAL NOT NULL DEFAULT 0,
			samples_synced INTEGER DEFAULT 0,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_workouts_start_time ON workouts(start_time)`,

		// Raw heart-rate samples per workout
		`CREATE TABLE IF NOT EXISTS hr_samples (
			workout_id INTEGER NOT NULL,
			sample_time TEXT NOT NULL,
			bpm REAL NOT NULL,
			PRIMARY KEY (workout_id, sample_time),
			FOREIGN KEY (workout_id) REFERENCES workouts(id) ON DELETE CASCADE
		)`,

		// Sync bookkeeping (key-value)
		`CREATE TABLE IF NOT EXISTS sync_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}
