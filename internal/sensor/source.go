package sensor

import (
	"context"
	"log"
	"time"

	"runcoach/internal/analysis"
	"runcoach/internal/store"
)

// StoreSource serves workouts and heart-rate samples from the local store.
// It implements the snapshot pipeline's data source contract: a failed fetch
// is logged and yields an empty slice, so snapshot building degrades to a
// zeroed snapshot instead of failing.
type StoreSource struct {
	db *store.DB
}

// NewStoreSource creates a StoreSource over the given database.
func NewStoreSource(db *store.DB) *StoreSource {
	return &StoreSource{db: db}
}

// FetchWorkouts returns the workouts starting in [start, end), ordered by
// start time. Empty on failure.
func (s *StoreSource) FetchWorkouts(ctx context.Context, start, end time.Time) []Workout {
	rows, err := s.db.GetWorkoutsInRange(start, end)
	if err != nil {
		log.Printf("sensor: fetching workouts %s..%s: %v",
			start.Format("2006-01-02"), end.Format("2006-01-02"), err)
		return nil
	}

	workouts := make([]Workout, len(rows))
	for i, r := range rows {
		workouts[i] = Workout{
			ID:             r.ID,
			StartTime:      r.StartTime,
			DurationMin:    r.DurationMin,
			DistanceKm:     r.DistanceKm,
			ElevationGainM: r.ElevationGainM,
			AverageHR:      r.AverageHR,
		}
	}
	return workouts
}

// FetchHeartRateSamples returns a workout's samples ordered ascending by
// time. Empty on failure.
func (s *StoreSource) FetchHeartRateSamples(ctx context.Context, workout Workout) []analysis.HeartRateSample {
	rows, err := s.db.GetHRSamples(workout.ID)
	if err != nil {
		log.Printf("sensor: fetching samples for workout %d: %v", workout.ID, err)
		return nil
	}

	samples := make([]analysis.HeartRateSample, len(rows))
	for i, r := range rows {
		samples[i] = analysis.HeartRateSample{Time: r.Time, BPM: r.BPM}
	}
	return samples
}
