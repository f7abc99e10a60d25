package service

import (
	"context"
	"fmt"
	"time"

	"runcoach/internal/sensor"
	"runcoach/internal/store"
)

// SyncService orchestrates syncing data from the sensor platform
type SyncService struct {
	client *sensor.Client
	store  *store.DB
}

// NewSyncService creates a new sync service
func NewSyncService(client *sensor.Client, store *store.DB) *SyncService {
	return &SyncService{
		client: client,
		store:  store,
	}
}

// SyncProgress reports progress during sync
type SyncProgress struct {
	Phase     string // "workouts", "samples"
	Total     int
	Completed int
	Error     error
}

// SyncResult contains the results of a sync operation
type SyncResult struct {
	WorkoutsFetched int
	WorkoutsStored  int
	SamplesSynced   int
	Errors          []error
}

// SyncAll performs a full sync: workout summaries, then heart-rate samples
func (s *SyncService) SyncAll(ctx context.Context, progress chan<- SyncProgress) (*SyncResult, error) {
	if progress != nil {
		defer close(progress)
	}

	result := &SyncResult{}

	if err := s.syncWorkouts(ctx, progress, result); err != nil {
		return result, fmt.Errorf("syncing workouts: %w", err)
	}

	if err := s.syncSamples(ctx, progress, result); err != nil {
		return result, fmt.Errorf("syncing samples: %w", err)
	}

	return result, nil
}

// syncWorkouts fetches workout summaries since the last sync and stores them
func (s *SyncService) syncWorkouts(ctx context.Context, progress chan<- SyncProgress, result *SyncResult) error {
	// Resume from last sync, or reach back over the full history window
	start := time.Now().AddDate(-HistoryYears, 0, 0)
	if lastSync, _ := s.store.GetSyncState("last_workout_sync"); lastSync != "" {
		if t, err := time.Parse(time.RFC3339, lastSync); err == nil {
			start = t
		}
	}
	end := time.Now()

	if progress != nil {
		progress <- SyncProgress{Phase: "workouts", Total: 0, Completed: 0}
	}

	workouts, err := s.client.GetAllWorkouts(ctx, start, end, func(fetched int) {
		if progress != nil {
			progress <- SyncProgress{Phase: "workouts", Total: fetched, Completed: result.WorkoutsStored}
		}
	})
	if err != nil {
		return err
	}

	result.WorkoutsFetched = len(workouts)

	for _, w := range workouts {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		row := &store.Workout{
			ID:             w.ID,
			StartTime:      w.StartTime,
			DurationMin:    w.DurationMin,
			DistanceKm:     w.DistanceKm,
			ElevationGainM: w.ElevationGainM,
			AverageHR:      w.AverageHR,
		}
		if err := s.store.UpsertWorkout(row); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("storing workout %d: %w", w.ID, err))
			continue
		}
		result.WorkoutsStored++
	}

	if progress != nil {
		progress <- SyncProgress{
			Phase:     "workouts",
			Total:     result.WorkoutsFetched,
			Completed: result.WorkoutsStored,
		}
	}

	s.store.SetSyncState("last_workout_sync", end.Format(time.RFC3339))

	return nil
}

// syncSamples fetches heart-rate samples for workouts that don't have them
// yet. Each workout gets a bounded number of attempts with backoff; a workout
// that still fails is skipped and picked up on the next sync.
func (s *SyncService) syncSamples(ctx context.Context, progress chan<- SyncProgress, result *SyncResult) error {
	workouts, err := s.store.GetWorkoutsWithoutSamples()
	if err != nil {
		return fmt.Errorf("getting workouts needing samples: %w", err)
	}

	if len(workouts) > SampleBatchSize {
		workouts = workouts[:SampleBatchSize]
	}

	if len(workouts) == 0 {
		return nil
	}

	if progress != nil {
		progress <- SyncProgress{Phase: "samples", Total: len(workouts), Completed: 0}
	}

	for i, w := range workouts {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if progress != nil {
			progress <- SyncProgress{Phase: "samples", Total: len(workouts), Completed: i}
		}

		samples, err := s.fetchSamplesWithRetry(ctx, w.ID)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("workout %d: %w", w.ID, err))
			continue
		}

		if len(samples) > 0 {
			if err := s.store.InsertHRSamples(w.ID, samples); err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("saving samples for %d: %w", w.ID, err))
				continue
			}
		}

		if err := s.store.MarkSamplesSynced(w.ID); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("marking synced for %d: %w", w.ID, err))
			continue
		}

		result.SamplesSynced++
	}

	if progress != nil {
		progress <- SyncProgress{
			Phase:     "samples",
			Total:     len(workouts),
			Completed: len(workouts),
		}
	}

	return nil
}

// fetchSamplesWithRetry attempts a workout's sample fetch up to
// SampleFetchRetries times with exponential backoff between attempts
func (s *SyncService) fetchSamplesWithRetry(ctx context.Context, workoutID int64) ([]store.HRSample, error) {
	var lastErr error

	for attempt := 0; attempt < SampleFetchRetries; attempt++ {
		if attempt > 0 {
			backoff := SampleRetryBackoff * time.Duration(1<<(attempt-1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		samples, err := s.client.GetHeartRateSamples(ctx, workoutID)
		if err != nil {
			lastErr = err
			continue
		}

		rows := make([]store.HRSample, len(samples))
		for i, sm := range samples {
			rows[i] = store.HRSample{WorkoutID: workoutID, Time: sm.Time, BPM: sm.BPM}
		}
		return rows, nil
	}

	return nil, fmt.Errorf("after %d attempts: %w", SampleFetchRetries, lastErr)
}

// RateLimitRemaining returns the client's remaining request budget
func (s *SyncService) RateLimitRemaining() int {
	return s.client.RateLimitRemaining()
}
