package service

import (
	"context"
	"fmt"
	"time"

	"runcoach/internal/analysis"
	"runcoach/internal/snapshot"
	"runcoach/internal/store"
)

// StatsService answers the read-side queries behind the stats screen
type StatsService struct {
	db      *store.DB
	builder *snapshot.Builder
}

// NewStatsService creates a stats service over the local store
func NewStatsService(db *store.DB, builder *snapshot.Builder) *StatsService {
	return &StatsService{db: db, builder: builder}
}

// WeekStats summarizes the training week in progress
type WeekStats struct {
	Snapshot snapshot.Snapshot
	Load     analysis.RollingLoad
}

// CurrentWeek builds the week-in-progress snapshot plus rolling load
func (s *StatsService) CurrentWeek(ctx context.Context, now time.Time) (*WeekStats, error) {
	start := snapshot.WeekStart(now)
	snap := s.builder.Build(ctx, start, start.AddDate(0, 0, 7))
	snap.WeekLabel = "Current week"

	daily, err := s.db.DailyDistances(analysis.DayStart(now.AddDate(0, 0, -27)), now.Add(24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("loading daily distances: %w", err)
	}

	return &WeekStats{
		Snapshot: snap,
		Load:     analysis.ComputeRollingLoad(daily, now),
	}, nil
}

// WeeklyMileage returns distance per week for the chart, oldest first
func (s *StatsService) WeeklyMileage(ctx context.Context, weeks int, now time.Time) []float64 {
	snaps := s.builder.BuildWeeks(ctx, weeks, now)
	mileage := make([]float64, len(snaps))
	for i, snap := range snaps {
		mileage[i] = snap.Totals.DistanceKm
	}
	return mileage
}

// WeeklySnapshots returns the trailing n complete weeks, oldest first
func (s *StatsService) WeeklySnapshots(ctx context.Context, weeks int, now time.Time) []snapshot.Snapshot {
	return s.builder.BuildWeeks(ctx, weeks, now)
}
