package service

import "time"

const (
	// How far back the first sync reaches
	HistoryYears = 3

	// Samples are fetched in bounded batches to respect rate limits
	SampleBatchSize = 50

	// Per-workout sample fetch retry policy
	SampleFetchRetries = 3
	SampleRetryBackoff = 2 * time.Second

	// Weeks shown on the mileage chart
	ChartWeeks = 12
)
