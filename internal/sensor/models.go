package sensor

import "time"

// Workout is a single running session as reported by the sensor platform.
type Workout struct {
	ID             int64     `json:"id"`
	StartTime      time.Time `json:"start_time"`
	DurationMin    float64   `json:"duration_min"`
	DistanceKm     float64   `json:"distance_km"`
	ElevationGainM float64   `json:"elevation_gain_m"`
	AverageHR      float64   `json:"average_hr"`
}

// HeartRateSample is the wire shape of one heart-rate reading.
type HeartRateSample struct {
	Time time.Time `json:"time"`
	BPM  float64   `json:"bpm"`
}
