package analysis

import (
	"errors"
	"math"
	"testing"
	"time"
)

// makeSamples produces one sample per interval at the given bpm values,
// spaced intervalSec apart.
func makeSamples(bpms []float64, intervalSec int) []HeartRateSample {
	start := time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC)
	samples := make([]HeartRateSample, len(bpms))
	for i, bpm := range bpms {
		samples[i] = HeartRateSample{
			Time: start.Add(time.Duration(i*intervalSec) * time.Second),
			BPM:  bpm,
		}
	}
	return samples
}

func TestComputeZoneMinutes(t *testing.T) {
	thresholds := DefaultZoneThresholds()

	tests := []struct {
		name    string
		samples []HeartRateSample
		wantErr error
		checkFn func(t *testing.T, m ZoneMinutes)
	}{
		{
			name:    "no samples",
			samples: nil,
			wantErr: ErrInsufficientSamples,
		},
		{
			name:    "single sample",
			samples: makeSamples([]float64{120}, 60),
			wantErr: ErrInsufficientSamples,
		},
		{
			name:    "steady easy run stays in zone 1",
			samples: makeSamples([]float64{120, 121, 119, 120, 122}, 60),
			checkFn: func(t *testing.T, m ZoneMinutes) {
				if m[0] != 4 {
					t.Errorf("z1 = %v min, want 4", m[0])
				}
				for i := 1; i < NumZones; i++ {
					if m[i] != 0 {
						t.Errorf("z%d = %v min, want 0", i+1, m[i])
					}
				}
			},
		},
		{
			name:    "interval midpoint decides the zone",
			samples: makeSamples([]float64{150, 170}, 60),
			checkFn: func(t *testing.T, m ZoneMinutes) {
				// midpoint 160 falls in zone 3
				if m[2] != 1 {
					t.Errorf("z3 = %v min, want 1", m[2])
				}
			},
		},
		{
			name:    "maximal effort lands in zone 5",
			samples: makeSamples([]float64{185, 190, 188}, 30),
			checkFn: func(t *testing.T, m ZoneMinutes) {
				if m[4] != 1 {
					t.Errorf("z5 = %v min, want 1", m[4])
				}
			},
		},
		{
			name: "duplicate timestamps are skipped",
			samples: append(
				makeSamples([]float64{120, 120}, 0),
				makeSamples([]float64{120, 120}, 60)...,
			),
			checkFn: func(t *testing.T, m ZoneMinutes) {
				if m.Total() <= 0 {
					t.Errorf("total = %v, want positive from the spaced pair", m.Total())
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ComputeZoneMinutes(tt.samples, thresholds)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.checkFn(t, m)
		})
	}
}

func TestComputeZoneMinutesCoversElapsedTime(t *testing.T) {
	// A ramp across all five zones: total time in zone must equal the
	// elapsed time between first and last sample.
	bpms := []float64{110, 125, 140, 148, 156, 163, 170, 176, 182, 190}
	samples := makeSamples(bpms, 45)

	m, err := ComputeZoneMinutes(samples, DefaultZoneThresholds())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	elapsed := samples[len(samples)-1].Time.Sub(samples[0].Time).Minutes()
	if math.Abs(m.Total()-elapsed) > 1e-9 {
		t.Errorf("total in zone = %v min, elapsed = %v min", m.Total(), elapsed)
	}

	if m.HighIntensity() != m[3]+m[4] {
		t.Errorf("HighIntensity() = %v, want %v", m.HighIntensity(), m[3]+m[4])
	}
}

func TestZoneThresholdsValid(t *testing.T) {
	if !DefaultZoneThresholds().Valid() {
		t.Error("default thresholds should be valid")
	}

	bad := ZoneThresholds{Z1Upper: 150, Z2Upper: 140, Z3Upper: 165, Z4Upper: 178}
	if bad.Valid() {
		t.Error("descending thresholds should be invalid")
	}

	zero := ZoneThresholds{}
	if zero.Valid() {
		t.Error("zero thresholds should be invalid")
	}
}
