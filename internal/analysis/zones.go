package analysis

import (
	"errors"
	"time"
)

// NumZones is the number of heart-rate intensity bands.
const NumZones = 5

// ErrInsufficientSamples is returned when a workout has fewer than two
// heart-rate samples, which is not enough to derive any elapsed time.
var ErrInsufficientSamples = errors.New("not enough heart rate samples")

// HeartRateSample is a single heart-rate reading within a workout.
// Samples are expected to be ordered ascending by time.
type HeartRateSample struct {
	Time time.Time
	BPM  float64
}

// ZoneThresholds holds the four ascending zone boundaries in bpm.
// A heart rate below Z1Upper is zone 1, [Z1Upper, Z2Upper) is zone 2, and so
// on; everything at or above Z4Upper is zone 5.
type ZoneThresholds struct {
	Z1Upper float64
	Z2Upper float64
	Z3Upper float64
	Z4Upper float64
}

// DefaultZoneThresholds returns the default zone boundaries
// (139/152/165/178 bpm). Override per athlete in the config file.
func DefaultZoneThresholds() ZoneThresholds {
	return ZoneThresholds{
		Z1Upper: 139,
		Z2Upper: 152,
		Z3Upper: 165,
		Z4Upper: 178,
	}
}

// Valid reports whether the thresholds are strictly ascending and positive.
func (z ZoneThresholds) Valid() bool {
	return z.Z1Upper > 0 && z.Z1Upper < z.Z2Upper && z.Z2Upper < z.Z3Upper && z.Z3Upper < z.Z4Upper
}

// zoneIndex returns the 0-based zone bucket for a heart rate.
func (z ZoneThresholds) zoneIndex(bpm float64) int {
	switch {
	case bpm < z.Z1Upper:
		return 0
	case bpm < z.Z2Upper:
		return 1
	case bpm < z.Z3Upper:
		return 2
	case bpm < z.Z4Upper:
		return 3
	default:
		return 4
	}
}

// ZoneMinutes holds minutes spent in each of the five zones, indexed z1..z5.
type ZoneMinutes [NumZones]float64

// Total returns the summed minutes across all zones.
func (m ZoneMinutes) Total() float64 {
	var total float64
	for _, v := range m {
		total += v
	}
	return total
}

// HighIntensity returns the minutes spent in zones 4 and 5.
func (m ZoneMinutes) HighIntensity() float64 {
	return m[3] + m[4]
}

// ComputeZoneMinutes buckets a workout's heart-rate samples into time in zone.
//
// For each adjacent pair of samples the midpoint heart rate is computed and
// the whole interval between the two timestamps is credited to the zone
// containing that midpoint. This time-weighted approximation tolerates the
// irregular sampling interval of watch sensors far better than classifying
// instantaneous readings. Intervals with non-positive duration (duplicate
// timestamps) are skipped.
//
// Samples must already be sorted ascending by time; fewer than two samples
// returns ErrInsufficientSamples.
func ComputeZoneMinutes(samples []HeartRateSample, thresholds ZoneThresholds) (ZoneMinutes, error) {
	var minutes ZoneMinutes

	if len(samples) < 2 {
		return minutes, ErrInsufficientSamples
	}

	for i := 0; i < len(samples)-1; i++ {
		s1, s2 := samples[i], samples[i+1]

		deltaMin := s2.Time.Sub(s1.Time).Minutes()
		if deltaMin <= 0 {
			continue
		}

		mid := (s1.BPM + s2.BPM) / 2
		minutes[thresholds.zoneIndex(mid)] += deltaMin
	}

	return minutes, nil
}
