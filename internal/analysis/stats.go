package analysis

import "math"

// Mean returns the arithmetic mean of values, or 0 for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// SampleStdDev returns the sample standard deviation (n-1 denominator).
// Returns 0 for fewer than two values.
func SampleStdDev(values []float64) float64 {
	if len(values) <= 1 {
		return 0
	}
	m := Mean(values)
	var sumSq float64
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}

// trendWindow is the number of points in each half of a trend comparison.
const trendWindow = 12

// Trend12w compares the mean of the last 12 values against the mean of the
// 12 values before them and returns the change as a percentage.
// Requires at least 24 points; returns 0 otherwise, and 0 when the baseline
// mean is not positive.
func Trend12w(values []float64) float64 {
	if len(values) < 2*trendWindow {
		return 0
	}

	recent := values[len(values)-trendWindow:]
	baseline := values[len(values)-2*trendWindow : len(values)-trendWindow]

	a := Mean(baseline)
	b := Mean(recent)

	if a <= 0 {
		return 0
	}
	return (b - a) / a * 100
}

// Trend12wFiltered is Trend12w over only the weeks with at least minSessions
// sessions. Low-activity weeks (vacation, injury, partial data) would otherwise
// drag the trend toward zero without reflecting actual training.
// values and sessionCounts are parallel slices; mismatched lengths or fewer
// than 24 qualifying points yield 0.
func Trend12wFiltered(values []float64, sessionCounts []int, minSessions int) float64 {
	if len(values) != len(sessionCounts) {
		return 0
	}

	filtered := make([]float64, 0, len(values))
	for i, v := range values {
		if sessionCounts[i] >= minSessions {
			filtered = append(filtered, v)
		}
	}
	return Trend12w(filtered)
}
