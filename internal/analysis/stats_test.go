package analysis

import (
	"math"
	"testing"
)

func TestMean(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single", []float64{5}, 5},
		{"several", []float64{2, 4, 6}, 4},
		{"negative", []float64{-2, 2}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Mean(tt.values)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Mean(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestSampleStdDev(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single", []float64{10}, 0},
		{"constant", []float64{3, 3, 3, 3}, 0},
		{"known", []float64{2, 4, 4, 4, 5, 5, 7, 9}, 2.138089935},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SampleStdDev(tt.values)
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("SampleStdDev(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestTrend12w(t *testing.T) {
	constant := make([]float64, 24)
	for i := range constant {
		constant[i] = 30
	}

	// 12 weeks at 20, then 12 weeks at 30: +50%
	stepUp := make([]float64, 24)
	for i := range stepUp {
		if i < 12 {
			stepUp[i] = 20
		} else {
			stepUp[i] = 30
		}
	}

	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"too short", make([]float64, 23), 0},
		{"constant", constant, 0},
		{"step up", stepUp, 50},
		{"zero baseline", append(make([]float64, 12), constant[:12]...), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Trend12w(tt.values)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Trend12w = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTrend12wFiltered(t *testing.T) {
	// 26 weeks alternating good and sparse; only the 24 good weeks count.
	var values []float64
	var sessions []int
	for i := 0; i < 12; i++ {
		values = append(values, 20, 1)
		sessions = append(sessions, 3, 1)
	}
	for i := 0; i < 12; i++ {
		values = append(values, 30, 1)
		sessions = append(sessions, 4, 0)
	}

	got := Trend12wFiltered(values, sessions, 3)
	if math.Abs(got-50) > 1e-9 {
		t.Errorf("Trend12wFiltered = %v, want 50", got)
	}

	t.Run("mismatched lengths", func(t *testing.T) {
		if got := Trend12wFiltered([]float64{1, 2}, []int{3}, 1); got != 0 {
			t.Errorf("Trend12wFiltered with mismatched inputs = %v, want 0", got)
		}
	})

	t.Run("too few qualifying weeks", func(t *testing.T) {
		if got := Trend12wFiltered(values[:10], sessions[:10], 3); got != 0 {
			t.Errorf("Trend12wFiltered on short history = %v, want 0", got)
		}
	})
}
