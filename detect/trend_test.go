package detect

import (
	"errors"
	"math"
	"testing"

	"github.com/dnldd/chartscan/shared"
)

func TestLinearTrend(t *testing.T) {
	tests := []struct {
		name      string
		values    []float64
		wantSlope float64
	}{
		{
			"exact ascending line",
			[]float64{1, 3, 5, 7, 9},
			2,
		},
		{
			"exact descending line",
			[]float64{10, 8, 6, 4, 2},
			-2,
		},
		{
			"flat series",
			[]float64{4, 4, 4, 4},
			0,
		},
	}

	for _, test := range tests {
		slope, fitted, err := LinearTrend(test.values)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", test.name, err)
			continue
		}

		if math.Abs(slope-test.wantSlope) > 1e-9 {
			t.Errorf("%s: expected slope %v, got %v", test.name, test.wantSlope, slope)
		}

		if len(fitted) != len(test.values) {
			t.Errorf("%s: expected %d fitted values, got %d", test.name, len(test.values), len(fitted))
			continue
		}

		// An exact line fits itself.
		for idx := range fitted {
			if math.Abs(fitted[idx]-test.values[idx]) > 1e-9 {
				t.Errorf("%s: fitted value %d: expected %v, got %v",
					test.name, idx, test.values[idx], fitted[idx])
			}
		}
	}
}

func TestLinearTrendInsufficientData(t *testing.T) {
	_, _, err := LinearTrend([]float64{1})
	if !errors.Is(err, shared.ErrInsufficientData) {
		t.Errorf("expected %v, got %v", shared.ErrInsufficientData, err)
	}
}
