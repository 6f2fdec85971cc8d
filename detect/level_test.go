package detect

import (
	"errors"
	"math"
	"testing"

	"github.com/dnldd/chartscan/shared"
)

func TestSupportResistance(t *testing.T) {
	close := []float64{80, 100, 82, 104, 84}

	tests := []struct {
		name           string
		peaks          []int
		troughs        []int
		wantSupport    float64
		wantResistance float64
	}{
		{
			"levels from both extremum sets",
			[]int{1, 3},
			[]int{0, 2, 4},
			82,
			102,
		},
		{
			"no peaks leaves resistance undefined",
			nil,
			[]int{0, 4},
			82,
			math.NaN(),
		},
		{
			"no troughs leaves support undefined",
			[]int{1, 3},
			nil,
			math.NaN(),
			102,
		},
	}

	for _, test := range tests {
		support, resistance, err := SupportResistance(close, test.peaks, test.troughs)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", test.name, err)
			continue
		}

		switch {
		case math.IsNaN(test.wantSupport):
			if !math.IsNaN(support) {
				t.Errorf("%s: expected NaN support, got %v", test.name, support)
			}
		case math.Abs(support-test.wantSupport) > 1e-9:
			t.Errorf("%s: expected support %v, got %v", test.name, test.wantSupport, support)
		}

		switch {
		case math.IsNaN(test.wantResistance):
			if !math.IsNaN(resistance) {
				t.Errorf("%s: expected NaN resistance, got %v", test.name, resistance)
			}
		case math.Abs(resistance-test.wantResistance) > 1e-9:
			t.Errorf("%s: expected resistance %v, got %v", test.name, test.wantResistance, resistance)
		}
	}
}

func TestSupportResistanceInvalidInput(t *testing.T) {
	_, _, err := SupportResistance(nil, nil, nil)
	if !errors.Is(err, shared.ErrInvalidInput) {
		t.Errorf("expected %v, got %v", shared.ErrInvalidInput, err)
	}

	_, _, err = SupportResistance([]float64{1, 2, 3}, []int{5}, nil)
	if !errors.Is(err, shared.ErrInvalidInput) {
		t.Errorf("expected %v, got %v", shared.ErrInvalidInput, err)
	}
}
