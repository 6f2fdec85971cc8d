package detect

import (
	"errors"
	"testing"

	"github.com/dnldd/chartscan/shared"
	"github.com/google/go-cmp/cmp"
)

func TestFindExtrema(t *testing.T) {
	tests := []struct {
		name        string
		series      []float64
		separation  int
		wantPeaks   []int
		wantTroughs []int
	}{
		{
			"two peaks flanking a trough",
			[]float64{1, 2, 3, 2, 1, 2, 4, 2, 1},
			1,
			[]int{2, 6},
			[]int{4},
		},
		{
			"close peaks collapse to the higher one",
			[]float64{1, 5, 1, 4, 1},
			3,
			[]int{1},
			[]int{2},
		},
		{
			"plateau reduces to its midpoint",
			[]float64{0, 1, 2, 2, 2, 1, 0},
			1,
			[]int{3},
			[]int{},
		},
		{
			"monotonic series has no extrema",
			[]float64{1, 2, 3, 4, 5, 6},
			1,
			[]int{},
			[]int{},
		},
		{
			"flat series has no extrema",
			[]float64{5, 5, 5, 5, 5},
			1,
			[]int{},
			[]int{},
		},
		{
			"low prominence wiggles are discarded",
			[]float64{10, 10.1, 10, 10.1, 10},
			1,
			[]int{},
			[]int{},
		},
	}

	for _, test := range tests {
		peaks, troughs, err := FindExtrema(test.series, test.separation, ProminenceFraction)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", test.name, err)
			continue
		}

		if diff := cmp.Diff(test.wantPeaks, peaks); diff != "" {
			t.Errorf("%s: peaks mismatch (-want +got):\n%s", test.name, diff)
		}
		if diff := cmp.Diff(test.wantTroughs, troughs); diff != "" {
			t.Errorf("%s: troughs mismatch (-want +got):\n%s", test.name, diff)
		}
	}
}

func TestFindExtremaEmptySeries(t *testing.T) {
	_, _, err := FindExtrema(nil, DetectorSeparation, ProminenceFraction)
	if !errors.Is(err, shared.ErrInvalidInput) {
		t.Errorf("expected %v, got %v", shared.ErrInvalidInput, err)
	}
}

func TestFindExtremaSeparation(t *testing.T) {
	// Equal height peaks two positions apart, so a separation of three keeps
	// only the first encountered in priority order.
	series := []float64{1, 5, 1, 5, 1, 5, 1}

	peaks, _, err := FindExtrema(series, 3, ProminenceFraction)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for idx := 1; idx < len(peaks); idx++ {
		if peaks[idx]-peaks[idx-1] < 3 {
			t.Errorf("peaks %d and %d are closer than the separation", peaks[idx-1], peaks[idx])
		}
	}
}

func TestFindExtremaDeterminism(t *testing.T) {
	series := []float64{3, 7, 2, 9, 4, 8, 1, 6, 2, 7, 3}

	firstPeaks, firstTroughs, err := FindExtrema(series, 2, ProminenceFraction)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	secondPeaks, secondTroughs, err := FindExtrema(series, 2, ProminenceFraction)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff(firstPeaks, secondPeaks); diff != "" {
		t.Errorf("peaks not deterministic (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(firstTroughs, secondTroughs); diff != "" {
		t.Errorf("troughs not deterministic (-first +second):\n%s", diff)
	}
}
