package detect

import (
	"fmt"
	"math"

	"github.com/dnldd/chartscan/shared"
)

// SupportResistance derives scalar support and resistance levels from the
// provided extremum indices: resistance is the mean close at the peak
// indices and support the mean close at the trough indices. Either level is
// NaN when its index set is empty. No weighting or outlier rejection is
// applied; detectors gate false positives at the shape level instead.
func SupportResistance(close []float64, peaks []int, troughs []int) (float64, float64, error) {
	if len(close) == 0 {
		return 0, 0, fmt.Errorf("%w: close series cannot be empty", shared.ErrInvalidInput)
	}

	support, resistance := math.NaN(), math.NaN()

	if len(peaks) > 0 {
		mean, err := meanAt(close, peaks)
		if err != nil {
			return 0, 0, err
		}
		resistance = mean
	}

	if len(troughs) > 0 {
		mean, err := meanAt(close, troughs)
		if err != nil {
			return 0, 0, err
		}
		support = mean
	}

	return support, resistance, nil
}

// meanAt returns the arithmetic mean of the series values at the provided indices.
func meanAt(series []float64, indices []int) (float64, error) {
	var sum float64
	for _, idx := range indices {
		if idx < 0 || idx >= len(series) {
			return 0, fmt.Errorf("%w: index %d out of range for series of length %d",
				shared.ErrInvalidInput, idx, len(series))
		}
		sum += series[idx]
	}
	return sum / float64(len(indices)), nil
}
