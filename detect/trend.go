package detect

import (
	"fmt"

	"github.com/dnldd/chartscan/shared"
)

// LinearTrend fits an ordinary least squares line to the provided values
// against their 0-based index, returning the slope and the line evaluated at
// every index.
func LinearTrend(values []float64) (float64, []float64, error) {
	if len(values) < 2 {
		return 0, nil, fmt.Errorf("%w: linear trend requires at least 2 values, got %d",
			shared.ErrInsufficientData, len(values))
	}

	n := float64(len(values))
	var sumX, sumY, sumXY, sumXX float64
	for idx := range values {
		x := float64(idx)
		sumX += x
		sumY += values[idx]
		sumXY += x * values[idx]
		sumXX += x * x
	}

	slope := (n*sumXY - sumX*sumY) / (n*sumXX - sumX*sumX)
	intercept := (sumY - slope*sumX) / n

	fitted := make([]float64, len(values))
	for idx := range fitted {
		fitted[idx] = intercept + slope*float64(idx)
	}

	return slope, fitted, nil
}
