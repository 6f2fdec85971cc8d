package detect

import (
	"fmt"
	"sort"

	"github.com/dnldd/chartscan/shared"
)

const (
	// DetectorSeparation is the minimum extremum separation used by all detectors.
	DetectorSeparation = 5
	// ProminenceFraction is the minimum extremum prominence as a fraction of
	// the window's maximum close.
	ProminenceFraction = 0.02
)

// FindExtrema finds the peaks and troughs of the provided series. A position
// is a peak if it is a local maximum with no greater-or-equal local maximum
// within separation positions on either side, and its prominence is at least
// prominenceFraction of the series maximum. Troughs are found symmetrically
// by negating the series; the prominence threshold for both is derived from
// the un-negated series. Both returned index sequences are strictly increasing.
func FindExtrema(series []float64, separation int, prominenceFraction float64) ([]int, []int, error) {
	if len(series) == 0 {
		return nil, nil, fmt.Errorf("%w: series cannot be empty", shared.ErrInvalidInput)
	}

	max := series[0]
	for idx := 1; idx < len(series); idx++ {
		if series[idx] > max {
			max = series[idx]
		}
	}
	minProminence := prominenceFraction * max

	peaks := findPeaks(series, separation, minProminence)

	negated := make([]float64, len(series))
	for idx := range series {
		negated[idx] = -series[idx]
	}
	troughs := findPeaks(negated, separation, minProminence)

	return peaks, troughs, nil
}

// findPeaks locates local maxima of the series, then discards maxima closer
// than the provided distance to a higher maximum and maxima with prominence
// below the provided minimum.
func findPeaks(series []float64, distance int, minProminence float64) []int {
	candidates := localMaxima(series)
	candidates = selectByDistance(series, candidates, distance)
	return selectByProminence(series, candidates, minProminence)
}

// localMaxima returns all interior local maxima of the series, reducing
// plateaus to their midpoints.
func localMaxima(series []float64) []int {
	maxima := make([]int, 0)

	idx := 1
	for idx < len(series)-1 {
		if series[idx-1] < series[idx] {
			ahead := idx + 1
			for ahead < len(series)-1 && series[ahead] == series[idx] {
				ahead++
			}
			if series[ahead] < series[idx] {
				maxima = append(maxima, (idx+ahead-1)/2)
			}
			idx = ahead
			continue
		}
		idx++
	}

	return maxima
}

// selectByDistance keeps maxima in descending height priority, discarding any
// remaining maxima strictly closer than distance to a kept one.
func selectByDistance(series []float64, maxima []int, distance int) []int {
	if distance <= 1 || len(maxima) == 0 {
		return maxima
	}

	priority := make([]int, len(maxima))
	for idx := range priority {
		priority[idx] = idx
	}
	sort.SliceStable(priority, func(a, b int) bool {
		return series[maxima[priority[a]]] < series[maxima[priority[b]]]
	})

	keep := make([]bool, len(maxima))
	for idx := range keep {
		keep[idx] = true
	}

	for k := len(priority) - 1; k >= 0; k-- {
		j := priority[k]
		if !keep[j] {
			continue
		}
		for i := j - 1; i >= 0 && maxima[j]-maxima[i] < distance; i-- {
			keep[i] = false
		}
		for i := j + 1; i < len(maxima) && maxima[i]-maxima[j] < distance; i++ {
			keep[i] = false
		}
	}

	kept := make([]int, 0, len(maxima))
	for idx := range maxima {
		if keep[idx] {
			kept = append(kept, maxima[idx])
		}
	}

	return kept
}

// selectByProminence keeps maxima whose prominence meets the provided
// minimum. The prominence of a maximum is its height above the higher of the
// two lowest points separating it from a taller neighbour (or series edge)
// on each side.
func selectByProminence(series []float64, maxima []int, minProminence float64) []int {
	kept := make([]int, 0, len(maxima))

	for _, peak := range maxima {
		height := series[peak]

		leftMin := height
		for idx := peak - 1; idx >= 0 && series[idx] <= height; idx-- {
			if series[idx] < leftMin {
				leftMin = series[idx]
			}
		}

		rightMin := height
		for idx := peak + 1; idx < len(series) && series[idx] <= height; idx++ {
			if series[idx] < rightMin {
				rightMin = series[idx]
			}
		}

		base := leftMin
		if rightMin > base {
			base = rightMin
		}

		if height-base >= minProminence {
			kept = append(kept, peak)
		}
	}

	return kept
}
