package detect

import (
	"math"

	"github.com/dnldd/chartscan/shared"
)

// DetectCupWithHandle scans for cup with handle formations: two rim peaks at
// similar heights flanking a deep middle trough, followed by a brief dip and
// recovery (the handle) after the second rim peak.
func DetectCupWithHandle(series *shared.PriceSeries) ([]shared.PatternMatch, error) {
	const window = cupWindowSize
	if len(series.Bars) < window {
		return nil, nil
	}

	matches := make([]shared.PatternMatch, 0)
	for i := 0; i < len(series.Bars)-window; i++ {
		closes, peaks, troughs, err := windowExtrema(series, i, i+window)
		if err != nil {
			return nil, err
		}

		if len(peaks) < 2 || len(troughs) < 1 {
			continue
		}

		firstPeak := closes[peaks[0]]
		lastPeak := closes[peaks[len(peaks)-1]]
		if math.Abs(firstPeak-lastPeak)/firstPeak >= cupPeakTolerance {
			continue
		}

		// The middle trough forms the cup bottom and must sit well below both rims.
		trough := closes[troughs[len(troughs)/2]]
		if trough >= cupDepthFraction*math.Min(firstPeak, lastPeak) {
			continue
		}

		// The handle is a small downward drift after the second rim peak
		// that recovers by the end of the window.
		rim := peaks[len(peaks)-1]
		if rim >= window-minHandleBars {
			continue
		}
		handle := closes[rim:]
		if handle[0] <= handle[handleDipBars] || handle[handleDipBars] >= handle[len(handle)-1] {
			continue
		}

		support, resistance, err := SupportResistance(closes, peaks, troughs)
		if err != nil {
			return nil, err
		}

		matches = append(matches, shared.PatternMatch{
			Ticker:      series.Ticker,
			Kind:        shared.CupWithHandle,
			StartDate:   series.Bars[i].Date,
			EndDate:     series.Bars[i+window-1].Date,
			Support:     support,
			Resistance:  resistance,
			Peaks:       append([]int(nil), peaks...),
			Troughs:     append([]int(nil), troughs...),
			WindowStart: i,
			WindowEnd:   i + window,
		})
	}

	return matches, nil
}

// DetectHeadAndShoulders scans for head and shoulders formations: three
// consecutive peaks whose middle (the head) exceeds both flanking shoulders,
// with the shoulders at similar heights.
func DetectHeadAndShoulders(series *shared.PriceSeries) ([]shared.PatternMatch, error) {
	const window = hnsWindowSize
	if len(series.Bars) < window {
		return nil, nil
	}

	matches := make([]shared.PatternMatch, 0)
	for i := 0; i < len(series.Bars)-window; i++ {
		closes, peaks, troughs, err := windowExtrema(series, i, i+window)
		if err != nil {
			return nil, err
		}

		if len(peaks) < 3 || len(troughs) < 2 {
			continue
		}

		for p := 0; p+2 < len(peaks); p++ {
			leftShoulder := closes[peaks[p]]
			head := closes[peaks[p+1]]
			rightShoulder := closes[peaks[p+2]]

			if head <= leftShoulder*hnsHeadMargin || head <= rightShoulder*hnsHeadMargin {
				continue
			}
			if math.Abs(leftShoulder-rightShoulder)/leftShoulder >= hnsShoulderTolerance {
				continue
			}

			// The support here is the neckline through the intervening troughs.
			support, resistance, err := SupportResistance(closes, peaks, troughs)
			if err != nil {
				return nil, err
			}

			matches = append(matches, shared.PatternMatch{
				Ticker:      series.Ticker,
				Kind:        shared.HeadAndShoulders,
				StartDate:   series.Bars[i+max(0, peaks[p]-contextBars)].Date,
				EndDate:     series.Bars[i+min(window-1, peaks[p+2]+contextBars)].Date,
				Support:     support,
				Resistance:  resistance,
				Peaks:       []int{peaks[p], peaks[p+1], peaks[p+2]},
				Troughs:     append([]int(nil), troughs...),
				WindowStart: i,
				WindowEnd:   i + window,
			})
		}
	}

	return matches, nil
}

// DetectDoubleTop scans for double top formations: two consecutive peaks at
// similar heights with at least one trough strictly between them.
func DetectDoubleTop(series *shared.PriceSeries) ([]shared.PatternMatch, error) {
	const window = doubleWindowSize
	if len(series.Bars) < window {
		return nil, nil
	}

	matches := make([]shared.PatternMatch, 0)
	for i := 0; i < len(series.Bars)-window; i++ {
		closes, peaks, troughs, err := windowExtrema(series, i, i+window)
		if err != nil {
			return nil, err
		}

		if len(peaks) < 2 || len(troughs) < 1 {
			continue
		}

		for p := 0; p+1 < len(peaks); p++ {
			first := closes[peaks[p]]
			second := closes[peaks[p+1]]
			if math.Abs(first-second)/first >= doubleTolerance {
				continue
			}

			between := indicesBetween(troughs, peaks[p], peaks[p+1])
			if len(between) == 0 {
				continue
			}

			pair := []int{peaks[p], peaks[p+1]}
			support, resistance, err := SupportResistance(closes, pair, between)
			if err != nil {
				return nil, err
			}

			matches = append(matches, shared.PatternMatch{
				Ticker:      series.Ticker,
				Kind:        shared.DoubleTop,
				StartDate:   series.Bars[i+max(0, peaks[p]-contextBars)].Date,
				EndDate:     series.Bars[i+min(window-1, peaks[p+1]+contextBars)].Date,
				Support:     support,
				Resistance:  resistance,
				Peaks:       pair,
				Troughs:     between,
				WindowStart: i,
				WindowEnd:   i + window,
			})
		}
	}

	return matches, nil
}

// DetectDoubleBottom scans for double bottom formations: two consecutive
// troughs at similar heights with at least one peak strictly between them.
func DetectDoubleBottom(series *shared.PriceSeries) ([]shared.PatternMatch, error) {
	const window = doubleWindowSize
	if len(series.Bars) < window {
		return nil, nil
	}

	matches := make([]shared.PatternMatch, 0)
	for i := 0; i < len(series.Bars)-window; i++ {
		closes, peaks, troughs, err := windowExtrema(series, i, i+window)
		if err != nil {
			return nil, err
		}

		if len(peaks) < 1 || len(troughs) < 2 {
			continue
		}

		for t := 0; t+1 < len(troughs); t++ {
			first := closes[troughs[t]]
			second := closes[troughs[t+1]]
			if math.Abs(first-second)/first >= doubleTolerance {
				continue
			}

			between := indicesBetween(peaks, troughs[t], troughs[t+1])
			if len(between) == 0 {
				continue
			}

			pair := []int{troughs[t], troughs[t+1]}
			support, resistance, err := SupportResistance(closes, between, pair)
			if err != nil {
				return nil, err
			}

			matches = append(matches, shared.PatternMatch{
				Ticker:      series.Ticker,
				Kind:        shared.DoubleBottom,
				StartDate:   series.Bars[i+max(0, troughs[t]-contextBars)].Date,
				EndDate:     series.Bars[i+min(window-1, troughs[t+1]+contextBars)].Date,
				Support:     support,
				Resistance:  resistance,
				Peaks:       between,
				Troughs:     pair,
				WindowStart: i,
				WindowEnd:   i + window,
			})
		}
	}

	return matches, nil
}

// DetectTripleTop scans for triple top formations: three consecutive peaks
// each within tolerance of their mean, with at least one trough between the
// first and last.
func DetectTripleTop(series *shared.PriceSeries) ([]shared.PatternMatch, error) {
	const window = tripleWindowSize
	if len(series.Bars) < window {
		return nil, nil
	}

	matches := make([]shared.PatternMatch, 0)
	for i := 0; i < len(series.Bars)-window; i++ {
		closes, peaks, troughs, err := windowExtrema(series, i, i+window)
		if err != nil {
			return nil, err
		}

		if len(peaks) < 3 || len(troughs) < 2 {
			continue
		}

		for p := 0; p+2 < len(peaks); p++ {
			first := closes[peaks[p]]
			second := closes[peaks[p+1]]
			third := closes[peaks[p+2]]

			mean := (first + second + third) / 3
			if math.Abs(first-mean)/mean >= tripleTolerance ||
				math.Abs(second-mean)/mean >= tripleTolerance ||
				math.Abs(third-mean)/mean >= tripleTolerance {
				continue
			}

			between := indicesBetween(troughs, peaks[p], peaks[p+2])
			if len(between) == 0 {
				continue
			}

			triplet := []int{peaks[p], peaks[p+1], peaks[p+2]}
			support, resistance, err := SupportResistance(closes, triplet, between)
			if err != nil {
				return nil, err
			}

			matches = append(matches, shared.PatternMatch{
				Ticker:      series.Ticker,
				Kind:        shared.TripleTop,
				StartDate:   series.Bars[i+max(0, peaks[p]-contextBars)].Date,
				EndDate:     series.Bars[i+min(window-1, peaks[p+2]+contextBars)].Date,
				Support:     support,
				Resistance:  resistance,
				Peaks:       triplet,
				Troughs:     between,
				WindowStart: i,
				WindowEnd:   i + window,
			})
		}
	}

	return matches, nil
}

// DetectTripleBottom scans for triple bottom formations: three consecutive
// troughs each within tolerance of their mean, with at least one peak
// between the first and last.
func DetectTripleBottom(series *shared.PriceSeries) ([]shared.PatternMatch, error) {
	const window = tripleWindowSize
	if len(series.Bars) < window {
		return nil, nil
	}

	matches := make([]shared.PatternMatch, 0)
	for i := 0; i < len(series.Bars)-window; i++ {
		closes, peaks, troughs, err := windowExtrema(series, i, i+window)
		if err != nil {
			return nil, err
		}

		if len(peaks) < 2 || len(troughs) < 3 {
			continue
		}

		for t := 0; t+2 < len(troughs); t++ {
			first := closes[troughs[t]]
			second := closes[troughs[t+1]]
			third := closes[troughs[t+2]]

			mean := (first + second + third) / 3
			if math.Abs(first-mean)/mean >= tripleTolerance ||
				math.Abs(second-mean)/mean >= tripleTolerance ||
				math.Abs(third-mean)/mean >= tripleTolerance {
				continue
			}

			between := indicesBetween(peaks, troughs[t], troughs[t+2])
			if len(between) == 0 {
				continue
			}

			triplet := []int{troughs[t], troughs[t+1], troughs[t+2]}
			support, resistance, err := SupportResistance(closes, between, triplet)
			if err != nil {
				return nil, err
			}

			matches = append(matches, shared.PatternMatch{
				Ticker:      series.Ticker,
				Kind:        shared.TripleBottom,
				StartDate:   series.Bars[i+max(0, troughs[t]-contextBars)].Date,
				EndDate:     series.Bars[i+min(window-1, troughs[t+2]+contextBars)].Date,
				Support:     support,
				Resistance:  resistance,
				Peaks:       between,
				Troughs:     triplet,
				WindowStart: i,
				WindowEnd:   i + window,
			})
		}
	}

	return matches, nil
}
