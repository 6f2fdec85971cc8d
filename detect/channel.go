package detect

import (
	"math"

	"github.com/dnldd/chartscan/shared"
)

// DetectPennant scans for pennant formations: a strong directional move (the
// pole) followed by a consolidation where the highs trend down and the lows
// trend up, converging.
func DetectPennant(series *shared.PriceSeries) ([]shared.PatternMatch, error) {
	const window = pennantWindowSize
	if len(series.Bars) < window {
		return nil, nil
	}

	matches := make([]shared.PatternMatch, 0)
	for i := 0; i < len(series.Bars)-window; i++ {
		poleStart := max(0, i-poleBars)
		if i-poleStart < minPoleBars {
			continue
		}

		poleOpen := series.Bars[poleStart].Close
		poleClose := series.Bars[i-1].Close
		if math.Abs(poleClose-poleOpen)/poleOpen < minPoleMove {
			continue
		}

		highSlope, lowSlope, highLine, lowLine, err := windowTrends(series, i, i+window)
		if err != nil {
			return nil, err
		}

		if highSlope >= -minTrendSlope || lowSlope <= minTrendSlope {
			continue
		}

		matches = append(matches, shared.PatternMatch{
			Ticker:       series.Ticker,
			Kind:         shared.Pennant,
			StartDate:    series.Bars[poleStart].Date,
			EndDate:      series.Bars[i+window-1].Date,
			Support:      lowLine[len(lowLine)-1],
			Resistance:   highLine[len(highLine)-1],
			HighSlope:    highSlope,
			LowSlope:     lowSlope,
			PoleStart:    poleStart,
			PennantStart: i,
			WindowStart:  poleStart,
			WindowEnd:    i + window,
		})
	}

	return matches, nil
}

// DetectAscendingCorridor scans for ascending corridors: highs and lows both
// trending up along near-parallel lines.
func DetectAscendingCorridor(series *shared.PriceSeries) ([]shared.PatternMatch, error) {
	const window = channelWindowSize
	if len(series.Bars) < window {
		return nil, nil
	}

	matches := make([]shared.PatternMatch, 0)
	for i := 0; i < len(series.Bars)-window; i++ {
		highSlope, lowSlope, highLine, lowLine, err := windowTrends(series, i, i+window)
		if err != nil {
			return nil, err
		}

		if highSlope <= minTrendSlope || lowSlope <= minTrendSlope {
			continue
		}
		if math.Abs(highSlope-lowSlope)/highSlope >= corridorSlopeTolerance {
			continue
		}

		matches = append(matches, shared.PatternMatch{
			Ticker:      series.Ticker,
			Kind:        shared.AscendingCorridor,
			StartDate:   series.Bars[i].Date,
			EndDate:     series.Bars[i+window-1].Date,
			Support:     lowLine[len(lowLine)-1],
			Resistance:  highLine[len(highLine)-1],
			HighSlope:   highSlope,
			LowSlope:    lowSlope,
			HighLine:    highLine,
			LowLine:     lowLine,
			WindowStart: i,
			WindowEnd:   i + window,
		})
	}

	return matches, nil
}

// DetectDescendingCorridor scans for descending corridors: highs and lows
// both trending down along near-parallel lines.
func DetectDescendingCorridor(series *shared.PriceSeries) ([]shared.PatternMatch, error) {
	const window = channelWindowSize
	if len(series.Bars) < window {
		return nil, nil
	}

	matches := make([]shared.PatternMatch, 0)
	for i := 0; i < len(series.Bars)-window; i++ {
		highSlope, lowSlope, highLine, lowLine, err := windowTrends(series, i, i+window)
		if err != nil {
			return nil, err
		}

		if highSlope >= -minTrendSlope || lowSlope >= -minTrendSlope {
			continue
		}
		if math.Abs(highSlope-lowSlope)/math.Abs(highSlope) >= corridorSlopeTolerance {
			continue
		}

		matches = append(matches, shared.PatternMatch{
			Ticker:      series.Ticker,
			Kind:        shared.DescendingCorridor,
			StartDate:   series.Bars[i].Date,
			EndDate:     series.Bars[i+window-1].Date,
			Support:     lowLine[len(lowLine)-1],
			Resistance:  highLine[len(highLine)-1],
			HighSlope:   highSlope,
			LowSlope:    lowSlope,
			HighLine:    highLine,
			LowLine:     lowLine,
			WindowStart: i,
			WindowEnd:   i + window,
		})
	}

	return matches, nil
}

// DetectNeutralRectangle scans for trading ranges: flat high and low
// trendlines with a significant gap between the average high and average low.
func DetectNeutralRectangle(series *shared.PriceSeries) ([]shared.PatternMatch, error) {
	const window = channelWindowSize
	if len(series.Bars) < window {
		return nil, nil
	}

	matches := make([]shared.PatternMatch, 0)
	for i := 0; i < len(series.Bars)-window; i++ {
		highs := series.Highs(i, i+window)
		lows := series.Lows(i, i+window)

		highSlope, _, err := LinearTrend(highs)
		if err != nil {
			return nil, err
		}
		lowSlope, _, err := LinearTrend(lows)
		if err != nil {
			return nil, err
		}

		if math.Abs(highSlope) >= minTrendSlope || math.Abs(lowSlope) >= minTrendSlope {
			continue
		}

		resistance := mean(highs)
		support := mean(lows)
		if (resistance-support)/support <= rectangleMinGap {
			continue
		}

		matches = append(matches, shared.PatternMatch{
			Ticker:      series.Ticker,
			Kind:        shared.NeutralRectangle,
			StartDate:   series.Bars[i].Date,
			EndDate:     series.Bars[i+window-1].Date,
			Support:     support,
			Resistance:  resistance,
			HighSlope:   highSlope,
			LowSlope:    lowSlope,
			WindowStart: i,
			WindowEnd:   i + window,
		})
	}

	return matches, nil
}

// DetectDivergingRectangle scans for broadening formations: highs trending
// up while lows trend down.
func DetectDivergingRectangle(series *shared.PriceSeries) ([]shared.PatternMatch, error) {
	const window = channelWindowSize
	if len(series.Bars) < window {
		return nil, nil
	}

	matches := make([]shared.PatternMatch, 0)
	for i := 0; i < len(series.Bars)-window; i++ {
		highSlope, lowSlope, highLine, lowLine, err := windowTrends(series, i, i+window)
		if err != nil {
			return nil, err
		}

		if highSlope <= minTrendSlope || lowSlope >= -minTrendSlope {
			continue
		}

		matches = append(matches, shared.PatternMatch{
			Ticker:      series.Ticker,
			Kind:        shared.DivergingRectangle,
			StartDate:   series.Bars[i].Date,
			EndDate:     series.Bars[i+window-1].Date,
			Support:     lowLine[len(lowLine)-1],
			Resistance:  highLine[len(highLine)-1],
			HighSlope:   highSlope,
			LowSlope:    lowSlope,
			HighLine:    highLine,
			LowLine:     lowLine,
			WindowStart: i,
			WindowEnd:   i + window,
		})
	}

	return matches, nil
}

// DetectAscendingTriangle scans for ascending triangles: a flat high
// trendline with lows trending up towards it, converging by the window's end.
func DetectAscendingTriangle(series *shared.PriceSeries) ([]shared.PatternMatch, error) {
	const window = channelWindowSize
	if len(series.Bars) < window {
		return nil, nil
	}

	matches := make([]shared.PatternMatch, 0)
	for i := 0; i < len(series.Bars)-window; i++ {
		highSlope, lowSlope, highLine, lowLine, err := windowTrends(series, i, i+window)
		if err != nil {
			return nil, err
		}

		if math.Abs(highSlope) >= minTrendSlope || lowSlope <= minTrendSlope {
			continue
		}

		resistance := highLine[len(highLine)-1]
		support := lowLine[len(lowLine)-1]
		if (resistance-support)/support >= triangleMaxConvergence {
			continue
		}

		matches = append(matches, shared.PatternMatch{
			Ticker:      series.Ticker,
			Kind:        shared.AscendingTriangle,
			StartDate:   series.Bars[i].Date,
			EndDate:     series.Bars[i+window-1].Date,
			Support:     support,
			Resistance:  resistance,
			HighSlope:   highSlope,
			LowSlope:    lowSlope,
			HighLine:    highLine,
			LowLine:     lowLine,
			WindowStart: i,
			WindowEnd:   i + window,
		})
	}

	return matches, nil
}

// mean returns the arithmetic mean of the provided values.
func mean(values []float64) float64 {
	var sum float64
	for idx := range values {
		sum += values[idx]
	}
	return sum / float64(len(values))
}
