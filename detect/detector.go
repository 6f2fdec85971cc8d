// Package detect implements the chart pattern detection engine: a shared
// extremum extraction primitive, linear trend and support/resistance
// estimation, and twelve sliding-window pattern classifiers.
//
// Every detector re-runs extraction and trend fits freshly for each sliding
// window rather than maintaining incremental statistics. This mirrors the
// reference behaviour and is a documented performance characteristic.
package detect

import (
	"fmt"

	"github.com/dnldd/chartscan/shared"
)

const (
	// Window sizes per pattern, in bars.
	cupWindowSize     = 120
	hnsWindowSize     = 120
	pennantWindowSize = 60
	doubleWindowSize  = 60
	tripleWindowSize  = 90
	channelWindowSize = 60

	// minTrendSlope is the threshold below which a fitted slope is considered flat.
	minTrendSlope = 0.01

	// cupPeakTolerance is the maximum relative difference between a cup's rim peaks.
	cupPeakTolerance = 0.05
	// cupDepthFraction bounds the cup trough below the lower rim peak.
	cupDepthFraction = 0.9
	// minHandleBars is the minimum number of bars after the cup's second rim
	// peak needed to form a handle.
	minHandleBars = 10
	// handleDipBars is the position of the handle's dip after the second rim peak.
	handleDipBars = 5

	// hnsHeadMargin is the factor by which a head must exceed both shoulders.
	hnsHeadMargin = 1.05
	// hnsShoulderTolerance is the maximum relative difference between shoulders.
	hnsShoulderTolerance = 0.1

	// poleBars is the span preceding a pennant window examined for the pole.
	poleBars = 20
	// minPoleBars is the minimum pole length for a pennant to be considered.
	minPoleBars = 15
	// minPoleMove is the minimum relative price move over the pole.
	minPoleMove = 0.1

	// doubleTolerance is the maximum relative difference between a double
	// top's peaks or a double bottom's troughs. Deliberately tighter than
	// tripleTolerance; the two must not be unified or detection results change.
	doubleTolerance = 0.03
	// tripleTolerance is the maximum relative deviation of a triple top's
	// peaks or triple bottom's troughs from their mean.
	tripleTolerance = 0.05

	// corridorSlopeTolerance is the maximum relative difference between a
	// corridor's high and low slopes.
	corridorSlopeTolerance = 0.3
	// rectangleMinGap is the minimum relative gap between a neutral
	// rectangle's resistance and support.
	rectangleMinGap = 0.03
	// triangleMaxConvergence is the maximum relative gap between an ascending
	// triangle's trendline endpoints.
	triangleMaxConvergence = 0.1

	// contextBars is the date context added around a shape pattern's anchoring extrema.
	contextBars = 5
)

// Detector is the contract shared by all pattern classifiers: scan every
// fixed-size sliding window of the series and emit zero or more matches.
// A series shorter than the detector's window yields an empty result and no
// error.
type Detector func(series *shared.PriceSeries) ([]shared.PatternMatch, error)

// detectors lists all pattern classifiers in their fixed run order.
var detectors = []struct {
	kind shared.PatternKind
	fn   Detector
}{
	{shared.CupWithHandle, DetectCupWithHandle},
	{shared.HeadAndShoulders, DetectHeadAndShoulders},
	{shared.Pennant, DetectPennant},
	{shared.DoubleTop, DetectDoubleTop},
	{shared.DoubleBottom, DetectDoubleBottom},
	{shared.TripleTop, DetectTripleTop},
	{shared.TripleBottom, DetectTripleBottom},
	{shared.AscendingCorridor, DetectAscendingCorridor},
	{shared.DescendingCorridor, DetectDescendingCorridor},
	{shared.NeutralRectangle, DetectNeutralRectangle},
	{shared.DivergingRectangle, DetectDivergingRectangle},
	{shared.AscendingTriangle, DetectAscendingTriangle},
}

// DetectAll runs every pattern detector against the provided series and
// assembles the matches found per pattern kind. Kinds whose detectors found
// nothing are absent from the result. Detector failures are propagated, not
// contained; isolating a failing ticker from the rest of a batch is the
// caller's responsibility.
func DetectAll(series *shared.PriceSeries) (shared.DetectionResult, error) {
	if !series.Columns.Has(shared.ColumnClose) {
		return nil, fmt.Errorf("%w: %s series has no close price data", shared.ErrMissingColumn, series.Ticker)
	}

	result := make(shared.DetectionResult)
	for idx := range detectors {
		matches, err := detectors[idx].fn(series)
		if err != nil {
			return nil, fmt.Errorf("detecting %s for %s: %w", detectors[idx].kind.String(), series.Ticker, err)
		}
		if len(matches) > 0 {
			result[detectors[idx].kind] = matches
		}
	}

	return result, nil
}

// indicesBetween filters indices strictly between lo and hi.
func indicesBetween(indices []int, lo int, hi int) []int {
	between := make([]int, 0, len(indices))
	for _, idx := range indices {
		if idx > lo && idx < hi {
			between = append(between, idx)
		}
	}
	return between
}

// windowExtrema extracts the peaks and troughs of the series' closes in
// [start, end) using the shared detector parameters.
func windowExtrema(series *shared.PriceSeries, start int, end int) ([]float64, []int, []int, error) {
	closes := series.Closes(start, end)
	peaks, troughs, err := FindExtrema(closes, DetectorSeparation, ProminenceFraction)
	if err != nil {
		return nil, nil, nil, err
	}
	return closes, peaks, troughs, nil
}

// windowTrends fits trendlines to the series' highs and lows in [start, end).
func windowTrends(series *shared.PriceSeries, start int, end int) (float64, float64, []float64, []float64, error) {
	highSlope, highLine, err := LinearTrend(series.Highs(start, end))
	if err != nil {
		return 0, 0, nil, nil, err
	}
	lowSlope, lowLine, err := LinearTrend(series.Lows(start, end))
	if err != nil {
		return 0, 0, nil, nil, err
	}
	return highSlope, lowSlope, highLine, lowLine, nil
}
