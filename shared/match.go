package shared

import (
	"time"
)

// PatternMatch represents one detected occurrence of a pattern. It carries
// enough information for a renderer to re-slice the original series and draw
// the pattern without recomputation. A match is immutable once built.
type PatternMatch struct {
	// Ticker is the scanned ticker symbol.
	Ticker string
	// Kind is the detected pattern kind.
	Kind PatternKind
	// StartDate and EndDate bound the matched formation, inclusive.
	StartDate time.Time
	EndDate   time.Time
	// Support and Resistance are the estimated price levels, NaN when the
	// detector found no anchoring troughs or peaks respectively.
	Support    float64
	Resistance float64
	// WindowStart and WindowEnd are absolute positions into the original
	// series, used to re-slice it for display.
	WindowStart int
	WindowEnd   int

	// Peaks and Troughs hold window-relative extremum indices for shape
	// patterns; nil for linear trend patterns.
	Peaks   []int
	Troughs []int

	// HighSlope, LowSlope, HighLine and LowLine hold the fitted trendline
	// slopes and samples for linear trend patterns; lines are nil for shape
	// patterns.
	HighSlope float64
	LowSlope  float64
	HighLine  []float64
	LowLine   []float64

	// PoleStart and PennantStart are absolute positions bounding a pennant's
	// pole: the pole runs [PoleStart, PennantStart) and the consolidation
	// runs [PennantStart, WindowEnd). Only set for pennant matches.
	PoleStart    int
	PennantStart int
}

// DetectionResult maps pattern kinds to the matches found for one ticker.
// A kind is present only when its detector returned at least one match.
type DetectionResult map[PatternKind][]PatternMatch

// Merge appends the provided result's matches into the receiver, kind by kind.
func (r DetectionResult) Merge(other DetectionResult) {
	for _, kind := range PatternKinds {
		if matches, ok := other[kind]; ok {
			r[kind] = append(r[kind], matches...)
		}
	}
}

// Size returns the total number of matches across all kinds.
func (r DetectionResult) Size() int {
	var n int
	for _, matches := range r {
		n += len(matches)
	}
	return n
}
