package shared

import (
	"fmt"
	"math"
	"time"
)

const (
	// DateLayout is the format layout for parsing daily bar dates.
	DateLayout = "2006-01-02"
	// MinSeriesSize is the minimum number of daily bars required before a
	// series is accepted for scanning.
	MinSeriesSize = 30
	// ShortMovingAveragePeriod is the period of the short simple moving average.
	ShortMovingAveragePeriod = 20
	// LongMovingAveragePeriod is the period of the long simple moving average.
	LongMovingAveragePeriod = 50
	// VolatilityPeriod is the rolling window for the daily return standard deviation.
	VolatilityPeriod = 20
)

// Column represents a price field of a series.
type Column uint8

const (
	ColumnOpen Column = 1 << iota
	ColumnHigh
	ColumnLow
	ColumnClose
	ColumnVolume
)

// ColumnSet tracks which price fields a loaded series actually carries.
type ColumnSet uint8

// Has checks whether the provided column is part of the set.
func (c ColumnSet) Has(col Column) bool {
	return uint8(c)&uint8(col) != 0
}

// Add adds the provided column to the set.
func (c *ColumnSet) Add(col Column) {
	*c = ColumnSet(uint8(*c) | uint8(col))
}

// PriceBar represents a unit daily bar for a ticker.
type PriceBar struct {
	Open   float64
	Low    float64
	High   float64
	Close  float64
	Volume int64
	Date   time.Time

	// Derived fields, NaN until their warmup periods elapse.
	MA20        float64
	MA50        float64
	DailyReturn float64
	Volatility  float64
}

// PriceSeries represents an ordered daily price series for one ticker.
// Bars are strictly ascending by date. The series is immutable input to the
// detection engine, which only reads sub-windows by position.
type PriceSeries struct {
	Ticker  string
	Bars    []PriceBar
	Columns ColumnSet
}

// NewPriceSeries initializes an enriched price series from the provided bars.
func NewPriceSeries(ticker string, bars []PriceBar, columns ColumnSet) (*PriceSeries, error) {
	if len(bars) < MinSeriesSize {
		return nil, fmt.Errorf("%w: %s has %d bars, need at least %d",
			ErrInsufficientData, ticker, len(bars), MinSeriesSize)
	}

	for idx := 1; idx < len(bars); idx++ {
		if !bars[idx-1].Date.Before(bars[idx].Date) {
			return nil, fmt.Errorf("%w: %s bars are not strictly ascending by date at position %d",
				ErrInvalidInput, ticker, idx)
		}
	}

	series := &PriceSeries{
		Ticker:  ticker,
		Bars:    bars,
		Columns: columns,
	}
	series.enrich()

	return series, nil
}

// enrich computes the derived per-bar fields: the 20 and 50 period simple
// moving averages of close, the daily return and its 20 period rolling
// sample standard deviation.
func (s *PriceSeries) enrich() {
	nan := math.NaN()
	for idx := range s.Bars {
		s.Bars[idx].MA20 = nan
		s.Bars[idx].MA50 = nan
		s.Bars[idx].DailyReturn = nan
		s.Bars[idx].Volatility = nan
	}

	for idx := range s.Bars {
		if idx >= ShortMovingAveragePeriod-1 {
			s.Bars[idx].MA20 = meanClose(s.Bars[idx-ShortMovingAveragePeriod+1 : idx+1])
		}
		if idx >= LongMovingAveragePeriod-1 {
			s.Bars[idx].MA50 = meanClose(s.Bars[idx-LongMovingAveragePeriod+1 : idx+1])
		}
		if idx > 0 && s.Bars[idx-1].Close != 0 {
			s.Bars[idx].DailyReturn = (s.Bars[idx].Close - s.Bars[idx-1].Close) / s.Bars[idx-1].Close
		}
	}

	// VolatilityPeriod returns are needed before the rolling standard
	// deviation is defined, so the first defined value is at bar
	// VolatilityPeriod (returns start at bar 1).
	for idx := VolatilityPeriod; idx < len(s.Bars); idx++ {
		returns := make([]float64, 0, VolatilityPeriod)
		for k := idx - VolatilityPeriod + 1; k <= idx; k++ {
			returns = append(returns, s.Bars[k].DailyReturn)
		}
		s.Bars[idx].Volatility = sampleStdDev(returns)
	}
}

// meanClose returns the arithmetic mean of the close prices of the provided bars.
func meanClose(bars []PriceBar) float64 {
	var sum float64
	for idx := range bars {
		sum += bars[idx].Close
	}
	return sum / float64(len(bars))
}

// sampleStdDev returns the sample standard deviation of the provided values.
func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}

	var sum float64
	for idx := range values {
		sum += values[idx]
	}
	mean := sum / float64(len(values))

	var squares float64
	for idx := range values {
		diff := values[idx] - mean
		squares += diff * diff
	}

	return math.Sqrt(squares / float64(len(values)-1))
}

// Closes returns the close prices of the bars in [start, end).
func (s *PriceSeries) Closes(start int, end int) []float64 {
	closes := make([]float64, 0, end-start)
	for idx := start; idx < end; idx++ {
		closes = append(closes, s.Bars[idx].Close)
	}
	return closes
}

// Highs returns the high prices of the bars in [start, end).
func (s *PriceSeries) Highs(start int, end int) []float64 {
	highs := make([]float64, 0, end-start)
	for idx := start; idx < end; idx++ {
		highs = append(highs, s.Bars[idx].High)
	}
	return highs
}

// Lows returns the low prices of the bars in [start, end).
func (s *PriceSeries) Lows(start int, end int) []float64 {
	lows := make([]float64, 0, end-start)
	for idx := start; idx < end; idx++ {
		lows = append(lows, s.Bars[idx].Low)
	}
	return lows
}
