package shared

import (
	"errors"
	"math"
	"testing"
	"time"
)

func linearBars(n int) []PriceBar {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]PriceBar, n)
	for idx := range bars {
		price := 100 + float64(idx)
		bars[idx] = PriceBar{
			Open:   price,
			High:   price + 1,
			Low:    price - 1,
			Close:  price,
			Volume: 1000,
			Date:   start.AddDate(0, 0, idx),
		}
	}
	return bars
}

func allColumns() ColumnSet {
	var columns ColumnSet
	columns.Add(ColumnOpen)
	columns.Add(ColumnHigh)
	columns.Add(ColumnLow)
	columns.Add(ColumnClose)
	columns.Add(ColumnVolume)
	return columns
}

func TestNewPriceSeriesValidation(t *testing.T) {
	// Ensure a series below the minimum size is rejected.
	_, err := NewPriceSeries("TEST", linearBars(MinSeriesSize-1), allColumns())
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected %v, got %v", ErrInsufficientData, err)
	}

	// Ensure duplicate dates are rejected.
	bars := linearBars(MinSeriesSize)
	bars[10].Date = bars[9].Date
	_, err = NewPriceSeries("TEST", bars, allColumns())
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected %v, got %v", ErrInvalidInput, err)
	}

	// Ensure out of order dates are rejected.
	bars = linearBars(MinSeriesSize)
	bars[4].Date = bars[20].Date
	_, err = NewPriceSeries("TEST", bars, allColumns())
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected %v, got %v", ErrInvalidInput, err)
	}

	// Ensure a valid series is accepted.
	series, err := NewPriceSeries("TEST", linearBars(MinSeriesSize), allColumns())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if series.Ticker != "TEST" || len(series.Bars) != MinSeriesSize {
		t.Errorf("unexpected series: ticker %s, %d bars", series.Ticker, len(series.Bars))
	}
}

func TestPriceSeriesEnrichment(t *testing.T) {
	series, err := NewPriceSeries("TEST", linearBars(60), allColumns())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The short moving average is undefined until its window fills.
	if !math.IsNaN(series.Bars[ShortMovingAveragePeriod-2].MA20) {
		t.Errorf("expected NaN MA20 before warmup, got %v",
			series.Bars[ShortMovingAveragePeriod-2].MA20)
	}
	// Closes run 100, 101, ... so the first full window averages to 109.5.
	if math.Abs(series.Bars[ShortMovingAveragePeriod-1].MA20-109.5) > 1e-9 {
		t.Errorf("expected MA20 109.5, got %v", series.Bars[ShortMovingAveragePeriod-1].MA20)
	}
	if math.Abs(series.Bars[ShortMovingAveragePeriod].MA20-110.5) > 1e-9 {
		t.Errorf("expected MA20 110.5, got %v", series.Bars[ShortMovingAveragePeriod].MA20)
	}

	if !math.IsNaN(series.Bars[LongMovingAveragePeriod-2].MA50) {
		t.Errorf("expected NaN MA50 before warmup, got %v",
			series.Bars[LongMovingAveragePeriod-2].MA50)
	}
	if math.Abs(series.Bars[LongMovingAveragePeriod-1].MA50-124.5) > 1e-9 {
		t.Errorf("expected MA50 124.5, got %v", series.Bars[LongMovingAveragePeriod-1].MA50)
	}

	// The first bar has no prior close to compute a return from.
	if !math.IsNaN(series.Bars[0].DailyReturn) {
		t.Errorf("expected NaN return on first bar, got %v", series.Bars[0].DailyReturn)
	}
	if math.Abs(series.Bars[1].DailyReturn-0.01) > 1e-9 {
		t.Errorf("expected return 0.01, got %v", series.Bars[1].DailyReturn)
	}

	if !math.IsNaN(series.Bars[VolatilityPeriod-1].Volatility) {
		t.Errorf("expected NaN volatility before warmup, got %v",
			series.Bars[VolatilityPeriod-1].Volatility)
	}
	vol := series.Bars[VolatilityPeriod].Volatility
	if math.IsNaN(vol) || vol <= 0 {
		t.Errorf("expected positive volatility after warmup, got %v", vol)
	}
}

func TestColumnSet(t *testing.T) {
	var columns ColumnSet

	if columns.Has(ColumnClose) {
		t.Error("empty set should not have the close column")
	}

	columns.Add(ColumnClose)
	columns.Add(ColumnVolume)

	if !columns.Has(ColumnClose) || !columns.Has(ColumnVolume) {
		t.Error("expected close and volume columns in the set")
	}
	if columns.Has(ColumnOpen) || columns.Has(ColumnHigh) || columns.Has(ColumnLow) {
		t.Error("unexpected columns in the set")
	}
}

func TestPriceSeriesSlices(t *testing.T) {
	series, err := NewPriceSeries("TEST", linearBars(MinSeriesSize), allColumns())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	closes := series.Closes(5, 10)
	highs := series.Highs(5, 10)
	lows := series.Lows(5, 10)

	if len(closes) != 5 || len(highs) != 5 || len(lows) != 5 {
		t.Fatalf("expected 5 values per slice, got %d, %d, %d",
			len(closes), len(highs), len(lows))
	}
	if closes[0] != 105 || highs[0] != 106 || lows[0] != 104 {
		t.Errorf("unexpected slice heads: close %v, high %v, low %v",
			closes[0], highs[0], lows[0])
	}
}
