package fetch

import (
	"fmt"
	"os"

	"github.com/dnldd/chartscan/shared"
	"github.com/tidwall/gjson"
)

// LoadHistoricSeries loads enriched price series from the provided historic
// data file. The file is expected to be a json document with a top level
// tickers array, each entry carrying a ticker symbol and its daily bars.
func LoadHistoricSeries(filePath string) ([]*shared.PriceSeries, error) {
	file, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading historic data file: %w", err)
	}

	data := gjson.ParseBytes(file)
	entries := data.Get("tickers").Array()
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no tickers in historic data file %s",
			shared.ErrInsufficientData, filePath)
	}

	series := make([]*shared.PriceSeries, 0, len(entries))
	for idx := range entries {
		ticker := entries[idx].Get("ticker").String()
		if ticker == "" {
			return nil, fmt.Errorf("%w: historic data entry %d has no ticker",
				shared.ErrInvalidInput, idx)
		}

		bars, columns, err := parseBars(entries[idx].Get("bars").Array())
		if err != nil {
			return nil, fmt.Errorf("parsing historic bars for %s: %w", ticker, err)
		}

		set, err := shared.NewPriceSeries(ticker, bars, columns)
		if err != nil {
			return nil, err
		}

		series = append(series, set)
	}

	return series, nil
}
