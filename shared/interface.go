package shared

import (
	"context"
	"time"

	"github.com/tidwall/gjson"
)

// MarketFetcher defines the requirements for fetching market data.
type MarketFetcher interface {
	// FetchDailyHistorical fetches daily historical price data for the
	// provided ticker.
	FetchDailyHistorical(ctx context.Context, ticker string, start time.Time, end time.Time) ([]gjson.Result, error)
	// ParsePriceSeries parses an enriched price series from the provided
	// json data.
	ParsePriceSeries(data []gjson.Result, ticker string) (*PriceSeries, error)
	// FetchTickerUniverse fetches the universe of tickers to scan.
	FetchTickerUniverse(ctx context.Context) ([]string, error)
}
