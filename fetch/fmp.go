// Package fetch retrieves daily market data from the Financial Modeling
// Preparation (FMP) API and parses it into enriched price series for the
// detection engine.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/dnldd/chartscan/shared"
	"github.com/tidwall/gjson"
)

const (
	// BaseURL is the base url of the FMP API.
	BaseURL = "https://financialmodelingprep.com/stable"
)

// fallbackTickers is the reduced ticker universe used when the constituent
// fetch fails.
var fallbackTickers = []string{
	"AAPL", "MSFT", "AMZN", "GOOGL", "META", "TSLA", "NVDA", "JPM", "JNJ", "V",
	"PG", "UNH", "HD", "MA", "DIS", "BAC", "ADBE", "CRM", "NFLX", "CMCSA",
}

// FMPConfig represents the configuration for the FMP client.
type FMPConfig struct {
	// APIKey is the FMP API Key.
	APIKey string
	// BaseURL is the base url of the FMP API.
	BaseURL string
}

// FMPClient represents the Financial Modeling Preparation (FMP) API client.
// It is safe for concurrent use by the scan workers.
type FMPClient struct {
	cfg    *FMPConfig
	httpc  http.Client
	bufMtx sync.Mutex
	buf    *bytes.Buffer
}

// Ensure the FMPClient implements the MarketFetcher interface.
var _ shared.MarketFetcher = (*FMPClient)(nil)

// NewFMPClient instantiates a new FMP client.
func NewFMPClient(cfg *FMPConfig) (*FMPClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("fmp api key cannot be an empty string")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = BaseURL
	}

	return &FMPClient{
		cfg:   cfg,
		httpc: http.Client{Timeout: time.Second * 5},
		buf:   bytes.NewBuffer(make([]byte, 0, 512)),
	}, nil
}

// formURL creates full urls including parameters for the api.
func (c *FMPClient) formURL(path string, params string) string {
	c.bufMtx.Lock()
	defer c.bufMtx.Unlock()

	c.buf.WriteString(c.cfg.BaseURL)
	c.buf.WriteString(path)
	c.buf.WriteString("?")
	c.buf.WriteString(params)
	url := c.buf.String()
	c.buf.Reset()

	return url
}

// fetch executes the provided request and returns the response body parsed
// as a json array.
func (c *FMPClient) fetch(ctx context.Context, formedURL string) ([]gjson.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, formedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, formedURL)
	}

	return gjson.ParseBytes(body).Array(), nil
}

// FetchDailyHistorical fetches daily historical price data for the provided ticker.
func (c *FMPClient) FetchDailyHistorical(ctx context.Context, ticker string, start time.Time, end time.Time) ([]gjson.Result, error) {
	const dailyHistoricalPath = "/historical-price-eod/full"

	params := url.Values{}
	params.Add("symbol", ticker)
	params.Add("apikey", c.cfg.APIKey)
	if !start.IsZero() {
		params.Add("from", start.Format(shared.DateLayout))
	}
	if !end.IsZero() {
		params.Add("to", end.Format(shared.DateLayout))
	}

	data, err := c.fetch(ctx, c.formURL(dailyHistoricalPath, params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("fetching daily historical data for %s: %w", ticker, err)
	}

	return data, nil
}

// FetchTickerUniverse fetches the S&P 500 constituent tickers. A fixed
// reduced universe is returned when the fetch fails.
func (c *FMPClient) FetchTickerUniverse(ctx context.Context) ([]string, error) {
	const constituentsPath = "/sp500-constituent"

	params := url.Values{}
	params.Add("apikey", c.cfg.APIKey)

	data, err := c.fetch(ctx, c.formURL(constituentsPath, params.Encode()))
	if err != nil || len(data) == 0 {
		return slices.Clone(fallbackTickers), nil
	}

	tickers := make([]string, 0, len(data))
	for idx := range data {
		symbol := data[idx].Get("symbol").String()
		if symbol != "" {
			tickers = append(tickers, symbol)
		}
	}

	return tickers, nil
}

// ParsePriceSeries parses an enriched price series from the provided json data.
func (c *FMPClient) ParsePriceSeries(data []gjson.Result, ticker string) (*shared.PriceSeries, error) {
	bars, columns, err := parseBars(data)
	if err != nil {
		return nil, fmt.Errorf("parsing bars for %s: %w", ticker, err)
	}

	return shared.NewPriceSeries(ticker, bars, columns)
}

// parseBars parses daily bars from the provided json data, recording which
// price fields were present, and sorts them ascending by date.
func parseBars(data []gjson.Result) ([]shared.PriceBar, shared.ColumnSet, error) {
	if len(data) == 0 {
		return nil, 0, fmt.Errorf("%w: no price data", shared.ErrInsufficientData)
	}

	var columns shared.ColumnSet
	fields := []struct {
		name   string
		column shared.Column
	}{
		{"open", shared.ColumnOpen},
		{"high", shared.ColumnHigh},
		{"low", shared.ColumnLow},
		{"close", shared.ColumnClose},
		{"volume", shared.ColumnVolume},
	}
	for idx := range fields {
		if data[0].Get(fields[idx].name).Exists() {
			columns.Add(fields[idx].column)
		}
	}

	bars := make([]shared.PriceBar, len(data))
	for idx := range data {
		var bar shared.PriceBar

		bar.Open = data[idx].Get("open").Float()
		bar.High = data[idx].Get("high").Float()
		bar.Low = data[idx].Get("low").Float()
		bar.Close = data[idx].Get("close").Float()
		bar.Volume = data[idx].Get("volume").Int()

		dt, err := time.Parse(shared.DateLayout, data[idx].Get("date").String())
		if err != nil {
			return nil, 0, fmt.Errorf("parsing bar date: %w", err)
		}
		bar.Date = dt

		bars[idx] = bar
	}

	slices.SortFunc(bars, func(a, b shared.PriceBar) int {
		switch {
		case a.Date.Before(b.Date):
			return -1
		case a.Date.After(b.Date):
			return 1
		default:
			return 0
		}
	})

	return bars, columns, nil
}
