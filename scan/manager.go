// Package scan coordinates pattern scans across a ticker universe.
package scan

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dnldd/chartscan/detect"
	"github.com/dnldd/chartscan/shared"
	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// maxWorkers is the maximum number of concurrent scan workers.
	maxWorkers = 8
	// lookbackDays is the span of daily history fetched per ticker,
	// roughly two years of sessions.
	lookbackDays = 730
)

// ManagerConfig represents the scan manager configuration.
type ManagerConfig struct {
	// Tickers is the collection of tickers to scan. When empty the ticker
	// universe is fetched from the market data provider.
	Tickers []string
	// Fetcher is the market data fetcher.
	Fetcher shared.MarketFetcher
	// PersistMatches persists the provided pattern matches.
	PersistMatches func(ctx context.Context, matches []shared.PatternMatch) error
	// JobScheduler schedules recurring scans.
	JobScheduler *gocron.Scheduler
	// ScanTime is the local time of day recurring scans run at.
	ScanTime string
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Validate asserts the config sane inputs.
func (cfg *ManagerConfig) Validate() error {
	var errs error

	if cfg.Fetcher == nil {
		errs = errors.Join(errs, fmt.Errorf("fetcher cannot be nil"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, fmt.Errorf("logger cannot be nil"))
	}

	return errs
}

// Manager runs pattern scans over the tracked ticker universe.
type Manager struct {
	cfg     *ManagerConfig
	workers chan struct{}
}

// NewManager initializes a new scan manager.
func NewManager(cfg *ManagerConfig) (*Manager, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating scan manager config: %w", err)
	}

	return &Manager{
		cfg:     cfg,
		workers: make(chan struct{}, maxWorkers),
	}, nil
}

// ScanSeries runs all pattern detectors on the provided price series.
func (m *Manager) ScanSeries(series *shared.PriceSeries) (shared.DetectionResult, error) {
	result, err := detect.DetectAll(series)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", series.Ticker, err)
	}

	return result, nil
}

// ScanTicker fetches daily history for the provided ticker and runs all
// pattern detectors on it.
func (m *Manager) ScanTicker(ctx context.Context, ticker string) (shared.DetectionResult, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -lookbackDays)

	data, err := m.cfg.Fetcher.FetchDailyHistorical(ctx, ticker, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetching history for %s: %w", ticker, err)
	}

	series, err := m.cfg.Fetcher.ParsePriceSeries(data, ticker)
	if err != nil {
		return nil, fmt.Errorf("parsing series for %s: %w", ticker, err)
	}

	return m.ScanSeries(series)
}

// ScanUniverse scans the tracked ticker universe concurrently and returns the
// merged detection results. Results are local to the run; each call starts
// from an empty result set. Tickers that fail to scan are logged and skipped.
func (m *Manager) ScanUniverse(ctx context.Context) (shared.DetectionResult, error) {
	tickers := m.cfg.Tickers
	if len(tickers) == 0 {
		universe, err := m.cfg.Fetcher.FetchTickerUniverse(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetching ticker universe: %w", err)
		}
		tickers = universe
	}

	run := uuid.New().String()
	m.cfg.Logger.Info().Msgf("scan run %s started for %d tickers", run, len(tickers))

	results := make(shared.DetectionResult)

	var wg sync.WaitGroup
	var resultsMtx sync.Mutex
	for idx := range tickers {
		wg.Add(1)
		m.workers <- struct{}{}
		go func(ticker string) {
			defer func() {
				<-m.workers
				wg.Done()
			}()

			result, err := m.ScanTicker(ctx, ticker)
			if err != nil {
				m.cfg.Logger.Error().Msgf("scan run %s: %v", run, err)
				return
			}

			resultsMtx.Lock()
			results.Merge(result)
			resultsMtx.Unlock()
		}(tickers[idx])
	}

	wg.Wait()

	m.cfg.Logger.Info().Msgf("scan run %s done, %d matches", run, results.Size())

	if m.cfg.PersistMatches != nil {
		err := m.cfg.PersistMatches(ctx, flatten(results))
		if err != nil {
			m.cfg.Logger.Error().Msgf("scan run %s: persisting matches: %v", run, err)
		}
	}

	return results, nil
}

// flatten collects detection results into a single match collection, ordered
// by pattern kind.
func flatten(results shared.DetectionResult) []shared.PatternMatch {
	matches := make([]shared.PatternMatch, 0, results.Size())
	for _, kind := range shared.PatternKinds {
		matches = append(matches, results[kind]...)
	}

	return matches
}

// Run manages the lifecycle processes of the scan manager.
func (m *Manager) Run(ctx context.Context) {
	if m.cfg.JobScheduler != nil && m.cfg.ScanTime != "" {
		_, err := m.cfg.JobScheduler.Every(1).Day().At(m.cfg.ScanTime).Do(func() {
			_, err := m.ScanUniverse(ctx)
			if err != nil {
				m.cfg.Logger.Error().Msgf("scheduled scan: %v", err)
			}
		})
		if err != nil {
			m.cfg.Logger.Error().Msgf("scheduling daily scan: %v", err)
			return
		}

		m.cfg.JobScheduler.StartAsync()
	}

	<-ctx.Done()

	if m.cfg.JobScheduler != nil {
		m.cfg.JobScheduler.Stop()
	}
}
