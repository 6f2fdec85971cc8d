package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dnldd/chartscan/database"
	"github.com/dnldd/chartscan/detect"
	"github.com/dnldd/chartscan/fetch"
	"github.com/dnldd/chartscan/scan"
	"github.com/dnldd/chartscan/shared"
	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

// ScannerConfig represents the configuration struct for the scanner service.
type ScannerConfig struct {
	// Tickers represents the tracked tickers. When empty the ticker universe
	// is fetched from the market data provider.
	Tickers []string
	// FMPAPIkey is the FMP service API Key.
	FMPAPIKey string
	// ScanTime is the local time of day recurring scans run at. When empty
	// a single scan runs immediately.
	ScanTime string
	// HistoricDataFilepath is the filepath to historic price data. When set
	// the scanner runs over the file instead of fetching market data.
	HistoricDataFilepath string
	// DBEndpoint represents the database connection endpoint. When empty
	// matches are not persisted.
	DBEndpoint string
	// DBUser is the database user.
	DBUser string
	// DBPass is the database user pass.
	DBPass string
	// Cancel is the context cancellation function.
	Cancel context.CancelFunc
}

// Validate asserts the config sane inputs.
func (cfg *ScannerConfig) Validate() error {
	var errs error

	if cfg.HistoricDataFilepath == "" && cfg.FMPAPIKey == "" {
		errs = errors.Join(errs, fmt.Errorf("fmp api key cannot be an empty string"))
	}
	if cfg.Cancel == nil {
		errs = errors.Join(errs, fmt.Errorf("context cancellation function cannot be nil"))
	}

	return errs
}

// Scanner represents a chart pattern scanning service.
type Scanner struct {
	cfg         *ScannerConfig
	scanManager *scan.Manager
	db          *database.Database
	logger      *zerolog.Logger
	wg          sync.WaitGroup
}

// NewScanner initializes a new scanner service.
func NewScanner(ctx context.Context, cfg *ScannerConfig) (*Scanner, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating scanner config: %w", err)
	}

	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	logger := log.With().Str("service", "chartscan").Logger()

	var db *database.Database
	var persistMatches func(ctx context.Context, matches []shared.PatternMatch) error
	if cfg.DBEndpoint != "" {
		dbLogger := logger.With().Str("component", "database").Logger()
		db, err = database.NewDatabase(ctx, &database.DatabaseConfig{
			Endpoint: cfg.DBEndpoint,
			User:     cfg.DBUser,
			Pass:     cfg.DBPass,
			Logger:   &dbLogger,
		})
		if err != nil {
			return nil, fmt.Errorf("creating database: %v", err)
		}

		persistMatches = db.PersistMatches
	}

	var fetcher shared.MarketFetcher
	var jobScheduler *gocron.Scheduler
	if cfg.HistoricDataFilepath == "" {
		fmp, err := fetch.NewFMPClient(&fetch.FMPConfig{APIKey: cfg.FMPAPIKey, BaseURL: fetch.BaseURL})
		if err != nil {
			return nil, fmt.Errorf("creating fmp client: %v", err)
		}
		fetcher = fmp

		if cfg.ScanTime != "" {
			jobScheduler = gocron.NewScheduler(time.Local)
		}
	}

	var scanMgr *scan.Manager
	if fetcher != nil {
		scanMgrLogger := logger.With().Str("component", "scanmanager").Logger()
		scanMgr, err = scan.NewManager(&scan.ManagerConfig{
			Tickers:        cfg.Tickers,
			Fetcher:        fetcher,
			PersistMatches: persistMatches,
			JobScheduler:   jobScheduler,
			ScanTime:       cfg.ScanTime,
			Logger:         &scanMgrLogger,
		})
		if err != nil {
			return nil, fmt.Errorf("creating scan manager: %v", err)
		}
	}

	service := &Scanner{
		cfg:         cfg,
		scanManager: scanMgr,
		db:          db,
		logger:      &logger,
	}

	return service, nil
}

// logReport summarizes the provided detection results.
func (s *Scanner) logReport(results shared.DetectionResult) {
	for _, kind := range shared.PatternKinds {
		matches := results[kind]
		if len(matches) == 0 {
			continue
		}

		meta := shared.FetchPatternMetadata(kind)
		s.logger.Info().Msgf("%s: %d matches, historical success rate %s (%s confidence)",
			meta.DisplayName, len(matches), meta.SuccessRate, meta.Confidence)
	}
}

// scanHistoricData runs all pattern detectors over the series in the
// configured historic data file.
func (s *Scanner) scanHistoricData(ctx context.Context) error {
	series, err := fetch.LoadHistoricSeries(s.cfg.HistoricDataFilepath)
	if err != nil {
		return fmt.Errorf("loading historic data: %w", err)
	}

	results := make(shared.DetectionResult)
	for idx := range series {
		result, err := detect.DetectAll(series[idx])
		if err != nil {
			s.logger.Error().Msgf("scanning %s: %v", series[idx].Ticker, err)
			continue
		}

		results.Merge(result)
	}

	s.logReport(results)

	if s.db != nil {
		matches := make([]shared.PatternMatch, 0, results.Size())
		for _, kind := range shared.PatternKinds {
			matches = append(matches, results[kind]...)
		}

		err = s.db.PersistMatches(ctx, matches)
		if err != nil {
			return fmt.Errorf("persisting matches: %w", err)
		}
	}

	return nil
}

// Run handles the lifecycle processes of the scanner service.
func (s *Scanner) Run(ctx context.Context) {
	switch {
	case s.cfg.HistoricDataFilepath != "":
		err := s.scanHistoricData(ctx)
		if err != nil {
			s.logger.Error().Msgf("scanning historic data: %v", err)
		}

		s.cfg.Cancel()

	case s.cfg.ScanTime != "":
		s.wg.Add(1)
		go func() {
			s.scanManager.Run(ctx)
			s.wg.Done()
		}()

		s.wg.Wait()

	default:
		results, err := s.scanManager.ScanUniverse(ctx)
		if err != nil {
			s.logger.Error().Msgf("scanning ticker universe: %v", err)
		}

		s.logReport(results)
		s.cfg.Cancel()
	}
}
