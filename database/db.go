package database

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/dnldd/chartscan/shared"
	"github.com/google/uuid"
	rqlitehttp "github.com/rqlite/rqlite-go-http"
	"github.com/rs/zerolog"
)

const (
	// SQL statements.
	createMatchTableSQL    = "CREATE TABLE IF NOT EXISTS patternmatch (id TEXT PRIMARY KEY, ticker TEXT, pattern TEXT, startdate TEXT, enddate TEXT, support REAL, resistance REAL, windowstart INTEGER, windowend INTEGER, createdon INTEGER)"
	createMetadataTableSQL = "CREATE TABLE IF NOT EXISTS scanmetadata (id TEXT PRIMARY KEY, total INTEGER, createdon INTEGER)"
	persistMatchSQL        = "INSERT INTO patternmatch(id, ticker, pattern, startdate, enddate, support, resistance, windowstart, windowend, createdon) VALUES(?,?,?,?,?,?,?,?,?,?)"
	findMetadataSQL        = "SELECT * FROM scanmetadata WHERE id = ?"
	updateMetadataSQL      = "UPDATE scanmetadata SET total = total + ? WHERE id = ?"
	persistMetadataSQL     = "INSERT INTO scanmetadata(id, total, createdon) VALUES(?,?,?)"
)

// MatchStorer defines the requirements for storing pattern matches.
type MatchStorer interface {
	// PersistMatches stores the provided pattern matches to the database.
	PersistMatches(ctx context.Context, matches []shared.PatternMatch) error
}

// DatabaseConfig is the configuration for the database.
type DatabaseConfig struct {
	// Endpoint represents the database connection endpoint.
	Endpoint string
	// User is the database user.
	User string
	// Pass is the database user pass.
	Pass string
	// Logger is the database logger.
	Logger *zerolog.Logger
}

// Database represents the database connection.
type Database struct {
	cfg    *DatabaseConfig
	client *rqlitehttp.Client
}

// Ensure the database implements the MatchStorer interface.
var _ MatchStorer = (*Database)(nil)

// NewDatabase initializes a new database connection.
func NewDatabase(ctx context.Context, cfg *DatabaseConfig) (*Database, error) {
	httpc := &http.Client{Timeout: time.Second * 5}
	client, err := rqlitehttp.NewClient(cfg.Endpoint, httpc)
	if err != nil {
		return nil, fmt.Errorf("creating database client: %w", err)
	}

	client.SetBasicAuth(cfg.User, cfg.Pass)

	db := &Database{
		cfg:    cfg,
		client: client,
	}

	err = db.bootstrap(ctx)
	if err != nil {
		return nil, fmt.Errorf("bootstrapping database: %w", err)
	}

	return db, nil
}

// bootstrap initializes the database.
func (db *Database) bootstrap(ctx context.Context) error {
	_, err := db.client.Execute(ctx, rqlitehttp.SQLStatements{
		{SQL: createMatchTableSQL},
		{SQL: createMetadataTableSQL},
	}, &rqlitehttp.ExecuteOptions{
		Transaction: true,
		Timings:     true,
	})
	if err != nil {
		return err
	}

	return nil
}

// generateMetadataID generates deterministic ids for scan metadata using the
// current month, week and pattern kind.
func generateMetadataID(currentTime time.Time, kind shared.PatternKind) string {
	month := currentTime.Month().String()
	week := currentTime.Day() / 7

	id := fmt.Sprintf("%s-Week-%d-%s", month, week, kind.String())
	return id
}

// nullableLevel converts a price level to a database parameter, rendering
// absent levels as null.
func nullableLevel(level float64) any {
	if math.IsNaN(level) {
		return nil
	}

	return level
}

// PersistMatches stores the provided pattern matches to the database.
func (db *Database) PersistMatches(ctx context.Context, matches []shared.PatternMatch) error {
	if len(matches) == 0 {
		return nil
	}

	now := time.Now().Unix()
	statements := make(rqlitehttp.SQLStatements, 0, len(matches))
	counts := make(map[shared.PatternKind]int)
	for idx := range matches {
		match := &matches[idx]
		statements = append(statements, &rqlitehttp.SQLStatement{
			SQL: persistMatchSQL,
			PositionalParams: []any{uuid.New().String(), match.Ticker, match.Kind.String(),
				match.StartDate.Format(shared.DateLayout), match.EndDate.Format(shared.DateLayout),
				nullableLevel(match.Support), nullableLevel(match.Resistance),
				match.WindowStart, match.WindowEnd, now},
		})
		counts[match.Kind]++
	}

	resp, err := db.client.Execute(ctx, statements,
		&rqlitehttp.ExecuteOptions{Transaction: true, Timings: true})
	if err != nil {
		return err
	}
	has, idx, errStr := resp.HasError()
	if has {
		db.cfg.Logger.Error().Msgf("match failing persistence: %s", spew.Sdump(matches[idx]))
		return fmt.Errorf("persisting matches: %d -> %s", idx, errStr)
	}

	for kind, total := range counts {
		err := db.updateMetadata(ctx, kind, total)
		if err != nil {
			return err
		}
	}

	return nil
}

// updateMetadata increments the scan metadata counter for the provided
// pattern kind.
func (db *Database) updateMetadata(ctx context.Context, kind shared.PatternKind, total int) error {
	now := time.Now()
	id := generateMetadataID(now, kind)

	resp, err := db.client.QuerySingle(ctx, findMetadataSQL, id)
	if err != nil {
		return err
	}

	exists := len(resp.GetQueryResultsAssoc()) > 0
	switch {
	case exists:
		resp, err := db.client.Execute(ctx, rqlitehttp.SQLStatements{
			{
				SQL:              updateMetadataSQL,
				PositionalParams: []any{total, id},
			},
		}, &rqlitehttp.ExecuteOptions{Transaction: true, Timings: true})
		if err != nil {
			return err
		}
		has, idx, errStr := resp.HasError()
		if has {
			return fmt.Errorf("updating scan metadata %s: %d -> %s", id, idx, errStr)
		}
	default:
		resp, err := db.client.Execute(ctx, rqlitehttp.SQLStatements{
			{
				SQL:              persistMetadataSQL,
				PositionalParams: []any{id, total, now.Unix()},
			},
		}, &rqlitehttp.ExecuteOptions{Transaction: true, Timings: true})
		if err != nil {
			return err
		}
		has, idx, errStr := resp.HasError()
		if has {
			return fmt.Errorf("persisting scan metadata %s: %d -> %s", id, idx, errStr)
		}
	}

	return nil
}
