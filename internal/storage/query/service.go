// Package query provides SQL access to exported Parquet bar files.
//
// It uses an in-memory DuckDB database and the read_parquet table function,
// so exported datasets can be filtered and aggregated without loading them
// into Go first.
package query

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"path/filepath"
	"sync"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/andydardgallard/ohlcvstore/internal/storage/config"
	"github.com/andydardgallard/ohlcvstore/internal/storage/types"
)

// Service provides query capabilities over exported bar files.
type Service struct {
	mu sync.RWMutex

	config *config.Config
	db     *sql.DB

	// Statistics
	stats ServiceStats
}

// ServiceStats holds query statistics.
type ServiceStats struct {
	QueriesExecuted int64
	RowsReturned    int64
	Errors          int64
}

// BarQuery defines parameters for querying bars from Parquet files.
type BarQuery struct {
	// From and To bound the bar timestamps (inclusive, Unix seconds).
	// A zero To means no upper bound.
	From  uint64
	To    uint64
	Limit int
}

// New creates a new query service.
func New(cfg *config.Config) (*Service, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	// Open in-memory DuckDB database
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	// Configure DuckDB
	if cfg.Query.MemoryLimit != "" {
		_, err = db.Exec(fmt.Sprintf("SET memory_limit='%s'", cfg.Query.MemoryLimit))
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("set memory limit: %w", err)
		}
	}

	return &Service{
		config: cfg,
		db:     db,
	}, nil
}

// Close closes the query service.
func (s *Service) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Bars queries bars from Parquet files matching the given glob pattern.
// A pattern matching no files yields an empty result; any other failure
// is propagated.
func (s *Service) Bars(ctx context.Context, pattern string, q BarQuery) ([]types.Bar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches, err := filepath.Glob(pattern)
	if err != nil {
		s.stats.Errors++
		return nil, fmt.Errorf("bad file pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, nil
	}

	to := q.To
	if to == 0 {
		to = math.MaxInt64
	}

	query := `
		SELECT timestamp, open, high, low, close, volume
		FROM read_parquet($1)
		WHERE timestamp >= $2 AND timestamp <= $3
		ORDER BY timestamp
	`

	rows, err := s.db.QueryContext(ctx, query, pattern, int64(q.From), int64(to))
	if err != nil {
		s.stats.Errors++
		return nil, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	bars, err := s.scanBars(rows)
	if err != nil {
		s.stats.Errors++
		return nil, err
	}

	if q.Limit > 0 && len(bars) > q.Limit {
		bars = bars[:q.Limit]
	}

	s.stats.QueriesExecuted++
	s.stats.RowsReturned += int64(len(bars))

	return bars, nil
}

// scanBars scans rows into a Bar slice.
func (s *Service) scanBars(rows *sql.Rows) ([]types.Bar, error) {
	var bars []types.Bar

	for rows.Next() {
		var ts, vol int64
		var b types.Bar

		err := rows.Scan(&ts, &b.Open, &b.High, &b.Low, &b.Close, &vol)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		b.Timestamp = uint64(ts)
		b.Volume = uint64(vol)
		bars = append(bars, b)
	}

	return bars, rows.Err()
}

// Stats returns query statistics.
func (s *Service) Stats() ServiceStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// ExecuteSQL executes a raw SQL query using DuckDB.
// This is useful for ad-hoc queries and debugging.
func (s *Service) ExecuteSQL(ctx context.Context, query string) ([]string, []map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		s.stats.Errors++
		return nil, nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var results []map[string]interface{}

	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, nil, err
		}

		row := make(map[string]interface{})
		for i, col := range columns {
			row[col] = values[i]
		}
		results = append(results, row)
	}

	s.stats.QueriesExecuted++
	s.stats.RowsReturned += int64(len(results))

	return columns, results, rows.Err()
}
