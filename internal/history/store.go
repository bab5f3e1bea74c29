// Package history persists completed runs to Postgres.
package history

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"sitescout/internal/catalog"
	"sitescout/internal/report"
	"sitescout/internal/scout"
)

type execCloser interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Close()
}

// Store writes run summaries and per-site results into Postgres.
//
// Expected schema:
//
//	CREATE TABLE runs (
//	    id UUID PRIMARY KEY,
//	    started_at TIMESTAMPTZ NOT NULL,
//	    total INT NOT NULL,
//	    up INT NOT NULL,
//	    down INT NOT NULL,
//	    unknown INT NOT NULL,
//	    errors INT NOT NULL
//	);
//
//	CREATE TABLE run_results (
//	    run_id UUID NOT NULL REFERENCES runs (id),
//	    category TEXT NOT NULL,
//	    site TEXT NOT NULL,
//	    url TEXT NOT NULL,
//	    status TEXT NOT NULL,
//	    error TEXT,
//	    PRIMARY KEY (run_id, category, site)
//	);
type Store struct {
	pool execCloser
}

// New connects a pool and verifies the database is reachable.
func New(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{pool: pool}, nil
}

// NewWithPool constructs a Store from an existing pool (primarily for testing).
func NewWithPool(pool execCloser) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &Store{pool: pool}, nil
}

// SaveRun inserts the run summary row plus one row per site, in catalog order.
func (s *Store) SaveRun(ctx context.Context, rep scout.Report, cat *catalog.Catalog, counts report.Counts) error {
	const runQuery = `
		INSERT INTO runs (id, started_at, total, up, down, unknown, errors)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := s.pool.Exec(ctx, runQuery,
		rep.RunID, rep.Timestamp,
		counts.Total, counts.Up, counts.Down, counts.Unknown, counts.Error,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	const resultQuery = `
		INSERT INTO run_results (run_id, category, site, url, status, error)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, category := range cat.Categories() {
		results := rep.Categories[category.Name]
		for _, site := range category.Sites {
			res, ok := results[site.Name]
			if !ok {
				return fmt.Errorf("no result for site %q in category %q", site.Name, category.Name)
			}
			var errText *string
			if res.Err != "" {
				errText = &res.Err
			}
			if _, err := s.pool.Exec(ctx, resultQuery,
				rep.RunID, category.Name, site.Name, site.URL, string(res.Status), errText,
			); err != nil {
				return fmt.Errorf("insert result for %q: %w", site.Name, err)
			}
		}
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}
