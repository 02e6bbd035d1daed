// Package store owns the SQL Server handles for the regional sources and the
// central reporting database
package store

import (
	"context"
	"database/sql"

	"petmis/internal/platform/logger"
)

// Querier is the read seam repositories depend on instead of *sql.DB
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// TxBeginner is the write seam for components that manage their own transaction
type TxBeginner interface {
	Querier
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Store bundles the central MIS handle with the per-region source handles
type Store struct {
	MIS     *sql.DB
	Regions map[string]*sql.DB // keyed by region code, e.g. "NZ"
	Log     *logger.Logger
}

// Region returns the handle for a region code, nil if not configured
func (s *Store) Region(code string) *sql.DB {
	if s == nil {
		return nil
	}
	return s.Regions[code]
}

// Close closes every handle; errors are logged, the first is returned
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var first error
	if s.MIS != nil {
		if err := s.MIS.Close(); err != nil {
			s.Log.Error().Err(err).Msg("closing mis handle")
			first = err
		}
	}
	for code, db := range s.Regions {
		if err := db.Close(); err != nil {
			s.Log.Error().Err(err).Str("region", code).Msg("closing region handle")
			if first == nil {
				first = err
			}
		}
	}
	return first
}
