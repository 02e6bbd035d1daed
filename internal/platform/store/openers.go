package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"petmis/internal/platform/logger"

	// registers the "sqlserver" driver
	_ "github.com/microsoft/go-mssqldb"
)

// Open connects every configured handle and verifies each with a ping
func Open(ctx context.Context, cfg Config) (*Store, error) {
	s := &Store{
		Regions: make(map[string]*sql.DB, len(cfg.RegionURLs)),
		Log:     logger.Named("store"),
	}

	mis, err := open(ctx, cfg, cfg.MISURL)
	if err != nil {
		return nil, fmt.Errorf("mis: %w", err)
	}
	s.MIS = mis

	for code, dsn := range cfg.RegionURLs {
		db, err := open(ctx, cfg, dsn)
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("region %s: %w", code, err)
		}
		s.Regions[code] = db
		s.Log.Debug().Str("region", code).Msg("region handle ready")
	}
	return s, nil
}

// open dials one SQL Server and pings with retry/backoff
func open(ctx context.Context, cfg Config, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	// Connection guardrails: ping with retry/backoff before publishing the handle
	const (
		maxAttempts    = 20
		pingTimeout    = 3 * time.Second
		backoffStart   = 150 * time.Millisecond
		backoffCeiling = 2 * time.Second
	)

	var lastErr error
	backoff := backoffStart
	for i := 0; i < maxAttempts; i++ {
		toCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = db.PingContext(toCtx)
		cancel()

		if lastErr == nil {
			return db, nil
		}
		if ctx.Err() != nil {
			_ = db.Close()
			return nil, ctx.Err()
		}
		time.Sleep(backoff)
		if backoff < backoffCeiling {
			backoff *= 2
			if backoff > backoffCeiling {
				backoff = backoffCeiling
			}
		}
	}

	_ = db.Close()
	return nil, fmt.Errorf("sqlserver ping failed after %d attempts: %w", maxAttempts, lastErr)
}
