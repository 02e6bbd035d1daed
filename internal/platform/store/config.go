package store

import (
	"time"

	"petmis/internal/platform/config"
)

// Config describes the SQL Server endpoints the process connects to
type Config struct {
	// MISURL is the central reporting database DSN
	MISURL string
	// RegionURLs maps region code to source DSN, e.g. "NZ" -> sqlserver://...
	RegionURLs map[string]string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// FromConf reads the store config from the environment.
// Region DSNs live under REGION_<CC>_DB_URL; a missing region is fatal since
// an ETL run over a partial fleet would silently drop a country.
func FromConf(cfg config.Conf, regionCodes []string) Config {
	urls := make(map[string]string, len(regionCodes))
	rc := cfg.Prefix("REGION_")
	for _, code := range regionCodes {
		urls[code] = rc.MustString(code + "_DB_URL")
	}
	return Config{
		MISURL:          cfg.MustString("MIS_DB_URL"),
		RegionURLs:      urls,
		MaxOpenConns:    cfg.MayInt("DB_MAX_OPEN_CONNS", 8),
		MaxIdleConns:    cfg.MayInt("DB_MAX_IDLE_CONNS", 4),
		ConnMaxLifetime: cfg.MayDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
	}
}

// MISOnly is FromConf without the regional fleet, for API-only processes
func MISOnly(cfg config.Conf) Config {
	return Config{
		MISURL:          cfg.MustString("MIS_DB_URL"),
		MaxOpenConns:    cfg.MayInt("DB_MAX_OPEN_CONNS", 8),
		MaxIdleConns:    cfg.MayInt("DB_MAX_IDLE_CONNS", 4),
		ConnMaxLifetime: cfg.MayDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
	}
}
