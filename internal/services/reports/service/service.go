// Package service shapes the MIS report payloads: trailing-month trends,
// KPI splits, channel pivots and paginated raw grids
package service

import (
	"time"

	"petmis/internal/platform/logger"
	"petmis/internal/platform/store"
	"petmis/internal/services/reports/repo"
)

// trendMonths is the fixed LTM chart length: the end month plus the twelve
// before it
const trendMonths = 13

// Service answers the report queries over the MIS store
type Service struct {
	Repo *repo.Repo
	Now  func() time.Time
	log  *logger.Logger
}

// New constructs the reports service over the MIS handle
func New(db store.Querier) *Service {
	return &Service{
		Repo: repo.New(db),
		Now:  time.Now,
		log:  logger.Named("reports"),
	}
}

func (s *Service) generatedAt() string {
	return s.Now().UTC().Format(time.RFC3339)
}

func (s *Service) today() string {
	return s.Now().Format("2006-01-02")
}
