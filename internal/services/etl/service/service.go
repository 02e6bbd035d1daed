package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"petmis/internal/core/datewindow"
	perr "petmis/internal/platform/errors"
	"petmis/internal/platform/logger"
	"petmis/internal/platform/store"
	"petmis/internal/services/etl/domain"
	"petmis/internal/services/etl/queries"
)

// Service orchestrates a feed run: fan out extraction over the fleet,
// transform per region, concat in fleet order, load into the MIS store
type Service struct {
	St        *store.Store
	Extractor *Extractor
	Loader    *Loader
	// RegionTimeout bounds each region's extraction; a hung source fails
	// its region instead of stalling the whole run indefinitely
	RegionTimeout time.Duration
	Now           func() time.Time
	log           *logger.Logger
}

// New constructs the ETL service
func New(st *store.Store, regionTimeout time.Duration) *Service {
	if st == nil {
		panic("etl.Service requires a non nil store")
	}
	if regionTimeout <= 0 {
		regionTimeout = 15 * time.Minute
	}
	return &Service{
		St:            st,
		Extractor:     NewExtractor(),
		Loader:        NewLoader(st.MIS),
		RegionTimeout: regionTimeout,
		Now:           time.Now,
		log:           logger.Named("etl"),
	}
}

// Run executes one feed over the window
func (s *Service) Run(ctx context.Context, kind domain.Kind, win datewindow.Range) (domain.RunResult, error) {
	regions := queries.Regions(kind)
	cleanup := queries.CleanupColumns(kind)
	now := s.Now()

	s.log.Info().Str("kind", string(kind)).Str("start", win.Start).Str("end", win.End).Msg("run starting")

	parts := make([]domain.Table, len(regions))
	g, gctx := errgroup.WithContext(ctx)
	for i, rg := range regions {
		g.Go(func() error {
			rctx, cancel := context.WithTimeout(gctx, s.RegionTimeout)
			defer cancel()

			db := s.St.Region(rg.Code)
			if db == nil {
				return perr.Newf(perr.ErrorCodeExtraction, "no handle for region %s", rg.Code)
			}
			t, err := s.Extractor.Extract(rctx, db, rg, win)
			if err != nil {
				return err
			}
			Transform(&t, cleanup, now)
			parts[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.RunResult{Kind: kind}, err
	}

	combined := domain.Concat(parts)
	s.log.Info().Int("rows", len(combined.Rows)).Msg("regions combined")

	load, err := s.Loader.Load(ctx, queries.DestTable(kind), combined, win)
	if err != nil {
		return domain.RunResult{Kind: kind, RowsExtracted: len(combined.Rows)}, err
	}
	return domain.RunResult{Kind: kind, RowsExtracted: len(combined.Rows), Load: load}, nil
}

// RunAll runs the three feeds sequentially over the same window
func (s *Service) RunAll(ctx context.Context, win datewindow.Range) ([]domain.RunResult, error) {
	out := make([]domain.RunResult, 0, 3)
	for _, kind := range []domain.Kind{domain.KindQuote, domain.KindSales, domain.KindFreePolicy} {
		res, err := s.Run(ctx, kind, win)
		if err != nil {
			return out, err
		}
		out = append(out, res)
	}
	return out, nil
}
