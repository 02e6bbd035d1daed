// petmis-etl runs the regional feeds once over a date window and exits.
// It exists for cron and for manual catch-up runs; the API exposes the same
// operations over HTTP.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"petmis/internal/core/datewindow"
	"petmis/internal/core/version"
	"petmis/internal/platform/config"
	"petmis/internal/platform/logger"
	"petmis/internal/platform/store"

	"petmis/internal/services/etl/domain"
	"petmis/internal/services/etl/queries"
	etlsvc "petmis/internal/services/etl/service"
)

func main() {
	var (
		fStart = flag.String("start", "", "window start YYYY-MM-DD (default: 7 days ago)")
		fEnd   = flag.String("end", "", "window end YYYY-MM-DD inclusive (default: today)")
		fKind  = flag.String("kind", "", "single feed to run: quote | sales | freepolicy (default: all)")
	)
	flag.Parse()

	root := config.New()
	l := logger.Get()

	build := version.Info("petmis-etl")
	l.Info().Str("version", build.Version).Str("commit", build.Commit).Msg("starting")

	start := *fStart
	if start == "" {
		start = datewindow.DaysAgo(7)
	}
	end := *fEnd
	if end == "" {
		end = datewindow.Today()
	}
	win, err := datewindow.HalfOpen(start, end)
	if err != nil {
		l.Fatal().Err(err).Str("start", start).Str("end", end).Msg("bad window")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.FromConf(root, queries.RegionCodes))
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	svc := etlsvc.New(st, root.MayDuration("ETL_REGION_TIMEOUT", 15*time.Minute))

	began := time.Now()
	var results []domain.RunResult
	if *fKind != "" {
		kind := domain.Kind(*fKind)
		if !kind.Valid() {
			l.Fatal().Str("kind", *fKind).Msg("unknown feed kind")
		}
		res, runErr := svc.Run(ctx, kind, win)
		results, err = []domain.RunResult{res}, runErr
	} else {
		results, err = svc.RunAll(ctx, win)
	}

	for _, res := range results {
		evt := l.Info()
		if res.Load.Degraded() {
			evt = l.Warn().Int("failed_chunks", res.Load.FailedChunks)
		}
		evt.Str("kind", string(res.Kind)).
			Int("extracted", res.RowsExtracted).
			Int64("deleted", res.Load.Deleted).
			Int("inserted", res.Load.Inserted).
			Msg("feed finished")
	}
	if err != nil {
		l.Error().Err(err).Dur("elapsed", time.Since(began)).Msg("etl run failed")
		os.Exit(1)
	}
	l.Info().Dur("elapsed", time.Since(began)).Str("start", win.Start).Str("end", win.End).Msg("etl run complete")
}
