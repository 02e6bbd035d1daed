package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/cors"

	"petmis/internal/core/version"
	"petmis/internal/platform/config"
	"petmis/internal/platform/logger"
	phttp "petmis/internal/platform/net/http"
	"petmis/internal/platform/net/middleware"
	"petmis/internal/platform/store"

	"petmis/internal/services/auth"
	etlhttp "petmis/internal/services/etl/http"
	"petmis/internal/services/etl/queries"
	etlsvc "petmis/internal/services/etl/service"
	reportshttp "petmis/internal/services/reports/http"
	reportssvc "petmis/internal/services/reports/service"
)

func main() {
	root := config.New()
	l := logger.Get()

	build := version.Info("petmis-api")
	l.Info().Str("version", build.Version).Str("commit", build.Commit).Msg("starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// the API hosts the ETL trigger endpoints, so it dials the whole fleet
	st, err := store.Open(ctx, store.FromConf(root, queries.RegionCodes))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	srv := phttp.NewServer(root)
	r := srv.Router()

	r.Use(
		middleware.RequestID,
		middleware.AccessLogZerolog(middleware.AccessLogOptions{
			Slow: root.MayDuration("API_SLOW_REQUEST", 2*time.Second),
		}),
		middleware.RecoverJSON,
		cors.Handler(cors.Options{
			AllowedOrigins: []string{root.MayString("API_CORS_ORIGIN", "*")},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         300,
		}),
		middleware.Auth(verifier(root), phttp.JSON),
	)

	reports := reportssvc.New(st.MIS)
	etl := etlsvc.New(st, root.MayDuration("ETL_REGION_TIMEOUT", 15*time.Minute))

	r.Route("/reports", func(rr phttp.Router) { reportshttp.Register(rr, reports) })
	r.Route("/etl", func(rr phttp.Router) { etlhttp.Register(rr, etl) })

	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shCtx); err != nil {
			l.Error().Err(err).Msg("shutdown failed")
		}
	}()

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}

// verifier builds the bearer check, or nil to run open when no secret is set.
// Running open is deliberate for local development; production deploys set
// API_AUTH_SECRET.
func verifier(cfg config.Conf) middleware.AuthPort {
	secret := cfg.MayString("API_AUTH_SECRET", "")
	if secret == "" {
		logger.Get().Warn().Msg("API_AUTH_SECRET not set; authentication disabled")
		return nil
	}
	v, err := auth.NewVerifier(secret)
	if err != nil {
		logger.Get().Panic().Err(err).Msg("invalid auth secret")
	}
	return v
}
