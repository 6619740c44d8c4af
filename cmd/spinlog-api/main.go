package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"spinlog/internal/migrations"
	"spinlog/internal/modkit/repokit"
	"spinlog/internal/platform/config"
	"spinlog/internal/platform/logger"
	phttp "spinlog/internal/platform/net/http"
	"spinlog/internal/platform/store"

	"spinlog/internal/services/api"
)

func main() {
	// local runs read secrets from .env when present
	_ = godotenv.Load()

	root := config.New()
	apiCfg := root.Prefix("SPINLOG_API_")
	pgCfg := root.Prefix("SPINLOG_PG_")

	opt := logger.FromEnv()
	if opt.Service == "" {
		opt.Service = "spinlog-api"
	}
	logger.Init(opt)
	lg := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dburl := pgCfg.MustString("DBURL")
	if pgCfg.MayBool("AUTO_MIGRATE", false) {
		if err := migrations.Apply(ctx, dburl); err != nil {
			lg.Panic().Err(err).Msg("migrations failed")
		}
	}

	st, err := store.Open(ctx, store.Config{
		AppName: "spinlog-api",
		PG: store.PGConfig{
			Enabled:     true,
			URL:         dburl,
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
	}, store.WithLogger(*lg))
	if err != nil {
		lg.Panic().Err(err).Msg("open store failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			lg.Error().Err(err).Msg("store close failed")
		}
	}()
	repokit.MustGuard(ctx, st)

	srv := phttp.NewServer(apiCfg)

	api.Mount(srv.Router(), api.Options{
		Config: root,
		Store:  st,
		Logger: lg,
	})

	// drain in-flight requests when the process is told to stop
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			lg.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	if err := srv.Run(ctx); err != nil {
		lg.Panic().Err(err).Msg("http server stopped")
	}
}
