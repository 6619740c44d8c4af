package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"spinlog/internal/migrations"
	"spinlog/internal/modkit"
	"spinlog/internal/modkit/module"
	"spinlog/internal/modkit/repokit"
	"spinlog/internal/platform/config"
	"spinlog/internal/platform/logger"
	"spinlog/internal/platform/store"

	catmod "spinlog/internal/services/catalog/module"
	pipedomain "spinlog/internal/services/pipeline/domain"
	pipemod "spinlog/internal/services/pipeline/module"
)

func main() {
	// local runs read secrets from .env when present
	_ = godotenv.Load()

	var (
		fBatch   = flag.String("batch", "", "batch to run: a day YYYY-MM-DD or a full raw zone key")
		fMigrate = flag.Bool("migrate", false, "apply pending schema migrations before running")
	)
	flag.Parse()

	root := config.New()
	pgCfg := root.Prefix("SPINLOG_PG_")

	opt := logger.FromEnv()
	if opt.Service == "" {
		opt.Service = "spinlog-load"
	}
	logger.Init(opt)
	lg := logger.Get()

	if *fBatch == "" {
		lg.Panic().Msg("spinlog-load: -batch is required (YYYY-MM-DD or a raw zone key)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dburl := pgCfg.MustString("DBURL")
	if *fMigrate {
		if err := migrations.Apply(ctx, dburl); err != nil {
			lg.Fatal().Err(err).Msg("migrations failed")
		}
	}

	st, err := store.Open(ctx, store.Config{
		AppName: "spinlog-load",
		PG: store.PGConfig{
			Enabled:     true,
			URL:         dburl,
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
	}, store.WithLogger(*lg))
	if err != nil {
		lg.Fatal().Err(err).Msg("open store failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			lg.Error().Err(err).Msg("store close failed")
		}
	}()
	repokit.MustGuard(ctx, st)

	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		Log: *lg,
	}

	// catalog owns the Enricher port the pipeline consumes
	catalog := catmod.New(deps)
	module.Register(catalog.Name(), catalog.Ports())
	enricher := module.MustPortsOf[catmod.Ports](catalog).Enricher

	pipeline := pipemod.New(deps, modkit.WithPorts(pipedomain.Ports{
		Enricher: enricher,
	}))
	module.Register(pipeline.Name(), pipeline.Ports())

	ports := module.MustPortsOf[pipemod.Ports](pipeline)

	batch, err := ports.Loader.Load(ctx, *fBatch)
	if err != nil {
		lg.Fatal().Err(err).Str("batch", *fBatch).Msg("load raw batch failed")
	}

	report, runErr := ports.Runner.Run(ctx, batch)

	// the report is always present; log it before deciding the exit code
	ev := lg.Info()
	if runErr != nil {
		ev = lg.Error().Err(runErr)
	}
	ev.
		Str("run_id", report.RunID.String()).
		Str("batch_key", report.BatchKey).
		Str("status", string(report.Status)).
		Int("records", report.Records).
		Int("malformed", report.Malformed).
		Int("fact_inserted", report.FactInserted).
		Int("fact_skipped", report.FactSkipped).
		Int("fact_in_batch_dups", report.FactInBatchDups).
		Dur("elapsed", report.Elapsed()).
		Msg("run finished")

	for _, c := range report.Categories {
		lg.Info().
			Str("category", string(c.Category)).
			Str("status", string(c.Status)).
			Int("extracted", c.Extracted).
			Int("novel", c.Novel).
			Int("fetched", c.Fetched).
			Int("inserted", c.Inserted).
			Int("deduped", c.Deduped).
			Msg("category outcome")
	}

	if runErr != nil {
		os.Exit(1)
	}
}
