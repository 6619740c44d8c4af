package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"spinlog/internal/modkit"
	"spinlog/internal/modkit/module"
	"spinlog/internal/platform/config"
	"spinlog/internal/platform/logger"

	harvestmod "spinlog/internal/services/harvest/module"
)

func main() {
	// local runs read secrets from .env when present
	_ = godotenv.Load()

	var (
		fEvery = flag.Duration("every", 0, "pull on this interval; 0 pulls once and exits")
	)
	flag.Parse()

	root := config.New()

	opt := logger.FromEnv()
	if opt.Service == "" {
		opt.Service = "spinlog-pull"
	}
	logger.Init(opt)
	lg := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// harvest needs no database, only the raw zone and Spotify credentials
	deps := modkit.Deps{
		Cfg: root,
		Log: *lg,
	}

	hm := harvestmod.New(deps)
	module.Register(hm.Name(), hm.Ports())
	harvester := module.MustPortsOf[harvestmod.Ports](hm).Harvester

	if *fEvery <= 0 {
		key, err := harvester.Harvest(ctx)
		if err != nil {
			lg.Fatal().Err(err).Msg("harvest failed")
		}
		lg.Info().Str("batch_key", key).Msg("harvest complete")
		return
	}

	lg.Info().Dur("every", *fEvery).Msg("harvest loop starting")
	tick := time.NewTicker(*fEvery)
	defer tick.Stop()

	for {
		key, err := harvester.Harvest(ctx)
		if err != nil {
			// a failed pull leaves the raw zone untouched; try again next tick
			lg.Error().Err(err).Msg("harvest failed")
		} else {
			lg.Info().Str("batch_key", key).Msg("harvest complete")
		}

		select {
		case <-ctx.Done():
			lg.Info().Msg("harvest loop stopping")
			return
		case <-tick.C:
		}
	}
}
