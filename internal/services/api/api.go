// Package api assembles the trigger surface from the service modules
package api

import (
	"time"

	"spinlog/internal/platform/config"
	"spinlog/internal/platform/logger"
	phttp "spinlog/internal/platform/net/http"
	"spinlog/internal/platform/net/middleware"
	"spinlog/internal/platform/store"

	"spinlog/internal/modkit"
	"spinlog/internal/modkit/httpkit"
	"spinlog/internal/modkit/module"

	metahttp "spinlog/internal/services/api/meta/http"
	catmod "spinlog/internal/services/catalog/module"
	harvestmod "spinlog/internal/services/harvest/module"
	pipedomain "spinlog/internal/services/pipeline/domain"
	pipemod "spinlog/internal/services/pipeline/module"
)

// Options carries what Mount needs from the host binary
type Options struct {
	Config config.Conf
	Store  *store.Store
	Logger *logger.Logger
}

// Mount builds every service module and wires it onto r
func Mount(r phttp.Router, opt Options) {
	// one Deps value feeds every module
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	// catalog owns the Enricher port the pipeline consumes
	catalog := catmod.New(deps)
	enricher := module.MustPortsOf[catmod.Ports](catalog).Enricher

	pipeline := pipemod.New(
		deps,
		modkit.WithPorts(pipedomain.Ports{
			Enricher: enricher,
		}),
	)

	harvest := harvestmod.New(deps)

	active := []module.Module{
		catalog,
		pipeline,
		harvest,
	}

	// probes and build info sit at the root so orchestrators reach them unversioned
	metahttp.Register(r, metahttp.Deps{
		ServiceName: "spinlog-api",
		StartedAt:   time.Now(),
		Store:       opt.Store,
	})

	// the versioned surface shares one middleware stack
	httpkit.MountUnder(r, "/v1", middleware.Defaults(), func(api httpkit.Router) {
		for _, m := range active {
			// ports land in the registry keyed by module name
			module.Register(m.Name(), m.Ports())

			m.MountRoutes(api)
		}
	})
}
