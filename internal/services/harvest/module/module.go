// Package module wires the harvest service into the application using modkit
package module

import (
	"context"
	"fmt"
	"net/http"

	"spinlog/internal/adapters/rawstore"
	"spinlog/internal/modkit"
	"spinlog/internal/modkit/httpkit"
	str "spinlog/internal/platform/strings"
	"spinlog/internal/services/harvest/domain"
	hhttp "spinlog/internal/services/harvest/http"
	"spinlog/internal/services/harvest/service"
)

// Ports exposed by the harvest module
type Ports struct {
	Harvester domain.HarvesterPort
}

// Module implements the harvest service module
type Module struct {
	name   string
	prefix string

	mws      []func(http.Handler) http.Handler
	ports    Ports
	register func(httpkit.Router)
}

// New constructs a new harvest module
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	defaults := []modkit.Option{
		modkit.WithName("harvest"),
		modkit.WithPrefix("/harvest"),
	}
	b := modkit.Build(append(defaults, opts...)...)

	cfg := FromConfig(deps.Cfg)

	raw, err := rawstore.Open(context.Background(), cfg.Raw)
	if err != nil {
		panic(fmt.Errorf("harvest module: open raw store: %w", err))
	}

	m := &Module{
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
	}
	m.ports = Ports{Harvester: service.New(raw, service.Config{
		Limit:    cfg.Limit,
		Lookback: cfg.Lookback,
		Spotify:  cfg.Spotify,
	})}

	chained := b.Register
	m.register = func(r httpkit.Router) {
		hhttp.Register(r, m.ports.Harvester)
		if chained != nil {
			chained(r)
		}
	}
	return m
}

// MountRoutes groups the harvest endpoints under the module prefix
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, str.MustPrefix(m.prefix), m.mws, m.register)
}

// Name satisfies module.Module
func (m *Module) Name() string { return str.MustString(m.name, "harvest") }

// Ports satisfies module.Module
func (m *Module) Ports() any { return m.ports }
