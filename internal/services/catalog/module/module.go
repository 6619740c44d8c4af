// Package module implements the catalog service module
package module

import (
	"spinlog/internal/modkit"
	"spinlog/internal/modkit/httpkit"
	"spinlog/internal/services/catalog/domain"
	"spinlog/internal/services/catalog/service"
)

// Ports exposed by the catalog module
type Ports struct {
	Enricher domain.EnricherPort
}

// Module implements the catalog service module
type Module struct {
	ports Ports
}

// New constructs a new catalog module
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)
	svc := service.New(deps, service.Config{
		Timeouts: opts.Timeouts,
		Policy:   opts.Policy,
		Spotify:  opts.Spotify,
	})
	return &Module{ports: Ports{Enricher: svc}}
}

// Name satisfies module.Module
func (m *Module) Name() string { return "catalog" }

// Ports satisfies module.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies module.Module; catalog has no HTTP surface
func (m *Module) MountRoutes(httpkit.Router) {}
