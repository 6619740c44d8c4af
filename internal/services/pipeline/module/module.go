// Package module wires the pipeline service into the application using modkit
package module

import (
	"context"
	"fmt"
	"net/http"

	"spinlog/internal/adapters/rawstore"
	"spinlog/internal/modkit"
	"spinlog/internal/modkit/httpkit"
	"spinlog/internal/modkit/repokit"
	str "spinlog/internal/platform/strings"
	"spinlog/internal/services/pipeline/domain"
	pipehttp "spinlog/internal/services/pipeline/http"
	"spinlog/internal/services/pipeline/service"
)

// Ports exposed by the pipeline module
type Ports struct {
	Runner domain.RunnerPort
	Loader domain.LoaderPort
}

// Module implements the pipeline service module
type Module struct {
	name   string
	prefix string

	mws      []func(http.Handler) http.Handler
	ports    Ports
	register func(httpkit.Router)
}

// New constructs a new pipeline module
// callers inject the enrichment dependency via modkit.WithPorts(domain.Ports{...})
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	defaults := []modkit.Option{
		modkit.WithName("pipeline"),
		modkit.WithPrefix("/runs"),
	}
	b := modkit.Build(append(defaults, opts...)...)

	injected, ok := b.Ports.(domain.Ports)
	if !ok {
		panic("pipeline module: expected WithPorts(pipeline/domain.Ports)")
	}
	if injected.Enricher == nil {
		panic("pipeline module: Ports missing Enricher")
	}

	cfg := FromConfig(deps.Cfg)

	runDeps := deps
	if cfg.StmtTimeout > 0 {
		// SET LOCAL takes no bind parameters, so the duration is formatted in
		stmt := fmt.Sprintf("SET LOCAL statement_timeout = %d", cfg.StmtTimeout.Milliseconds())
		runDeps.PG = repokit.WithBeginHooks(deps.PG, func(ctx context.Context, q repokit.Queryer) error {
			_, err := q.Exec(ctx, stmt)
			return err
		})
	}

	raw, err := rawstore.Open(context.Background(), cfg.Raw)
	if err != nil {
		panic(fmt.Errorf("pipeline module: open raw store: %w", err))
	}

	m := &Module{
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
	}
	m.ports = Ports{
		Runner: service.New(runDeps, injected.Enricher, service.Config{Timeouts: cfg.Timeouts}),
		Loader: service.NewLoader(raw),
	}

	chained := b.Register
	m.register = func(r httpkit.Router) {
		pipehttp.Register(r, m.ports.Runner, m.ports.Loader)
		if chained != nil {
			chained(r)
		}
	}
	return m
}

// MountRoutes groups the run endpoints under the module prefix
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, str.MustPrefix(m.prefix), m.mws, m.register)
}

// Name satisfies module.Module
func (m *Module) Name() string { return str.MustString(m.name, "pipeline") }

// Ports satisfies module.Module
func (m *Module) Ports() any { return m.ports }
