// Package http serves the meta endpoints: liveness and build info.
package http

import (
	stdctx "context"
	"net/http"
	"time"

	"spinlog/internal/core/version"
	"spinlog/internal/modkit/httpkit"
	perr "spinlog/internal/platform/errors"
)

// Guarder is satisfied by store facades that can verify their connection
type Guarder interface {
	Guard(stdctx.Context) error
}

// Deps carries what the meta handlers need from the host binary
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Store       Guarder
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes at the router root
func Register(r httpkit.Router, deps Deps) {
	h := &handlers{deps: deps}

	httpkit.Get(r, "/healthz", h.health)
	httpkit.Get(r, "/version", h.version)
}

// HealthCheck describes a single dependency check
type HealthCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"` // ok or skipped
}

// HealthResponse is the health payload
type HealthResponse struct {
	OK      bool          `json:"ok"`
	Service string        `json:"service"`
	Started string        `json:"started"`
	Now     string        `json:"now"`
	Uptime  int64         `json:"uptime"`
	Checks  []HealthCheck `json:"checks"`
}

func rfc3339(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// health pings the store so a wedged pool fails the probe instead of the next run
func (h *handlers) health(_ *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 2*time.Second)
	defer cancel()

	pg := HealthCheck{Name: "pg", Status: "skipped"}
	if h.deps.Store != nil {
		if err := h.deps.Store.Guard(ctx); err != nil {
			return nil, perr.Unavailablef("store unavailable: %v", err)
		}
		pg.Status = "ok"
	}

	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: rfc3339(h.deps.StartedAt),
		Now:     rfc3339(time.Now()),
		Uptime:  int64(time.Since(h.deps.StartedAt) / time.Second),
		Checks:  []HealthCheck{pg},
	}, nil
}

// version reports build info stamped at link time
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}
