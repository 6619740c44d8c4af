package modkit

import (
	"net/http"

	"spinlog/internal/modkit/httpkit"
)

// Built is the flattened result of Build; modules read fields, never options
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  any

	// router hooks, always non-nil after Build
	Subrouter func(httpkit.Router) httpkit.Router
	Register  func(httpkit.Router)
}

// Build folds the options into a Built with safe defaults: identity
// subrouter, no-op register, and a middleware slice detached from the
// caller's backing array
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}

	if c.subFn == nil {
		c.subFn = func(r httpkit.Router) httpkit.Router { return r }
	}
	if c.regFn == nil {
		c.regFn = func(httpkit.Router) {}
	}

	mw := make([]func(http.Handler) http.Handler, len(c.middlewares))
	copy(mw, c.middlewares)

	return Built{
		Name:      c.name,
		Prefix:    c.prefix,
		Mw:        mw,
		Ports:     c.ports,
		Subrouter: c.subFn,
		Register:  c.regFn,
	}
}
