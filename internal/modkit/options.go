package modkit

import (
	"net/http"

	phttp "spinlog/internal/platform/net/http"
)

// Option mutates the build configuration for a module
type Option func(*buildCfg)

// buildCfg accumulates option state until Build flattens it
type buildCfg struct {
	name        string
	prefix      string
	middlewares []func(http.Handler) http.Handler
	ports       any
	subFn       func(phttp.Router) phttp.Router
	regFn       func(phttp.Router)
}

// WithName names the module for logs and the registry
func WithName(name string) Option {
	return func(c *buildCfg) { c.name = name }
}

// WithPrefix mounts the module's routes under a path prefix
func WithPrefix(prefix string) Option {
	return func(c *buildCfg) { c.prefix = prefix }
}

// WithMiddlewares appends per module middleware; order is mount order
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(c *buildCfg) { c.middlewares = append(c.middlewares, mw...) }
}

// WithPorts injects the ports bundle another module published
// the concrete type is owned by the module that imports it
func WithPorts[T any](p T) Option {
	return func(c *buildCfg) { c.ports = p }
}

// WithSubrouter supplies a factory that derives the module router from the parent
func WithSubrouter(fn func(phttp.Router) phttp.Router) Option {
	return func(c *buildCfg) { c.subFn = fn }
}

// WithRegister sets the function that attaches the module's endpoints
func WithRegister(fn func(phttp.Router)) Option {
	return func(c *buildCfg) { c.regFn = fn }
}
