package modkit

import (
	"net/http"

	phttp "rosterline/internal/platform/net/http"
)

// Option mutates build configuration for a module
type Option func(*buildCfg)

// buildCfg is internal wiring state for options
type buildCfg struct {
	name     string
	prefix   string
	mw       []func(http.Handler) http.Handler
	ports    any
	register func(phttp.Router)
}

// WithName sets a module name used in logs and registry
func WithName(name string) Option {
	return func(c *buildCfg) { c.name = name }
}

// WithPrefix mounts a module under a path prefix
func WithPrefix(prefix string) Option {
	return func(c *buildCfg) { c.prefix = prefix }
}

// WithMiddlewares attaches per module middleware in order
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(c *buildCfg) { c.mw = append(c.mw, mw...) }
}

// WithPorts injects cross module ports declared by another module
// the concrete type is owned by the importing module
func WithPorts[T any](p T) Option {
	return func(c *buildCfg) { c.ports = p }
}

// WithRegister sets the function that attaches endpoints to the module router
func WithRegister(fn func(phttp.Router)) Option {
	return func(c *buildCfg) { c.register = fn }
}

// Build folds options into a ready mount description
func Build(opts ...Option) (name, prefix string, mw []func(http.Handler) http.Handler, ports any, register func(phttp.Router)) {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	return c.name, c.prefix, c.mw, c.ports, c.register
}

// Mount applies a module's prefix, middleware, and register function to r
func Mount(r phttp.Router, prefix string, mw []func(http.Handler) http.Handler, register func(phttp.Router)) {
	if register == nil {
		return
	}
	mount := func(sub phttp.Router) {
		sub.Use(mw...)
		register(sub)
	}
	if prefix != "" {
		r.Route(prefix, mount)
		return
	}
	r.Group(mount)
}
