// Package module wires the runs API using modkit
package module

import (
	"net/http"

	"rosterline/internal/modkit"
	"rosterline/internal/modkit/httpkit"
	"rosterline/internal/services/api/runs/domain"
	runshttp "rosterline/internal/services/api/runs/http"
	runssvc "rosterline/internal/services/api/runs/service"
	ingestrepo "rosterline/internal/services/ingest/repo"
)

// Ports exposed by the runs module
type Ports struct {
	Service domain.ServicePort
}

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler
	ports  Ports

	register func(httpkit.Router)
}

// New constructs the runs module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	name, prefix, mws, _, external := modkit.Build(
		append([]modkit.Option{modkit.WithName("runs"), modkit.WithPrefix("/runs")}, opts...)...,
	)

	storage := ingestrepo.NewDocs().Bind(deps.Docs)
	svc := runssvc.New(storage)

	m := &Module{deps: deps, name: name, prefix: prefix, mws: mws}
	m.ports = Ports{Service: svc}
	m.register = func(r httpkit.Router) {
		runshttp.Register(r, svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	modkit.Mount(r, m.prefix, m.mws, m.register)
}

// Name returns the module name
func (m *Module) Name() string { return m.name }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
