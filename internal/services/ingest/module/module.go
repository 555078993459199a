// Package module wires the ingest service
package module

import (
	"rosterline/internal/modkit"
	phttp "rosterline/internal/platform/net/http"
	"rosterline/internal/services/ingest/domain"
	"rosterline/internal/services/ingest/repo"
	"rosterline/internal/services/ingest/service"
)

// Ports defines the ingest module ports
type Ports struct {
	Runner  domain.RunnerPort
	Storage domain.StorageRepo
}

// Module implements the ingest module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the ingest module. The decider is caller-supplied because
// it depends on the invocation style (interactive prompt vs api-polled).
func New(deps modkit.Deps, decider domain.Decider) *Module {
	opts := FromConfig(deps.Cfg)

	binder := repo.NewDocs()

	var metrics domain.MetricsSink
	if deps.CH != nil {
		metrics = repo.NewCHSink(deps.CH)
	}

	svc := service.New(
		deps.Docs, binder,
		domain.DefaultRegistry(),
		decider, metrics,
		service.Config{
			ScreenThreshold: opts.ScreenThreshold,
			ParallelCommits: opts.ParallelCommits,
		},
	)

	m := &Module{deps: deps}
	m.ports = Ports{Runner: svc, Storage: binder.Bind(deps.Docs)}
	return m
}

// Name returns the module name
func (m *Module) Name() string { return "ingest" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// MountRoutes is a no-op as ingest has no routes
func (m *Module) MountRoutes(_ phttp.Router) {}
