// Package api assembles the HTTP API for the application
package api

import (
	"rosterline/internal/platform/config"
	"rosterline/internal/platform/logger"
	phttp "rosterline/internal/platform/net/http"
	"rosterline/internal/platform/store"

	"rosterline/internal/modkit"
	"rosterline/internal/modkit/module"
	"rosterline/internal/modkit/swaggerkit"

	runsmod "rosterline/internal/services/api/runs/module"
)

// Options are the API options
type Options struct {
	Config        config.Conf
	Store         *store.Store
	Logger        *logger.Logger
	EnableSwagger bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	deps := modkit.Deps{
		Cfg:  opt.Config,
		Docs: opt.Store.Docs,
		CH:   opt.Store.CH,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	swaggerkit.Mount(r, opt.EnableSwagger)

	mods := []module.Module{
		runsmod.New(deps),
	}
	for _, m := range mods {
		m.MountRoutes(r)
	}
}
