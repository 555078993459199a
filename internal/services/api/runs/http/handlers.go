// Package http provides http transport for the runs API
package http

import (
	stdhttp "net/http"
	"strconv"

	"rosterline/internal/modkit/httpkit"
	"rosterline/internal/services/api/runs/domain"
)

// Register mounts runs endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}
	httpkit.GetJSON(r, "/", h.list)
	httpkit.GetJSON(r, "/{id}", h.get)
	httpkit.PostJSON[domain.DecisionInput](r, "/{id}/decision", h.decide)
}

type handlers struct{ svc domain.ServicePort }

// @Summary List recent ingestion runs
// @Tags Runs
// @Produce json
// @Param limit query int false "Max runs returned" default(50)
// @Success 200 {array} domain.RunSummary "ok"
// @Router /runs [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	in := domain.ListInput{}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			in.Limit = n
		}
	}
	return h.svc.List(r.Context(), in)
}

// @Summary Fetch one run report
// @Tags Runs
// @Produce json
// @Param id path string true "Run id"
// @Success 200 {object} ingestdom.RunReport "ok"
// @Router /runs/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	return h.svc.Get(r.Context(), httpkit.Param(r, "id"))
}

// @Summary Record an operator decision for a suspended run
// @Tags Runs
// @Accept json
// @Produce json
// @Param id path string true "Run id"
// @Param payload body domain.DecisionInput true "Decision"
// @Success 200 {object} ingestdom.RunReport "ok"
// @Router /runs/{id}/decision [post]
func (h *handlers) decide(r *stdhttp.Request, in domain.DecisionInput) (any, error) {
	return h.svc.Decide(r.Context(), httpkit.Param(r, "id"), in)
}
