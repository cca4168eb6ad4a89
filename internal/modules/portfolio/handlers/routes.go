package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all simulation routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/simulate", h.HandleSimulate)
	r.Post("/step-up-sip", h.HandleStepUpSIP)
	r.Post("/benchmark", h.HandleBenchmark)
	r.Post("/cumulative-performance", h.HandleCumulativePerformance)
}
