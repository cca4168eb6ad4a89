package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all risk analysis routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/risk-analysis", h.HandleRiskAnalysis)
}
