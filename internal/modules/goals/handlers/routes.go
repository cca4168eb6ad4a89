package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all goal planning routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/goal-planning", h.HandleGoalPlanning)
}
