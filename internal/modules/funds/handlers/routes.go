package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all fund registry routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/search-funds", h.HandleSearchFunds)
	r.Get("/fund-info/{schemeCode}", h.HandleFundInfo)
}
