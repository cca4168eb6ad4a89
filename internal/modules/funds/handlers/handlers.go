// Package handlers provides HTTP handlers for fund search and metadata.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/shashank1310/SIPSimulator/internal/clients/mfapi"
	"github.com/shashank1310/SIPSimulator/internal/modules/funds"
)

// InfoProvider returns detailed metadata for a scheme. Implemented by the
// mfapi client.
type InfoProvider interface {
	GetFundInfo(ctx context.Context, schemeCode string) (*mfapi.FundInfo, error)
}

// Handler handles fund registry HTTP requests.
type Handler struct {
	service *funds.Service
	info    InfoProvider
	log     zerolog.Logger
}

func NewHandler(service *funds.Service, info InfoProvider, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		info:    info,
		log:     log.With().Str("handler", "funds").Logger(),
	}
}

// HandleSearchFunds returns funds matching the q query parameter, best
// matches first. Without q it returns the popular funds.
func (h *Handler) HandleSearchFunds(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	results := h.service.Search(query)
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    results,
		"count":   len(results),
	})
}

// HandleFundInfo returns provider metadata and recent NAV history for a scheme.
func (h *Handler) HandleFundInfo(w http.ResponseWriter, r *http.Request) {
	schemeCode := chi.URLParam(r, "schemeCode")
	if schemeCode == "" {
		h.writeError(w, http.StatusBadRequest, "schemeCode is required")
		return
	}

	info, err := h.info.GetFundInfo(r.Context(), schemeCode)
	if err != nil {
		h.log.Error().Err(err).Str("scheme_code", schemeCode).Msg("fund info lookup failed")
		h.writeError(w, http.StatusNotFound, "fund not found")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    info,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]interface{}{"success": false, "error": message})
}
