// Package handlers provides HTTP handlers for risk analysis.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/shashank1310/SIPSimulator/internal/modules/portfolio"
	"github.com/shashank1310/SIPSimulator/internal/modules/risk"
)

const dateLayout = "2006-01-02"

// Handler handles risk analysis HTTP requests.
type Handler struct {
	service *risk.Service
	log     zerolog.Logger
}

func NewHandler(service *risk.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "risk").Logger(),
	}
}

type analysisRequest struct {
	Funds []struct {
		SchemeCode string  `json:"scheme_code"`
		FundName   string  `json:"fund_name"`
		SIPAmount  float64 `json:"sip_amount"`
	} `json:"funds"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// HandleRiskAnalysis computes per-fund, portfolio and benchmark risk metrics
// over the requested period.
func (h *Handler) HandleRiskAnalysis(w http.ResponseWriter, r *http.Request) {
	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Funds) == 0 {
		h.writeError(w, http.StatusBadRequest, "at least one fund is required")
		return
	}
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "start_date must be formatted as YYYY-MM-DD")
		return
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "end_date must be formatted as YYYY-MM-DD")
		return
	}
	if end.Before(start) {
		h.writeError(w, http.StatusBadRequest, "end_date is before start_date")
		return
	}

	specs := make([]portfolio.FundSpec, len(req.Funds))
	for i, f := range req.Funds {
		if f.SchemeCode == "" {
			h.writeError(w, http.StatusBadRequest, "scheme_code is required for every fund")
			return
		}
		if f.SIPAmount <= 0 {
			h.writeError(w, http.StatusBadRequest, "sip_amount must be positive")
			return
		}
		specs[i] = portfolio.FundSpec{
			SchemeCode: f.SchemeCode,
			FundName:   f.FundName,
			Amount:     f.SIPAmount,
		}
	}

	analysis, err := h.service.Analyze(r.Context(), specs, start, end)
	if err != nil {
		h.log.Error().Err(err).Msg("risk analysis failed")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    analysis,
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
