// Package handlers provides HTTP handlers for SIP simulation.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shashank1310/SIPSimulator/internal/modules/benchmark"
	"github.com/shashank1310/SIPSimulator/internal/modules/portfolio"
)

const dateLayout = "2006-01-02"

// Handler handles simulation HTTP requests.
type Handler struct {
	service   *portfolio.Service
	benchmark *benchmark.Adapter
	log       zerolog.Logger
}

// NewHandler creates a new simulation handler.
func NewHandler(service *portfolio.Service, bench *benchmark.Adapter, log zerolog.Logger) *Handler {
	return &Handler{
		service:   service,
		benchmark: bench,
		log:       log.With().Str("handler", "portfolio").Logger(),
	}
}

type fundRequest struct {
	SchemeCode string  `json:"scheme_code"`
	FundName   string  `json:"fund_name"`
	SIPAmount  float64 `json:"sip_amount"`
}

type simulateRequest struct {
	Funds            []fundRequest `json:"funds"`
	StartDate        string        `json:"start_date"`
	EndDate          string        `json:"end_date"`
	StepUpPercentage float64       `json:"step_up_percentage"`
}

func (req *simulateRequest) specs() []portfolio.FundSpec {
	specs := make([]portfolio.FundSpec, len(req.Funds))
	for i, f := range req.Funds {
		specs[i] = portfolio.FundSpec{
			SchemeCode: f.SchemeCode,
			FundName:   f.FundName,
			Amount:     f.SIPAmount,
		}
	}
	return specs
}

func (req *simulateRequest) validate() (start, end time.Time, errMsg string) {
	if len(req.Funds) == 0 {
		return start, end, "at least one fund is required"
	}
	for _, f := range req.Funds {
		if f.SchemeCode == "" {
			return start, end, "scheme_code is required for every fund"
		}
		if f.SIPAmount <= 0 {
			return start, end, "sip_amount must be positive"
		}
	}
	var err error
	start, err = time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return start, end, "start_date must be formatted as YYYY-MM-DD"
	}
	end, err = time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return start, end, "end_date must be formatted as YYYY-MM-DD"
	}
	if end.Before(start) {
		return start, end, "end_date is before start_date"
	}
	return start, end, ""
}

// HandleSimulate runs a flat monthly SIP simulation over the requested funds.
func (h *Handler) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	h.simulate(w, r, false)
}

// HandleStepUpSIP runs a simulation where each installment grows annually
// by step_up_percentage.
func (h *Handler) HandleStepUpSIP(w http.ResponseWriter, r *http.Request) {
	h.simulate(w, r, true)
}

func (h *Handler) simulate(w http.ResponseWriter, r *http.Request, stepUp bool) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	start, end, msg := req.validate()
	if msg != "" {
		h.writeError(w, http.StatusBadRequest, msg)
		return
	}
	stepUpPct := 0.0
	if stepUp {
		stepUpPct = req.StepUpPercentage
		if stepUpPct < 0 {
			h.writeError(w, http.StatusBadRequest, "step_up_percentage must not be negative")
			return
		}
	}

	simulationID := uuid.New().String()
	log := h.log.With().Str("simulation_id", simulationID).Logger()
	log.Info().Int("funds", len(req.Funds)).
		Str("start", req.StartDate).Str("end", req.EndDate).
		Float64("step_up_pct", stepUpPct).
		Msg("simulation requested")

	result, err := h.service.Simulate(r.Context(), req.specs(), start, end, stepUpPct)
	if err != nil {
		log.Error().Err(err).Msg("simulation failed")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"simulation_id": simulationID,
		"data":          result,
	})
}

type benchmarkRequest struct {
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	SIPAmount float64 `json:"sip_amount"`
}

// HandleBenchmark simulates the same SIP into the benchmark index fund.
func (h *Handler) HandleBenchmark(w http.ResponseWriter, r *http.Request) {
	var req benchmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
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
	if req.SIPAmount <= 0 {
		h.writeError(w, http.StatusBadRequest, "sip_amount must be positive")
		return
	}

	result, err := h.benchmark.Simulate(r.Context(), start, end, req.SIPAmount)
	if err != nil {
		h.log.Error().Err(err).Msg("benchmark simulation failed")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    result,
	})
}

// HandleCumulativePerformance returns the portfolio and benchmark value
// series side by side, for charting invested vs current value over time.
func (h *Handler) HandleCumulativePerformance(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	start, end, msg := req.validate()
	if msg != "" {
		h.writeError(w, http.StatusBadRequest, msg)
		return
	}

	result, err := h.service.Simulate(r.Context(), req.specs(), start, end, req.StepUpPercentage)
	if err != nil {
		h.log.Error().Err(err).Msg("cumulative performance simulation failed")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var totalSIP float64
	for _, f := range req.Funds {
		totalSIP += f.SIPAmount
	}
	response := map[string]interface{}{
		"portfolio": result.Totals,
		"summary":   result.Summary,
	}
	if bench, err := h.benchmark.Simulate(r.Context(), start, end, totalSIP); err != nil {
		// Charts still render without the benchmark overlay.
		h.log.Warn().Err(err).Msg("benchmark unavailable for cumulative performance")
	} else {
		response["benchmark"] = bench
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    response,
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
