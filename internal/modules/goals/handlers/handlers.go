// Package handlers provides HTTP handlers for goal planning.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/shashank1310/SIPSimulator/internal/modules/goals"
)

// Handler handles goal planning HTTP requests.
type Handler struct {
	service *goals.Service
	log     zerolog.Logger
}

func NewHandler(service *goals.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "goals").Logger(),
	}
}

// planningRequest is the union of the fields the goal variants accept.
// goal_type selects the variant; absent or "custom" means a plain
// target-amount goal.
type planningRequest struct {
	GoalType string `json:"goal_type"`

	TargetAmount       float64 `json:"target_amount"`
	Years              int     `json:"years"`
	AdjustForInflation bool    `json:"adjust_for_inflation"`

	CurrentAge           int     `json:"current_age"`
	RetirementAge        int     `json:"retirement_age"`
	MonthlyExpenses      float64 `json:"monthly_expenses"`
	YearsAfterRetirement int     `json:"years_after_retirement"`

	ChildCurrentAge   int     `json:"child_current_age"`
	EducationStartAge int     `json:"education_start_age"`
	CurrentCost       float64 `json:"current_education_cost"`

	ExpectedReturnPct float64 `json:"expected_return_pct"`
	InflationPct      float64 `json:"inflation_pct"`
	CurrentSavings    float64 `json:"current_savings"`
	RiskLevel         string  `json:"risk_level"`
}

// HandleGoalPlanning computes the monthly SIP required to reach a target
// corpus, with a suggested asset allocation. Retirement and education
// goals derive the corpus from expense or cost projections first.
func (h *Handler) HandleGoalPlanning(w http.ResponseWriter, r *http.Request) {
	var req planningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var (
		plan interface{}
		err  error
	)
	switch req.GoalType {
	case "retirement":
		plan, err = h.service.Retirement(goals.RetirementRequest{
			CurrentAge:           req.CurrentAge,
			RetirementAge:        req.RetirementAge,
			MonthlyExpenses:      req.MonthlyExpenses,
			YearsAfterRetirement: req.YearsAfterRetirement,
			ExpectedReturnPct:    req.ExpectedReturnPct,
			InflationPct:         req.InflationPct,
			CurrentSavings:       req.CurrentSavings,
			RiskLevel:            req.RiskLevel,
		})
	case "education":
		plan, err = h.service.Education(goals.EducationRequest{
			ChildCurrentAge:   req.ChildCurrentAge,
			EducationStartAge: req.EducationStartAge,
			CurrentCost:       req.CurrentCost,
			ExpectedReturnPct: req.ExpectedReturnPct,
			InflationPct:      req.InflationPct,
			CurrentSavings:    req.CurrentSavings,
			RiskLevel:         req.RiskLevel,
		})
	case "", "custom":
		plan, err = h.service.Plan(goals.Request{
			TargetAmount:       req.TargetAmount,
			Years:              req.Years,
			ExpectedReturnPct:  req.ExpectedReturnPct,
			InflationPct:       req.InflationPct,
			CurrentSavings:     req.CurrentSavings,
			RiskLevel:          req.RiskLevel,
			AdjustForInflation: req.AdjustForInflation,
		})
	default:
		h.writeError(w, http.StatusBadRequest, "unknown goal_type")
		return
	}
	if err != nil {
		if errors.Is(err, goals.ErrInvalidTarget) || errors.Is(err, goals.ErrInvalidHorizon) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Msg("goal planning failed")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    plan,
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
