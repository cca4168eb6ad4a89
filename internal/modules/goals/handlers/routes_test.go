package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashank1310/SIPSimulator/internal/modules/goals"
)

func newTestRouter() chi.Router {
	h := NewHandler(goals.NewService(zerolog.Nop()), zerolog.Nop())
	r := chi.NewRouter()
	r.Route("/api", h.RegisterRoutes)
	return r
}

func doPlanning(t *testing.T, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/goal-planning", strings.NewReader(body))
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, req)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestHandleGoalPlanning_Custom(t *testing.T) {
	rec, resp := doPlanning(t, `{"target_amount": 5000000, "years": 10, "expected_return_pct": 12}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, resp["success"])

	data := resp["data"].(map[string]interface{})
	assert.Greater(t, data["monthly_sip"].(float64), 0.0)
	assert.Equal(t, 5000000.0, data["target_amount"])
}

func TestHandleGoalPlanning_Retirement(t *testing.T) {
	rec, resp := doPlanning(t, `{"goal_type": "retirement", "current_age": 30, "retirement_age": 60, "monthly_expenses": 50000}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, resp["success"])

	data := resp["data"].(map[string]interface{})
	assert.Greater(t, data["future_monthly_expenses"].(float64), 50000.0)
	assert.Equal(t, 30.0, data["years"])
	assert.Greater(t, data["monthly_sip"].(float64), 0.0)
}

func TestHandleGoalPlanning_Education(t *testing.T) {
	rec, resp := doPlanning(t, `{"goal_type": "education", "child_current_age": 5, "current_education_cost": 1000000}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, resp["success"])

	data := resp["data"].(map[string]interface{})
	assert.Greater(t, data["future_cost"].(float64), 1000000.0)
	assert.Equal(t, 13.0, data["years"])
}

func TestHandleGoalPlanning_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"unknown goal type", `{"goal_type": "lottery"}`},
		{"zero target", `{"target_amount": 0, "years": 10}`},
		{"retired already", `{"goal_type": "retirement", "current_age": 65, "retirement_age": 60}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := doPlanning(t, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, false, resp["success"])
		})
	}
}
