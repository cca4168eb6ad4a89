// Package goals computes SIP amounts required to reach a financial goal,
// with inflation-adjusted targets and horizon-based allocation suggestions.
package goals

import (
	"errors"
	"math"

	"github.com/rs/zerolog"
)

var (
	ErrInvalidTarget  = errors.New("target amount must be positive")
	ErrInvalidHorizon = errors.New("investment horizon must be at least one year")
)

// Request describes a financial goal.
type Request struct {
	TargetAmount       float64 `json:"target_amount"`
	Years              int     `json:"years"`
	ExpectedReturnPct  float64 `json:"expected_return_pct"`
	InflationPct       float64 `json:"inflation_pct"`
	CurrentSavings     float64 `json:"current_savings"`
	RiskLevel          string  `json:"risk_level"`
	AdjustForInflation bool    `json:"adjust_for_inflation"`
}

// Plan is the computed answer for a goal.
type Plan struct {
	TargetAmount         float64    `json:"target_amount"`
	InflationAdjusted    float64    `json:"inflation_adjusted_target"`
	FutureValueOfSavings float64    `json:"future_value_of_savings"`
	MonthlySIP           float64    `json:"monthly_sip"`
	StepUpInitialSIP     float64    `json:"step_up_initial_sip"`
	TotalInvestment      float64    `json:"total_investment"`
	WealthGained         float64    `json:"wealth_gained"`
	Years                int        `json:"years"`
	ExpectedReturnPct    float64    `json:"expected_return_pct"`
	Allocation           Allocation `json:"suggested_allocation"`
}

// Allocation is a suggested equity/debt split in percent.
type Allocation struct {
	EquityPct float64 `json:"equity_pct"`
	DebtPct   float64 `json:"debt_pct"`
	Note      string  `json:"note"`
}

const (
	defaultReturnPct    = 12.0
	defaultInflationPct = 6.0

	// A 10% annual step-up lets the first installment start lower than
	// the flat SIP and still reach the same corpus.
	stepUpInitialFactor = 0.78

	defaultRetirementAge   = 60
	defaultMonthlyExpenses = 50000.0
	defaultRetirementYears = 25
	defaultEducationAge    = 18
	defaultEducationCost   = 1000000.0
)

// RetirementRequest describes a retirement goal in terms of today's
// living expenses.
type RetirementRequest struct {
	CurrentAge           int     `json:"current_age"`
	RetirementAge        int     `json:"retirement_age"`
	MonthlyExpenses      float64 `json:"monthly_expenses"`
	YearsAfterRetirement int     `json:"years_after_retirement"`
	ExpectedReturnPct    float64 `json:"expected_return_pct"`
	InflationPct         float64 `json:"inflation_pct"`
	CurrentSavings       float64 `json:"current_savings"`
	RiskLevel            string  `json:"risk_level"`
}

// RetirementPlan extends Plan with the expense projection behind the
// target corpus.
type RetirementPlan struct {
	CurrentMonthlyExpenses float64 `json:"current_monthly_expenses"`
	FutureMonthlyExpenses  float64 `json:"future_monthly_expenses"`
	YearsAfterRetirement   int     `json:"years_after_retirement"`
	Plan
}

// EducationRequest describes an education goal priced at today's cost.
type EducationRequest struct {
	ChildCurrentAge   int     `json:"child_current_age"`
	EducationStartAge int     `json:"education_start_age"`
	CurrentCost       float64 `json:"current_education_cost"`
	ExpectedReturnPct float64 `json:"expected_return_pct"`
	InflationPct      float64 `json:"inflation_pct"`
	CurrentSavings    float64 `json:"current_savings"`
	RiskLevel         string  `json:"risk_level"`
}

// EducationPlan extends Plan with the cost projection behind the target.
type EducationPlan struct {
	CurrentCost float64 `json:"current_cost"`
	FutureCost  float64 `json:"future_cost"`
	Plan
}

type Service struct {
	log zerolog.Logger
}

func NewService(log zerolog.Logger) *Service {
	return &Service{log: log.With().Str("service", "goals").Logger()}
}

// Plan computes the monthly SIP needed to reach the goal.
func (s *Service) Plan(req Request) (Plan, error) {
	if req.TargetAmount <= 0 {
		return Plan{}, ErrInvalidTarget
	}
	if req.Years < 1 {
		return Plan{}, ErrInvalidHorizon
	}
	if req.ExpectedReturnPct <= 0 {
		req.ExpectedReturnPct = defaultReturnPct
	}
	if req.InflationPct <= 0 {
		req.InflationPct = defaultInflationPct
	}

	years := float64(req.Years)
	target := req.TargetAmount
	if req.AdjustForInflation {
		target = req.TargetAmount * math.Pow(1+req.InflationPct/100, years)
	}

	annual := req.ExpectedReturnPct / 100
	fvSavings := req.CurrentSavings * math.Pow(1+annual, years)

	shortfall := target - fvSavings
	var sip float64
	if shortfall > 0 {
		sip = RequiredSIP(shortfall, req.ExpectedReturnPct, req.Years)
	}

	months := float64(req.Years * 12)
	totalInvestment := sip * months
	wealthGained := target - totalInvestment - req.CurrentSavings
	if wealthGained < 0 {
		wealthGained = 0
	}

	plan := Plan{
		TargetAmount:         round2(req.TargetAmount),
		InflationAdjusted:    round2(target),
		FutureValueOfSavings: round2(fvSavings),
		MonthlySIP:           round2(sip),
		StepUpInitialSIP:     round2(sip * stepUpInitialFactor),
		TotalInvestment:      round2(totalInvestment),
		WealthGained:         round2(wealthGained),
		Years:                req.Years,
		ExpectedReturnPct:    req.ExpectedReturnPct,
		Allocation:           SuggestAllocation(req.Years, req.RiskLevel),
	}
	s.log.Debug().
		Float64("target", plan.InflationAdjusted).
		Float64("monthly_sip", plan.MonthlySIP).
		Int("years", req.Years).
		Msg("goal plan computed")
	return plan, nil
}

// Retirement sizes the corpus as the number of post-retirement years of
// inflation-grown expenses and plans the SIP over the accumulation
// horizon.
func (s *Service) Retirement(req RetirementRequest) (RetirementPlan, error) {
	if req.RetirementAge <= 0 {
		req.RetirementAge = defaultRetirementAge
	}
	if req.MonthlyExpenses <= 0 {
		req.MonthlyExpenses = defaultMonthlyExpenses
	}
	if req.YearsAfterRetirement <= 0 {
		req.YearsAfterRetirement = defaultRetirementYears
	}
	horizon := req.RetirementAge - req.CurrentAge
	if req.CurrentAge <= 0 || horizon < 1 {
		return RetirementPlan{}, ErrInvalidHorizon
	}
	inflation := req.InflationPct
	if inflation <= 0 {
		inflation = defaultInflationPct
	}

	futureMonthly := req.MonthlyExpenses * math.Pow(1+inflation/100, float64(horizon))
	target := futureMonthly * 12 * float64(req.YearsAfterRetirement)

	plan, err := s.Plan(Request{
		TargetAmount:      target,
		Years:             horizon,
		ExpectedReturnPct: req.ExpectedReturnPct,
		InflationPct:      inflation,
		CurrentSavings:    req.CurrentSavings,
		RiskLevel:         req.RiskLevel,
	})
	if err != nil {
		return RetirementPlan{}, err
	}
	return RetirementPlan{
		CurrentMonthlyExpenses: req.MonthlyExpenses,
		FutureMonthlyExpenses:  round2(futureMonthly),
		YearsAfterRetirement:   req.YearsAfterRetirement,
		Plan:                   plan,
	}, nil
}

// Education grows today's education cost to the year the course starts
// and plans the SIP over the remaining years.
func (s *Service) Education(req EducationRequest) (EducationPlan, error) {
	if req.EducationStartAge <= 0 {
		req.EducationStartAge = defaultEducationAge
	}
	if req.CurrentCost <= 0 {
		req.CurrentCost = defaultEducationCost
	}
	horizon := req.EducationStartAge - req.ChildCurrentAge
	if req.ChildCurrentAge < 0 || horizon < 1 {
		return EducationPlan{}, ErrInvalidHorizon
	}
	inflation := req.InflationPct
	if inflation <= 0 {
		inflation = defaultInflationPct
	}

	futureCost := req.CurrentCost * math.Pow(1+inflation/100, float64(horizon))

	plan, err := s.Plan(Request{
		TargetAmount:      futureCost,
		Years:             horizon,
		ExpectedReturnPct: req.ExpectedReturnPct,
		InflationPct:      inflation,
		CurrentSavings:    req.CurrentSavings,
		RiskLevel:         req.RiskLevel,
	})
	if err != nil {
		return EducationPlan{}, err
	}
	return EducationPlan{
		CurrentCost: req.CurrentCost,
		FutureCost:  round2(futureCost),
		Plan:        plan,
	}, nil
}

// RequiredSIP inverts the future-value-of-annuity formula:
// FV = P * ((1+r)^n - 1) / r, with r the monthly rate and n months.
func RequiredSIP(futureValue, annualReturnPct float64, years int) float64 {
	if futureValue <= 0 || years < 1 {
		return 0
	}
	r := annualReturnPct / 100 / 12
	n := float64(years * 12)
	if r == 0 {
		return futureValue / n
	}
	return futureValue * r / (math.Pow(1+r, n) - 1)
}

// FutureValue is the forward form of the same annuity formula, used by
// tests and by callers projecting a known SIP.
func FutureValue(monthlySIP, annualReturnPct float64, years int) float64 {
	if monthlySIP <= 0 || years < 1 {
		return 0
	}
	r := annualReturnPct / 100 / 12
	n := float64(years * 12)
	if r == 0 {
		return monthlySIP * n
	}
	return monthlySIP * (math.Pow(1+r, n) - 1) / r
}

// SuggestAllocation maps horizon and stated risk appetite onto a simple
// equity/debt split.
func SuggestAllocation(years int, riskLevel string) Allocation {
	var equity float64
	var note string
	switch {
	case years >= 10:
		equity, note = 80, "long horizon, equity heavy"
	case years >= 5:
		equity, note = 65, "medium horizon, balanced tilt to equity"
	case years >= 3:
		equity, note = 45, "short horizon, balanced"
	default:
		equity, note = 25, "very short horizon, capital preservation"
	}

	switch riskLevel {
	case "aggressive":
		equity = math.Min(equity+10, 90)
	case "conservative":
		equity = math.Max(equity-15, 10)
	}

	return Allocation{EquityPct: equity, DebtPct: 100 - equity, Note: note}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
