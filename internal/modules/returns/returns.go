// Package returns computes investment performance metrics (CAGR, XIRR) from
// valuation and cash-flow histories.
package returns

import (
	"math"
	"sort"

	"github.com/shashank1310/SIPSimulator/internal/domain"
)

const (
	maxIterations = 100
	tolerance     = 1e-7

	// Initial guesses for the XIRR root finder. 10% first, 5% on retry,
	// both near typical equity returns where the NPV curve is well-behaved.
	firstGuess  = 0.10
	secondGuess = 0.05
)

// CAGR returns the compound annual growth rate as a percentage.
// Non-positive inputs or a non-positive period return 0: callers display the
// value inline and a safe default beats an error there.
func CAGR(initialValue, finalValue, years float64) float64 {
	if initialValue <= 0 || finalValue <= 0 || years <= 0 {
		return 0
	}
	return (math.Pow(finalValue/initialValue, 1/years) - 1) * 100
}

// XIRR solves for the annualized rate that zeroes the net present value of an
// irregular cash-flow schedule, returned as a percentage. Contributions are
// negative, the terminal valuation positive. Returns nil when the solver does
// not converge from either starting guess; nil means "unknown", never zero.
// Fewer than 2 cash flows is a caller error and also returns nil.
func XIRR(flows []domain.CashFlow) *float64 {
	if len(flows) < 2 {
		return nil
	}

	sorted := make([]domain.CashFlow, len(flows))
	copy(sorted, flows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	// Exponents in years from the first flow, actual/365.
	t0 := sorted[0].Date
	years := make([]float64, len(sorted))
	for i, cf := range sorted {
		years[i] = cf.Date.Sub(t0).Hours() / 24 / 365
	}

	for _, guess := range []float64{firstGuess, secondGuess} {
		if rate, ok := newton(sorted, years, guess); ok {
			pct := rate * 100
			return &pct
		}
	}
	return nil
}

// newton runs Newton-Raphson on the NPV function with an analytic derivative.
func newton(flows []domain.CashFlow, years []float64, guess float64) (float64, bool) {
	rate := guess
	for iter := 0; iter < maxIterations; iter++ {
		// The discount base must stay positive.
		if rate <= -1 {
			return 0, false
		}

		var npv, deriv float64
		for i, cf := range flows {
			factor := math.Pow(1+rate, years[i])
			npv += cf.Amount / factor
			deriv -= cf.Amount * years[i] / (factor * (1 + rate))
		}

		if math.Abs(npv) < tolerance {
			return rate, true
		}
		if deriv == 0 || math.IsNaN(deriv) || math.IsInf(deriv, 0) {
			return 0, false
		}

		next := rate - npv/deriv
		if math.IsNaN(next) || math.IsInf(next, 0) {
			return 0, false
		}
		if math.Abs(next-rate) < tolerance {
			return next, true
		}
		rate = next
	}
	return 0, false
}
