// Package domain contains the core types shared across the simulation engine.
// The domain layer is pure: no HTTP, no database, no logging dependencies.
package domain

import (
	"context"
	"time"
)

// PricePoint is a single NAV observation for a fund.
type PricePoint struct {
	Date time.Time `json:"date"`
	NAV  float64   `json:"nav"`
}

// PriceSeries is an ordered sequence of NAV observations for one fund.
// Invariant: dates are strictly increasing, no duplicates.
type PriceSeries []PricePoint

// Empty reports whether the series has no observations.
func (s PriceSeries) Empty() bool { return len(s) == 0 }

// Latest returns the most recent observation at or before cutoff.
// The second return value is false when no such observation exists.
func (s PriceSeries) Latest(cutoff time.Time) (PricePoint, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if !s[i].Date.After(cutoff) {
			return s[i], true
		}
	}
	return PricePoint{}, false
}

// PriceSeriesProvider supplies NAV observations for a fund over a date window.
// Implementations must return an empty series (not an error) when the provider
// simply has no data for the window; errors are reserved for request failures
// that could not be recovered through caching or fallbacks.
type PriceSeriesProvider interface {
	GetPriceSeries(ctx context.Context, schemeCode string, start, end time.Time) (PriceSeries, error)
}

// CashFlow is a dated signed amount: negative for contributions,
// positive for the terminal valuation.
type CashFlow struct {
	Date   time.Time
	Amount float64
}

// LedgerEntry records one matched SIP contribution.
// CurrentValue values cumulative units at the series' latest NAV, not the NAV
// on the entry date, so every entry answers "what is this worth today".
// Downstream charts depend on this convention.
type LedgerEntry struct {
	Date          time.Time `json:"date"`
	Amount        float64   `json:"sip_amount"`
	UnitsAcquired float64   `json:"units_purchased"`
	Units         float64   `json:"units"`
	Invested      float64   `json:"invested"`
	CurrentValue  float64   `json:"current_value"`
	NAV           float64   `json:"nav"`
}

// FundResult is the outcome of simulating one fund's SIP history.
// When Err is non-empty the fund failed to simulate: the ledger is empty and
// the numeric fields are zero. XIRRPct is nil when the solver did not
// converge; callers must treat nil as "unknown", never as zero.
type FundResult struct {
	FundName          string        `json:"fund_name"`
	SchemeCode        string        `json:"scheme_code"`
	Invested          float64       `json:"invested"`
	FinalValue        float64       `json:"current_value"`
	AbsoluteReturnPct float64       `json:"return_pct"`
	CAGRPct           float64       `json:"cagr"`
	XIRRPct           *float64      `json:"xirr"`
	Ledger            []LedgerEntry `json:"monthly_data"`
	Err               string        `json:"error,omitempty"`
}

// DatePoint is one entry of a date-keyed value series (portfolio totals or a
// benchmark path).
type DatePoint struct {
	Date         time.Time `json:"date"`
	Invested     float64   `json:"invested"`
	CurrentValue float64   `json:"current_value"`
}

// PortfolioSummary aggregates invested capital and returns across funds.
type PortfolioSummary struct {
	TotalInvested     float64  `json:"total_invested"`
	FinalValue        float64  `json:"final_value"`
	AbsoluteReturnPct float64  `json:"absolute_return"`
	CAGRPct           float64  `json:"cagr"`
	XIRRPct           *float64 `json:"xirr"`
}

// PortfolioResult combines per-fund results with date-keyed portfolio totals.
type PortfolioResult struct {
	Funds   []FundResult     `json:"funds"`
	Totals  []DatePoint      `json:"monthly_data"`
	Summary PortfolioSummary `json:"portfolio_summary"`
}

// RiskMetrics is a return-series statistics bundle for a fund or portfolio.
// Reliable is false when the series was too short to compute the metrics and
// the bundle holds documented category-typical defaults instead.
type RiskMetrics struct {
	AnnualizedReturnPct     float64 `json:"annualized_return"`
	AnnualizedVolatilityPct float64 `json:"annualized_volatility"`
	SharpeRatio             float64 `json:"sharpe_ratio"`
	SortinoRatio            float64 `json:"sortino_ratio"`
	MaxDrawdownPct          float64 `json:"max_drawdown"`
	VaR95Pct                float64 `json:"var_95"`
	Beta                    float64 `json:"beta"`
	TreynorRatio            float64 `json:"treynor_ratio"`
	WinRatePct              float64 `json:"win_rate"`
	SampleSize              int     `json:"total_months"`
	Reliable                bool    `json:"reliable"`
}

// Fund identifies a fund in the registry and in simulation requests.
type Fund struct {
	SchemeCode string `json:"scheme_code"`
	FundName   string `json:"fund_name"`
}
