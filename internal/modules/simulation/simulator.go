// Package simulation walks SIP contribution schedules against NAV series,
// producing monthly ledgers and final valuations for single funds.
package simulation

import (
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/shashank1310/SIPSimulator/internal/domain"
	"github.com/shashank1310/SIPSimulator/internal/modules/returns"
)

// Request describes one fund simulation.
type Request struct {
	FundName   string
	SchemeCode string
	Series     domain.PriceSeries // sorted, deduped; see mfapi.Normalize
	Dates      []time.Time        // nominal contribution dates from schedule.Build
	AmountAt   func(i int) float64
	Start      time.Time
	End        time.Time // valuation date
}

// Simulator accumulates units and invested capital for a SIP against a NAV
// series.
type Simulator struct {
	log zerolog.Logger
}

// New creates a new simulator.
func New(log zerolog.Logger) *Simulator {
	return &Simulator{log: log.With().Str("service", "simulation").Logger()}
}

// Run simulates the SIP and returns the fund result plus its contribution
// cash flows (terminal valuation included) for portfolio-level XIRR.
//
// Price matching per contribution date is forward-then-backward nearest:
// prefer the earliest observation at or after the date (invest on the next
// available trading day), fall back to the latest observation before it, and
// skip the contribution when neither exists. Ledger current values and the
// final valuation use the series' latest NAV at or before End.
func (s *Simulator) Run(req Request) (domain.FundResult, []domain.CashFlow, error) {
	result := domain.FundResult{
		FundName:   req.FundName,
		SchemeCode: req.SchemeCode,
		Ledger:     []domain.LedgerEntry{},
	}

	latest, ok := req.Series.Latest(req.End)
	if req.Series.Empty() || !ok {
		return result, nil, &domain.NoPriceDataError{
			SchemeCode: req.SchemeCode,
			End:        req.End.Format("2006-01-02"),
		}
	}

	var (
		invested float64
		units    float64
		flows    []domain.CashFlow
	)

	for i, nominal := range req.Dates {
		point, ok := match(req.Series, nominal)
		if !ok {
			continue
		}

		amount := req.AmountAt(i)
		acquired := amount / point.NAV
		invested += amount
		units += acquired

		flows = append(flows, domain.CashFlow{Date: point.Date, Amount: -amount})
		result.Ledger = append(result.Ledger, domain.LedgerEntry{
			Date:          point.Date,
			Amount:        amount,
			UnitsAcquired: acquired,
			Units:         units,
			Invested:      invested,
			CurrentValue:  units * latest.NAV,
			NAV:           point.NAV,
		})
	}

	finalValue := units * latest.NAV
	flows = append(flows, domain.CashFlow{Date: req.End, Amount: finalValue})

	result.Invested = invested
	result.FinalValue = finalValue
	if invested > 0 {
		result.AbsoluteReturnPct = (finalValue - invested) / invested * 100
	}

	years := req.End.Sub(req.Start).Hours() / 24 / 365.25
	result.CAGRPct = returns.CAGR(invested, finalValue, years)
	result.XIRRPct = returns.XIRR(flows)

	s.log.Debug().
		Str("scheme", req.SchemeCode).
		Int("contributions", len(result.Ledger)).
		Float64("invested", invested).
		Float64("final_value", finalValue).
		Msg("Simulation complete")

	return result, flows, nil
}

// match locates the observation to use for a nominal contribution date:
// earliest at-or-after, else latest before.
func match(series domain.PriceSeries, date time.Time) (domain.PricePoint, bool) {
	if len(series) == 0 {
		return domain.PricePoint{}, false
	}

	idx := sort.Search(len(series), func(i int) bool {
		return !series[i].Date.Before(date)
	})
	if idx < len(series) {
		return series[idx], true
	}
	// Schedule date is past the series end; use the latest earlier observation.
	return series[len(series)-1], true
}
