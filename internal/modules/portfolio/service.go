// Package portfolio aggregates single-fund SIP simulations into date-keyed
// portfolio totals and a combined summary.
package portfolio

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/shashank1310/SIPSimulator/internal/domain"
	"github.com/shashank1310/SIPSimulator/internal/modules/returns"
	"github.com/shashank1310/SIPSimulator/internal/modules/schedule"
	"github.com/shashank1310/SIPSimulator/internal/modules/simulation"
)

// DefaultWorkers bounds the simulation worker pool. Fund simulations are
// independent and mostly block on provider I/O.
const DefaultWorkers = 4

// FundSpec describes one holding in a simulation request.
type FundSpec struct {
	SchemeCode string
	FundName   string
	Amount     float64 // monthly contribution
}

// Service runs multi-fund SIP simulations.
type Service struct {
	provider   domain.PriceSeriesProvider
	sim        *simulation.Simulator
	workers    int
	dayOfMonth int
	log        zerolog.Logger
}

// NewService creates a new portfolio service.
func NewService(provider domain.PriceSeriesProvider, sim *simulation.Simulator, workers, dayOfMonth int, log zerolog.Logger) *Service {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if dayOfMonth < 1 {
		dayOfMonth = 1
	}
	return &Service{
		provider:   provider,
		sim:        sim,
		workers:    workers,
		dayOfMonth: dayOfMonth,
		log:        log.With().Str("service", "portfolio").Logger(),
	}
}

// fundOutcome carries one worker's result through the fan-in barrier.
type fundOutcome struct {
	result domain.FundResult
	flows  []domain.CashFlow // contribution flows only (terminal stripped)
	failed bool
}

// Simulate runs every fund's simulation on a bounded worker pool, then merges
// the results. stepUpPct of 0 means a flat SIP; otherwise contributions grow
// by that percentage once per elapsed year.
//
// One fund's failure does not abort the others: the failing fund appears in
// the result with an empty ledger and its failure reason, and is excluded
// from the totals and summary.
func (s *Service) Simulate(ctx context.Context, funds []FundSpec, start, end time.Time, stepUpPct float64) (domain.PortfolioResult, error) {
	dates, err := schedule.Build(start, end, s.dayOfMonth)
	if err != nil {
		return domain.PortfolioResult{}, err
	}

	outcomes := make([]fundOutcome, len(funds))

	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := s.workers
	if workers > len(funds) {
		workers = len(funds)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = s.simulateOne(ctx, funds[i], dates, start, end, stepUpPct)
			}
		}()
	}

	for i := range funds {
		jobs <- i
	}
	close(jobs)

	// Synchronization barrier: the merge runs only after every worker result
	// is collected.
	wg.Wait()

	return s.merge(outcomes, start, end), nil
}

func (s *Service) simulateOne(ctx context.Context, fund FundSpec, dates []time.Time, start, end time.Time, stepUpPct float64) fundOutcome {
	fail := func(err error) fundOutcome {
		s.log.Warn().Err(err).Str("scheme", fund.SchemeCode).Msg("Fund simulation failed")
		return fundOutcome{
			result: domain.FundResult{
				FundName:   fund.FundName,
				SchemeCode: fund.SchemeCode,
				Ledger:     []domain.LedgerEntry{},
				Err:        err.Error(),
			},
			failed: true,
		}
	}

	series, err := s.provider.GetPriceSeries(ctx, fund.SchemeCode, start, end)
	if err != nil {
		return fail(err)
	}

	result, flows, err := s.sim.Run(simulation.Request{
		FundName:   fund.FundName,
		SchemeCode: fund.SchemeCode,
		Series:     series,
		Dates:      dates,
		AmountAt:   schedule.StepUp(fund.Amount, stepUpPct),
		Start:      start,
		End:        end,
	})
	if err != nil {
		return fail(err)
	}

	// The last flow is the fund's own terminal valuation; the portfolio has a
	// single terminal flow of its own.
	return fundOutcome{result: result, flows: flows[:len(flows)-1]}
}

// merge combines worker outcomes into the portfolio result.
func (s *Service) merge(outcomes []fundOutcome, start, end time.Time) domain.PortfolioResult {
	result := domain.PortfolioResult{Funds: make([]domain.FundResult, 0, len(outcomes))}

	var (
		totalInvested float64
		finalValue    float64
		flows         []domain.CashFlow
		ledgers       [][]domain.LedgerEntry
	)

	for _, o := range outcomes {
		result.Funds = append(result.Funds, o.result)
		if o.failed {
			continue
		}
		totalInvested += o.result.Invested
		finalValue += o.result.FinalValue
		flows = append(flows, o.flows...)
		ledgers = append(ledgers, o.result.Ledger)
	}

	result.Totals = mergeTotals(ledgers)

	result.Summary.TotalInvested = totalInvested
	result.Summary.FinalValue = finalValue
	if totalInvested > 0 {
		result.Summary.AbsoluteReturnPct = (finalValue - totalInvested) / totalInvested * 100
	}

	years := end.Sub(start).Hours() / 24 / 365.25
	result.Summary.CAGRPct = returns.CAGR(totalInvested, finalValue, years)

	flows = append(flows, domain.CashFlow{Date: end, Amount: finalValue})
	result.Summary.XIRRPct = returns.XIRR(flows)

	return result
}

// mergeTotals builds the date-keyed portfolio series. For every distinct date
// across all ledgers, the portfolio total is the sum of each fund's most
// recent ledger entry at or before that date, so heterogeneous fund calendars
// line up without a shared contribution date. Dates with zero aggregate
// invested amount are dropped.
func mergeTotals(ledgers [][]domain.LedgerEntry) []domain.DatePoint {
	seen := make(map[time.Time]struct{})
	var dates []time.Time
	for _, ledger := range ledgers {
		for _, e := range ledger {
			if _, ok := seen[e.Date]; !ok {
				seen[e.Date] = struct{}{}
				dates = append(dates, e.Date)
			}
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	// One cursor per ledger; ledgers and dates are both chronological.
	cursors := make([]int, len(ledgers))

	totals := make([]domain.DatePoint, 0, len(dates))
	for _, date := range dates {
		point := domain.DatePoint{Date: date}
		for li, ledger := range ledgers {
			for cursors[li] < len(ledger) && !ledger[cursors[li]].Date.After(date) {
				cursors[li]++
			}
			if cursors[li] == 0 {
				continue // fund has no entry at or before this date yet
			}
			entry := ledger[cursors[li]-1]
			point.Invested += entry.Invested
			point.CurrentValue += entry.CurrentValue
		}
		if point.Invested > 0 {
			totals = append(totals, point)
		}
	}

	return totals
}
