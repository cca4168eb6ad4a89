// Package risk computes return-series statistics bundles (volatility, Sharpe,
// Sortino, drawdown, VaR, beta, Treynor, win rate) for funds and portfolios.
package risk

import (
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/shashank1310/SIPSimulator/internal/domain"
)

// MinSampleSize is the minimum number of monthly returns for a computed
// bundle. Shorter series get the default bundle with Reliable=false.
const MinSampleSize = 6

// DefaultRiskFreeRate is the annual risk-free rate used when none is
// configured.
const DefaultRiskFreeRate = 0.06

// Calculator computes risk metrics from valuation series.
type Calculator struct {
	riskFree float64 // annual rate, fraction
	log      zerolog.Logger
}

// NewCalculator creates a new risk calculator.
func NewCalculator(riskFree float64, log zerolog.Logger) *Calculator {
	if riskFree <= 0 {
		riskFree = DefaultRiskFreeRate
	}
	return &Calculator{
		riskFree: riskFree,
		log:      log.With().Str("service", "risk").Logger(),
	}
}

// datedReturn is one period-over-period return, keyed by the period end date
// for benchmark alignment.
type datedReturn struct {
	Date time.Time
	R    float64
}

// Calculate derives the metrics bundle from a chronologically sorted
// valuation series. benchmark may be nil; beta then defaults to 1.0.
// Series shorter than MinSampleSize+1 observations yield the default bundle
// flagged Reliable=false so UIs can always render something.
func (c *Calculator) Calculate(values, benchmark []domain.DatePoint) domain.RiskMetrics {
	rets := monthlyReturns(values)
	if len(rets) < MinSampleSize {
		c.log.Debug().Int("returns", len(rets)).Msg("Insufficient history, returning default risk bundle")
		return defaultBundle(len(rets))
	}

	rs := make([]float64, len(rets))
	for i, r := range rets {
		rs[i] = r.R
	}

	mean := stat.Mean(rs, nil)
	stdev := stat.StdDev(rs, nil)

	annualizedReturn := math.Pow(1+mean, 12) - 1
	annualizedVol := stdev * math.Sqrt(12)

	// Sharpe on the monthly excess-return series.
	excess := make([]float64, len(rs))
	for i, r := range rs {
		excess[i] = r - c.riskFree/12
	}
	var sharpe float64
	if sd := stat.StdDev(excess, nil); sd > 0 {
		sharpe = stat.Mean(excess, nil) / sd
	}

	// Sortino: downside deviation in the denominator. With no losing months
	// the full-series deviation stands in, rather than dividing by zero.
	var downside []float64
	for _, r := range rs {
		if r < 0 {
			downside = append(downside, r)
		}
	}
	denom := stdev
	if len(downside) > 0 {
		denom = stat.StdDev(downside, nil)
	}
	var sortino float64
	if denom > 0 {
		sortino = stat.Mean(excess, nil) / denom
	}

	beta := c.beta(rets, monthlyReturns(benchmark))

	var treynor float64
	if beta != 0 {
		treynor = (annualizedReturn - c.riskFree) / beta
	}

	wins := 0
	for _, r := range rs {
		if r > 0 {
			wins++
		}
	}

	return domain.RiskMetrics{
		AnnualizedReturnPct:     round2(annualizedReturn * 100),
		AnnualizedVolatilityPct: round2(annualizedVol * 100),
		SharpeRatio:             round2(sharpe),
		SortinoRatio:            round2(sortino),
		MaxDrawdownPct:          round2(maxDrawdown(rs) * 100),
		VaR95Pct:                round2(percentile(rs, 5) * 100),
		Beta:                    round2(beta),
		TreynorRatio:            round2(treynor),
		WinRatePct:              round2(float64(wins) / float64(len(rs)) * 100),
		SampleSize:              len(rs),
		Reliable:                true,
	}
}

// beta regresses fund returns against benchmark returns aligned by date
// (inner join). Defaults to 1.0 with fewer than MinSampleSize aligned points
// or a degenerate benchmark.
func (c *Calculator) beta(fund, benchmark []datedReturn) float64 {
	if len(benchmark) == 0 {
		return 1.0
	}

	benchByDate := make(map[time.Time]float64, len(benchmark))
	for _, r := range benchmark {
		benchByDate[r.Date] = r.R
	}

	var fr, br []float64
	for _, r := range fund {
		if b, ok := benchByDate[r.Date]; ok {
			fr = append(fr, r.R)
			br = append(br, b)
		}
	}

	if len(fr) < MinSampleSize {
		return 1.0
	}
	variance := stat.Variance(br, nil)
	if variance <= 0 {
		return 1.0
	}
	return stat.Covariance(fr, br, nil) / variance
}

// LedgerPoints converts a fund ledger into the valuation series consumed by
// Calculate.
func LedgerPoints(ledger []domain.LedgerEntry) []domain.DatePoint {
	points := make([]domain.DatePoint, 0, len(ledger))
	for _, e := range ledger {
		points = append(points, domain.DatePoint{
			Date:         e.Date,
			Invested:     e.Invested,
			CurrentValue: e.CurrentValue,
		})
	}
	return points
}

// monthlyReturns computes period-over-period percentage changes of the
// current value. The first observation has no predecessor and is dropped.
func monthlyReturns(values []domain.DatePoint) []datedReturn {
	if len(values) < 2 {
		return nil
	}
	rets := make([]datedReturn, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		prev := values[i-1].CurrentValue
		if prev == 0 {
			continue
		}
		rets = append(rets, datedReturn{
			Date: values[i].Date,
			R:    values[i].CurrentValue/prev - 1,
		})
	}
	return rets
}

// maxDrawdown returns the deepest peak-to-trough decline (<= 0) over the
// compounded cumulative-return path.
func maxDrawdown(rs []float64) float64 {
	cumulative := 1.0
	peak := 1.0
	worst := 0.0
	for _, r := range rs {
		cumulative *= 1 + r
		if cumulative > peak {
			peak = cumulative
		}
		if dd := (cumulative - peak) / peak; dd < worst {
			worst = dd
		}
	}
	return worst
}

// percentile computes the p-th percentile with linear interpolation between
// order statistics, matching numpy's default.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// defaultBundle is returned when the series is too short for real statistics.
// The values are category-typical Indian equity fund figures so charts still
// render; Reliable=false tells callers not to trust them.
func defaultBundle(sampleSize int) domain.RiskMetrics {
	return domain.RiskMetrics{
		AnnualizedReturnPct:     12.0,
		AnnualizedVolatilityPct: 18.0,
		SharpeRatio:             0.6,
		SortinoRatio:            0.8,
		MaxDrawdownPct:          -15.0,
		VaR95Pct:                -8.0,
		Beta:                    1.0,
		TreynorRatio:            0.06,
		WinRatePct:              65.0,
		SampleSize:              sampleSize,
		Reliable:                false,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
