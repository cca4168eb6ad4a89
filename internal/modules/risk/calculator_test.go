package risk

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashank1310/SIPSimulator/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestCalculator() *Calculator {
	return NewCalculator(DefaultRiskFreeRate, zerolog.Nop())
}

// valueSeries builds monthly DatePoints from a starting value and a list of
// period returns.
func valueSeries(start time.Time, initial float64, monthlyReturns []float64) []domain.DatePoint {
	points := []domain.DatePoint{{Date: start, CurrentValue: initial, Invested: initial}}
	value := initial
	for i, r := range monthlyReturns {
		value *= 1 + r
		points = append(points, domain.DatePoint{
			Date:         start.AddDate(0, i+1, 0),
			CurrentValue: value,
			Invested:     initial,
		})
	}
	return points
}

func TestCalculate_ShortSeriesDefaultBundle(t *testing.T) {
	values := valueSeries(date(2022, 1, 1), 1000, []float64{0.01, 0.02, -0.01})

	m := newTestCalculator().Calculate(values, nil)

	assert.False(t, m.Reliable)
	assert.Equal(t, 3, m.SampleSize)
	assert.Equal(t, 12.0, m.AnnualizedReturnPct)
	assert.Equal(t, 18.0, m.AnnualizedVolatilityPct)
	assert.Equal(t, 1.0, m.Beta)
	assert.Equal(t, -15.0, m.MaxDrawdownPct)
}

func TestCalculate_SteadyGrowth(t *testing.T) {
	// 1% every month for a year: no variance in returns.
	rets := make([]float64, 12)
	for i := range rets {
		rets[i] = 0.01
	}
	values := valueSeries(date(2022, 1, 1), 1000, rets)

	m := newTestCalculator().Calculate(values, nil)

	require.True(t, m.Reliable)
	assert.Equal(t, 12, m.SampleSize)
	// (1.01)^12 - 1 = 12.68%.
	assert.InDelta(t, 12.68, m.AnnualizedReturnPct, 0.05)
	assert.Equal(t, 0.0, m.AnnualizedVolatilityPct)
	// Zero variance: ratio denominators are guarded, never Inf or NaN.
	assert.Equal(t, 0.0, m.SharpeRatio)
	assert.Equal(t, 0.0, m.SortinoRatio)
	assert.Equal(t, 0.0, m.MaxDrawdownPct)
	assert.Equal(t, 100.0, m.WinRatePct)
	assert.Equal(t, 1.0, m.Beta) // no benchmark
}

func TestCalculate_MixedReturns(t *testing.T) {
	rets := []float64{0.05, -0.03, 0.02, -0.06, 0.04, 0.01, -0.02, 0.03}
	values := valueSeries(date(2022, 1, 1), 1000, rets)

	m := newTestCalculator().Calculate(values, nil)

	require.True(t, m.Reliable)
	assert.Equal(t, 8, m.SampleSize)
	assert.Greater(t, m.AnnualizedVolatilityPct, 0.0)
	// Drawdown is a decline: bounded by (-100, 0].
	assert.LessOrEqual(t, m.MaxDrawdownPct, 0.0)
	assert.Greater(t, m.MaxDrawdownPct, -100.0)
	// 5 of 8 months positive.
	assert.InDelta(t, 62.5, m.WinRatePct, 1e-9)
	// VaR95 sits at the loss tail.
	assert.Less(t, m.VaR95Pct, 0.0)
}

func TestCalculate_BetaAgainstIdenticalBenchmark(t *testing.T) {
	rets := []float64{0.05, -0.03, 0.02, -0.06, 0.04, 0.01, -0.02, 0.03}
	values := valueSeries(date(2022, 1, 1), 1000, rets)

	m := newTestCalculator().Calculate(values, values)

	require.True(t, m.Reliable)
	// Perfect co-movement.
	assert.InDelta(t, 1.0, m.Beta, 1e-6)
}

func TestCalculate_BetaLeveredFund(t *testing.T) {
	benchRets := []float64{0.02, -0.01, 0.03, -0.02, 0.01, 0.02, -0.03, 0.01}
	fundRets := make([]float64, len(benchRets))
	for i, r := range benchRets {
		fundRets[i] = 2 * r
	}
	start := date(2022, 1, 1)
	bench := valueSeries(start, 1000, benchRets)
	fund := valueSeries(start, 1000, fundRets)

	m := newTestCalculator().Calculate(fund, bench)

	// Doubling each return roughly doubles covariance relative to variance.
	assert.InDelta(t, 2.0, m.Beta, 0.1)
}

func TestCalculate_BetaMisalignedDatesDefaults(t *testing.T) {
	rets := []float64{0.05, -0.03, 0.02, -0.06, 0.04, 0.01, -0.02, 0.03}
	fund := valueSeries(date(2022, 1, 1), 1000, rets)
	// Benchmark on a shifted calendar: no dates align.
	bench := valueSeries(date(2022, 1, 15), 1000, rets)

	m := newTestCalculator().Calculate(fund, bench)
	assert.Equal(t, 1.0, m.Beta)
}

func TestCalculate_ZeroValueGap(t *testing.T) {
	// A zero interim value must not produce a division by zero.
	values := []domain.DatePoint{
		{Date: date(2022, 1, 1), CurrentValue: 1000},
		{Date: date(2022, 2, 1), CurrentValue: 0},
		{Date: date(2022, 3, 1), CurrentValue: 1050},
	}
	m := newTestCalculator().Calculate(values, nil)
	assert.False(t, m.Reliable)
}

func TestMaxDrawdown(t *testing.T) {
	// Up 10%, down 20%, up 5%: trough is 0.88 of the 1.10 peak.
	got := maxDrawdown([]float64{0.10, -0.20, 0.05})
	assert.InDelta(t, -0.20, got, 1e-9)

	assert.Equal(t, 0.0, maxDrawdown([]float64{0.01, 0.02, 0.03}))
}

func TestPercentile(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	assert.Equal(t, 1.0, percentile(values, 0))
	assert.Equal(t, 3.0, percentile(values, 50))
	assert.Equal(t, 5.0, percentile(values, 100))
	// Linear interpolation between order statistics.
	assert.InDelta(t, 1.2, percentile(values, 5), 1e-9)
	assert.Equal(t, 0.0, percentile(nil, 50))
}

func TestLedgerPoints(t *testing.T) {
	ledger := []domain.LedgerEntry{
		{Date: date(2022, 1, 1), Invested: 1000, CurrentValue: 1010},
		{Date: date(2022, 2, 1), Invested: 2000, CurrentValue: 2050},
	}
	points := LedgerPoints(ledger)
	require.Len(t, points, 2)
	assert.Equal(t, 1010.0, points[0].CurrentValue)
	assert.Equal(t, 2000.0, points[1].Invested)
}
