package portfolio

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashank1310/SIPSimulator/internal/domain"
	"github.com/shashank1310/SIPSimulator/internal/modules/simulation"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// fakeProvider serves canned series per scheme code, or an error.
type fakeProvider struct {
	series map[string]domain.PriceSeries
	errs   map[string]error
}

func (f *fakeProvider) GetPriceSeries(_ context.Context, schemeCode string, _, _ time.Time) (domain.PriceSeries, error) {
	if err, ok := f.errs[schemeCode]; ok {
		return nil, err
	}
	return f.series[schemeCode], nil
}

func monthlySeries(start time.Time, months int, startNAV, growth float64) domain.PriceSeries {
	series := make(domain.PriceSeries, 0, months)
	nav := startNAV
	for i := 0; i < months; i++ {
		series = append(series, domain.PricePoint{Date: start.AddDate(0, i, 0), NAV: nav})
		nav *= 1 + growth
	}
	return series
}

func newTestService(provider domain.PriceSeriesProvider) *Service {
	log := zerolog.Nop()
	return NewService(provider, simulation.New(log), DefaultWorkers, 1, log)
}

func TestSimulate_TwoFunds(t *testing.T) {
	start, end := date(2020, 1, 1), date(2023, 1, 1)
	provider := &fakeProvider{series: map[string]domain.PriceSeries{
		"100001": monthlySeries(start, 37, 50, 0.01),
		"100002": monthlySeries(start, 37, 120, 0.005),
	}}

	result, err := newTestService(provider).Simulate(context.Background(), []FundSpec{
		{SchemeCode: "100001", FundName: "Fund A", Amount: 5000},
		{SchemeCode: "100002", FundName: "Fund B", Amount: 5000},
	}, start, end, 0)
	require.NoError(t, err)

	require.Len(t, result.Funds, 2)
	// Result order matches request order regardless of worker scheduling.
	assert.Equal(t, "Fund A", result.Funds[0].FundName)
	assert.Equal(t, "Fund B", result.Funds[1].FundName)

	// 2 funds x 5000 x 36 months.
	assert.Equal(t, 360000.0, result.Summary.TotalInvested)
	assert.Greater(t, result.Summary.FinalValue, result.Summary.TotalInvested)
	require.NotNil(t, result.Summary.XIRRPct)
	assert.Greater(t, *result.Summary.XIRRPct, 0.0)

	// Funds share a calendar here, so totals line up with the schedule.
	require.Len(t, result.Totals, 36)
	last := result.Totals[len(result.Totals)-1]
	assert.InDelta(t, 360000.0, last.Invested, 1e-6)
	assert.InDelta(t, result.Summary.FinalValue, last.CurrentValue, 1e-6)

	// Monotonic invested amounts.
	for i := 1; i < len(result.Totals); i++ {
		assert.GreaterOrEqual(t, result.Totals[i].Invested, result.Totals[i-1].Invested)
	}
}

func TestSimulate_FailedFundIsolated(t *testing.T) {
	start, end := date(2022, 1, 1), date(2023, 1, 1)
	provider := &fakeProvider{
		series: map[string]domain.PriceSeries{
			"100001": monthlySeries(start, 13, 50, 0.01),
		},
		errs: map[string]error{
			"999999": errors.New("scheme not found"),
		},
	}

	result, err := newTestService(provider).Simulate(context.Background(), []FundSpec{
		{SchemeCode: "100001", FundName: "Good Fund", Amount: 1000},
		{SchemeCode: "999999", FundName: "Bad Fund", Amount: 1000},
	}, start, end, 0)
	require.NoError(t, err)

	require.Len(t, result.Funds, 2)
	good, bad := result.Funds[0], result.Funds[1]

	assert.Empty(t, good.Err)
	assert.Equal(t, 12000.0, good.Invested)

	assert.Equal(t, "scheme not found", bad.Err)
	assert.NotNil(t, bad.Ledger)
	assert.Empty(t, bad.Ledger)
	assert.Zero(t, bad.Invested)

	// Failed fund is excluded from the totals and summary.
	assert.Equal(t, 12000.0, result.Summary.TotalInvested)
	last := result.Totals[len(result.Totals)-1]
	assert.InDelta(t, 12000.0, last.Invested, 1e-6)
}

func TestSimulate_AllFundsFailed(t *testing.T) {
	start, end := date(2022, 1, 1), date(2023, 1, 1)
	provider := &fakeProvider{errs: map[string]error{
		"999999": errors.New("scheme not found"),
	}}

	result, err := newTestService(provider).Simulate(context.Background(), []FundSpec{
		{SchemeCode: "999999", FundName: "Bad Fund", Amount: 1000},
	}, start, end, 0)
	require.NoError(t, err)

	assert.Zero(t, result.Summary.TotalInvested)
	assert.Empty(t, result.Totals)
	assert.Nil(t, result.Summary.XIRRPct)
}

func TestSimulate_InvalidRange(t *testing.T) {
	provider := &fakeProvider{}
	_, err := newTestService(provider).Simulate(context.Background(), []FundSpec{
		{SchemeCode: "100001", Amount: 1000},
	}, date(2023, 1, 1), date(2020, 1, 1), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}

func TestSimulate_StepUpIncreasesInvested(t *testing.T) {
	start, end := date(2020, 1, 1), date(2023, 1, 1)
	provider := &fakeProvider{series: map[string]domain.PriceSeries{
		"100001": monthlySeries(start, 37, 50, 0),
	}}
	svc := newTestService(provider)

	flat, err := svc.Simulate(context.Background(), []FundSpec{
		{SchemeCode: "100001", Amount: 1000},
	}, start, end, 0)
	require.NoError(t, err)

	stepped, err := svc.Simulate(context.Background(), []FundSpec{
		{SchemeCode: "100001", Amount: 1000},
	}, start, end, 10)
	require.NoError(t, err)

	assert.Equal(t, 36000.0, flat.Summary.TotalInvested)
	// 12x1000 + 12x1100 + 12x1210.
	assert.InDelta(t, 39720.0, stepped.Summary.TotalInvested, 1e-6)
}

func TestMergeTotals_HeterogeneousCalendars(t *testing.T) {
	// Fund A has entries on the 1st, fund B on the 5th. Each date sums the
	// other fund's most recent position.
	ledgerA := []domain.LedgerEntry{
		{Date: date(2022, 1, 1), Invested: 100, CurrentValue: 100},
		{Date: date(2022, 2, 1), Invested: 200, CurrentValue: 210},
	}
	ledgerB := []domain.LedgerEntry{
		{Date: date(2022, 1, 5), Invested: 50, CurrentValue: 50},
		{Date: date(2022, 2, 5), Invested: 100, CurrentValue: 95},
	}

	totals := mergeTotals([][]domain.LedgerEntry{ledgerA, ledgerB})
	require.Len(t, totals, 4)

	assert.Equal(t, domain.DatePoint{Date: date(2022, 1, 1), Invested: 100, CurrentValue: 100}, totals[0])
	assert.Equal(t, domain.DatePoint{Date: date(2022, 1, 5), Invested: 150, CurrentValue: 150}, totals[1])
	assert.Equal(t, domain.DatePoint{Date: date(2022, 2, 1), Invested: 250, CurrentValue: 260}, totals[2])
	assert.Equal(t, domain.DatePoint{Date: date(2022, 2, 5), Invested: 300, CurrentValue: 305}, totals[3])
}
