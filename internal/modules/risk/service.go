package risk

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/shashank1310/SIPSimulator/internal/domain"
	"github.com/shashank1310/SIPSimulator/internal/modules/benchmark"
	"github.com/shashank1310/SIPSimulator/internal/modules/portfolio"
)

// FundAnalysis pairs a fund's identity with its risk metrics.
type FundAnalysis struct {
	FundName    string             `json:"fund_name"`
	SchemeCode  string             `json:"scheme_code"`
	SIPAmount   float64            `json:"sip_amount"`
	RiskMetrics domain.RiskMetrics `json:"risk_metrics"`
}

// Analysis is the full risk report for a portfolio.
type Analysis struct {
	IndividualFunds  []FundAnalysis     `json:"individual_funds"`
	PortfolioMetrics domain.RiskMetrics `json:"portfolio_metrics"`
	BenchmarkMetrics domain.RiskMetrics `json:"benchmark_metrics"`
	AnalysisPeriod   Period             `json:"analysis_period"`
}

// Period describes the analyzed window.
type Period struct {
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	TotalFunds int    `json:"total_funds"`
}

// Service orchestrates portfolio and benchmark simulations into a risk
// report.
type Service struct {
	calc      *Calculator
	portfolio *portfolio.Service
	benchmark *benchmark.Adapter
	log       zerolog.Logger
}

// NewService creates a new risk service.
func NewService(calc *Calculator, portfolioSvc *portfolio.Service, benchmarkAdapter *benchmark.Adapter, log zerolog.Logger) *Service {
	return &Service{
		calc:      calc,
		portfolio: portfolioSvc,
		benchmark: benchmarkAdapter,
		log:       log.With().Str("service", "risk").Logger(),
	}
}

// Analyze simulates the funds and the benchmark over [start, end] and
// computes per-fund, portfolio-level, and benchmark risk metrics. Beta values
// are computed against the benchmark's valuation path, aligned by date.
func (s *Service) Analyze(ctx context.Context, funds []portfolio.FundSpec, start, end time.Time) (*Analysis, error) {
	if len(funds) == 0 {
		return nil, fmt.Errorf("no funds provided")
	}

	result, err := s.portfolio.Simulate(ctx, funds, start, end, 0)
	if err != nil {
		return nil, err
	}

	var totalAmount float64
	for _, f := range funds {
		totalAmount += f.Amount
	}

	// Benchmark failures degrade the analysis (beta defaults to 1.0) rather
	// than failing it.
	var benchPoints []domain.DatePoint
	benchResult, err := s.benchmark.Simulate(ctx, start, end, totalAmount)
	if err != nil || len(benchResult.Funds) == 0 || benchResult.Funds[0].Err != "" {
		s.log.Warn().Err(err).Msg("Benchmark simulation unavailable for risk analysis")
	} else {
		benchPoints = LedgerPoints(benchResult.Funds[0].Ledger)
	}

	analysis := &Analysis{
		IndividualFunds:  make([]FundAnalysis, 0, len(funds)),
		PortfolioMetrics: s.calc.Calculate(result.Totals, benchPoints),
		BenchmarkMetrics: s.calc.Calculate(benchPoints, nil),
		AnalysisPeriod: Period{
			StartDate: start.Format("2006-01-02"),
			EndDate:   end.Format("2006-01-02"),
		},
	}

	for i, fr := range result.Funds {
		if fr.Err != "" {
			continue
		}
		analysis.IndividualFunds = append(analysis.IndividualFunds, FundAnalysis{
			FundName:    fr.FundName,
			SchemeCode:  fr.SchemeCode,
			SIPAmount:   funds[i].Amount,
			RiskMetrics: s.calc.Calculate(LedgerPoints(fr.Ledger), benchPoints),
		})
	}
	analysis.AnalysisPeriod.TotalFunds = len(analysis.IndividualFunds)

	return analysis, nil
}
