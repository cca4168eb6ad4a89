// Package benchmark evaluates SIP performance against an index proxy fund,
// reusing the same simulator path as regular holdings.
package benchmark

import (
	"context"
	"time"

	"github.com/shashank1310/SIPSimulator/internal/domain"
	"github.com/shashank1310/SIPSimulator/internal/modules/portfolio"
)

// The Nifty 50 proxy: UTI Nifty 50 Index Fund tracks the index closely and
// has a long NAV history on the provider.
const (
	DefaultSchemeCode = "147625"
	DefaultName       = "Nifty 50 Index"
)

// Adapter simulates an index-proxy SIP for portfolio comparison.
type Adapter struct {
	svc        *portfolio.Service
	schemeCode string
	name       string
}

// NewAdapter creates a benchmark adapter using the default Nifty 50 proxy.
func NewAdapter(svc *portfolio.Service) *Adapter {
	return &Adapter{svc: svc, schemeCode: DefaultSchemeCode, name: DefaultName}
}

// Simulate runs a plain monthly SIP of amount into the index proxy over
// [start, end]. The result has exactly one fund entry.
func (a *Adapter) Simulate(ctx context.Context, start, end time.Time, amount float64) (domain.PortfolioResult, error) {
	return a.svc.Simulate(ctx, []portfolio.FundSpec{{
		SchemeCode: a.schemeCode,
		FundName:   a.name,
		Amount:     amount,
	}}, start, end, 0)
}
