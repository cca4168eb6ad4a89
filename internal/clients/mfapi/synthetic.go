package mfapi

import (
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/shashank1310/SIPSimulator/internal/domain"
)

// GenerateSyntheticSeries produces a deterministic monthly NAV series for the
// scheme over [start, end]. The generator is seeded by the scheme code, so the
// same scheme always yields the same path. Used when the provider is
// unreachable so simulations stay demonstrable offline.
func GenerateSyntheticSeries(schemeCode string, start, end time.Time) domain.PriceSeries {
	if end.Before(start) {
		return domain.PriceSeries{}
	}

	rng := rand.New(rand.NewSource(seedFor(schemeCode)))

	// Starting NAV around 50 with per-scheme variation.
	nav := 50.0 + rng.Float64()*30 - 10

	series := make(domain.PriceSeries, 0, 64)
	cursor := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	if cursor.Before(start) {
		cursor = cursor.AddDate(0, 1, 0)
	}

	for !cursor.After(end) {
		// Monthly move between -15% and +20%, floored so the NAV stays
		// plausibly positive.
		change := rng.Float64()*0.35 - 0.15
		nav *= 1 + change
		if nav < 10 {
			nav = 10 + rng.Float64()*5
		}

		series = append(series, domain.PricePoint{Date: cursor, NAV: nav})
		cursor = cursor.AddDate(0, 1, 0)
	}

	return series
}

func seedFor(schemeCode string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(schemeCode))
	return int64(h.Sum64() % 1_000_000_007)
}
