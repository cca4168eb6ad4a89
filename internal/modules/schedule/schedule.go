// Package schedule produces SIP contribution schedules: one nominal
// contribution date per calendar month, plus step-up amount progression.
package schedule

import (
	"math"
	"time"

	"github.com/shashank1310/SIPSimulator/internal/domain"
)

// Build returns the nominal contribution dates for a SIP running over
// [start, end). One date per calendar month, anchored to dayOfMonth and
// clipped to the last day of short months (day 31 in February becomes the
// 28th or 29th).
//
// The end date is the valuation date, not a contribution date: a schedule
// from 2020-01-01 to 2023-01-01 has 36 contributions, and the terminal
// valuation cash flow never coincides with a contribution.
func Build(start, end time.Time, dayOfMonth int) ([]time.Time, error) {
	if end.Before(start) {
		return nil, domain.ErrInvalidRange
	}
	if dayOfMonth < 1 {
		dayOfMonth = 1
	}

	dates := make([]time.Time, 0, 12)
	year, month := start.Year(), start.Month()

	for {
		day := dayOfMonth
		if dim := daysInMonth(year, month); day > dim {
			day = dim
		}
		candidate := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)

		if !candidate.Before(end) {
			break
		}
		if !candidate.Before(start) {
			dates = append(dates, candidate)
		}

		month++
		if month > time.December {
			month = time.January
			year++
		}
	}

	return dates, nil
}

// AmountAt returns the contribution amount at schedule index i for a step-up
// SIP. The amount increases by stepUpPct percent once per elapsed year of the
// schedule (anniversary by elapsed months, not calendar-year boundary).
// A stepUpPct of 0 yields a flat schedule.
func AmountAt(i int, initial, stepUpPct float64) float64 {
	if i < 0 || stepUpPct == 0 {
		return initial
	}
	years := i / 12
	if years == 0 {
		return initial
	}
	return initial * math.Pow(1+stepUpPct/100, float64(years))
}

// Flat returns an amount function for a constant-contribution SIP.
func Flat(amount float64) func(int) float64 {
	return func(int) float64 { return amount }
}

// StepUp returns an amount function for a step-up SIP.
func StepUp(initial, stepUpPct float64) func(int) float64 {
	return func(i int) float64 { return AmountAt(i, initial, stepUpPct) }
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
