package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidRange is returned when a requested date window is malformed
// (end before start). It is fatal to the whole request.
var ErrInvalidRange = errors.New("end date is before start date")

// NoPriceDataError reports that a fund could not be valued because its price
// series is empty or has no observation at or before the requested end date.
// It is fatal for a single-fund simulation but recoverable at the portfolio
// level, where the failing fund is reported alongside the others.
type NoPriceDataError struct {
	SchemeCode string
	End        string
}

func (e *NoPriceDataError) Error() string {
	return fmt.Sprintf("no NAV data on or before %s for scheme %s", e.End, e.SchemeCode)
}

// IsNoPriceData reports whether err is a NoPriceDataError.
func IsNoPriceData(err error) bool {
	var target *NoPriceDataError
	return errors.As(err, &target)
}
