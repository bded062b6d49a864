// Package pricing computes booking totals from a nightly rate.
package pricing

import (
	"errors"
	"math"
	"time"

	"hemstay/pkg/daterange"
)

// ErrInvalidRange is returned when the stay contains no nights, i.e. the
// checkout date is not strictly after the check-in date.
var ErrInvalidRange = errors.New("check_out must be after check_in")

// Round2 rounds v to two decimal places using half-up rounding.
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// Total returns the price for a stay of [checkIn, checkOut) at the given
// nightly rate. Rounding is applied once on the final amount, not per
// night, so repeated multiplication cannot accumulate drift.
func Total(nightlyRate float64, checkIn, checkOut time.Time) (float64, error) {
	nights := daterange.Nights(checkIn, checkOut)
	if nights <= 0 {
		return 0, ErrInvalidRange
	}
	return Round2(nightlyRate * float64(nights)), nil
}
