// Package daterange holds the pure calendar-date helpers the admission
// engine is built on: half-open overlap testing, night counting, and the
// Monday-first week windows used by the weekly booking protection.
//
// All functions operate on calendar dates normalized to midnight UTC.
// Time-of-day and time zone information on the inputs is discarded.
package daterange

import "time"

// Normalize truncates t to its calendar date at midnight UTC.
func Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Overlaps reports whether the half-open ranges [aStart, aEnd) and
// [bStart, bEnd) intersect. Ranges that merely touch at a boundary do not
// overlap, so back-to-back stays on the same property are permitted.
// Callers guarantee start < end for both ranges.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Nights returns the number of nights between check-in and check-out,
// counted as whole calendar days. Zero or negative means the range is
// not bookable.
func Nights(checkIn, checkOut time.Time) int {
	in := Normalize(checkIn)
	out := Normalize(checkOut)
	return int(out.Sub(in) / (24 * time.Hour))
}

// WeekStart returns the Monday on or before d. Weeks are always
// Monday-first, independent of locale.
func WeekStart(d time.Time) time.Time {
	d = Normalize(d)
	// time.Weekday has Sunday=0; shift so Monday=0.
	back := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -back)
}

// WeekEnd returns the Sunday on or after d.
func WeekEnd(d time.Time) time.Time {
	return WeekStart(d).AddDate(0, 0, 6)
}

// WeekWindow returns the half-open protection window for a stay
// [checkIn, checkOut): from the Monday of the check-in week through the
// Sunday of the week containing the last occupied night, exclusive end.
// The week end is computed from checkOut minus one day so that a checkout
// on a Monday does not drag the following week into the window.
func WeekWindow(checkIn, checkOut time.Time) (start, end time.Time) {
	lastNight := Normalize(checkOut).AddDate(0, 0, -1)
	start = WeekStart(checkIn)
	end = WeekEnd(lastNight).AddDate(0, 0, 1)
	return start, end
}
