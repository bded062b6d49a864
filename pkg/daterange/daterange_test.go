package daterange

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     time.Time
		expected                       bool
	}{
		{
			name:   "identical ranges overlap",
			aStart: date(2024, 6, 3), aEnd: date(2024, 6, 5),
			bStart: date(2024, 6, 3), bEnd: date(2024, 6, 5),
			expected: true,
		},
		{
			name:   "partial overlap",
			aStart: date(2024, 6, 3), aEnd: date(2024, 6, 5),
			bStart: date(2024, 6, 4), bEnd: date(2024, 6, 6),
			expected: true,
		},
		{
			name:   "containment",
			aStart: date(2024, 6, 1), aEnd: date(2024, 6, 10),
			bStart: date(2024, 6, 4), bEnd: date(2024, 6, 6),
			expected: true,
		},
		{
			name:   "back-to-back does not overlap",
			aStart: date(2024, 6, 3), aEnd: date(2024, 6, 5),
			bStart: date(2024, 6, 5), bEnd: date(2024, 6, 7),
			expected: false,
		},
		{
			name:   "disjoint ranges",
			aStart: date(2024, 6, 3), aEnd: date(2024, 6, 5),
			bStart: date(2024, 6, 10), bEnd: date(2024, 6, 12),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd)
			if got != tt.expected {
				t.Errorf("Overlaps() = %v, want %v", got, tt.expected)
			}

			// overlap must be symmetric
			sym := Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd)
			if sym != got {
				t.Errorf("Overlaps() is not symmetric: %v vs %v", got, sym)
			}
		})
	}
}

func TestNights(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		expected int
	}{
		{"two nights", date(2024, 6, 3), date(2024, 6, 5), 2},
		{"single night", date(2024, 6, 6), date(2024, 6, 7), 1},
		{"same day", date(2024, 6, 3), date(2024, 6, 3), 0},
		{"inverted", date(2024, 6, 5), date(2024, 6, 3), -2},
		{"across month boundary", date(2024, 6, 29), date(2024, 7, 2), 3},
		{
			"time of day is discarded",
			time.Date(2024, 6, 3, 15, 30, 0, 0, time.UTC),
			time.Date(2024, 6, 5, 9, 0, 0, 0, time.UTC),
			2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Nights(tt.checkIn, tt.checkOut); got != tt.expected {
				t.Errorf("Nights() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name     string
		in       time.Time
		expected time.Time
	}{
		{"monday maps to itself", date(2024, 6, 3), date(2024, 6, 3)},
		{"wednesday maps back to monday", date(2024, 6, 5), date(2024, 6, 3)},
		{"sunday maps back to monday", date(2024, 6, 9), date(2024, 6, 3)},
		{"next monday starts a new week", date(2024, 6, 10), date(2024, 6, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeekStart(tt.in); !got.Equal(tt.expected) {
				t.Errorf("WeekStart(%v) = %v, want %v", tt.in, got, tt.expected)
			}
		})
	}
}

func TestWeekEnd(t *testing.T) {
	tests := []struct {
		name     string
		in       time.Time
		expected time.Time
	}{
		{"wednesday maps forward to sunday", date(2024, 6, 5), date(2024, 6, 9)},
		{"sunday maps to itself", date(2024, 6, 9), date(2024, 6, 9)},
		{"monday maps to the same week's sunday", date(2024, 6, 3), date(2024, 6, 9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeekEnd(tt.in); !got.Equal(tt.expected) {
				t.Errorf("WeekEnd(%v) = %v, want %v", tt.in, got, tt.expected)
			}
		})
	}
}

func TestWeekWindow(t *testing.T) {
	tests := []struct {
		name          string
		checkIn       time.Time
		checkOut      time.Time
		expectedStart time.Time
		expectedEnd   time.Time
	}{
		{
			// Stay Mon Jun 3 - Wed Jun 5: nights Jun 3-4, all in week Jun 3-9.
			name:    "stay inside one week",
			checkIn: date(2024, 6, 3), checkOut: date(2024, 6, 5),
			expectedStart: date(2024, 6, 3), expectedEnd: date(2024, 6, 10),
		},
		{
			// Checkout on Monday Jun 10: last night is Sunday Jun 9, so the
			// following week must stay out of the window.
			name:    "monday checkout does not extend into next week",
			checkIn: date(2024, 6, 7), checkOut: date(2024, 6, 10),
			expectedStart: date(2024, 6, 3), expectedEnd: date(2024, 6, 10),
		},
		{
			// Stay spanning two weeks widens the window to both.
			name:    "cross-week stay covers both weeks",
			checkIn: date(2024, 6, 8), checkOut: date(2024, 6, 11),
			expectedStart: date(2024, 6, 3), expectedEnd: date(2024, 6, 17),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := WeekWindow(tt.checkIn, tt.checkOut)
			if !start.Equal(tt.expectedStart) {
				t.Errorf("WeekWindow() start = %v, want %v", start, tt.expectedStart)
			}
			if !end.Equal(tt.expectedEnd) {
				t.Errorf("WeekWindow() end = %v, want %v", end, tt.expectedEnd)
			}
		})
	}
}

func TestWeekWindow_SameWeekStaysConflict(t *testing.T) {
	// Jun 3-5 and Jun 6-7 share the week of Jun 3-9; their windows overlap.
	aStart, aEnd := WeekWindow(date(2024, 6, 3), date(2024, 6, 5))
	bStart, bEnd := WeekWindow(date(2024, 6, 6), date(2024, 6, 7))
	if !Overlaps(aStart, aEnd, bStart, bEnd) {
		t.Error("expected same-week stays to have overlapping windows")
	}

	// Jun 10-12 is the following week; no window overlap with Jun 3-5.
	cStart, cEnd := WeekWindow(date(2024, 6, 10), date(2024, 6, 12))
	if Overlaps(aStart, aEnd, cStart, cEnd) {
		t.Error("expected stays in different weeks to have disjoint windows")
	}
}
