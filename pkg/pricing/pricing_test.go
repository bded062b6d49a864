package pricing

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTotal(t *testing.T) {
	tests := []struct {
		name     string
		rate     float64
		checkIn  time.Time
		checkOut time.Time
		expected float64
	}{
		{"two nights at 100", 100, date(2024, 6, 3), date(2024, 6, 5), 200},
		{"one night at 99.99", 99.99, date(2024, 6, 6), date(2024, 6, 7), 99.99},
		{"fractional rate rounds half-up once", 33.335, date(2024, 6, 3), date(2024, 6, 6), 100.01},
		{"week-long stay", 120.50, date(2024, 6, 3), date(2024, 6, 10), 843.50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Total(tt.rate, tt.checkIn, tt.checkOut)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Total() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTotal_InvalidRange(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
	}{
		{"zero nights", date(2024, 6, 3), date(2024, 6, 3)},
		{"checkout before checkin", date(2024, 6, 5), date(2024, 6, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Total(100, tt.checkIn, tt.checkOut)
			if !errors.Is(err, ErrInvalidRange) {
				t.Errorf("expected ErrInvalidRange, got %v", err)
			}
		})
	}
}

func TestTotal_IncreasesWithStayLength(t *testing.T) {
	checkIn := date(2024, 6, 3)
	prev := 0.0
	for nights := 1; nights <= 14; nights++ {
		total, err := Total(87.63, checkIn, checkIn.AddDate(0, 0, nights))
		if err != nil {
			t.Fatalf("nights=%d: unexpected error: %v", nights, err)
		}
		if total <= prev {
			t.Fatalf("nights=%d: total %v not greater than previous %v", nights, total, prev)
		}
		prev = total
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in       float64
		expected float64
	}{
		{1.006, 1.01},
		{1.004, 1.0},
		{200.0, 200.0},
		{0.999, 1.0},
	}

	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.expected {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.expected)
		}
	}
}
