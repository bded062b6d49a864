package errors

import (
	"errors"
	"net/http"

	apperrors "hemstay/pkg/errors"
)

// Repository sentinels.
var (
	ErrNotFound = errors.New("booking not found")

	ErrPropertyNotFound = errors.New("property not found")

	ErrInvalidID = errors.New("invalid ID format")

	// ErrLockHeld means another request currently holds the admission
	// lock for the same scope.
	ErrLockHeld = errors.New("admission lock already held")
)

// Rejection codes returned by the admission engine. Each maps to exactly
// one failure condition so callers can branch on the code.
const (
	CodeInvalidRange         = "INVALID_RANGE"
	CodeSelfBookingForbidden = "SELF_BOOKING_FORBIDDEN"
	CodeHolderDateConflict   = "HOLDER_DATE_CONFLICT"
	CodePropertyDateConflict = "PROPERTY_DATE_CONFLICT"
	CodeWeeklyLimitExceeded  = "WEEKLY_LIMIT_EXCEEDED"
)

func InvalidRange() *apperrors.AppError {
	return apperrors.New(CodeInvalidRange, "check_out must be after check_in", http.StatusBadRequest)
}

func SelfBookingForbidden() *apperrors.AppError {
	return apperrors.New(CodeSelfBookingForbidden, "You cannot book your own property", http.StatusForbidden)
}

func HolderDateConflict() *apperrors.AppError {
	return apperrors.New(CodeHolderDateConflict, "You already have a booking overlapping these dates", http.StatusConflict)
}

func PropertyDateConflict() *apperrors.AppError {
	return apperrors.New(CodePropertyDateConflict, "The property is already booked for these dates", http.StatusConflict)
}

func WeeklyLimitExceeded() *apperrors.AppError {
	return apperrors.New(CodeWeeklyLimitExceeded, "You already have a booking in this week", http.StatusConflict)
}
