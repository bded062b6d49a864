package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "hemstay/internal/bookings/errors"
	"hemstay/internal/bookings/repository"
	"hemstay/internal/bookings/validator"
	"hemstay/pkg/config"
	"hemstay/pkg/daterange"
	apperrors "hemstay/pkg/errors"
	"hemstay/pkg/model"
	"hemstay/pkg/pricing"

	"go.mongodb.org/mongo-driver/mongo"
)

// EventPublisher receives booking lifecycle notifications after a
// committed admission or cancellation. Implementations must never block
// the admission result; failures are logged, not returned.
type EventPublisher interface {
	BookingCreated(ctx context.Context, booking *model.Booking)
	BookingUpdated(ctx context.Context, booking *model.Booking)
	BookingCancelled(ctx context.Context, booking *model.Booking)
}

type BookingService interface {
	Admit(ctx context.Context, booking *model.Booking) error
	Modify(ctx context.Context, id string, requesterID string, updates *model.BookingUpdate) (*model.Booking, error)
	Cancel(ctx context.Context, id string, requesterID string) error
	GetByID(ctx context.Context, id string, requesterID string) (*model.Booking, error)
	GetByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, int64, error)
	IsBooked(ctx context.Context, propertyID string, from, to *time.Time) (bool, error)
}

type bookingService struct {
	repo       repository.BookingRepository
	lockRepo   repository.AdmissionLockRepository
	properties repository.PropertyReader
	validator  *validator.BookingValidator
	events     EventPublisher
	cfg        *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.AdmissionLockRepository,
	properties repository.PropertyReader,
	validator *validator.BookingValidator,
	events EventPublisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:       repo,
		lockRepo:   lockRepo,
		properties: properties,
		validator:  validator,
		events:     events,
		cfg:        cfg,
	}
}

// Admit decides whether the requested booking may be created and, on
// success, persists it with the computed total price. The three conflict
// checks and the insert run inside one transaction while both admission
// locks are held, so concurrent requests for the same holder or property
// serialize instead of racing.
func (s *bookingService) Admit(ctx context.Context, booking *model.Booking) error {
	s.normalizeDates(booking)

	if daterange.Nights(booking.CheckIn, booking.CheckOut) <= 0 {
		return bookingserrors.InvalidRange()
	}
	if err := s.validate(booking); err != nil {
		return err
	}

	property, err := s.loadProperty(ctx, booking.PropertyID)
	if err != nil {
		return err
	}
	if property.OwnerID == booking.UserID {
		return bookingserrors.SelfBookingForbidden()
	}

	release, err := s.acquireAdmissionScope(ctx, booking.UserID, booking.PropertyID)
	if err != nil {
		return err
	}
	defer release()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.runConflictChecks(sessCtx, booking, ""); err != nil {
			return err
		}

		total, err := pricing.Total(property.PricePerNight, booking.CheckIn, booking.CheckOut)
		if err != nil {
			return bookingserrors.InvalidRange()
		}
		booking.TotalPrice = total

		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Booking admission failed",
			"property_id", booking.PropertyID,
			"user_id", booking.UserID,
			"error", err,
		)
		return err
	}

	s.cfg.Log.Info("Booking admitted",
		"id", booking.ID,
		"property_id", booking.PropertyID,
		"user_id", booking.UserID,
		"check_in", booking.CheckIn.Format("2006-01-02"),
		"check_out", booking.CheckOut.Format("2006-01-02"),
		"total_price", booking.TotalPrice,
	)
	if s.events != nil {
		s.events.BookingCreated(ctx, booking)
	}
	return nil
}

// Modify re-admits an existing booking against a new date range. The
// booking's own record is excluded from the conflict checks so it cannot
// collide with itself; everything else runs exactly like Admit.
func (s *bookingService) Modify(ctx context.Context, id string, requesterID string, updates *model.BookingUpdate) (*model.Booking, error) {
	existing, err := s.getOwned(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}

	merged := *existing
	if updates.CheckIn != nil {
		merged.CheckIn = *updates.CheckIn
	}
	if updates.CheckOut != nil {
		merged.CheckOut = *updates.CheckOut
	}
	s.normalizeDates(&merged)

	if daterange.Nights(merged.CheckIn, merged.CheckOut) <= 0 {
		return nil, bookingserrors.InvalidRange()
	}

	property, err := s.loadProperty(ctx, merged.PropertyID)
	if err != nil {
		return nil, err
	}
	if property.OwnerID == merged.UserID {
		return nil, bookingserrors.SelfBookingForbidden()
	}

	release, err := s.acquireAdmissionScope(ctx, merged.UserID, merged.PropertyID)
	if err != nil {
		return nil, err
	}
	defer release()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.runConflictChecks(sessCtx, &merged, id); err != nil {
			return err
		}

		total, err := pricing.Total(property.PricePerNight, merged.CheckIn, merged.CheckOut)
		if err != nil {
			return bookingserrors.InvalidRange()
		}
		merged.TotalPrice = total

		if err := s.repo.UpdateDates(sessCtx, id, merged.CheckIn, merged.CheckOut, merged.TotalPrice); err != nil {
			if errors.Is(err, bookingserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Booking", id)
			}
			return apperrors.Internal("Failed to update booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Booking modification failed", "id", id, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Booking modified",
		"id", id,
		"check_in", merged.CheckIn.Format("2006-01-02"),
		"check_out", merged.CheckOut.Format("2006-01-02"),
		"total_price", merged.TotalPrice,
	)
	if s.events != nil {
		s.events.BookingUpdated(ctx, &merged)
	}
	return &merged, nil
}

func (s *bookingService) Cancel(ctx context.Context, id string, requesterID string) error {
	booking, err := s.getOwned(ctx, id, requesterID)
	if err != nil {
		return err
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Delete(sessCtx, id); err != nil {
			if errors.Is(err, bookingserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Booking", id)
			}
			return apperrors.Internal("Failed to cancel booking", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cfg.Log.Info("Booking cancelled", "id", id, "user_id", requesterID)
	if s.events != nil {
		s.events.BookingCancelled(ctx, booking)
	}
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string, requesterID string) (*model.Booking, error) {
	return s.getOwned(ctx, id, requesterID)
}

func (s *bookingService) GetByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	count, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to count bookings", "user_id", userID, "error", err)
		return nil, 0, apperrors.Internal("Failed to count bookings", err)
	}

	bookings, err := s.repo.FindByUser(ctx, userID, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "user_id", userID, "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve bookings", err)
	}

	return bookings, count, nil
}

// IsBooked reports whether a property has any booking intersecting the
// given range. With no range it reports whether any booking exists.
func (s *bookingService) IsBooked(ctx context.Context, propertyID string, from, to *time.Time) (bool, error) {
	if propertyID == "" {
		return false, apperrors.InvalidInput("Property ID cannot be empty")
	}

	if _, err := s.loadProperty(ctx, propertyID); err != nil {
		return false, err
	}

	count, err := s.repo.CountOverlappingByProperty(ctx, propertyID, from, to)
	if err != nil {
		s.cfg.Log.Error("Failed to probe bookings", "property_id", propertyID, "error", err)
		return false, apperrors.Internal("Failed to check property bookings", err)
	}

	return count > 0, nil
}

// --- Helpers ---

// runConflictChecks evaluates the three non-overlap invariants in their
// fixed order: holder raw overlap, property raw overlap, holder weekly
// window. The order is part of the contract; callers and tests depend on
// a deterministic rejection reason for a given conflicting input.
func (s *bookingService) runConflictChecks(ctx context.Context, booking *model.Booking, excludeID string) error {
	holderConflicts, err := s.repo.FindOverlappingByUser(ctx, booking.UserID, booking.CheckIn, booking.CheckOut, excludeID)
	if err != nil {
		return apperrors.Internal("Failed to check holder bookings", err)
	}
	if len(holderConflicts) > 0 {
		return bookingserrors.HolderDateConflict()
	}

	propertyConflicts, err := s.repo.FindOverlappingByProperty(ctx, booking.PropertyID, booking.CheckIn, booking.CheckOut, excludeID)
	if err != nil {
		return apperrors.Internal("Failed to check property bookings", err)
	}
	if len(propertyConflicts) > 0 {
		return bookingserrors.PropertyDateConflict()
	}

	// The requested window is a union of whole Monday-first weeks, so
	// testing existing raw ranges against it is equivalent to comparing
	// window against window.
	windowStart, windowEnd := daterange.WeekWindow(booking.CheckIn, booking.CheckOut)
	weekConflicts, err := s.repo.FindOverlappingByUser(ctx, booking.UserID, windowStart, windowEnd, excludeID)
	if err != nil {
		return apperrors.Internal("Failed to check weekly protection", err)
	}
	if len(weekConflicts) > 0 {
		return bookingserrors.WeeklyLimitExceeded()
	}

	return nil
}

// acquireAdmissionScope takes the holder lock and then the property
// lock. The fixed holder-then-property order prevents deadlock between
// two requests locking the same pair. The returned release function
// removes both locks in reverse order.
func (s *bookingService) acquireAdmissionScope(ctx context.Context, userID, propertyID string) (func(), error) {
	holderLock := fmt.Sprintf("admission_holder_%s", userID)
	propertyLock := fmt.Sprintf("admission_property_%s", propertyID)

	deadline := time.Now().Add(s.cfg.LockAcquireTimeout)

	if err := s.acquireLock(ctx, holderLock, deadline); err != nil {
		return nil, err
	}
	if err := s.acquireLock(ctx, propertyLock, deadline); err != nil {
		s.releaseLock(ctx, holderLock)
		return nil, err
	}

	return func() {
		s.releaseLock(ctx, propertyLock)
		s.releaseLock(ctx, holderLock)
	}, nil
}

func (s *bookingService) acquireLock(ctx context.Context, lockID string, deadline time.Time) error {
	for {
		err := s.lockRepo.Acquire(ctx, lockID, s.cfg.LockTTL)
		if err == nil {
			return nil
		}
		if !errors.Is(err, bookingserrors.ErrLockHeld) {
			return apperrors.Internal("Failed to acquire admission lock", err)
		}
		if time.Now().Add(s.cfg.LockRetryInterval).After(deadline) {
			return apperrors.Busy("Another booking for the same user or property is in progress. Please retry.")
		}

		select {
		case <-ctx.Done():
			return apperrors.Timeout("Admission was cancelled while waiting for its lock")
		case <-time.After(s.cfg.LockRetryInterval):
		}
	}
}

func (s *bookingService) releaseLock(ctx context.Context, lockID string) {
	if err := s.lockRepo.Release(ctx, lockID); err != nil {
		s.cfg.Log.Warn("Failed to release admission lock", "lock_id", lockID, "error", err)
	}
}

// getOwned loads a booking and enforces that the requester holds it.
func (s *bookingService) getOwned(ctx context.Context, id string, requesterID string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	if booking.UserID != requesterID {
		return nil, apperrors.Forbidden("You can only manage your own bookings")
	}

	return booking, nil
}

func (s *bookingService) loadProperty(ctx context.Context, propertyID string) (*model.Property, error) {
	property, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrPropertyNotFound) {
			return nil, apperrors.NotFoundWithID("Property", propertyID)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid property ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve property", err)
	}
	return property, nil
}

func (s *bookingService) normalizeDates(b *model.Booking) {
	b.CheckIn = daterange.Normalize(b.CheckIn)
	b.CheckOut = daterange.Normalize(b.CheckOut)
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}
