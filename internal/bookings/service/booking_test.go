package service

import (
	"context"
	"sync"
	"testing"
	"time"

	bookingserrors "hemstay/internal/bookings/errors"
	"hemstay/internal/bookings/validator"
	"hemstay/pkg/config"
	"hemstay/pkg/daterange"
	mongotx "hemstay/pkg/db/mongo"
	apperrors "hemstay/pkg/errors"
	"hemstay/pkg/logger"
	"hemstay/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memoryBookingRepo is an in-memory BookingRepository. Transactions are
// emulated with a mutex so the check-then-insert sequence observes a
// consistent snapshot, mirroring what the Mongo transaction provides.
type memoryBookingRepo struct {
	mu       sync.Mutex
	txMu     sync.Mutex
	bookings map[string]*model.Booking
}

func newMemoryBookingRepo() *memoryBookingRepo {
	return &memoryBookingRepo{bookings: make(map[string]*model.Booking)}
}

func (r *memoryBookingRepo) Create(_ context.Context, booking *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	booking.ID = primitive.NewObjectID().Hex()
	booking.CreatedAt = time.Now()
	stored := *booking
	r.bookings[booking.ID] = &stored
	return nil
}

func (r *memoryBookingRepo) FindByID(_ context.Context, id string) (*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	booking, ok := r.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	copied := *booking
	return &copied, nil
}

func (r *memoryBookingRepo) FindByUser(_ context.Context, userID string, limit int, offset int64) ([]*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memoryBookingRepo) CountByUser(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, b := range r.bookings {
		if b.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *memoryBookingRepo) FindOverlappingByUser(_ context.Context, userID string, start, end time.Time, excludeID string) ([]*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.Booking
	for _, b := range r.bookings {
		if b.UserID != userID || b.ID == excludeID {
			continue
		}
		if daterange.Overlaps(b.CheckIn, b.CheckOut, start, end) {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memoryBookingRepo) FindOverlappingByProperty(_ context.Context, propertyID string, start, end time.Time, excludeID string) ([]*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.Booking
	for _, b := range r.bookings {
		if b.PropertyID != propertyID || b.ID == excludeID {
			continue
		}
		if daterange.Overlaps(b.CheckIn, b.CheckOut, start, end) {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memoryBookingRepo) CountOverlappingByProperty(_ context.Context, propertyID string, start, end *time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, b := range r.bookings {
		if b.PropertyID != propertyID {
			continue
		}
		if start != nil && !b.CheckOut.After(*start) {
			continue
		}
		if end != nil && !b.CheckIn.Before(*end) {
			continue
		}
		count++
	}
	return count, nil
}

func (r *memoryBookingRepo) UpdateDates(_ context.Context, id string, checkIn, checkOut time.Time, totalPrice float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	booking, ok := r.bookings[id]
	if !ok {
		return bookingserrors.ErrNotFound
	}
	booking.CheckIn = checkIn
	booking.CheckOut = checkOut
	booking.TotalPrice = totalPrice
	return nil
}

func (r *memoryBookingRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[id]; !ok {
		return bookingserrors.ErrNotFound
	}
	delete(r.bookings, id)
	return nil
}

func (r *memoryBookingRepo) ExecuteTransaction(_ context.Context, fn mongotx.TransactionFunc) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()
	return fn(nil)
}

type memoryLockRepo struct {
	mu    sync.Mutex
	locks map[string]struct{}
}

func newMemoryLockRepo() *memoryLockRepo {
	return &memoryLockRepo{locks: make(map[string]struct{})}
}

func (r *memoryLockRepo) Acquire(_ context.Context, lockID string, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, held := r.locks[lockID]; held {
		return bookingserrors.ErrLockHeld
	}
	r.locks[lockID] = struct{}{}
	return nil
}

func (r *memoryLockRepo) Release(_ context.Context, lockID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.locks, lockID)
	return nil
}

type memoryPropertyReader struct {
	properties map[string]*model.Property
}

func (r *memoryPropertyReader) FindByID(_ context.Context, id string) (*model.Property, error) {
	property, ok := r.properties[id]
	if !ok {
		return nil, bookingserrors.ErrPropertyNotFound
	}
	copied := *property
	return &copied, nil
}

func testConfig() *config.Config {
	return &config.Config{
		LockTTL:            time.Second,
		LockAcquireTimeout: 500 * time.Millisecond,
		LockRetryInterval:  10 * time.Millisecond,
		ReadTimeout:        time.Second,
		WriteTimeout:       time.Second,
		Log:                logger.Discard(),
	}
}

type testFixture struct {
	service    BookingService
	repo       *memoryBookingRepo
	properties map[string]*model.Property
}

func newTestFixture(properties ...*model.Property) *testFixture {
	props := make(map[string]*model.Property)
	for _, p := range properties {
		props[p.ID] = p
	}

	cfg := testConfig()
	repo := newMemoryBookingRepo()
	svc := NewBookingService(
		repo,
		newMemoryLockRepo(),
		&memoryPropertyReader{properties: props},
		validator.NewBookingValidator(cfg.Log),
		nil,
		cfg,
	)

	return &testFixture{service: svc, repo: repo, properties: props}
}

func newProperty(ownerID string, rate float64) *model.Property {
	return &model.Property{
		ID:            primitive.NewObjectID().Hex(),
		OwnerID:       ownerID,
		Name:          "Test Cabin",
		Location:      "Test Valley",
		PricePerNight: rate,
		Availability:  true,
	}
}

func date(value string) time.Time {
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return d
}

func bookingRequest(propertyID, userID, checkIn, checkOut string) *model.Booking {
	return &model.Booking{
		PropertyID: propertyID,
		UserID:     userID,
		CheckIn:    date(checkIn),
		CheckOut:   date(checkOut),
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != code {
		t.Fatalf("expected error code %s, got %s (%v)", code, appErr.Code, err)
	}
}

func TestAdmit_Succeeds(t *testing.T) {
	owner := primitive.NewObjectID().Hex()
	holder := primitive.NewObjectID().Hex()
	property := newProperty(owner, 100)
	fx := newTestFixture(property)

	booking := bookingRequest(property.ID, holder, "2024-06-03", "2024-06-05")
	if err := fx.service.Admit(context.Background(), booking); err != nil {
		t.Fatalf("expected admission to succeed, got %v", err)
	}

	if booking.ID == "" {
		t.Error("expected booking to be assigned an ID")
	}
	if booking.TotalPrice != 200 {
		t.Errorf("expected total price 200, got %v", booking.TotalPrice)
	}
}

func TestAdmit_InvalidRange(t *testing.T) {
	owner := primitive.NewObjectID().Hex()
	holder := primitive.NewObjectID().Hex()
	property := newProperty(owner, 100)
	fx := newTestFixture(property)

	tests := []struct {
		name     string
		checkIn  string
		checkOut string
	}{
		{"same day", "2024-06-03", "2024-06-03"},
		{"reversed", "2024-06-05", "2024-06-03"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fx.service.Admit(context.Background(), bookingRequest(property.ID, holder, tt.checkIn, tt.checkOut))
			assertCode(t, err, bookingserrors.CodeInvalidRange)
		})
	}
}

func TestAdmit_PropertyNotFound(t *testing.T) {
	fx := newTestFixture()

	holder := primitive.NewObjectID().Hex()
	err := fx.service.Admit(context.Background(), bookingRequest(primitive.NewObjectID().Hex(), holder, "2024-06-03", "2024-06-05"))
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestAdmit_SelfBookingForbidden(t *testing.T) {
	owner := primitive.NewObjectID().Hex()
	property := newProperty(owner, 100)
	fx := newTestFixture(property)

	err := fx.service.Admit(context.Background(), bookingRequest(property.ID, owner, "2024-06-03", "2024-06-05"))
	assertCode(t, err, bookingserrors.CodeSelfBookingForbidden)
}

func TestAdmit_PropertyDateConflict(t *testing.T) {
	owner := primitive.NewObjectID().Hex()
	holder := primitive.NewObjectID().Hex()
	other := primitive.NewObjectID().Hex()
	property := newProperty(owner, 100)
	fx := newTestFixture(property)

	if err := fx.service.Admit(context.Background(), bookingRequest(property.ID, holder, "2024-06-03", "2024-06-05")); err != nil {
		t.Fatalf("seed admission failed: %v", err)
	}

	err := fx.service.Admit(context.Background(), bookingRequest(property.ID, other, "2024-06-04", "2024-06-06"))
	assertCode(t, err, bookingserrors.CodePropertyDateConflict)
}

func TestAdmit_BackToBackPermitted(t *testing.T) {
	owner := primitive.NewObjectID().Hex()
	holder := primitive.NewObjectID().Hex()
	other := primitive.NewObjectID().Hex()
	property := newProperty(owner, 100)
	fx := newTestFixture(property)

	if err := fx.service.Admit(context.Background(), bookingRequest(property.ID, holder, "2024-06-03", "2024-06-05")); err != nil {
		t.Fatalf("seed admission failed: %v", err)
	}

	// Check-in on the previous booking's checkout day does not overlap.
	if err := fx.service.Admit(context.Background(), bookingRequest(property.ID, other, "2024-06-05", "2024-06-07")); err != nil {
		t.Fatalf("expected back-to-back admission to succeed, got %v", err)
	}
}

func TestAdmit_HolderDateConflict(t *testing.T) {
	owner := primitive.NewObjectID().Hex()
	holder := primitive.NewObjectID().Hex()
	propertyA := newProperty(owner, 100)
	propertyB := newProperty(owner, 150)
	fx := newTestFixture(propertyA, propertyB)

	if err := fx.service.Admit(context.Background(), bookingRequest(propertyA.ID, holder, "2024-06-03", "2024-06-05")); err != nil {
		t.Fatalf("seed admission failed: %v", err)
	}

	// Overlapping dates on a different property: the holder check fires
	// before the weekly one.
	err := fx.service.Admit(context.Background(), bookingRequest(propertyB.ID, holder, "2024-06-04", "2024-06-06"))
	assertCode(t, err, bookingserrors.CodeHolderDateConflict)
}

func TestAdmit_WeeklyLimitExceeded(t *testing.T) {
	owner := primitive.NewObjectID().Hex()
	holder := primitive.NewObjectID().Hex()
	propertyA := newProperty(owner, 100)
	propertyB := newProperty(owner, 150)
	fx := newTestFixture(propertyA, propertyB)

	if err := fx.service.Admit(context.Background(), bookingRequest(propertyA.ID, holder, "2024-06-03", "2024-06-05")); err != nil {
		t.Fatalf("seed admission failed: %v", err)
	}

	// Non-overlapping dates but the same Mon-Sun week (Jun 3-9).
	err := fx.service.Admit(context.Background(), bookingRequest(propertyB.ID, holder, "2024-06-06", "2024-06-07"))
	assertCode(t, err, bookingserrors.CodeWeeklyLimitExceeded)
}

func TestAdmit_NextWeekSucceeds(t *testing.T) {
	owner := primitive.NewObjectID().Hex()
	holder := primitive.NewObjectID().Hex()
	propertyA := newProperty(owner, 100)
	propertyB := newProperty(owner, 150)
	fx := newTestFixture(propertyA, propertyB)

	if err := fx.service.Admit(context.Background(), bookingRequest(propertyA.ID, holder, "2024-06-03", "2024-06-05")); err != nil {
		t.Fatalf("seed admission failed: %v", err)
	}

	// Jun 10 starts the following Mon-Sun week.
	if err := fx.service.Admit(context.Background(), bookingRequest(propertyB.ID, holder, "2024-06-10", "2024-06-12")); err != nil {
		t.Fatalf("expected next-week admission to succeed, got %v", err)
	}
}

func TestAdmit_RejectionIsIdempotent(t *testing.T) {
	owner := primitive.NewObjectID().Hex()
	holder := primitive.NewObjectID().Hex()
	other := primitive.NewObjectID().Hex()
	property := newProperty(owner, 100)
	fx := newTestFixture(property)

	if err := fx.service.Admit(context.Background(), bookingRequest(property.ID, holder, "2024-06-03", "2024-06-05")); err != nil {
		t.Fatalf("seed admission failed: %v", err)
	}

	first := fx.service.Admit(context.Background(), bookingRequest(property.ID, other, "2024-06-04", "2024-06-06"))
	second := fx.service.Admit(context.Background(), bookingRequest(property.ID, other, "2024-06-04", "2024-06-06"))

	firstCode := apperrors.AsAppError(first).Code
	secondCode := apperrors.AsAppError(second).Code
	if firstCode != secondCode {
		t.Errorf("expected identical rejection codes, got %s then %s", firstCode, secondCode)
	}
}

func TestAdmit_ConcurrentRequestsAdmitExactlyOne(t *testing.T) {
	owner := primitive.NewObjectID().Hex()
	property := newProperty(owner, 100)
	fx := newTestFixture(property)

	const attempts = 4
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	wg.Add(attempts)

	for i := 0; i < attempts; i++ {
		go func(i int) {
			defer wg.Done()
			holder := primitive.NewObjectID().Hex()
			errs[i] = fx.service.Admit(context.Background(), bookingRequest(property.ID, holder, "2024-06-03", "2024-06-05"))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		code := apperrors.AsAppError(err).Code
		if code != bookingserrors.CodePropertyDateConflict && code != apperrors.CodeBusy {
			t.Errorf("unexpected rejection code under contention: %s (%v)", code, err)
		}
	}

	if succeeded != 1 {
		t.Fatalf("expected exactly one concurrent admission to succeed, got %d", succeeded)
	}
}

func TestModify_ExcludesOwnBooking(t *testing.T) {
	owner := primitive.NewObjectID().Hex()
	holder := primitive.NewObjectID().Hex()
	property := newProperty(owner, 100)
	fx := newTestFixture(property)

	booking := bookingRequest(property.ID, holder, "2024-06-03", "2024-06-05")
	if err := fx.service.Admit(context.Background(), booking); err != nil {
		t.Fatalf("seed admission failed: %v", err)
	}

	// The new range overlaps the booking's own current range and stays in
	// the same week; neither may count as a conflict against itself.
	newCheckIn := date("2024-06-04")
	newCheckOut := date("2024-06-07")
	updated, err := fx.service.Modify(context.Background(), booking.ID, holder, &model.BookingUpdate{
		CheckIn:  &newCheckIn,
		CheckOut: &newCheckOut,
	})
	if err != nil {
		t.Fatalf("expected modification to succeed, got %v", err)
	}

	if updated.TotalPrice != 300 {
		t.Errorf("expected recomputed price 300, got %v", updated.TotalPrice)
	}

	stored, err := fx.repo.FindByID(context.Background(), booking.ID)
	if err != nil {
		t.Fatalf("failed to load stored booking: %v", err)
	}
	if !stored.CheckIn.Equal(newCheckIn) || !stored.CheckOut.Equal(newCheckOut) {
		t.Errorf("stored dates were not updated: %v - %v", stored.CheckIn, stored.CheckOut)
	}
}

func TestModify_StillChecksConflicts(t *testing.T) {
	owner := primitive.NewObjectID().Hex()
	holder := primitive.NewObjectID().Hex()
	other := primitive.NewObjectID().Hex()
	property := newProperty(owner, 100)
	fx := newTestFixture(property)

	mine := bookingRequest(property.ID, holder, "2024-06-03", "2024-06-05")
	if err := fx.service.Admit(context.Background(), mine); err != nil {
		t.Fatalf("seed admission failed: %v", err)
	}
	theirs := bookingRequest(property.ID, other, "2024-06-10", "2024-06-12")
	if err := fx.service.Admit(context.Background(), theirs); err != nil {
		t.Fatalf("seed admission failed: %v", err)
	}

	newCheckIn := date("2024-06-11")
	newCheckOut := date("2024-06-13")
	_, err := fx.service.Modify(context.Background(), mine.ID, holder, &model.BookingUpdate{
		CheckIn:  &newCheckIn,
		CheckOut: &newCheckOut,
	})
	assertCode(t, err, bookingserrors.CodePropertyDateConflict)
}

func TestModify_ForbiddenForNonHolder(t *testing.T) {
	owner := primitive.NewObjectID().Hex()
	holder := primitive.NewObjectID().Hex()
	other := primitive.NewObjectID().Hex()
	property := newProperty(owner, 100)
	fx := newTestFixture(property)

	booking := bookingRequest(property.ID, holder, "2024-06-03", "2024-06-05")
	if err := fx.service.Admit(context.Background(), booking); err != nil {
		t.Fatalf("seed admission failed: %v", err)
	}

	newCheckOut := date("2024-06-06")
	_, err := fx.service.Modify(context.Background(), booking.ID, other, &model.BookingUpdate{CheckOut: &newCheckOut})
	assertCode(t, err, apperrors.CodeForbidden)
}

func TestCancel(t *testing.T) {
	owner := primitive.NewObjectID().Hex()
	holder := primitive.NewObjectID().Hex()
	property := newProperty(owner, 100)
	fx := newTestFixture(property)

	booking := bookingRequest(property.ID, holder, "2024-06-03", "2024-06-05")
	if err := fx.service.Admit(context.Background(), booking); err != nil {
		t.Fatalf("seed admission failed: %v", err)
	}

	if err := fx.service.Cancel(context.Background(), booking.ID, holder); err != nil {
		t.Fatalf("expected cancellation to succeed, got %v", err)
	}

	// The dates are free again.
	other := primitive.NewObjectID().Hex()
	if err := fx.service.Admit(context.Background(), bookingRequest(property.ID, other, "2024-06-03", "2024-06-05")); err != nil {
		t.Fatalf("expected re-admission after cancel to succeed, got %v", err)
	}
}

func TestCancel_ForbiddenForNonHolder(t *testing.T) {
	owner := primitive.NewObjectID().Hex()
	holder := primitive.NewObjectID().Hex()
	other := primitive.NewObjectID().Hex()
	property := newProperty(owner, 100)
	fx := newTestFixture(property)

	booking := bookingRequest(property.ID, holder, "2024-06-03", "2024-06-05")
	if err := fx.service.Admit(context.Background(), booking); err != nil {
		t.Fatalf("seed admission failed: %v", err)
	}

	err := fx.service.Cancel(context.Background(), booking.ID, other)
	assertCode(t, err, apperrors.CodeForbidden)
}

func TestCancel_NotFound(t *testing.T) {
	fx := newTestFixture()

	err := fx.service.Cancel(context.Background(), primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex())
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestIsBooked(t *testing.T) {
	owner := primitive.NewObjectID().Hex()
	holder := primitive.NewObjectID().Hex()
	property := newProperty(owner, 100)
	fx := newTestFixture(property)

	booked, err := fx.service.IsBooked(context.Background(), property.ID, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booked {
		t.Error("expected property with no bookings to report not booked")
	}

	if err := fx.service.Admit(context.Background(), bookingRequest(property.ID, holder, "2024-06-03", "2024-06-05")); err != nil {
		t.Fatalf("seed admission failed: %v", err)
	}

	from := date("2024-06-04")
	to := date("2024-06-10")
	booked, err = fx.service.IsBooked(context.Background(), property.ID, &from, &to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !booked {
		t.Error("expected overlapping range to report booked")
	}

	from = date("2024-06-05")
	booked, err = fx.service.IsBooked(context.Background(), property.ID, &from, &to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booked {
		t.Error("expected range starting at checkout to report not booked")
	}
}

func TestGetByUser(t *testing.T) {
	owner := primitive.NewObjectID().Hex()
	holder := primitive.NewObjectID().Hex()
	other := primitive.NewObjectID().Hex()
	propertyA := newProperty(owner, 100)
	propertyB := newProperty(owner, 150)
	fx := newTestFixture(propertyA, propertyB)

	if err := fx.service.Admit(context.Background(), bookingRequest(propertyA.ID, holder, "2024-06-03", "2024-06-05")); err != nil {
		t.Fatalf("seed admission failed: %v", err)
	}
	if err := fx.service.Admit(context.Background(), bookingRequest(propertyB.ID, other, "2024-06-03", "2024-06-05")); err != nil {
		t.Fatalf("seed admission failed: %v", err)
	}

	bookings, total, err := fx.service.GetByUser(context.Background(), holder, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(bookings) != 1 {
		t.Fatalf("expected exactly the holder's own booking, got total=%d len=%d", total, len(bookings))
	}
	if bookings[0].UserID != holder {
		t.Errorf("expected booking held by %s, got %s", holder, bookings[0].UserID)
	}
}
