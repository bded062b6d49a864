package events

import (
	"context"
	"time"

	"hemstay/pkg/kafka"
	"hemstay/pkg/logger"
	"hemstay/pkg/model"
)

const (
	BookingsTopic    = "hemstay.bookings"
	BookingsDLQTopic = "hemstay.bookings.dlq"

	EventBookingCreated   = "booking.created"
	EventBookingUpdated   = "booking.updated"
	EventBookingCancelled = "booking.cancelled"

	schemaVersion = "1"
	sourceService = "bookings"
)

// bookingEvent is the payload published for every booking lifecycle change.
type bookingEvent struct {
	BookingID  string    `json:"booking_id"`
	PropertyID string    `json:"property_id"`
	UserID     string    `json:"user_id"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	TotalPrice float64   `json:"total_price"`
	OccurredAt time.Time `json:"occurred_at"`
}

type publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// BookingPublisher emits booking lifecycle events. Publishing is
// best-effort: the admission decision is already committed, so a
// broker failure is logged and swallowed.
type BookingPublisher struct {
	producer publisher
	log      *logger.Logger
}

func NewBookingPublisher(producer *kafka.Producer, log *logger.Logger) *BookingPublisher {
	return &BookingPublisher{
		producer: producer,
		log:      log,
	}
}

func (p *BookingPublisher) BookingCreated(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, EventBookingCreated, booking)
}

func (p *BookingPublisher) BookingUpdated(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, EventBookingUpdated, booking)
}

func (p *BookingPublisher) BookingCancelled(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, EventBookingCancelled, booking)
}

func (p *BookingPublisher) publish(ctx context.Context, eventType string, booking *model.Booking) {
	msg := kafka.NewMessage().
		WithKey(booking.ID).
		WithEventType(eventType).
		WithSchemaVersion(schemaVersion).
		WithSource(sourceService).
		WithValue(bookingEvent{
			BookingID:  booking.ID,
			PropertyID: booking.PropertyID,
			UserID:     booking.UserID,
			CheckIn:    booking.CheckIn,
			CheckOut:   booking.CheckOut,
			TotalPrice: booking.TotalPrice,
			OccurredAt: time.Now().UTC(),
		}).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err)
		return
	}

	p.log.Debug("Booking event published", "event_type", eventType, "booking_id", booking.ID)
}
