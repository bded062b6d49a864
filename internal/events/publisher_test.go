package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"hemstay/pkg/kafka"
	"hemstay/pkg/logger"
	"hemstay/pkg/model"
)

type capturingProducer struct {
	published []kafka.Message
	err       error
}

func (c *capturingProducer) Publish(_ context.Context, msg kafka.Message) error {
	if c.err != nil {
		return c.err
	}
	c.published = append(c.published, msg)
	return nil
}

func sampleBooking() *model.Booking {
	return &model.Booking{
		ID:         "68b0f0c2a1b2c3d4e5f60718",
		PropertyID: "68b0f0c2a1b2c3d4e5f60719",
		UserID:     "68b0f0c2a1b2c3d4e5f6071a",
		CheckIn:    time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		TotalPrice: 360,
	}
}

func TestBookingCreated_PublishesKeyedEvent(t *testing.T) {
	producer := &capturingProducer{}
	p := &BookingPublisher{producer: producer, log: logger.Discard()}

	booking := sampleBooking()
	p.BookingCreated(context.Background(), booking)

	if len(producer.published) != 1 {
		t.Fatalf("expected 1 message, got %d", len(producer.published))
	}

	msg := producer.published[0]
	if msg.Key != booking.ID {
		t.Errorf("expected partition key %s, got %s", booking.ID, msg.Key)
	}
	if msg.GetEventType() != EventBookingCreated {
		t.Errorf("expected event type %s, got %s", EventBookingCreated, msg.GetEventType())
	}
	if msg.GetEventID() == "" {
		t.Error("expected an event ID header")
	}

	var payload bookingEvent
	if err := msg.DecodeValue(&payload); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	if payload.PropertyID != booking.PropertyID {
		t.Errorf("expected property %s, got %s", booking.PropertyID, payload.PropertyID)
	}
	if payload.TotalPrice != booking.TotalPrice {
		t.Errorf("expected total price %v, got %v", booking.TotalPrice, payload.TotalPrice)
	}
}

func TestPublish_SwallowsProducerErrors(t *testing.T) {
	producer := &capturingProducer{err: errors.New("broker unreachable")}
	p := &BookingPublisher{producer: producer, log: logger.Discard()}

	// Must not panic or surface the error; the booking is already committed.
	p.BookingCancelled(context.Background(), sampleBooking())
}
