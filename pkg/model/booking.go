package model

import (
	"time"
)

type Booking struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	PropertyID string    `json:"property_id" bson:"property_id" validate:"required,mongodb"`
	UserID     string    `json:"user_id" bson:"user_id" validate:"required,mongodb"`
	CheckIn    time.Time `json:"check_in" bson:"check_in" validate:"required"`
	CheckOut   time.Time `json:"check_out" bson:"check_out" validate:"required,gtfield=CheckIn"`
	TotalPrice float64   `json:"total_price" bson:"total_price" validate:"omitempty,gte=0"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type BookingUpdate struct {
	CheckIn  *time.Time `json:"check_in,omitempty" validate:"omitempty"`
	CheckOut *time.Time `json:"check_out,omitempty" validate:"omitempty"`
}
