package model

import "time"

type Property struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OwnerID       string    `json:"owner_id" bson:"owner_id" validate:"required,mongodb"`
	Name          string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Description   string    `json:"description" bson:"description" validate:"omitempty,max=2000"`
	Location      string    `json:"location" bson:"location" validate:"required,min=2,max=200"`
	PricePerNight float64   `json:"price_per_night" bson:"price_per_night" validate:"required,gt=0"`
	Availability  bool      `json:"availability" bson:"availability"`
	ImageURL      string    `json:"image_url,omitempty" bson:"image_url,omitempty" validate:"omitempty,url"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type PropertyUpdate struct {
	Name          string   `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Description   *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	Location      string   `json:"location,omitempty" validate:"omitempty,min=2,max=200"`
	PricePerNight *float64 `json:"price_per_night,omitempty" validate:"omitempty,gt=0"`
	Availability  *bool    `json:"availability,omitempty"`
	ImageURL      *string  `json:"image_url,omitempty" validate:"omitempty,url"`
}
