package model

import "time"

// AdmissionLock is an advisory lock document serializing booking
// admission per scope (one per holder, one per property). Insertion
// succeeds for exactly one writer; a duplicate key means the scope is
// held. ExpiresAt bounds the damage of a crashed holder via TTL.
type AdmissionLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
