package repository

import (
	"context"
	"fmt"
	"time"

	bookingserrors "hemstay/internal/bookings/errors"
	"hemstay/pkg/config"
	"hemstay/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const LockCollectionName = "Admission_locks"

// AdmissionLockRepository provides the advisory locks serializing
// booking admission. A lock is a document keyed by scope; insertion
// succeeds for exactly one concurrent writer.
type AdmissionLockRepository interface {
	Acquire(ctx context.Context, lockID string, ttl time.Duration) error
	Release(ctx context.Context, lockID string) error
}

type mongoAdmissionLockRepository struct {
	collection *mongo.Collection
}

func NewAdmissionLockRepository(cfg *config.Config) AdmissionLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAdmissionLockRepository{
		collection: db.Collection(LockCollectionName),
	}
}

// Acquire inserts the lock document. ErrLockHeld is returned when
// another request holds the scope; the TTL index on expires_at reclaims
// locks abandoned by crashed holders.
func (r *mongoAdmissionLockRepository) Acquire(ctx context.Context, lockID string, ttl time.Duration) error {
	lock := &model.AdmissionLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(ttl),
		CreatedAt: time.Now(),
	}

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bookingserrors.ErrLockHeld
		}
		return fmt.Errorf("failed to acquire admission lock: %w", err)
	}

	return nil
}

func (r *mongoAdmissionLockRepository) Release(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}
