package repository

import (
	"context"
	"errors"
	"fmt"

	bookingserrors "hemstay/internal/bookings/errors"
	"hemstay/pkg/config"
	"hemstay/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PropertyReader is the admission engine's read-only view of the
// property catalog: ownership and nightly rate. Writes go through the
// properties service, never through here.
type PropertyReader interface {
	FindByID(ctx context.Context, id string) (*model.Property, error)
}

type mongoPropertyReader struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewPropertyReader(cfg *config.Config) PropertyReader {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoPropertyReader{
		cfg:        cfg,
		collection: db.Collection("Properties"),
	}
}

func (r *mongoPropertyReader) FindByID(ctx context.Context, id string) (*model.Property, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var property model.Property
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&property)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrPropertyNotFound
		}
		return nil, fmt.Errorf("failed to find property: %w", err)
	}

	return &property, nil
}
