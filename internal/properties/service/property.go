package service

import (
	"context"
	"errors"

	propertieserrors "hemstay/internal/properties/errors"
	"hemstay/internal/properties/repository"
	"hemstay/internal/properties/validator"
	"hemstay/pkg/config"
	apperrors "hemstay/pkg/errors"
	"hemstay/pkg/model"
	"hemstay/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/bson"
)

type PropertyService interface {
	Create(ctx context.Context, property *model.Property) error
	GetByID(ctx context.Context, id string) (*model.Property, error)
	ListBookable(ctx context.Context, viewerID string, limit int, offset int64) ([]*model.Property, int64, error)
	ListMine(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Property, int64, error)
	Update(ctx context.Context, id string, requesterID string, updates *model.PropertyUpdate) (*model.Property, error)
	Delete(ctx context.Context, id string, requesterID string) error
}

type propertyService struct {
	repo      repository.PropertyRepository
	validator *validator.PropertyValidator
	cfg       *config.Config
}

func NewPropertyService(repo repository.PropertyRepository, validator *validator.PropertyValidator, cfg *config.Config) PropertyService {
	return &propertyService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *propertyService) Create(ctx context.Context, property *model.Property) error {
	s.sanitize(property)
	if err := s.validator.Validate(property); err != nil {
		s.cfg.Log.Warn("Property validation failed", "error", err)
		return apperrors.Validation("Property validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, property); err != nil {
		s.cfg.Log.Error("Failed to create property", "owner_id", property.OwnerID, "error", err)
		return apperrors.Internal("Failed to create property", err)
	}

	s.cfg.Log.Info("Property created", "id", property.ID, "owner_id", property.OwnerID)
	return nil
}

func (s *propertyService) GetByID(ctx context.Context, id string) (*model.Property, error) {
	return s.load(ctx, id)
}

// ListBookable returns listings the viewer could book: available and
// not their own.
func (s *propertyService) ListBookable(ctx context.Context, viewerID string, limit int, offset int64) ([]*model.Property, int64, error) {
	filter := repository.Filter{ExcludeOwnerID: viewerID, OnlyAvailable: true}
	return s.list(ctx, filter, limit, offset)
}

func (s *propertyService) ListMine(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Property, int64, error) {
	return s.list(ctx, repository.Filter{OwnerID: ownerID}, limit, offset)
}

// Update applies a partial update. Only the owner may mutate a listing.
func (s *propertyService) Update(ctx context.Context, id string, requesterID string, updates *model.PropertyUpdate) (*model.Property, error) {
	property, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if property.OwnerID != requesterID {
		return nil, apperrors.Forbidden("You can only update your own properties")
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Property update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	set := bson.M{}
	if updates.Name != "" {
		property.Name = sanitizer.NormalizeName(updates.Name)
		set["name"] = property.Name
	}
	if updates.Description != nil {
		property.Description = sanitizer.TrimAndNormalize(*updates.Description)
		set["description"] = property.Description
	}
	if updates.Location != "" {
		property.Location = sanitizer.NormalizeLocation(updates.Location)
		set["location"] = property.Location
	}
	if updates.PricePerNight != nil {
		property.PricePerNight = *updates.PricePerNight
		set["price_per_night"] = property.PricePerNight
	}
	if updates.Availability != nil {
		property.Availability = *updates.Availability
		set["availability"] = property.Availability
	}
	if updates.ImageURL != nil {
		property.ImageURL = sanitizer.SanitizeURL(*updates.ImageURL)
		set["image_url"] = property.ImageURL
	}

	if len(set) == 0 {
		return property, nil
	}

	if err := s.repo.Update(ctx, id, set); err != nil {
		if errors.Is(err, propertieserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Property", id)
		}
		s.cfg.Log.Error("Failed to update property", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update property", err)
	}

	s.cfg.Log.Info("Property updated", "id", id)
	return property, nil
}

func (s *propertyService) Delete(ctx context.Context, id string, requesterID string) error {
	property, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if property.OwnerID != requesterID {
		return apperrors.Forbidden("You can only delete your own properties")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, propertieserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Property", id)
		}
		s.cfg.Log.Error("Failed to delete property", "id", id, "error", err)
		return apperrors.Internal("Failed to delete property", err)
	}

	s.cfg.Log.Info("Property deleted", "id", id)
	return nil
}

// --- Helpers ---

func (s *propertyService) load(ctx context.Context, id string) (*model.Property, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Property ID cannot be empty")
	}

	property, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, propertieserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Property", id)
		}
		if errors.Is(err, propertieserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid property ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve property", err)
	}

	return property, nil
}

func (s *propertyService) list(ctx context.Context, filter repository.Filter, limit int, offset int64) ([]*model.Property, int64, error) {
	count, err := s.repo.Count(ctx, filter)
	if err != nil {
		s.cfg.Log.Error("Failed to count properties", "error", err)
		return nil, 0, apperrors.Internal("Failed to count properties", err)
	}

	properties, err := s.repo.FindAll(ctx, filter, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list properties", "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve properties", err)
	}

	return properties, count, nil
}

func (s *propertyService) sanitize(p *model.Property) {
	p.Name = sanitizer.NormalizeName(p.Name)
	p.Description = sanitizer.TrimAndNormalize(p.Description)
	p.Location = sanitizer.NormalizeLocation(p.Location)
	if p.ImageURL != "" {
		p.ImageURL = sanitizer.SanitizeURL(p.ImageURL)
	}
}
