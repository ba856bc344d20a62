package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"packrat/internal/config"
	"packrat/internal/domain"
	"packrat/internal/domain/models"
	"packrat/internal/domain/repositories"
	"packrat/internal/domain/services"
	"packrat/internal/quota"
)

type itemService struct {
	itemRepo     repositories.ItemRepository
	locationRepo repositories.LocationRepository
	plan         *quota.Plan
	logger       *slog.Logger
}

// NewItemService creates a new item service
func NewItemService(
	itemRepo repositories.ItemRepository,
	locationRepo repositories.LocationRepository,
	plan *quota.Plan,
	logger *slog.Logger,
) services.ItemService {
	return &itemService{
		itemRepo:     itemRepo,
		locationRepo: locationRepo,
		plan:         plan,
		logger:       logger,
	}
}

// CreateItem creates an item at an existing, caller-owned location
func (s *itemService) CreateItem(ctx context.Context, ownerID int64, req *services.CreateItemRequest) (*models.Item, error) {
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	count, err := s.itemRepo.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if count >= s.plan.MaxItems {
		return nil, fmt.Errorf("%w: item limit of %d reached", domain.ErrConflict, s.plan.MaxItems)
	}

	// The location lookup doubles as the ownership check
	if _, err := s.locationRepo.GetByID(ctx, req.LocationID, ownerID); err != nil {
		return nil, err
	}

	now := time.Now()
	item := &models.Item{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		LocationID:  req.LocationID,
		Name:        req.Name,
		Description: req.Description,
		Quantity:    req.Quantity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("item created",
		"id", item.ID,
		"owner_id", ownerID,
		"name", item.Name,
		"location_id", item.LocationID,
		"quantity", item.Quantity,
	)

	return item, nil
}

// GetItem retrieves an item by id
func (s *itemService) GetItem(ctx context.Context, ownerID int64, id string) (*models.Item, error) {
	return s.itemRepo.GetByID(ctx, id, ownerID)
}

// UpdateItem applies a partial update; absent fields stay unchanged
func (s *itemService) UpdateItem(ctx context.Context, ownerID int64, id string, req *services.UpdateItemRequest) (*models.Item, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	item, err := s.itemRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if req.Description.Present {
		// null clears, value sets
		item.Description = req.Description.Value
	}
	if req.LocationID != nil && *req.LocationID != item.LocationID {
		if _, err := s.locationRepo.GetByID(ctx, *req.LocationID, ownerID); err != nil {
			return nil, err
		}
		item.LocationID = *req.LocationID
	}

	item.UpdatedAt = time.Now()
	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("item updated",
		"id", item.ID,
		"owner_id", ownerID,
		"name", item.Name,
		"location_id", item.LocationID,
	)

	return item, nil
}

// DeleteItem removes an item
func (s *itemService) DeleteItem(ctx context.Context, ownerID int64, id string) error {
	if err := s.itemRepo.Delete(ctx, id, ownerID); err != nil {
		return err
	}

	s.logger.Info("item deleted", "id", id, "owner_id", ownerID)
	return nil
}

// ListByLocation lists items directly at one location
func (s *itemService) ListByLocation(ctx context.Context, ownerID int64, locationID string) ([]models.Item, error) {
	if _, err := s.locationRepo.GetByID(ctx, locationID, ownerID); err != nil {
		return nil, err
	}
	return s.itemRepo.ListByLocation(ctx, locationID, ownerID)
}

// validateCreateRequest validates an item creation request
func (s *itemService) validateCreateRequest(req *services.CreateItemRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.LocationID, validation.Required),
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxItemNameLength),
		),
		validation.Field(&req.Description,
			validation.Length(0, config.MaxItemDescriptionLength),
		),
		validation.Field(&req.Quantity, validation.Min(1)),
	)
}

// validateUpdateRequest validates a partial item update
func (s *itemService) validateUpdateRequest(req *services.UpdateItemRequest) error {
	if req.Name == nil && req.Quantity == nil && !req.Description.Present && req.LocationID == nil {
		return fmt.Errorf("at least one field must be provided")
	}
	if req.Name != nil && (*req.Name == "" || len(*req.Name) > config.MaxItemNameLength) {
		return fmt.Errorf("name must be between 1 and %d characters", config.MaxItemNameLength)
	}
	if req.Quantity != nil && *req.Quantity < 1 {
		return fmt.Errorf("quantity must be at least 1")
	}
	if req.Description.Present && req.Description.Value != nil && len(*req.Description.Value) > config.MaxItemDescriptionLength {
		return fmt.Errorf("description must be at most %d characters", config.MaxItemDescriptionLength)
	}
	if req.LocationID != nil && *req.LocationID == "" {
		return fmt.Errorf("location_id cannot be empty")
	}
	return nil
}
