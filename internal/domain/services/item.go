package services

import (
	"context"

	"packrat/internal/domain/models"
)

// ItemService handles item business logic
type ItemService interface {
	// CreateItem creates an item at an existing, caller-owned location
	CreateItem(ctx context.Context, ownerID int64, req *CreateItemRequest) (*models.Item, error)

	// GetItem retrieves an item by id
	GetItem(ctx context.Context, ownerID int64, id string) (*models.Item, error)

	// UpdateItem applies a partial update (absent fields stay unchanged)
	UpdateItem(ctx context.Context, ownerID int64, id string, req *UpdateItemRequest) (*models.Item, error)

	// DeleteItem removes an item
	DeleteItem(ctx context.Context, ownerID int64, id string) error

	// ListByLocation lists items directly at one location
	ListByLocation(ctx context.Context, ownerID int64, locationID string) ([]models.Item, error)
}

// CreateItemRequest represents an item creation request
type CreateItemRequest struct {
	LocationID  string  `json:"location_id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Quantity    int     `json:"quantity,omitempty"` // defaults to 1
}

// OptionalDescription tracks tri-state semantics for description updates.
// Transport-agnostic - the handler maps it from httputil.OptionalString.
type OptionalDescription struct {
	Present bool
	Value   *string // nil = clear
}

// UpdateItemRequest represents a partial item update. Name and Quantity are
// required fields, so only non-null values are accepted for them; moving the
// item between locations goes through LocationID.
type UpdateItemRequest struct {
	Name        *string
	Description OptionalDescription
	Quantity    *int
	LocationID  *string
}
