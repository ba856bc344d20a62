package repositories

import (
	"context"

	"packrat/internal/domain/models"
)

// LocationRepository defines data access operations for storage locations.
// Every lookup is scoped by owner id; an id that exists but belongs to a
// different owner behaves exactly like a missing row.
type LocationRepository interface {
	// Create persists a new location including its materialized path
	Create(ctx context.Context, loc *models.Location) error

	// GetByID retrieves a location by id, scoped to the owner
	GetByID(ctx context.Context, id string, ownerID int64) (*models.Location, error)

	// Update persists name, parent and path changes for a single location
	Update(ctx context.Context, loc *models.Location) error

	// UpdatePaths rewrites the materialized path of several locations at once.
	// Used by subtree rebuilds after a move or rename.
	UpdatePaths(ctx context.Context, ownerID int64, locs []*models.Location) error

	// Delete removes a single location
	Delete(ctx context.Context, id string, ownerID int64) error

	// DeleteByIDs removes a set of locations belonging to one owner
	DeleteByIDs(ctx context.Context, ownerID int64, ids []string) error

	// GetChildren lists immediate children of a location (nil = roots),
	// ordered by name
	GetChildren(ctx context.Context, parentID *string, ownerID int64) ([]models.Location, error)

	// GetDescendantIDs expands the child relation transitively and returns
	// every id below the given location, excluding the location itself
	GetDescendantIDs(ctx context.Context, id string, ownerID int64) ([]string, error)

	// GetByIDs fetches several locations at once
	GetByIDs(ctx context.Context, ownerID int64, ids []string) ([]*models.Location, error)

	// CountChildrenAndItems computes the cascade-delete impact for a location
	CountChildrenAndItems(ctx context.Context, id string, ownerID int64) (*models.DeleteImpact, error)

	// GetAll retrieves every location of an owner as a flat list
	GetAll(ctx context.Context, ownerID int64) ([]models.Location, error)

	// CountByOwner returns how many locations an owner has
	CountByOwner(ctx context.Context, ownerID int64) (int, error)
}
