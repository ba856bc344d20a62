package repositories

import (
	"context"

	"packrat/internal/domain/models"
)

// ItemSearchQuery describes a name search over a user's items.
type ItemSearchQuery struct {
	OwnerID int64

	// Query is the name substring to match. Empty matches everything in scope.
	Query string

	// LocationIDs restricts matches to this scoping set (a location plus its
	// descendants). Nil means no location filter.
	LocationIDs []string

	Limit  int
	Offset int
}

// ItemRepository defines data access operations for items.
type ItemRepository interface {
	// Create persists a new item
	Create(ctx context.Context, item *models.Item) error

	// GetByID retrieves an item by id, scoped to the owner
	GetByID(ctx context.Context, id string, ownerID int64) (*models.Item, error)

	// Update persists item changes
	Update(ctx context.Context, item *models.Item) error

	// Delete removes an item
	Delete(ctx context.Context, id string, ownerID int64) error

	// DeleteByLocationIDs removes every item stored at any of the given
	// locations. Used by cascading location deletes.
	DeleteByLocationIDs(ctx context.Context, ownerID int64, locationIDs []string) error

	// ListByLocation lists items directly at one location, ordered by name
	ListByLocation(ctx context.Context, locationID string, ownerID int64) ([]models.Item, error)

	// CountByLocations maps each given location id to the number of items
	// directly stored there
	CountByLocations(ctx context.Context, ownerID int64, locationIDs []string) (map[string]int, error)

	// SearchByName runs a trigram-ranked name search. Returns the page of
	// matches and the total match count irrespective of limit/offset.
	SearchByName(ctx context.Context, q ItemSearchQuery) ([]models.Item, int, error)

	// CountByOwner returns how many items an owner has
	CountByOwner(ctx context.Context, ownerID int64) (int, error)
}
