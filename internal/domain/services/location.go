package services

import (
	"context"

	"packrat/internal/domain/models"
)

// LocationService handles storage-location business logic. All operations
// take the owner id explicitly; there is no ambient current-user state.
type LocationService interface {
	// CreateLocation creates a location, materializing its path from the
	// parent (or as a new root when ParentID is nil)
	CreateLocation(ctx context.Context, ownerID int64, req *CreateLocationRequest) (*models.Location, error)

	// GetLocation retrieves a location including its breadcrumbs
	GetLocation(ctx context.Context, ownerID int64, id string) (*models.Location, error)

	// UpdateLocation renames and/or moves a location. Moves are rejected when
	// they would create a cycle; the whole subtree's paths are rebuilt in one
	// transaction.
	UpdateLocation(ctx context.Context, ownerID int64, id string, req *UpdateLocationRequest) (*models.Location, error)

	// DeleteLocation deletes a location. Without force it fails with a
	// DeleteConflictError when the location still has children or items; with
	// force it removes the whole subtree and every item in it.
	DeleteLocation(ctx context.Context, ownerID int64, id string, force bool) (*models.DeleteImpact, error)

	// GetDescendantIDs exposes subtree enumeration for collaborators
	// (search scoping, impact display)
	GetDescendantIDs(ctx context.Context, ownerID int64, id string) ([]string, error)

	// GetChildren lists the immediate children of a location, or the roots
	// when parentID is nil. Backs incremental tree loading in the client.
	GetChildren(ctx context.Context, ownerID int64, parentID *string) ([]models.Location, error)

	// GetTree returns the owner's full location tree, children name-sorted
	GetTree(ctx context.Context, ownerID int64) (*models.LocationTree, error)
}

// CreateLocationRequest represents a location creation request
type CreateLocationRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id,omitempty"` // null/absent = root level
}

// OptionalParent tracks tri-state semantics for parent changes (RFC 7396
// PATCH). Transport-agnostic (no JSON tags) - the handler maps it from
// httputil.OptionalString.
//   - Present=false: field absent from request (don't move)
//   - Present=true, Value=nil: field is null (move to root)
//   - Present=true, Value=&id: move under the given location
type OptionalParent struct {
	Present bool
	Value   *string
}

// UpdateLocationRequest represents a rename and/or move request.
// A nil Name leaves the name unchanged; explicit null is rejected because
// name is required.
type UpdateLocationRequest struct {
	Name     *string
	ParentID OptionalParent
}
