package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"packrat/internal/config"
	"packrat/internal/domain"
	"packrat/internal/domain/models"
	"packrat/internal/domain/repositories"
	"packrat/internal/domain/services"
	"packrat/internal/quota"
	"packrat/internal/tree"
)

type locationService struct {
	locationRepo repositories.LocationRepository
	itemRepo     repositories.ItemRepository
	txManager    repositories.TransactionManager
	plan         *quota.Plan
	logger       *slog.Logger
}

// NewLocationService creates a new location service
func NewLocationService(
	locationRepo repositories.LocationRepository,
	itemRepo repositories.ItemRepository,
	txManager repositories.TransactionManager,
	plan *quota.Plan,
	logger *slog.Logger,
) services.LocationService {
	return &locationService{
		locationRepo: locationRepo,
		itemRepo:     itemRepo,
		txManager:    txManager,
		plan:         plan,
		logger:       logger,
	}
}

// CreateLocation creates a location, materializing its path from the parent
func (s *locationService) CreateLocation(ctx context.Context, ownerID int64, req *services.CreateLocationRequest) (*models.Location, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// Normalize empty string to nil for root-level locations
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}

	count, err := s.locationRepo.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if count >= s.plan.MaxLocations {
		return nil, fmt.Errorf("%w: location limit of %d reached", domain.ErrConflict, s.plan.MaxLocations)
	}

	var parentPath *tree.Path
	if req.ParentID != nil {
		parent, err := s.locationRepo.GetByID(ctx, *req.ParentID, ownerID)
		if err != nil {
			return nil, fmt.Errorf("parent location: %w", err)
		}
		if parent.Depth+1 >= s.plan.MaxDepth {
			return nil, fmt.Errorf("%w: maximum nesting depth of %d reached", domain.ErrValidation, s.plan.MaxDepth)
		}
		p := tree.PathOf(parent)
		parentPath = &p
	}

	now := time.Now()
	loc := &models.Location{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		ParentID:  req.ParentID,
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	path := tree.ComputePath(parentPath, loc.ID, loc.Name)
	loc.PathIDs = path.IDs
	loc.PathNames = path.Names
	loc.Depth = path.Depth()

	if err := s.locationRepo.Create(ctx, loc); err != nil {
		return nil, err
	}

	s.logger.Info("location created",
		"id", loc.ID,
		"owner_id", ownerID,
		"name", loc.Name,
		"parent_id", loc.ParentID,
		"depth", loc.Depth,
	)

	return loc, nil
}

// GetLocation retrieves a location including its breadcrumbs
func (s *locationService) GetLocation(ctx context.Context, ownerID int64, id string) (*models.Location, error) {
	return s.locationRepo.GetByID(ctx, id, ownerID)
}

// UpdateLocation renames and/or moves a location. The whole operation runs
// in one transaction: either the node and every descendant get their new
// materialized path, or nothing changes.
func (s *locationService) UpdateLocation(ctx context.Context, ownerID int64, id string, req *services.UpdateLocationRequest) (*models.Location, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// Normalize empty string to nil, same as create: both mean root level
	if req.ParentID.Present && req.ParentID.Value != nil && *req.ParentID.Value == "" {
		req.ParentID.Value = nil
	}

	var updated *models.Location
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		loc, err := s.locationRepo.GetByID(ctx, id, ownerID)
		if err != nil {
			return err
		}

		renaming := req.Name != nil && *req.Name != loc.Name
		moving := req.ParentID.Present && !sameParent(loc.ParentID, req.ParentID.Value)

		if req.ParentID.Present && req.ParentID.Value != nil && *req.ParentID.Value == id {
			return fmt.Errorf("%w: cannot move a location into itself", domain.ErrInvalidOperation)
		}

		if !renaming && !moving {
			// Idempotent short-circuit: nothing changes, no writes
			updated = loc
			return nil
		}

		descendants, err := s.fetchDescendants(ctx, ownerID, id)
		if err != nil {
			return err
		}

		var newParentPath *tree.Path
		if moving && req.ParentID.Value != nil {
			newParentID := *req.ParentID.Value

			parent, err := s.locationRepo.GetByID(ctx, newParentID, ownerID)
			if err != nil {
				return fmt.Errorf("parent location: %w", err)
			}

			cycle, err := tree.WouldCreateCycle(id, &newParentID, childLookup(descendants))
			if err != nil {
				return err
			}
			if cycle {
				return fmt.Errorf("%w: cannot move a location into its own subtree", domain.ErrInvalidOperation)
			}
			if parent.Depth+1+subtreeHeight(loc, descendants) >= s.plan.MaxDepth {
				return fmt.Errorf("%w: move would exceed maximum nesting depth of %d", domain.ErrValidation, s.plan.MaxDepth)
			}
			p := tree.PathOf(parent)
			newParentPath = &p
		} else if !moving && loc.ParentID != nil {
			// Rename only: the parent stays, fetch its path for the rebuild
			parent, err := s.locationRepo.GetByID(ctx, *loc.ParentID, ownerID)
			if err != nil {
				return fmt.Errorf("parent location: %w", err)
			}
			p := tree.PathOf(parent)
			newParentPath = &p
		}

		if renaming {
			loc.Name = *req.Name
		}
		if moving {
			loc.ParentID = req.ParentID.Value
		}

		if err := tree.RebuildSubtreePaths(loc, descendants, newParentPath); err != nil {
			return err
		}

		loc.UpdatedAt = time.Now()
		if err := s.locationRepo.Update(ctx, loc); err != nil {
			return err
		}
		if err := s.locationRepo.UpdatePaths(ctx, ownerID, descendants); err != nil {
			return err
		}

		s.logger.Info("location updated",
			"id", loc.ID,
			"owner_id", ownerID,
			"name", loc.Name,
			"parent_id", loc.ParentID,
			"renamed", renaming,
			"moved", moving,
			"subtree_size", len(descendants),
		)

		updated = loc
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteLocation deletes a location and, when forced, its whole subtree with
// every item in it. Without force a non-empty location yields a
// DeleteConflictError carrying the impact counts; nothing is written.
func (s *locationService) DeleteLocation(ctx context.Context, ownerID int64, id string, force bool) (*models.DeleteImpact, error) {
	var impact *models.DeleteImpact
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		loc, err := s.locationRepo.GetByID(ctx, id, ownerID)
		if err != nil {
			return err
		}

		impact, err = s.locationRepo.CountChildrenAndItems(ctx, id, ownerID)
		if err != nil {
			return err
		}

		if !force && !impact.Empty() {
			return &domain.DeleteConflictError{
				LocationID:           id,
				ChildCount:           impact.ChildCount,
				ItemCount:            impact.ItemCount,
				TotalDescendantItems: impact.TotalDescendantItems,
			}
		}

		descendantIDs, err := s.locationRepo.GetDescendantIDs(ctx, id, ownerID)
		if err != nil {
			return err
		}
		doomed := append(descendantIDs, id)

		if err := s.itemRepo.DeleteByLocationIDs(ctx, ownerID, doomed); err != nil {
			return err
		}
		if len(descendantIDs) == 0 {
			// Leaf: a single-row delete is all that is needed
			if err := s.locationRepo.Delete(ctx, id, ownerID); err != nil {
				return err
			}
		} else if err := s.locationRepo.DeleteByIDs(ctx, ownerID, doomed); err != nil {
			return err
		}

		s.logger.Info("location deleted",
			"id", id,
			"owner_id", ownerID,
			"name", loc.Name,
			"locations_removed", len(doomed),
			"items_removed", impact.TotalDescendantItems,
		)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return impact, nil
}

// GetDescendantIDs exposes subtree enumeration for collaborators
func (s *locationService) GetDescendantIDs(ctx context.Context, ownerID int64, id string) ([]string, error) {
	if _, err := s.locationRepo.GetByID(ctx, id, ownerID); err != nil {
		return nil, err
	}
	return s.locationRepo.GetDescendantIDs(ctx, id, ownerID)
}

// GetChildren lists the immediate children of a location (nil = roots)
func (s *locationService) GetChildren(ctx context.Context, ownerID int64, parentID *string) ([]models.Location, error) {
	if parentID != nil {
		// The lookup doubles as the ownership check
		if _, err := s.locationRepo.GetByID(ctx, *parentID, ownerID); err != nil {
			return nil, err
		}
	}
	return s.locationRepo.GetChildren(ctx, parentID, ownerID)
}

// GetTree returns the owner's full location tree with per-location direct
// item counts, children name-sorted at every level
func (s *locationService) GetTree(ctx context.Context, ownerID int64) (*models.LocationTree, error) {
	all, err := s.locationRepo.GetAll(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(all))
	for _, loc := range all {
		ids = append(ids, loc.ID)
	}
	itemCounts, err := s.itemRepo.CountByLocations(ctx, ownerID, ids)
	if err != nil {
		return nil, err
	}

	// First pass: create all nodes
	nodeMap := make(map[string]*models.LocationTreeNode, len(all))
	for _, loc := range all {
		nodeMap[loc.ID] = &models.LocationTreeNode{
			ID:        loc.ID,
			Name:      loc.Name,
			ParentID:  loc.ParentID,
			Depth:     loc.Depth,
			ItemCount: itemCounts[loc.ID],
			Children:  []*models.LocationTreeNode{},
		}
	}

	// Second pass: connect children to parents
	roots := make([]*models.LocationTreeNode, 0)
	for _, loc := range all {
		node := nodeMap[loc.ID]
		if loc.ParentID == nil {
			roots = append(roots, node)
		} else if parent, exists := nodeMap[*loc.ParentID]; exists {
			parent.Children = append(parent.Children, node)
		}
	}

	// Ordinal name sort at every level
	sortNodes(roots)
	for _, node := range nodeMap {
		sortNodes(node.Children)
	}

	s.logger.Debug("location tree built",
		"owner_id", ownerID,
		"location_count", len(all),
	)

	return &models.LocationTree{Locations: roots}, nil
}

// fetchDescendants loads the full subtree below id as mutable locations
func (s *locationService) fetchDescendants(ctx context.Context, ownerID int64, id string) ([]*models.Location, error) {
	ids, err := s.locationRepo.GetDescendantIDs(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	return s.locationRepo.GetByIDs(ctx, ownerID, ids)
}

// childLookup builds an in-memory child relation over an already-fetched
// subtree, so the cycle check re-reads nothing from the store
func childLookup(descendants []*models.Location) tree.ChildLookup {
	children := make(map[string][]string, len(descendants)+1)
	for _, d := range descendants {
		if d.ParentID != nil {
			children[*d.ParentID] = append(children[*d.ParentID], d.ID)
		}
	}
	return func(id string) ([]string, error) {
		return children[id], nil
	}
}

// subtreeHeight is the number of levels below the subtree root
func subtreeHeight(root *models.Location, descendants []*models.Location) int {
	max := 0
	for _, d := range descendants {
		if h := d.Depth - root.Depth; h > max {
			max = h
		}
	}
	return max
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sortNodes(nodes []*models.LocationTreeNode) {
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Name != nodes[j].Name {
			return nodes[i].Name < nodes[j].Name
		}
		return nodes[i].ID < nodes[j].ID
	})
}

// validateCreateRequest validates a location creation request
func (s *locationService) validateCreateRequest(req *services.CreateLocationRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxLocationNameLength),
		),
	)
}

// validateUpdateRequest validates a rename/move request
func (s *locationService) validateUpdateRequest(req *services.UpdateLocationRequest) error {
	// At least one field must be provided
	if req.Name == nil && !req.ParentID.Present {
		return fmt.Errorf("at least one field must be provided")
	}

	if req.Name != nil {
		name := struct{ Name string }{Name: *req.Name}
		return validation.ValidateStruct(&name,
			validation.Field(&name.Name,
				validation.Required,
				validation.Length(1, config.MaxLocationNameLength),
			),
		)
	}

	return nil
}
