package service

import (
	"context"
	"fmt"
	"log/slog"

	"packrat/internal/domain"
	"packrat/internal/domain/repositories"
	"packrat/internal/domain/services"
)

type searchService struct {
	itemRepo     repositories.ItemRepository
	locationRepo repositories.LocationRepository
	logger       *slog.Logger
}

// NewSearchService creates a new search service
func NewSearchService(
	itemRepo repositories.ItemRepository,
	locationRepo repositories.LocationRepository,
	logger *slog.Logger,
) services.SearchService {
	return &searchService{
		itemRepo:     itemRepo,
		locationRepo: locationRepo,
		logger:       logger,
	}
}

// SearchItems runs a name search over the owner's items, optionally scoped
// to a location subtree
func (s *searchService) SearchItems(ctx context.Context, ownerID int64, opts *services.SearchOptions) (*services.SearchResults, error) {
	opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	q := repositories.ItemSearchQuery{
		OwnerID: ownerID,
		Query:   opts.Query,
		Limit:   opts.Limit,
		Offset:  opts.Offset,
	}

	if opts.LocationID != nil {
		// Scope = the location itself plus its whole subtree. The lookup
		// doubles as the ownership check.
		if _, err := s.locationRepo.GetByID(ctx, *opts.LocationID, ownerID); err != nil {
			return nil, err
		}
		descendantIDs, err := s.locationRepo.GetDescendantIDs(ctx, *opts.LocationID, ownerID)
		if err != nil {
			return nil, err
		}
		q.LocationIDs = append(descendantIDs, *opts.LocationID)
	}

	items, total, err := s.itemRepo.SearchByName(ctx, q)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("item search",
		"owner_id", ownerID,
		"query", opts.Query,
		"scoped", opts.LocationID != nil,
		"total", total,
		"returned", len(items),
	)

	return services.NewSearchResults(items, total, opts), nil
}
