package services

import (
	"context"
	"fmt"

	"packrat/internal/domain/models"
)

// Default search configuration values
const (
	DefaultSearchLimit  = 20
	DefaultSearchOffset = 0
	MaxSearchLimit      = 100
)

// SearchService finds items by name, optionally scoped to a location subtree.
type SearchService interface {
	// SearchItems runs a name search. When LocationID is set the scope is
	// that location plus all of its descendants.
	SearchItems(ctx context.Context, ownerID int64, opts *SearchOptions) (*SearchResults, error)
}

// SearchOptions configures an item search.
type SearchOptions struct {
	// Query is the name substring to match. Empty matches every item in scope.
	Query string

	// LocationID optionally restricts the search to a subtree.
	// nil = search everywhere.
	LocationID *string

	// Pagination
	Limit  int // results per page (default 20, max 100)
	Offset int // results to skip (default 0)
}

// ApplyDefaults fills in default values for unset fields
func (opts *SearchOptions) ApplyDefaults() {
	if opts.Limit <= 0 {
		opts.Limit = DefaultSearchLimit
	}
	if opts.Offset < 0 {
		opts.Offset = DefaultSearchOffset
	}
}

// Validate checks that values are reasonable
func (opts *SearchOptions) Validate() error {
	if opts.Limit < 0 {
		return fmt.Errorf("limit cannot be negative")
	}
	if opts.Limit > MaxSearchLimit {
		return fmt.Errorf("limit cannot exceed %d (requested: %d)", MaxSearchLimit, opts.Limit)
	}
	if opts.Offset < 0 {
		return fmt.Errorf("offset cannot be negative")
	}
	return nil
}

// SearchResults contains a page of matches with pagination metadata.
type SearchResults struct {
	Items []models.Item `json:"items"`

	// Total is the full match count regardless of limit/offset.
	Total int `json:"total"`

	// HasMore indicates whether more results exist beyond this page.
	// Equivalent to: (Offset + len(Items)) < Total
	HasMore bool `json:"has_more"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// NewSearchResults creates a SearchResults with the HasMore flag computed.
func NewSearchResults(items []models.Item, total int, opts *SearchOptions) *SearchResults {
	return &SearchResults{
		Items:   items,
		Total:   total,
		HasMore: (opts.Offset + len(items)) < total,
		Offset:  opts.Offset,
		Limit:   opts.Limit,
	}
}
