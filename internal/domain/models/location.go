package models

import (
	"time"
)

// Location is a single storage location owned by one user. Locations form a
// tree via ParentID; PathIDs/PathNames/Depth are the materialized root-to-self
// path kept in sync by the location service on every structural change.
type Location struct {
	ID        string    `json:"id" db:"id"`
	OwnerID   int64     `json:"owner_id" db:"owner_id"`
	ParentID  *string   `json:"parent_id" db:"parent_id"` // NULL = root level
	Name      string    `json:"name" db:"name"`
	PathIDs   []string  `json:"path_ids" db:"path_ids"`     // root..self, last element == ID
	PathNames []string  `json:"path_names" db:"path_names"` // root..self, last element == Name
	Depth     int       `json:"depth" db:"depth"`           // 0 for roots, len(PathIDs)-1
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DeleteImpact describes what a cascading delete of a location would remove.
type DeleteImpact struct {
	ChildCount           int `json:"child_count"`            // immediate child locations
	ItemCount            int `json:"item_count"`             // items directly at the location
	TotalDescendantItems int `json:"total_descendant_items"` // items at the location plus its whole subtree
}

// Empty reports whether a non-forced delete may proceed.
func (i DeleteImpact) Empty() bool {
	return i.ChildCount == 0 && i.ItemCount == 0
}
