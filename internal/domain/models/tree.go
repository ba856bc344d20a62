package models

// LocationTreeNode is a location in the nested tree with its children.
// Children at every level are sorted by name (ordinal byte order).
type LocationTreeNode struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	ParentID  *string             `json:"parent_id"`
	Depth     int                 `json:"depth"`
	ItemCount int                 `json:"item_count"` // items directly at this location
	Children  []*LocationTreeNode `json:"children"`   // pointers for proper nesting
}

// LocationTree is the root of a user's location tree.
type LocationTree struct {
	Locations []*LocationTreeNode `json:"locations"`
}
