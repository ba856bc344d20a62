package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors - match with errors.Is()
var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrValidation       = errors.New("validation failed")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrUnauthorized     = errors.New("unauthorized")
)

// DeleteConflictError is returned when a non-forced delete hits a location
// that still has children or items. It carries the cascade impact so the
// caller can show the user what a forced delete would remove.
type DeleteConflictError struct {
	LocationID           string
	ChildCount           int
	ItemCount            int
	TotalDescendantItems int
}

func (e *DeleteConflictError) Error() string {
	return fmt.Sprintf("location %s is not empty: %d subfolders, %d items (%d items in subtree)",
		e.LocationID, e.ChildCount, e.ItemCount, e.TotalDescendantItems)
}

// Is allows errors.Is() to match against ErrConflict
func (e *DeleteConflictError) Is(target error) bool {
	return target == ErrConflict
}
