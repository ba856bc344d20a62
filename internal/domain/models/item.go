package models

import (
	"time"
)

// Item is a physical thing stored at exactly one location. Items are leaves;
// they have no children.
type Item struct {
	ID          string    `json:"id" db:"id"`
	OwnerID     int64     `json:"owner_id" db:"owner_id"`
	LocationID  string    `json:"location_id" db:"location_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	Quantity    int       `json:"quantity" db:"quantity"` // >= 1
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
