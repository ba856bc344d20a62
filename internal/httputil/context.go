package httputil

import (
	"context"
	"net/http"
)

// Context key type to avoid collisions
type contextKey string

const ownerIDKey contextKey = "ownerID"

// WithOwnerID adds the authenticated owner id to the request context
func WithOwnerID(r *http.Request, ownerID int64) *http.Request {
	ctx := context.WithValue(r.Context(), ownerIDKey, ownerID)
	return r.WithContext(ctx)
}

// GetOwnerID retrieves the owner id from the request context.
// The second return value is false when no authenticated owner is present.
func GetOwnerID(r *http.Request) (int64, bool) {
	ownerID, ok := r.Context().Value(ownerIDKey).(int64)
	return ownerID, ok
}
