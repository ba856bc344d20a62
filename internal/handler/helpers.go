package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"packrat/internal/domain"
	"packrat/internal/httputil"
)

// handleError maps domain errors to Problem Details responses. Anything not
// recognized becomes an opaque 500 so internal details never leak.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var conflict *domain.DeleteConflictError
	if errors.As(err, &conflict) {
		httputil.RespondErrorWithExtras(w, http.StatusConflict, conflict.Error(), map[string]interface{}{
			"child_count":            conflict.ChildCount,
			"item_count":             conflict.ItemCount,
			"total_descendant_items": conflict.TotalDescendantItems,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidOperation):
		httputil.RespondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	default:
		logger.Error("unhandled error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// requireOwner pulls the authenticated owner id from the request context.
// The auth middleware guarantees it for every /api route; a miss means a
// wiring bug, not a client error.
func requireOwner(w http.ResponseWriter, r *http.Request) (int64, bool) {
	ownerID, ok := httputil.GetOwnerID(r)
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "missing authentication")
		return 0, false
	}
	return ownerID, true
}
