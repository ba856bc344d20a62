package handler

import (
	"log/slog"
	"net/http"

	"packrat/internal/domain/services"
	"packrat/internal/httputil"
)

// LocationHandler handles storage-location HTTP requests
type LocationHandler struct {
	locationService services.LocationService
	itemService     services.ItemService
	logger          *slog.Logger
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(locationService services.LocationService, itemService services.ItemService, logger *slog.Logger) *LocationHandler {
	return &LocationHandler{
		locationService: locationService,
		itemService:     itemService,
		logger:          logger,
	}
}

// updateLocationBody is the wire form of a location PATCH. Tri-state fields
// use OptionalString so "absent", "null" and "value" stay distinguishable.
type updateLocationBody struct {
	Name     httputil.OptionalString `json:"name"`
	ParentID httputil.OptionalString `json:"parent_id"`
}

// CreateLocation creates a new location
// POST /api/locations
func (h *LocationHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var req services.CreateLocationRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	location, err := h.locationService.CreateLocation(r.Context(), ownerID, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, location)
}

// ListLocations lists root locations, or the immediate children of
// ?parent_id=. Lets the client load the tree one level at a time instead of
// fetching the whole thing.
// GET /api/locations
func (h *LocationHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var parentID *string
	if raw := r.URL.Query().Get("parent_id"); raw != "" {
		parentID = &raw
	}

	locations, err := h.locationService.GetChildren(r.Context(), ownerID, parentID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"locations": locations,
	})
}

// GetLocation retrieves a location with its materialized breadcrumbs
// GET /api/locations/{id}
func (h *LocationHandler) GetLocation(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "location id is required")
		return
	}

	location, err := h.locationService.GetLocation(r.Context(), ownerID, id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, location)
}

// UpdateLocation renames and/or moves a location
// PATCH /api/locations/{id}
func (h *LocationHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "location id is required")
		return
	}

	var body updateLocationBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Name is required on the resource, so an explicit null is meaningless.
	if body.Name.Present && body.Name.Value == nil {
		httputil.RespondError(w, http.StatusBadRequest, "name cannot be null")
		return
	}

	req := services.UpdateLocationRequest{
		Name: body.Name.Value,
		ParentID: services.OptionalParent{
			Present: body.ParentID.Present,
			Value:   body.ParentID.Value,
		},
	}

	location, err := h.locationService.UpdateLocation(r.Context(), ownerID, id, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, location)
}

// DeleteLocation deletes a location. Without ?force=true the delete is
// rejected with 409 when the location still has children or items; the 409
// body carries the cascade counts. With force the whole subtree and its
// items are removed and the impact is returned.
// DELETE /api/locations/{id}
func (h *LocationHandler) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "location id is required")
		return
	}

	force := r.URL.Query().Get("force") == "true"

	impact, err := h.locationService.DeleteLocation(r.Context(), ownerID, id, force)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, impact)
}

// GetTree returns the owner's full location tree with per-location item counts
// GET /api/locations/tree
func (h *LocationHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	tree, err := h.locationService.GetTree(r.Context(), ownerID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tree)
}

// ListItems lists the items stored directly at a location
// GET /api/locations/{id}/items
func (h *LocationHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "location id is required")
		return
	}

	items, err := h.itemService.ListByLocation(r.Context(), ownerID, id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
	})
}
