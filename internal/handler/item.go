package handler

import (
	"log/slog"
	"net/http"

	"packrat/internal/domain/services"
	"packrat/internal/httputil"
)

// ItemHandler handles item HTTP requests
type ItemHandler struct {
	itemService services.ItemService
	logger      *slog.Logger
}

// NewItemHandler creates a new item handler
func NewItemHandler(itemService services.ItemService, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{
		itemService: itemService,
		logger:      logger,
	}
}

// updateItemBody is the wire form of an item PATCH. Description uses
// OptionalString because null clears it; name and quantity are required on
// the resource, so null is rejected for them.
type updateItemBody struct {
	Name        httputil.OptionalString `json:"name"`
	Description httputil.OptionalString `json:"description"`
	Quantity    *int                    `json:"quantity"`
	LocationID  *string                 `json:"location_id"`
}

// CreateItem creates a new item
// POST /api/items
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var req services.CreateItemRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.itemService.CreateItem(r.Context(), ownerID, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, item)
}

// GetItem retrieves an item by id
// GET /api/items/{id}
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "item id is required")
		return
	}

	item, err := h.itemService.GetItem(r.Context(), ownerID, id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, item)
}

// UpdateItem applies a partial update to an item
// PATCH /api/items/{id}
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "item id is required")
		return
	}

	var body updateItemBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if body.Name.Present && body.Name.Value == nil {
		httputil.RespondError(w, http.StatusBadRequest, "name cannot be null")
		return
	}

	req := services.UpdateItemRequest{
		Name: body.Name.Value,
		Description: services.OptionalDescription{
			Present: body.Description.Present,
			Value:   body.Description.Value,
		},
		Quantity:   body.Quantity,
		LocationID: body.LocationID,
	}

	item, err := h.itemService.UpdateItem(r.Context(), ownerID, id, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, item)
}

// DeleteItem removes an item
// DELETE /api/items/{id}
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "item id is required")
		return
	}

	if err := h.itemService.DeleteItem(r.Context(), ownerID, id); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
