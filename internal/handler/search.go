package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"packrat/internal/domain/services"
	"packrat/internal/httputil"
)

// SearchHandler handles item search requests
type SearchHandler struct {
	searchService services.SearchService
	logger        *slog.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService services.SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		logger:        logger,
	}
}

// Search finds items by name. ?location_id scopes the search to that
// location's subtree; an empty ?q lists everything in scope.
// GET /api/search?q=...&location_id=...&limit=...&offset=...
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()

	opts := services.SearchOptions{
		Query: query.Get("q"),
	}

	if locationID := query.Get("location_id"); locationID != "" {
		opts.LocationID = &locationID
	}

	if rawLimit := query.Get("limit"); rawLimit != "" {
		limit, err := strconv.Atoi(rawLimit)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		opts.Limit = limit
	}

	if rawOffset := query.Get("offset"); rawOffset != "" {
		offset, err := strconv.Atoi(rawOffset)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "offset must be an integer")
			return
		}
		opts.Offset = offset
	}

	results, err := h.searchService.SearchItems(r.Context(), ownerID, &opts)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, results)
}
