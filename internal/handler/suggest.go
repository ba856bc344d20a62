package handler

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"packrat/internal/config"
	"packrat/internal/httputil"
	"packrat/internal/suggest"
)

// SuggestHandler turns free-text notes and photos into item drafts via a
// model call.
type SuggestHandler struct {
	suggester suggest.Suggester
	logger    *slog.Logger
}

// NewSuggestHandler creates a new suggest handler. The suggester may be nil
// when no API key is configured; the endpoint then reports 503.
func NewSuggestHandler(suggester suggest.Suggester, logger *slog.Logger) *SuggestHandler {
	return &SuggestHandler{
		suggester: suggester,
		logger:    logger,
	}
}

type suggestBody struct {
	Text     string `json:"text,omitempty"`
	Image    string `json:"image,omitempty"` // base64-encoded photo
	MIMEType string `json:"mime_type,omitempty"`
}

// Suggest proposes item drafts from a free-text note, a photo, or both.
// Drafts are not persisted; the client creates chosen ones through
// POST /api/items.
// POST /api/suggest
func (h *SuggestHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireOwner(w, r); !ok {
		return
	}

	if h.suggester == nil {
		httputil.RespondError(w, http.StatusServiceUnavailable, "suggestions are not configured")
		return
	}

	var body suggestBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in := suggest.Input{
		Text: strings.TrimSpace(body.Text),
	}
	if len(in.Text) > config.MaxSuggestTextLength {
		httputil.RespondError(w, http.StatusBadRequest, "text is too long")
		return
	}

	if body.Image != "" {
		image, err := base64.StdEncoding.DecodeString(body.Image)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "image must be base64 encoded")
			return
		}
		if len(image) > config.MaxSuggestImageBytes {
			httputil.RespondError(w, http.StatusBadRequest, "image is too large")
			return
		}
		in.Image = image
		in.ImageMIME = body.MIMEType
	}

	if err := in.Validate(); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	drafts, err := h.suggester.SuggestItems(r.Context(), in)
	if err != nil {
		h.logger.Error("suggestion failed", "error", err)
		httputil.RespondError(w, http.StatusBadGateway, "suggestion service failed")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"drafts": drafts,
	})
}
