package suggest

import (
	"context"
	"errors"
)

// DraftPrompt is the shared system prompt used by all suggestion adapters.
const DraftPrompt = `You turn a short free-text note, a photo of physical belongings,
or both into structured inventory item drafts. Respond with ONLY a JSON array, no prose.
Each element: {"name": string, "description": string, "quantity": integer >= 1}.
Keep names short (a few words). Omit nothing mentioned or visible; invent nothing extra.
If there are no concrete items, respond with [].`

// Suggester proposes item drafts from a free-text note and/or a photo.
type Suggester interface {
	SuggestItems(ctx context.Context, in Input) ([]Draft, error)
}

// Input carries what the user provided. At least one of Text and Image must
// be set; when both are, the text steers how the photo is read.
type Input struct {
	Text      string
	Image     []byte // raw image bytes, not base64
	ImageMIME string
}

// Validate checks that the input can produce drafts at all.
func (in Input) Validate() error {
	if in.Text == "" && len(in.Image) == 0 {
		return errors.New("either text or an image is required")
	}
	return nil
}

// Draft is a proposed inventory item. Drafts are not persisted; the client
// reviews them and creates real items through the normal item endpoints.
type Draft struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Quantity    int    `json:"quantity"`
}
