package claude

import (
	"context"
	"fmt"
	"log/slog"

	"packrat/internal/suggest"

	"github.com/liushuangls/go-anthropic/v2"
)

// Suggester implements suggest.Suggester using the Anthropic Messages API.
type Suggester struct {
	client *anthropic.Client
	model  anthropic.Model
	logger *slog.Logger
}

func NewSuggester(apiKey, model string, logger *slog.Logger) *Suggester {
	return &Suggester{
		client: anthropic.NewClient(apiKey),
		model:  anthropic.Model(model),
		logger: logger,
	}
}

// buildMessage assembles the user turn: an optional image block followed by
// an optional text block.
func buildMessage(in suggest.Input) anthropic.Message {
	var content []anthropic.MessageContent

	if len(in.Image) > 0 {
		content = append(content, anthropic.NewImageMessageContent(
			anthropic.NewMessageContentSource(
				anthropic.MessagesContentSourceTypeBase64,
				normaliseMIME(in.ImageMIME),
				in.Image,
			),
		))
	}
	if in.Text != "" {
		content = append(content, anthropic.NewTextMessageContent(in.Text))
	}

	return anthropic.Message{
		Role:    anthropic.RoleUser,
		Content: content,
	}
}

func (s *Suggester) SuggestItems(ctx context.Context, in suggest.Input) ([]suggest.Draft, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	resp, err := s.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:    s.model,
		System:   suggest.DraftPrompt,
		Messages: []anthropic.Message{buildMessage(in)},
		// A draft is ~25 tokens; 1024 covers a long note or a full shelf
		// photo with headroom.
		MaxTokens: 1024,
	})
	if err != nil {
		return nil, fmt.Errorf("call anthropic: %w", err)
	}

	raw := resp.GetFirstContentText()
	drafts, err := suggest.ParseDrafts(raw)
	if err != nil {
		s.logger.Warn("model returned unparseable drafts", "error", err, "raw", raw)
		return nil, err
	}

	return drafts, nil
}

// normaliseMIME maps browser MIME types to the values the Anthropic API
// accepts. The API takes only jpeg, png, gif, and webp; unknown types are
// coerced to jpeg as the most universally supported lossy fallback.
func normaliseMIME(mimeType string) string {
	switch mimeType {
	case "image/png", "image/gif", "image/webp":
		return mimeType
	default:
		return "image/jpeg"
	}
}
