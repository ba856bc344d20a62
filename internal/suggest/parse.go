package suggest

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseDrafts parses a model response into item drafts. Models sometimes wrap
// JSON in a markdown code fence despite instructions, so fences are stripped
// before decoding.
func ParseDrafts(raw string) ([]Draft, error) {
	cleaned := stripFences(strings.TrimSpace(raw))
	if cleaned == "" {
		return nil, fmt.Errorf("empty model response")
	}

	var drafts []Draft
	if err := json.Unmarshal([]byte(cleaned), &drafts); err != nil {
		return nil, fmt.Errorf("parse model response: %w", err)
	}

	out := make([]Draft, 0, len(drafts))
	for _, d := range drafts {
		d.Name = strings.TrimSpace(d.Name)
		if d.Name == "" {
			continue
		}
		if d.Quantity < 1 {
			d.Quantity = 1
		}
		out = append(out, d)
	}
	return out, nil
}

func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop an optional language tag on the opening fence line.
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		first := strings.TrimSpace(s[:idx])
		if first == "json" || first == "" {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
