package analyses

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeModelOutput recovers a JSON object from raw model text. Models wrap
// their output in markdown fences or surround it with prose often enough that
// a bare json.Unmarshal is not good enough in practice.
//
// Recovery order: strip code fences, try a direct parse, then fall back to
// the substring between the first '{' and the last '}'.
func DecodeModelOutput(raw string) (map[string]any, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, ErrEmptyOutput
	}

	text = stripFences(text)

	var decoded map[string]any
	if err := json.Unmarshal([]byte(text), &decoded); err == nil {
		return decoded, nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(text[start:end+1]), &decoded); err == nil {
			return decoded, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrInvalidModelOutput, snippet(raw))
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 && !strings.ContainsAny(s[:idx], "{}") {
		// Drop the language tag line ("json", "JSON", or empty).
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func snippet(s string) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) > 120 {
		return string(runes[:120]) + "..."
	}
	return s
}
