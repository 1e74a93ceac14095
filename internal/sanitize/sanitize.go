// Package sanitize extracts a structured JSON payload from raw model output.
//
// Model responses are supposed to be a single JSON object, but in practice
// they arrive wrapped in markdown code fences or padded with whitespace.
// Sanitize strips one layer of fencing and then requires the remainder to be
// strictly valid JSON. Broken JSON syntax (missing commas, unquoted text) is
// a prompt-contract violation and surfaces as ErrMalformedResponse rather
// than being repaired here.
package sanitize

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedResponse indicates the model output could not be parsed as JSON.
var ErrMalformedResponse = errors.New("malformed model response")

// maxExcerptLen bounds the amount of offending text carried in errors.
const maxExcerptLen = 300

// Sanitize trims raw model output, strips a surrounding markdown code fence
// if present, and strictly parses the result as JSON. The returned bytes are
// the unfenced payload, re-serialized in canonical form.
func Sanitize(raw string) (json.RawMessage, error) {
	candidate := strings.TrimSpace(raw)
	if stripped := stripCodeFence(candidate); stripped != "" {
		candidate = stripped
	}
	if candidate == "" {
		return nil, fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}

	var parsed any
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, excerpt(candidate))
	}

	normalized, err := json.Marshal(parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize payload: %w", err)
	}
	return normalized, nil
}

// stripCodeFence returns the body of a markdown code fence that wraps the
// entire text, or "" if the text is not fenced. An optional language tag on
// the opening fence (```json) is discarded along with the fences. The closing
// fence may sit on its own line or trail the last line of the body.
func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return ""
	}

	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return ""
	}

	last := strings.TrimSpace(lines[len(lines)-1])
	if last == "```" {
		lines = lines[:len(lines)-1]
	} else if strings.HasSuffix(last, "```") {
		lines[len(lines)-1] = strings.TrimSuffix(last, "```")
	} else {
		return ""
	}

	// Drop the opening fence line (with any language tag).
	return strings.TrimSpace(strings.Join(lines[1:], "\n"))
}

// excerpt returns a bounded-length view of the offending text for error
// messages, so a runaway response never becomes an unbounded error payload.
func excerpt(text string) string {
	if len(text) > maxExcerptLen {
		return text[:maxExcerptLen] + "..."
	}
	return text
}
