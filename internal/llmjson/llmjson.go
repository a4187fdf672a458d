// Package llmjson extracts a JSON value from free-form language-model
// output that may wrap it in commentary or markdown code fences.
//
// Extraction is best-effort and non-authoritative: callers must treat a
// miss as an expected outcome and supply their own fallback value.
package llmjson

import (
	"encoding/json"
	"strings"
)

// Extract attempts, in order: a ```json fenced block, the first balanced
// {...} span, the first balanced [...] span. The first pattern that matches
// is validated as JSON. Returns (nil, false) when nothing parses; never
// returns an error.
func Extract(text string) (json.RawMessage, bool) {
	for _, candidate := range []string{
		fencedBlock(text),
		balancedSpan(text, '{', '}'),
		balancedSpan(text, '[', ']'),
	} {
		if candidate == "" {
			continue
		}
		raw := json.RawMessage(candidate)
		if json.Valid(raw) {
			return raw, true
		}
		// First matching pattern wins or loses; no second guesses.
		return nil, false
	}
	return nil, false
}

// Unmarshal extracts a JSON value from text and decodes it into v.
// Returns false when extraction or decoding fails.
func Unmarshal(text string, v any) bool {
	raw, ok := Extract(text)
	if !ok {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

// fencedBlock returns the body of the first ```json code fence, or "".
func fencedBlock(text string) string {
	const marker = "```json"
	start := strings.Index(text, marker)
	if start < 0 {
		return ""
	}
	rest := text[start+len(marker):]
	end := strings.Index(rest, "```")
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(rest[:end])
}

// balancedSpan returns the first top-level open...close span in text,
// tracking JSON string literals so braces inside strings don't count.
func balancedSpan(text string, open, close byte) string {
	start := strings.IndexByte(text, open)
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
