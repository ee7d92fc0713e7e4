// Package llmjson extracts structured values from LLM agent responses.
//
// Upstream agents wrap JSON in explanatory prose, markdown code fences, or
// trailing commentary. Parse tolerates that decoration but fails closed: it
// never repairs malformed JSON, and it performs no schema validation. Every
// field of a parsed value is untrusted; callers read fields through Value's
// optional-with-default accessors.
package llmjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON is returned when no decodable structured value can be located in
// the response text.
var ErrNoJSON = errors.New("no structured value found in response")

// Parse extracts a structured value from raw agent output.
// It tries, in order: the text as-is, the text with a single surrounding code
// fence stripped, and the outermost balanced {...} or [...] span. Each
// candidate is decoded strictly; on total failure it returns ErrNoJSON rather
// than guessing at semantics.
func Parse(raw string) (Value, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Value{}, fmt.Errorf("empty response: %w", ErrNoJSON)
	}

	candidates := []string{s}

	if stripped := stripCodeFence(s); stripped != s {
		candidates = append(candidates, stripped)
	}

	// Locate embedded spans in the fence-stripped text so prose before or
	// after the structure does not defeat extraction. When both an object and
	// an array span exist, the one starting earlier is the outermost value.
	base := stripCodeFence(s)
	objSpan := balancedSpan(base, '{', '}')
	arrSpan := balancedSpan(base, '[', ']')
	if arrSpan != "" && (objSpan == "" || strings.IndexByte(base, '[') < strings.IndexByte(base, '{')) {
		candidates = append(candidates, arrSpan, objSpan)
	} else {
		candidates = append(candidates, objSpan, arrSpan)
	}

	for _, candidate := range candidates {
		var v interface{}
		if err := json.Unmarshal([]byte(candidate), &v); err == nil {
			switch v.(type) {
			case map[string]interface{}, []interface{}:
				return Of(v), nil
			}
		}
	}

	return Value{}, fmt.Errorf("unparseable response (%d bytes): %w", len(raw), ErrNoJSON)
}

// stripCodeFence removes a single markdown code fence wrapping the text.
// Handles ```json, bare ```, and other language specifiers on the opening
// fence. Text that is not fenced is returned unchanged.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	body := s[3:]
	// Drop the language specifier up to the first newline.
	if idx := strings.IndexByte(body, '\n'); idx >= 0 {
		body = body[idx+1:]
	} else {
		return s
	}

	end := strings.LastIndex(body, "```")
	if end == -1 {
		return s
	}
	return strings.TrimSpace(body[:end])
}

// balancedSpan returns the first outermost balanced span delimited by open and
// close, respecting JSON string literals and escapes. Returns "" if no
// balanced span exists.
func balancedSpan(s string, open, close byte) string {
	start := strings.IndexByte(s, open)
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case !inString && c == open:
			depth++
		case !inString && c == close:
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}

	return ""
}
