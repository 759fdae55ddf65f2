// Package ai provides helpers shared by chat clients: response parsing and refusal detection.
package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fairyhunter13/ai-resume-screener/internal/domain"
)

var (
	// ErrNoJSONObject is returned when a response contains no opening brace.
	ErrNoJSONObject = errors.New("no json object in response")
	// ErrUnterminatedJSON is returned when braces never balance.
	ErrUnterminatedJSON = errors.New("unterminated json object")
)

// FirstJSONObject returns the first balanced {...} object in text. Prose before
// and after the object is ignored. Braces inside JSON string literals do not
// count towards the depth.
func FirstJSONObject(text string) ([]byte, error) {
	start := strings.IndexByte(text, '{')
	if start == -1 {
		if LooksLikeRefusal(text) {
			return nil, fmt.Errorf("%w: %w: model refused: %q", domain.ErrSchemaInvalid, ErrNoJSONObject, snippet(text, 120))
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrSchemaInvalid, ErrNoJSONObject)
	}
	depth := 0
	inString, escaped := false, false
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
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				raw := []byte(text[start : i+1])
				if !json.Valid(raw) {
					return nil, fmt.Errorf("%w: malformed object: %q", domain.ErrSchemaInvalid, snippet(string(raw), 120))
				}
				return raw, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %w", domain.ErrSchemaInvalid, ErrUnterminatedJSON)
}

var refusalMarkers = []string{
	"i'm sorry", "i am sorry", "i cannot", "i can't", "i'm unable", "i am unable",
	"i apologize", "i'm afraid", "as an ai",
}

// LooksLikeRefusal reports whether text reads like a model refusing the task.
func LooksLikeRefusal(text string) bool {
	lower := strings.ToLower(text)
	for _, m := range refusalMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

func snippet(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
