package pipeline

import (
	"path/filepath"
	"strings"

	"github.com/fairyhunter13/ai-resume-screener/internal/domain"
)

// placeholderNames are template names a model may echo instead of the real one.
// "Unknown" is the legitimate sentinel and is not listed.
var placeholderNames = map[string]struct{}{
	"john doe":                {},
	"jane smith":              {},
	"john smith":              {},
	"jane doe":                {},
	"[candidate name]":        {},
	"candidate":               {},
	"applicant":               {},
	"test user":               {},
	"sample candidate":        {},
	"example candidate":       {},
	"demo user":               {},
	"actual_name_from_resume": {},
	"actual_name":             {},
}

// IsPlaceholderName reports whether name is a known template placeholder.
func IsPlaceholderName(name string) bool {
	_, ok := placeholderNames[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// NameFromFilename derives a display name from a resume filename:
// the extension is dropped and '_' and '-' become spaces.
func NameFromFilename(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	base = strings.Join(strings.Fields(base), " ")
	if base == "" || base == "." {
		return domain.UnknownCandidate
	}
	return base
}
