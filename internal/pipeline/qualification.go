package pipeline

import (
	"strings"

	"github.com/fairyhunter13/ai-resume-screener/internal/domain"
)

const (
	qualifiedMinScore    = 70
	notQualifiedMaxScore = 60
)

// ResolveTag applies the qualification rule to a scored evaluation:
//
//	any Critical requirement unmet, or score < 60  -> NOT QUALIFIED
//	model said OVERQUALIFIED                       -> OVERQUALIFIED
//	score >= 70                                    -> QUALIFIED
//	60 <= score < 70 with all Critical met         -> NOT QUALIFIED
func ResolveTag(score int, modelTag string, criticalUnmet []string) string {
	if hasEntries(criticalUnmet) || score < notQualifiedMaxScore {
		return domain.TagNotQualified
	}
	if normalizeTag(modelTag) == domain.TagOverqualified {
		return domain.TagOverqualified
	}
	if score >= qualifiedMinScore {
		return domain.TagQualified
	}
	return domain.TagNotQualified
}

func normalizeTag(tag string) string {
	t := strings.ToUpper(strings.TrimSpace(tag))
	t = strings.ReplaceAll(t, "_", " ")
	return strings.Join(strings.Fields(t), " ")
}

func hasEntries(xs []string) bool {
	for _, x := range xs {
		if s := strings.ToLower(strings.TrimSpace(x)); s != "" && s != "none" && s != "n/a" {
			return true
		}
	}
	return false
}
