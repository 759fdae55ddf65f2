package pipeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/fairyhunter13/ai-resume-screener/internal/domain"
)

var (
	yearsRangeRe  = regexp.MustCompile(`(\d+)[\s\-to]+(\d+)\s*(?:years?|yrs?)`)
	yearsSingleRe = regexp.MustCompile(`(\d+)\+?\s*(?:years?|yrs?)`)
	entryLevelRe  = regexp.MustCompile(`fresh|graduate|entry|junior|new`)
)

// Advisory is a deterministic cross-check of the model's experience and skills scores.
// It is logged next to the model output and never overrides it.
type Advisory struct {
	ExperienceScore  int    `json:"experience_score"`
	ExperienceReason string `json:"experience_reason"`
	SkillScore       int    `json:"skill_score"`
	SkillReason      string `json:"skill_reason"`
}

// yearsSpec is a parsed experience statement: a single value or an inclusive range.
type yearsSpec struct {
	min, max int
	isRange  bool
}

func parseYears(text string) (yearsSpec, bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return yearsSpec{}, false
	}
	if m := yearsRangeRe.FindStringSubmatch(t); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		return yearsSpec{min: lo, max: hi, isRange: true}, true
	}
	if m := yearsSingleRe.FindStringSubmatch(t); m != nil {
		n, _ := strconv.Atoi(m[1])
		return yearsSpec{min: n, max: n}, true
	}
	if entryLevelRe.MatchString(t) {
		return yearsSpec{}, true
	}
	return yearsSpec{}, false
}

// ExperienceScore rates candidate experience against a requirement such as
// "3-5 years", "5+ years" or "entry level".
func ExperienceScore(candidate, required string) (int, string) {
	cand, okC := parseYears(candidate)
	req, okR := parseYears(required)
	if !okC || !okR {
		return 50, "Unable to determine experience requirements clearly"
	}
	years := cand.min
	if req.isRange {
		switch {
		case years < req.min:
			return max(20, 60-(req.min-years)*10), fmt.Sprintf("Candidate has %d years, but minimum %d years required", years, req.min)
		case years <= req.max:
			return 90, fmt.Sprintf("Perfect experience match: %d years within required range", years)
		case years > req.max+5:
			return 75, fmt.Sprintf("Overqualified: %d years significantly exceeds requirement", years)
		default:
			return 95, fmt.Sprintf("Excellent experience: %d years exceeds requirement appropriately", years)
		}
	}
	switch {
	case years < req.min:
		return max(25, 70-(req.min-years)*8), fmt.Sprintf("Below requirement: %d vs %d years needed", years, req.min)
	case years == req.min:
		return 90, fmt.Sprintf("Exact match: %d years experience", years)
	case years > req.min+8:
		return 80, fmt.Sprintf("Significantly overqualified: %d vs %d years", years, req.min)
	default:
		return 95, fmt.Sprintf("Above requirement: %d years exceeds %d years needed", years, req.min)
	}
}

// SkillMatchScore weighs containment matches at 80 and word-overlap matches at 40, capped at 100.
func SkillMatchScore(candidate, required []string) (int, string) {
	if len(candidate) == 0 || len(required) == 0 {
		return 40, "Insufficient skill information provided"
	}
	cands := make([]string, len(candidate))
	for i, s := range candidate {
		cands[i] = strings.ToLower(s)
	}
	exact, partial := 0, 0
	for _, r := range required {
		req := strings.ToLower(r)
		matched := false
		for _, c := range cands {
			if strings.Contains(c, req) || strings.Contains(req, c) {
				matched = true
				break
			}
		}
		if matched {
			exact++
			continue
		}
		for _, c := range cands {
			if jaccard(req, c) > 0.7 {
				partial++
				break
			}
		}
	}
	total := float64(len(required))
	score := min(100, float64(exact)/total*80+float64(partial)/total*40)

	label := "Limited"
	switch ratio := float64(exact+partial) / total; {
	case ratio >= 0.8:
		label = "Excellent"
	case ratio >= 0.6:
		label = "Good"
	case ratio >= 0.4:
		label = "Moderate"
	}
	return int(score), fmt.Sprintf("%s skill match: %d exact + %d partial matches", label, exact, partial)
}

func jaccard(a, b string) float64 {
	wa, wb := wordSet(a), wordSet(b)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}
	inter := 0
	for w := range wa {
		if _, ok := wb[w]; ok {
			inter++
		}
	}
	return float64(inter) / float64(len(wa)+len(wb)-inter)
}

func wordSet(s string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, w := range strings.Fields(s) {
		out[w] = struct{}{}
	}
	return out
}

// Advise computes the advisory scores from the extracted resume and job records.
func Advise(resume *domain.ResumeRecord, job *domain.JobRequirement) Advisory {
	if resume == nil || job == nil {
		return Advisory{}
	}
	var required string
	if y := job.ExperienceRequirements.YearsOfExperience; y != nil && y.Minimum != nil {
		required = requirementText(y.Minimum)
	}
	var a Advisory
	a.ExperienceScore, a.ExperienceReason = ExperienceScore(fmt.Sprintf("%d years", resume.YearsExperience), required)
	a.SkillScore, a.SkillReason = SkillMatchScore(resume.Skills.Technical, job.SkillsAndCompetencies.MustHave)
	return a
}

func requirementText(v any) string {
	switch x := v.(type) {
	case float64:
		return fmt.Sprintf("%d years", int(x))
	case string:
		if _, err := strconv.Atoi(strings.TrimSpace(x)); err == nil {
			return strings.TrimSpace(x) + " years"
		}
		return x
	}
	return ""
}
