package pipeline

import (
	"github.com/tidwall/gjson"

	"github.com/fairyhunter13/ai-resume-screener/internal/domain"
)

// CheckConsistency validates the resume, job and final evaluation JSON objects
// against each other. It is pure and advisory: callers log and count the
// report but never fail a resume because of it. Empty inputs skip their section.
func CheckConsistency(resumeJSON, jobJSON, evaluationJSON []byte) domain.ValidationReport {
	rep := domain.ValidationReport{
		ResumeValidation:     map[string]bool{},
		JobValidation:        map[string]bool{},
		EvaluationValidation: map[string]bool{},
		CrossValidation:      map[string]bool{},
	}
	resume, hasResume := parseObject(resumeJSON)
	job, hasJob := parseObject(jobJSON)
	eval, hasEval := parseObject(evaluationJSON)

	if hasResume {
		name := resume.Get("candidate_name")
		rep.ResumeValidation = map[string]bool{
			"has_name":         truthy(name) && name.String() != domain.UnknownCandidate,
			"has_experience":   resume.Get("years_experience").Exists(),
			"has_skills":       truthy(resume.Get("skills.technical")) || truthy(resume.Get("skills.soft")),
			"has_education":    truthy(resume.Get("education")),
			"has_work_history": truthy(resume.Get("work_history")),
		}
	}
	if hasJob {
		rep.JobValidation = map[string]bool{
			"has_title":            truthy(job.Get("Role Information.Job Title")),
			"has_requirements":     truthy(job.Get("Skills and Competencies.Must-have Technical Skills")),
			"has_experience_req":   truthy(job.Get("Experience Requirements.Years of Experience")),
			"has_responsibilities": truthy(job.Get("Key Responsibilities.Primary Duties and Accountabilities")),
		}
	}
	if hasEval {
		rep.EvaluationValidation = map[string]bool{
			"has_score":               eval.Get("overall_score").Type == gjson.Number,
			"has_tag":                 truthy(eval.Get("qualification_tag")),
			"has_category_scores":     truthy(eval.Get("category_scores")),
			"has_strengths":           truthy(eval.Get("strengths")),
			"has_recommendations":     truthy(eval.Get("recommendations")),
			"has_interview_questions": truthy(eval.Get("interview_questions")),
		}
	}
	if hasResume && hasEval {
		score := eval.Get("overall_score").Float()
		rn, en := resume.Get("candidate_name"), eval.Get("candidate_name")
		rep.CrossValidation = map[string]bool{
			"name_consistency": rn.Exists() == en.Exists() && rn.String() == en.String(),
			"score_range":      score >= 0 && score <= 100,
			"tag_validity":     domain.ValidTag(eval.Get("qualification_tag").String()),
		}
	}

	rep.OverallStatus = overallStatus(rep)
	return rep
}

// CheckFinal validates a finished pipeline run. Presence predicates read the
// quality review JSON as the model returned it; cross-checks read final, which
// carries the resolved tag and any name fallback.
func CheckFinal(resumeJSON, jobJSON, reviewJSON []byte, final domain.EvaluationResult) domain.ValidationReport {
	rep := CheckConsistency(resumeJSON, jobJSON, reviewJSON)
	if resume, ok := parseObject(resumeJSON); ok {
		rep.CrossValidation = map[string]bool{
			"name_consistency": resume.Get("candidate_name").String() == final.CandidateName,
			"score_range":      final.OverallScore >= 0 && final.OverallScore <= 100,
			"tag_validity":     domain.ValidTag(final.QualificationTag),
		}
	}
	rep.OverallStatus = overallStatus(rep)
	return rep
}

func overallStatus(rep domain.ValidationReport) string {
	for _, sec := range []map[string]bool{rep.ResumeValidation, rep.JobValidation, rep.EvaluationValidation, rep.CrossValidation} {
		for _, ok := range sec {
			if !ok {
				return domain.ValidationFailure
			}
		}
	}
	return domain.ValidationPass
}

func parseObject(b []byte) (gjson.Result, bool) {
	if len(b) == 0 || !gjson.ValidBytes(b) {
		return gjson.Result{}, false
	}
	r := gjson.ParseBytes(b)
	if !r.IsObject() || len(r.Map()) == 0 {
		return gjson.Result{}, false
	}
	return r, true
}

// truthy mirrors JSON truthiness: present, not null, not false, not zero, not empty.
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.Null:
		return false
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		return r.Str != ""
	case gjson.JSON:
		if r.IsArray() {
			return len(r.Array()) > 0
		}
		return len(r.Map()) > 0
	}
	return false
}
