package pipeline

import (
	"fmt"
	"strings"
)

const resumeExtractionTask = `Extract facts only from the resume below. Do not infer, expand or invent.

Return only a JSON object with exactly these fields:
{
  "candidate_name": "string",      // real name from the header or contact block, or "Unknown"
  "email": "string | null",
  "phone": "string | null",
  "years_experience": int,         // conservative; round down when ambiguous
  "skills": {"technical": [string], "soft": [string], "domain": [string]},
  "education": [{"degree": "string", "institution": "string", "grad_year": "string|null"}],
  "work_history": [{"company": "string", "title": "string", "start": "string", "end": "string|null"}],
  "certifications": [string]
}

Rules:
- Never use placeholders such as "John Doe", "Jane Smith" or "[Candidate Name]". If no name is visible use "Unknown".
- If several names appear, choose the contact header name.
- Keep original spelling, capitalization and date strings; prefer null or empty arrays over guesses.
- When total experience is ambiguous, round years_experience down.
- Arrays must exist even when empty.`

const jobExtractionTask = `Structure the requirements of the job description below. Do not add anything the text does not state or clearly imply.

Return only a JSON object with exactly these sections:
{
  "Role Information": {"Job Title": "string", "Level": "entry|mid|senior|executive|unspecified", "Department": "string", "Reporting Structure": "string", "Employment Type": "string", "Locations": ["string"]},
  "Experience Requirements": {"Years of Experience": {"Minimum": "string|number|unspecified", "Preferred": "string|number|unspecified"}, "Specific Industry Experience": ["string"], "Previous Role Requirements": ["string"]},
  "Skills and Competencies": {"Must-have Technical Skills": ["string"], "Nice-to-have Technical Skills": ["string"], "Required Soft Skills": ["string"], "Leadership/Management Requirements": ["string"]},
  "Education and Certifications": {"Degree Requirements": ["string"], "Preferred Certifications": ["string"], "Professional Licenses Needed": ["string"]},
  "Key Responsibilities": {"Primary Duties and Accountabilities": ["string"], "Success Metrics and KPIs": ["string"], "Team Size or Budget Responsibility": "string"},
  "Company and Culture": {"Company Size": "string", "Industry": "string", "Work Environment and Culture": ["string"], "Growth Opportunities": ["string"]},
  "Requirement Priority": {"Critical": ["string"], "Important": ["string"], "Preferred": ["string"]}
}

Critical means required to be eligible, Important is strongly weighted, Preferred is nice to have.
Do not infer unstated years of experience and keep ranges as written.`

const evaluationTask = `Score the candidate using only the structured resume and job analyses provided as context.

Return only a JSON object:
{
  "candidate_name": "name exactly as in the resume analysis",
  "overall_score": 0-100,
  "qualification_tag": "QUALIFIED | NOT QUALIFIED | OVERQUALIFIED",
  "category_scores": {"experience": int, "skills": int, "education": int, "achievements": int, "culture": int},
  "strengths": ["string"],
  "areas_of_concern": ["string"],
  "recommendations": "string",
  "critical_requirements_unmet": ["each Critical requirement the candidate does not satisfy"],
  "interview_questions": {"technical_questions": ["string"], "behavioral_questions": ["string"], "situational_questions": ["string"], "cultural_fit_questions": ["string"], "gap_assessment_questions": ["string"], "interview_duration": "string", "panel_composition": "string", "evaluation_criteria": "string"}
}

Scoring rules:
- Use only facts from the resume and job analyses. No outside knowledge or guessing.
- Experience: score alignment with the required years and scope, not raw magnitude. More years than required earns no extra credit.
- Skills: match against Critical, Important and Preferred requirements; an exact match scores above a related match, and a related match above a missing skill.
- Education: credit degree alignment; do not penalize a degree the job lists as preferred.
- Achievements: measurable outcomes, scale and complexity.
- Culture: only behaviour the resume evidences.

Tag rules:
- NOT QUALIFIED if any Critical requirement is unmet or overall_score < 60.
- QUALIFIED if every Critical requirement is met and overall_score >= 70.
- OVERQUALIFIED only if the evidence substantially exceeds the level and scope of the role with material role-mismatch risk.

Interview questions must stem from areas_of_concern and the Critical and Important requirements. No trivia and no generic rapport questions.
If the resume name is "Unknown", use "Unknown". Never reference protected attributes or school prestige unless the job explicitly requires it.`

const interviewDesignTask = `Design a targeted interview plan from the evaluation and the job priorities provided as context. Do not restate the resume and do not ask trivia.

Return only a JSON object:
{
  "strategy": "2-4 sentences",
  "technical_questions": ["6-8 items"],
  "behavioral_questions": ["4-6 STAR-ready items"],
  "situational_questions": ["3-5 items"],
  "cultural_fit_questions": ["3-4 items"],
  "gap_assessment_questions": ["3-5 items probing areas_of_concern"],
  "interview_duration": "string",
  "panel_composition": "string",
  "evaluation_criteria": "string"
}

Rules:
- Every question must come from the evaluation's areas_of_concern or the job's Critical and Important requirements.
- No generic rapport questions such as "tell me about yourself".
- Prefer scenario, system design and tradeoff questions with clear success signals.`

const qualityReviewTask = `Review all prior outputs provided as context and produce the final evaluation. Use the candidate's real name from the resume analysis (or "Unknown"), never a placeholder. Keep tags consistent with the scores and Critical requirements, merge the interview plan into interview_questions and remove any language about protected attributes.

Return only a JSON object:
{
  "candidate_name": "string",
  "overall_score": 0-100,
  "qualification_tag": "QUALIFIED | NOT QUALIFIED | OVERQUALIFIED",
  "category_scores": {"experience": int, "skills": int, "education": int, "achievements": int, "culture": int},
  "strengths": ["string"],
  "areas_of_concern": ["string"],
  "recommendations": "string",
  "critical_requirements_unmet": ["string"],
  "interview_questions": {"technical_questions": ["string"], "behavioral_questions": ["string"], "situational_questions": ["string"], "cultural_fit_questions": ["string"], "gap_assessment_questions": ["string"], "interview_duration": "string", "panel_composition": "string", "evaluation_criteria": "string"}
}`

var stageTasks = map[StageID]string{
	StageResumeExtraction: resumeExtractionTask,
	StageJobExtraction:    jobExtractionTask,
	StageEvaluation:       evaluationTask,
	StageInterviewDesign:  interviewDesignTask,
	StageQualityReview:    qualityReviewTask,
}

// contextLabels names each dependency block in user prompts.
var contextLabels = map[StageID]string{
	StageResumeExtraction: "RESUME ANALYSIS",
	StageJobExtraction:    "JOB ANALYSIS",
	StageEvaluation:       "EVALUATION",
	StageInterviewDesign:  "INTERVIEW PLAN",
}

// BuildUserPrompt renders the user message of stage id from the current state.
// Dependency outputs are embedded verbatim as read-only JSON context.
func BuildUserPrompt(id StageID, s *State, resumeText, jobText string) string {
	var b strings.Builder
	b.WriteString(stageTasks[id])
	b.WriteString("\n")
	for _, dep := range Dependencies[id] {
		fmt.Fprintf(&b, "\n%s (read-only context):\n%s\n", contextLabels[dep], s.Raw[dep])
	}
	switch id {
	case StageResumeExtraction:
		fmt.Fprintf(&b, "\nINPUT RESUME (raw text):\n%s\n", resumeText)
	case StageJobExtraction:
		fmt.Fprintf(&b, "\nRAW JOB DESCRIPTION:\n%s\n", jobText)
	}
	b.WriteString("\nReturn JSON only. No prose, no markdown.")
	return b.String()
}
