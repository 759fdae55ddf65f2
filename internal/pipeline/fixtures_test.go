package pipeline_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-resume-screener/internal/credential"
	"github.com/fairyhunter13/ai-resume-screener/internal/domain"
	"github.com/fairyhunter13/ai-resume-screener/internal/domain/mocks"
	"github.com/fairyhunter13/ai-resume-screener/internal/pipeline"
)

const jobJSON = `{
 "Role Information": {"Job Title": "Backend Engineer", "Level": "mid", "Department": "Platform", "Reporting Structure": "Engineering Manager", "Employment Type": "Full-time", "Locations": ["Jakarta"]},
 "Experience Requirements": {"Years of Experience": {"Minimum": "3-5 years", "Preferred": 5}, "Specific Industry Experience": [], "Previous Role Requirements": []},
 "Skills and Competencies": {"Must-have Technical Skills": ["Go", "PostgreSQL"], "Nice-to-have Technical Skills": ["Kafka"], "Required Soft Skills": ["communication"], "Leadership/Management Requirements": []},
 "Education and Certifications": {"Degree Requirements": ["BSc Computer Science"], "Preferred Certifications": [], "Professional Licenses Needed": []},
 "Key Responsibilities": {"Primary Duties and Accountabilities": ["Build services"], "Success Metrics and KPIs": [], "Team Size or Budget Responsibility": "none"},
 "Company and Culture": {"Company Size": "200", "Industry": "Fintech", "Work Environment and Culture": [], "Growth Opportunities": []},
 "Requirement Priority": {"Critical": ["Go"], "Important": ["PostgreSQL"], "Preferred": ["Kafka"]}
}`

const interviewJSON = `{
 "strategy": "Probe distributed systems depth.",
 "technical_questions": ["Explain Go channels."],
 "behavioral_questions": ["Tell me about a conflict."],
 "situational_questions": ["A deploy fails at 2am."],
 "cultural_fit_questions": ["How do you give feedback?"],
 "gap_assessment_questions": ["Kafka experience?"],
 "interview_duration": "60 minutes",
 "panel_composition": "Two engineers",
 "evaluation_criteria": "Depth over breadth"
}`

func resumeJSON(name string) string {
	return fmt.Sprintf(`{"candidate_name": %q, "email": "alice@example.com", "phone": null, "years_experience": 4,
 "skills": {"technical": ["Go", "PostgreSQL"], "soft": ["communication"], "domain": []},
 "education": [{"degree": "BSc Computer Science", "institution": "ITB", "grad_year": "2018"}],
 "work_history": [{"company": "Acme", "title": "Engineer", "start": "2019", "end": null}],
 "certifications": []}`, name)
}

func evaluationJSON(name string, score int, tag string, unmet ...string) string {
	if unmet == nil {
		unmet = []string{}
	}
	list := "["
	for i, u := range unmet {
		if i > 0 {
			list += ","
		}
		list += fmt.Sprintf("%q", u)
	}
	list += "]"
	return fmt.Sprintf(`{"candidate_name": %q, "overall_score": %d, "qualification_tag": %q,
 "category_scores": {"experience": 80, "skills": 85, "education": 70, "achievements": 60, "culture": 75},
 "strengths": ["Go", "SQL"], "areas_of_concern": ["Kafka"], "recommendations": "Proceed to interview",
 "critical_requirements_unmet": %s,
 "interview_questions": {"technical_questions": ["Explain Go channels."], "behavioral_questions": [], "situational_questions": [],
  "cultural_fit_questions": [], "gap_assessment_questions": [], "interview_duration": "60 minutes",
  "panel_composition": "Two engineers", "evaluation_criteria": "Depth"}}`, name, score, tag, list)
}

// onStage matches chat requests issued for one stage.
func onStage(id pipeline.StageID) interface{} {
	return mock.MatchedBy(func(req domain.ChatRequest) bool { return req.Operation == string(id) })
}

// expectStage scripts one response for a stage.
func expectStage(c *mocks.MockChatClient, id pipeline.StageID, text string, err error) {
	c.EXPECT().Complete(mock.Anything, mock.Anything, onStage(id)).Return(text, err).Once()
}

// expectHappyPath scripts one successful response per stage.
func expectHappyPath(c *mocks.MockChatClient, name string, finalName string) {
	expectStage(c, pipeline.StageResumeExtraction, "Here is the JSON:\n"+resumeJSON(name), nil)
	expectStage(c, pipeline.StageJobExtraction, jobJSON, nil)
	expectStage(c, pipeline.StageEvaluation, evaluationJSON(name, 82, "QUALIFIED"), nil)
	expectStage(c, pipeline.StageInterviewDesign, interviewJSON, nil)
	expectStage(c, pipeline.StageQualityReview, evaluationJSON(finalName, 82, "QUALIFIED"), nil)
}

func newPool(t *testing.T, tokens ...string) *credential.Pool {
	t.Helper()
	if len(tokens) == 0 {
		tokens = []string{"key-a", "key-b", "key-c"}
	}
	p, err := credential.New(tokens, credential.WithRandom(func(int) int { return 0 }))
	require.NoError(t, err)
	return p
}

var testInput = pipeline.Input{
	Filename:   "alice_tan-cv.pdf",
	ResumeText: "Alice Tan\nBackend engineer with 4 years of Go.",
	JobText:    "Backend Engineer. Must know Go and PostgreSQL. 3-5 years.",
}
