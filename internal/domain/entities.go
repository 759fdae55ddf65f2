package domain

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNotFound           = errors.New("not found")
	ErrConfiguration      = errors.New("configuration error")
	ErrUnsupportedFormat  = errors.New("unsupported format")
	ErrExtraction         = errors.New("extraction failed")
	ErrCredentialRejected = errors.New("credential rejected")
	ErrUpstreamTimeout    = errors.New("upstream timeout")
	ErrUpstreamRateLimit  = errors.New("upstream rate limit")
	ErrSchemaInvalid      = errors.New("schema invalid")
	ErrMissingDependency  = errors.New("missing stage dependency")
	ErrInternal           = errors.New("internal error")
	ErrRateLimited        = errors.New("rate limited")
)

// Qualification tags
const (
	TagQualified      = "QUALIFIED"
	TagNotQualified   = "NOT QUALIFIED"
	TagOverqualified  = "OVERQUALIFIED"
	UnknownCandidate  = "Unknown"
	ValidationPass    = "PASS"
	ValidationFailure = "FAIL"
)

// ValidTag reports whether tag is one of the three qualification tags.
func ValidTag(tag string) bool {
	switch tag {
	case TagQualified, TagNotQualified, TagOverqualified:
		return true
	}
	return false
}

// Credential is one API token from the pool, identified by its slot index.
type Credential struct {
	Index int
	Token string
}

// Skills groups the extracted skill lists.
type Skills struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
	Domain    []string `json:"domain"`
}

// Education is one degree entry.
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	GradYear    any    `json:"grad_year"`
}

// WorkHistory is one position entry.
type WorkHistory struct {
	Company string `json:"company"`
	Title   string `json:"title"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

// ResumeRecord is the structured output of resume extraction.
// Invariants: arrays are non-nil after Normalize; CandidateName is the extracted name or "Unknown".
type ResumeRecord struct {
	CandidateName   string        `json:"candidate_name"`
	Email           *string       `json:"email"`
	Phone           *string       `json:"phone"`
	YearsExperience Score         `json:"years_experience"`
	Skills          Skills        `json:"skills"`
	Education       []Education   `json:"education"`
	WorkHistory     []WorkHistory `json:"work_history"`
	Certifications  []string      `json:"certifications"`
}

// Normalize replaces nil slices with empty ones and fills the name sentinel.
func (r *ResumeRecord) Normalize() {
	if r.CandidateName == "" {
		r.CandidateName = UnknownCandidate
	}
	r.Skills.Technical = orEmpty(r.Skills.Technical)
	r.Skills.Soft = orEmpty(r.Skills.Soft)
	r.Skills.Domain = orEmpty(r.Skills.Domain)
	if r.Education == nil {
		r.Education = []Education{}
	}
	if r.WorkHistory == nil {
		r.WorkHistory = []WorkHistory{}
	}
	r.Certifications = orEmpty(r.Certifications)
}

// RoleInformation describes the advertised position.
type RoleInformation struct {
	JobTitle           string   `json:"Job Title"`
	Level              string   `json:"Level"`
	Department         string   `json:"Department"`
	ReportingStructure string   `json:"Reporting Structure"`
	EmploymentType     string   `json:"Employment Type"`
	Locations          []string `json:"Locations"`
}

// YearsOfExperience holds values which may be numbers, ranges or "unspecified".
type YearsOfExperience struct {
	Minimum   any `json:"Minimum"`
	Preferred any `json:"Preferred"`
}

// ExperienceRequirements lists the experience expectations of a job.
type ExperienceRequirements struct {
	YearsOfExperience   *YearsOfExperience `json:"Years of Experience"`
	IndustryExperience  []string           `json:"Specific Industry Experience"`
	PreviousRoleRequire []string           `json:"Previous Role Requirements"`
}

// SkillsAndCompetencies lists the skill expectations of a job.
type SkillsAndCompetencies struct {
	MustHave   []string `json:"Must-have Technical Skills"`
	NiceToHave []string `json:"Nice-to-have Technical Skills"`
	Soft       []string `json:"Required Soft Skills"`
	Leadership []string `json:"Leadership/Management Requirements"`
}

// EducationAndCertifications lists formal requirements.
type EducationAndCertifications struct {
	Degrees        []string `json:"Degree Requirements"`
	Certifications []string `json:"Preferred Certifications"`
	Licenses       []string `json:"Professional Licenses Needed"`
}

// KeyResponsibilities lists duties and success measures.
type KeyResponsibilities struct {
	PrimaryDuties  []string `json:"Primary Duties and Accountabilities"`
	SuccessMetrics []string `json:"Success Metrics and KPIs"`
	TeamOrBudget   string   `json:"Team Size or Budget Responsibility"`
}

// CompanyAndCulture captures softer context of the role.
type CompanyAndCulture struct {
	CompanySize    string   `json:"Company Size"`
	Industry       string   `json:"Industry"`
	WorkCulture    []string `json:"Work Environment and Culture"`
	GrowthPathways []string `json:"Growth Opportunities"`
}

// RequirementPriority ranks requirements.
type RequirementPriority struct {
	Critical  []string `json:"Critical"`
	Important []string `json:"Important"`
	Preferred []string `json:"Preferred"`
}

// JobRequirement is the structured output of job extraction.
type JobRequirement struct {
	RoleInformation            RoleInformation            `json:"Role Information"`
	ExperienceRequirements     ExperienceRequirements     `json:"Experience Requirements"`
	SkillsAndCompetencies      SkillsAndCompetencies      `json:"Skills and Competencies"`
	EducationAndCertifications EducationAndCertifications `json:"Education and Certifications"`
	KeyResponsibilities        KeyResponsibilities        `json:"Key Responsibilities"`
	CompanyAndCulture          CompanyAndCulture          `json:"Company and Culture"`
	RequirementPriority        RequirementPriority        `json:"Requirement Priority"`
}

// CategoryScores are the per-dimension scores, each 0-100.
type CategoryScores struct {
	Experience   Score `json:"experience"`
	Skills       Score `json:"skills"`
	Education    Score `json:"education"`
	Achievements Score `json:"achievements"`
	Culture      Score `json:"culture"`
}

// InterviewQuestions is the interview portion of an evaluation.
type InterviewQuestions struct {
	Technical          []string `json:"technical_questions"`
	Behavioral         []string `json:"behavioral_questions"`
	Situational        []string `json:"situational_questions"`
	CulturalFit        []string `json:"cultural_fit_questions"`
	GapAssessment      []string `json:"gap_assessment_questions"`
	InterviewDuration  string   `json:"interview_duration"`
	PanelComposition   string   `json:"panel_composition"`
	EvaluationCriteria string   `json:"evaluation_criteria"`
}

// Empty reports whether no question category holds any question.
func (q InterviewQuestions) Empty() bool {
	return len(q.Technical)+len(q.Behavioral)+len(q.Situational)+len(q.CulturalFit)+len(q.GapAssessment) == 0
}

// InterviewPlan is the output of interview design.
type InterviewPlan struct {
	Strategy string `json:"strategy"`
	InterviewQuestions
}

// EvaluationResult is the output of scoring and, after quality review, the final record.
type EvaluationResult struct {
	CandidateName             string             `json:"candidate_name"`
	OverallScore              Score              `json:"overall_score"`
	QualificationTag          string             `json:"qualification_tag"`
	CategoryScores            CategoryScores     `json:"category_scores"`
	Strengths                 []string           `json:"strengths"`
	AreasOfConcern            []string           `json:"areas_of_concern"`
	Recommendations           string             `json:"recommendations"`
	InterviewQuestions        InterviewQuestions `json:"interview_questions"`
	CriticalRequirementsUnmet []string           `json:"critical_requirements_unmet,omitempty"`
}

// Score is an integer score that also accepts fractional numbers and numeric strings on decode.
type Score int

// UnmarshalJSON rounds fractional values and parses quoted numbers.
func (s *Score) UnmarshalJSON(b []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if raw == "" || raw == "null" {
		*s = 0
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("%w: score %q is not numeric", ErrSchemaInvalid, raw)
	}
	*s = Score(math.Round(f))
	return nil
}

// Normalize replaces nil slices with empty ones.
func (e *EvaluationResult) Normalize() {
	e.Strengths = orEmpty(e.Strengths)
	e.AreasOfConcern = orEmpty(e.AreasOfConcern)
	q := &e.InterviewQuestions
	q.Technical = orEmpty(q.Technical)
	q.Behavioral = orEmpty(q.Behavioral)
	q.Situational = orEmpty(q.Situational)
	q.CulturalFit = orEmpty(q.CulturalFit)
	q.GapAssessment = orEmpty(q.GapAssessment)
}

// ValidationReport is the advisory consistency report for one resume. Never persisted.
type ValidationReport struct {
	ResumeValidation     map[string]bool `json:"resume_validation"`
	JobValidation        map[string]bool `json:"job_validation"`
	EvaluationValidation map[string]bool `json:"evaluation_validation"`
	CrossValidation      map[string]bool `json:"cross_validation"`
	OverallStatus        string          `json:"overall_status"`
}

// Failed lists "section.predicate" for every false predicate, in no particular order.
func (r ValidationReport) Failed() []string {
	var out []string
	for name, sec := range map[string]map[string]bool{
		"resume":     r.ResumeValidation,
		"job":        r.JobValidation,
		"evaluation": r.EvaluationValidation,
		"cross":      r.CrossValidation,
	} {
		for k, ok := range sec {
			if !ok {
				out = append(out, name+"."+k)
			}
		}
	}
	return out
}

// StoredEvaluation is the persisted projection of a final evaluation.
type StoredEvaluation struct {
	ID               string
	SessionID        string
	CandidateName    string
	ResumeFilename   string
	OverallScore     int
	QualificationTag string
	Explanation      string
	Feedback         string
	Result           EvaluationResult
	EvaluatedAt      time.Time
}

// SessionStatus enumerates evaluation run states.
type SessionStatus string

const (
	SessionRunning   SessionStatus = "running"
	SessionCompleted SessionStatus = "completed"
	SessionFailed    SessionStatus = "failed"
)

// Session is one batch evaluation run.
type Session struct {
	ID           string
	JobTitle     string
	JobFilename  string
	TotalResumes int
	Succeeded    int
	Failed       int
	Status       SessionStatus
	StartedAt    time.Time
	CompletedAt  *time.Time
}

// Stats summarises the stored evaluations.
type Stats struct {
	Total         int     `json:"total"`
	Qualified     int     `json:"qualified"`
	NotQualified  int     `json:"not_qualified"`
	Overqualified int     `json:"overqualified"`
	AverageScore  float64 `json:"average_score"`
	HighestScore  int     `json:"highest_score"`
	LowestScore   int     `json:"lowest_score"`
}

// FileError records a per-resume failure; the batch continues past it.
type FileError struct {
	Filename string `json:"filename"`
	Stage    string `json:"stage,omitempty"`
	Message  string `json:"message"`
}

// Repositories (ports)
//
//go:generate mockery --name=EvaluationRepository --with-expecter --filename=evaluation_repository_mock.go
//go:generate mockery --name=SessionRepository --with-expecter --filename=session_repository_mock.go
//go:generate mockery --name=JobDescriptionStore --with-expecter --filename=job_description_store_mock.go
//go:generate mockery --name=EventPublisher --with-expecter --filename=event_publisher_mock.go
//go:generate mockery --name=ChatClient --with-expecter --filename=chat_client_mock.go
//go:generate mockery --name=TextExtractor --with-expecter --filename=text_extractor_mock.go

type EvaluationRepository interface {
	InsertBatch(ctx Context, evals []StoredEvaluation) ([]string, error)
	ClearAll(ctx Context) (int64, error)
	List(ctx Context, limit, offset int) ([]StoredEvaluation, error)
	ListBySession(ctx Context, sessionID string) ([]StoredEvaluation, error)
	ListByCandidate(ctx Context, name string) ([]StoredEvaluation, error)
	Stats(ctx Context) (Stats, error)
}

type SessionRepository interface {
	Create(ctx Context, s Session) (string, error)
	Complete(ctx Context, id string, status SessionStatus, succeeded, failed int) error
	Get(ctx Context, id string) (Session, error)
	List(ctx Context, limit int) ([]Session, error)
}

// JobDescriptionStore retains the last job description per workspace (port).
type JobDescriptionStore interface {
	Save(ctx Context, workspace, text string) error
	Load(ctx Context, workspace string) (string, error)
}

// EventPublisher announces completed evaluations (port).
type EventPublisher interface {
	PublishEvaluationCompleted(ctx Context, sessionID string, ev StoredEvaluation) error
}

// ChatRequest is one single-turn completion request.
type ChatRequest struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Operation    string
}

// ChatClient (port) sends one completion authorised by the given credential.
type ChatClient interface {
	Complete(ctx Context, cred Credential, req ChatRequest) (string, error)
}

// TextExtractor (port)
// ExtractPath extracts text from a file at path with provided original filename.
type TextExtractor interface {
	ExtractPath(ctx Context, fileName, path string) (string, error)
}

// Context is an alias to allow decoupling from std context in domain.
type Context = context.Context

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
