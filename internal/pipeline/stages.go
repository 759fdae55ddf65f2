// Package pipeline runs the five-stage resume evaluation over a chat model.
//
// Stages run in dependency order; each stage issues exactly one chat call and
// receives the JSON outputs of the stages it declares as dependencies. The
// Controller wraps a Runner with the placeholder-name retry and credential
// failover policies.
package pipeline

import (
	"fmt"

	"github.com/fairyhunter13/ai-resume-screener/internal/domain"
)

// StageID names a pipeline stage.
type StageID string

const (
	StageResumeExtraction StageID = "resume_extraction"
	StageJobExtraction    StageID = "job_extraction"
	StageEvaluation       StageID = "evaluation"
	StageInterviewDesign  StageID = "interview_design"
	StageQualityReview    StageID = "quality_review"
)

// Order is the execution order of the stages. It is a topological order of Dependencies.
var Order = []StageID{
	StageResumeExtraction,
	StageJobExtraction,
	StageEvaluation,
	StageInterviewDesign,
	StageQualityReview,
}

// Dependencies declares which prior outputs each stage consumes.
var Dependencies = map[StageID][]StageID{
	StageResumeExtraction: nil,
	StageJobExtraction:    nil,
	StageEvaluation:       {StageResumeExtraction, StageJobExtraction},
	StageInterviewDesign:  {StageJobExtraction, StageEvaluation},
	StageQualityReview:    {StageResumeExtraction, StageJobExtraction, StageEvaluation, StageInterviewDesign},
}

func indexOf(id StageID) int {
	for i, s := range Order {
		if s == id {
			return i
		}
	}
	return -1
}

// Input is the raw material of one resume evaluation.
type Input struct {
	Filename   string
	ResumeText string
	JobText    string
}

// State holds the outputs materialised so far for one resume.
// Raw keeps the exact JSON object each stage produced.
type State struct {
	Input     Input
	Raw       map[StageID][]byte
	Resume    *domain.ResumeRecord
	Job       *domain.JobRequirement
	Scored    *domain.EvaluationResult
	Interview *domain.InterviewPlan
	Final     *domain.EvaluationResult

	// pinned replaces random draws once a failover has rotated the pool.
	pinned *domain.Credential
}

// NewState returns an empty state for in.
func NewState(in Input) *State {
	return &State{Input: in, Raw: map[StageID][]byte{}}
}

// Has reports whether the output of id is present.
func (s *State) Has(id StageID) bool {
	_, ok := s.Raw[id]
	return ok
}

// Reset drops the outputs of from and every later stage.
func (s *State) Reset(from StageID) {
	i := indexOf(from)
	if i < 0 {
		return
	}
	for _, id := range Order[i:] {
		delete(s.Raw, id)
		switch id {
		case StageResumeExtraction:
			s.Resume = nil
		case StageJobExtraction:
			s.Job = nil
		case StageEvaluation:
			s.Scored = nil
		case StageInterviewDesign:
			s.Interview = nil
		case StageQualityReview:
			s.Final = nil
		}
	}
}

// missingDependency returns an error naming the first absent dependency of id.
func (s *State) missingDependency(id StageID) error {
	for _, dep := range Dependencies[id] {
		if !s.Has(dep) {
			return fmt.Errorf("%w: stage %s requires %s", domain.ErrMissingDependency, id, dep)
		}
	}
	return nil
}
