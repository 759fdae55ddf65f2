package pipeline_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-resume-screener/internal/domain"
	"github.com/fairyhunter13/ai-resume-screener/internal/domain/mocks"
	"github.com/fairyhunter13/ai-resume-screener/internal/pipeline"
)

type fakeTruncator struct{ calls int }

func (f *fakeTruncator) Truncate(text, _ string, maxTokens int) (string, bool) {
	f.calls++
	words := strings.Fields(text)
	if len(words) <= maxTokens {
		return text, false
	}
	return strings.Join(words[:maxTokens], " "), true
}

func TestRunner_RunsStagesInOrderWithDependencies(t *testing.T) {
	t.Parallel()
	client := mocks.NewMockChatClient(t)
	var order []string
	prompts := map[string]string{}
	client.EXPECT().Complete(mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, _ domain.Credential, req domain.ChatRequest) (string, error) {
			order = append(order, req.Operation)
			prompts[req.Operation] = req.UserPrompt
			assert.Equal(t, 1000, req.MaxTokens)
			assert.Contains(t, req.SystemPrompt, "JSON object")
			switch pipeline.StageID(req.Operation) {
			case pipeline.StageResumeExtraction:
				return resumeJSON("Alice Tan"), nil
			case pipeline.StageJobExtraction:
				return jobJSON, nil
			case pipeline.StageInterviewDesign:
				return interviewJSON, nil
			}
			return evaluationJSON("Alice Tan", 82, "QUALIFIED"), nil
		})

	r := pipeline.NewRunner(newPool(t), client, nil, pipeline.RunnerConfig{MaxTokens: 1000})
	s, err := r.Run(context.Background(), testInput)
	require.NoError(t, err)

	want := make([]string, 0, len(pipeline.Order))
	for _, id := range pipeline.Order {
		want = append(want, string(id))
		assert.True(t, s.Has(id))
	}
	assert.Equal(t, want, order)

	assert.Contains(t, prompts[string(pipeline.StageResumeExtraction)], testInput.ResumeText)
	assert.NotContains(t, prompts[string(pipeline.StageResumeExtraction)], testInput.JobText)
	assert.Contains(t, prompts[string(pipeline.StageJobExtraction)], testInput.JobText)
	assert.Contains(t, prompts[string(pipeline.StageEvaluation)], "RESUME ANALYSIS")
	assert.Contains(t, prompts[string(pipeline.StageEvaluation)], "JOB ANALYSIS")
	assert.Contains(t, prompts[string(pipeline.StageInterviewDesign)], "EVALUATION")
	assert.NotContains(t, prompts[string(pipeline.StageInterviewDesign)], "RESUME ANALYSIS")
	assert.Contains(t, prompts[string(pipeline.StageQualityReview)], "INTERVIEW PLAN")

	require.NotNil(t, s.Resume)
	assert.Equal(t, domain.Score(4), s.Resume.YearsExperience)
	assert.NotNil(t, s.Resume.Certifications)
	require.NotNil(t, s.Job)
	assert.Equal(t, []string{"Go"}, s.Job.RequirementPriority.Critical)
	require.NotNil(t, s.Interview)
	assert.Equal(t, "60 minutes", s.Interview.InterviewDuration)
}

func TestRunner_MissingDependencyFailsFast(t *testing.T) {
	t.Parallel()
	client := mocks.NewMockChatClient(t)
	r := pipeline.NewRunner(newPool(t), client, nil, pipeline.RunnerConfig{})

	err := r.RunFrom(context.Background(), pipeline.NewState(testInput), pipeline.StageInterviewDesign)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingDependency)
	assert.Equal(t, string(pipeline.StageInterviewDesign), domain.StageOf(err))
	client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunner_UnknownStage(t *testing.T) {
	t.Parallel()
	r := pipeline.NewRunner(newPool(t), mocks.NewMockChatClient(t), nil, pipeline.RunnerConfig{})
	err := r.RunFrom(context.Background(), pipeline.NewState(testInput), pipeline.StageID("bogus"))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestRunner_AppliesQualificationRule(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		scored     string
		final      string
		wantScored string
		wantFinal  string
	}{
		{
			name:       "critical unmet overrides model tag",
			scored:     evaluationJSON("Alice Tan", 85, "QUALIFIED", "Go"),
			final:      evaluationJSON("Alice Tan", 85, "QUALIFIED"),
			wantScored: domain.TagNotQualified,
			wantFinal:  domain.TagNotQualified,
		},
		{
			name:       "boundary band resolves to not qualified",
			scored:     evaluationJSON("Alice Tan", 65, "QUALIFIED"),
			final:      evaluationJSON("Alice Tan", 65, "QUALIFIED"),
			wantScored: domain.TagNotQualified,
			wantFinal:  domain.TagNotQualified,
		},
		{
			name:       "overqualified kept when eligible",
			scored:     evaluationJSON("Alice Tan", 88, "overqualified"),
			final:      evaluationJSON("Alice Tan", 88, "OVERQUALIFIED"),
			wantScored: domain.TagOverqualified,
			wantFinal:  domain.TagOverqualified,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client := mocks.NewMockChatClient(t)
			expectStage(client, pipeline.StageResumeExtraction, resumeJSON("Alice Tan"), nil)
			expectStage(client, pipeline.StageJobExtraction, jobJSON, nil)
			expectStage(client, pipeline.StageEvaluation, tt.scored, nil)
			expectStage(client, pipeline.StageInterviewDesign, interviewJSON, nil)
			expectStage(client, pipeline.StageQualityReview, tt.final, nil)

			s, err := pipeline.NewRunner(newPool(t), client, nil, pipeline.RunnerConfig{}).Run(context.Background(), testInput)
			require.NoError(t, err)
			assert.Equal(t, tt.wantScored, s.Scored.QualificationTag)
			assert.Equal(t, tt.wantFinal, s.Final.QualificationTag)
		})
	}
}

func TestRunner_FinalNameDefaultsToUnknown(t *testing.T) {
	t.Parallel()
	client := mocks.NewMockChatClient(t)
	expectStage(client, pipeline.StageResumeExtraction, resumeJSON(""), nil)
	expectStage(client, pipeline.StageJobExtraction, jobJSON, nil)
	expectStage(client, pipeline.StageEvaluation, evaluationJSON("", 72, "QUALIFIED"), nil)
	expectStage(client, pipeline.StageInterviewDesign, interviewJSON, nil)
	expectStage(client, pipeline.StageQualityReview, evaluationJSON(" ", 72, "QUALIFIED"), nil)

	s, err := pipeline.NewRunner(newPool(t), client, nil, pipeline.RunnerConfig{}).Run(context.Background(), testInput)
	require.NoError(t, err)
	assert.Equal(t, domain.UnknownCandidate, s.Resume.CandidateName)
	assert.Equal(t, domain.UnknownCandidate, s.Final.CandidateName)
}

func TestRunner_SchemaViolationIsNotRetried(t *testing.T) {
	t.Parallel()
	client := mocks.NewMockChatClient(t)
	expectStage(client, pipeline.StageResumeExtraction, `{"candidate_name": "Alice", "skills": "Go, SQL"}`, nil)

	s, err := pipeline.NewRunner(newPool(t), client, nil, pipeline.RunnerConfig{}).Run(context.Background(), testInput)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSchemaInvalid)
	assert.Contains(t, err.Error(), "skills")
	assert.False(t, s.Has(pipeline.StageResumeExtraction))
}

func TestRunner_RunFromKeepsEarlierOutputs(t *testing.T) {
	t.Parallel()
	client := mocks.NewMockChatClient(t)
	expectHappyPath(client, "Alice Tan", "Alice Tan")
	expectStage(client, pipeline.StageInterviewDesign, interviewJSON, nil)
	expectStage(client, pipeline.StageQualityReview, evaluationJSON("Alice Tan", 91, "QUALIFIED"), nil)

	r := pipeline.NewRunner(newPool(t), client, nil, pipeline.RunnerConfig{})
	s, err := r.Run(context.Background(), testInput)
	require.NoError(t, err)
	resume := s.Resume

	require.NoError(t, r.RunFrom(context.Background(), s, pipeline.StageInterviewDesign))
	assert.Same(t, resume, s.Resume)
	assert.Equal(t, domain.Score(91), s.Final.OverallScore)
}

func TestRunner_TruncatesInputText(t *testing.T) {
	t.Parallel()
	client := mocks.NewMockChatClient(t)
	long := pipeline.Input{Filename: "a.txt", ResumeText: "one two three four five six", JobText: "alpha beta"}
	client.EXPECT().Complete(mock.Anything, mock.Anything, onStage(pipeline.StageResumeExtraction)).
		RunAndReturn(func(_ context.Context, _ domain.Credential, req domain.ChatRequest) (string, error) {
			assert.Contains(t, req.UserPrompt, "one two three")
			assert.NotContains(t, req.UserPrompt, "four")
			return "", domain.ErrUpstreamTimeout
		}).Once()

	tr := &fakeTruncator{}
	r := pipeline.NewRunner(newPool(t), client, nil, pipeline.RunnerConfig{MaxInputTokens: 3, Truncator: tr})
	_, err := r.Run(context.Background(), long)
	require.ErrorIs(t, err, domain.ErrUpstreamTimeout)
	assert.Positive(t, tr.calls)
}
