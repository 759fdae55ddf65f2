package pipeline_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-resume-screener/internal/credential"
	"github.com/fairyhunter13/ai-resume-screener/internal/domain"
	"github.com/fairyhunter13/ai-resume-screener/internal/domain/mocks"
	"github.com/fairyhunter13/ai-resume-screener/internal/pipeline"
)

func newController(t *testing.T, client *mocks.MockChatClient, pool pipeline.CredentialSource) *pipeline.Controller {
	t.Helper()
	r := pipeline.NewRunner(pool, client, nil, pipeline.RunnerConfig{Model: "openai/gpt-3.5-turbo", MaxTokens: 1000})
	return pipeline.NewController(r)
}

func TestController_HappyPath(t *testing.T) {
	t.Parallel()
	client := mocks.NewMockChatClient(t)
	expectHappyPath(client, "Alice Tan", "Alice Tan")

	out, err := newController(t, client, newPool(t)).Evaluate(context.Background(), testInput)
	require.NoError(t, err)

	assert.Equal(t, "Alice Tan", out.Final.CandidateName)
	assert.Equal(t, domain.Score(82), out.Final.OverallScore)
	assert.Equal(t, domain.TagQualified, out.Final.QualificationTag)
	assert.False(t, out.ContentRetried)
	assert.False(t, out.CredentialRetried)
	assert.False(t, out.NameFallback)
	assert.Equal(t, domain.ValidationPass, out.Report.OverallStatus, out.Report.Failed())
	assert.Equal(t, 90, out.Advisory.ExperienceScore)
	assert.Equal(t, 80, out.Advisory.SkillScore)
}

func TestController_PlaceholderRetryRecovers(t *testing.T) {
	t.Parallel()
	client := mocks.NewMockChatClient(t)
	expectHappyPath(client, "Alice Tan", "John Doe")
	// retry re-runs evaluation onward only
	expectStage(client, pipeline.StageEvaluation, evaluationJSON("Alice Tan", 82, "QUALIFIED"), nil)
	expectStage(client, pipeline.StageInterviewDesign, interviewJSON, nil)
	expectStage(client, pipeline.StageQualityReview, evaluationJSON("Alice Tan", 82, "QUALIFIED"), nil)

	out, err := newController(t, client, newPool(t)).Evaluate(context.Background(), testInput)
	require.NoError(t, err)
	assert.True(t, out.ContentRetried)
	assert.False(t, out.NameFallback)
	assert.Equal(t, "Alice Tan", out.Final.CandidateName)
	client.AssertNumberOfCalls(t, "Complete", 8)
}

func TestController_PlaceholderPersistsUsesFilename(t *testing.T) {
	t.Parallel()
	client := mocks.NewMockChatClient(t)
	expectHappyPath(client, "John Doe", "John Doe")
	expectStage(client, pipeline.StageEvaluation, evaluationJSON("John Doe", 82, "QUALIFIED"), nil)
	expectStage(client, pipeline.StageInterviewDesign, interviewJSON, nil)
	expectStage(client, pipeline.StageQualityReview, evaluationJSON("john doe", 82, "QUALIFIED"), nil)

	out, err := newController(t, client, newPool(t)).Evaluate(context.Background(), testInput)
	require.NoError(t, err)
	assert.True(t, out.ContentRetried)
	assert.True(t, out.NameFallback)
	assert.Equal(t, "alice tan cv", out.Final.CandidateName)
	assert.False(t, pipeline.IsPlaceholderName(out.Final.CandidateName))
}

func TestController_UnknownNameIsKept(t *testing.T) {
	t.Parallel()
	client := mocks.NewMockChatClient(t)
	expectHappyPath(client, "Unknown", "Unknown")

	out, err := newController(t, client, newPool(t)).Evaluate(context.Background(), testInput)
	require.NoError(t, err)
	assert.Equal(t, domain.UnknownCandidate, out.Final.CandidateName)
	assert.False(t, out.ContentRetried)
	assert.False(t, out.NameFallback)
	assert.Contains(t, out.Report.Failed(), "resume.has_name")
	assert.Equal(t, domain.ValidationFailure, out.Report.OverallStatus)
}

func TestController_CredentialFailover(t *testing.T) {
	t.Parallel()
	client := mocks.NewMockChatClient(t)
	expectStage(client, pipeline.StageResumeExtraction, resumeJSON("Alice Tan"), nil)
	expectStage(client, pipeline.StageJobExtraction, jobJSON, nil)
	expectStage(client, pipeline.StageEvaluation, "", domain.ErrCredentialRejected)
	expectStage(client, pipeline.StageEvaluation, evaluationJSON("Alice Tan", 75, "QUALIFIED"), nil)
	expectStage(client, pipeline.StageInterviewDesign, interviewJSON, nil)
	expectStage(client, pipeline.StageQualityReview, evaluationJSON("Alice Tan", 75, "QUALIFIED"), nil)

	pool := newPool(t)
	out, err := newController(t, client, pool).Evaluate(context.Background(), testInput)
	require.NoError(t, err)
	assert.True(t, out.CredentialRetried)
	assert.Equal(t, pool.Size()-1, pool.Available())
	assert.Equal(t, 1, pool.Current().Index)
}

func TestController_FailoverRetriesWithNewCredential(t *testing.T) {
	t.Parallel()
	client := mocks.NewMockChatClient(t)
	var used []int
	client.EXPECT().Complete(mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, cred domain.Credential, req domain.ChatRequest) (string, error) {
			used = append(used, cred.Index)
			if len(used) == 1 {
				return "", domain.ErrUpstreamRateLimit
			}
			switch pipeline.StageID(req.Operation) {
			case pipeline.StageResumeExtraction:
				return resumeJSON("Alice Tan"), nil
			case pipeline.StageJobExtraction:
				return jobJSON, nil
			case pipeline.StageInterviewDesign:
				return interviewJSON, nil
			}
			return evaluationJSON("Alice Tan", 90, "QUALIFIED"), nil
		})

	_, err := newController(t, client, newPool(t)).Evaluate(context.Background(), testInput)
	require.NoError(t, err)
	require.Len(t, used, 6)
	assert.Equal(t, 0, used[0])
	for _, idx := range used[1:] {
		assert.NotEqual(t, 0, idx, "failed credential must not be drawn again")
	}
}

func TestController_FailoverPinsRotatedCredential(t *testing.T) {
	t.Parallel()
	pool, err := credential.New([]string{"key-a", "key-b", "key-c"},
		credential.WithRandom(func(n int) int { return n - 1 }))
	require.NoError(t, err)

	client := mocks.NewMockChatClient(t)
	var used []int
	client.EXPECT().Complete(mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, cred domain.Credential, req domain.ChatRequest) (string, error) {
			used = append(used, cred.Index)
			switch pipeline.StageID(req.Operation) {
			case pipeline.StageResumeExtraction:
				return resumeJSON("Alice Tan"), nil
			case pipeline.StageJobExtraction:
				return jobJSON, nil
			case pipeline.StageInterviewDesign:
				return interviewJSON, nil
			case pipeline.StageEvaluation:
				if len(used) == 3 {
					return "", domain.ErrCredentialRejected
				}
			}
			return evaluationJSON("Alice Tan", 90, "QUALIFIED"), nil
		})

	out, err := newController(t, client, pool).Evaluate(context.Background(), testInput)
	require.NoError(t, err)
	assert.True(t, out.CredentialRetried)
	// key-c fails at evaluation; the pool rotates from key-a to key-b
	assert.Equal(t, []int{2, 2, 2, 1, 1, 1}, used)
	assert.Equal(t, 1, pool.Current().Index)
	assert.Equal(t, 2, pool.Available())
}

func TestController_ValidatesReviewOutputAsReturned(t *testing.T) {
	t.Parallel()
	sparse := `{"candidate_name": "Alice Tan", "overall_score": 82, "qualification_tag": "QUALIFIED",
 "strengths": ["Go"], "areas_of_concern": [], "recommendations": "Proceed"}`
	client := mocks.NewMockChatClient(t)
	expectStage(client, pipeline.StageResumeExtraction, resumeJSON("Alice Tan"), nil)
	expectStage(client, pipeline.StageJobExtraction, jobJSON, nil)
	expectStage(client, pipeline.StageEvaluation, sparse, nil)
	expectStage(client, pipeline.StageInterviewDesign, interviewJSON, nil)
	expectStage(client, pipeline.StageQualityReview, sparse, nil)

	out, err := newController(t, client, newPool(t)).Evaluate(context.Background(), testInput)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"evaluation.has_category_scores", "evaluation.has_interview_questions"}, out.Report.Failed())
	assert.Equal(t, domain.ValidationFailure, out.Report.OverallStatus)
	assert.True(t, out.Report.CrossValidation["name_consistency"])
	// interview plan still merged into the stored record
	assert.False(t, out.Final.InterviewQuestions.Empty())
}

func TestController_SecondCredentialFailureIsTerminal(t *testing.T) {
	t.Parallel()
	client := mocks.NewMockChatClient(t)
	expectStage(client, pipeline.StageResumeExtraction, "", domain.ErrUpstreamTimeout)
	expectStage(client, pipeline.StageResumeExtraction, "", domain.ErrCredentialRejected)

	out, err := newController(t, client, newPool(t)).Evaluate(context.Background(), testInput)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCredentialRejected)
	assert.Equal(t, string(pipeline.StageResumeExtraction), domain.StageOf(err))
	assert.True(t, out.CredentialRetried)
	client.AssertNumberOfCalls(t, "Complete", 2)
}

func TestController_NonEligibleErrorIsNotRetried(t *testing.T) {
	t.Parallel()
	client := mocks.NewMockChatClient(t)
	expectStage(client, pipeline.StageResumeExtraction, "I cannot help with that.", nil)

	out, err := newController(t, client, newPool(t)).Evaluate(context.Background(), testInput)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSchemaInvalid)
	assert.False(t, out.CredentialRetried)
	client.AssertNumberOfCalls(t, "Complete", 1)
}

func TestController_FailoverDuringContentRetry(t *testing.T) {
	t.Parallel()
	client := mocks.NewMockChatClient(t)
	expectHappyPath(client, "Alice Tan", "Jane Smith")
	expectStage(client, pipeline.StageEvaluation, "", fmt.Errorf("openrouter: %w", domain.ErrUpstreamRateLimit))
	expectStage(client, pipeline.StageEvaluation, evaluationJSON("Alice Tan", 82, "QUALIFIED"), nil)
	expectStage(client, pipeline.StageInterviewDesign, interviewJSON, nil)
	expectStage(client, pipeline.StageQualityReview, evaluationJSON("Alice Tan", 82, "QUALIFIED"), nil)

	out, err := newController(t, client, newPool(t)).Evaluate(context.Background(), testInput)
	require.NoError(t, err)
	assert.True(t, out.ContentRetried)
	assert.True(t, out.CredentialRetried)
	assert.Equal(t, "Alice Tan", out.Final.CandidateName)
}
