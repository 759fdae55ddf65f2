package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-resume-screener/internal/domain"
	"github.com/fairyhunter13/ai-resume-screener/internal/domain/mocks"
	"github.com/fairyhunter13/ai-resume-screener/internal/pipeline"
)

type evaluatorFunc func(ctx domain.Context, in pipeline.Input) (pipeline.Outcome, error)

func (f evaluatorFunc) Evaluate(ctx domain.Context, in pipeline.Input) (pipeline.Outcome, error) {
	return f(ctx, in)
}

func scoreFor(in pipeline.Input) (pipeline.Outcome, error) {
	switch in.Filename {
	case "broken.pdf":
		return pipeline.Outcome{}, &domain.StageError{Stage: "evaluation", Err: domain.ErrSchemaInvalid}
	case "bob.pdf":
		return pipeline.Outcome{Final: domain.EvaluationResult{CandidateName: "Bob", OverallScore: 55, QualificationTag: domain.TagNotQualified}}, nil
	}
	return pipeline.Outcome{Final: domain.EvaluationResult{
		CandidateName:    "Alice",
		OverallScore:     85,
		QualificationTag: domain.TagQualified,
		Strengths:        []string{"Go", "SQL"},
		Recommendations:  "Proceed to interview",
	}}, nil
}

type deps struct {
	x        *mocks.MockTextExtractor
	evals    *mocks.MockEvaluationRepository
	sessions *mocks.MockSessionRepository
	jobs     *mocks.MockJobDescriptionStore
	pub      *mocks.MockEventPublisher
}

func newService(t *testing.T, ev Evaluator, maxResumes int) (*ScreeningService, deps) {
	t.Helper()
	d := deps{
		x:        mocks.NewMockTextExtractor(t),
		evals:    mocks.NewMockEvaluationRepository(t),
		sessions: mocks.NewMockSessionRepository(t),
		jobs:     mocks.NewMockJobDescriptionStore(t),
		pub:      mocks.NewMockEventPublisher(t),
	}
	s := NewScreeningService(d.x, ev, d.evals, d.sessions, d.jobs, d.pub, nil, maxResumes)
	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	return s, d
}

func extractAll(x *mocks.MockTextExtractor) {
	x.EXPECT().ExtractPath(mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, name, _ string) (string, error) {
			if name == "scan.pdf" {
				return "", fmt.Errorf("%w: no text layer", domain.ErrExtraction)
			}
			if name == "job.txt" {
				return "Senior Go Engineer\nBuild services", nil
			}
			return "resume of " + name, nil
		})
}

func resumes(names ...string) []Document {
	out := make([]Document, 0, len(names))
	for _, n := range names {
		out = append(out, Document{Filename: n, Path: "/tmp/" + n})
	}
	return out
}

func TestScreeningService_Run_IsolatesFailures(t *testing.T) {
	t.Parallel()
	s, d := newService(t, evaluatorFunc(func(_ domain.Context, in pipeline.Input) (pipeline.Outcome, error) {
		assert.Equal(t, "Senior Go Engineer\nBuild services", in.JobText)
		return scoreFor(in)
	}), 10)
	extractAll(d.x)

	d.sessions.EXPECT().Create(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, sess domain.Session) (string, error) {
			assert.Equal(t, "Senior Go Engineer", sess.JobTitle)
			assert.Equal(t, "job.txt", sess.JobFilename)
			assert.Equal(t, 4, sess.TotalResumes)
			assert.Equal(t, domain.SessionRunning, sess.Status)
			return "sess-1", nil
		}).Once()
	d.evals.EXPECT().ClearAll(mock.Anything).Return(int64(3), nil).Once()
	d.evals.EXPECT().InsertBatch(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, evals []domain.StoredEvaluation) ([]string, error) {
			require.Len(t, evals, 2)
			assert.True(t, evals[1].EvaluatedAt.After(evals[0].EvaluatedAt))
			return []string{"e1", "e2"}, nil
		}).Once()
	d.pub.EXPECT().PublishEvaluationCompleted(mock.Anything, "sess-1", mock.Anything).Return(nil).Twice()
	d.sessions.EXPECT().Complete(mock.Anything, "sess-1", domain.SessionCompleted, 2, 2).Return(nil).Once()

	rep, err := s.Run(context.Background(), Batch{
		Job:     &Document{Filename: "job.txt", Path: "/tmp/job.txt"},
		Resumes: resumes("alice.pdf", "scan.pdf", "broken.pdf", "bob.pdf"),
	})
	require.NoError(t, err)
	assert.Equal(t, "sess-1", rep.SessionID)
	require.Len(t, rep.Evaluations, 2)
	assert.Equal(t, "e1", rep.Evaluations[0].ID)
	assert.Equal(t, "Alice", rep.Evaluations[0].CandidateName)
	assert.Equal(t, "Strengths: Go, SQL", rep.Evaluations[0].Feedback)

	require.Len(t, rep.Errors, 2)
	assert.Equal(t, "scan.pdf", rep.Errors[0].Filename)
	assert.Equal(t, "extraction", rep.Errors[0].Stage)
	assert.Equal(t, "broken.pdf", rep.Errors[1].Filename)
	assert.Equal(t, "evaluation", rep.Errors[1].Stage)

	assert.Equal(t, 2, rep.Summary.Processed)
	assert.Equal(t, 2, rep.Summary.Failed)
	assert.InDelta(t, 70.0, rep.Summary.AverageScore, 0.001)
	assert.Equal(t, map[string]int{domain.TagQualified: 1, domain.TagNotQualified: 1}, rep.Summary.Tags)
}

func TestScreeningService_Run_Validation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		batch Batch
	}{
		{"no resumes", Batch{Job: &Document{Filename: "job.txt"}}},
		{"too many resumes", Batch{Job: &Document{Filename: "job.txt"}, Resumes: resumes("a", "b", "c")}},
		{"no job and no retention", Batch{Resumes: resumes("a")}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, _ := newService(t, evaluatorFunc(func(domain.Context, pipeline.Input) (pipeline.Outcome, error) {
				t.Fatal("evaluator must not run")
				return pipeline.Outcome{}, nil
			}), 2)
			_, err := s.Run(context.Background(), tt.batch)
			assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		})
	}
}

func TestScreeningService_Run_RetainedJobDescription(t *testing.T) {
	t.Parallel()

	t.Run("saves when uploaded", func(t *testing.T) {
		t.Parallel()
		s, d := newService(t, evaluatorFunc(func(_ domain.Context, in pipeline.Input) (pipeline.Outcome, error) {
			return scoreFor(in)
		}), 5)
		extractAll(d.x)
		d.jobs.EXPECT().Save(mock.Anything, "team-a", "Senior Go Engineer\nBuild services").Return(nil).Once()
		d.sessions.EXPECT().Create(mock.Anything, mock.Anything).Return("s", nil).Once()
		d.evals.EXPECT().ClearAll(mock.Anything).Return(int64(0), nil).Once()
		d.evals.EXPECT().InsertBatch(mock.Anything, mock.Anything).Return([]string{"e1"}, nil).Once()
		d.pub.EXPECT().PublishEvaluationCompleted(mock.Anything, "s", mock.Anything).Return(nil).Once()
		d.sessions.EXPECT().Complete(mock.Anything, "s", domain.SessionCompleted, 1, 0).Return(nil).Once()

		_, err := s.Run(context.Background(), Batch{
			Workspace: "team-a", Job: &Document{Filename: "job.txt"}, Resumes: resumes("alice.pdf"), RetainJobDescription: true,
		})
		require.NoError(t, err)
	})

	t.Run("loads when omitted", func(t *testing.T) {
		t.Parallel()
		s, d := newService(t, evaluatorFunc(func(_ domain.Context, in pipeline.Input) (pipeline.Outcome, error) {
			assert.Equal(t, "Stored JD", in.JobText)
			return scoreFor(in)
		}), 5)
		extractAll(d.x)
		d.jobs.EXPECT().Load(mock.Anything, "team-a").Return("Stored JD", nil).Once()
		d.sessions.EXPECT().Create(mock.Anything, mock.Anything).Return("s", nil).Once()
		d.evals.EXPECT().ClearAll(mock.Anything).Return(int64(0), nil).Once()
		d.evals.EXPECT().InsertBatch(mock.Anything, mock.Anything).Return([]string{"e1"}, nil).Once()
		d.pub.EXPECT().PublishEvaluationCompleted(mock.Anything, "s", mock.Anything).Return(nil).Once()
		d.sessions.EXPECT().Complete(mock.Anything, "s", domain.SessionCompleted, 1, 0).Return(nil).Once()

		_, err := s.Run(context.Background(), Batch{Workspace: "team-a", Resumes: resumes("alice.pdf"), RetainJobDescription: true})
		require.NoError(t, err)
	})

	t.Run("missing stored description", func(t *testing.T) {
		t.Parallel()
		s, d := newService(t, evaluatorFunc(scoreForCtx), 5)
		d.jobs.EXPECT().Load(mock.Anything, "").Return("", domain.ErrNotFound).Once()
		_, err := s.Run(context.Background(), Batch{Resumes: resumes("alice.pdf"), RetainJobDescription: true})
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})
}

func scoreForCtx(_ domain.Context, in pipeline.Input) (pipeline.Outcome, error) { return scoreFor(in) }

func TestScreeningService_Run_AllFailedMarksSessionFailed(t *testing.T) {
	t.Parallel()
	s, d := newService(t, evaluatorFunc(scoreForCtx), 5)
	extractAll(d.x)
	d.sessions.EXPECT().Create(mock.Anything, mock.Anything).Return("s", nil).Once()
	d.evals.EXPECT().ClearAll(mock.Anything).Return(int64(0), nil).Once()
	d.sessions.EXPECT().Complete(mock.Anything, "s", domain.SessionFailed, 0, 3).Return(nil).Once()

	rep, err := s.Run(context.Background(), Batch{
		Job:      &Document{Filename: "job.txt"},
		Resumes:  resumes("scan.pdf", "broken.pdf"),
		Rejected: []domain.FileError{{Filename: "photo.png", Stage: "upload", Message: "unsupported"}},
	})
	require.NoError(t, err)
	assert.Empty(t, rep.Evaluations)
	require.Len(t, rep.Errors, 3)
	assert.Equal(t, "photo.png", rep.Errors[0].Filename)
	assert.Equal(t, 3, rep.Summary.Failed)
	assert.Zero(t, rep.Summary.AverageScore)
}

func TestScreeningService_Run_StoreFailureAbortsBatch(t *testing.T) {
	t.Parallel()
	s, d := newService(t, evaluatorFunc(scoreForCtx), 5)
	extractAll(d.x)
	d.sessions.EXPECT().Create(mock.Anything, mock.Anything).Return("s", nil).Once()
	d.evals.EXPECT().ClearAll(mock.Anything).Return(int64(0), nil).Once()
	d.evals.EXPECT().InsertBatch(mock.Anything, mock.Anything).Return(nil, errors.New("connection reset")).Once()
	d.sessions.EXPECT().Complete(mock.Anything, "s", domain.SessionFailed, 0, 1).Return(nil).Once()

	_, err := s.Run(context.Background(), Batch{Job: &Document{Filename: "job.txt"}, Resumes: resumes("alice.pdf")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestScreeningService_Run_ClearFailureAbortsBatch(t *testing.T) {
	t.Parallel()
	s, d := newService(t, evaluatorFunc(scoreForCtx), 5)
	extractAll(d.x)
	d.sessions.EXPECT().Create(mock.Anything, mock.Anything).Return("s", nil).Once()
	d.evals.EXPECT().ClearAll(mock.Anything).Return(int64(0), errors.New("locked")).Once()
	d.sessions.EXPECT().Complete(mock.Anything, "s", domain.SessionFailed, 0, 1).Return(nil).Once()

	_, err := s.Run(context.Background(), Batch{Job: &Document{Filename: "job.txt"}, Resumes: resumes("alice.pdf")})
	assert.Error(t, err)
}

func TestScreeningService_Run_PublishFailureIsNotFatal(t *testing.T) {
	t.Parallel()
	s, d := newService(t, evaluatorFunc(scoreForCtx), 5)
	extractAll(d.x)
	d.sessions.EXPECT().Create(mock.Anything, mock.Anything).Return("s", nil).Once()
	d.evals.EXPECT().ClearAll(mock.Anything).Return(int64(0), nil).Once()
	d.evals.EXPECT().InsertBatch(mock.Anything, mock.Anything).Return([]string{"e1"}, nil).Once()
	d.pub.EXPECT().PublishEvaluationCompleted(mock.Anything, "s", mock.Anything).Return(errors.New("broker down")).Once()
	d.sessions.EXPECT().Complete(mock.Anything, "s", domain.SessionCompleted, 1, 0).Return(nil).Once()

	rep, err := s.Run(context.Background(), Batch{Job: &Document{Filename: "job.txt"}, Resumes: resumes("alice.pdf")})
	require.NoError(t, err)
	assert.Len(t, rep.Evaluations, 1)
}

func TestProject(t *testing.T) {
	t.Parallel()
	got := Project("s", "a.pdf", domain.EvaluationResult{CandidateName: "A", OverallScore: 140, QualificationTag: domain.TagQualified})
	assert.Equal(t, 100, got.OverallScore)
	assert.Equal(t, "Strengths: ", got.Feedback)
	assert.Equal(t, "a.pdf", got.ResumeFilename)

	got = Project("s", "a.pdf", domain.EvaluationResult{OverallScore: -3})
	assert.Equal(t, 0, got.OverallScore)
}

func TestNextTimestamp(t *testing.T) {
	t.Parallel()
	fixed := time.Date(2026, 3, 1, 9, 0, 0, 123456789, time.UTC)
	s := &ScreeningService{now: func() time.Time { return fixed }}

	first := s.nextTimestamp(time.Time{})
	assert.Equal(t, fixed.Truncate(time.Microsecond), first)
	second := s.nextTimestamp(first)
	assert.Equal(t, first.Add(time.Microsecond), second)
}

func TestJobTitle(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Data Engineer", jobTitle("\n  Data Engineer  \nDetails"))
	assert.Empty(t, jobTitle("   \n"))
	long := make([]rune, 200)
	for i := range long {
		long[i] = 'x'
	}
	assert.Len(t, []rune(jobTitle(string(long))), 120)
}
