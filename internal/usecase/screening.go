// Package usecase contains application business logic services.
package usecase

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fairyhunter13/ai-resume-screener/internal/adapter/observability"
	"github.com/fairyhunter13/ai-resume-screener/internal/domain"
	obsctx "github.com/fairyhunter13/ai-resume-screener/internal/observability"
	"github.com/fairyhunter13/ai-resume-screener/internal/pipeline"
)

// Evaluator runs the resume pipeline for one input.
type Evaluator interface {
	Evaluate(ctx domain.Context, in pipeline.Input) (pipeline.Outcome, error)
}

// Document is an uploaded file already stored at Path.
type Document struct {
	Filename string
	Path     string
}

// Batch is one screening request.
type Batch struct {
	Workspace string
	// Job may be nil when RetainJobDescription is set and a stored description exists.
	Job                  *Document
	Resumes              []Document
	RetainJobDescription bool
	// Rejected lists uploads refused before extraction. They are reported
	// with the batch and counted as failures.
	Rejected []domain.FileError
}

// Summary aggregates one batch run.
type Summary struct {
	Processed    int            `json:"processed"`
	Failed       int            `json:"failed"`
	AverageScore float64        `json:"average_score"`
	Tags         map[string]int `json:"tags"`
	Duration     time.Duration  `json:"duration_ns"`
}

// Report is the outcome of a batch.
type Report struct {
	SessionID   string                    `json:"session_id"`
	Evaluations []domain.StoredEvaluation `json:"evaluations"`
	Errors      []domain.FileError        `json:"errors"`
	Summary     Summary                   `json:"summary"`
}

// ScreeningService evaluates a batch of resumes against one job description
// and replaces the stored results with the new batch.
type ScreeningService struct {
	Extractor  domain.TextExtractor
	Evaluator  Evaluator
	Evals      domain.EvaluationRepository
	Sessions   domain.SessionRepository
	JobDescs   domain.JobDescriptionStore
	Publisher  domain.EventPublisher
	Drift      *observability.ScoreDriftMonitor
	MaxResumes int
	now        func() time.Time
}

// NewScreeningService constructs a ScreeningService. JobDescs, Publisher and
// Drift may be nil.
func NewScreeningService(x domain.TextExtractor, ev Evaluator, evals domain.EvaluationRepository, sessions domain.SessionRepository, jobDescs domain.JobDescriptionStore, pub domain.EventPublisher, drift *observability.ScoreDriftMonitor, maxResumes int) *ScreeningService {
	if maxResumes <= 0 {
		maxResumes = 50
	}
	return &ScreeningService{
		Extractor: x, Evaluator: ev, Evals: evals, Sessions: sessions, JobDescs: jobDescs,
		Publisher: pub, Drift: drift, MaxResumes: maxResumes, now: time.Now,
	}
}

// Run screens every resume in b. Per-resume failures are reported in
// Report.Errors and do not stop the batch; errors returned here abort it.
func (s *ScreeningService) Run(ctx domain.Context, b Batch) (Report, error) {
	tracer := otel.Tracer("usecase.screening")
	ctx, span := tracer.Start(ctx, "ScreeningService.Run")
	defer span.End()
	span.SetAttributes(attribute.Int("resumes", len(b.Resumes)), attribute.String("workspace", b.Workspace))

	lg := obsctx.LoggerFromContext(ctx)
	start := s.now()

	if len(b.Resumes) == 0 {
		return Report{}, fmt.Errorf("op=screening.run: %w: at least one resume is required", domain.ErrInvalidArgument)
	}
	if n := len(b.Resumes) + len(b.Rejected); n > s.MaxResumes {
		return Report{}, fmt.Errorf("op=screening.run: %w: %d resumes exceeds the limit of %d", domain.ErrInvalidArgument, n, s.MaxResumes)
	}
	jobText, jobFile, err := s.jobDescription(ctx, b)
	if err != nil {
		return Report{}, err
	}

	sessionID, err := s.Sessions.Create(ctx, domain.Session{
		JobTitle:     jobTitle(jobText),
		JobFilename:  jobFile,
		TotalResumes: len(b.Resumes) + len(b.Rejected),
		Status:       domain.SessionRunning,
		StartedAt:    start.UTC(),
	})
	if err != nil {
		return Report{}, fmt.Errorf("op=screening.run: %w", err)
	}
	ctx, lg = obsctx.WithAttrs(ctx, slog.String("session_id", sessionID))

	if s.Drift != nil {
		if prev, err := s.Evals.Stats(ctx); err == nil {
			s.Drift.SetBaseline(prev.AverageScore, prev.Total)
		}
	}
	cleared, err := s.Evals.ClearAll(ctx)
	if err != nil {
		s.fail(ctx, sessionID, 0, len(b.Resumes)+len(b.Rejected))
		return Report{}, fmt.Errorf("op=screening.run: clear previous results: %w", err)
	}
	lg.Info("previous results cleared", slog.Int64("deleted", cleared))

	rep := Report{SessionID: sessionID, Evaluations: []domain.StoredEvaluation{}, Errors: append([]domain.FileError{}, b.Rejected...)}
	var last time.Time
	for i, doc := range b.Resumes {
		lg.Info("processing resume", slog.Int("index", i+1), slog.Int("total", len(b.Resumes)), slog.String("file", doc.Filename))
		ev, ferr := s.evaluateOne(ctx, sessionID, doc, jobText)
		observability.RecordResumeOutcome(ferr == nil)
		if ferr != nil {
			lg.Error("resume failed", slog.String("file", doc.Filename), slog.String("stage", ferr.Stage), slog.String("error", ferr.Message))
			rep.Errors = append(rep.Errors, *ferr)
			continue
		}
		ev.EvaluatedAt = s.nextTimestamp(last)
		last = ev.EvaluatedAt
		rep.Evaluations = append(rep.Evaluations, ev)
	}

	if len(rep.Evaluations) > 0 {
		ids, err := s.Evals.InsertBatch(ctx, rep.Evaluations)
		if err != nil {
			s.fail(ctx, sessionID, 0, len(b.Resumes)+len(b.Rejected))
			return rep, fmt.Errorf("op=screening.run: store evaluations: %w", err)
		}
		for i := range rep.Evaluations {
			if i < len(ids) {
				rep.Evaluations[i].ID = ids[i]
			}
			observability.ObserveEvaluation(rep.Evaluations[i].OverallScore, rep.Evaluations[i].QualificationTag)
			if s.Drift != nil {
				s.Drift.RecordScore(float64(rep.Evaluations[i].OverallScore))
			}
		}
		s.publish(ctx, sessionID, rep.Evaluations)
	}

	status := domain.SessionCompleted
	if len(rep.Evaluations) == 0 {
		status = domain.SessionFailed
	}
	if err := s.Sessions.Complete(ctx, sessionID, status, len(rep.Evaluations), len(rep.Errors)); err != nil {
		lg.Error("failed to complete session", slog.Any("error", err))
	}

	rep.Summary = summarize(rep, s.now().Sub(start))
	lg.Info("batch summary",
		slog.Int("processed", rep.Summary.Processed),
		slog.Int("failed", rep.Summary.Failed),
		slog.Float64("average_score", rep.Summary.AverageScore),
		slog.Any("tags", rep.Summary.Tags),
		slog.Duration("duration", rep.Summary.Duration))
	return rep, nil
}

func (s *ScreeningService) jobDescription(ctx domain.Context, b Batch) (string, string, error) {
	if b.Job != nil {
		text, err := s.Extractor.ExtractPath(ctx, b.Job.Filename, b.Job.Path)
		if err != nil {
			return "", "", fmt.Errorf("op=screening.job_description: %w", err)
		}
		if b.RetainJobDescription && s.JobDescs != nil {
			if err := s.JobDescs.Save(ctx, b.Workspace, text); err != nil {
				obsctx.LoggerFromContext(ctx).Warn("failed to retain job description", slog.Any("error", err))
			}
		}
		return text, b.Job.Filename, nil
	}
	if !b.RetainJobDescription || s.JobDescs == nil {
		return "", "", fmt.Errorf("op=screening.job_description: %w: job description is required", domain.ErrInvalidArgument)
	}
	text, err := s.JobDescs.Load(ctx, b.Workspace)
	if errors.Is(err, domain.ErrNotFound) {
		return "", "", fmt.Errorf("op=screening.job_description: %w: no retained job description", domain.ErrInvalidArgument)
	}
	if err != nil {
		return "", "", fmt.Errorf("op=screening.job_description: %w", err)
	}
	return text, "", nil
}

func (s *ScreeningService) evaluateOne(ctx domain.Context, sessionID string, doc Document, jobText string) (domain.StoredEvaluation, *domain.FileError) {
	ctx, _ = obsctx.WithAttrs(ctx, slog.String("file", doc.Filename))
	text, err := s.Extractor.ExtractPath(ctx, doc.Filename, doc.Path)
	if err != nil {
		return domain.StoredEvaluation{}, &domain.FileError{Filename: doc.Filename, Stage: "extraction", Message: err.Error()}
	}
	out, err := s.Evaluator.Evaluate(ctx, pipeline.Input{Filename: doc.Filename, ResumeText: text, JobText: jobText})
	if err != nil {
		return domain.StoredEvaluation{}, &domain.FileError{Filename: doc.Filename, Stage: domain.StageOf(err), Message: err.Error()}
	}
	ev := Project(sessionID, doc.Filename, out.Final)
	obsctx.LoggerFromContext(ctx).Info("data flow check",
		slog.Bool("name_extracted", ev.CandidateName != "" && ev.CandidateName != domain.UnknownCandidate),
		slog.Bool("score_valid", int(out.Final.OverallScore) == ev.OverallScore),
		slog.Bool("tag_valid", domain.ValidTag(ev.QualificationTag)),
		slog.Bool("has_recommendations", strings.TrimSpace(ev.Explanation) != ""),
		slog.Bool("has_strengths", len(out.Final.Strengths) > 0),
		slog.String("validation", out.Report.OverallStatus),
		slog.Bool("content_retried", out.ContentRetried),
		slog.Bool("credential_retried", out.CredentialRetried),
		slog.Int("advisory_experience", out.Advisory.ExperienceScore),
		slog.Int("advisory_skills", out.Advisory.SkillScore))
	return ev, nil
}

// Project maps a final evaluation to its stored form. The score is clamped to [0,100].
func Project(sessionID, filename string, final domain.EvaluationResult) domain.StoredEvaluation {
	score := min(max(int(final.OverallScore), 0), 100)
	return domain.StoredEvaluation{
		SessionID:        sessionID,
		CandidateName:    final.CandidateName,
		ResumeFilename:   filename,
		OverallScore:     score,
		QualificationTag: final.QualificationTag,
		Explanation:      final.Recommendations,
		Feedback:         "Strengths: " + strings.Join(final.Strengths, ", "),
		Result:           final,
	}
}

// nextTimestamp returns now, or the smallest storable instant after last.
func (s *ScreeningService) nextTimestamp(last time.Time) time.Time {
	at := s.now().UTC().Truncate(time.Microsecond)
	if !at.After(last) {
		at = last.Add(time.Microsecond)
	}
	return at
}

func (s *ScreeningService) publish(ctx domain.Context, sessionID string, evals []domain.StoredEvaluation) {
	if s.Publisher == nil {
		return
	}
	for _, ev := range evals {
		if err := s.Publisher.PublishEvaluationCompleted(ctx, sessionID, ev); err != nil {
			obsctx.LoggerFromContext(ctx).Warn("failed to publish evaluation event", slog.String("evaluation_id", ev.ID), slog.Any("error", err))
		}
	}
}

func (s *ScreeningService) fail(ctx domain.Context, sessionID string, succeeded, failed int) {
	if err := s.Sessions.Complete(ctx, sessionID, domain.SessionFailed, succeeded, failed); err != nil {
		obsctx.LoggerFromContext(ctx).Error("failed to mark session failed", slog.Any("error", err))
	}
}

func summarize(rep Report, d time.Duration) Summary {
	sum := Summary{Processed: len(rep.Evaluations), Failed: len(rep.Errors), Tags: map[string]int{}, Duration: d}
	total := 0
	for _, e := range rep.Evaluations {
		total += e.OverallScore
		sum.Tags[e.QualificationTag]++
	}
	if sum.Processed > 0 {
		sum.AverageScore = math.Round(float64(total)/float64(sum.Processed)*100) / 100
	}
	return sum
}

// jobTitle returns the first non-empty line of the description, shortened.
func jobTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			r := []rune(line)
			if len(r) > 120 {
				r = r[:120]
			}
			return string(r)
		}
	}
	return ""
}
