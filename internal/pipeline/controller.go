package pipeline

import (
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fairyhunter13/ai-resume-screener/internal/adapter/observability"
	"github.com/fairyhunter13/ai-resume-screener/internal/domain"
	obsctx "github.com/fairyhunter13/ai-resume-screener/internal/observability"
)

// Outcome is the result of evaluating one resume.
type Outcome struct {
	State             *State
	Final             domain.EvaluationResult
	Report            domain.ValidationReport
	Advisory          Advisory
	ContentRetried    bool
	CredentialRetried bool
	NameFallback      bool
}

// Controller runs the pipeline with the placeholder-name retry and the
// credential failover retry. Each fires at most once per resume.
type Controller struct {
	runner *Runner
}

// NewController wraps r.
func NewController(r *Runner) *Controller {
	return &Controller{runner: r}
}

// Evaluate runs all stages for in and returns the final evaluation.
// A returned error is terminal for this resume only.
func (c *Controller) Evaluate(ctx domain.Context, in Input) (Outcome, error) {
	tracer := otel.Tracer("pipeline.controller")
	ctx, span := tracer.Start(ctx, "Controller.Evaluate")
	defer span.End()
	span.SetAttributes(attribute.String("file", in.Filename))

	lg := obsctx.LoggerFromContext(ctx)
	retries := domain.NewRetryState()
	s := NewState(in)
	out := Outcome{State: s}

	err := c.run(ctx, s, StageResumeExtraction, retries)
	out.CredentialRetried = retries.Fired(domain.RetryCredentialFailover)
	if err != nil {
		return out, err
	}

	if IsPlaceholderName(s.Final.CandidateName) && retries.TryFire(domain.RetryPlaceholderName) {
		observability.RecordRetry(string(domain.RetryPlaceholderName))
		lg.Warn("placeholder candidate name, re-running from evaluation",
			slog.String("file", in.Filename),
			slog.String("name", s.Final.CandidateName))
		out.ContentRetried = true
		err = c.run(ctx, s, StageEvaluation, retries)
		out.CredentialRetried = retries.Fired(domain.RetryCredentialFailover)
		if err != nil {
			return out, err
		}
	}
	if IsPlaceholderName(s.Final.CandidateName) {
		fallback := NameFromFilename(in.Filename)
		lg.Warn("placeholder name persisted, using filename",
			slog.String("file", in.Filename),
			slog.String("name", fallback))
		s.Final.CandidateName = fallback
		out.NameFallback = true
	}

	out.Final = *s.Final
	out.Report = CheckFinal(s.Raw[StageResumeExtraction], s.Raw[StageJobExtraction], s.Raw[StageQualityReview], out.Final)
	out.Advisory = Advise(s.Resume, s.Job)
	if failed := out.Report.Failed(); len(failed) > 0 {
		observability.RecordValidationFailures(failed)
		lg.Warn("consistency validation failed",
			slog.String("file", in.Filename),
			slog.Any("predicates", failed))
	}
	return out, nil
}

// run executes the pipeline from stage from. A failover-eligible failure marks
// the credential that failed, rotates, and re-runs the failed stage onward once
// on the rotated credential with the inputs already held by s.
func (c *Controller) run(ctx domain.Context, s *State, from StageID, retries *domain.RetryState) error {
	err := c.runner.RunFrom(ctx, s, from)
	if err == nil || !domain.FailoverEligible(err) {
		return err
	}
	if !retries.TryFire(domain.RetryCredentialFailover) {
		return err
	}
	var se *domain.StageError
	if !errors.As(err, &se) {
		return err
	}
	c.runner.creds.MarkFailed(se.Credential)
	next := c.runner.creds.Rotate()
	s.pinned = &next
	observability.RecordRetry(string(domain.RetryCredentialFailover))
	obsctx.LoggerFromContext(ctx).Warn("credential failover",
		slog.String("stage", se.Stage),
		slog.Int("failed_credential", se.Credential.Index),
		slog.Int("next_credential", next.Index),
		slog.Any("error", se.Err))
	return c.runner.RunFrom(ctx, s, StageID(se.Stage))
}
