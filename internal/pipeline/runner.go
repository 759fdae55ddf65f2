package pipeline

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/fairyhunter13/ai-resume-screener/internal/adapter/ai"
	"github.com/fairyhunter13/ai-resume-screener/internal/adapter/observability"
	"github.com/fairyhunter13/ai-resume-screener/internal/domain"
	obsctx "github.com/fairyhunter13/ai-resume-screener/internal/observability"
)

// CredentialSource hands out credentials and records their failures.
// *credential.Pool implements it.
type CredentialSource interface {
	RandomAvailable() domain.Credential
	MarkFailed(c domain.Credential)
	Rotate() domain.Credential
}

// Truncator bounds raw input text to a token budget.
type Truncator interface {
	Truncate(text, model string, maxTokens int) (string, bool)
}

// RunnerConfig tunes the chat requests issued by a Runner.
type RunnerConfig struct {
	Model          string
	MaxTokens      int
	MaxInputTokens int
	Truncator      Truncator
}

// Runner executes the stages of one resume in dependency order.
type Runner struct {
	creds    CredentialSource
	client   domain.ChatClient
	personas Personas
	cfg      RunnerConfig
}

// NewRunner wires a runner. A nil personas map selects the embedded catalogue.
func NewRunner(creds CredentialSource, client domain.ChatClient, personas Personas, cfg RunnerConfig) *Runner {
	if personas == nil {
		personas = DefaultPersonas()
	}
	return &Runner{creds: creds, client: client, personas: personas, cfg: cfg}
}

// Run executes every stage for in and returns the populated state.
// On failure the state holds the outputs produced before the failing stage.
func (r *Runner) Run(ctx domain.Context, in Input) (*State, error) {
	s := NewState(in)
	return s, r.RunFrom(ctx, s, StageResumeExtraction)
}

// RunFrom re-executes stage from and every later stage, reusing earlier outputs in s.
func (r *Runner) RunFrom(ctx domain.Context, s *State, from StageID) error {
	start := indexOf(from)
	if start < 0 {
		return fmt.Errorf("%w: unknown stage %q", domain.ErrInvalidArgument, from)
	}
	s.Reset(from)
	for _, id := range Order[start:] {
		if err := r.runStage(ctx, s, id); err != nil {
			return err
		}
	}
	r.finalize(s)
	return nil
}

func (r *Runner) runStage(ctx domain.Context, s *State, id StageID) error {
	if err := s.missingDependency(id); err != nil {
		return &domain.StageError{Stage: string(id), Err: err}
	}
	cred := r.credentialFor(s)

	tracer := otel.Tracer("pipeline.runner")
	ctx, span := tracer.Start(ctx, "Runner."+string(id))
	defer span.End()
	span.SetAttributes(attribute.String("stage", string(id)), attribute.Int("credential.index", cred.Index))

	lg := obsctx.LoggerFromContext(ctx)
	req := domain.ChatRequest{
		SystemPrompt: r.personas[id].SystemPrompt(),
		UserPrompt:   BuildUserPrompt(id, s, r.bounded(ctx, s.Input.ResumeText, "resume"), r.bounded(ctx, s.Input.JobText, "job")),
		MaxTokens:    r.cfg.MaxTokens,
		Operation:    string(id),
	}

	began := time.Now()
	text, err := r.client.Complete(ctx, cred, req)
	observability.ObserveChat(string(id), time.Since(began), err)
	if err == nil {
		err = r.store(s, id, text)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		lg.Error("pipeline stage failed",
			slog.String("stage", string(id)),
			slog.String("file", s.Input.Filename),
			slog.Int("credential", cred.Index),
			slog.Any("error", err))
		return &domain.StageError{Stage: string(id), Credential: cred, Err: err}
	}
	lg.Debug("pipeline stage completed",
		slog.String("stage", string(id)),
		slog.String("file", s.Input.Filename),
		slog.Duration("duration", time.Since(began)))
	return nil
}

func (r *Runner) credentialFor(s *State) domain.Credential {
	if s.pinned != nil {
		return *s.pinned
	}
	return r.creds.RandomAvailable()
}

// bounded truncates raw document text to the configured input budget.
func (r *Runner) bounded(ctx domain.Context, text, kind string) string {
	if r.cfg.Truncator == nil || r.cfg.MaxInputTokens <= 0 {
		return text
	}
	out, cut := r.cfg.Truncator.Truncate(text, r.cfg.Model, r.cfg.MaxInputTokens)
	if cut {
		obsctx.LoggerFromContext(ctx).Warn("input truncated to token budget",
			slog.String("kind", kind),
			slog.Int("max_tokens", r.cfg.MaxInputTokens))
	}
	return out
}

// store parses, validates and decodes the response text of stage id into s.
func (r *Runner) store(s *State, id StageID, text string) error {
	raw, err := ai.FirstJSONObject(text)
	if err != nil {
		return err
	}
	if err := ValidateStageOutput(id, raw); err != nil {
		return err
	}
	switch id {
	case StageResumeExtraction:
		var v domain.ResumeRecord
		if err := decode(raw, &v); err != nil {
			return err
		}
		v.Normalize()
		s.Resume = &v
	case StageJobExtraction:
		var v domain.JobRequirement
		if err := decode(raw, &v); err != nil {
			return err
		}
		s.Job = &v
	case StageEvaluation:
		var v domain.EvaluationResult
		if err := decode(raw, &v); err != nil {
			return err
		}
		v.Normalize()
		v.QualificationTag = ResolveTag(int(v.OverallScore), v.QualificationTag, v.CriticalRequirementsUnmet)
		s.Scored = &v
		// later stages read the rule-checked tag
		if b, err := json.Marshal(v); err == nil {
			raw = b
		}
	case StageInterviewDesign:
		var v domain.InterviewPlan
		if err := decode(raw, &v); err != nil {
			return err
		}
		s.Interview = &v
	case StageQualityReview:
		var v domain.EvaluationResult
		if err := decode(raw, &v); err != nil {
			return err
		}
		v.Normalize()
		s.Final = &v
	}
	s.Raw[id] = raw
	return nil
}

// finalize enforces the name sentinel and the qualification rule on the final record.
func (r *Runner) finalize(s *State) {
	f := s.Final
	if f == nil {
		return
	}
	if strings.TrimSpace(f.CandidateName) == "" {
		f.CandidateName = domain.UnknownCandidate
	}
	unmet := f.CriticalRequirementsUnmet
	if len(unmet) == 0 && s.Scored != nil {
		unmet = s.Scored.CriticalRequirementsUnmet
	}
	f.QualificationTag = ResolveTag(int(f.OverallScore), f.QualificationTag, unmet)
	if f.InterviewQuestions.Empty() && s.Interview != nil {
		f.InterviewQuestions = s.Interview.InterviewQuestions
		f.Normalize()
	}
}

func decode(raw []byte, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSchemaInvalid, err)
	}
	return nil
}
