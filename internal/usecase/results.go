package usecase

import (
	"fmt"
	"io"
	"strings"

	"github.com/fairyhunter13/ai-resume-screener/internal/adapter/export"
	"github.com/fairyhunter13/ai-resume-screener/internal/domain"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
	exportLimit     = 10000
)

// Dashboard is a page of ranked results with the overall statistics.
type Dashboard struct {
	Evaluations []domain.StoredEvaluation `json:"evaluations"`
	Stats       domain.Stats              `json:"stats"`
	Limit       int                       `json:"limit"`
	Offset      int                       `json:"offset"`
}

// ResultService provides read access to stored evaluations and sessions.
type ResultService struct {
	Evals    domain.EvaluationRepository
	Sessions domain.SessionRepository
}

// NewResultService constructs a ResultService with the given repositories.
func NewResultService(e domain.EvaluationRepository, s domain.SessionRepository) ResultService {
	return ResultService{Evals: e, Sessions: s}
}

// Dashboard returns ranked results, highest score first. A zero limit selects the default page size.
func (s ResultService) Dashboard(ctx domain.Context, limit, offset int) (Dashboard, error) {
	if limit < 0 || offset < 0 {
		return Dashboard{}, fmt.Errorf("op=results.dashboard: %w: negative limit or offset", domain.ErrInvalidArgument)
	}
	if limit == 0 {
		limit = defaultPageSize
	}
	limit = min(limit, maxPageSize)
	evals, err := s.Evals.List(ctx, limit, offset)
	if err != nil {
		return Dashboard{}, err
	}
	stats, err := s.Evals.Stats(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{Evaluations: evals, Stats: stats, Limit: limit, Offset: offset}, nil
}

// Stats returns the aggregate statistics.
func (s ResultService) Stats(ctx domain.Context) (domain.Stats, error) {
	return s.Evals.Stats(ctx)
}

// ByCandidate returns the evaluations of one candidate.
func (s ResultService) ByCandidate(ctx domain.Context, name string) ([]domain.StoredEvaluation, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("op=results.by_candidate: %w: candidate name required", domain.ErrInvalidArgument)
	}
	return s.Evals.ListByCandidate(ctx, name)
}

// RecentSessions lists recent sessions.
func (s ResultService) RecentSessions(ctx domain.Context, limit int) ([]domain.Session, error) {
	return s.Sessions.List(ctx, limit)
}

// SessionDetail is a session with its evaluations.
type SessionDetail struct {
	Session     domain.Session            `json:"session"`
	Evaluations []domain.StoredEvaluation `json:"evaluations"`
}

// Session returns one session and its evaluations.
func (s ResultService) Session(ctx domain.Context, id string) (SessionDetail, error) {
	sess, err := s.Sessions.Get(ctx, id)
	if err != nil {
		return SessionDetail{}, err
	}
	evals, err := s.Evals.ListBySession(ctx, id)
	if err != nil {
		return SessionDetail{}, err
	}
	return SessionDetail{Session: sess, Evaluations: evals}, nil
}

// Clear deletes every stored evaluation.
func (s ResultService) Clear(ctx domain.Context) (int64, error) {
	return s.Evals.ClearAll(ctx)
}

// Export writes all ranked results to w.
func (s ResultService) Export(ctx domain.Context, w io.Writer, f export.Format) error {
	evals, err := s.Evals.List(ctx, exportLimit, 0)
	if err != nil {
		return err
	}
	stats, err := s.Evals.Stats(ctx)
	if err != nil {
		return err
	}
	return export.Write(w, f, evals, stats)
}

// JobDescriptionService retains job descriptions per workspace.
type JobDescriptionService struct {
	Store domain.JobDescriptionStore
}

// Save stores text for workspace.
func (s JobDescriptionService) Save(ctx domain.Context, workspace, text string) error {
	if s.Store == nil {
		return fmt.Errorf("op=jobdesc.save: %w: job description store is not configured", domain.ErrConfiguration)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("op=jobdesc.save: %w: empty job description", domain.ErrInvalidArgument)
	}
	return s.Store.Save(ctx, workspace, text)
}

// Load returns the retained description for workspace.
func (s JobDescriptionService) Load(ctx domain.Context, workspace string) (string, error) {
	if s.Store == nil {
		return "", fmt.Errorf("op=jobdesc.load: %w: job description store is not configured", domain.ErrConfiguration)
	}
	return s.Store.Load(ctx, workspace)
}
