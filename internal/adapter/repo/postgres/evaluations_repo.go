package postgres

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fairyhunter13/ai-resume-screener/internal/domain"
)

const evaluationColumns = `id, COALESCE(session_id::text, ''), candidate_name, resume_filename, overall_score, qualification_tag, explanation, feedback, result, evaluated_at`

// EvaluationRepo persists and loads stored evaluations.
type EvaluationRepo struct{ Pool PgxPool }

// NewEvaluationRepo constructs an EvaluationRepo with the given pool.
func NewEvaluationRepo(p PgxPool) *EvaluationRepo { return &EvaluationRepo{Pool: p} }

func dbAttrs(op string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", op),
		attribute.String("db.sql.table", "evaluations"),
	}
}

// InsertBatch stores evals in one statement, preserving order and timestamps.
// Missing ids are generated; the ids are returned in input order.
func (r *EvaluationRepo) InsertBatch(ctx domain.Context, evals []domain.StoredEvaluation) ([]string, error) {
	tracer := otel.Tracer("repo.evaluations")
	ctx, span := tracer.Start(ctx, "evaluations.InsertBatch")
	defer span.End()
	span.SetAttributes(append(dbAttrs("INSERT"), attribute.Int("batch.size", len(evals)))...)
	if len(evals) == 0 {
		return []string{}, nil
	}

	const cols = 10
	ids := make([]string, len(evals))
	args := make([]any, 0, len(evals)*cols)
	values := make([]string, 0, len(evals))
	for i, ev := range evals {
		id := ev.ID
		if id == "" {
			id = uuid.New().String()
		}
		ids[i] = id
		body, err := json.Marshal(ev.Result)
		if err != nil {
			return nil, fmt.Errorf("op=evaluation.insert_batch: %w", err)
		}
		var sessionID *string
		if ev.SessionID != "" {
			sessionID = &ev.SessionID
		}
		at := ev.EvaluatedAt
		if at.IsZero() {
			at = time.Now().UTC()
		}
		base := i * cols
		ph := make([]string, cols)
		for j := range ph {
			ph[j] = fmt.Sprintf("$%d", base+j+1)
		}
		values = append(values, "("+strings.Join(ph, ",")+")")
		args = append(args, id, sessionID, ev.CandidateName, ev.ResumeFilename, ev.OverallScore,
			ev.QualificationTag, ev.Explanation, ev.Feedback, body, at)
	}
	q := `INSERT INTO evaluations (id, session_id, candidate_name, resume_filename, overall_score, qualification_tag, explanation, feedback, result, evaluated_at) VALUES ` +
		strings.Join(values, ",")
	if _, err := r.Pool.Exec(ctx, q, args...); err != nil {
		return nil, fmt.Errorf("op=evaluation.insert_batch: %w", err)
	}
	return ids, nil
}

// ClearAll deletes every stored evaluation and returns how many were removed.
func (r *EvaluationRepo) ClearAll(ctx domain.Context) (int64, error) {
	tracer := otel.Tracer("repo.evaluations")
	ctx, span := tracer.Start(ctx, "evaluations.ClearAll")
	defer span.End()
	span.SetAttributes(dbAttrs("DELETE")...)
	tag, err := r.Pool.Exec(ctx, `DELETE FROM evaluations`)
	if err != nil {
		return 0, fmt.Errorf("op=evaluation.clear_all: %w", err)
	}
	return tag.RowsAffected(), nil
}

// List returns evaluations ranked by score, highest first; ties keep insertion order.
func (r *EvaluationRepo) List(ctx domain.Context, limit, offset int) ([]domain.StoredEvaluation, error) {
	tracer := otel.Tracer("repo.evaluations")
	ctx, span := tracer.Start(ctx, "evaluations.List")
	defer span.End()
	span.SetAttributes(dbAttrs("SELECT")...)
	q := `SELECT ` + evaluationColumns + ` FROM evaluations ORDER BY overall_score DESC, evaluated_at ASC LIMIT $1 OFFSET $2`
	return r.query(ctx, "op=evaluation.list", q, limit, offset)
}

// ListBySession returns the evaluations of one session, ranked by score.
func (r *EvaluationRepo) ListBySession(ctx domain.Context, sessionID string) ([]domain.StoredEvaluation, error) {
	tracer := otel.Tracer("repo.evaluations")
	ctx, span := tracer.Start(ctx, "evaluations.ListBySession")
	defer span.End()
	span.SetAttributes(dbAttrs("SELECT")...)
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil, fmt.Errorf("op=evaluation.list_by_session: %w: session id", domain.ErrInvalidArgument)
	}
	q := `SELECT ` + evaluationColumns + ` FROM evaluations WHERE session_id=$1 ORDER BY overall_score DESC, evaluated_at ASC`
	return r.query(ctx, "op=evaluation.list_by_session", q, sessionID)
}

// ListByCandidate returns evaluations whose candidate name matches case-insensitively, newest first.
func (r *EvaluationRepo) ListByCandidate(ctx domain.Context, name string) ([]domain.StoredEvaluation, error) {
	tracer := otel.Tracer("repo.evaluations")
	ctx, span := tracer.Start(ctx, "evaluations.ListByCandidate")
	defer span.End()
	span.SetAttributes(dbAttrs("SELECT")...)
	q := `SELECT ` + evaluationColumns + ` FROM evaluations WHERE lower(candidate_name)=lower($1) ORDER BY evaluated_at DESC`
	return r.query(ctx, "op=evaluation.list_by_candidate", q, name)
}

// Stats aggregates counts per tag and score extremes.
func (r *EvaluationRepo) Stats(ctx domain.Context) (domain.Stats, error) {
	tracer := otel.Tracer("repo.evaluations")
	ctx, span := tracer.Start(ctx, "evaluations.Stats")
	defer span.End()
	span.SetAttributes(dbAttrs("SELECT")...)
	q := `SELECT COUNT(*),
	COUNT(*) FILTER (WHERE qualification_tag=$1),
	COUNT(*) FILTER (WHERE qualification_tag=$2),
	COUNT(*) FILTER (WHERE qualification_tag=$3),
	COALESCE(ROUND(AVG(overall_score)::numeric, 2), 0)::float8,
	COALESCE(MAX(overall_score), 0),
	COALESCE(MIN(overall_score), 0)
	FROM evaluations`
	var s domain.Stats
	row := r.Pool.QueryRow(ctx, q, domain.TagQualified, domain.TagNotQualified, domain.TagOverqualified)
	if err := row.Scan(&s.Total, &s.Qualified, &s.NotQualified, &s.Overqualified, &s.AverageScore, &s.HighestScore, &s.LowestScore); err != nil {
		return domain.Stats{}, fmt.Errorf("op=evaluation.stats: %w", err)
	}
	return s, nil
}

func (r *EvaluationRepo) query(ctx domain.Context, op, q string, args ...any) ([]domain.StoredEvaluation, error) {
	rows, err := r.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	out := []domain.StoredEvaluation{}
	for rows.Next() {
		ev, err := scanEvaluation(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func scanEvaluation(row pgx.Row) (domain.StoredEvaluation, error) {
	var ev domain.StoredEvaluation
	var body []byte
	if err := row.Scan(&ev.ID, &ev.SessionID, &ev.CandidateName, &ev.ResumeFilename, &ev.OverallScore,
		&ev.QualificationTag, &ev.Explanation, &ev.Feedback, &body, &ev.EvaluatedAt); err != nil {
		return domain.StoredEvaluation{}, err
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &ev.Result); err != nil {
			return domain.StoredEvaluation{}, fmt.Errorf("decode result: %w", err)
		}
	}
	return ev, nil
}
