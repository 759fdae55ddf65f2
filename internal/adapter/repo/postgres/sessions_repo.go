package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fairyhunter13/ai-resume-screener/internal/domain"
)

const sessionColumns = `id, job_title, job_filename, total_resumes, succeeded, failed, status, started_at, completed_at`

// SessionRepo persists evaluation sessions.
type SessionRepo struct{ Pool PgxPool }

// NewSessionRepo constructs a SessionRepo with the given pool.
func NewSessionRepo(p PgxPool) *SessionRepo { return &SessionRepo{Pool: p} }

func sessionAttrs(op string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", op),
		attribute.String("db.sql.table", "evaluation_sessions"),
	}
}

// Create inserts a running session and returns its id.
func (r *SessionRepo) Create(ctx domain.Context, s domain.Session) (string, error) {
	tracer := otel.Tracer("repo.sessions")
	ctx, span := tracer.Start(ctx, "sessions.Create")
	defer span.End()
	span.SetAttributes(sessionAttrs("INSERT")...)
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.Status == "" {
		s.Status = domain.SessionRunning
	}
	if s.StartedAt.IsZero() {
		s.StartedAt = time.Now().UTC()
	}
	q := `INSERT INTO evaluation_sessions (id, job_title, job_filename, total_resumes, succeeded, failed, status, started_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	if _, err := r.Pool.Exec(ctx, q, s.ID, s.JobTitle, s.JobFilename, s.TotalResumes, s.Succeeded, s.Failed, string(s.Status), s.StartedAt); err != nil {
		return "", fmt.Errorf("op=session.create: %w", err)
	}
	return s.ID, nil
}

// Complete records the final counts and status of a session.
func (r *SessionRepo) Complete(ctx domain.Context, id string, status domain.SessionStatus, succeeded, failed int) error {
	tracer := otel.Tracer("repo.sessions")
	ctx, span := tracer.Start(ctx, "sessions.Complete")
	defer span.End()
	span.SetAttributes(sessionAttrs("UPDATE")...)
	q := `UPDATE evaluation_sessions SET status=$2, succeeded=$3, failed=$4, completed_at=$5 WHERE id=$1`
	tag, err := r.Pool.Exec(ctx, q, id, string(status), succeeded, failed, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("op=session.complete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("op=session.complete: %w", domain.ErrNotFound)
	}
	return nil
}

// Get loads one session.
func (r *SessionRepo) Get(ctx domain.Context, id string) (domain.Session, error) {
	tracer := otel.Tracer("repo.sessions")
	ctx, span := tracer.Start(ctx, "sessions.Get")
	defer span.End()
	span.SetAttributes(sessionAttrs("SELECT")...)
	s, err := scanSession(r.Pool.QueryRow(ctx, `SELECT `+sessionColumns+` FROM evaluation_sessions WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Session{}, fmt.Errorf("op=session.get: %w", domain.ErrNotFound)
		}
		return domain.Session{}, fmt.Errorf("op=session.get: %w", err)
	}
	return s, nil
}

// List returns the most recent sessions first.
func (r *SessionRepo) List(ctx domain.Context, limit int) ([]domain.Session, error) {
	tracer := otel.Tracer("repo.sessions")
	ctx, span := tracer.Start(ctx, "sessions.List")
	defer span.End()
	span.SetAttributes(sessionAttrs("SELECT")...)
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.Pool.Query(ctx, `SELECT `+sessionColumns+` FROM evaluation_sessions ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("op=session.list: %w", err)
	}
	defer rows.Close()
	out := []domain.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("op=session.list: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=session.list: %w", err)
	}
	return out, nil
}

func scanSession(row pgx.Row) (domain.Session, error) {
	var s domain.Session
	var status string
	if err := row.Scan(&s.ID, &s.JobTitle, &s.JobFilename, &s.TotalResumes, &s.Succeeded, &s.Failed, &status, &s.StartedAt, &s.CompletedAt); err != nil {
		return domain.Session{}, err
	}
	s.Status = domain.SessionStatus(status)
	return s, nil
}
