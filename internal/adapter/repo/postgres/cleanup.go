package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fairyhunter13/ai-resume-screener/internal/domain"
)

// CleanupService prunes sessions older than the retention window.
// Evaluations of a pruned session keep their rows with a NULL session.
type CleanupService struct {
	Pool          PgxPool
	RetentionDays int
	now           func() time.Time
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(pool PgxPool, retentionDays int) *CleanupService {
	if retentionDays <= 0 {
		retentionDays = 90 // default 90 days
	}
	return &CleanupService{Pool: pool, RetentionDays: retentionDays, now: time.Now}
}

// CleanupOldData removes finished sessions older than the retention period.
func (s *CleanupService) CleanupOldData(ctx context.Context) (int64, error) {
	cutoff := s.now().AddDate(0, 0, -s.RetentionDays)
	tag, err := s.Pool.Exec(ctx, `DELETE FROM evaluation_sessions WHERE started_at < $1 AND status <> $2`, cutoff, string(domain.SessionRunning))
	if err != nil {
		return 0, fmt.Errorf("op=postgres.cleanup: %w", err)
	}
	slog.Info("data cleanup completed",
		slog.Int64("deleted_sessions", tag.RowsAffected()),
		slog.Time("cutoff", cutoff),
	)
	return tag.RowsAffected(), nil
}

// RunPeriodic starts a periodic cleanup job
func (s *CleanupService) RunPeriodic(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 24 * time.Hour // daily by default
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if _, err := s.CleanupOldData(ctx); err != nil {
		slog.Error("initial cleanup failed", slog.Any("error", err))
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("cleanup service stopping")
			return
		case <-ticker.C:
			if _, err := s.CleanupOldData(ctx); err != nil {
				slog.Error("periodic cleanup failed", slog.Any("error", err))
			}
		}
	}
}
