package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/fairyhunter13/ai-resume-screener/internal/config"
	"github.com/fairyhunter13/ai-resume-screener/internal/service/ratelimiter"
	"github.com/fairyhunter13/ai-resume-screener/internal/usecase"
)

// Screener runs a screening batch.
type Screener interface {
	Run(ctx context.Context, b usecase.Batch) (usecase.Report, error)
}

// Check probes one dependency for readiness.
type Check func(ctx context.Context) error

// Server aggregates handler dependencies.
type Server struct {
	Cfg       config.Config
	Screening Screener
	Results   usecase.ResultService
	JobDescs  usecase.JobDescriptionService
	// Quota meters resumes per workspace; nil disables it.
	Quota      ratelimiter.Limiter
	DBCheck    Check
	RedisCheck Check
	TikaCheck  Check
	now        func() time.Time
}

// NewServer constructs an HTTP server with all handlers and checks wired.
func NewServer(cfg config.Config, screening Screener, results usecase.ResultService, jobDescs usecase.JobDescriptionService, quota ratelimiter.Limiter, dbCheck, redisCheck, tikaCheck Check) *Server {
	return &Server{
		Cfg: cfg, Screening: screening, Results: results, JobDescs: jobDescs, Quota: quota,
		DBCheck: dbCheck, RedisCheck: redisCheck, TikaCheck: tikaCheck, now: time.Now,
	}
}

func (s *Server) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// acceptsJSON rejects clients that cannot read a JSON response.
func acceptsJSON(w http.ResponseWriter, r *http.Request) bool {
	a := r.Header.Get("Accept")
	if a == "" || strings.Contains(a, "*/*") || strings.Contains(a, "application/json") {
		return true
	}
	writeJSON(w, http.StatusNotAcceptable, errorEnvelope{Error: apiError{Code: "INVALID_ARGUMENT", Message: "not acceptable", Details: map[string]any{"accept": a}}})
	return false
}
