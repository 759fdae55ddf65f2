package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpserver "github.com/fairyhunter13/ai-resume-screener/internal/adapter/httpserver"
	"github.com/fairyhunter13/ai-resume-screener/internal/adapter/observability"
	"github.com/fairyhunter13/ai-resume-screener/internal/config"
)

// readTimeout bounds every route except batch screening, which runs the
// whole pipeline inside the request.
const readTimeout = 30 * time.Second

// ParseOrigins splits a comma-separated origin list into a slice, trimming spaces.
// If the input is empty, returns ["*"].
func ParseOrigins(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "*" {
		return []string{"*"}
	}
	out := make([]string, 0, 4)
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// BuildRouter constructs the HTTP handler with all middlewares and routes.
func BuildRouter(cfg config.Config, srv *httpserver.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(httpserver.Recoverer())
	r.Use(httpserver.RequestID())
	r.Use(httpserver.TraceMiddleware)
	r.Use(httpserver.AccessLog())
	r.Use(observability.HTTPMetricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   ParseOrigins(cfg.CORSAllowOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Request-Id", "Retry-After", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Mutating endpoints are rate limited per client IP.
	r.Group(func(wr chi.Router) {
		if cfg.RateLimitPerMin > 0 {
			wr.Use(httprate.LimitByIP(cfg.RateLimitPerMin, time.Minute))
		}
		wr.Post("/v1/screenings", srv.ScreeningHandler())
		wr.Group(func(tr chi.Router) {
			tr.Use(httpserver.TimeoutMiddleware(readTimeout))
			tr.Put("/v1/job-description", srv.JobDescriptionHandler())
			tr.With(httpserver.AdminGuard(cfg)).Delete("/v1/results", srv.ClearResultsHandler())
		})
	})

	r.Group(func(rr chi.Router) {
		rr.Use(httpserver.TimeoutMiddleware(readTimeout))
		rr.Get("/v1/results", srv.ResultsHandler())
		rr.Get("/v1/results/stats", srv.StatsHandler())
		rr.Get("/v1/results/export/{format}", srv.ExportHandler())
		rr.Get("/v1/candidates/{name}/results", srv.CandidateResultsHandler())
		rr.Get("/v1/sessions", srv.SessionsHandler())
		rr.Get("/v1/sessions/{id}", srv.SessionHandler())
	})

	r.Get("/healthz", srv.HealthzHandler())
	r.Get("/readyz", srv.ReadyzHandler())
	r.Handle("/metrics", promhttp.Handler())

	return httpserver.SecurityHeaders(r)
}
