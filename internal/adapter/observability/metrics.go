package observability

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15, 60, 300},
		},
		[]string{"route", "method"},
	)

	AIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_requests_total",
			Help: "Total number of chat requests by stage and outcome",
		},
		[]string{"stage", "outcome"},
	)
	AIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_request_duration_seconds",
			Help:    "Chat request duration in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80, 120},
		},
		[]string{"stage"},
	)

	CredentialFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "credential_failures_total",
			Help: "Credentials marked failed",
		},
	)
	CredentialPoolResetsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "credential_pool_resets_total",
			Help: "Times every credential was failed and the pool was reset",
		},
	)
	PipelineRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_retries_total",
			Help: "Partial pipeline re-runs by trigger",
		},
		[]string{"trigger"},
	)
	ValidationFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "validation_failures_total",
			Help: "Failed consistency predicates by section.predicate",
		},
		[]string{"predicate"},
	)

	ResumesProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resumes_processed_total",
			Help: "Resumes processed by outcome",
		},
		[]string{"outcome"},
	)
	EvaluationsByTagTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evaluations_by_tag_total",
			Help: "Stored evaluations by qualification tag",
		},
		[]string{"tag"},
	)
	OverallScoreHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "evaluation_overall_score",
			Help:    "Distribution of overall_score ([0,100])",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)
	EventsPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Evaluation events published by outcome",
		},
		[]string{"outcome"},
	)
	AIPromptTokens = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_prompt_tokens",
			Help:    "Estimated prompt tokens per chat call by stage",
			Buckets: prometheus.ExponentialBuckets(256, 2, 8),
		},
		[]string{"stage"},
	)
	ScoreDriftGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "evaluation_score_drift",
			Help: "Absolute drift of the recent average overall_score from the previous batch",
		},
		[]string{"model"},
	)
)

func InitMetrics() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(AIRequestsTotal)
	prometheus.MustRegister(AIRequestDuration)
	prometheus.MustRegister(CredentialFailuresTotal)
	prometheus.MustRegister(CredentialPoolResetsTotal)
	prometheus.MustRegister(PipelineRetriesTotal)
	prometheus.MustRegister(ValidationFailuresTotal)
	prometheus.MustRegister(ResumesProcessedTotal)
	prometheus.MustRegister(EvaluationsByTagTotal)
	prometheus.MustRegister(OverallScoreHistogram)
	prometheus.MustRegister(EventsPublishedTotal)
	prometheus.MustRegister(ScoreDriftGauge)
	prometheus.MustRegister(AIPromptTokens)
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}
		HTTPRequestsTotal.WithLabelValues(route, r.Method, http.StatusText(ww.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(dur)
	})
}

// ObserveChat records one chat call for a pipeline stage.
func ObserveChat(stage string, dur time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	AIRequestsTotal.WithLabelValues(stage, outcome).Inc()
	AIRequestDuration.WithLabelValues(stage).Observe(dur.Seconds())
}

// ObservePromptTokens records the estimated prompt size of one chat call.
func ObservePromptTokens(stage string, tokens int) {
	AIPromptTokens.WithLabelValues(stage).Observe(float64(tokens))
}

// RecordRetry counts a partial pipeline re-run.
func RecordRetry(trigger string) {
	PipelineRetriesTotal.WithLabelValues(trigger).Inc()
}

// RecordValidationFailures counts each failed consistency predicate.
func RecordValidationFailures(failed []string) {
	for _, p := range failed {
		ValidationFailuresTotal.WithLabelValues(p).Inc()
	}
}

// RecordResumeOutcome counts a processed resume as "succeeded" or "failed".
func RecordResumeOutcome(ok bool) {
	if ok {
		ResumesProcessedTotal.WithLabelValues("succeeded").Inc()
		return
	}
	ResumesProcessedTotal.WithLabelValues("failed").Inc()
}

// ObserveEvaluation records the final score and tag of a stored evaluation.
func ObserveEvaluation(score int, tag string) {
	if score >= 0 && score <= 100 {
		OverallScoreHistogram.Observe(float64(score))
	}
	EvaluationsByTagTotal.WithLabelValues(tag).Inc()
}

// RecordEventPublished counts one published (or failed) evaluation event.
func RecordEventPublished(err error) {
	if err != nil {
		EventsPublishedTotal.WithLabelValues("error").Inc()
		return
	}
	EventsPublishedTotal.WithLabelValues("ok").Inc()
}
