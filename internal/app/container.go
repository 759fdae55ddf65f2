package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/ai-resume-screener/internal/adapter/ai/real"
	"github.com/fairyhunter13/ai-resume-screener/internal/adapter/ai/tokencount"
	"github.com/fairyhunter13/ai-resume-screener/internal/adapter/cache/redisstore"
	"github.com/fairyhunter13/ai-resume-screener/internal/adapter/observability"
	"github.com/fairyhunter13/ai-resume-screener/internal/adapter/queue/redpanda"
	"github.com/fairyhunter13/ai-resume-screener/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/ai-resume-screener/internal/adapter/textextractor"
	"github.com/fairyhunter13/ai-resume-screener/internal/adapter/textextractor/tika"
	"github.com/fairyhunter13/ai-resume-screener/internal/config"
	"github.com/fairyhunter13/ai-resume-screener/internal/credential"
	"github.com/fairyhunter13/ai-resume-screener/internal/domain"
	"github.com/fairyhunter13/ai-resume-screener/internal/pipeline"
	"github.com/fairyhunter13/ai-resume-screener/internal/service/ratelimiter"
	"github.com/fairyhunter13/ai-resume-screener/internal/usecase"
)

// driftWindow and driftThreshold tune the score drift monitor.
const (
	driftWindow    = 50
	driftThreshold = 10.0
)

// Container holds the process-wide adapters and services shared by the
// server and the CLI.
type Container struct {
	Cfg      config.Config
	Pool     *pgxpool.Pool
	JobStore *redisstore.Store
	Tika     *tika.Client
	Producer *redpanda.Producer
	Quota    ratelimiter.Limiter
	Cleanup  *postgres.CleanupService

	Evals    *postgres.EvaluationRepo
	Sessions *postgres.SessionRepo
	Results  usecase.ResultService
	JobDescs usecase.JobDescriptionService

	closers []func()
}

// NewContainer connects storage and the optional Redis and Kafka adapters.
// Redis and Kafka failures degrade features instead of failing startup.
func NewContainer(ctx context.Context, cfg config.Config) (*Container, error) {
	maxElapsed, initial, maxInterval, mult := cfg.GetBackoffConfig()
	pool, err := postgres.Connect(ctx, cfg.DBURL, postgres.BackoffConfig{
		MaxElapsedTime: maxElapsed, InitialInterval: initial, MaxInterval: maxInterval, Multiplier: mult,
	})
	if err != nil {
		return nil, fmt.Errorf("op=app.NewContainer: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("op=app.NewContainer: %w", err)
	}

	c := &Container{Cfg: cfg, Pool: pool}
	c.closers = append(c.closers, pool.Close)
	c.Evals = postgres.NewEvaluationRepo(pool)
	c.Sessions = postgres.NewSessionRepo(pool)
	c.Results = usecase.NewResultService(c.Evals, c.Sessions)
	if cfg.RetentionDays > 0 {
		c.Cleanup = postgres.NewCleanupService(pool, cfg.RetentionDays)
	}

	if cfg.RedisURL != "" {
		store, rdb, err := redisstore.NewFromURL(cfg.RedisURL, cfg.JobDescriptionTTL)
		if err != nil {
			slog.Warn("redis disabled", slog.Any("error", err))
		} else {
			c.closers = append(c.closers, func() { _ = rdb.Close() })
			if err := store.Ping(ctx); err != nil {
				slog.Warn("redis not reachable at startup", slog.Any("error", err))
			}
			c.JobStore = store
			c.JobDescs = usecase.JobDescriptionService{Store: store}
			if cfg.ResumeQuotaPerMin > 0 {
				c.Quota = ratelimiter.NewRedisLuaLimiter(rdb, ratelimiter.NewBucketConfigFromPerMinute(cfg.ResumeQuotaPerMin))
			}
		}
	}

	if len(cfg.KafkaBrokers) > 0 && cfg.EventsTopic != "" {
		p, err := redpanda.NewProducer(cfg.KafkaBrokers, cfg.EventsTopic)
		if err != nil {
			slog.Warn("evaluation events disabled", slog.Any("error", err))
		} else {
			c.Producer = p
			c.closers = append(c.closers, func() {
				if err := p.Close(); err != nil {
					slog.Error("failed to close producer", slog.Any("error", err))
				}
			})
		}
	}

	c.Tika = tika.New(cfg.TikaURL, tika.WithBackoff(cfg.GetBackoffConfig()))
	return c, nil
}

// Screening builds the pipeline and the screening service. It needs at
// least one chat credential.
func (c *Container) Screening() (*usecase.ScreeningService, error) {
	tokens, err := c.Cfg.CredentialTokens()
	if err != nil {
		return nil, err
	}
	creds, err := credential.New(tokens)
	if err != nil {
		return nil, err
	}
	personas, err := pipeline.LoadPersonas(c.Cfg.PersonasFile)
	if err != nil {
		return nil, fmt.Errorf("op=app.Screening: %w", err)
	}
	runner := pipeline.NewRunner(creds, real.New(c.Cfg.GetChatConfig()), personas, pipeline.RunnerConfig{
		Model:          c.Cfg.OpenRouterModel,
		MaxTokens:      c.Cfg.AIMaxTokens,
		MaxInputTokens: c.Cfg.AIMaxInputTokens,
		Truncator:      tokencount.NewCounter(),
	})
	extractor := textextractor.New(c.Tika, textextractor.WithMaxPDFPages(c.Cfg.MaxPDFPages))

	var jobs domain.JobDescriptionStore
	if c.JobStore != nil {
		jobs = c.JobStore
	}
	var pub domain.EventPublisher
	if c.Producer != nil {
		pub = c.Producer
	}
	drift := observability.NewScoreDriftMonitor(c.Cfg.OpenRouterModel, driftWindow, driftThreshold)
	slog.Info("screening pipeline ready",
		slog.Int("credentials", creds.Size()),
		slog.String("model", c.Cfg.OpenRouterModel),
		slog.Bool("events", pub != nil),
		slog.Bool("retained_job_descriptions", jobs != nil))
	return usecase.NewScreeningService(extractor, pipeline.NewController(runner), c.Evals, c.Sessions, jobs, pub, drift, c.Cfg.MaxResumesPerBatch), nil
}

// Close releases every adapter in reverse order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}
