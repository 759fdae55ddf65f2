// Command server starts the resume screening HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpserver "github.com/fairyhunter13/ai-resume-screener/internal/adapter/httpserver"
	"github.com/fairyhunter13/ai-resume-screener/internal/adapter/observability"
	"github.com/fairyhunter13/ai-resume-screener/internal/app"
	"github.com/fairyhunter13/ai-resume-screener/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	c, err := app.NewContainer(ctx, cfg)
	if err != nil {
		slog.Error("startup failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer c.Close()

	if c.Cleanup != nil {
		go c.Cleanup.RunPeriodic(ctx, 0)
		slog.Info("cleanup service started", slog.Int("retention_days", cfg.RetentionDays))
	}

	screening, err := c.Screening()
	if err != nil {
		slog.Error("screening pipeline unavailable", slog.Any("error", err))
		os.Exit(1)
	}

	var redis app.Pinger
	if c.JobStore != nil {
		redis = c.JobStore
	}
	dbCheck, redisCheck, tikaCheck := app.BuildReadinessChecks(c.Pool, redis, c.Tika)
	if redis == nil {
		// Redis is optional; its absence only disables retained job descriptions.
		redisCheck = nil
	}

	srv := httpserver.NewServer(cfg, screening, c.Results, c.JobDescs, c.Quota, dbCheck, redisCheck, tikaCheck)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
	// Stop background cleanup before the deferred Close releases the pool.
	stop()
}
