// Package postgres provides PostgreSQL database adapters.
//
// It implements the evaluation and session repositories on a pgx pool.
// Every query is traced through otelpgx and a span per repository call.
package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// PgxPool is a minimal subset of pgxpool used by the repos for easy testing.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// BackoffConfig controls the connection retry at startup.
type BackoffConfig struct {
	MaxElapsedTime  time.Duration
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

// NewPool creates a pgx connection pool from the provided DSN and returns it.
// The pool is configured with sane defaults for this application and
// instrumented with the otelpgx tracer.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("op=postgres.NewPool: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.ConnConfig.Tracer = otelpgx.NewTracer()
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("op=postgres.NewPool: %w", err)
	}
	return pool, nil
}

// Connect creates the pool and waits until the database answers a ping.
func Connect(ctx context.Context, dsn string, bc BackoffConfig) (*pgxpool.Pool, error) {
	pool, err := NewPool(ctx, dsn)
	if err != nil {
		return nil, err
	}
	expo := backoff.NewExponentialBackOff()
	expo.MaxElapsedTime = bc.MaxElapsedTime
	expo.InitialInterval = bc.InitialInterval
	expo.MaxInterval = bc.MaxInterval
	expo.Multiplier = bc.Multiplier
	ping := func() error { return pool.Ping(ctx) }
	notify := func(err error, wait time.Duration) {
		slog.Warn("database not ready, retrying", slog.Duration("wait", wait), slog.Any("error", err))
	}
	if err := backoff.RetryNotify(ping, backoff.WithContext(expo, ctx), notify); err != nil {
		pool.Close()
		return nil, fmt.Errorf("op=postgres.Connect: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the tables and indexes if they do not exist.
func EnsureSchema(ctx context.Context, p PgxPool) error {
	if _, err := p.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("op=postgres.EnsureSchema: %w", err)
	}
	return nil
}
