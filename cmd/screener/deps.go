package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/fairyhunter13/ai-resume-screener/internal/adapter/observability"
	"github.com/fairyhunter13/ai-resume-screener/internal/app"
	"github.com/fairyhunter13/ai-resume-screener/internal/config"
	"github.com/fairyhunter13/ai-resume-screener/internal/usecase"
)

// screener runs one batch.
type screener interface {
	Run(ctx context.Context, b usecase.Batch) (usecase.Report, error)
}

// deps is what a command needs from the process wiring. Screening is built
// lazily so read-only commands work without chat credentials.
type deps struct {
	Results   usecase.ResultService
	Screening func() (screener, error)
	Close     func()
}

type opener func(ctx context.Context) (*deps, error)

func openContainer(ctx context.Context) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	// Logs go to stderr so stdout stays clean for tables and exports.
	slog.SetDefault(observability.SetupLoggerTo(cfg, os.Stderr))

	c, err := app.NewContainer(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &deps{
		Results: c.Results,
		Screening: func() (screener, error) {
			s, err := c.Screening()
			if err != nil {
				return nil, err
			}
			return s, nil
		},
		Close: c.Close,
	}, nil
}
