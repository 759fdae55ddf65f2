package app

import (
	"context"
	"fmt"

	httpserver "github.com/fairyhunter13/ai-resume-screener/internal/adapter/httpserver"
)

// Pinger is anything that can report its own reachability.
type Pinger interface{ Ping(ctx context.Context) error }

// BuildReadinessChecks returns the db, redis and tika readiness checks.
// A nil dependency reports "not configured".
func BuildReadinessChecks(db, redis, tika Pinger) (dbCheck, redisCheck, tikaCheck httpserver.Check) {
	return check("db", db), check("redis", redis), check("tika", tika)
}

func check(name string, p Pinger) httpserver.Check {
	return func(ctx context.Context) error {
		if p == nil {
			return fmt.Errorf("%s not configured", name)
		}
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}
}
