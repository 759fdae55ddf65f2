// Package redisstore retains job descriptions in Redis between batch runs.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fairyhunter13/ai-resume-screener/internal/domain"
)

// DefaultWorkspace is used when the caller does not name one.
const DefaultWorkspace = "default"

const keyPrefix = "screener:jobdesc:"

// Store implements domain.JobDescriptionStore.
type Store struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

// New returns a Store; a non-positive ttl keeps entries forever.
func New(rdb redis.UniversalClient, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// NewFromURL parses a redis:// URL and returns a Store plus the client for readiness checks.
func NewFromURL(url string, ttl time.Duration) (*Store, *redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, nil, fmt.Errorf("op=redisstore.NewFromURL: %w: %v", domain.ErrConfiguration, err)
	}
	rdb := redis.NewClient(opts)
	return New(rdb, ttl), rdb, nil
}

func key(workspace string) string {
	w := strings.ToLower(strings.TrimSpace(workspace))
	if w == "" {
		w = DefaultWorkspace
	}
	return keyPrefix + w
}

// Save stores text for workspace, replacing the previous description.
func (s *Store) Save(ctx domain.Context, workspace, text string) error {
	tracer := otel.Tracer("cache.jobdesc")
	ctx, span := tracer.Start(ctx, "jobdesc.Save")
	defer span.End()
	span.SetAttributes(attribute.String("db.system", "redis"), attribute.String("workspace", workspace))
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("op=jobdesc.save: %w: empty job description", domain.ErrInvalidArgument)
	}
	ttl := s.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := s.rdb.Set(ctx, key(workspace), text, ttl).Err(); err != nil {
		return fmt.Errorf("op=jobdesc.save: %w", err)
	}
	return nil
}

// Load returns the retained description or domain.ErrNotFound.
func (s *Store) Load(ctx domain.Context, workspace string) (string, error) {
	tracer := otel.Tracer("cache.jobdesc")
	ctx, span := tracer.Start(ctx, "jobdesc.Load")
	defer span.End()
	span.SetAttributes(attribute.String("db.system", "redis"), attribute.String("workspace", workspace))
	text, err := s.rdb.Get(ctx, key(workspace)).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("op=jobdesc.load: %w: no job description for workspace %q", domain.ErrNotFound, workspace)
	}
	if err != nil {
		return "", fmt.Errorf("op=jobdesc.load: %w", err)
	}
	return text, nil
}

// Ping reports whether Redis answers.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
