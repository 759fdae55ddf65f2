//go:build integration

package app_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/fairyhunter13/ai-resume-screener/internal/app"
	"github.com/fairyhunter13/ai-resume-screener/internal/config"
)

func startContainer(t *testing.T, req testcontainers.ContainerRequest, port string) string {
	t.Helper()
	ctx := context.Background()
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(ctx) })
	host, err := c.Host(ctx)
	require.NoError(t, err)
	p, err := c.MappedPort(ctx, port)
	require.NoError(t, err)
	return host + ":" + p.Port()
}

func TestContainer_AgainstRealDependencies(t *testing.T) {
	ctx := context.Background()

	pg := startContainer(t, testcontainers.ContainerRequest{
		Image:        "postgres:16",
		Env:          map[string]string{"POSTGRES_PASSWORD": "postgres", "POSTGRES_USER": "postgres", "POSTGRES_DB": "screener"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(90 * time.Second),
	}, "5432")
	rd := startContainer(t, testcontainers.ContainerRequest{
		Image:        "redis:7",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
	}, "6379")
	tk := startContainer(t, testcontainers.ContainerRequest{
		Image:        "apache/tika:2.9.0.0",
		ExposedPorts: []string{"9998/tcp"},
		WaitingFor:   wait.ForHTTP("/version").WithPort("9998/tcp").WithStartupTimeout(60 * time.Second),
	}, "9998")

	cfg := config.Config{
		DBURL:                  fmt.Sprintf("postgres://postgres:postgres@%s/screener?sslmode=disable", pg),
		RedisURL:               "redis://" + rd,
		TikaURL:                "http://" + tk,
		OpenRouterAPIKey:       "integration-token",
		OpenRouterBaseURL:      "http://127.0.0.1:1",
		OpenRouterModel:        "test/model",
		AIMaxTokens:            512,
		MaxPDFPages:            5,
		MaxResumesPerBatch:     10,
		JobDescriptionTTL:      time.Hour,
		ResumeQuotaPerMin:      60,
		RetentionDays:          30,
		BackoffMaxElapsedTime:  30 * time.Second,
		BackoffInitialInterval: 200 * time.Millisecond,
		BackoffMaxInterval:     2 * time.Second,
		BackoffMultiplier:      2,
	}
	c, err := app.NewContainer(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(c.Close)

	require.NotNil(t, c.JobStore)
	require.NotNil(t, c.Quota)
	require.NotNil(t, c.Cleanup)
	assert.Nil(t, c.Producer, "no brokers configured")

	db, redis, tika := app.BuildReadinessChecks(c.Pool, c.JobStore, c.Tika)
	require.Eventually(t, func() bool {
		return db(ctx) == nil && redis(ctx) == nil && tika(ctx) == nil
	}, 30*time.Second, time.Second)

	require.NoError(t, c.JobDescs.Save(ctx, "acme", "Senior Go Engineer"))
	jd, err := c.JobDescs.Load(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, "Senior Go Engineer", jd)

	ok, _, err := c.Quota.Allow(ctx, "workspace:acme", 3)
	require.NoError(t, err)
	assert.True(t, ok)

	text, err := c.Tika.Extract(ctx, "note.html", []byte("<html><body><p>Hello from Tika</p></body></html>"))
	require.NoError(t, err)
	assert.Contains(t, text, "Hello from Tika")

	stats, err := c.Results.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Total)

	svc, err := c.Screening()
	require.NoError(t, err)
	assert.NotNil(t, svc)
}
