package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerContext(t *testing.T) {
	t.Parallel()
	lg := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	base := context.Background()

	ctx := ContextWithLogger(base, lg)
	assert.Same(t, lg, LoggerFromContext(ctx))
	assert.Equal(t, base, ContextWithLogger(base, nil), "nil logger leaves ctx unchanged")
	assert.Same(t, slog.Default(), LoggerFromContext(base))
	//nolint:staticcheck // nil context is tolerated
	assert.Same(t, slog.Default(), LoggerFromContext(nil))
}

func TestWithAttrs(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

	ctx, _ = WithAttrs(ctx, slog.String("session_id", "s-1"))
	ctx, lg := WithAttrs(ctx, slog.String("resume", "alice.pdf"))
	LoggerFromContext(ctx).Info("evaluated")

	assert.Contains(t, buf.String(), "session_id=s-1")
	assert.Contains(t, buf.String(), "resume=alice.pdf")
	assert.Same(t, lg, LoggerFromContext(ctx))
}

func TestRequestID(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		id   string
		want string
	}{
		{"set", "req-123", "req-123"},
		{"empty is ignored", "", ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := ContextWithRequestID(context.Background(), tt.id)
			assert.Equal(t, tt.want, RequestIDFromContext(ctx))
		})
	}
	assert.Empty(t, RequestIDFromContext(context.Background()))
}
