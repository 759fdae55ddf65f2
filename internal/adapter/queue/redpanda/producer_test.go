package redpanda

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/kmsg"

	"github.com/fairyhunter13/ai-resume-screener/internal/domain"
	obsctx "github.com/fairyhunter13/ai-resume-screener/internal/observability"
)

type fakeClient struct {
	calls      []string
	records    []*kgo.Record
	beginErr   error
	produceErr error
	endErr     error
	resp       kmsg.Response
	reqErr     error
	closed     bool
}

func (f *fakeClient) BeginTransaction() error {
	f.calls = append(f.calls, "begin")
	return f.beginErr
}

func (f *fakeClient) Produce(_ context.Context, r *kgo.Record, promise func(*kgo.Record, error)) {
	f.calls = append(f.calls, "produce")
	f.records = append(f.records, r)
	promise(r, f.produceErr)
}

func (f *fakeClient) EndTransaction(_ context.Context, commit kgo.TransactionEndTry) error {
	if commit == kgo.TryCommit {
		f.calls = append(f.calls, "commit")
	} else {
		f.calls = append(f.calls, "abort")
	}
	return f.endErr
}

func (f *fakeClient) Request(_ context.Context, _ kmsg.Request) (kmsg.Response, error) {
	return f.resp, f.reqErr
}

func (f *fakeClient) Close() { f.closed = true }

func storedEvaluation() domain.StoredEvaluation {
	return domain.StoredEvaluation{
		ID:               "eval-1",
		CandidateName:    "Alice Tan",
		ResumeFilename:   "alice.pdf",
		OverallScore:     82,
		QualificationTag: domain.TagQualified,
		EvaluatedAt:      time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestProducer_PublishEvaluationCompleted(t *testing.T) {
	t.Parallel()
	fc := &fakeClient{}
	p := newProducer(fc, "events")
	fixed := time.Date(2026, 3, 1, 9, 0, 1, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	require.NoError(t, p.PublishEvaluationCompleted(context.Background(), "session-1", storedEvaluation()))
	assert.Equal(t, []string{"begin", "produce", "commit"}, fc.calls)
	require.Len(t, fc.records, 1)
	rec := fc.records[0]
	assert.Equal(t, "events", rec.Topic)
	assert.Equal(t, "eval-1", string(rec.Key))
	assert.Contains(t, rec.Headers, kgo.RecordHeader{Key: "event_type", Value: []byte(EventTypeEvaluationCompleted)})
	assert.Contains(t, rec.Headers, kgo.RecordHeader{Key: "session_id", Value: []byte("session-1")})

	var ev EvaluationCompleted
	require.NoError(t, json.Unmarshal(rec.Value, &ev))
	assert.Equal(t, "session-1", ev.SessionID)
	assert.Equal(t, 82, ev.OverallScore)
	assert.Equal(t, domain.TagQualified, ev.QualificationTag)
	assert.Equal(t, fixed, ev.PublishedAt)
	for _, h := range rec.Headers {
		assert.NotEqual(t, "request_id", h.Key, "no request id without one in ctx")
	}
}

func TestProducer_PropagatesRequestID(t *testing.T) {
	t.Parallel()
	fc := &fakeClient{}
	ctx := obsctx.ContextWithRequestID(context.Background(), "req-42")
	require.NoError(t, newProducer(fc, "events").PublishEvaluationCompleted(ctx, "session-1", storedEvaluation()))
	require.Len(t, fc.records, 1)
	assert.Contains(t, fc.records[0].Headers, kgo.RecordHeader{Key: "request_id", Value: []byte("req-42")})
}

func TestProducer_PublishFailures(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		client    *fakeClient
		wantCalls []string
		wantErr   string
	}{
		{"begin fails", &fakeClient{beginErr: errors.New("fenced")}, []string{"begin"}, "begin transaction"},
		{"produce fails aborts", &fakeClient{produceErr: errors.New("broker down")}, []string{"begin", "produce", "abort"}, "produce"},
		{"commit fails", &fakeClient{endErr: errors.New("timeout")}, []string{"begin", "produce", "commit"}, "commit transaction"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := newProducer(tt.client, DefaultTopic).PublishEvaluationCompleted(context.Background(), "s", storedEvaluation())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, tt.wantCalls, tt.client.calls)
		})
	}
}

func TestProducer_CancelledWhileWaitingForTransaction(t *testing.T) {
	t.Parallel()
	fc := &fakeClient{}
	p := newProducer(fc, DefaultTopic)
	p.transactionChan <- struct{}{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.PublishEvaluationCompleted(ctx, "s", storedEvaluation()), context.Canceled)
	assert.Empty(t, fc.calls)
}

func TestProducer_Close(t *testing.T) {
	t.Parallel()
	fc := &fakeClient{}
	p := newProducer(fc, "t")
	assert.Equal(t, "t", p.Topic())
	require.NoError(t, p.Close())
	assert.True(t, fc.closed)
}

func TestNewProducer_RequiresBrokers(t *testing.T) {
	t.Parallel()
	_, err := NewProducer(nil, "t")
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func topicsResponse(code int16, msg *string) *kmsg.CreateTopicsResponse {
	resp := kmsg.NewPtrCreateTopicsResponse()
	tr := kmsg.NewCreateTopicsResponseTopic()
	tr.Topic = "events"
	tr.ErrorCode = code
	tr.ErrorMessage = msg
	resp.Topics = append(resp.Topics, tr)
	return resp
}

func TestCreateTopicIfNotExists(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	msg := "not allowed"

	assert.Error(t, createTopicIfNotExists(ctx, &fakeClient{}, "", 1, 1))
	assert.Error(t, createTopicIfNotExists(ctx, &fakeClient{}, "t", 0, 1))
	assert.Error(t, createTopicIfNotExists(ctx, &fakeClient{}, "t", 1, 0))

	assert.NoError(t, createTopicIfNotExists(ctx, &fakeClient{resp: topicsResponse(0, nil)}, "events", 1, 1))
	assert.NoError(t, createTopicIfNotExists(ctx, &fakeClient{resp: topicsResponse(kerr.TopicAlreadyExists.Code, nil)}, "events", 1, 1))

	err := createTopicIfNotExists(ctx, &fakeClient{resp: topicsResponse(kerr.TopicAuthorizationFailed.Code, &msg)}, "events", 1, 1)
	assert.ErrorContains(t, err, "not allowed")

	assert.Error(t, createTopicIfNotExists(ctx, &fakeClient{reqErr: errors.New("dial")}, "events", 1, 1))
	assert.Error(t, createTopicIfNotExists(ctx, &fakeClient{resp: kmsg.NewPtrMetadataResponse()}, "events", 1, 1))
}
