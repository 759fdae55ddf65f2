// Package redpanda publishes evaluation events to Redpanda/Kafka.
//
// Every stored evaluation produces one evaluation.completed record in its
// own transaction, keyed by the evaluation id.
package redpanda

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/kmsg"
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"

	"github.com/fairyhunter13/ai-resume-screener/internal/adapter/observability"
	"github.com/fairyhunter13/ai-resume-screener/internal/domain"
	obsctx "github.com/fairyhunter13/ai-resume-screener/internal/observability"
)

const (
	// DefaultTopic receives evaluation.completed records.
	DefaultTopic = "evaluation-completed"
	// EventTypeEvaluationCompleted is the event_type header value.
	EventTypeEvaluationCompleted = "evaluation.completed"
)

// EvaluationCompleted is the record value.
type EvaluationCompleted struct {
	EventType        string    `json:"event_type"`
	SessionID        string    `json:"session_id"`
	EvaluationID     string    `json:"evaluation_id"`
	CandidateName    string    `json:"candidate_name"`
	ResumeFilename   string    `json:"resume_filename"`
	OverallScore     int       `json:"overall_score"`
	QualificationTag string    `json:"qualification_tag"`
	EvaluatedAt      time.Time `json:"evaluated_at"`
	PublishedAt      time.Time `json:"published_at"`
}

// kafkaClient is the subset of *kgo.Client the producer needs.
type kafkaClient interface {
	BeginTransaction() error
	Produce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error))
	EndTransaction(ctx context.Context, commit kgo.TransactionEndTry) error
	Request(ctx context.Context, req kmsg.Request) (kmsg.Response, error)
	Close()
}

// Producer implements domain.EventPublisher.
type Producer struct {
	client kafkaClient
	topic  string
	// serialises transactions on the shared client
	transactionChan chan struct{}
	now             func() time.Time
}

// NewProducer constructs a transactional Producer for topic.
func NewProducer(brokers []string, topic string) (*Producer, error) {
	return NewProducerWithTransactionalID(brokers, topic, "ai-resume-screener-producer")
}

// NewProducerWithTransactionalID constructs a Producer with a custom transactional ID.
// The topic is created when missing.
func NewProducerWithTransactionalID(brokers []string, topic, transactionalID string) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("op=redpanda.NewProducer: %w: no seed brokers provided", domain.ErrConfiguration)
	}
	if topic == "" {
		topic = DefaultTopic
	}
	slog.Info("creating redpanda producer", slog.Any("brokers", brokers), slog.String("topic", topic), slog.String("transactional_id", transactionalID))

	kotelService := kotel.NewKotel(kotel.WithTracer(kotel.NewTracer(kotel.TracerProvider(otel.GetTracerProvider()))))
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.TransactionalID(transactionalID),
		kgo.RequestRetries(10),
		kgo.ProducerBatchMaxBytes(1000000),
		kgo.DialTimeout(10*time.Second),
		kgo.WithHooks(kotelService.Hooks()...),
	)
	if err != nil {
		return nil, fmt.Errorf("op=redpanda.NewProducer: %w", err)
	}

	p := newProducer(client, topic)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := createTopicIfNotExists(ctx, client, topic, 1, 1); err != nil {
		// the topic may exist already or be managed outside this service
		slog.Warn("failed to create topic", slog.String("topic", topic), slog.Any("error", err))
	}
	return p, nil
}

func newProducer(client kafkaClient, topic string) *Producer {
	return &Producer{client: client, topic: topic, transactionChan: make(chan struct{}, 1), now: time.Now}
}

// Topic returns the destination topic.
func (p *Producer) Topic() string { return p.topic }

// PublishEvaluationCompleted produces one record for ev inside a transaction.
func (p *Producer) PublishEvaluationCompleted(ctx domain.Context, sessionID string, ev domain.StoredEvaluation) (err error) {
	tracer := otel.Tracer("queue.redpanda")
	ctx, span := tracer.Start(ctx, "Producer.PublishEvaluationCompleted")
	defer span.End()
	defer func() { observability.RecordEventPublished(err) }()

	select {
	case p.transactionChan <- struct{}{}:
		defer func() { <-p.transactionChan }()
	case <-ctx.Done():
		return ctx.Err()
	}

	b, err := json.Marshal(EvaluationCompleted{
		EventType:        EventTypeEvaluationCompleted,
		SessionID:        sessionID,
		EvaluationID:     ev.ID,
		CandidateName:    ev.CandidateName,
		ResumeFilename:   ev.ResumeFilename,
		OverallScore:     ev.OverallScore,
		QualificationTag: ev.QualificationTag,
		EvaluatedAt:      ev.EvaluatedAt,
		PublishedAt:      p.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("op=redpanda.publish: %w", err)
	}

	if err := p.client.BeginTransaction(); err != nil {
		return fmt.Errorf("op=redpanda.publish: begin transaction: %w", err)
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(ev.ID),
		Value: b,
		Headers: []kgo.RecordHeader{
			{Key: "event_type", Value: []byte(EventTypeEvaluationCompleted)},
			{Key: "session_id", Value: []byte(sessionID)},
		},
	}
	if rid := obsctx.RequestIDFromContext(ctx); rid != "" {
		record.Headers = append(record.Headers, kgo.RecordHeader{Key: "request_id", Value: []byte(rid)})
	}
	var e kgo.FirstErrPromise
	p.client.Produce(ctx, record, e.Promise())
	if err := e.Err(); err != nil {
		if abortErr := p.client.EndTransaction(ctx, kgo.TryAbort); abortErr != nil {
			slog.Error("failed to abort transaction", slog.Any("error", abortErr))
		}
		return fmt.Errorf("op=redpanda.publish: produce: %w", err)
	}
	if err := p.client.EndTransaction(ctx, kgo.TryCommit); err != nil {
		return fmt.Errorf("op=redpanda.publish: commit transaction: %w", err)
	}
	slog.Debug("evaluation event published", slog.String("evaluation_id", ev.ID), slog.String("topic", p.topic))
	return nil
}

// Close closes the producer.
func (p *Producer) Close() error {
	if p.client != nil {
		p.client.Close()
	}
	return nil
}
