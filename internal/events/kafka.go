package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"

	"encrypto-chat/internal/observability/middleware"
)

const schemaVersion = "1.0"

type KafkaConfig struct {
	Brokers     []string
	TopicPrefix string
	Service     string
	Environment string
}

type envelope struct {
	EventID   string            `json:"event_id"`
	EventType string            `json:"event_type"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Payload   Event             `json:"payload"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// KafkaPublisher writes JSON envelopes through a sarama AsyncProducer. Topic
// is the prefix joined with the event type.
type KafkaPublisher struct {
	producer sarama.AsyncProducer
	cfg      KafkaConfig
	logger   *slog.Logger
	done     chan struct{}
}

func NewKafkaPublisher(cfg KafkaConfig, logger *slog.Logger) (*KafkaPublisher, error) {
	sc := sarama.NewConfig()
	sc.Producer.RequiredAcks = sarama.WaitForLocal
	sc.Producer.Compression = sarama.CompressionSnappy
	sc.Producer.Flush.Frequency = 100 * time.Millisecond
	sc.Producer.Retry.Max = 3
	sc.Producer.Return.Successes = false
	sc.Producer.Return.Errors = true
	sc.Metadata.Retry.Max = 3
	sc.Metadata.Retry.Backoff = 250 * time.Millisecond

	producer, err := sarama.NewAsyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	p := newKafkaPublisher(producer, cfg, logger)
	logger.Info("kafka publisher initialized", "brokers", cfg.Brokers, "topic_prefix", cfg.TopicPrefix)
	return p, nil
}

func newKafkaPublisher(producer sarama.AsyncProducer, cfg KafkaConfig, logger *slog.Logger) *KafkaPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	p := &KafkaPublisher{producer: producer, cfg: cfg, logger: logger, done: make(chan struct{})}
	go p.handleErrors()
	return p
}

func (p *KafkaPublisher) handleErrors() {
	for {
		select {
		case perr, ok := <-p.producer.Errors():
			if !ok {
				return
			}
			if perr != nil {
				p.logger.Error("kafka producer error", "error", perr.Err, "topic", perr.Msg.Topic)
			}
		case <-p.done:
			return
		}
	}
}

func (p *KafkaPublisher) TopicName(eventType string) string {
	if p.cfg.TopicPrefix == "" {
		return eventType
	}
	return p.cfg.TopicPrefix + "." + eventType
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev Event) error {
	ts := ev.OccurredAt()
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	metadata := map[string]string{
		"service":     p.cfg.Service,
		"environment": p.cfg.Environment,
	}
	if traceID := middleware.TraceIDFromContext(ctx); traceID != "" {
		metadata["trace_id"] = traceID
	}

	body, err := json.Marshal(envelope{
		EventID:   uuid.NewString(),
		EventType: ev.EventType(),
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   ev,
		Metadata:  metadata,
	})
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.TopicName(ev.EventType()),
		Key:   sarama.StringEncoder(ev.Key()),
		Value: sarama.ByteEncoder(body),
	}
	select {
	case p.producer.Input() <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *KafkaPublisher) Close() error {
	close(p.done)
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("close kafka producer: %w", err)
	}
	return nil
}
