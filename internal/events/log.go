package events

import (
	"context"
	"log/slog"

	"encrypto-chat/internal/observability/middleware"
)

// LogPublisher logs events instead of sending them anywhere. Used when no
// brokers are configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, ev Event) error {
	p.logger.Info("event published",
		"event_type", ev.EventType(),
		"key", ev.Key(),
		"at", ev.OccurredAt(),
		"payload", ev,
		"request_id", middleware.RequestIDFromContext(ctx),
		"trace_id", middleware.TraceIDFromContext(ctx),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
