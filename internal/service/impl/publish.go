package impl

import (
	"context"
	"log/slog"

	"encrypto-chat/internal/events"
	"encrypto-chat/internal/observability/metrics"
	"encrypto-chat/internal/observability/middleware"
)

// publish hands ev to the publisher. Failures are logged and counted but never
// fail the operation that produced the event.
func publish(ctx context.Context, pub events.Publisher, ev events.Event) {
	if pub == nil {
		return
	}
	result := "success"
	if err := pub.Publish(ctx, ev); err != nil {
		result = "failure"
		attrs := append([]any{"event_type", ev.EventType(), "key", ev.Key(), "err", err}, middleware.LogAttrs(ctx)...)
		slog.Warn("publish event failed", attrs...)
	}
	metrics.EventsPublishedTotal.WithLabelValues(ev.EventType(), result).Inc()
}
