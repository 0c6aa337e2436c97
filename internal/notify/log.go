package notify

import (
	"context"
	"log/slog"

	"encrypto-chat/internal/observability/middleware"
)

// LogMailer records emails instead of delivering them. Used when no SMTP
// relay is configured.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger}
}

func (l *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	l.logger.Info("email not delivered, no smtp relay configured",
		"to", to,
		"subject", subject,
		"body", body,
		"request_id", middleware.RequestIDFromContext(ctx),
		"trace_id", middleware.TraceIDFromContext(ctx),
	)
	return nil
}
