package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"encrypto-chat/internal/netutil"
	"encrypto-chat/internal/observability/metrics"
	obsmw "encrypto-chat/internal/observability/middleware"
	"encrypto-chat/internal/service"
)

// BearerAuth admits requests carrying an access token issued by tokens and
// stores the token subject in the request context.
func BearerAuth(tokens service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			result := "success"
			defer func() {
				metrics.AuthenticationAttemptsTotal.WithLabelValues(result).Inc()
			}()
			reqID := obsmw.RequestIDFromContext(r.Context())
			traceID := obsmw.TraceIDFromContext(r.Context())

			raw := r.Header.Get("Authorization")
			if len(raw) < len("Bearer ") || !strings.EqualFold(raw[:len("Bearer ")], "bearer ") {
				result = "missing"
				writeMessage(w, http.StatusUnauthorized, "missing bearer token")
				slog.Warn("auth missing bearer", "request_id", reqID, "trace_id", traceID)
				return
			}
			sub, err := tokens.Subject(strings.TrimSpace(raw[len("Bearer "):]))
			if err != nil {
				result = "failure"
				writeMessage(w, http.StatusUnauthorized, "invalid token")
				slog.Warn("auth invalid token", "error", err, "user_agent", netutil.TruncateUserAgent(r.UserAgent()), "request_id", reqID, "trace_id", traceID)
				return
			}
			next.ServeHTTP(w, r.WithContext(contextWithSubject(r.Context(), sub)))
		})
	}
}

type subjectKey struct{}

func contextWithSubject(ctx context.Context, sub string) context.Context {
	return context.WithValue(ctx, subjectKey{}, sub)
}

func SubjectFrom(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(subjectKey{}).(string)
	return v, ok
}
