package metrics

import "github.com/prometheus/client_golang/prometheus"

const DefaultService = "chat"

var defaultLabels = prometheus.Labels{"service": DefaultService}

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"service", "method", "path", "status"},
	)

	httpRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)

	registrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_registrations_total",
			Help: "Total number of account registrations.",
		},
		[]string{"service", "result"},
	)

	loginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_logins_total",
			Help: "Total number of password login attempts.",
		},
		[]string{"service", "result"},
	)

	twoFactorTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_two_factor_total",
			Help: "Two-factor challenges issued and verified.",
		},
		[]string{"service", "flow", "result"},
	)

	tokensIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_tokens_issued_total",
			Help: "Total number of access tokens issued.",
		},
		[]string{"service", "result"},
	)

	messagesSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_sent_total",
			Help: "Total number of messages accepted for delivery.",
		},
		[]string{"service", "result"},
	)

	messageDecryptFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_message_decrypt_failures_total",
			Help: "Messages skipped on read because they could not be decrypted.",
		},
		[]string{"service", "reason"},
	)

	chatbotRepliesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_chatbot_replies_total",
			Help: "Chat assistant replies by source.",
		},
		[]string{"service", "source"},
	)

	eventsPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_events_published_total",
			Help: "Domain events handed to the publisher.",
		},
		[]string{"service", "type", "result"},
	)

	authenticationAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_authentication_attempts_total",
			Help: "Bearer token checks on protected routes.",
		},
		[]string{"service", "result"},
	)
)

// Exported vectors are curried with the service label. They start with the
// default service name so packages can record before MustRegister runs.
var (
	HTTPRequestsTotal           = httpRequestsTotal.MustCurryWith(defaultLabels)
	HTTPRequestDurationSeconds  = httpRequestDurationSeconds.MustCurryWith(defaultLabels).(*prometheus.HistogramVec)
	RegistrationsTotal          = registrationsTotal.MustCurryWith(defaultLabels)
	LoginsTotal                 = loginsTotal.MustCurryWith(defaultLabels)
	TwoFactorTotal              = twoFactorTotal.MustCurryWith(defaultLabels)
	TokensIssuedTotal           = tokensIssuedTotal.MustCurryWith(defaultLabels)
	MessagesSentTotal           = messagesSentTotal.MustCurryWith(defaultLabels)
	MessageDecryptFailuresTotal = messageDecryptFailuresTotal.MustCurryWith(defaultLabels)
	ChatbotRepliesTotal         = chatbotRepliesTotal.MustCurryWith(defaultLabels)
	EventsPublishedTotal        = eventsPublishedTotal.MustCurryWith(defaultLabels)
	AuthenticationAttemptsTotal = authenticationAttemptsTotal.MustCurryWith(defaultLabels)
)

func MustRegister(serviceName string) {
	labels := prometheus.Labels{"service": serviceName}
	HTTPRequestsTotal = httpRequestsTotal.MustCurryWith(labels)
	HTTPRequestDurationSeconds = httpRequestDurationSeconds.MustCurryWith(labels).(*prometheus.HistogramVec)
	RegistrationsTotal = registrationsTotal.MustCurryWith(labels)
	LoginsTotal = loginsTotal.MustCurryWith(labels)
	TwoFactorTotal = twoFactorTotal.MustCurryWith(labels)
	TokensIssuedTotal = tokensIssuedTotal.MustCurryWith(labels)
	MessagesSentTotal = messagesSentTotal.MustCurryWith(labels)
	MessageDecryptFailuresTotal = messageDecryptFailuresTotal.MustCurryWith(labels)
	ChatbotRepliesTotal = chatbotRepliesTotal.MustCurryWith(labels)
	EventsPublishedTotal = eventsPublishedTotal.MustCurryWith(labels)
	AuthenticationAttemptsTotal = authenticationAttemptsTotal.MustCurryWith(labels)

	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDurationSeconds,
		registrationsTotal,
		loginsTotal,
		twoFactorTotal,
		tokensIssuedTotal,
		messagesSentTotal,
		messageDecryptFailuresTotal,
		chatbotRepliesTotal,
		eventsPublishedTotal,
		authenticationAttemptsTotal,
	)
}
