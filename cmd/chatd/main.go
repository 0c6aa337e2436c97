package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	red "github.com/redis/go-redis/v9"

	"encrypto-chat/internal/assistant"
	"encrypto-chat/internal/challenge"
	"encrypto-chat/internal/config"
	"encrypto-chat/internal/cryptobox"
	"encrypto-chat/internal/events"
	"encrypto-chat/internal/notify"
	"encrypto-chat/internal/observability/logging"
	"encrypto-chat/internal/observability/metrics"
	impl "encrypto-chat/internal/service/impl"
	"encrypto-chat/internal/store"
	httpx "encrypto-chat/internal/transport/http"
)

func main() {
	// config first so .env values reach the logger
	cfg := config.Load()
	logger := newLogger(cfg)
	slog.SetDefault(logger)
	metrics.MustRegister("chatd")

	logger.Info("starting service")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1) DB
	gdb, err := store.OpenPostgres(store.OpenConfig{DSN: cfg.DatabaseURL, LogSQL: cfg.LogSQL})
	if err != nil {
		fatal(logger, "gorm open", err)
	}
	st := store.New(gdb)
	if cfg.AutoMigrate {
		err = st.AutoMigrate(ctx)
	} else {
		err = st.Migrate(ctx)
	}
	if err != nil {
		fatal(logger, "migrate", err)
	}

	// 2) Collaborators
	var challenges challenge.Store = challenge.NewSQLStore(st)
	if cfg.RedisAddr != "" {
		rdb := red.NewClient(&red.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			fatal(logger, "redis ping", err)
		}
		defer rdb.Close()
		challenges = challenge.NewRedisStore(rdb, "2fa")
		logger.Info("two-factor state in redis", "addr", cfg.RedisAddr)
	}

	var mailer notify.Mailer = notify.NewLogMailer(logger)
	if cfg.SMTPHost != "" {
		m, err := notify.NewSMTPMailer(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
		if err != nil {
			fatal(logger, "smtp mailer", err)
		}
		mailer = m
	} else {
		logger.Warn("SMTP_HOST not set, two-factor codes are only logged")
	}

	var responder assistant.Responder = assistant.Static{}
	if cfg.AssistantAPIKey != "" {
		responder = assistant.NewOpenAI(assistant.OpenAIConfig{
			APIKey:  cfg.AssistantAPIKey,
			BaseURL: cfg.AssistantBaseURL,
			Model:   cfg.AssistantModel,
		})
	}

	var publisher events.Publisher = events.NewLogPublisher(logger)
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := events.NewKafkaPublisher(events.KafkaConfig{
			Brokers:     cfg.KafkaBrokers,
			TopicPrefix: cfg.KafkaTopicPrefix,
			Service:     "chatd",
			Environment: cfg.Environment,
		}, logger)
		if err != nil {
			fatal(logger, "kafka publisher", err)
		}
		publisher = kp
	}
	defer publisher.Close()

	schemes, err := cryptobox.NewRegistry(cfg.KeyScheme)
	if err != nil {
		fatal(logger, "key scheme", err)
	}

	// 3) Services
	pw := impl.NewPasswordServiceArgon2id()
	ts := impl.NewTokenServiceHS256(impl.TokenConfig{
		Issuer:     cfg.Issuer,
		Audience:   cfg.Audience,
		AccessTTL:  cfg.AccessTTL,
		SigningKey: []byte(cfg.SigningKey),
	})
	chatbot := impl.NewChatbotServiceImpl(st, responder)
	services := httpx.Services{
		Users: impl.NewUserServiceImpl(impl.UserServiceDeps{
			Store:      st,
			Passwords:  pw,
			Schemes:    schemes,
			Challenges: challenges,
			Events:     publisher,
			Welcome:    chatbot,
		}),
		Auth: impl.NewAuthServiceImpl(st, challenges, pw, ts, notify.NewEmailService(mailer), impl.ChallengeConfig{
			LoginTTL:    cfg.LoginTTL,
			CodeTTL:     cfg.ChallengeTTL,
			MaxAttempts: cfg.ChallengeMaxAttempts,
		}),
		Tokens:   ts,
		Messages: impl.NewMessageServiceImpl(st, schemes, publisher),
		Chatbot:  chatbot,
		Contacts: impl.NewContactServiceImpl(st, publisher),
	}

	// 4) HTTP
	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: httpx.NewRouter(services, httpx.Options{
			CORSOrigins:    cfg.CORSOrigins,
			AuthRateLimit:  cfg.RateLimitPerMinute,
			RequestTimeout: cfg.RequestTimeout,
			TrustProxy:     cfg.TrustProxy,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "error", err)
		}
	}()

	slog.Info("chat service listening", "addr", srv.Addr, "issuer", cfg.Issuer, "key_scheme", cfg.KeyScheme)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	logger.Info("stopped")
}

func newLogger(cfg config.Config) *slog.Logger {
	return logging.NewLogger(logging.Config{
		ServiceName: "chatd",
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
	})
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}
