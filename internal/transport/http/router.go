package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"encrypto-chat/internal/netutil"
	obsmw "encrypto-chat/internal/observability/middleware"
	"encrypto-chat/internal/service"
)

const maxBodyBytes = 1 << 20

type Services struct {
	Users    service.UserService
	Auth     service.AuthService
	Tokens   service.TokenService
	Messages service.MessageService
	Chatbot  service.ChatbotService
	Contacts service.ContactService
}

type Options struct {
	CORSOrigins []string
	// AuthRateLimit caps login and two-factor calls per client IP per minute.
	AuthRateLimit  int
	RequestTimeout time.Duration
	// TrustProxy takes the client address from X-Forwarded-For and X-Real-IP.
	TrustProxy bool
}

func NewRouter(svc Services, opts Options) http.Handler {
	h := &handler{svc: svc}

	r := chi.NewRouter()
	r.Use(obsmw.WithRequestAndTrace)
	if opts.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.Recoverer)
	if opts.RequestTimeout > 0 {
		r.Use(chimw.Timeout(opts.RequestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   originsIfSet(opts.CORSOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id", "X-Trace-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(obsmw.WithMetrics)
	r.Use(obsmw.LogRequests)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/users", h.createUser)

		r.Route("/auth", func(r chi.Router) {
			if opts.AuthRateLimit > 0 {
				r.Use(httprate.Limit(opts.AuthRateLimit, time.Minute,
					httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
						return netutil.ClientIP(r, opts.TrustProxy), nil
					}),
				))
			}
			r.Post("/login", h.login)
			r.Post("/2fa/issue", h.issueChallenge)
			r.Post("/2fa/verify", h.verifyChallenge)
		})

		r.Group(func(r chi.Router) {
			r.Use(BearerAuth(svc.Tokens))

			r.Get("/users/by-email/{email}", h.userIDByEmail)
			r.Delete("/users/by-email/{email}", h.deleteUser)
			r.Get("/users/{userId}", h.getUser)
			r.Put("/users/{userId}", h.updateUser)

			r.Post("/messages", h.sendMessage)
			r.Get("/messages/{userId}", h.listMessages)
			r.Delete("/messages/{userId}", h.deleteUserMessages)
			r.Delete("/conversations/{conversationId}", h.deleteConversation)

			r.Post("/chatbot/messages", h.sendChatbotMessage)
			r.Get("/chatbot/messages/{userId}", h.listChatbotMessages)

			r.Post("/contacts/{userId}", h.addContact)
			r.Get("/contacts/{userId}", h.listContacts)
			r.Delete("/contacts/{userId}/{contactId}", h.removeContact)
		})
	})

	return r
}

// originsIfSet falls back to any origin when none are configured.
func originsIfSet(in []string) []string {
	var out []string
	for _, o := range in {
		if o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
