package impl

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"encrypto-chat/internal/assistant"
	"encrypto-chat/internal/challenge"
	"encrypto-chat/internal/cryptobox"
	"encrypto-chat/internal/domain"
	"encrypto-chat/internal/dto"
	"encrypto-chat/internal/events"
	"encrypto-chat/internal/store"
	"encrypto-chat/internal/store/storetest"
)

var testArgon2 = Argon2Params{Time: 1, Memory: 64, Threads: 1, KeyLen: 32, SaltLen: 16}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type stubEmail struct {
	mu    sync.Mutex
	codes map[string]string
	sent  int
	err   error
}

func (s *stubEmail) SendTwoFactorCode(_ context.Context, to, code string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if s.codes == nil {
		s.codes = map[string]string{}
	}
	s.codes[to] = code
	s.sent++
	return nil
}

func (s *stubEmail) codeFor(to string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[to]
}

type stubPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *stubPublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *stubPublisher) Close() error { return nil }

func (p *stubPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.EventType())
	}
	return out
}

type stubResponder struct {
	reply string
	err   error
}

func (s stubResponder) Reply(context.Context, string) (string, error) { return s.reply, s.err }

func (s stubResponder) Welcome(_ context.Context, firstName string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "Hi " + firstName, nil
}

var _ assistant.Responder = stubResponder{}

type harness struct {
	st       *store.Store
	clock    *fakeClock
	email    *stubEmail
	pub      *stubPublisher
	schemes  *cryptobox.Registry
	users    *UserServiceImpl
	auth     *AuthServiceImpl
	messages *MessageServiceImpl
	chatbot  *ChatbotServiceImpl
	contacts *ContactServiceImpl
	tokens   *TokenServiceImpl
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWith(t, nil)
}

// newHarnessWith builds every service over one sqlite store. challenges
// defaults to the SQL-backed store.
func newHarnessWith(t *testing.T, challenges challenge.Store) *harness {
	t.Helper()

	st := storetest.New(t)
	schemes, err := cryptobox.NewRegistry(cryptobox.SchemeSealedBox)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	if challenges == nil {
		challenges = challenge.NewSQLStore(st)
	}
	h := &harness{
		st:      st,
		clock:   newFakeClock(),
		email:   &stubEmail{},
		pub:     &stubPublisher{},
		schemes: schemes,
	}
	passwords := NewPasswordService(testArgon2)

	h.tokens = NewTokenServiceHS256(TokenConfig{
		Issuer:     "chat-test",
		Audience:   "chat-clients",
		AccessTTL:  15 * time.Minute,
		SigningKey: []byte("test-signing-key"),
	})
	h.tokens.now = h.clock.now

	h.chatbot = NewChatbotServiceImpl(st, stubResponder{reply: "beep"})
	h.chatbot.now = h.clock.now

	h.users = NewUserServiceImpl(UserServiceDeps{
		Store:      st,
		Passwords:  passwords,
		Schemes:    schemes,
		Challenges: challenges,
		Events:     h.pub,
		Welcome:    h.chatbot,
	})
	h.users.now = h.clock.now

	h.auth = NewAuthServiceImpl(st, challenges, passwords, h.tokens, h.email, ChallengeConfig{
		LoginTTL:    10 * time.Minute,
		CodeTTL:     5 * time.Minute,
		MaxAttempts: 3,
	})
	h.auth.now = h.clock.now

	h.messages = NewMessageServiceImpl(st, schemes, h.pub)
	h.messages.now = h.clock.now

	h.contacts = NewContactServiceImpl(st, h.pub)
	h.contacts.now = h.clock.now
	return h
}

func (h *harness) createUser(t *testing.T, first, email, password string) domain.UserID {
	t.Helper()
	res, err := h.users.Create(context.Background(), dto.CreateUserRequest{
		FirstName:     first,
		LastName:      "Tester",
		Email:         email,
		PlainPassword: password,
	})
	if err != nil {
		t.Fatalf("create %s: %v", email, err)
	}
	id, err := parseUserID(res.UserID)
	if err != nil {
		t.Fatalf("user id %q: %v", res.UserID, err)
	}
	return id
}

// login runs the password step and mails a code, returning the code.
func (h *harness) login(t *testing.T, email, password string) (domain.UserID, string) {
	t.Helper()
	ctx := context.Background()
	res, err := h.auth.Login(ctx, dto.LoginRequest{Email: email, PlainPassword: password})
	if err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
	if _, err := h.auth.IssueChallenge(ctx, dto.IssueChallengeRequest{UserID: res.UserID}); err != nil {
		t.Fatalf("issue challenge: %v", err)
	}
	id, _ := parseUserID(res.UserID)
	return id, h.email.codeFor(email)
}

func wantErr(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("expected %v, got %v", target, err)
	}
}

// wrongCode returns a six digit code different from code.
func wrongCode(code string) string {
	if code == "123456" {
		return "654321"
	}
	return "123456"
}
