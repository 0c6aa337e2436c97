package impl

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"encrypto-chat/internal/domain"
)

func TestTokenIssueAndSubject(t *testing.T) {
	clock := newFakeClock()
	svc := NewTokenServiceHS256(TokenConfig{Issuer: "iss", Audience: "aud", AccessTTL: time.Minute, SigningKey: []byte("k1")})
	svc.now = clock.now
	user := &domain.User{ID: uuid.New()}

	tok, err := svc.Issue(context.Background(), user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if tok.TokenType != "Bearer" || tok.ExpiresIn != 60 {
		t.Fatalf("unexpected response: %+v", tok)
	}
	sub, err := svc.Subject(tok.AccessToken)
	if err != nil || sub != user.ID.String() {
		t.Fatalf("Subject = %q, %v", sub, err)
	}

	other := NewTokenServiceHS256(TokenConfig{Issuer: "iss", Audience: "aud", AccessTTL: time.Minute, SigningKey: []byte("k2")})
	other.now = clock.now
	if _, err := other.Subject(tok.AccessToken); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("foreign key accepted: %v", err)
	}

	wrongAud := NewTokenServiceHS256(TokenConfig{Issuer: "iss", Audience: "elsewhere", AccessTTL: time.Minute, SigningKey: []byte("k1")})
	wrongAud.now = clock.now
	if _, err := wrongAud.Subject(tok.AccessToken); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("wrong audience accepted: %v", err)
	}

	clock.advance(2 * time.Minute)
	if _, err := svc.Subject(tok.AccessToken); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expired token accepted: %v", err)
	}
	if _, err := svc.Subject("garbage"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("garbage accepted: %v", err)
	}
}

func TestTokenIssueRequiresKey(t *testing.T) {
	svc := NewTokenServiceHS256(TokenConfig{AccessTTL: time.Minute})
	if _, err := svc.Issue(context.Background(), &domain.User{ID: uuid.New()}); err == nil {
		t.Fatalf("expected error without signing key")
	}
}
