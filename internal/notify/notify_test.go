package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

type recordingMailer struct {
	to, subject, body string
	err               error
}

func (r *recordingMailer) Send(_ context.Context, to, subject, body string) error {
	r.to, r.subject, r.body = to, subject, body
	return r.err
}

func TestSendTwoFactorCode(t *testing.T) {
	rec := &recordingMailer{}
	svc := NewEmailService(rec)
	exp := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	if err := svc.SendTwoFactorCode(context.Background(), "alice@example.com", "123456", exp); err != nil {
		t.Fatalf("SendTwoFactorCode: %v", err)
	}
	if rec.to != "alice@example.com" || rec.subject != twoFactorSubject {
		t.Fatalf("unexpected envelope: %+v", rec)
	}
	if !strings.Contains(rec.body, "123456") {
		t.Fatalf("body missing code: %q", rec.body)
	}
}

func TestSendTwoFactorCodePropagatesFailure(t *testing.T) {
	boom := errors.New("relay down")
	svc := NewEmailService(&recordingMailer{err: boom})
	if err := svc.SendTwoFactorCode(context.Background(), "a@example.com", "1", time.Now()); !errors.Is(err, boom) {
		t.Fatalf("expected relay error, got %v", err)
	}
}

func TestLogMailer(t *testing.T) {
	var buf bytes.Buffer
	m := NewLogMailer(slog.New(slog.NewJSONHandler(&buf, nil)))
	if err := m.Send(context.Background(), "bob@example.com", "hi", "code 42"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !strings.Contains(buf.String(), "bob@example.com") {
		t.Fatalf("expected log entry, got %q", buf.String())
	}
}

func TestSMTPMailerConfig(t *testing.T) {
	if _, err := NewSMTPMailer(SMTPConfig{}); err == nil {
		t.Fatalf("expected error for empty config")
	}
	m, err := NewSMTPMailer(SMTPConfig{Host: "localhost", Port: 2525, From: "noreply@example.com", Username: "u", Password: "p"})
	if err != nil {
		t.Fatalf("NewSMTPMailer: %v", err)
	}
	if _, err := m.buildMessage("not an address", "s", "b"); err == nil {
		t.Fatalf("expected invalid recipient error")
	}
	msg, err := m.buildMessage("alice@example.com", "s", "b")
	if err != nil {
		t.Fatalf("buildMessage: %v", err)
	}
	if got := msg.GetToString(); len(got) != 1 || !strings.Contains(got[0], "alice@example.com") {
		t.Fatalf("unexpected recipients %v", got)
	}
}
