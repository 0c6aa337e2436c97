// Package notify delivers one-time codes to users by email.
package notify

import (
	"context"
	"fmt"
	"time"
)

const twoFactorSubject = "Your Encrypto-Chat verification code"

// Mailer sends a single plain-text email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// EmailService renders notification emails and hands them to a Mailer.
type EmailService struct {
	mailer Mailer
}

func NewEmailService(m Mailer) *EmailService { return &EmailService{mailer: m} }

func (e *EmailService) SendTwoFactorCode(ctx context.Context, to, code string, expiresAt time.Time) error {
	body := fmt.Sprintf("Your verification code is %s.\nIt expires at %s.\n", code, expiresAt.UTC().Format(time.RFC1123))
	return e.mailer.Send(ctx, to, twoFactorSubject, body)
}
