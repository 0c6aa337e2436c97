package service

import (
	"context"
	"time"
)

type EmailService interface {
	SendTwoFactorCode(ctx context.Context, to, code string, expiresAt time.Time) error
}
