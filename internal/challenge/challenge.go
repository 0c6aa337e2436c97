// Package challenge persists per-user two-factor login state and generates
// one-time codes.
package challenge

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"

	"github.com/google/uuid"

	"encrypto-chat/internal/domain"
)

const (
	CodeMin = 100000
	CodeMax = 999999
)

var ErrNotFound = errors.New("challenge: not found")

// Store holds at most one challenge per user. Put overwrites.
//
// Consume removes an issued challenge whose code equals code and reports
// whether it did. At most one caller observes true for a given challenge.
type Store interface {
	Put(ctx context.Context, ch *domain.TwoFactorChallenge) error
	Get(ctx context.Context, userID uuid.UUID) (*domain.TwoFactorChallenge, error)
	IncrementAttempts(ctx context.Context, userID uuid.UUID) (int, error)
	Consume(ctx context.Context, userID uuid.UUID, code string) (bool, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}

// GenerateCode draws a uniform six digit code from r.
func GenerateCode(r io.Reader) (string, error) {
	if r == nil {
		r = rand.Reader
	}
	n, err := rand.Int(r, big.NewInt(CodeMax-CodeMin+1))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return strconv.FormatInt(n.Int64()+CodeMin, 10), nil
}
