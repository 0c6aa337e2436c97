package challenge

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"

	"encrypto-chat/internal/domain"
	"encrypto-chat/internal/store/storetest"
)

func TestGenerateCodeRange(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := GenerateCode(nil)
		if err != nil {
			t.Fatalf("GenerateCode: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("code %q is not numeric: %v", code, err)
		}
		if n < CodeMin || n > CodeMax {
			t.Fatalf("code %d out of range", n)
		}
	}
}

func TestGenerateCodeFailsWithoutEntropy(t *testing.T) {
	if _, err := GenerateCode(bytes.NewReader(nil)); err == nil {
		t.Fatalf("expected error from exhausted reader")
	}
}

func TestSQLStore(t *testing.T) {
	repo := NewSQLStore(storetest.New(t))
	ctx := context.Background()
	userID := uuid.New()

	if _, err := repo.Get(ctx, userID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.IncrementAttempts(ctx, userID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	now := time.Now().UTC()
	if err := repo.Put(ctx, &domain.TwoFactorChallenge{UserID: userID, Stage: domain.StageChallengeIssued, Code: "424242", CreatedAt: now, ExpiresAt: now.Add(time.Minute)}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	n, err := repo.IncrementAttempts(ctx, userID)
	if err != nil || n != 1 {
		t.Fatalf("IncrementAttempts = %d, %v", n, err)
	}
	rec, err := repo.Get(ctx, userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.Code != "424242" || rec.Attempts != 1 {
		t.Fatalf("unexpected record %+v", rec)
	}
	if err := repo.Delete(ctx, userID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Get(ctx, userID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestSQLStoreConsume(t *testing.T) {
	repo := NewSQLStore(storetest.New(t))
	ctx := context.Background()
	userID := uuid.New()
	now := time.Now().UTC()

	if ok, err := repo.Consume(ctx, userID, "424242"); err != nil || ok {
		t.Fatalf("Consume on missing challenge = %v, %v", ok, err)
	}

	if err := repo.Put(ctx, &domain.TwoFactorChallenge{UserID: userID, Stage: domain.StagePasswordVerified, CreatedAt: now, ExpiresAt: now.Add(time.Minute)}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if ok, err := repo.Consume(ctx, userID, ""); err != nil || ok {
		t.Fatalf("password stage must not be consumable: %v, %v", ok, err)
	}

	if err := repo.Put(ctx, &domain.TwoFactorChallenge{UserID: userID, Stage: domain.StageChallengeIssued, Code: "424242", CreatedAt: now, ExpiresAt: now.Add(time.Minute)}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if ok, err := repo.Consume(ctx, userID, "111111"); err != nil || ok {
		t.Fatalf("Consume with wrong code = %v, %v", ok, err)
	}
	if ok, err := repo.Consume(ctx, userID, "424242"); err != nil || !ok {
		t.Fatalf("Consume = %v, %v", ok, err)
	}
	if ok, err := repo.Consume(ctx, userID, "424242"); err != nil || ok {
		t.Fatalf("second Consume = %v, %v", ok, err)
	}
	if _, err := repo.Get(ctx, userID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after consume, got %v", err)
	}
}
