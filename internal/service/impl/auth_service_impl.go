package impl

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"encrypto-chat/internal/challenge"
	"encrypto-chat/internal/domain"
	"encrypto-chat/internal/dto"
	"encrypto-chat/internal/observability/metrics"
	"encrypto-chat/internal/observability/middleware"
	"encrypto-chat/internal/service"
	"encrypto-chat/internal/store"
)

type ChallengeConfig struct {
	LoginTTL    time.Duration // window between password step and code issue
	CodeTTL     time.Duration
	MaxAttempts int
}

const defaultMaxAttempts = 5

type AuthServiceImpl struct {
	Store           dataStore
	Challenges      challenge.Store
	PasswordService service.PasswordService
	TService        service.TokenService
	Email           service.EmailService
	Config          ChallengeConfig

	now    func() time.Time
	random io.Reader
}

func NewAuthServiceImpl(
	st *store.Store,
	challenges challenge.Store,
	passwordService service.PasswordService,
	tokenService service.TokenService,
	email service.EmailService,
	cfg ChallengeConfig,
) *AuthServiceImpl {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	return &AuthServiceImpl{
		Store:           gormStoreAdapter{store: st},
		Challenges:      challenges,
		PasswordService: passwordService,
		TService:        tokenService,
		Email:           email,
		Config:          cfg,
		now:             time.Now,
	}
}

type dataStore interface {
	WithTx(ctx context.Context, fn func(tx storeTx) error) error
}

type storeTx interface {
	Users() userStore
	Credentials() credentialStore
}

type userStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type credentialStore interface {
	UpsertPassword(ctx context.Context, c *domain.PasswordCredential) error
	GetPasswordByUserID(ctx context.Context, userID uuid.UUID) (*domain.PasswordCredential, error)
}

type gormStoreAdapter struct {
	store *store.Store
}

func (g gormStoreAdapter) WithTx(ctx context.Context, fn func(tx storeTx) error) error {
	if g.store == nil {
		return ErrNilStore
	}
	return g.store.WithTx(ctx, func(tx *store.Store) error {
		return fn(gormTxAdapter{tx: tx})
	})
}

type gormTxAdapter struct {
	tx *store.Store
}

func (g gormTxAdapter) Users() userStore { return g.tx.Users() }

func (g gormTxAdapter) Credentials() credentialStore { return g.tx.Credentials() }

// Login checks the password and opens the window in which a code may be issued.
// No token is returned here.
func (a *AuthServiceImpl) Login(ctx context.Context, r dto.LoginRequest) (*dto.LoginResponse, error) {
	result := "failure"
	defer func() {
		metrics.LoginsTotal.WithLabelValues(result).Inc()
	}()

	email := strings.TrimSpace(r.Email)
	if email == "" || r.PlainPassword == "" {
		return nil, domain.ErrMissingFields
	}

	var user *domain.User
	err := a.Store.WithTx(ctx, func(tx storeTx) error {
		var err error
		user, err = tx.Users().GetByEmail(ctx, email)
		if err != nil {
			return storeErr(err, domain.ErrUserNotFound)
		}
		cred, err := tx.Credentials().GetPasswordByUserID(ctx, user.ID)
		if err != nil {
			return storeErr(err, domain.ErrInvalidCredentials)
		}
		rehashNeeded, ok := a.PasswordService.Verify(r.PlainPassword, cred)
		if !ok {
			return domain.ErrInvalidCredentials
		}
		if rehashNeeded {
			newHash, newSalt, newParamsJSON, algo, ver, err := a.PasswordService.Hash(r.PlainPassword)
			if err != nil {
				return err
			}
			cred.Algo = algo
			cred.Hash = newHash
			cred.Salt = newSalt
			cred.ParamsJSON = newParamsJSON
			cred.PasswordVer = ver
			cred.UpdatedAt = a.now().UTC()
			if err := tx.Credentials().UpsertPassword(ctx, cred); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			result = "invalid"
		}
		return nil, storeErr(err, nil)
	}

	now := a.now().UTC()
	pending := &domain.TwoFactorChallenge{
		UserID:    user.ID,
		Stage:     domain.StagePasswordVerified,
		ExpiresAt: now.Add(a.Config.LoginTTL),
		CreatedAt: now,
	}
	if err := a.Challenges.Put(ctx, pending); err != nil {
		return nil, fmt.Errorf("%w: store challenge: %v", domain.ErrDependency, err)
	}
	result = "success"

	attrs := append([]any{"user_id", user.ID}, middleware.LogAttrs(ctx)...)
	slog.Info("password verified", attrs...)

	return &dto.LoginResponse{
		UserID:            user.ID.String(),
		TwoFactorRequired: true,
		ExpiresAt:         pending.ExpiresAt,
	}, nil
}

// IssueChallenge mails a fresh code. It requires a live password step or a
// previously issued code. Reissuing keeps the attempt count.
func (a *AuthServiceImpl) IssueChallenge(ctx context.Context, r dto.IssueChallengeRequest) (*dto.IssueChallengeResponse, error) {
	result := "failure"
	defer func() {
		metrics.TwoFactorTotal.WithLabelValues("issue", result).Inc()
	}()

	userID, err := parseUserID(r.UserID)
	if err != nil {
		return nil, err
	}
	user, err := a.lookupUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := a.now().UTC()
	prev, err := a.Challenges.Get(ctx, userID)
	if errors.Is(err, challenge.ErrNotFound) {
		return nil, domain.ErrNoPendingChallenge
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load challenge: %v", domain.ErrDependency, err)
	}
	if prev.Expired(now) {
		_ = a.Challenges.Delete(ctx, userID)
		return nil, domain.ErrNoPendingChallenge
	}

	code, err := challenge.GenerateCode(a.random)
	if err != nil {
		return nil, err
	}
	next := &domain.TwoFactorChallenge{
		UserID:    userID,
		Stage:     domain.StageChallengeIssued,
		Code:      code,
		ExpiresAt: now.Add(a.Config.CodeTTL),
		CreatedAt: now,
	}
	if prev.Stage == domain.StageChallengeIssued {
		next.Attempts = prev.Attempts
	}
	if err := a.Challenges.Put(ctx, next); err != nil {
		return nil, fmt.Errorf("%w: store challenge: %v", domain.ErrDependency, err)
	}

	if err := a.Email.SendTwoFactorCode(ctx, user.Email, code, next.ExpiresAt); err != nil {
		// the user never saw the new code; fall back to the previous state
		if rerr := a.Challenges.Put(ctx, prev); rerr != nil {
			slog.Warn("restore challenge failed", "user_id", userID, "err", rerr)
		}
		attrs := append([]any{"user_id", userID, "err", err}, middleware.LogAttrs(ctx)...)
		slog.Error("send two-factor code failed", attrs...)
		return nil, fmt.Errorf("%w: %v", domain.ErrNotifierFailed, err)
	}
	result = "success"

	attrs := append([]any{"user_id", userID, "expires_at", next.ExpiresAt}, middleware.LogAttrs(ctx)...)
	slog.Info("two-factor code issued", attrs...)

	return &dto.IssueChallengeResponse{UserID: userID.String(), ExpiresAt: next.ExpiresAt}, nil
}

// VerifyChallenge consumes the issued code and returns an access token.
func (a *AuthServiceImpl) VerifyChallenge(ctx context.Context, r dto.VerifyChallengeRequest) (*dto.TokenResponse, error) {
	result := "failure"
	defer func() {
		metrics.TwoFactorTotal.WithLabelValues("verify", result).Inc()
	}()

	attempt := strings.TrimSpace(r.SecretAttempt)
	if attempt == "" {
		return nil, domain.ErrMissingFields
	}
	userID, err := parseUserID(r.UserID)
	if err != nil {
		return nil, err
	}
	user, err := a.lookupUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ch, err := a.Challenges.Get(ctx, userID)
	if errors.Is(err, challenge.ErrNotFound) {
		return nil, domain.ErrNoPendingChallenge
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load challenge: %v", domain.ErrDependency, err)
	}
	if ch.Stage != domain.StageChallengeIssued {
		return nil, domain.ErrNoPendingChallenge
	}
	if ch.Expired(a.now()) {
		_ = a.Challenges.Delete(ctx, userID)
		result = "expired"
		return nil, domain.ErrChallengeExpired
	}

	if subtle.ConstantTimeCompare([]byte(attempt), []byte(ch.Code)) != 1 {
		result = "mismatch"
		n, err := a.Challenges.IncrementAttempts(ctx, userID)
		if err != nil && !errors.Is(err, challenge.ErrNotFound) {
			return nil, fmt.Errorf("%w: record attempt: %v", domain.ErrDependency, err)
		}
		if errors.Is(err, challenge.ErrNotFound) || n >= a.Config.MaxAttempts {
			_ = a.Challenges.Delete(ctx, userID)
			result = "locked"
			return nil, domain.ErrTooManyAttempts
		}
		return nil, domain.ErrInvalidCode
	}

	// single use: only the caller that removes the record gets a token
	consumed, err := a.Challenges.Consume(ctx, userID, attempt)
	if err != nil {
		return nil, fmt.Errorf("%w: consume challenge: %v", domain.ErrDependency, err)
	}
	if !consumed {
		result = "replayed"
		return nil, domain.ErrNoPendingChallenge
	}
	tokens, err := a.TService.Issue(ctx, user)
	if err != nil {
		return nil, err
	}
	result = "success"

	tokens.User = userView(user, nil)
	return tokens, nil
}

func (a *AuthServiceImpl) lookupUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	var user *domain.User
	err := a.Store.WithTx(ctx, func(tx storeTx) error {
		var err error
		user, err = tx.Users().GetByID(ctx, userID)
		return err
	})
	if err != nil {
		return nil, storeErr(err, domain.ErrUserNotFound)
	}
	return user, nil
}

func parseUserID(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, domain.ErrMissingFields
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed user id", domain.ErrBadRequest)
	}
	return id, nil
}
