package impl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"encrypto-chat/internal/challenge"
	"encrypto-chat/internal/cryptobox"
	"encrypto-chat/internal/domain"
	"encrypto-chat/internal/dto"
	"encrypto-chat/internal/events"
	"encrypto-chat/internal/observability/metrics"
	"encrypto-chat/internal/observability/middleware"
	"encrypto-chat/internal/service"
	"encrypto-chat/internal/store"
)

type UserServiceImpl struct {
	store      *store.Store
	passwords  service.PasswordService
	schemes    *cryptobox.Registry
	challenges challenge.Store
	events     events.Publisher
	welcome    service.ChatbotService
	now        func() time.Time
}

type UserServiceDeps struct {
	Store      *store.Store
	Passwords  service.PasswordService
	Schemes    *cryptobox.Registry
	Challenges challenge.Store        // optional; cleared on account deletion
	Events     events.Publisher       // optional
	Welcome    service.ChatbotService // optional; greets new accounts
}

func NewUserServiceImpl(d UserServiceDeps) *UserServiceImpl {
	return &UserServiceImpl{
		store:      d.Store,
		passwords:  d.Passwords,
		schemes:    d.Schemes,
		challenges: d.Challenges,
		events:     d.Events,
		welcome:    d.Welcome,
		now:        time.Now,
	}
}

// Create registers an account with a password credential and a fresh key pair
// in one transaction.
func (u *UserServiceImpl) Create(ctx context.Context, r dto.CreateUserRequest) (*dto.CreateUserResponse, error) {
	result := "failure"
	defer func() {
		metrics.RegistrationsTotal.WithLabelValues(result).Inc()
	}()

	firstName := strings.TrimSpace(r.FirstName)
	lastName := strings.TrimSpace(r.LastName)
	email := strings.TrimSpace(r.Email)
	if firstName == "" || lastName == "" || email == "" || r.PlainPassword == "" {
		return nil, domain.ErrMissingFields
	}

	if _, err := u.store.Users().GetByEmail(ctx, email); err == nil {
		result = "conflict"
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, store.ErrRecordNotFound) {
		return nil, storeErr(err, nil)
	}

	hash, salt, paramsJSON, algo, ver, err := u.passwords.Hash(r.PlainPassword)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	scheme := u.schemes.Default()
	pub, priv, err := scheme.GenerateKeyPair()
	if err != nil {
		return nil, fmt.Errorf("generate key pair: %w", err)
	}

	now := u.now().UTC()
	usr := &domain.User{
		ID:        uuid.New(),
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = u.store.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.Users().Create(ctx, usr); err != nil {
			return err
		}
		cred := &domain.PasswordCredential{
			ID:          uuid.New(),
			UserID:      usr.ID,
			Algo:        algo,
			Hash:        hash,
			Salt:        salt,
			ParamsJSON:  paramsJSON,
			PasswordVer: ver,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Credentials().UpsertPassword(ctx, cred); err != nil {
			return err
		}
		return tx.Keys().Create(ctx, &domain.UserKeyPair{
			UserID:     usr.ID,
			Scheme:     scheme.Name(),
			PublicKey:  pub,
			PrivateKey: priv,
			CreatedAt:  now,
		})
	})
	if errors.Is(err, store.ErrDuplicate) {
		// lost a race with a concurrent registration for the same email
		result = "conflict"
		return nil, domain.ErrEmailTaken
	}
	if err != nil {
		return nil, storeErr(err, nil)
	}
	result = "success"

	attrs := append([]any{"user_id", usr.ID, "key_scheme", scheme.Name()}, middleware.LogAttrs(ctx)...)
	slog.Info("user registered", attrs...)

	publish(ctx, u.events, events.UserRegistered{UserID: usr.ID.String(), Email: usr.Email, At: now})
	if u.welcome != nil {
		if err := u.welcome.SendWelcome(ctx, usr); err != nil {
			slog.Warn("welcome message failed", append([]any{"user_id", usr.ID, "err", err}, middleware.LogAttrs(ctx)...)...)
		}
	}
	return &dto.CreateUserResponse{UserID: usr.ID.String()}, nil
}

func (u *UserServiceImpl) Get(ctx context.Context, userID domain.UserID) (*dto.UserView, error) {
	usr, err := u.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err, domain.ErrUserNotFound)
	}
	contacts, err := u.store.Contacts().ListIDs(ctx, userID)
	if err != nil {
		return nil, storeErr(err, nil)
	}
	return userView(usr, contacts), nil
}

// GetRecord returns the full record including key material. Internal use only.
func (u *UserServiceImpl) GetRecord(ctx context.Context, userID domain.UserID) (*domain.UserRecord, error) {
	var rec domain.UserRecord
	err := u.store.WithTx(ctx, func(tx *store.Store) error {
		usr, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return storeErr(err, domain.ErrUserNotFound)
		}
		kp, err := tx.Keys().GetByUserID(ctx, userID)
		if err != nil {
			return storeErr(err, domain.ErrRecipientKeyMissing)
		}
		contacts, err := tx.Contacts().ListIDs(ctx, userID)
		if err != nil {
			return err
		}
		rec = domain.UserRecord{User: *usr, KeyPair: *kp, Contacts: contacts}
		return nil
	})
	if err != nil {
		return nil, storeErr(err, nil)
	}
	return &rec, nil
}

func (u *UserServiceImpl) GetIDByEmail(ctx context.Context, email string) (domain.UserID, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return uuid.Nil, domain.ErrMissingFields
	}
	usr, err := u.store.Users().GetByEmail(ctx, email)
	if err != nil {
		return uuid.Nil, storeErr(err, domain.ErrUserNotFound)
	}
	return usr.ID, nil
}

// UpdateProfile applies the fields present in r. A new password is rehashed
// under the current policy.
func (u *UserServiceImpl) UpdateProfile(ctx context.Context, userID domain.UserID, r dto.UpdateProfileRequest) (*dto.UserView, error) {
	if r.FirstName == nil && r.LastName == nil && r.Email == nil && r.PlainPassword == nil {
		return nil, domain.ErrMissingFields
	}
	firstName, ok1 := trimmed(r.FirstName)
	lastName, ok2 := trimmed(r.LastName)
	email, ok3 := trimmed(r.Email)
	if !ok1 || !ok2 || !ok3 || (r.PlainPassword != nil && *r.PlainPassword == "") {
		return nil, domain.ErrMissingFields
	}

	err := u.store.WithTx(ctx, func(tx *store.Store) error {
		if _, err := tx.Users().GetByID(ctx, userID); err != nil {
			return storeErr(err, domain.ErrUserNotFound)
		}
		if email != nil {
			other, err := tx.Users().GetByEmail(ctx, *email)
			if err == nil && other.ID != userID {
				return domain.ErrEmailTaken
			}
			if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
				return err
			}
		}
		if firstName != nil || lastName != nil || email != nil {
			if err := tx.Users().UpdateProfile(ctx, userID, firstName, lastName, email); err != nil {
				if errors.Is(err, store.ErrDuplicate) {
					return domain.ErrEmailTaken
				}
				return storeErr(err, domain.ErrUserNotFound)
			}
		}
		if r.PlainPassword != nil {
			hash, salt, paramsJSON, algo, ver, err := u.passwords.Hash(*r.PlainPassword)
			if err != nil {
				return err
			}
			now := u.now().UTC()
			cred, err := tx.Credentials().GetPasswordByUserID(ctx, userID)
			if err != nil {
				if !errors.Is(err, store.ErrRecordNotFound) {
					return err
				}
				cred = &domain.PasswordCredential{ID: uuid.New(), UserID: userID, CreatedAt: now}
			}
			cred.Algo = algo
			cred.Hash = hash
			cred.Salt = salt
			cred.ParamsJSON = paramsJSON
			cred.PasswordVer = ver
			cred.UpdatedAt = now
			return tx.Credentials().UpsertPassword(ctx, cred)
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err, nil)
	}
	return u.Get(ctx, userID)
}

// DeleteByEmail removes the account and everything that references it.
func (u *UserServiceImpl) DeleteByEmail(ctx context.Context, email string) error {
	id, err := u.GetIDByEmail(ctx, email)
	if err != nil {
		return err
	}
	removed, err := u.store.DeleteUserData(ctx, id)
	if err != nil {
		return storeErr(err, domain.ErrUserNotFound)
	}
	if u.challenges != nil {
		if err := u.challenges.Delete(ctx, id); err != nil {
			slog.Warn("clear challenge after delete failed", "user_id", id, "err", err)
		}
	}

	attrs := append([]any{"user_id", id, "removed", removed}, middleware.LogAttrs(ctx)...)
	slog.Info("user deleted", attrs...)

	publish(ctx, u.events, events.UserDeleted{
		UserID:  id.String(),
		Email:   strings.TrimSpace(email),
		Removed: removed,
		At:      u.now().UTC(),
	})
	return nil
}

func userView(usr *domain.User, contacts []uuid.UUID) *dto.UserView {
	ids := make([]string, 0, len(contacts))
	for _, c := range contacts {
		ids = append(ids, c.String())
	}
	return &dto.UserView{
		ID:        usr.ID.String(),
		FirstName: usr.FirstName,
		LastName:  usr.LastName,
		Email:     usr.Email,
		Contacts:  ids,
	}
}

// trimmed returns nil for an absent field and false for a blank one.
func trimmed(s *string) (*string, bool) {
	if s == nil {
		return nil, true
	}
	v := strings.TrimSpace(*s)
	return &v, v != ""
}
