package challenge

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"encrypto-chat/internal/domain"
	"encrypto-chat/internal/store"
)

// SQLStore is the relational fallback used when redis is not configured.
// Expired rows are ignored by callers and replaced on the next Put.
type SQLStore struct {
	st *store.Store
}

func NewSQLStore(st *store.Store) *SQLStore { return &SQLStore{st: st} }

func (s *SQLStore) Put(ctx context.Context, ch *domain.TwoFactorChallenge) error {
	return s.st.Challenges().Put(ctx, ch)
}

func (s *SQLStore) Get(ctx context.Context, userID uuid.UUID) (*domain.TwoFactorChallenge, error) {
	ch, err := s.st.Challenges().Get(ctx, userID)
	return ch, mapErr(err)
}

func (s *SQLStore) IncrementAttempts(ctx context.Context, userID uuid.UUID) (int, error) {
	n, err := s.st.Challenges().IncrementAttempts(ctx, userID)
	return n, mapErr(err)
}

func (s *SQLStore) Consume(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	return s.st.Challenges().Consume(ctx, userID, code)
}

func (s *SQLStore) Delete(ctx context.Context, userID uuid.UUID) error {
	return s.st.Challenges().Delete(ctx, userID)
}

func mapErr(err error) error {
	if errors.Is(err, store.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
