package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"encrypto-chat/internal/domain"
)

type KeyStore struct{ db *gorm.DB }

func (s *Store) Keys() *KeyStore { return &KeyStore{db: s.DB} }

func (k *KeyStore) Create(ctx context.Context, kp *domain.UserKeyPair) error {
	if kp.CreatedAt.IsZero() {
		kp.CreatedAt = time.Now().UTC()
	}
	return translate(k.db.WithContext(ctx).Create(kp).Error)
}

func (k *KeyStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserKeyPair, error) {
	var kp domain.UserKeyPair
	if err := k.db.WithContext(ctx).First(&kp, "user_id = ?", userID).Error; err != nil {
		return nil, translate(err)
	}
	return &kp, nil
}
