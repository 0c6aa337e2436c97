package store

import (
	"context"

	"gorm.io/gorm"

	"encrypto-chat/internal/domain"
)

type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store { return &Store{DB: db} }

func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{DB: tx})
	})
}

// Models lists every table owned by the store, in dependency order.
func Models() []any {
	return []any{
		&domain.User{},
		&domain.PasswordCredential{},
		&domain.UserKeyPair{},
		&domain.Contact{},
		&domain.Conversation{},
		&domain.Message{},
		&domain.ChatbotMessage{},
		&domain.TwoFactorChallenge{},
	}
}

// AutoMigrate creates the schema from the gorm models. Used for sqlite and
// local development; postgres deployments run Migrate instead.
func (s *Store) AutoMigrate(ctx context.Context) error {
	return s.DB.WithContext(ctx).AutoMigrate(Models()...)
}
