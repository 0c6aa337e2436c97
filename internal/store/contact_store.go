package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"encrypto-chat/internal/domain"
)

type ContactStore struct{ db *gorm.DB }

func (s *Store) Contacts() *ContactStore { return &ContactStore{db: s.DB} }

// AddPair writes both directions. Callers run it inside WithTx.
func (c *ContactStore) AddPair(ctx context.Context, a, b uuid.UUID) error {
	now := time.Now().UTC()
	rows := []domain.Contact{
		{UserID: a, ContactID: b, CreatedAt: now},
		{UserID: b, ContactID: a, CreatedAt: now},
	}
	return translate(c.db.WithContext(ctx).Create(&rows).Error)
}

// RemovePair deletes both directions and reports how many rows went away.
func (c *ContactStore) RemovePair(ctx context.Context, a, b uuid.UUID) (int64, error) {
	res := c.db.WithContext(ctx).
		Where("(user_id = ? AND contact_id = ?) OR (user_id = ? AND contact_id = ?)", a, b, b, a).
		Delete(&domain.Contact{})
	return res.RowsAffected, translate(res.Error)
}

func (c *ContactStore) Exists(ctx context.Context, userID, contactID uuid.UUID) (bool, error) {
	var n int64
	err := c.db.WithContext(ctx).Model(&domain.Contact{}).
		Where("user_id = ? AND contact_id = ?", userID, contactID).
		Count(&n).Error
	return n > 0, translate(err)
}

func (c *ContactStore) ListIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := c.db.WithContext(ctx).Model(&domain.Contact{}).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Pluck("contact_id", &ids).Error
	return ids, translate(err)
}
