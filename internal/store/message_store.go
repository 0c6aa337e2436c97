package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"encrypto-chat/internal/domain"
)

type MessageStore struct{ db *gorm.DB }

func (s *Store) Messages() *MessageStore { return &MessageStore{db: s.DB} }

func (m *MessageStore) Create(ctx context.Context, msg *domain.Message) error {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	return translate(m.db.WithContext(ctx).Create(msg).Error)
}

// ListForUser returns every message the user sent or received, oldest first.
func (m *MessageStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Message, error) {
	var msgs []domain.Message
	err := m.db.WithContext(ctx).
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at asc, id asc").
		Find(&msgs).Error
	return msgs, translate(err)
}

func (m *MessageStore) ListByConversation(ctx context.Context, conversationID string) ([]domain.Message, error) {
	var msgs []domain.Message
	err := m.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at asc, id asc").
		Find(&msgs).Error
	return msgs, translate(err)
}

func (m *MessageStore) DeleteByConversation(ctx context.Context, conversationID string) (int64, error) {
	res := m.db.WithContext(ctx).Where("conversation_id = ?", conversationID).Delete(&domain.Message{})
	return res.RowsAffected, translate(res.Error)
}

func (m *MessageStore) DeleteForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := m.db.WithContext(ctx).
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Delete(&domain.Message{})
	return res.RowsAffected, translate(res.Error)
}
