package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"encrypto-chat/internal/domain"
)

type ChatbotStore struct{ db *gorm.DB }

func (s *Store) Chatbot() *ChatbotStore { return &ChatbotStore{db: s.DB} }

func (c *ChatbotStore) Create(ctx context.Context, msgs ...*domain.ChatbotMessage) error {
	for _, m := range msgs {
		if m.ID == uuid.Nil {
			m.ID = uuid.New()
		}
	}
	return translate(c.db.WithContext(ctx).Create(msgs).Error)
}

func (c *ChatbotStore) ListByConversation(ctx context.Context, conversationID string) ([]domain.ChatbotMessage, error) {
	var out []domain.ChatbotMessage
	err := c.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at asc, id asc").
		Find(&out).Error
	return out, translate(err)
}
