package store

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"encrypto-chat/internal/domain"
)

type ConversationStore struct{ db *gorm.DB }

func (s *Store) Conversations() *ConversationStore { return &ConversationStore{db: s.DB} }

// Touch creates the conversation on first use and bumps updated_at afterwards.
// Caller timestamps win; zero values fall back to the wall clock.
func (c *ConversationStore) Touch(ctx context.Context, conv *domain.Conversation) error {
	now := time.Now().UTC()
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = now
	}
	if conv.UpdatedAt.IsZero() {
		conv.UpdatedAt = conv.CreatedAt
	}
	return translate(c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"updated_at"}),
	}).Create(conv).Error)
}

func (c *ConversationStore) Get(ctx context.Context, id string) (*domain.Conversation, error) {
	var conv domain.Conversation
	if err := c.db.WithContext(ctx).First(&conv, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &conv, nil
}

func (c *ConversationStore) Delete(ctx context.Context, id string) (int64, error) {
	res := c.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Conversation{})
	return res.RowsAffected, translate(res.Error)
}
