package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"encrypto-chat/internal/domain"
)

// DeleteUserData removes the user and everything that references them in a
// single transaction and returns per-table counts of deleted rows.
func (s *Store) DeleteUserData(ctx context.Context, userID uuid.UUID) (map[string]int64, error) {
	deleted := map[string]int64{}

	err := s.WithTx(ctx, func(tx *Store) error {
		db := tx.DB.WithContext(ctx)

		del := func(label string, query *gorm.DB, model any) error {
			res := query.Delete(model)
			if res.Error != nil {
				return res.Error
			}
			deleted[label] = res.RowsAffected
			return nil
		}

		steps := []struct {
			label string
			query *gorm.DB
			model any
		}{
			{"messages", db.Where("sender_id = ? OR recipient_id = ?", userID, userID), &domain.Message{}},
			{"conversations", db.Where("participant_a = ? OR participant_b = ?", userID, userID), &domain.Conversation{}},
			{"chatbotMessages", db.Where("user_id = ?", userID), &domain.ChatbotMessage{}},
			{"contacts", db.Where("user_id = ? OR contact_id = ?", userID, userID), &domain.Contact{}},
			{"twoFactorChallenges", db.Where("user_id = ?", userID), &domain.TwoFactorChallenge{}},
			{"passwordCredentials", db.Where("user_id = ?", userID), &domain.PasswordCredential{}},
			{"userKeys", db.Where("user_id = ?", userID), &domain.UserKeyPair{}},
			{"users", db.Where("id = ?", userID), &domain.User{}},
		}
		for _, st := range steps {
			if err := del(st.label, st.query, st.model); err != nil {
				return err
			}
		}
		if deleted["users"] == 0 {
			return ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return deleted, nil
}

// DeleteConversation removes the conversation row and all of its messages.
func (s *Store) DeleteConversation(ctx context.Context, conversationID string) (int64, error) {
	var removed int64
	err := s.WithTx(ctx, func(tx *Store) error {
		var err error
		removed, err = tx.Messages().DeleteByConversation(ctx, conversationID)
		if err != nil {
			return err
		}
		n, err := tx.Conversations().Delete(ctx, conversationID)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrRecordNotFound
		}
		return nil
	})
	return removed, err
}
