package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"encrypto-chat/internal/domain"
)

// ChallengeStore keeps two-factor login state in the relational store. It is
// used when no redis is configured.
type ChallengeStore struct{ db *gorm.DB }

func (s *Store) Challenges() *ChallengeStore { return &ChallengeStore{db: s.DB} }

func (c *ChallengeStore) Put(ctx context.Context, ch *domain.TwoFactorChallenge) error {
	return translate(c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"stage", "code", "attempts", "expires_at", "created_at"}),
	}).Create(ch).Error)
}

func (c *ChallengeStore) Get(ctx context.Context, userID uuid.UUID) (*domain.TwoFactorChallenge, error) {
	var ch domain.TwoFactorChallenge
	if err := c.db.WithContext(ctx).First(&ch, "user_id = ?", userID).Error; err != nil {
		return nil, translate(err)
	}
	return &ch, nil
}

// IncrementAttempts bumps the counter atomically and returns the new value.
func (c *ChallengeStore) IncrementAttempts(ctx context.Context, userID uuid.UUID) (int, error) {
	var attempts int
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.TwoFactorChallenge{}).
			Where("user_id = ?", userID).
			UpdateColumn("attempts", gorm.Expr("attempts + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		var ch domain.TwoFactorChallenge
		if err := tx.First(&ch, "user_id = ?", userID).Error; err != nil {
			return err
		}
		attempts = ch.Attempts
		return nil
	})
	return attempts, translate(err)
}

// Consume deletes the issued challenge only if code still matches, and reports
// whether this call removed it.
func (c *ChallengeStore) Consume(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	res := c.db.WithContext(ctx).
		Where("user_id = ? AND stage = ? AND code = ?", userID, domain.StageChallengeIssued, code).
		Delete(&domain.TwoFactorChallenge{})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (c *ChallengeStore) Delete(ctx context.Context, userID uuid.UUID) error {
	return translate(c.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.TwoFactorChallenge{}).Error)
}
