package domain

import "time"

type ChallengeStage string

const (
	StagePasswordVerified ChallengeStage = "password_verified"
	StageChallengeIssued  ChallengeStage = "challenge_issued"
)

// TwoFactorChallenge is the per-user login state between the password step and
// the one-time code step. At most one exists per user.
type TwoFactorChallenge struct {
	UserID    UserID         `gorm:"type:uuid;primaryKey" db:"user_id"`
	Stage     ChallengeStage `gorm:"type:text;not null" db:"stage"`
	Code      string         `gorm:"type:text" db:"code"`
	Attempts  int            `gorm:"not null;default:0" db:"attempts"`
	ExpiresAt time.Time      `gorm:"not null" db:"expires_at"`
	CreatedAt time.Time      `gorm:"not null" db:"created_at"`
}

func (TwoFactorChallenge) TableName() string { return "two_factor_challenges" }

func (c *TwoFactorChallenge) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
