package domain

import "time"

// UserKeyPair holds both halves of a user's message key. The private half is
// stored server-side, so messages are only confidential against a leaked
// database, not against a compromised server process.
type UserKeyPair struct {
	UserID     UserID    `gorm:"type:uuid;primaryKey" db:"user_id"`
	Scheme     string    `gorm:"type:text;not null" db:"scheme"`
	PublicKey  string    `gorm:"type:text;not null" db:"public_key"`
	PrivateKey string    `gorm:"type:text;not null" db:"private_key"`
	CreatedAt  time.Time `gorm:"not null" db:"created_at"`
}

func (UserKeyPair) TableName() string { return "user_keys" }
