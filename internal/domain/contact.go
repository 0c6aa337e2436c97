package domain

import "time"

// Contact is one direction of a mutual contact relation. Both directions are
// always written and removed together.
type Contact struct {
	UserID    UserID    `gorm:"type:uuid;primaryKey" db:"user_id"`
	ContactID UserID    `gorm:"type:uuid;primaryKey;index" db:"contact_id"`
	CreatedAt time.Time `gorm:"not null" db:"created_at"`
}

func (Contact) TableName() string { return "contacts" }
