package domain

import "time"

// User is the account record. Email is unique and matched case-sensitively.
type User struct {
	ID        UserID    `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	FirstName string    `gorm:"type:text;not null" db:"first_name" json:"firstName"`
	LastName  string    `gorm:"type:text;not null" db:"last_name" json:"lastName"`
	Email     string    `gorm:"type:text;not null;uniqueIndex:ux_users_email" db:"email" json:"email"`
	CreatedAt time.Time `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" db:"updated_at" json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// UserRecord is the internal full view of a user, key material included.
// It never leaves the process.
type UserRecord struct {
	User     User
	KeyPair  UserKeyPair
	Contacts []UserID
}
