package user

import (
	"time"
)

// User represents a registered account. Only the opaque ID is meaningful to
// the task and report modules; everything else belongs to the auth module.
type User struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"uniqueIndex;size:256;not null"`
	Name         string `gorm:"size:200;not null"`
	PasswordHash string `gorm:"not null;type:text"`
	CreatedAt    time.Time
}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// Claims carries the authenticated identity extracted from a token.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}
