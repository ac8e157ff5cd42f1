package models

import (
	"time"

	"gorm.io/gorm"
)

// User is an admin console account. The public donation flow is anonymous;
// only foundation staff have accounts.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"size:128;not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	Role         string         `gorm:"size:20;not null;index" json:"role"` // ADMIN
	GoogleID     *string        `gorm:"uniqueIndex;size:255" json:"-"`      // nil for password accounts (avoids duplicate '' on unique index)
	AvatarURL    string         `gorm:"size:512" json:"avatar_url"`
	LastLoginAt  *time.Time     `json:"last_login_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}
