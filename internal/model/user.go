package model

import (
	"time"
)

type User struct {
	ID                    int64      `gorm:"primaryKey" json:"id"`
	Username              string     `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email                 string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash          string     `gorm:"size:255;not null" json:"-"`
	Role                  string     `gorm:"size:20;default:user;index" json:"role"` // user, admin
	AvatarURL             string     `gorm:"size:500" json:"avatar_url"`
	PreferredQuality      string     `gorm:"size:10;default:720p" json:"preferred_quality"` // 480p, 720p, 1080p, 4K
	IsActive              bool       `gorm:"default:true" json:"is_active"`
	ResetToken            *string    `gorm:"size:100" json:"-"`
	ResetTokenExpiresAt   *time.Time `json:"-"`
	LastLoginAt           *time.Time `json:"last_login_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// IsAdmin 是否管理员
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}
