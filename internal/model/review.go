package model

import (
	"time"
)

type Review struct {
	ID           int64      `gorm:"primaryKey" json:"id"`
	MovieID      int64      `gorm:"not null;uniqueIndex:idx_reviews_movie_user;index" json:"movie_id"`
	UserID       int64      `gorm:"not null;uniqueIndex:idx_reviews_movie_user;index" json:"user_id"`
	Rating       int        `gorm:"not null" json:"rating"` // 1-10
	Title        string     `gorm:"size:100;not null" json:"title"`
	Comment      string     `gorm:"size:1000;not null" json:"comment"`
	HelpfulCount int        `gorm:"default:0;index" json:"helpful_count"`
	HelpfulBy    Int64Array `gorm:"type:json" json:"helpful_by,omitempty"`
	Status       string     `gorm:"size:20;default:active;index" json:"status"` // active, hidden, reported
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// 关联
	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Movie *Movie `gorm:"foreignKey:MovieID" json:"movie,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}
