package model

import (
	"time"
)

type WatchlistItem struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_watchlist_user_movie;index" json:"user_id"`
	MovieID   int64     `gorm:"not null;uniqueIndex:idx_watchlist_user_movie" json:"movie_id"`
	Note      string    `gorm:"size:500" json:"note,omitempty"`
	Priority  int       `gorm:"default:3;index" json:"priority"`                    // 1-5
	Status    string    `gorm:"size:20;default:want_to_watch;index" json:"status"` // want_to_watch, watching, watched
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联
	Movie *Movie `gorm:"foreignKey:MovieID" json:"movie,omitempty"`
}

func (WatchlistItem) TableName() string {
	return "watchlist_items"
}
