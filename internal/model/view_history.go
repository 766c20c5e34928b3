package model

import (
	"time"
)

// ViewHistory 每个 (user, movie) 只有一条记录，重复观看只更新
type ViewHistory struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	UserID      int64     `gorm:"not null;uniqueIndex:idx_history_user_movie;index:idx_history_user_watched" json:"user_id"`
	MovieID     int64     `gorm:"not null;uniqueIndex:idx_history_user_movie" json:"movie_id"`
	Progress    int       `gorm:"default:0" json:"progress"` // 已观看秒数
	Duration    int       `gorm:"default:0" json:"duration"`
	LastWatched time.Time `gorm:"not null;index:idx_history_user_watched" json:"last_watched"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// 关联
	Movie *Movie `gorm:"foreignKey:MovieID" json:"movie,omitempty"`
}

func (ViewHistory) TableName() string {
	return "view_histories"
}
