package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qs3c/movie_go_server/internal/model"
	"github.com/qs3c/movie_go_server/internal/model/dto"
)

type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Upsert 按 (user_id, movie_id) 写入观看记录，已存在则刷新时间和进度
func (r *HistoryRepository) Upsert(entry *model.ViewHistory) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "movie_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"progress", "duration", "last_watched", "updated_at",
		}),
	}).Create(entry).Error
}

func (r *HistoryRepository) GetByUserAndMovie(userID, movieID int64) (*model.ViewHistory, error) {
	var entry model.ViewHistory
	err := r.db.Where("user_id = ? AND movie_id = ?", userID, movieID).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *HistoryRepository) UpdateProgress(userID, movieID int64, progress, duration int, watchedAt time.Time) error {
	return r.db.Model(&model.ViewHistory{}).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Updates(map[string]interface{}{
			"progress":     progress,
			"duration":     duration,
			"last_watched": watchedAt,
		}).Error
}

// ListByUser 观看历史分页，按最近观看排序
func (r *HistoryRepository) ListByUser(userID int64, page, pageSize int) ([]*model.ViewHistory, int64, error) {
	query := r.db.Model(&model.ViewHistory{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []*model.ViewHistory
	err := query.Preload("Movie").Order("last_watched DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&entries).Error
	return entries, total, err
}

// ListRecentByUser 最近观看的若干条（含影片），推荐计算输入
func (r *HistoryRepository) ListRecentByUser(userID int64, limit int) ([]*model.ViewHistory, error) {
	var entries []*model.ViewHistory
	err := r.db.Preload("Movie").
		Where("user_id = ?", userID).
		Order("last_watched DESC").Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (r *HistoryRepository) Delete(userID, movieID int64) error {
	return r.db.Where("user_id = ? AND movie_id = ?", userID, movieID).
		Delete(&model.ViewHistory{}).Error
}

func (r *HistoryRepository) DeleteAllByUser(userID int64) error {
	return r.db.Where("user_id = ?", userID).Delete(&model.ViewHistory{}).Error
}

// Stats 全站观看统计（管理员）
func (r *HistoryRepository) Stats() (*dto.HistoryStats, error) {
	stats := &dto.HistoryStats{}

	if err := r.db.Model(&model.ViewHistory{}).Count(&stats.TotalViews).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.ViewHistory{}).Distinct("movie_id").Count(&stats.UniqueMovies).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.ViewHistory{}).Distinct("user_id").Count(&stats.UniqueUsers).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
