package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/movie_go_server/internal/model"
	"github.com/qs3c/movie_go_server/internal/model/dto"
)

type WatchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

func (r *WatchlistRepository) Create(item *model.WatchlistItem) error {
	return r.db.Create(item).Error
}

func (r *WatchlistRepository) GetByUserAndMovie(userID, movieID int64) (*model.WatchlistItem, error) {
	var item model.WatchlistItem
	err := r.db.Where("user_id = ? AND movie_id = ?", userID, movieID).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *WatchlistRepository) Update(item *model.WatchlistItem) error {
	return r.db.Save(item).Error
}

func (r *WatchlistRepository) Delete(userID, movieID int64) error {
	return r.db.Where("user_id = ? AND movie_id = ?", userID, movieID).
		Delete(&model.WatchlistItem{}).Error
}

// ListByUser 想看清单，优先级高的在前
func (r *WatchlistRepository) ListByUser(userID int64, status string, page, pageSize int) ([]*model.WatchlistItem, int64, error) {
	query := r.db.Model(&model.WatchlistItem{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []*model.WatchlistItem
	err := query.Preload("Movie").Order("priority DESC, created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&items).Error
	return items, total, err
}

func (r *WatchlistRepository) ExistsByUserAndMovie(userID, movieID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.WatchlistItem{}).
		Where("user_id = ? AND movie_id = ?", userID, movieID).Count(&count).Error
	return count > 0, err
}

// Stats 清单状态分布
func (r *WatchlistRepository) Stats(userID int64) (*dto.WatchlistStats, error) {
	stats := &dto.WatchlistStats{}

	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.Model(&model.WatchlistItem{}).
		Select("status, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		stats.Total += row.Count
		switch row.Status {
		case "want_to_watch":
			stats.WantToWatch = row.Count
		case "watching":
			stats.Watching = row.Count
		case "watched":
			stats.Watched = row.Count
		}
	}

	return stats, nil
}
