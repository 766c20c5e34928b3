package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/movie_go_server/internal/model"
	"github.com/qs3c/movie_go_server/internal/model/dto"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(review *model.Review) error {
	return r.db.Create(review).Error
}

func (r *ReviewRepository) GetByID(id int64) (*model.Review, error) {
	var review model.Review
	err := r.db.Preload("User").Where("id = ?", id).First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepository) GetByMovieAndUser(movieID, userID int64) (*model.Review, error) {
	var review model.Review
	err := r.db.Where("movie_id = ? AND user_id = ?", movieID, userID).First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepository) Update(review *model.Review) error {
	return r.db.Save(review).Error
}

func (r *ReviewRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.Review{}).Where("id = ?", id).Updates(fields).Error
}

func (r *ReviewRepository) Delete(id int64) error {
	return r.db.Delete(&model.Review{}, id).Error
}

// ListByMovie 影片的评论列表，仅展示 active 状态
func (r *ReviewRepository) ListByMovie(movieID int64, req *dto.ReviewListRequest) ([]*model.Review, int64, error) {
	query := r.db.Model(&model.Review{}).Where("movie_id = ? AND status = ?", movieID, "active")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch req.Sort {
	case "helpful":
		query = query.Order("helpful_count DESC, created_at DESC")
	case "rating":
		query = query.Order("rating DESC, created_at DESC")
	default:
		query = query.Order("created_at DESC")
	}

	var reviews []*model.Review
	err := query.Preload("User").
		Offset((req.Page - 1) * req.PageSize).Limit(req.PageSize).
		Find(&reviews).Error
	return reviews, total, err
}

// ListByUser 用户自己的评论（含影片信息）
func (r *ReviewRepository) ListByUser(userID int64, page, pageSize int) ([]*model.Review, int64, error) {
	query := r.db.Model(&model.Review{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []*model.Review
	err := query.Preload("Movie").Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&reviews).Error
	return reviews, total, err
}

// ListActiveByUser 用户全部 active 评论（含影片），推荐计算输入
func (r *ReviewRepository) ListActiveByUser(userID int64) ([]*model.Review, error) {
	var reviews []*model.Review
	err := r.db.Preload("Movie").
		Where("user_id = ? AND status = ?", userID, "active").
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

// RatingStats 影片评分均值与分布
func (r *ReviewRepository) RatingStats(movieID int64) (*dto.RatingStats, error) {
	stats := &dto.RatingStats{Distribution: make(map[int]int64)}

	var agg struct {
		Average float64
		Count   int64
	}
	err := r.db.Model(&model.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("movie_id = ? AND status = ?", movieID, "active").
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}
	stats.Average = agg.Average
	stats.Count = agg.Count

	var rows []struct {
		Rating int
		Count  int64
	}
	err = r.db.Model(&model.Review{}).
		Select("rating, COUNT(*) AS count").
		Where("movie_id = ? AND status = ?", movieID, "active").
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.Distribution[row.Rating] = row.Count
	}

	return stats, nil
}

// ListReported 被举报的评论（管理员）
func (r *ReviewRepository) ListReported(page, pageSize int) ([]*model.Review, int64, error) {
	query := r.db.Model(&model.Review{}).Where("status = ?", "reported")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []*model.Review
	err := query.Preload("User").Preload("Movie").Order("updated_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&reviews).Error
	return reviews, total, err
}
