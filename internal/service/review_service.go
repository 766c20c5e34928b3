package service

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/qs3c/movie_go_server/internal/model"
	"github.com/qs3c/movie_go_server/internal/model/dto"
	"github.com/qs3c/movie_go_server/internal/repository"
)

var (
	ErrReviewNotFound  = errors.New("评论不存在")
	ErrAlreadyReviewed = errors.New("您已评论过该影片")
	ErrNotReviewOwner  = errors.New("只能操作自己的评论")
	ErrInvalidRating   = errors.New("评分必须在 1-10 之间")
)

type ReviewService struct {
	reviewRepo *repository.ReviewRepository
	movieRepo  *repository.MovieRepository
}

func NewReviewService(reviewRepo *repository.ReviewRepository, movieRepo *repository.MovieRepository) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		movieRepo:  movieRepo,
	}
}

// Create 创建评论，每个用户对一部影片只能评一次
func (s *ReviewService) Create(userID, movieID int64, req *dto.CreateReviewRequest) (*model.Review, error) {
	if req.Rating < 1 || req.Rating > 10 {
		return nil, ErrInvalidRating
	}

	if _, err := s.movieRepo.GetByID(movieID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}

	_, err := s.reviewRepo.GetByMovieAndUser(movieID, userID)
	if err == nil {
		return nil, ErrAlreadyReviewed
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	review := &model.Review{
		MovieID: movieID,
		UserID:  userID,
		Rating:  req.Rating,
		Title:   req.Title,
		Comment: req.Comment,
		Status:  "active",
	}

	if err := s.reviewRepo.Create(review); err != nil {
		// 并发下唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}

	s.refreshMovieRating(movieID)
	return review, nil
}

// Update 更新自己的评论
func (s *ReviewService) Update(userID, reviewID int64, req *dto.UpdateReviewRequest) (*model.Review, error) {
	review, err := s.getOwned(userID, reviewID)
	if err != nil {
		return nil, err
	}

	if req.Rating != nil {
		if *req.Rating < 1 || *req.Rating > 10 {
			return nil, ErrInvalidRating
		}
		review.Rating = *req.Rating
	}
	if req.Title != nil {
		review.Title = *req.Title
	}
	if req.Comment != nil {
		review.Comment = *req.Comment
	}

	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}

	s.refreshMovieRating(review.MovieID)
	return review, nil
}

// Delete 删除自己的评论
func (s *ReviewService) Delete(userID, reviewID int64) error {
	review, err := s.getOwned(userID, reviewID)
	if err != nil {
		return err
	}

	if err := s.reviewRepo.Delete(reviewID); err != nil {
		return err
	}

	s.refreshMovieRating(review.MovieID)
	return nil
}

// AdminDelete 删除任意评论（管理员），不校验归属
func (s *ReviewService) AdminDelete(reviewID int64) error {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}

	if err := s.reviewRepo.Delete(reviewID); err != nil {
		return err
	}

	s.refreshMovieRating(review.MovieID)
	return nil
}

// CheckReviewed 当前用户是否已评论过该影片
func (s *ReviewService) CheckReviewed(userID, movieID int64) (*dto.CheckReviewedResponse, error) {
	review, err := s.reviewRepo.GetByMovieAndUser(movieID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.CheckReviewedResponse{Reviewed: false}, nil
		}
		return nil, err
	}
	return &dto.CheckReviewedResponse{Reviewed: true, Review: review}, nil
}

// ListByMovie 影片评论列表
func (s *ReviewService) ListByMovie(movieID int64, req *dto.ReviewListRequest) ([]*model.Review, int64, error) {
	return s.reviewRepo.ListByMovie(movieID, req)
}

// ListByUser 我的评论列表
func (s *ReviewService) ListByUser(userID int64, page, pageSize int) ([]*model.Review, int64, error) {
	return s.reviewRepo.ListByUser(userID, page, pageSize)
}

// RatingStats 影片评分分布
func (s *ReviewService) RatingStats(movieID int64) (*dto.RatingStats, error) {
	return s.reviewRepo.RatingStats(movieID)
}

// MarkHelpful 点有用，再点一次取消
func (s *ReviewService) MarkHelpful(userID, reviewID int64) (*dto.HelpfulResponse, error) {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	helpful := true
	if review.HelpfulBy.Contains(userID) {
		helpful = false
		next := make(model.Int64Array, 0, len(review.HelpfulBy)-1)
		for _, id := range review.HelpfulBy {
			if id != userID {
				next = append(next, id)
			}
		}
		review.HelpfulBy = next
	} else {
		review.HelpfulBy = append(review.HelpfulBy, userID)
	}
	review.HelpfulCount = len(review.HelpfulBy)

	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}

	return &dto.HelpfulResponse{
		Helpful:      helpful,
		HelpfulCount: review.HelpfulCount,
	}, nil
}

// Report 举报评论
func (s *ReviewService) Report(reviewID int64) error {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	if review.Status == "hidden" {
		return nil
	}
	return s.reviewRepo.UpdateFields(reviewID, map[string]interface{}{"status": "reported"})
}

// Moderate 评论审核（管理员）
func (s *ReviewService) Moderate(reviewID int64, status string) error {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}

	if err := s.reviewRepo.UpdateFields(reviewID, map[string]interface{}{"status": status}); err != nil {
		return err
	}

	// 隐藏或恢复都会影响影片均分
	s.refreshMovieRating(review.MovieID)
	return nil
}

// ListReported 被举报评论（管理员）
func (s *ReviewService) ListReported(page, pageSize int) ([]*model.Review, int64, error) {
	return s.reviewRepo.ListReported(page, pageSize)
}

func (s *ReviewService) getOwned(userID, reviewID int64) (*model.Review, error) {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if review.UserID != userID {
		return nil, ErrNotReviewOwner
	}
	return review, nil
}

// refreshMovieRating 回写影片均分，失败只记日志不影响主流程
func (s *ReviewService) refreshMovieRating(movieID int64) {
	stats, err := s.reviewRepo.RatingStats(movieID)
	if err != nil {
		log.Printf("Failed to compute rating stats for movie %d: %v", movieID, err)
		return
	}
	if err := s.movieRepo.UpdateRating(movieID, stats.Average, int(stats.Count)); err != nil {
		log.Printf("Failed to update rating for movie %d: %v", movieID, err)
	}
}
