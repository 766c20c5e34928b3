package service

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/movie_go_server/internal/model"
	"github.com/qs3c/movie_go_server/internal/model/dto"
	"github.com/qs3c/movie_go_server/internal/repository"
)

var (
	ErrHistoryNotFound = errors.New("观看记录不存在")
)

type HistoryService struct {
	historyRepo *repository.HistoryRepository
	movieRepo   *repository.MovieRepository
}

func NewHistoryService(historyRepo *repository.HistoryRepository, movieRepo *repository.MovieRepository) *HistoryService {
	return &HistoryService{
		historyRepo: historyRepo,
		movieRepo:   movieRepo,
	}
}

// RecordView 记录一次观看。同一影片重复观看只刷新时间和进度，
// 影片观看量只在首次观看时 +1
func (s *HistoryService) RecordView(userID, movieID int64, progress, duration int) (*model.ViewHistory, error) {
	if _, err := s.movieRepo.GetByID(movieID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}

	// Upsert 不区分新建和更新，先查一次判断是否首次观看
	firstWatch := false
	if _, err := s.historyRepo.GetByUserAndMovie(userID, movieID); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		firstWatch = true
	}

	entry := &model.ViewHistory{
		UserID:      userID,
		MovieID:     movieID,
		Progress:    progress,
		Duration:    duration,
		LastWatched: time.Now(),
	}
	if err := s.historyRepo.Upsert(entry); err != nil {
		return nil, err
	}

	if firstWatch {
		if err := s.movieRepo.IncrementViewCount(movieID); err != nil {
			log.Printf("Failed to increment view count for movie %d: %v", movieID, err)
		}
	}

	return s.historyRepo.GetByUserAndMovie(userID, movieID)
}

// UpdateProgress 更新观看进度
func (s *HistoryService) UpdateProgress(userID, movieID int64, req *dto.UpdateProgressRequest) error {
	if _, err := s.historyRepo.GetByUserAndMovie(userID, movieID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrHistoryNotFound
		}
		return err
	}
	return s.historyRepo.UpdateProgress(userID, movieID, req.Progress, req.Duration, time.Now())
}

// List 观看历史分页
func (s *HistoryService) List(userID int64, page, pageSize int) ([]*model.ViewHistory, int64, error) {
	return s.historyRepo.ListByUser(userID, page, pageSize)
}

// GetByMovie 单部影片的观看记录（续播用）
func (s *HistoryService) GetByMovie(userID, movieID int64) (*model.ViewHistory, error) {
	entry, err := s.historyRepo.GetByUserAndMovie(userID, movieID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHistoryNotFound
		}
		return nil, err
	}
	return entry, nil
}

// Delete 删除单条观看记录
func (s *HistoryService) Delete(userID, movieID int64) error {
	if _, err := s.historyRepo.GetByUserAndMovie(userID, movieID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrHistoryNotFound
		}
		return err
	}
	return s.historyRepo.Delete(userID, movieID)
}

// Clear 清空观看历史
func (s *HistoryService) Clear(userID int64) error {
	return s.historyRepo.DeleteAllByUser(userID)
}

// Stats 全站观看统计（管理员）
func (s *HistoryService) Stats() (*dto.HistoryStats, error) {
	return s.historyRepo.Stats()
}
