package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/qs3c/movie_go_server/internal/model"
	"github.com/qs3c/movie_go_server/internal/model/dto"
	"github.com/qs3c/movie_go_server/internal/repository"
)

var (
	ErrWatchlistNotFound = errors.New("想看条目不存在")
	ErrAlreadyInList     = errors.New("影片已在想看清单中")
)

type WatchlistService struct {
	watchlistRepo *repository.WatchlistRepository
	movieRepo     *repository.MovieRepository
}

func NewWatchlistService(watchlistRepo *repository.WatchlistRepository, movieRepo *repository.MovieRepository) *WatchlistService {
	return &WatchlistService{
		watchlistRepo: watchlistRepo,
		movieRepo:     movieRepo,
	}
}

// Add 添加想看
func (s *WatchlistService) Add(userID int64, req *dto.AddWatchlistRequest) (*model.WatchlistItem, error) {
	if _, err := s.movieRepo.GetByID(req.MovieID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}

	exists, err := s.watchlistRepo.ExistsByUserAndMovie(userID, req.MovieID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyInList
	}

	item := &model.WatchlistItem{
		UserID:   userID,
		MovieID:  req.MovieID,
		Note:     req.Note,
		Priority: req.Priority,
		Status:   "want_to_watch",
	}
	if item.Priority == 0 {
		item.Priority = 3
	}

	if err := s.watchlistRepo.Create(item); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyInList
		}
		return nil, err
	}
	return item, nil
}

// Update 更新想看条目
func (s *WatchlistService) Update(userID, movieID int64, req *dto.UpdateWatchlistRequest) (*model.WatchlistItem, error) {
	item, err := s.watchlistRepo.GetByUserAndMovie(userID, movieID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWatchlistNotFound
		}
		return nil, err
	}

	if req.Note != nil {
		item.Note = *req.Note
	}
	if req.Priority != nil {
		item.Priority = *req.Priority
	}
	if req.Status != nil {
		item.Status = *req.Status
	}

	if err := s.watchlistRepo.Update(item); err != nil {
		return nil, err
	}
	return item, nil
}

// Remove 移除想看条目
func (s *WatchlistService) Remove(userID, movieID int64) error {
	if _, err := s.watchlistRepo.GetByUserAndMovie(userID, movieID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWatchlistNotFound
		}
		return err
	}
	return s.watchlistRepo.Delete(userID, movieID)
}

// List 想看清单
func (s *WatchlistService) List(userID int64, status string, page, pageSize int) ([]*model.WatchlistItem, int64, error) {
	return s.watchlistRepo.ListByUser(userID, status, page, pageSize)
}

// Contains 影片是否在清单中
func (s *WatchlistService) Contains(userID, movieID int64) (bool, error) {
	return s.watchlistRepo.ExistsByUserAndMovie(userID, movieID)
}

// Stats 清单统计
func (s *WatchlistService) Stats(userID int64) (*dto.WatchlistStats, error) {
	return s.watchlistRepo.Stats(userID)
}
