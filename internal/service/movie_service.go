package service

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/movie_go_server/internal/model"
	"github.com/qs3c/movie_go_server/internal/model/dto"
	"github.com/qs3c/movie_go_server/internal/repository"
)

var (
	ErrMovieNotFound    = errors.New("影片不存在")
	ErrMovieUnavailable = errors.New("影片暂不可播放")
	ErrSlugExists       = errors.New("同名影片已存在")
)

type MovieService struct {
	movieRepo *repository.MovieRepository
}

func NewMovieService(movieRepo *repository.MovieRepository) *MovieService {
	return &MovieService{movieRepo: movieRepo}
}

// List 影片列表
func (s *MovieService) List(req *dto.MovieListRequest) ([]*model.Movie, int64, error) {
	return s.movieRepo.List(req)
}

// GetByID 影片详情
func (s *MovieService) GetByID(id int64) (*model.Movie, error) {
	movie, err := s.movieRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return movie, nil
}

// GetBySlug 按 slug 获取影片详情
func (s *MovieService) GetBySlug(slug string) (*model.Movie, error) {
	movie, err := s.movieRepo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return movie, nil
}

// ListGenres 全部影片类型（筛选器用）
func (s *MovieService) ListGenres() ([]string, error) {
	return s.movieRepo.ListGenres()
}

// ListFeatured 首页推荐位
func (s *MovieService) ListFeatured(limit int) ([]*model.Movie, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.movieRepo.ListFeatured(limit)
}

// GetStreamingInfo 播放信息。优先用户偏好清晰度，不可用时回退到影片支持的最高清晰度
func (s *MovieService) GetStreamingInfo(movieID int64, preferredQuality string) (*dto.StreamingInfo, error) {
	movie, err := s.GetByID(movieID)
	if err != nil {
		return nil, err
	}

	if movie.Status != "now_showing" || movie.VideoURL == "" {
		return nil, ErrMovieUnavailable
	}

	quality := pickQuality(movie.Qualities, preferredQuality)

	return &dto.StreamingInfo{
		MovieID:     movie.ID,
		Title:       movie.Title,
		StreamURL:   movie.VideoURL,
		Quality:     quality,
		Qualities:   movie.Qualities,
		DurationMin: movie.Runtime,
	}, nil
}

func pickQuality(available []string, preferred string) string {
	for _, q := range available {
		if q == preferred {
			return q
		}
	}
	if len(available) > 0 {
		return available[len(available)-1]
	}
	return preferred
}

// Create 创建影片（管理员）
func (s *MovieService) Create(req *dto.CreateMovieRequest) (*model.Movie, error) {
	slug := model.Slugify(req.Title)
	exists, err := s.movieRepo.ExistsBySlug(slug)
	if err != nil {
		return nil, err
	}
	if exists {
		// 同名影片加年份区分
		slug = fmt.Sprintf("%s-%s", slug, req.ReleaseYear)
		exists, err = s.movieRepo.ExistsBySlug(slug)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrSlugExists
		}
	}

	movie := &model.Movie{
		Title:           req.Title,
		OriginalTitle:   req.OriginalTitle,
		Slug:            slug,
		Overview:        req.Overview,
		Director:        req.Director,
		PosterPath:      req.PosterPath,
		BackdropPath:    req.BackdropPath,
		ReleaseYear:     req.ReleaseYear,
		Runtime:         req.Runtime,
		MovielensGenres: model.StringArray(req.MovielensGenres),
		TmdbGenres:      model.StringArray(req.TmdbGenres),
		VideoURL:        req.VideoURL,
		TrailerURL:      req.TrailerURL,
		Qualities:       model.StringArray(req.Qualities),
		AgeRating:       req.AgeRating,
		Status:          req.Status,
	}
	if movie.AgeRating == "" {
		movie.AgeRating = "P"
	}
	if movie.Status == "" {
		movie.Status = "now_showing"
	}
	if len(movie.Qualities) == 0 {
		movie.Qualities = model.StringArray{"480p", "720p"}
	}
	if req.ReleaseDate != "" {
		if d, err := time.Parse("2006-01-02", req.ReleaseDate); err == nil {
			movie.ReleaseDate = &d
		}
	}

	if err := s.movieRepo.Create(movie); err != nil {
		return nil, err
	}
	return movie, nil
}

// Update 更新影片（管理员）
func (s *MovieService) Update(id int64, req *dto.UpdateMovieRequest) (*model.Movie, error) {
	movie, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		movie.Title = *req.Title
	}
	if req.Overview != nil {
		movie.Overview = *req.Overview
	}
	if req.Director != nil {
		movie.Director = *req.Director
	}
	if req.PosterPath != nil {
		movie.PosterPath = *req.PosterPath
	}
	if req.BackdropPath != nil {
		movie.BackdropPath = *req.BackdropPath
	}
	if req.ReleaseYear != nil {
		movie.ReleaseYear = *req.ReleaseYear
	}
	if req.Runtime != nil {
		movie.Runtime = *req.Runtime
	}
	if req.MovielensGenres != nil {
		movie.MovielensGenres = model.StringArray(*req.MovielensGenres)
	}
	if req.TmdbGenres != nil {
		movie.TmdbGenres = model.StringArray(*req.TmdbGenres)
	}
	if req.VideoURL != nil {
		movie.VideoURL = *req.VideoURL
	}
	if req.TrailerURL != nil {
		movie.TrailerURL = *req.TrailerURL
	}
	if req.Qualities != nil {
		movie.Qualities = model.StringArray(*req.Qualities)
	}
	if req.AgeRating != nil {
		movie.AgeRating = *req.AgeRating
	}
	if req.Status != nil {
		movie.Status = *req.Status
	}

	if err := s.movieRepo.Update(movie); err != nil {
		return nil, err
	}
	return movie, nil
}

// Delete 删除影片（管理员）
func (s *MovieService) Delete(id int64) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.movieRepo.Delete(id)
}

// SetFeatured 设置首页推荐位（管理员）
func (s *MovieService) SetFeatured(id int64, featured bool) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.movieRepo.UpdateFields(id, map[string]interface{}{"is_featured": featured})
}

// Stats 影片统计（管理员）
func (s *MovieService) Stats() (*dto.MovieStats, error) {
	return s.movieRepo.Stats()
}
