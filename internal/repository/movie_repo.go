package repository

import (
	"sort"

	"gorm.io/gorm"

	"github.com/qs3c/movie_go_server/internal/model"
	"github.com/qs3c/movie_go_server/internal/model/dto"
)

type MovieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

func (r *MovieRepository) Create(movie *model.Movie) error {
	return r.db.Create(movie).Error
}

func (r *MovieRepository) GetByID(id int64) (*model.Movie, error) {
	var movie model.Movie
	err := r.db.Where("id = ?", id).First(&movie).Error
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *MovieRepository) GetBySlug(slug string) (*model.Movie, error) {
	var movie model.Movie
	err := r.db.Where("slug = ?", slug).First(&movie).Error
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *MovieRepository) Update(movie *model.Movie) error {
	return r.db.Save(movie).Error
}

func (r *MovieRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.Movie{}).Where("id = ?", id).Updates(fields).Error
}

func (r *MovieRepository) Delete(id int64) error {
	return r.db.Delete(&model.Movie{}, id).Error
}

func (r *MovieRepository) ExistsBySlug(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Movie{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// List 影片列表，支持类型、年份、分级、评分下限、标题搜索与多种排序
func (r *MovieRepository) List(req *dto.MovieListRequest) ([]*model.Movie, int64, error) {
	query := r.db.Model(&model.Movie{}).Where("status = ?", "now_showing")

	if req.Genre != "" {
		// 类型以 JSON 数组存储，用包含匹配筛选
		pattern := "%\"" + req.Genre + "\"%"
		query = query.Where("movielens_genres LIKE ? OR tmdb_genres LIKE ?", pattern, pattern)
	}
	if req.Year != "" {
		query = query.Where("release_year = ?", req.Year)
	}
	if req.AgeRating != "" {
		query = query.Where("age_rating = ?", req.AgeRating)
	}
	if req.MinRating > 0 {
		query = query.Where("vote_average >= ?", req.MinRating)
	}
	if req.Search != "" {
		search := "%" + req.Search + "%"
		query = query.Where("title LIKE ? OR original_title LIKE ? OR director LIKE ?", search, search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch req.Sort {
	case "rating":
		query = query.Order("vote_average DESC, popularity DESC")
	case "newest":
		query = query.Order("release_year DESC, created_at DESC")
	case "oldest":
		query = query.Order("release_year ASC, created_at ASC")
	case "views":
		query = query.Order("view_count DESC")
	default:
		query = query.Order("popularity DESC")
	}

	var movies []*model.Movie
	err := query.Offset((req.Page - 1) * req.PageSize).Limit(req.PageSize).Find(&movies).Error
	return movies, total, err
}

// ListFeatured 首页推荐位影片
func (r *MovieRepository) ListFeatured(limit int) ([]*model.Movie, error) {
	var movies []*model.Movie
	err := r.db.Where("is_featured = ? AND status = ?", true, "now_showing").
		Order("popularity DESC").Limit(limit).Find(&movies).Error
	return movies, err
}

// ListTrending 按观看次数排序的热门影片，同观看量按热度排
func (r *MovieRepository) ListTrending(limit int) ([]*model.Movie, error) {
	var movies []*model.Movie
	err := r.db.Where("status = ?", "now_showing").
		Order("view_count DESC, popularity DESC").Limit(limit).Find(&movies).Error
	return movies, err
}

// ListTopRated 按评分与热度排序的影片，推荐候选集用
func (r *MovieRepository) ListTopRated(limit int, excludeIDs []int64) ([]*model.Movie, error) {
	query := r.db.Where("status = ?", "now_showing")
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}
	var movies []*model.Movie
	err := query.Order("vote_average DESC, popularity DESC").Limit(limit).Find(&movies).Error
	return movies, err
}

// ListPopular 按热度排序的影片，推荐兜底用
func (r *MovieRepository) ListPopular(limit int, excludeIDs []int64) ([]*model.Movie, error) {
	query := r.db.Where("status = ?", "now_showing")
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}
	var movies []*model.Movie
	err := query.Order("popularity DESC, vote_average DESC").Limit(limit).Find(&movies).Error
	return movies, err
}

// ListByGenre 属于指定类型的影片，按评分排序
func (r *MovieRepository) ListByGenre(genre string, limit int, excludeIDs []int64) ([]*model.Movie, error) {
	pattern := "%\"" + genre + "\"%"
	query := r.db.Where("status = ?", "now_showing").
		Where("movielens_genres LIKE ? OR tmdb_genres LIKE ?", pattern, pattern)
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}
	var movies []*model.Movie
	err := query.Order("vote_average DESC, popularity DESC").Limit(limit).Find(&movies).Error
	return movies, err
}

// ListGenres 在映影片出现过的全部类型（两个来源取并集，按名称排序）
func (r *MovieRepository) ListGenres() ([]string, error) {
	var movies []*model.Movie
	err := r.db.Select("movielens_genres", "tmdb_genres").
		Where("status = ?", "now_showing").
		Find(&movies).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	genres := make([]string, 0)
	for _, m := range movies {
		for _, g := range m.Genres() {
			if _, ok := seen[g]; !ok {
				seen[g] = struct{}{}
				genres = append(genres, g)
			}
		}
	}
	sort.Strings(genres)
	return genres, nil
}

func (r *MovieRepository) IncrementViewCount(id int64) error {
	return r.db.Model(&model.Movie{}).Where("id = ?", id).
		Update("view_count", gorm.Expr("view_count + 1")).Error
}

// UpdateRating 根据评论聚合结果回写影片评分
func (r *MovieRepository) UpdateRating(id int64, average float64, count int) error {
	return r.db.Model(&model.Movie{}).Where("id = ?", id).Updates(map[string]interface{}{
		"vote_average": average,
		"vote_count":   count,
	}).Error
}

// Stats 影片总量统计（管理员）
func (r *MovieRepository) Stats() (*dto.MovieStats, error) {
	stats := &dto.MovieStats{}
	m := r.db.Model(&model.Movie{})

	if err := m.Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Movie{}).Where("status = ?", "now_showing").Count(&stats.NowShowing).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Movie{}).Where("status = ?", "coming_soon").Count(&stats.ComingSoon).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Movie{}).Where("status = ?", "archived").Count(&stats.Archived).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Movie{}).Where("is_featured = ?", true).Count(&stats.Featured).Error; err != nil {
		return nil, err
	}
	var totalViews struct{ Total int64 }
	if err := r.db.Model(&model.Movie{}).Select("COALESCE(SUM(view_count), 0) AS total").Scan(&totalViews).Error; err != nil {
		return nil, err
	}
	stats.TotalViews = totalViews.Total

	return stats, nil
}
