package model

import (
	"regexp"
	"strings"
	"time"
)

type Movie struct {
	ID              int64       `gorm:"primaryKey" json:"id"`
	MovielensID     *int64      `gorm:"uniqueIndex" json:"movielens_id,omitempty"`
	TmdbID          *int64      `gorm:"uniqueIndex" json:"tmdb_id,omitempty"`
	Title           string      `gorm:"size:200;not null;index" json:"title"`
	OriginalTitle   string      `gorm:"size:200" json:"original_title,omitempty"`
	Slug            string      `gorm:"size:200;uniqueIndex" json:"slug"`
	Overview        string      `gorm:"type:text" json:"overview"`
	Director        string      `gorm:"size:100" json:"director"`
	PosterPath      string      `gorm:"size:500" json:"poster_path"`
	BackdropPath    string      `gorm:"size:500" json:"backdrop_path,omitempty"`
	ReleaseYear     string      `gorm:"size:10;index" json:"release_year"`
	ReleaseDate     *time.Time  `json:"release_date,omitempty"`
	Runtime         int         `json:"runtime"` // 分钟
	VoteAverage     float64     `gorm:"default:0;index" json:"vote_average"`
	VoteCount       int         `gorm:"default:0" json:"vote_count"`
	Popularity      float64     `gorm:"default:0;index" json:"popularity"`
	ViewCount       int64       `gorm:"default:0;index" json:"view_count"`
	MovielensGenres StringArray `gorm:"type:json" json:"movielens_genres"`
	TmdbGenres      StringArray `gorm:"type:json" json:"tmdb_genres"`
	VideoURL        string      `gorm:"size:500" json:"video_url,omitempty"`
	TrailerURL      string      `gorm:"size:500" json:"trailer_url,omitempty"`
	Qualities       StringArray `gorm:"type:json" json:"qualities"` // 480p, 720p, 1080p, 4K
	AgeRating       string      `gorm:"size:10;default:P" json:"age_rating"`
	Status          string      `gorm:"size:20;default:now_showing;index" json:"status"` // coming_soon, now_showing, archived
	IsFeatured      bool        `gorm:"default:false;index" json:"is_featured"`
	CreatedAt       time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

func (Movie) TableName() string {
	return "movies"
}

// Genres 两个来源的类型取并集（去重，保持出现顺序）
func (m *Movie) Genres() []string {
	seen := make(map[string]struct{}, len(m.MovielensGenres)+len(m.TmdbGenres))
	genres := make([]string, 0, len(m.MovielensGenres)+len(m.TmdbGenres))
	for _, g := range m.MovielensGenres {
		if _, ok := seen[g]; !ok {
			seen[g] = struct{}{}
			genres = append(genres, g)
		}
	}
	for _, g := range m.TmdbGenres {
		if _, ok := seen[g]; !ok {
			seen[g] = struct{}{}
			genres = append(genres, g)
		}
	}
	return genres
}

// HasGenre 是否属于指定类型（任一来源）
func (m *Movie) HasGenre(genre string) bool {
	for _, g := range m.MovielensGenres {
		if g == genre {
			return true
		}
	}
	for _, g := range m.TmdbGenres {
		if g == genre {
			return true
		}
	}
	return false
}

var slugInvalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
var slugSpaces = regexp.MustCompile(`\s+`)
var slugDashes = regexp.MustCompile(`-+`)

// Slugify 由标题生成 slug
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = slugInvalidChars.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugDashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
