package dto

// MovieListRequest 影片列表请求参数
type MovieListRequest struct {
	Page      int     `form:"page,default=1"`
	PageSize  int     `form:"page_size,default=20"`
	Genre     string  `form:"genre"`
	Year      string  `form:"year"`
	AgeRating string  `form:"age_rating"`
	MinRating float64 `form:"min_rating"`
	Search    string  `form:"search"`
	Sort      string  `form:"sort,default=popularity"` // rating, popularity, newest, oldest, views
}

// CreateMovieRequest 创建影片请求（管理员）
type CreateMovieRequest struct {
	Title           string   `json:"title" binding:"required,max=200"`
	OriginalTitle   string   `json:"original_title,omitempty"`
	Overview        string   `json:"overview" binding:"required,max=2000"`
	Director        string   `json:"director" binding:"required,max=100"`
	PosterPath      string   `json:"poster_path" binding:"required"`
	BackdropPath    string   `json:"backdrop_path,omitempty"`
	ReleaseYear     string   `json:"release_year" binding:"required"`
	ReleaseDate     string   `json:"release_date,omitempty"` // RFC3339 日期
	Runtime         int      `json:"runtime" binding:"required,min=1"`
	MovielensGenres []string `json:"movielens_genres,omitempty"`
	TmdbGenres      []string `json:"tmdb_genres,omitempty"`
	VideoURL        string   `json:"video_url" binding:"required"`
	TrailerURL      string   `json:"trailer_url,omitempty"`
	Qualities       []string `json:"qualities,omitempty"`
	AgeRating       string   `json:"age_rating,omitempty" binding:"omitempty,oneof=P K T13 T16 T18 C"`
	Status          string   `json:"status,omitempty" binding:"omitempty,oneof=coming_soon now_showing archived"`
}

// UpdateMovieRequest 更新影片请求（管理员）
type UpdateMovieRequest struct {
	Title           *string   `json:"title,omitempty" binding:"omitempty,max=200"`
	Overview        *string   `json:"overview,omitempty" binding:"omitempty,max=2000"`
	Director        *string   `json:"director,omitempty" binding:"omitempty,max=100"`
	PosterPath      *string   `json:"poster_path,omitempty"`
	BackdropPath    *string   `json:"backdrop_path,omitempty"`
	ReleaseYear     *string   `json:"release_year,omitempty"`
	Runtime         *int      `json:"runtime,omitempty" binding:"omitempty,min=1"`
	MovielensGenres *[]string `json:"movielens_genres,omitempty"`
	TmdbGenres      *[]string `json:"tmdb_genres,omitempty"`
	VideoURL        *string   `json:"video_url,omitempty"`
	TrailerURL      *string   `json:"trailer_url,omitempty"`
	Qualities       *[]string `json:"qualities,omitempty"`
	AgeRating       *string   `json:"age_rating,omitempty" binding:"omitempty,oneof=P K T13 T16 T18 C"`
	Status          *string   `json:"status,omitempty" binding:"omitempty,oneof=coming_soon now_showing archived"`
}

// StreamingInfo 播放信息
type StreamingInfo struct {
	MovieID    int64    `json:"movie_id"`
	Title      string   `json:"title"`
	StreamURL  string   `json:"stream_url"`
	Quality    string   `json:"quality"`
	Qualities  []string `json:"available_qualities"`
	DurationMin int     `json:"duration"`
}

// MovieStats 影片统计（管理员）
type MovieStats struct {
	Total      int64 `json:"total"`
	NowShowing int64 `json:"now_showing"`
	ComingSoon int64 `json:"coming_soon"`
	Archived   int64 `json:"archived"`
	Featured   int64 `json:"featured"`
	TotalViews int64 `json:"total_views"`
}
