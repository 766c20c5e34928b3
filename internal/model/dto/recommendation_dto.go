package dto

import (
	"github.com/qs3c/movie_go_server/internal/model"
)

// Recommendations 三组互不重复的推荐列表
type Recommendations struct {
	ForYou           []*model.Movie `json:"for_you"`
	SimilarToWatched []*model.Movie `json:"similar_to_watched"`
	Trending         []*model.Movie `json:"trending"`
	FavoriteGenres   []string       `json:"favorite_genres"`
}

// WatchedMovie 推荐计算输入：一条观看记录对应的影片快照
type WatchedMovie struct {
	MovieID int64
	Genres  []string
}

// ReviewedMovie 推荐计算输入：一条评论对应的影片快照
type ReviewedMovie struct {
	MovieID int64
	Genres  []string
	Rating  int
}
