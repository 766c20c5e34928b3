package service

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/qs3c/movie_go_server/config"
	"github.com/qs3c/movie_go_server/internal/model"
	"github.com/qs3c/movie_go_server/internal/model/dto"
	"github.com/qs3c/movie_go_server/internal/pkg/cache"
	"github.com/qs3c/movie_go_server/internal/repository"
)

const (
	// 推荐输入只看最近的观看记录，口味会随时间变化
	recentHistoryLimit = 20

	// 评分达到该值的评论才算喜欢
	likedRatingThreshold = 7

	// 各列表长度
	forYouSize   = 12
	similarSize  = 10
	trendingSize = 10

	// 取权重最高的前几个类型
	favoriteGenreCount = 3

	// 观看 +1，高分评论 +2
	watchedWeight = 1
	likedWeight   = 2
)

type RecommendationService struct {
	historyRepo *repository.HistoryRepository
	reviewRepo  *repository.ReviewRepository
	movieRepo   *repository.MovieRepository
	cache       *cache.Cache
	cfg         *config.Config
}

func NewRecommendationService(
	historyRepo *repository.HistoryRepository,
	reviewRepo *repository.ReviewRepository,
	movieRepo *repository.MovieRepository,
	c *cache.Cache,
	cfg *config.Config,
) *RecommendationService {
	return &RecommendationService{
		historyRepo: historyRepo,
		reviewRepo:  reviewRepo,
		movieRepo:   movieRepo,
		cache:       c,
		cfg:         cfg,
	}
}

// ComputeGenreWeights 观看过的影片每个类型 +1，评 7 分及以上的影片每个类型 +2。
// 同一部影片既看过又评过时两部分都计入
func ComputeGenreWeights(watched []dto.WatchedMovie, reviewed []dto.ReviewedMovie) map[string]int {
	weights := make(map[string]int)
	for _, w := range watched {
		for _, g := range w.Genres {
			weights[g] += watchedWeight
		}
	}
	for _, r := range reviewed {
		if r.Rating < likedRatingThreshold {
			continue
		}
		for _, g := range r.Genres {
			weights[g] += likedWeight
		}
	}
	return weights
}

// TopGenres 权重降序取前 n 个，同权重按名称升序，结果稳定可复现
func TopGenres(weights map[string]int, n int) []string {
	genres := make([]string, 0, len(weights))
	for g := range weights {
		genres = append(genres, g)
	}
	sort.Slice(genres, func(i, j int) bool {
		if weights[genres[i]] != weights[genres[j]] {
			return weights[genres[i]] > weights[genres[j]]
		}
		return genres[i] < genres[j]
	})
	if len(genres) > n {
		genres = genres[:n]
	}
	return genres
}

// GetRecommendations 个性化推荐。三组列表互不重复，
// 算不出任何类型权重或输入读取失败时整体回退到热门内容
func (s *RecommendationService) GetRecommendations(ctx context.Context, userID int64) (*dto.Recommendations, error) {
	if s.cache != nil {
		var cached dto.Recommendations
		if hit, err := s.cache.Get(ctx, cache.RecommendationKey(userID), &cached); err == nil && hit {
			return &cached, nil
		}
	}

	rec, err := s.compute(userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		ttl := time.Duration(s.cfg.Cache.RecommendationTTLMinutes) * time.Minute
		if err := s.cache.Set(ctx, cache.RecommendationKey(userID), rec, ttl); err != nil {
			log.Printf("Failed to cache recommendations for user %d: %v", userID, err)
		}
	}
	return rec, nil
}

func (s *RecommendationService) compute(userID int64) (*dto.Recommendations, error) {
	history, err := s.historyRepo.ListRecentByUser(userID, recentHistoryLimit)
	if err != nil {
		log.Printf("Failed to load history for user %d, falling back to popular: %v", userID, err)
		return s.fallback()
	}
	reviews, err := s.reviewRepo.ListActiveByUser(userID)
	if err != nil {
		log.Printf("Failed to load reviews for user %d, falling back to popular: %v", userID, err)
		return s.fallback()
	}

	// 只有看过的影片会被排除出候选，评过但没看过的影片仍可被推荐
	watched := make([]dto.WatchedMovie, 0, len(history))
	seen := make(map[int64]struct{}, len(history))
	for _, h := range history {
		if h.Movie == nil {
			continue
		}
		watched = append(watched, dto.WatchedMovie{
			MovieID: h.MovieID,
			Genres:  h.Movie.Genres(),
		})
		seen[h.MovieID] = struct{}{}
	}

	reviewed := make([]dto.ReviewedMovie, 0, len(reviews))
	for _, r := range reviews {
		if r.Movie == nil {
			continue
		}
		reviewed = append(reviewed, dto.ReviewedMovie{
			MovieID: r.MovieID,
			Genres:  r.Movie.Genres(),
			Rating:  r.Rating,
		})
	}

	weights := ComputeGenreWeights(watched, reviewed)
	if len(weights) == 0 {
		// 既无观看历史也无高分评论，没有口味信号可用
		return s.fallback()
	}
	favorites := TopGenres(weights, favoriteGenreCount)

	exclude := idSet(seen)

	forYou, err := s.buildForYou(favorites, exclude)
	if err != nil {
		return nil, err
	}
	for _, m := range forYou {
		seen[m.ID] = struct{}{}
	}

	similar, err := s.buildSimilar(history, idSet(seen))
	if err != nil {
		return nil, err
	}
	for _, m := range similar {
		seen[m.ID] = struct{}{}
	}

	trending, err := s.buildTrending(seen)
	if err != nil {
		return nil, err
	}

	return &dto.Recommendations{
		ForYou:           forYou,
		SimilarToWatched: similar,
		Trending:         trending,
		FavoriteGenres:   favorites,
	}, nil
}

// buildForYou 喜好类型的高分影片，不够时用热门影片补齐
func (s *RecommendationService) buildForYou(favorites []string, exclude []int64) ([]*model.Movie, error) {
	picked := make([]*model.Movie, 0, forYouSize)
	pickedIDs := make(map[int64]struct{}, forYouSize)

	for _, genre := range favorites {
		candidates, err := s.movieRepo.ListByGenre(genre, forYouSize, exclude)
		if err != nil {
			return nil, err
		}
		for _, m := range candidates {
			if _, ok := pickedIDs[m.ID]; ok {
				continue
			}
			picked = append(picked, m)
			pickedIDs[m.ID] = struct{}{}
		}
	}

	sort.SliceStable(picked, func(i, j int) bool {
		if picked[i].VoteAverage != picked[j].VoteAverage {
			return picked[i].VoteAverage > picked[j].VoteAverage
		}
		return picked[i].Popularity > picked[j].Popularity
	})
	if len(picked) > forYouSize {
		picked = picked[:forYouSize]
	}

	if len(picked) < forYouSize {
		padExclude := append(append([]int64{}, exclude...), idSet(pickedIDs)...)
		pad, err := s.movieRepo.ListPopular(forYouSize-len(picked), padExclude)
		if err != nil {
			return nil, err
		}
		picked = append(picked, pad...)
	}

	return picked, nil
}

// buildSimilar 与最近观看的一部影片共享类型的影片
func (s *RecommendationService) buildSimilar(history []*model.ViewHistory, exclude []int64) ([]*model.Movie, error) {
	var lastGenres []string
	for _, h := range history {
		if h.Movie != nil {
			lastGenres = h.Movie.Genres()
			break
		}
	}
	if len(lastGenres) == 0 {
		return []*model.Movie{}, nil
	}

	picked := make([]*model.Movie, 0, similarSize)
	pickedIDs := make(map[int64]struct{}, similarSize)
	for _, genre := range lastGenres {
		candidates, err := s.movieRepo.ListByGenre(genre, similarSize, exclude)
		if err != nil {
			return nil, err
		}
		for _, m := range candidates {
			if _, ok := pickedIDs[m.ID]; ok {
				continue
			}
			picked = append(picked, m)
			pickedIDs[m.ID] = struct{}{}
		}
	}

	sort.SliceStable(picked, func(i, j int) bool {
		if picked[i].VoteAverage != picked[j].VoteAverage {
			return picked[i].VoteAverage > picked[j].VoteAverage
		}
		return picked[i].Popularity > picked[j].Popularity
	})
	if len(picked) > similarSize {
		picked = picked[:similarSize]
	}
	return picked, nil
}

// buildTrending 按观看次数取热门，剔除已出现在前两组的影片
func (s *RecommendationService) buildTrending(seen map[int64]struct{}) ([]*model.Movie, error) {
	// 多取一些，剔除重复后仍能凑满
	candidates, err := s.movieRepo.ListTrending(trendingSize + len(seen))
	if err != nil {
		return nil, err
	}

	picked := make([]*model.Movie, 0, trendingSize)
	for _, m := range candidates {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		picked = append(picked, m)
		if len(picked) == trendingSize {
			break
		}
	}
	return picked, nil
}

// fallback 没有口味信号时的整体兜底：高分热门打底，推荐列表长度不变
func (s *RecommendationService) fallback() (*dto.Recommendations, error) {
	forYou, err := s.movieRepo.ListTopRated(forYouSize, nil)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{}, len(forYou))
	for _, m := range forYou {
		seen[m.ID] = struct{}{}
	}

	trending, err := s.buildTrending(seen)
	if err != nil {
		return nil, err
	}

	return &dto.Recommendations{
		ForYou:           forYou,
		SimilarToWatched: []*model.Movie{},
		Trending:         trending,
		FavoriteGenres:   []string{},
	}, nil
}

// GetTrending 公开的热门榜单，带缓存
func (s *RecommendationService) GetTrending(ctx context.Context) ([]*model.Movie, error) {
	if s.cache != nil {
		var cached []*model.Movie
		if hit, err := s.cache.Get(ctx, cache.TrendingKey(), &cached); err == nil && hit {
			return cached, nil
		}
	}

	movies, err := s.movieRepo.ListTrending(trendingSize)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		ttl := time.Duration(s.cfg.Cache.TrendingTTLMinutes) * time.Minute
		if err := s.cache.Set(ctx, cache.TrendingKey(), movies, ttl); err != nil {
			log.Printf("Failed to cache trending list: %v", err)
		}
	}
	return movies, nil
}

// InvalidateUser 观看或评论行为后清掉该用户的推荐缓存
func (s *RecommendationService) InvalidateUser(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.RecommendationKey(userID)); err != nil {
		log.Printf("Failed to invalidate recommendation cache for user %d: %v", userID, err)
	}
}

func idSet(m map[int64]struct{}) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	return ids
}
