package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/movie_go_server/internal/model"
)

var fixtureSeq int64

func nextSeq() int64 {
	return atomic.AddInt64(&fixtureSeq, 1)
}

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	seq := nextSeq()
	user := &model.User{
		Username:     fmt.Sprintf("testuser_%d", seq),
		Email:        fmt.Sprintf("test_%d@example.com", seq),
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuvwxyz123456", // bcrypt hash placeholder
		Role:         "user",
		IsActive:     true,
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithUsername 设置用户名
func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = email
	}
}

// WithRole 设置角色
func WithRole(role string) func(*model.User) {
	return func(u *model.User) {
		u.Role = role
	}
}

// TestMovie 创建测试影片
func TestMovie(t *testing.T, db *gorm.DB, opts ...func(*model.Movie)) *model.Movie {
	t.Helper()

	seq := nextSeq()
	movie := &model.Movie{
		Title:           fmt.Sprintf("Test Movie %d", seq),
		Slug:            fmt.Sprintf("test-movie-%d", seq),
		Overview:        "A test movie.",
		Director:        "Test Director",
		PosterPath:      "/posters/test.jpg",
		ReleaseYear:     "2024",
		Runtime:         120,
		VoteAverage:     7.0,
		VoteCount:       100,
		Popularity:      50,
		MovielensGenres: model.StringArray{"Drama"},
		VideoURL:        "https://cdn.example.com/videos/test.mp4",
		Qualities:       model.StringArray{"480p", "720p", "1080p"},
		AgeRating:       "P",
		Status:          "now_showing",
	}

	for _, opt := range opts {
		opt(movie)
	}

	if err := db.Create(movie).Error; err != nil {
		t.Fatalf("Failed to create test movie: %v", err)
	}

	return movie
}

// WithTitle 设置影片标题
func WithTitle(title string) func(*model.Movie) {
	return func(m *model.Movie) {
		m.Title = title
		m.Slug = model.Slugify(title) + fmt.Sprintf("-%d", nextSeq())
	}
}

// WithGenres 设置影片类型
func WithGenres(genres ...string) func(*model.Movie) {
	return func(m *model.Movie) {
		m.MovielensGenres = model.StringArray(genres)
	}
}

// WithRating 设置评分
func WithRating(average float64, count int) func(*model.Movie) {
	return func(m *model.Movie) {
		m.VoteAverage = average
		m.VoteCount = count
	}
}

// WithPopularity 设置热度
func WithPopularity(popularity float64) func(*model.Movie) {
	return func(m *model.Movie) {
		m.Popularity = popularity
	}
}

// WithViewCount 设置观看次数
func WithViewCount(count int64) func(*model.Movie) {
	return func(m *model.Movie) {
		m.ViewCount = count
	}
}

// WithMovieStatus 设置上架状态
func WithMovieStatus(status string) func(*model.Movie) {
	return func(m *model.Movie) {
		m.Status = status
	}
}

// TestReview 创建测试评论
func TestReview(t *testing.T, db *gorm.DB, userID, movieID int64, rating int, opts ...func(*model.Review)) *model.Review {
	t.Helper()

	review := &model.Review{
		UserID:  userID,
		MovieID: movieID,
		Rating:  rating,
		Title:   "Test review",
		Comment: "A test review comment.",
		Status:  "active",
	}

	for _, opt := range opts {
		opt(review)
	}

	if err := db.Create(review).Error; err != nil {
		t.Fatalf("Failed to create test review: %v", err)
	}

	return review
}

// WithReviewStatus 设置评论状态
func WithReviewStatus(status string) func(*model.Review) {
	return func(r *model.Review) {
		r.Status = status
	}
}

// TestHistory 创建测试观看记录
func TestHistory(t *testing.T, db *gorm.DB, userID, movieID int64, opts ...func(*model.ViewHistory)) *model.ViewHistory {
	t.Helper()

	entry := &model.ViewHistory{
		UserID:      userID,
		MovieID:     movieID,
		Progress:    600,
		Duration:    7200,
		LastWatched: time.Now(),
	}

	for _, opt := range opts {
		opt(entry)
	}

	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("Failed to create test history: %v", err)
	}

	return entry
}

// WithLastWatched 设置最近观看时间
func WithLastWatched(at time.Time) func(*model.ViewHistory) {
	return func(h *model.ViewHistory) {
		h.LastWatched = at
	}
}

// TestWatchlistItem 创建测试想看条目
func TestWatchlistItem(t *testing.T, db *gorm.DB, userID, movieID int64, opts ...func(*model.WatchlistItem)) *model.WatchlistItem {
	t.Helper()

	item := &model.WatchlistItem{
		UserID:   userID,
		MovieID:  movieID,
		Priority: 3,
		Status:   "want_to_watch",
	}

	for _, opt := range opts {
		opt(item)
	}

	if err := db.Create(item).Error; err != nil {
		t.Fatalf("Failed to create test watchlist item: %v", err)
	}

	return item
}

// TestSubscription 创建测试订阅
func TestSubscription(t *testing.T, db *gorm.DB, userID int64, opts ...func(*model.Subscription)) *model.Subscription {
	t.Helper()

	now := time.Now()
	sub := &model.Subscription{
		UserID:               userID,
		Plan:                 "premium",
		Status:               model.SubStatusActive,
		StartDate:            now,
		EndDate:              now.AddDate(0, 0, 30),
		AutoRenew:            true,
		Price:                120000,
		MaxConcurrentStreams: 2,
	}

	for _, opt := range opts {
		opt(sub)
	}

	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("Failed to create test subscription: %v", err)
	}

	return sub
}

// WithPlan 设置套餐
func WithPlan(plan string, maxStreams int) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.Plan = plan
		s.MaxConcurrentStreams = maxStreams
	}
}

// WithSubStatus 设置订阅状态
func WithSubStatus(status string) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.Status = status
	}
}

// WithEndDate 设置到期时间
func WithEndDate(endDate time.Time) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.EndDate = endDate
	}
}

// TestStream 创建测试播放会话
func TestStream(t *testing.T, db *gorm.DB, subscriptionID int64, deviceID string, movieID int64, startedAt time.Time) *model.StreamSession {
	t.Helper()

	stream := &model.StreamSession{
		SubscriptionID: subscriptionID,
		DeviceID:       deviceID,
		MovieID:        movieID,
		StartedAt:      startedAt,
	}

	if err := db.Create(stream).Error; err != nil {
		t.Fatalf("Failed to create test stream: %v", err)
	}

	return stream
}
