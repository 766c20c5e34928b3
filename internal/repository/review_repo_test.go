package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/movie_go_server/internal/model"
	"github.com/qs3c/movie_go_server/internal/model/dto"
	"github.com/qs3c/movie_go_server/internal/testutil"
)

func TestReviewRepository_Create_DuplicatePerMovie(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewReviewRepository(db)

	user := testutil.TestUser(t, db)
	movie := testutil.TestMovie(t, db)
	testutil.TestReview(t, db, user.ID, movie.ID, 8)

	// 同一用户对同一影片只能评一次
	err := repo.Create(&model.Review{
		UserID:  user.ID,
		MovieID: movie.ID,
		Rating:  5,
		Title:   "again",
		Comment: "duplicate",
		Status:  "active",
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestReviewRepository_ListByMovie_ActiveOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewReviewRepository(db)

	movie := testutil.TestMovie(t, db)
	u1 := testutil.TestUser(t, db)
	u2 := testutil.TestUser(t, db)
	u3 := testutil.TestUser(t, db)

	testutil.TestReview(t, db, u1.ID, movie.ID, 8)
	testutil.TestReview(t, db, u2.ID, movie.ID, 6, testutil.WithReviewStatus("hidden"))
	testutil.TestReview(t, db, u3.ID, movie.ID, 9, testutil.WithReviewStatus("reported"))

	reviews, total, err := repo.ListByMovie(movie.ID, &dto.ReviewListRequest{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, reviews, 1)
	assert.Equal(t, u1.ID, reviews[0].UserID)
	require.NotNil(t, reviews[0].User)
}

func TestReviewRepository_ListByMovie_SortByRating(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewReviewRepository(db)

	movie := testutil.TestMovie(t, db)
	u1 := testutil.TestUser(t, db)
	u2 := testutil.TestUser(t, db)

	testutil.TestReview(t, db, u1.ID, movie.ID, 6)
	testutil.TestReview(t, db, u2.ID, movie.ID, 9)

	reviews, _, err := repo.ListByMovie(movie.ID, &dto.ReviewListRequest{Page: 1, PageSize: 20, Sort: "rating"})
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, 9, reviews[0].Rating)
	assert.Equal(t, 6, reviews[1].Rating)
}

func TestReviewRepository_ListActiveByUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewReviewRepository(db)

	user := testutil.TestUser(t, db)
	m1 := testutil.TestMovie(t, db)
	m2 := testutil.TestMovie(t, db)

	testutil.TestReview(t, db, user.ID, m1.ID, 8)
	testutil.TestReview(t, db, user.ID, m2.ID, 7, testutil.WithReviewStatus("hidden"))

	reviews, err := repo.ListActiveByUser(user.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, m1.ID, reviews[0].MovieID)
	require.NotNil(t, reviews[0].Movie)
}

func TestReviewRepository_RatingStats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewReviewRepository(db)

	movie := testutil.TestMovie(t, db)
	u1 := testutil.TestUser(t, db)
	u2 := testutil.TestUser(t, db)
	u3 := testutil.TestUser(t, db)
	u4 := testutil.TestUser(t, db)

	testutil.TestReview(t, db, u1.ID, movie.ID, 8)
	testutil.TestReview(t, db, u2.ID, movie.ID, 8)
	testutil.TestReview(t, db, u3.ID, movie.ID, 6)
	// hidden 评论不计入统计
	testutil.TestReview(t, db, u4.ID, movie.ID, 1, testutil.WithReviewStatus("hidden"))

	stats, err := repo.RatingStats(movie.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Count)
	assert.InDelta(t, 7.33, stats.Average, 0.01)
	assert.Equal(t, int64(2), stats.Distribution[8])
	assert.Equal(t, int64(1), stats.Distribution[6])
}

func TestReviewRepository_RatingStats_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewReviewRepository(db)

	movie := testutil.TestMovie(t, db)

	stats, err := repo.RatingStats(movie.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Count)
	assert.Equal(t, float64(0), stats.Average)
	assert.Empty(t, stats.Distribution)
}

func TestReviewRepository_ListReported(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewReviewRepository(db)

	movie := testutil.TestMovie(t, db)
	u1 := testutil.TestUser(t, db)
	u2 := testutil.TestUser(t, db)

	testutil.TestReview(t, db, u1.ID, movie.ID, 3, testutil.WithReviewStatus("reported"))
	testutil.TestReview(t, db, u2.ID, movie.ID, 8)

	reviews, total, err := repo.ListReported(1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, reviews, 1)
	assert.Equal(t, u1.ID, reviews[0].UserID)
}
