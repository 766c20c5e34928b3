package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/movie_go_server/internal/model"
	"github.com/qs3c/movie_go_server/internal/model/dto"
	"github.com/qs3c/movie_go_server/internal/repository"
	"github.com/qs3c/movie_go_server/internal/testutil"
)

func setupReviewService(t *testing.T) (*ReviewService, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	service := NewReviewService(repository.NewReviewRepository(db), repository.NewMovieRepository(db))

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return service, db, cleanup
}

func TestReviewService_Create_RefreshesMovieRating(t *testing.T) {
	service, db, cleanup := setupReviewService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	movie := testutil.TestMovie(t, db)

	review, err := service.Create(user.ID, movie.ID, &dto.CreateReviewRequest{
		Rating:  9,
		Title:   "Great",
		Comment: "Loved it.",
	})
	require.NoError(t, err)
	assert.Equal(t, 9, review.Rating)

	// 影片均分跟着评论走
	var refreshed model.Movie
	require.NoError(t, db.First(&refreshed, movie.ID).Error)
	assert.Equal(t, float64(9), refreshed.VoteAverage)
	assert.Equal(t, 1, refreshed.VoteCount)
}

func TestReviewService_Create_InvalidRating(t *testing.T) {
	service, db, cleanup := setupReviewService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	movie := testutil.TestMovie(t, db)

	_, err := service.Create(user.ID, movie.ID, &dto.CreateReviewRequest{Rating: 0})
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = service.Create(user.ID, movie.ID, &dto.CreateReviewRequest{Rating: 11})
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestReviewService_Create_Duplicate(t *testing.T) {
	service, db, cleanup := setupReviewService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	movie := testutil.TestMovie(t, db)
	testutil.TestReview(t, db, user.ID, movie.ID, 8)

	_, err := service.Create(user.ID, movie.ID, &dto.CreateReviewRequest{Rating: 5})
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestReviewService_Create_MovieNotFound(t *testing.T) {
	service, db, cleanup := setupReviewService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)

	_, err := service.Create(user.ID, 99999, &dto.CreateReviewRequest{Rating: 8})
	assert.ErrorIs(t, err, ErrMovieNotFound)
}

func TestReviewService_Update_NotOwner(t *testing.T) {
	service, db, cleanup := setupReviewService(t)
	defer cleanup()

	owner := testutil.TestUser(t, db)
	other := testutil.TestUser(t, db)
	movie := testutil.TestMovie(t, db)
	review := testutil.TestReview(t, db, owner.ID, movie.ID, 8)

	newTitle := "hijacked"
	_, err := service.Update(other.ID, review.ID, &dto.UpdateReviewRequest{Title: &newTitle})
	assert.ErrorIs(t, err, ErrNotReviewOwner)
}

func TestReviewService_Update_Rating(t *testing.T) {
	service, db, cleanup := setupReviewService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	movie := testutil.TestMovie(t, db)
	review := testutil.TestReview(t, db, user.ID, movie.ID, 4)

	newRating := 8
	updated, err := service.Update(user.ID, review.ID, &dto.UpdateReviewRequest{Rating: &newRating})
	require.NoError(t, err)
	assert.Equal(t, 8, updated.Rating)

	var refreshed model.Movie
	require.NoError(t, db.First(&refreshed, movie.ID).Error)
	assert.Equal(t, float64(8), refreshed.VoteAverage)
}

func TestReviewService_Delete_RefreshesMovieRating(t *testing.T) {
	service, db, cleanup := setupReviewService(t)
	defer cleanup()

	u1 := testutil.TestUser(t, db)
	u2 := testutil.TestUser(t, db)
	movie := testutil.TestMovie(t, db)
	keep := testutil.TestReview(t, db, u1.ID, movie.ID, 8)
	drop := testutil.TestReview(t, db, u2.ID, movie.ID, 2)

	require.NoError(t, service.Delete(u2.ID, drop.ID))

	var refreshed model.Movie
	require.NoError(t, db.First(&refreshed, movie.ID).Error)
	assert.Equal(t, float64(keep.Rating), refreshed.VoteAverage)
	assert.Equal(t, 1, refreshed.VoteCount)
}

func TestReviewService_AdminDelete_AnyUsersReview(t *testing.T) {
	service, db, cleanup := setupReviewService(t)
	defer cleanup()

	owner := testutil.TestUser(t, db)
	movie := testutil.TestMovie(t, db)
	review := testutil.TestReview(t, db, owner.ID, movie.ID, 2)

	// 管理员删除不校验归属
	require.NoError(t, service.AdminDelete(review.ID))

	var count int64
	require.NoError(t, db.Model(&model.Review{}).Where("id = ?", review.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	// 删除后均分清零
	var refreshed model.Movie
	require.NoError(t, db.First(&refreshed, movie.ID).Error)
	assert.Equal(t, 0, refreshed.VoteCount)

	assert.ErrorIs(t, service.AdminDelete(99999), ErrReviewNotFound)
}

func TestReviewService_CheckReviewed(t *testing.T) {
	service, db, cleanup := setupReviewService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	reviewed := testutil.TestMovie(t, db)
	fresh := testutil.TestMovie(t, db)
	review := testutil.TestReview(t, db, user.ID, reviewed.ID, 8)

	resp, err := service.CheckReviewed(user.ID, reviewed.ID)
	require.NoError(t, err)
	assert.True(t, resp.Reviewed)
	require.NotNil(t, resp.Review)
	assert.Equal(t, review.ID, resp.Review.ID)

	resp, err = service.CheckReviewed(user.ID, fresh.ID)
	require.NoError(t, err)
	assert.False(t, resp.Reviewed)
	assert.Nil(t, resp.Review)
}

func TestReviewService_MarkHelpful_Toggle(t *testing.T) {
	service, db, cleanup := setupReviewService(t)
	defer cleanup()

	author := testutil.TestUser(t, db)
	reader := testutil.TestUser(t, db)
	movie := testutil.TestMovie(t, db)
	review := testutil.TestReview(t, db, author.ID, movie.ID, 8)

	resp, err := service.MarkHelpful(reader.ID, review.ID)
	require.NoError(t, err)
	assert.True(t, resp.Helpful)
	assert.Equal(t, 1, resp.HelpfulCount)

	// 再点一次取消
	resp, err = service.MarkHelpful(reader.ID, review.ID)
	require.NoError(t, err)
	assert.False(t, resp.Helpful)
	assert.Equal(t, 0, resp.HelpfulCount)
}

func TestReviewService_Report(t *testing.T) {
	service, db, cleanup := setupReviewService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	movie := testutil.TestMovie(t, db)
	review := testutil.TestReview(t, db, user.ID, movie.ID, 2)

	require.NoError(t, service.Report(review.ID))

	var refreshed model.Review
	require.NoError(t, db.First(&refreshed, review.ID).Error)
	assert.Equal(t, "reported", refreshed.Status)

	assert.ErrorIs(t, service.Report(99999), ErrReviewNotFound)
}

func TestReviewService_Moderate_HiddenExcludedFromRating(t *testing.T) {
	service, db, cleanup := setupReviewService(t)
	defer cleanup()

	u1 := testutil.TestUser(t, db)
	u2 := testutil.TestUser(t, db)
	movie := testutil.TestMovie(t, db)
	testutil.TestReview(t, db, u1.ID, movie.ID, 8)
	bad := testutil.TestReview(t, db, u2.ID, movie.ID, 2)

	require.NoError(t, service.Moderate(bad.ID, "hidden"))

	// 被隐藏的评论不再计入均分
	var refreshed model.Movie
	require.NoError(t, db.First(&refreshed, movie.ID).Error)
	assert.Equal(t, float64(8), refreshed.VoteAverage)
	assert.Equal(t, 1, refreshed.VoteCount)
}
