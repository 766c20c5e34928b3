package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/movie_go_server/internal/pkg/response"
	"github.com/qs3c/movie_go_server/internal/repository"
	"github.com/qs3c/movie_go_server/internal/service"
	"github.com/qs3c/movie_go_server/internal/testutil"
)

// 缓存传 nil，推荐直接走数据库计算
func setupRecommendationHandler(t *testing.T) (*RecommendationHandler, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	recommendationService := service.NewRecommendationService(
		repository.NewHistoryRepository(db),
		repository.NewReviewRepository(db),
		repository.NewMovieRepository(db),
		nil,
		handlerTestConfig(),
	)
	h := NewRecommendationHandler(recommendationService)

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return h, db, cleanup
}

func TestRecommendationHandler_Get(t *testing.T) {
	h, db, cleanup := setupRecommendationHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	liked := testutil.TestMovie(t, db, testutil.WithGenres("Action"))
	testutil.TestHistory(t, db, user.ID, liked.ID)
	for i := 0; i < 5; i++ {
		testutil.TestMovie(t, db, testutil.WithGenres("Action"), testutil.WithRating(8.0, 100))
	}

	r := gin.New()
	r.GET("/api/v1/recommendations", mockAuth(user.ID), h.Get)

	w := performRequest(r, http.MethodGet, "/api/v1/recommendations", nil)

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	data := resp.Data.(map[string]interface{})
	assert.NotEmpty(t, data["for_you"])
	assert.Equal(t, []interface{}{"Action"}, data["favorite_genres"])
}

func TestRecommendationHandler_Trending_NoAuth(t *testing.T) {
	h, db, cleanup := setupRecommendationHandler(t)
	defer cleanup()

	top := testutil.TestMovie(t, db, testutil.WithViewCount(500))
	testutil.TestMovie(t, db, testutil.WithViewCount(100))

	r := gin.New()
	r.GET("/api/v1/recommendations/trending", h.Trending)

	w := performRequest(r, http.MethodGet, "/api/v1/recommendations/trending", nil)

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	movies := resp.Data.([]interface{})
	require.Len(t, movies, 2)
	first := movies[0].(map[string]interface{})
	assert.Equal(t, top.Title, first["title"])
}
