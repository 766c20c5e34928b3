package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/movie_go_server/internal/api/middleware"
	"github.com/qs3c/movie_go_server/internal/pkg/response"
	"github.com/qs3c/movie_go_server/internal/service"
)

type RecommendationHandler struct {
	recommendationService *service.RecommendationService
}

func NewRecommendationHandler(recommendationService *service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		recommendationService: recommendationService,
	}
}

// Get 个性化推荐
// GET /api/v1/recommendations
func (h *RecommendationHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	rec, err := h.recommendationService.GetRecommendations(c.Request.Context(), userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, rec)
}

// Trending 热门榜单，无需登录
// GET /api/v1/recommendations/trending
func (h *RecommendationHandler) Trending(c *gin.Context) {
	movies, err := h.recommendationService.GetTrending(c.Request.Context())
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, movies)
}
