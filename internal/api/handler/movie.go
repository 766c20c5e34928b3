package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/movie_go_server/internal/api/middleware"
	"github.com/qs3c/movie_go_server/internal/model"
	"github.com/qs3c/movie_go_server/internal/model/dto"
	"github.com/qs3c/movie_go_server/internal/pkg/response"
	"github.com/qs3c/movie_go_server/internal/service"
)

type MovieHandler struct {
	movieService *service.MovieService
	authService  *service.AuthService
}

func NewMovieHandler(movieService *service.MovieService, authService *service.AuthService) *MovieHandler {
	return &MovieHandler{
		movieService: movieService,
		authService:  authService,
	}
}

// List 影片列表
// GET /api/v1/movies
func (h *MovieHandler) List(c *gin.Context) {
	var req dto.MovieListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = 20
	}

	movies, total, err := h.movieService.List(&req)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, req.Page, req.PageSize, movies)
}

// Get 影片详情，路径参数支持数字 ID 或 slug
// GET /api/v1/movies/:id
func (h *MovieHandler) Get(c *gin.Context) {
	param := c.Param("id")

	movie, err := func() (*model.Movie, error) {
		if id, parseErr := strconv.ParseInt(param, 10, 64); parseErr == nil {
			return h.movieService.GetByID(id)
		}
		return h.movieService.GetBySlug(param)
	}()
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMovieNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, movie)
}

// Genres 全部影片类型
// GET /api/v1/movies/genres
func (h *MovieHandler) Genres(c *gin.Context) {
	genres, err := h.movieService.ListGenres()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, genres)
}

// Featured 首页推荐位
// GET /api/v1/movies/featured
func (h *MovieHandler) Featured(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	movies, err := h.movieService.ListFeatured(limit)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, movies)
}

// Streaming 获取播放信息。需要先通过播放资格预检
// GET /api/v1/movies/:id/streaming
func (h *MovieHandler) Streaming(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	movieID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的影片 ID")
		return
	}

	preferred := "720p"
	if user, err := h.authService.GetUserByID(userID); err == nil && user.PreferredQuality != "" {
		preferred = user.PreferredQuality
	}

	info, err := h.movieService.GetStreamingInfo(movieID, preferred)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMovieNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrMovieUnavailable):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, info)
}

// Create 创建影片（管理员）
// POST /api/v1/admin/movies
func (h *MovieHandler) Create(c *gin.Context) {
	var req dto.CreateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	movie, err := h.movieService.Create(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSlugExists):
			response.DuplicateError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "影片已创建", movie)
}

// Update 更新影片（管理员）
// PUT /api/v1/admin/movies/:id
func (h *MovieHandler) Update(c *gin.Context) {
	movieID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的影片 ID")
		return
	}

	var req dto.UpdateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	movie, err := h.movieService.Update(movieID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMovieNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "影片已更新", movie)
}

// Delete 删除影片（管理员）
// DELETE /api/v1/admin/movies/:id
func (h *MovieHandler) Delete(c *gin.Context) {
	movieID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的影片 ID")
		return
	}

	if err := h.movieService.Delete(movieID); err != nil {
		switch {
		case errors.Is(err, service.ErrMovieNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "影片已删除", nil)
}

// SetFeatured 设置首页推荐位（管理员）
// PUT /api/v1/admin/movies/:id/featured
func (h *MovieHandler) SetFeatured(c *gin.Context) {
	movieID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的影片 ID")
		return
	}

	var req struct {
		Featured bool `json:"featured"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.movieService.SetFeatured(movieID, req.Featured); err != nil {
		switch {
		case errors.Is(err, service.ErrMovieNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "推荐位已更新", nil)
}

// Stats 影片统计（管理员）
// GET /api/v1/admin/movies/stats
func (h *MovieHandler) Stats(c *gin.Context) {
	stats, err := h.movieService.Stats()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, stats)
}
