package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/movie_go_server/internal/api/middleware"
	"github.com/qs3c/movie_go_server/internal/model/dto"
	"github.com/qs3c/movie_go_server/internal/pkg/response"
	"github.com/qs3c/movie_go_server/internal/service"
)

type HistoryHandler struct {
	historyService        *service.HistoryService
	recommendationService *service.RecommendationService
}

func NewHistoryHandler(historyService *service.HistoryService, recommendationService *service.RecommendationService) *HistoryHandler {
	return &HistoryHandler{
		historyService:        historyService,
		recommendationService: recommendationService,
	}
}

// Record 记录一次观看
// POST /api/v1/history/:movieId
func (h *HistoryHandler) Record(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	movieID, err := strconv.ParseInt(c.Param("movieId"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的影片 ID")
		return
	}

	// 进度参数可选
	var req dto.UpdateProgressRequest
	_ = c.ShouldBindJSON(&req)

	entry, err := h.historyService.RecordView(userID, movieID, req.Progress, req.Duration)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMovieNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	// 口味变了，推荐缓存作废
	if h.recommendationService != nil {
		h.recommendationService.InvalidateUser(c.Request.Context(), userID)
	}

	response.Success(c, entry)
}

// UpdateProgress 更新观看进度
// PUT /api/v1/history/:movieId/progress
func (h *HistoryHandler) UpdateProgress(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	movieID, err := strconv.ParseInt(c.Param("movieId"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的影片 ID")
		return
	}

	var req dto.UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.historyService.UpdateProgress(userID, movieID, &req); err != nil {
		switch {
		case errors.Is(err, service.ErrHistoryNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "进度已更新", nil)
}

// List 观看历史
// GET /api/v1/history
func (h *HistoryHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	entries, total, err := h.historyService.List(userID, page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, entries)
}

// GetByMovie 单部影片的观看记录（续播用）
// GET /api/v1/history/:movieId
func (h *HistoryHandler) GetByMovie(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	movieID, err := strconv.ParseInt(c.Param("movieId"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的影片 ID")
		return
	}

	entry, err := h.historyService.GetByMovie(userID, movieID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrHistoryNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, entry)
}

// Delete 删除单条观看记录
// DELETE /api/v1/history/:movieId
func (h *HistoryHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	movieID, err := strconv.ParseInt(c.Param("movieId"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的影片 ID")
		return
	}

	if err := h.historyService.Delete(userID, movieID); err != nil {
		switch {
		case errors.Is(err, service.ErrHistoryNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "记录已删除", nil)
}

// Clear 清空观看历史
// DELETE /api/v1/history
func (h *HistoryHandler) Clear(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	if err := h.historyService.Clear(userID); err != nil {
		response.ServerError(c, "")
		return
	}

	if h.recommendationService != nil {
		h.recommendationService.InvalidateUser(c.Request.Context(), userID)
	}

	response.SuccessWithMessage(c, "观看历史已清空", nil)
}

// Stats 全站观看统计（管理员）
// GET /api/v1/admin/history/stats
func (h *HistoryHandler) Stats(c *gin.Context) {
	stats, err := h.historyService.Stats()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, stats)
}
