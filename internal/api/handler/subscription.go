package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/movie_go_server/config"
	"github.com/qs3c/movie_go_server/internal/api/middleware"
	"github.com/qs3c/movie_go_server/internal/model/dto"
	"github.com/qs3c/movie_go_server/internal/pkg/queue"
	"github.com/qs3c/movie_go_server/internal/pkg/response"
	"github.com/qs3c/movie_go_server/internal/service"
)

type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
	paymentQueue        *queue.Queue
	cfg                 *config.Config
}

func NewSubscriptionHandler(subscriptionService *service.SubscriptionService, paymentQueue *queue.Queue, cfg *config.Config) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
		paymentQueue:        paymentQueue,
		cfg:                 cfg,
	}
}

// Plans 套餐目录
// GET /api/v1/subscriptions/plans
func (h *SubscriptionHandler) Plans(c *gin.Context) {
	response.Success(c, h.subscriptionService.ListPlans())
}

// Get 我的订阅
// GET /api/v1/subscriptions/me
func (h *SubscriptionHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	info, err := h.subscriptionService.GetSubscription(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, info)
}

// ChangePlan 切换套餐
// POST /api/v1/subscriptions/change-plan
func (h *SubscriptionHandler) ChangePlan(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req struct {
		Plan          string `json:"plan" binding:"required"`
		PaymentMethod string `json:"payment_method,omitempty" binding:"omitempty,oneof=vnpay momo card bank_transfer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	info, err := h.subscriptionService.ChangePlan(userID, req.Plan, req.PaymentMethod)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlanNotFound):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "套餐已更新", info)
}

// Cancel 取消订阅
// POST /api/v1/subscriptions/cancel
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	info, err := h.subscriptionService.Cancel(userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubscriptionNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrAlreadyCancelled):
			response.DuplicateError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "订阅已取消，已付周期内仍可观看", info)
}

// Renew 恢复已取消的订阅
// POST /api/v1/subscriptions/renew
func (h *SubscriptionHandler) Renew(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	info, err := h.subscriptionService.Renew(userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubscriptionNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrRenewExpired):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "订阅已恢复", info)
}

// StartStream 开始播放
// POST /api/v1/subscriptions/streams/start
func (h *SubscriptionHandler) StartStream(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.StartStreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	status, err := h.subscriptionService.StartStream(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubscriptionInactive):
			response.PermissionError(c, err.Error())
		case errors.Is(err, service.ErrStreamLimitExceeded):
			response.StreamLimitError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, status)
}

// EndStream 结束播放
// POST /api/v1/subscriptions/streams/end
func (h *SubscriptionHandler) EndStream(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.EndStreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	status, err := h.subscriptionService.EndStream(userID, req.DeviceID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, status)
}

// Streams 进行中的播放会话
// GET /api/v1/subscriptions/streams
func (h *SubscriptionHandler) Streams(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	items, err := h.subscriptionService.ListActiveStreams(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, items)
}

// PaymentHistory 支付流水
// GET /api/v1/subscriptions/payments
func (h *SubscriptionHandler) PaymentHistory(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	items, err := h.subscriptionService.PaymentHistory(userID, 20)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, items)
}

// PaymentIPN 支付网关服务端回调。只做入队，真正的落账由 worker
// 异步完成，网关重试和并发回调靠 transaction_id 唯一索引去重
// POST /api/v1/payments/ipn
func (h *SubscriptionHandler) PaymentIPN(c *gin.Context) {
	var event dto.PaymentEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		response.ParamError(c, err.Error())
		return
	}
	if event.TransactionID == "" || event.UserID == 0 {
		response.ParamError(c, "缺少交易号或用户标识")
		return
	}

	msg := &queue.PaymentMessage{
		UserID:        event.UserID,
		Plan:          event.Plan,
		Amount:        event.Amount,
		TransactionID: event.TransactionID,
		Status:        event.Status,
		ReceivedAt:    time.Now().Unix(),
	}

	if err := h.paymentQueue.Push(c.Request.Context(), msg); err != nil {
		log.Printf("Failed to enqueue payment event %s: %v", event.TransactionID, err)
		response.ServerError(c, "")
		return
	}

	// 网关只关心是否收到，处理结果通过 WebSocket 通知用户
	response.SuccessWithMessage(c, "received", nil)
}

// PaymentReturn 支付完成后的浏览器跳转
// GET /api/v1/payments/return?status=success&transaction_id=xxx
func (h *SubscriptionHandler) PaymentReturn(c *gin.Context) {
	status := c.DefaultQuery("status", "unknown")
	transactionID := c.Query("transaction_id")

	target := fmt.Sprintf("%s/subscription/result?status=%s&transaction_id=%s",
		h.cfg.Client.BaseURL, status, transactionID)
	c.Redirect(http.StatusFound, target)
}

// Stats 订阅统计（管理员）
// GET /api/v1/admin/subscriptions/stats
func (h *SubscriptionHandler) Stats(c *gin.Context) {
	stats, err := h.subscriptionService.Stats()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, stats)
}
