package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/movie_go_server/config"
	"github.com/qs3c/movie_go_server/internal/model"
	"github.com/qs3c/movie_go_server/internal/model/dto"
	"github.com/qs3c/movie_go_server/internal/repository"
)

var (
	ErrPlanNotFound         = errors.New("套餐不存在")
	ErrSubscriptionNotFound = errors.New("订阅不存在")
	ErrSubscriptionInactive = errors.New("订阅未生效或已过期")
	ErrStreamLimitExceeded  = errors.New("已达到套餐允许的同时播放设备数")
	ErrRenewExpired         = errors.New("订阅已过期，请重新订阅")
	ErrAlreadyCancelled     = errors.New("订阅已是取消状态")
	ErrDuplicateTransaction = errors.New("该笔交易已处理")
)

type SubscriptionService struct {
	subRepo  *repository.SubscriptionRepository
	userRepo *repository.UserRepository
	cfg      *config.Config
}

func NewSubscriptionService(subRepo *repository.SubscriptionRepository, userRepo *repository.UserRepository, cfg *config.Config) *SubscriptionService {
	return &SubscriptionService{
		subRepo:  subRepo,
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// staleBefore 有效播放窗口下沿。早于该时刻开始的会话视为失效
func (s *SubscriptionService) staleBefore(now time.Time) time.Time {
	return now.Add(-time.Duration(s.cfg.Stream.StaleHours) * time.Hour)
}

// ListPlans 套餐目录，固定顺序
func (s *SubscriptionService) ListPlans() []*dto.PlanInfo {
	order := []string{"free", "basic", "premium", "family"}
	plans := make([]*dto.PlanInfo, 0, len(order))
	for _, key := range order {
		p, ok := s.cfg.Plans[key]
		if !ok {
			continue
		}
		plans = append(plans, &dto.PlanInfo{
			Key:                  key,
			Name:                 p.Name,
			Price:                p.Price,
			DurationDays:         p.DurationDays,
			MaxConcurrentStreams: p.MaxConcurrentStreams,
			Features:             p.Features,
		})
	}
	return plans
}

// ensureSubscription 获取用户订阅，没有记录时落一条 free 套餐
func (s *SubscriptionService) ensureSubscription(userID int64) (*model.Subscription, error) {
	sub, err := s.subRepo.GetByUserID(userID)
	if err == nil {
		return sub, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	free, ok := s.cfg.Plans["free"]
	if !ok {
		return nil, ErrPlanNotFound
	}

	now := time.Now()
	sub = &model.Subscription{
		UserID:               userID,
		Plan:                 "free",
		Status:               model.SubStatusActive,
		StartDate:            now,
		EndDate:              now.AddDate(0, 0, free.DurationDays),
		AutoRenew:            false,
		Price:                free.Price,
		MaxConcurrentStreams: free.MaxConcurrentStreams,
	}
	if err := s.subRepo.Create(sub); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.subRepo.GetByUserID(userID)
		}
		return nil, err
	}
	return sub, nil
}

// GetSubscription 用户订阅视图
func (s *SubscriptionService) GetSubscription(userID int64) (*dto.SubscriptionInfo, error) {
	sub, err := s.ensureSubscription(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	activeStreams, err := s.subRepo.CountActiveStreams(sub.ID, s.staleBefore(now))
	if err != nil {
		return nil, err
	}

	return s.buildInfo(sub, int(activeStreams)), nil
}

func (s *SubscriptionService) buildInfo(sub *model.Subscription, activeStreams int) *dto.SubscriptionInfo {
	planName := sub.Plan
	if p, ok := s.cfg.Plans[sub.Plan]; ok {
		planName = p.Name
	}
	return &dto.SubscriptionInfo{
		Plan:                 sub.Plan,
		PlanName:             planName,
		Status:               sub.Status,
		StartDate:            sub.StartDate.Format(time.RFC3339),
		EndDate:              sub.EndDate.Format(time.RFC3339),
		AutoRenew:            sub.AutoRenew,
		Price:                sub.Price,
		MaxConcurrentStreams: sub.MaxConcurrentStreams,
		ActiveStreams:        activeStreams,
	}
}

// ChangePlan 切换套餐。订阅仍有效时在原到期日上叠加新套餐时长，不吞掉已付的时间
func (s *SubscriptionService) ChangePlan(userID int64, plan, paymentMethod string) (*dto.SubscriptionInfo, error) {
	planCfg, ok := s.cfg.Plans[plan]
	if !ok {
		return nil, ErrPlanNotFound
	}

	sub, err := s.ensureSubscription(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	start := now
	end := now.AddDate(0, 0, planCfg.DurationDays)
	// 免费套餐没有已付费时长，升级一律从当前时间起算；
	// 付费套餐剩余时间叠加，换套餐不吃亏
	if sub.IsActive(now) && sub.Plan != "free" {
		start = sub.StartDate
		end = sub.EndDate.AddDate(0, 0, planCfg.DurationDays)
	}

	sub.Plan = plan
	sub.Status = model.SubStatusActive
	sub.StartDate = start
	sub.EndDate = end
	sub.Price = planCfg.Price
	sub.PaymentMethod = paymentMethod
	sub.MaxConcurrentStreams = planCfg.MaxConcurrentStreams

	if err := s.subRepo.Update(sub); err != nil {
		return nil, err
	}
	return s.buildInfo(sub, 0), nil
}

// Cancel 取消订阅。已付周期继续有效，只停掉自动续费
func (s *SubscriptionService) Cancel(userID int64) (*dto.SubscriptionInfo, error) {
	sub, err := s.subRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}

	if sub.Status == model.SubStatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	sub.Status = model.SubStatusCancelled
	sub.AutoRenew = false
	if err := s.subRepo.Update(sub); err != nil {
		return nil, err
	}
	return s.buildInfo(sub, 0), nil
}

// Renew 恢复已取消的订阅。已过期的订阅不能恢复，只能重新订阅
func (s *SubscriptionService) Renew(userID int64) (*dto.SubscriptionInfo, error) {
	sub, err := s.subRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}

	now := time.Now()
	if sub.Status == model.SubStatusExpired || !sub.EndDate.After(now) {
		return nil, ErrRenewExpired
	}
	if sub.Status != model.SubStatusCancelled {
		return s.buildInfo(sub, 0), nil
	}

	sub.Status = model.SubStatusActive
	sub.AutoRenew = true
	if err := s.subRepo.Update(sub); err != nil {
		return nil, err
	}
	return s.buildInfo(sub, 0), nil
}

// CanStream 只读的播放资格判定，不产生任何写入
func (s *SubscriptionService) CanStream(userID int64) (bool, error) {
	sub, err := s.ensureSubscription(userID)
	if err != nil {
		return false, err
	}

	now := time.Now()
	if !sub.IsActive(now) {
		return false, nil
	}

	count, err := s.subRepo.CountActiveStreams(sub.ID, s.staleBefore(now))
	if err != nil {
		return false, err
	}
	return count < int64(sub.MaxConcurrentStreams), nil
}

// StartStream 开始播放。限流判定和会话写入在同一事务内完成，
// 同一设备重复开播不占用新名额
func (s *SubscriptionService) StartStream(userID int64, req *dto.StartStreamRequest) (*dto.StreamStatus, error) {
	sub, err := s.ensureSubscription(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if model.ReconcileExpiry(sub, now) {
		if err := s.subRepo.UpdateFields(sub.ID, map[string]interface{}{"status": sub.Status}); err != nil {
			return nil, err
		}
	}
	if !sub.IsActive(now) {
		return nil, ErrSubscriptionInactive
	}

	err = s.subRepo.StartStream(sub.ID, req.DeviceID, req.MovieID, now, s.staleBefore(now), sub.MaxConcurrentStreams)
	if err != nil {
		if errors.Is(err, repository.ErrStreamLimitReached) {
			return nil, ErrStreamLimitExceeded
		}
		return nil, err
	}

	count, err := s.subRepo.CountActiveStreams(sub.ID, s.staleBefore(now))
	if err != nil {
		return nil, err
	}
	return &dto.StreamStatus{
		ActiveStreams: int(count),
		MaxStreams:    sub.MaxConcurrentStreams,
	}, nil
}

// EndStream 结束播放。会话不存在也算成功，客户端可以放心重试
func (s *SubscriptionService) EndStream(userID int64, deviceID string) (*dto.StreamStatus, error) {
	sub, err := s.ensureSubscription(userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.subRepo.EndStream(sub.ID, deviceID); err != nil {
		return nil, err
	}

	count, err := s.subRepo.CountActiveStreams(sub.ID, s.staleBefore(time.Now()))
	if err != nil {
		return nil, err
	}
	return &dto.StreamStatus{
		ActiveStreams: int(count),
		MaxStreams:    sub.MaxConcurrentStreams,
	}, nil
}

// ListActiveStreams 进行中的播放会话
func (s *SubscriptionService) ListActiveStreams(userID int64) ([]*dto.ActiveStreamItem, error) {
	sub, err := s.ensureSubscription(userID)
	if err != nil {
		return nil, err
	}

	streams, err := s.subRepo.ListActiveStreams(sub.ID, s.staleBefore(time.Now()))
	if err != nil {
		return nil, err
	}

	items := make([]*dto.ActiveStreamItem, 0, len(streams))
	for _, st := range streams {
		item := &dto.ActiveStreamItem{
			DeviceID:  st.DeviceID,
			MovieID:   st.MovieID,
			StartedAt: st.StartedAt.Format(time.RFC3339),
		}
		if st.Movie != nil {
			item.MovieTitle = st.Movie.Title
		}
		items = append(items, item)
	}
	return items, nil
}

// ProcessPayment 落账一笔支付回调。transaction_id 唯一索引保证同一笔
// 交易至多生效一次，重复回调返回 ErrDuplicateTransaction
func (s *SubscriptionService) ProcessPayment(event *dto.PaymentEvent) (*dto.PaymentResult, error) {
	if _, ok := s.cfg.Plans[event.Plan]; !ok && event.Status == "success" {
		return nil, ErrPlanNotFound
	}

	sub, err := s.ensureSubscription(event.UserID)
	if err != nil {
		return nil, err
	}

	if _, err := s.subRepo.GetPaymentByTransactionID(event.TransactionID); err == nil {
		return nil, ErrDuplicateTransaction
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	status := "success"
	if event.Status != "success" {
		status = "failed"
	}

	payment := &model.Payment{
		SubscriptionID: sub.ID,
		Amount:         event.Amount,
		PaymentDate:    time.Now(),
		TransactionID:  event.TransactionID,
		Status:         status,
	}
	if err := s.subRepo.CreatePayment(payment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateTransaction
		}
		return nil, err
	}

	if status == "failed" {
		return &dto.PaymentResult{
			Success:       false,
			Message:       "支付失败",
			TransactionID: event.TransactionID,
		}, nil
	}

	info, err := s.ChangePlan(event.UserID, event.Plan, sub.PaymentMethod)
	if err != nil {
		return nil, err
	}

	return &dto.PaymentResult{
		Success:       true,
		Message:       "支付成功，订阅已开通",
		TransactionID: event.TransactionID,
		Subscription:  info,
	}, nil
}

// PaymentHistory 支付流水
func (s *SubscriptionService) PaymentHistory(userID int64, limit int) ([]*dto.PaymentHistoryItem, error) {
	sub, err := s.subRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []*dto.PaymentHistoryItem{}, nil
		}
		return nil, err
	}

	if limit <= 0 {
		limit = 20
	}
	payments, err := s.subRepo.ListPayments(sub.ID, limit)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.PaymentHistoryItem, 0, len(payments))
	for _, p := range payments {
		items = append(items, &dto.PaymentHistoryItem{
			Amount:        p.Amount,
			PaymentDate:   p.PaymentDate.Format(time.RFC3339),
			TransactionID: p.TransactionID,
			Status:        p.Status,
		})
	}
	return items, nil
}

// ReconcileExpired 批量把已过期的 active 订阅翻转为 expired，cron 周期调用
func (s *SubscriptionService) ReconcileExpired(ctx context.Context) (int64, error) {
	_ = ctx
	return s.subRepo.MarkExpired(time.Now())
}

// PruneStaleStreams 清理窗口期外的播放会话
func (s *SubscriptionService) PruneStaleStreams(ctx context.Context) (int64, error) {
	_ = ctx
	return s.subRepo.DeleteStaleStreams(s.staleBefore(time.Now()))
}

// Stats 订阅统计（管理员）
func (s *SubscriptionService) Stats() (*dto.SubscriptionStats, error) {
	byPlan, err := s.subRepo.CountByPlan()
	if err != nil {
		return nil, err
	}
	byStatus, err := s.subRepo.CountByStatus()
	if err != nil {
		return nil, err
	}
	revenue, err := s.subRepo.TotalRevenue()
	if err != nil {
		return nil, err
	}

	recent, err := s.subRepo.ListRecent(10)
	if err != nil {
		return nil, err
	}
	recentItems := make([]dto.RecentSubItem, 0, len(recent))
	for _, sub := range recent {
		item := dto.RecentSubItem{
			UserID:    sub.UserID,
			Plan:      sub.Plan,
			Status:    sub.Status,
			Price:     sub.Price,
			CreatedAt: sub.CreatedAt.Format(time.RFC3339),
		}
		if sub.User != nil {
			item.Username = sub.User.Username
		}
		recentItems = append(recentItems, item)
	}

	return &dto.SubscriptionStats{
		ByPlan:       byPlan,
		ByStatus:     byStatus,
		TotalRevenue: revenue,
		Recent:       recentItems,
	}, nil
}
