package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qs3c/movie_go_server/internal/model"
)

var (
	// ErrStreamLimitReached 并发播放数已达套餐上限
	ErrStreamLimitReached = errors.New("stream limit reached")
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(sub *model.Subscription) error {
	return r.db.Create(sub).Error
}

func (r *SubscriptionRepository) GetByUserID(userID int64) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.Where("user_id = ?", userID).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepository) GetByID(id int64) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.Where("id = ?", id).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepository) Update(sub *model.Subscription) error {
	return r.db.Save(sub).Error
}

func (r *SubscriptionRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.Subscription{}).Where("id = ?", id).Updates(fields).Error
}

// MarkExpired 将所有已过期但仍为 active 的订阅批量翻转为 expired
func (r *SubscriptionRepository) MarkExpired(now time.Time) (int64, error) {
	result := r.db.Model(&model.Subscription{}).
		Where("status = ? AND end_date <= ?", model.SubStatusActive, now).
		Update("status", model.SubStatusExpired)
	return result.RowsAffected, result.Error
}

// CountActiveStreams 有效播放会话数（只统计窗口期内的会话）
func (r *SubscriptionRepository) CountActiveStreams(subscriptionID int64, staleBefore time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.StreamSession{}).
		Where("subscription_id = ? AND started_at > ?", subscriptionID, staleBefore).
		Count(&count).Error
	return count, err
}

// ListActiveStreams 窗口期内的播放会话（含影片）
func (r *SubscriptionRepository) ListActiveStreams(subscriptionID int64, staleBefore time.Time) ([]*model.StreamSession, error) {
	var streams []*model.StreamSession
	err := r.db.Preload("Movie").
		Where("subscription_id = ? AND started_at > ?", subscriptionID, staleBefore).
		Order("started_at DESC").
		Find(&streams).Error
	return streams, err
}

// StartStream 在同一事务内完成限流判定和会话写入。
// 先锁订阅行，再数会话、写会话，避免两个设备同时挤进最后一个名额。
// 同一设备已有会话时只刷新 movie_id 和 started_at，不占用新名额。
func (r *SubscriptionRepository) StartStream(subscriptionID int64, deviceID string, movieID int64, now, staleBefore time.Time, maxStreams int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var sub model.Subscription
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", subscriptionID).First(&sub).Error; err != nil {
			return err
		}

		var existing model.StreamSession
		err := tx.Where("subscription_id = ? AND device_id = ?", subscriptionID, deviceID).
			First(&existing).Error
		if err == nil {
			return tx.Model(&existing).Updates(map[string]interface{}{
				"movie_id":   movieID,
				"started_at": now,
			}).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var count int64
		if err := tx.Model(&model.StreamSession{}).
			Where("subscription_id = ? AND started_at > ?", subscriptionID, staleBefore).
			Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(maxStreams) {
			return ErrStreamLimitReached
		}

		return tx.Create(&model.StreamSession{
			SubscriptionID: subscriptionID,
			DeviceID:       deviceID,
			MovieID:        movieID,
			StartedAt:      now,
		}).Error
	})
}

// EndStream 结束播放会话，会话不存在时返回删除数 0 而不是错误
func (r *SubscriptionRepository) EndStream(subscriptionID int64, deviceID string) (int64, error) {
	result := r.db.Where("subscription_id = ? AND device_id = ?", subscriptionID, deviceID).
		Delete(&model.StreamSession{})
	return result.RowsAffected, result.Error
}

// DeleteStaleStreams 清理窗口期外的播放会话
func (r *SubscriptionRepository) DeleteStaleStreams(staleBefore time.Time) (int64, error) {
	result := r.db.Where("started_at <= ?", staleBefore).Delete(&model.StreamSession{})
	return result.RowsAffected, result.Error
}

// CreatePayment 写入支付流水，transaction_id 冲突时返回 gorm.ErrDuplicatedKey
func (r *SubscriptionRepository) CreatePayment(payment *model.Payment) error {
	return r.db.Create(payment).Error
}

func (r *SubscriptionRepository) GetPaymentByTransactionID(transactionID string) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.Where("transaction_id = ?", transactionID).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListPayments 订阅的支付流水，按时间倒序
func (r *SubscriptionRepository) ListPayments(subscriptionID int64, limit int) ([]*model.Payment, error) {
	var payments []*model.Payment
	err := r.db.Where("subscription_id = ?", subscriptionID).
		Order("payment_date DESC").Limit(limit).
		Find(&payments).Error
	return payments, err
}

// CountByPlan 各套餐订阅数
func (r *SubscriptionRepository) CountByPlan() (map[string]int64, error) {
	var rows []struct {
		Plan  string
		Count int64
	}
	err := r.db.Model(&model.Subscription{}).
		Select("plan, COUNT(*) AS count").
		Group("plan").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Plan] = row.Count
	}
	return result, nil
}

// CountByStatus 各状态订阅数
func (r *SubscriptionRepository) CountByStatus() (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.Model(&model.Subscription{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Status] = row.Count
	}
	return result, nil
}

// TotalRevenue 成功支付的总金额
func (r *SubscriptionRepository) TotalRevenue() (float64, error) {
	var row struct{ Total float64 }
	err := r.db.Model(&model.Payment{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("status = ?", "success").
		Scan(&row).Error
	return row.Total, err
}

// ListRecent 最近创建的订阅（含用户）
func (r *SubscriptionRepository) ListRecent(limit int) ([]*model.Subscription, error) {
	var subs []*model.Subscription
	err := r.db.Preload("User").Order("created_at DESC").Limit(limit).Find(&subs).Error
	return subs, err
}
