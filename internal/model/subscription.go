package model

import (
	"time"
)

// 订阅状态
const (
	SubStatusActive    = "active"
	SubStatusExpired   = "expired"
	SubStatusCancelled = "cancelled"
	SubStatusSuspended = "suspended"
)

// Subscription 每个用户最多一条，只做状态流转，不物理删除
type Subscription struct {
	ID                   int64     `gorm:"primaryKey" json:"id"`
	UserID               int64     `gorm:"not null;uniqueIndex" json:"user_id"`
	Plan                 string    `gorm:"size:20;not null;default:free" json:"plan"` // free, basic, premium, family
	Status               string    `gorm:"size:20;default:active;index:idx_subs_end_status" json:"status"`
	StartDate            time.Time `gorm:"not null" json:"start_date"`
	EndDate              time.Time `gorm:"not null;index:idx_subs_end_status" json:"end_date"`
	AutoRenew            bool      `gorm:"default:true" json:"auto_renew"`
	Price                float64   `gorm:"type:decimal(12,2)" json:"price"`
	PaymentMethod        string    `gorm:"size:20" json:"payment_method,omitempty"` // vnpay, momo, card, bank_transfer
	MaxConcurrentStreams int       `gorm:"default:1" json:"max_concurrent_streams"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`

	// 关联
	User    *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Streams []StreamSession `gorm:"foreignKey:SubscriptionID" json:"active_streams,omitempty"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// IsActive 订阅是否有效（纯函数，不修改状态）
func (s *Subscription) IsActive(now time.Time) bool {
	return s.Status == SubStatusActive && s.EndDate.After(now)
}

// ReconcileExpiry 已过期但状态仍为 active 时翻转为 expired。
// 返回是否发生变化，由调用方负责持久化（读路径不做隐式写入）。
func ReconcileExpiry(s *Subscription, now time.Time) bool {
	if s.Status == SubStatusActive && !s.EndDate.After(now) {
		s.Status = SubStatusExpired
		return true
	}
	return false
}

// StreamSession 一条进行中的播放会话。
// (subscription_id, device_id) 唯一：同一设备重复开播是更新而不是追加。
type StreamSession struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	SubscriptionID int64     `gorm:"not null;uniqueIndex:idx_streams_sub_device" json:"subscription_id"`
	DeviceID       string    `gorm:"size:100;not null;uniqueIndex:idx_streams_sub_device" json:"device_id"`
	MovieID        int64     `gorm:"not null" json:"movie_id"`
	StartedAt      time.Time `gorm:"not null;index" json:"started_at"`

	// 关联
	Movie *Movie `gorm:"foreignKey:MovieID" json:"movie,omitempty"`
}

func (StreamSession) TableName() string {
	return "stream_sessions"
}

// Payment 支付流水，只追加。transaction_id 唯一，保证同一笔交易至多生效一次
type Payment struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	SubscriptionID int64     `gorm:"not null;index" json:"subscription_id"`
	Amount         float64   `gorm:"type:decimal(12,2)" json:"amount"`
	PaymentDate    time.Time `gorm:"not null" json:"payment_date"`
	TransactionID  string    `gorm:"size:100;uniqueIndex" json:"transaction_id"`
	Status         string    `gorm:"size:20" json:"status"` // success, failed, pending
	CreatedAt      time.Time `json:"created_at"`
}

func (Payment) TableName() string {
	return "payments"
}
