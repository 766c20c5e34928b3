package dto

// PlanInfo 套餐信息
type PlanInfo struct {
	Key                  string   `json:"key"`
	Name                 string   `json:"name"`
	Price                float64  `json:"price"`
	DurationDays         int      `json:"duration_days"`
	MaxConcurrentStreams int      `json:"max_concurrent_streams"`
	Features             []string `json:"features"`
}

// SubscriptionInfo 用户订阅视图（没有订阅记录时返回 free 套餐）
type SubscriptionInfo struct {
	Plan                 string  `json:"plan"`
	PlanName             string  `json:"plan_name"`
	Status               string  `json:"status"`
	StartDate            string  `json:"start_date,omitempty"`
	EndDate              string  `json:"end_date,omitempty"`
	AutoRenew            bool    `json:"auto_renew"`
	Price                float64 `json:"price"`
	MaxConcurrentStreams int     `json:"max_concurrent_streams"`
	ActiveStreams        int     `json:"active_streams"`
}

// StartStreamRequest 开始播放请求
type StartStreamRequest struct {
	MovieID  int64  `json:"movie_id" binding:"required"`
	DeviceID string `json:"device_id" binding:"required,max=100"`
}

// EndStreamRequest 结束播放请求
type EndStreamRequest struct {
	DeviceID string `json:"device_id" binding:"required,max=100"`
}

// StreamStatus 播放会话状态
type StreamStatus struct {
	ActiveStreams int `json:"active_streams"`
	MaxStreams    int `json:"max_streams"`
}

// ActiveStreamItem 进行中的播放会话
type ActiveStreamItem struct {
	DeviceID   string `json:"device_id"`
	MovieID    int64  `json:"movie_id"`
	MovieTitle string `json:"movie_title,omitempty"`
	StartedAt  string `json:"started_at"`
}

// PaymentEvent 已验签的支付回调事件（网关细节由上游适配层处理）
type PaymentEvent struct {
	Status        string  `json:"status"` // success, failure
	Plan          string  `json:"plan"`
	UserID        int64   `json:"user_id"`
	Amount        float64 `json:"amount"`
	TransactionID string  `json:"transaction_id"`
}

// PaymentResult 支付处理结果
type PaymentResult struct {
	Success       bool              `json:"success"`
	Message       string            `json:"message"`
	TransactionID string            `json:"transaction_id,omitempty"`
	Subscription  *SubscriptionInfo `json:"subscription,omitempty"`
}

// PaymentHistoryItem 支付流水
type PaymentHistoryItem struct {
	Amount        float64 `json:"amount"`
	PaymentDate   string  `json:"payment_date"`
	TransactionID string  `json:"transaction_id"`
	Status        string  `json:"status"`
}

// SubscriptionStats 订阅统计（管理员）
type SubscriptionStats struct {
	ByPlan       map[string]int64 `json:"by_plan"`
	ByStatus     map[string]int64 `json:"by_status"`
	TotalRevenue float64          `json:"total_revenue"`
	Recent       []RecentSubItem  `json:"recent_subscriptions"`
}

// RecentSubItem 最近订阅
type RecentSubItem struct {
	UserID    int64   `json:"user_id"`
	Username  string  `json:"username"`
	Plan      string  `json:"plan"`
	Status    string  `json:"status"`
	Price     float64 `json:"price"`
	CreatedAt string  `json:"created_at"`
}
