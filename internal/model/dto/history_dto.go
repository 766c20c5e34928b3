package dto

// UpdateProgressRequest 更新观看进度请求
type UpdateProgressRequest struct {
	Progress int `json:"progress" binding:"min=0"`
	Duration int `json:"duration" binding:"min=0"`
}

// HistoryStats 观看统计（管理员）
type HistoryStats struct {
	TotalViews   int64 `json:"total_views"`
	UniqueMovies int64 `json:"unique_movies"`
	UniqueUsers  int64 `json:"unique_users"`
}
