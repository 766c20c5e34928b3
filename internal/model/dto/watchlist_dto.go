package dto

// AddWatchlistRequest 添加想看请求
type AddWatchlistRequest struct {
	MovieID  int64  `json:"movie_id" binding:"required"`
	Note     string `json:"note,omitempty" binding:"omitempty,max=500"`
	Priority int    `json:"priority,omitempty" binding:"omitempty,min=1,max=5"`
}

// UpdateWatchlistRequest 更新想看条目请求
type UpdateWatchlistRequest struct {
	Note     *string `json:"note,omitempty" binding:"omitempty,max=500"`
	Priority *int    `json:"priority,omitempty" binding:"omitempty,min=1,max=5"`
	Status   *string `json:"status,omitempty" binding:"omitempty,oneof=want_to_watch watching watched"`
}

// WatchlistStats 想看列表统计
type WatchlistStats struct {
	Total       int64 `json:"total"`
	WantToWatch int64 `json:"want_to_watch"`
	Watching    int64 `json:"watching"`
	Watched     int64 `json:"watched"`
}
