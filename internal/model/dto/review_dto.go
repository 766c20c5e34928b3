package dto

import (
	"github.com/qs3c/movie_go_server/internal/model"
)

// CreateReviewRequest 创建评论请求
type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Title   string `json:"title" binding:"required,max=100"`
	Comment string `json:"comment" binding:"required,max=1000"`
}

// UpdateReviewRequest 更新评论请求
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating,omitempty"`
	Title   *string `json:"title,omitempty" binding:"omitempty,max=100"`
	Comment *string `json:"comment,omitempty" binding:"omitempty,max=1000"`
}

// ReviewListRequest 影片评论列表请求参数
type ReviewListRequest struct {
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=10"`
	Sort     string `form:"sort,default=latest"` // latest, helpful, rating
}

// RatingStats 影片评分分布
type RatingStats struct {
	Average      float64       `json:"average"`
	Count        int64         `json:"count"`
	Distribution map[int]int64 `json:"distribution"` // rating -> 数量
}

// HelpfulResponse 点有用响应
type HelpfulResponse struct {
	Helpful      bool `json:"helpful"`
	HelpfulCount int  `json:"helpful_count"`
}

// CheckReviewedResponse 当前用户是否已评论过某影片
type CheckReviewedResponse struct {
	Reviewed bool          `json:"reviewed"`
	Review   *model.Review `json:"review,omitempty"`
}

// ModerateReviewRequest 评论审核请求（管理员）
type ModerateReviewRequest struct {
	Status string `json:"status" binding:"required,oneof=active hidden"`
}
