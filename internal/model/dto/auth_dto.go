package dto

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=32"`
}

// RegisterResponse 注册响应
type RegisterResponse struct {
	UserID int64  `json:"user_id"`
	Token  string `json:"token"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token string    `json:"token"`
	User  *UserInfo `json:"user"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=32"`
}

// ForgotPasswordRequest 忘记密码请求
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest 重置密码请求
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=32"`
}

// UserInfo 用户信息（返回给前端）
type UserInfo struct {
	ID               int64  `json:"id"`
	Username         string `json:"username"`
	Email            string `json:"email,omitempty"`
	Role             string `json:"role"`
	AvatarURL        string `json:"avatar_url"`
	PreferredQuality string `json:"preferred_quality"`
	CreatedAt        string `json:"created_at,omitempty"`
}

// UpdateProfileRequest 更新用户信息请求
type UpdateProfileRequest struct {
	Username         *string `json:"username,omitempty" binding:"omitempty,min=3,max=50"`
	AvatarURL        *string `json:"avatar_url,omitempty" binding:"omitempty,max=500"`
	PreferredQuality *string `json:"preferred_quality,omitempty" binding:"omitempty,oneof=480p 720p 1080p 4K"`
}

// UserStats 用户统计（管理员）
type UserStats struct {
	Total         int64 `json:"total"`
	Active        int64 `json:"active"`
	Admins        int64 `json:"admins"`
	NewLast30Days int64 `json:"new_last_30_days"`
}

// UpdateRoleRequest 修改用户角色请求（管理员）
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=user admin"`
}
