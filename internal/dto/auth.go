package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求
// 用户名在三类主体（管理员 / 学生 / 导师）中按固定优先级解析
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest 刷新 Token 请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenResponse Token 对响应
type TokenResponse struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	ExpiresIn    int     `json:"expires_in"` // Access Token 有效期（秒）
	Session      Session `json:"session"`
}
