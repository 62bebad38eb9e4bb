package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/internal/api/middleware"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/internal/dto"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/pkg/response"
)

// MustGetSession 从 Gin 上下文中安全提取会话。
// 如果 JWT 中间件未正确注入会话，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetSession(c *gin.Context) (*dto.Session, bool) {
	v, exists := c.Get(middleware.SessionKey)
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return nil, false
	}
	session, ok := v.(*dto.Session)
	if !ok || session.ID == "" {
		response.Unauthorized(c, 10002, "not authenticated")
		return nil, false
	}
	return session, true
}
