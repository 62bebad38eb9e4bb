package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/internal/dto"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/internal/model"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/pkg/jwt"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/pkg/redis"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/pkg/response"
)

// SessionKey 认证中间件注入会话的上下文键
const SessionKey = "session"

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取并验证 Access Token，
// 将完整的身份快照还原为 dto.Session 注入上下文。
// rdb 为 nil 时跳过黑名单检查（Redis 降级运行）
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "invalid authorization header")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "invalid or expired token")
			c.Abort()
			return
		}

		if claims.TokenType != "access" {
			response.Unauthorized(c, 10002, "invalid token type")
			c.Abort()
			return
		}

		if rdb != nil {
			if revoked, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID); err == nil && revoked {
				response.Unauthorized(c, 10002, "token has been revoked")
				c.Abort()
				return
			}
			// Redis 出错时降级放行
		}

		// 会话由 Token 声明整体还原，后续处理不再回查数据库
		c.Set(SessionKey, &dto.Session{
			Kind:      model.PrincipalKind(claims.Kind),
			ID:        claims.PrincipalID,
			Name:      claims.Name,
			Dept:      claims.Dept,
			Email:     claims.Email,
			TutorID:   claims.TutorID,
			TutorName: claims.TutorName,
		})
		// 登出时需要吊销当前 Token
		c.Set("token_jti", claims.ID)
		c.Set("token_exp", claims.ExpiresAt.Time)

		c.Next()
	}
}

// KindAuth 主体类型权限中间件
// 检查当前会话是否属于指定主体类型之一
func KindAuth(allowed ...model.PrincipalKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(SessionKey)
		if !exists {
			response.Unauthorized(c, 10002, "not authenticated")
			c.Abort()
			return
		}

		session := v.(*dto.Session)
		for _, kind := range allowed {
			if session.Kind == kind {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "access denied")
		c.Abort()
	}
}
