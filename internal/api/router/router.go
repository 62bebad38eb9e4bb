package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/config"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/internal/api/handler"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/internal/api/middleware"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/internal/model"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/pkg/jwt"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证；登录接口限流抑制口令爆破）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 请假模块（主体类型约束在 Service 层二次裁决）
			leaves := authorized.Group("/leaves")
			{
				leaves.POST("", middleware.KindAuth(model.KindStudent, model.KindFaculty), h.Leave.Submit)
				leaves.GET("/mine", middleware.KindAuth(model.KindStudent, model.KindFaculty), h.Leave.ListMine)
				leaves.GET("/calendar.ics", middleware.KindAuth(model.KindStudent, model.KindFaculty), h.Leave.Calendar)
				leaves.POST("/decision", middleware.KindAuth(model.KindFaculty, model.KindAdmin), h.Leave.Decide)
				leaves.GET("/queue", middleware.KindAuth(model.KindFaculty, model.KindAdmin), h.Leave.Queue)
				leaves.GET("/stats", h.Leave.Stats)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/leaves", middleware.KindAuth(model.KindFaculty, model.KindAdmin), h.Export.ExportLeaves)
			}
		}
	}

	return r
}
