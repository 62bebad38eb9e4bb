package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/config"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/internal/api/handler"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/internal/api/router"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/internal/repository"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/internal/service"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/pkg/database"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/pkg/jwt"
	applogger "github.com/KarthikaJayachandran/Leave-Management-System-for-College/pkg/logger"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/pkg/notify"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，Token 黑名单与限流功能将不可用", zap.Error(err))
		rdb = nil
	}

	// 5. 初始化 JWT 管理器与通知后端
	jwtMgr := jwt.NewManager(&cfg.Auth)
	notifier := buildNotifier(cfg, logger)

	// 6. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, rdb, notifier, logger)
	h := handler.NewHandler(svc)

	// 7. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 8. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	if kn, ok := notifier.(*notify.KafkaNotifier); ok {
		if err := kn.Close(); err != nil {
			logger.Error("关闭 Kafka Writer 异常", zap.Error(err))
		}
	}

	// 关闭数据库连接
	closeDB, _ := db.DB()
	if closeDB != nil {
		closeDB.Close()
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}

// buildNotifier 按配置选择通知后端
func buildNotifier(cfg *config.Config, logger *zap.Logger) notify.Notifier {
	switch cfg.Notify.Backend {
	case "smtp":
		return notify.NewSMTPNotifier(cfg.Notify.SMTP, cfg.Notify.Timeout, logger)
	case "kafka":
		return notify.NewKafkaNotifier(cfg.Notify.Kafka, cfg.Notify.Timeout, logger)
	default:
		logger.Warn("通知后端已关闭，所有通知视为投递成功")
		return notify.Noop{}
	}
}
