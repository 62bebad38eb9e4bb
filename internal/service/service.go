package service

import (
	"go.uber.org/zap"

	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/config"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/internal/repository"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/pkg/jwt"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/pkg/notify"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth     AuthService
	Leave    LeaveService
	Export   ExportService
	Calendar CalendarService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	notifier notify.Notifier,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:     NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		Leave:    NewLeaveService(cfg, repo, notifier, logger),
		Export:   NewExportService(repo, logger),
		Calendar: NewCalendarService(repo, logger),
	}
}
