package handler

import "github.com/KarthikaJayachandran/Leave-Management-System-for-College/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth   *AuthHandler
	Leave  *LeaveHandler
	Export *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:   NewAuthHandler(svc.Auth),
		Leave:  NewLeaveHandler(svc.Leave, svc.Calendar),
		Export: NewExportHandler(svc.Export),
	}
}
