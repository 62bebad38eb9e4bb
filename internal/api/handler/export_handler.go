package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/internal/service"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportLeaves 导出审批人名下的请假单
// GET /api/v1/export/leaves
func (h *ExportHandler) ExportLeaves(c *gin.Context) {
	session, ok := MustGetSession(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportApproverHistory(c.Request.Context(), session)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDeciderOnly):
		response.Forbidden(c, 13001, "only faculty and admins can export leave requests")
	case errors.Is(err, service.ErrExportNoRequests):
		response.NotFound(c, 13002, "no leave requests to export")
	default:
		response.InternalError(c)
	}
}
