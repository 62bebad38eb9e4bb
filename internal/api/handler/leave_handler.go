package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/internal/dto"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/internal/service"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/pkg/response"
)

// LeaveHandler 请假模块 HTTP 处理器
type LeaveHandler struct {
	leaveSvc    service.LeaveService
	calendarSvc service.CalendarService
}

// NewLeaveHandler 创建 LeaveHandler
func NewLeaveHandler(leaveSvc service.LeaveService, calendarSvc service.CalendarService) *LeaveHandler {
	return &LeaveHandler{leaveSvc: leaveSvc, calendarSvc: calendarSvc}
}

// Submit 提交请假单
// POST /api/v1/leaves
func (h *LeaveHandler) Submit(c *gin.Context) {
	session, ok := MustGetSession(c)
	if !ok {
		return
	}

	var req dto.SubmitLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	result, err := h.leaveSvc.Submit(c.Request.Context(), session, &req)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}

	response.Created(c, result)
}

// Decide 审批请假单
// POST /api/v1/leaves/decision
func (h *LeaveHandler) Decide(c *gin.Context) {
	session, ok := MustGetSession(c)
	if !ok {
		return
	}

	var req dto.DecideLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	result, err := h.leaveSvc.Decide(c.Request.Context(), session, &req)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}

	response.OK(c, result)
}

// ListMine 提交人视角的请假单历史
// GET /api/v1/leaves/mine
func (h *LeaveHandler) ListMine(c *gin.Context) {
	session, ok := MustGetSession(c)
	if !ok {
		return
	}

	result, err := h.leaveSvc.ListForSubmitter(c.Request.Context(), session)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}

	response.OK(c, result)
}

// Queue 审批人视角的请假单队列
// GET /api/v1/leaves/queue
func (h *LeaveHandler) Queue(c *gin.Context) {
	session, ok := MustGetSession(c)
	if !ok {
		return
	}

	result, err := h.leaveSvc.ApproverQueue(c.Request.Context(), session)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}

	response.OK(c, result)
}

// Stats 仪表盘统计
// GET /api/v1/leaves/stats
func (h *LeaveHandler) Stats(c *gin.Context) {
	session, ok := MustGetSession(c)
	if !ok {
		return
	}

	result, err := h.leaveSvc.Stats(c.Request.Context(), session)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Calendar 已批准请假单的 iCalendar 订阅
// GET /api/v1/leaves/calendar.ics
func (h *LeaveHandler) Calendar(c *gin.Context) {
	session, ok := MustGetSession(c)
	if !ok {
		return
	}

	ics, err := h.calendarSvc.ApprovedLeaves(c.Request.Context(), session)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="leaves.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(ics))
}

// handleLeaveError 请假模块业务错误到 HTTP 响应的映射
func (h *LeaveHandler) handleLeaveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSubmitterOnly):
		response.Forbidden(c, 12001, "only students and faculty can perform this action")
	case errors.Is(err, service.ErrDeciderOnly):
		response.Forbidden(c, 12002, "only faculty and admins can perform this action")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 12003, "invalid date, expected YYYY-MM-DD")
	case errors.Is(err, service.ErrPastDate):
		response.BadRequest(c, 12004, "leave cannot start in the past")
	case errors.Is(err, service.ErrInvalidDays):
		response.BadRequest(c, 12005, "days must be a positive integer")
	case errors.Is(err, service.ErrInvalidCategory):
		response.BadRequest(c, 12006, "category must be Sick, Personal or Other")
	case errors.Is(err, service.ErrNoApprover):
		response.Error(c, http.StatusUnprocessableEntity, 12007, "no approver available for this request")
	case errors.Is(err, service.ErrDuplicateOpen):
		response.Conflict(c, 12008, "a pending request for this date already exists")
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, 12009, "leave request not found")
	case errors.Is(err, service.ErrAlreadyDecided):
		response.Conflict(c, 12010, "leave request has already been decided")
	case errors.Is(err, service.ErrInvalidOutcome):
		response.BadRequest(c, 12011, "outcome must be Approved or Rejected")
	default:
		response.InternalError(c)
	}
}
