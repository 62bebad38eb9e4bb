package dto

// DateLayout 请假日期的统一格式
const DateLayout = "2006-01-02"

// ── 请假模块请求 ──

// SubmitLeaveRequest 提交请假单请求
type SubmitLeaveRequest struct {
	FromDate    string `json:"from_date"   binding:"required"`
	Days        int    `json:"days"        binding:"required"`
	Category    string `json:"category"    binding:"required"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

// DecideLeaveRequest 审批请假单请求
// 请假单按 (submitter_id, from_date, 会话主体ID) 组合键定位
type DecideLeaveRequest struct {
	SubmitterID string `json:"submitter_id" binding:"required"`
	FromDate    string `json:"from_date"    binding:"required"`
	Outcome     string `json:"outcome"      binding:"required"` // Approved | Rejected
}

// ── 请假模块响应 ──

// LeaveRequestResponse 请假单信息
type LeaveRequestResponse struct {
	ID            string `json:"id"`
	SubmitterID   string `json:"submitter_id"`
	SubmitterKind string `json:"submitter_kind"`
	SubmitterName string `json:"submitter_name,omitempty"`
	ApproverID    string `json:"approver_id"`
	FromDate      string `json:"from_date"`
	ToDate        string `json:"to_date"`
	Category      string `json:"category"`
	Description   string `json:"description,omitempty"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
	DecidedAt     string `json:"decided_at,omitempty"`
}

// SubmitLeaveResponse 提交结果
// 通知投递失败不影响请假单创建，仅以 warning 附带返回
type SubmitLeaveResponse struct {
	Request  LeaveRequestResponse `json:"request"`
	Notified bool                 `json:"notified"`
	Warning  string               `json:"warning,omitempty"`
}

// DecideLeaveResponse 审批结果
type DecideLeaveResponse struct {
	Status   string `json:"status"`
	Notified bool   `json:"notified"`
	Warning  string `json:"warning,omitempty"`
}

// ApproverQueueResponse 审批人视角的请假单队列
// Pending 为待处理子集，Processed 为已处理历史，两组各按提交时间倒序
type ApproverQueueResponse struct {
	Pending   []LeaveRequestResponse `json:"pending"`
	Processed []LeaveRequestResponse `json:"processed"`
}

// StatusCounts 按状态聚合的数量
type StatusCounts struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

// LeaveStatsResponse 仪表盘聚合
// Submitted: 以提交人身份统计（学生 / 导师）；
// Approvals: 以审批人身份统计（导师 / 管理员）
type LeaveStatsResponse struct {
	Submitted *StatusCounts `json:"submitted,omitempty"`
	Approvals *StatusCounts `json:"approvals,omitempty"`
}
