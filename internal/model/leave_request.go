package model

import "time"

// 请假单状态：Pending 为初始态，Approved / Rejected 均为终态，
// 终态记录不可再变更（审计留痕，核心不提供删除）。
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

// 请假类别（闭合枚举）
const (
	CategorySick     = "Sick"
	CategoryPersonal = "Personal"
	CategoryOther    = "Other"
)

// ValidCategory 判断类别是否属于闭合枚举
func ValidCategory(c string) bool {
	switch c {
	case CategorySick, CategoryPersonal, CategoryOther:
		return true
	}
	return false
}

// LeaveRequest 请假单表，对应 leave_requests
//
// 学生与导师的请假单共用一张表，由 submitter_kind 区分；
// approver_id 在提交时快照（学生 → 其导师，导师 → 管理员），之后不再重算。
// (submitter_id, from_date, approver_id) 在 Pending 状态下唯一，
// 审批操作按该组合键重新定位请假单。
type LeaveRequest struct {
	LeaveRequestID string     `gorm:"type:uuid;primaryKey"                        json:"leave_request_id"`
	SubmitterID    string     `gorm:"type:varchar(20);not null;index"             json:"submitter_id"`
	SubmitterKind  string     `gorm:"type:varchar(10);not null"                   json:"submitter_kind"` // student | faculty
	ApproverID     string     `gorm:"type:varchar(20);not null;index"             json:"approver_id"`
	FromDate       time.Time  `gorm:"type:date;not null"                          json:"from_date"`
	ToDate         time.Time  `gorm:"type:date;not null"                          json:"to_date"`
	Category       string     `gorm:"type:varchar(20);not null"                   json:"category"`
	Description    string     `gorm:"type:varchar(500)"                           json:"description,omitempty"`
	Status         string     `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	DecidedAt      *time.Time `json:"decided_at,omitempty"`
	CreatedAt      time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"          json:"created_at"`
}

// TableName 指定表名
func (LeaveRequest) TableName() string { return "leave_requests" }

// Decided 是否已进入终态
func (r *LeaveRequest) Decided() bool { return r.Status != StatusPending }
