package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/internal/model"
	pkgerrors "github.com/KarthikaJayachandran/Leave-Management-System-for-College/pkg/errors"
)

const dateLayout = "2006-01-02"

// 列表统一排序：未决在前，已批准次之，已驳回最后；组内按提交时间倒序
const statusOrderExpr = "CASE status " +
	"WHEN 'Pending' THEN 1 " +
	"WHEN 'Approved' THEN 2 " +
	"WHEN 'Rejected' THEN 3 " +
	"ELSE 4 END, created_at DESC"

// LeaveRequestRepository 请假单数据访问接口
// 请假单只增不删（审计留痕）；状态变更仅通过 DecideIfPending 的条件更新
type LeaveRequestRepository interface {
	Create(ctx context.Context, req *model.LeaveRequest) error
	// GetByKey 按 (submitter_id, from_date, approver_id) 组合键查询
	GetByKey(ctx context.Context, submitterID string, fromDate time.Time, approverID string) (*model.LeaveRequest, error)
	ListBySubmitter(ctx context.Context, submitterID string) ([]model.LeaveRequest, error)
	ListByApprover(ctx context.Context, approverID string) ([]model.LeaveRequest, error)
	CountBySubmitter(ctx context.Context, submitterID, status string) (int64, error)
	CountByApprover(ctx context.Context, approverID, status string) (int64, error)
	// DecideIfPending 单条条件更新："status 仍为 Pending 且组合键匹配时置为 newStatus"。
	// 读检查与写更新为同一原子操作；未命中任何行返回 ErrStatusConflict。
	DecideIfPending(ctx context.Context, submitterID string, fromDate time.Time, approverID, newStatus string, decidedAt time.Time) error
}

// leaveRequestRepo LeaveRequestRepository 的 GORM 实现
type leaveRequestRepo struct {
	db *gorm.DB
}

// NewLeaveRequestRepo 创建 LeaveRequestRepository 实例
func NewLeaveRequestRepo(db *gorm.DB) LeaveRequestRepository {
	return &leaveRequestRepo{db: db}
}

func (r *leaveRequestRepo) Create(ctx context.Context, req *model.LeaveRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *leaveRequestRepo) GetByKey(ctx context.Context, submitterID string, fromDate time.Time, approverID string) (*model.LeaveRequest, error) {
	var req model.LeaveRequest
	err := r.db.WithContext(ctx).
		Where("submitter_id = ? AND from_date = ? AND approver_id = ?",
			submitterID, fromDate.Format(dateLayout), approverID).
		Order(statusOrderExpr).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *leaveRequestRepo) ListBySubmitter(ctx context.Context, submitterID string) ([]model.LeaveRequest, error) {
	var reqs []model.LeaveRequest
	err := r.db.WithContext(ctx).
		Where("submitter_id = ?", submitterID).
		Order(statusOrderExpr).
		Find(&reqs).Error
	return reqs, err
}

func (r *leaveRequestRepo) ListByApprover(ctx context.Context, approverID string) ([]model.LeaveRequest, error) {
	var reqs []model.LeaveRequest
	err := r.db.WithContext(ctx).
		Where("approver_id = ?", approverID).
		Order(statusOrderExpr).
		Find(&reqs).Error
	return reqs, err
}

func (r *leaveRequestRepo) CountBySubmitter(ctx context.Context, submitterID, status string) (int64, error) {
	return r.count(ctx, "submitter_id", submitterID, status)
}

func (r *leaveRequestRepo) CountByApprover(ctx context.Context, approverID, status string) (int64, error) {
	return r.count(ctx, "approver_id", approverID, status)
}

func (r *leaveRequestRepo) count(ctx context.Context, ownerColumn, ownerID, status string) (int64, error) {
	var total int64
	db := r.db.WithContext(ctx).
		Model(&model.LeaveRequest{}).
		Where(ownerColumn+" = ?", ownerID)
	if status != "" {
		db = db.Where("status = ?", status)
	}
	err := db.Count(&total).Error
	return total, err
}

func (r *leaveRequestRepo) DecideIfPending(ctx context.Context, submitterID string, fromDate time.Time, approverID, newStatus string, decidedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.LeaveRequest{}).
		Where("submitter_id = ? AND from_date = ? AND approver_id = ? AND status = ?",
			submitterID, fromDate.Format(dateLayout), approverID, model.StatusPending).
		Updates(map[string]interface{}{
			"status":     newStatus,
			"decided_at": decidedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrStatusConflict
	}
	return nil
}
