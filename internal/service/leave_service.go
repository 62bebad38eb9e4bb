package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/config"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/internal/dto"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/internal/model"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/internal/repository"
	pkgerrors "github.com/KarthikaJayachandran/Leave-Management-System-for-College/pkg/errors"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/pkg/notify"
)

var (
	// ErrSubmitterOnly 仅学生与导师可提交请假单
	ErrSubmitterOnly = errors.New("only students and faculty can submit leave requests")
	// ErrDeciderOnly 仅导师与管理员可审批
	ErrDeciderOnly = errors.New("only faculty and admins can decide leave requests")
	// ErrInvalidDate 日期格式非法
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")
	// ErrPastDate 起始日期早于今天（按日历日比较，不含时分秒）
	ErrPastDate = errors.New("leave cannot start in the past")
	// ErrInvalidDays 请假天数必须为正整数
	ErrInvalidDays = errors.New("days must be a positive integer")
	// ErrInvalidCategory 类别不在闭合枚举内
	ErrInvalidCategory = errors.New("invalid leave category")
	// ErrNoApprover 无法解析审批人（导师请假但系统无管理员）
	ErrNoApprover = errors.New("no approver available for this request")
	// ErrDuplicateOpen 同一组合键下已存在未决请假单
	ErrDuplicateOpen = errors.New("a pending request for this date already exists")
	// ErrNotFound 组合键未命中任何请假单
	ErrNotFound = errors.New("leave request not found")
	// ErrAlreadyDecided 请假单已进入终态，不可再审批
	ErrAlreadyDecided = errors.New("leave request has already been decided")
	// ErrInvalidOutcome 审批结论只能是 Approved 或 Rejected
	ErrInvalidOutcome = errors.New("outcome must be Approved or Rejected")
)

// LeaveService 请假工作流接口
//
// 所有操作都要求调用方显式传入 Session；审批人归属、状态迁移等
// 约束在本层裁决，Repository 只负责原子的数据访问。
type LeaveService interface {
	// Submit 提交请假单：校验 → 解析审批人 → 落库 → 尽力通知
	Submit(ctx context.Context, session *dto.Session, req *dto.SubmitLeaveRequest) (*dto.SubmitLeaveResponse, error)
	// Decide 审批请假单：单次条件更新完成 Pending → 终态迁移
	Decide(ctx context.Context, session *dto.Session, req *dto.DecideLeaveRequest) (*dto.DecideLeaveResponse, error)
	// ListForSubmitter 提交人视角的请假单历史
	ListForSubmitter(ctx context.Context, session *dto.Session) ([]dto.LeaveRequestResponse, error)
	// ApproverQueue 审批人视角的队列（待处理 / 已处理分组）
	ApproverQueue(ctx context.Context, session *dto.Session) (*dto.ApproverQueueResponse, error)
	// Stats 仪表盘聚合统计
	Stats(ctx context.Context, session *dto.Session) (*dto.LeaveStatsResponse, error)
}

type leaveService struct {
	cfg      *config.Config
	repo     *repository.Repository
	notifier notify.Notifier
	logger   *zap.Logger
	// now 供测试注入固定时钟
	now func() time.Time
}

// NewLeaveService 创建 LeaveService 实例
func NewLeaveService(
	cfg *config.Config,
	repo *repository.Repository,
	notifier notify.Notifier,
	logger *zap.Logger,
) LeaveService {
	return &leaveService{
		cfg:      cfg,
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *leaveService) Submit(ctx context.Context, session *dto.Session, req *dto.SubmitLeaveRequest) (*dto.SubmitLeaveResponse, error) {
	if !session.CanSubmit() {
		return nil, ErrSubmitterOnly
	}

	fromDate, err := time.ParseInLocation(dto.DateLayout, req.FromDate, time.Local)
	if err != nil {
		return nil, ErrInvalidDate
	}
	// 按日历日比较：当天提交当天生效合法
	today := truncateToDate(s.now())
	if fromDate.Before(today) {
		return nil, ErrPastDate
	}
	if req.Days < 1 {
		return nil, ErrInvalidDays
	}
	if !model.ValidCategory(req.Category) {
		return nil, ErrInvalidCategory
	}
	// days=1 即单日请假，to_date 与 from_date 同日
	toDate := fromDate.AddDate(0, 0, req.Days-1)

	approverID, approverEmail, approverName, err := s.resolveApprover(ctx, session)
	if err != nil {
		return nil, err
	}

	// 提交前查重，把数据库唯一约束的违例转成明确的业务错误
	existing, err := s.repo.Leave.GetByKey(ctx, session.ID, fromDate, approverID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询既有请假单失败", zap.Error(err))
		return nil, err
	}
	if existing != nil && !existing.Decided() {
		return nil, ErrDuplicateOpen
	}

	record := &model.LeaveRequest{
		LeaveRequestID: uuid.New().String(),
		SubmitterID:    session.ID,
		SubmitterKind:  string(session.Kind),
		ApproverID:     approverID,
		FromDate:       fromDate,
		ToDate:         toDate,
		Category:       req.Category,
		Description:    req.Description,
		Status:         model.StatusPending,
		CreatedAt:      s.now(),
	}
	if err := s.repo.Leave.Create(ctx, record); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateOpen
		}
		s.logger.Error("创建请假单失败",
			zap.String("submitter_id", session.ID),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("请假单已创建",
		zap.String("leave_request_id", record.LeaveRequestID),
		zap.String("submitter_id", session.ID),
		zap.String("approver_id", approverID))

	resp := &dto.SubmitLeaveResponse{
		Request:  toLeaveResponse(record, session.Name),
		Notified: true,
	}

	// 落库之后才通知；投递失败只附带警告，不回滚
	subject := fmt.Sprintf("New leave request from %s", session.Name)
	body := fmt.Sprintf(
		"Dear %s,\n\n%s (%s) has submitted a leave request.\n\nFrom: %s\nTo: %s\nCategory: %s\nReason: %s\n\nPlease log in to review it.",
		approverName, session.Name, session.ID,
		fromDate.Format(dto.DateLayout), toDate.Format(dto.DateLayout),
		req.Category, req.Description,
	)
	if err := s.deliver(ctx, approverEmail, subject, body); err != nil {
		resp.Notified = false
		resp.Warning = "request saved, but the approver could not be notified"
	}

	return resp, nil
}

// resolveApprover 解析审批人：学生 → 会话快照里的导师；导师 → 指定管理员
func (s *leaveService) resolveApprover(ctx context.Context, session *dto.Session) (id, email, name string, err error) {
	switch session.Kind {
	case model.KindStudent:
		if session.TutorID == "" {
			return "", "", "", ErrNoApprover
		}
		tutor, err := s.repo.Faculty.GetByTutorID(ctx, session.TutorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", "", "", ErrNoApprover
			}
			s.logger.Error("查询导师失败", zap.Error(err))
			return "", "", "", err
		}
		return tutor.TutorID, tutor.Email, tutor.Name, nil
	case model.KindFaculty:
		admin, err := s.repo.Admin.GetDesignated(ctx)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", "", "", ErrNoApprover
			}
			s.logger.Error("查询管理员失败", zap.Error(err))
			return "", "", "", err
		}
		return admin.AdminID, admin.Email, admin.Name, nil
	default:
		return "", "", "", ErrSubmitterOnly
	}
}

func (s *leaveService) Decide(ctx context.Context, session *dto.Session, req *dto.DecideLeaveRequest) (*dto.DecideLeaveResponse, error) {
	if !session.CanDecide() {
		return nil, ErrDeciderOnly
	}
	if req.Outcome != model.StatusApproved && req.Outcome != model.StatusRejected {
		return nil, ErrInvalidOutcome
	}
	fromDate, err := time.ParseInLocation(dto.DateLayout, req.FromDate, time.Local)
	if err != nil {
		return nil, ErrInvalidDate
	}

	// 先读一次用于区分"不存在"与"已终态"，以及拿到提交人信息；
	// 真正的状态迁移仍只依赖下方的条件更新
	record, err := s.repo.Leave.GetByKey(ctx, req.SubmitterID, fromDate, session.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		s.logger.Error("查询请假单失败", zap.Error(err))
		return nil, err
	}
	if record.Decided() {
		return nil, ErrAlreadyDecided
	}

	decidedAt := s.now()
	if err := s.repo.Leave.DecideIfPending(ctx, req.SubmitterID, fromDate, session.ID, req.Outcome, decidedAt); err != nil {
		if errors.Is(err, pkgerrors.ErrStatusConflict) {
			// 并发审批：另一端已先完成终态迁移
			return nil, ErrAlreadyDecided
		}
		s.logger.Error("更新请假单状态失败",
			zap.String("submitter_id", req.SubmitterID),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("请假单已审批",
		zap.String("leave_request_id", record.LeaveRequestID),
		zap.String("outcome", req.Outcome),
		zap.String("approver_id", session.ID))

	resp := &dto.DecideLeaveResponse{Status: req.Outcome, Notified: true}

	submitterName, submitterEmail := s.lookupSubmitter(ctx, record.SubmitterKind, record.SubmitterID)
	subject := fmt.Sprintf("Your leave request has been %s", strings.ToLower(req.Outcome))
	body := fmt.Sprintf(
		"Dear %s,\n\nYour leave request from %s to %s has been %s by %s.",
		submitterName,
		record.FromDate.Format(dto.DateLayout), record.ToDate.Format(dto.DateLayout),
		strings.ToLower(req.Outcome), session.Name,
	)
	if err := s.deliver(ctx, submitterEmail, subject, body); err != nil {
		resp.Notified = false
		resp.Warning = "decision saved, but the submitter could not be notified"
	}

	return resp, nil
}

func (s *leaveService) ListForSubmitter(ctx context.Context, session *dto.Session) ([]dto.LeaveRequestResponse, error) {
	if !session.CanSubmit() {
		return nil, ErrSubmitterOnly
	}
	records, err := s.repo.Leave.ListBySubmitter(ctx, session.ID)
	if err != nil {
		s.logger.Error("查询请假单列表失败", zap.Error(err))
		return nil, err
	}
	resp := make([]dto.LeaveRequestResponse, 0, len(records))
	for i := range records {
		resp = append(resp, toLeaveResponse(&records[i], session.Name))
	}
	return resp, nil
}

func (s *leaveService) ApproverQueue(ctx context.Context, session *dto.Session) (*dto.ApproverQueueResponse, error) {
	if !session.CanDecide() {
		return nil, ErrDeciderOnly
	}
	records, err := s.repo.Leave.ListByApprover(ctx, session.ID)
	if err != nil {
		s.logger.Error("查询审批队列失败", zap.Error(err))
		return nil, err
	}

	// 提交人姓名按需解析，同一提交人只查一次
	names := make(map[string]string)
	resp := &dto.ApproverQueueResponse{
		Pending:   []dto.LeaveRequestResponse{},
		Processed: []dto.LeaveRequestResponse{},
	}
	for i := range records {
		r := &records[i]
		name, ok := names[r.SubmitterID]
		if !ok {
			name, _ = s.lookupSubmitter(ctx, r.SubmitterKind, r.SubmitterID)
			names[r.SubmitterID] = name
		}
		item := toLeaveResponse(r, name)
		if r.Decided() {
			resp.Processed = append(resp.Processed, item)
		} else {
			resp.Pending = append(resp.Pending, item)
		}
	}
	return resp, nil
}

func (s *leaveService) Stats(ctx context.Context, session *dto.Session) (*dto.LeaveStatsResponse, error) {
	resp := &dto.LeaveStatsResponse{}

	if session.CanSubmit() {
		counts, err := s.statusCounts(ctx, session.ID, s.repo.Leave.CountBySubmitter)
		if err != nil {
			return nil, err
		}
		resp.Submitted = counts
	}
	if session.CanDecide() {
		counts, err := s.statusCounts(ctx, session.ID, s.repo.Leave.CountByApprover)
		if err != nil {
			return nil, err
		}
		resp.Approvals = counts
	}
	return resp, nil
}

func (s *leaveService) statusCounts(
	ctx context.Context,
	ownerID string,
	count func(ctx context.Context, ownerID, status string) (int64, error),
) (*dto.StatusCounts, error) {
	counts := &dto.StatusCounts{}
	var err error
	if counts.Total, err = count(ctx, ownerID, ""); err != nil {
		s.logger.Error("统计请假单失败", zap.Error(err))
		return nil, err
	}
	if counts.Pending, err = count(ctx, ownerID, model.StatusPending); err != nil {
		return nil, err
	}
	if counts.Approved, err = count(ctx, ownerID, model.StatusApproved); err != nil {
		return nil, err
	}
	if counts.Rejected, err = count(ctx, ownerID, model.StatusRejected); err != nil {
		return nil, err
	}
	return counts, nil
}

// deliver 带有界超时投递通知；失败仅记录日志并返回错误供调用方降级
func (s *leaveService) deliver(ctx context.Context, recipient, subject, body string) error {
	timeout := s.cfg.Notify.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	nctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.notifier.Notify(nctx, recipient, subject, body); err != nil {
		s.logger.Warn("通知投递失败",
			zap.String("recipient", recipient),
			zap.Error(err))
		return err
	}
	return nil
}

// lookupSubmitter 解析提交人的姓名与邮箱；查询失败时退回 ID 作为姓名
func (s *leaveService) lookupSubmitter(ctx context.Context, kind, id string) (name, email string) {
	switch kind {
	case string(model.KindStudent):
		if student, err := s.repo.Student.GetByRollNo(ctx, id); err == nil {
			return student.Name, student.Email
		}
	case string(model.KindFaculty):
		if faculty, err := s.repo.Faculty.GetByTutorID(ctx, id); err == nil {
			return faculty.Name, faculty.Email
		}
	}
	return id, ""
}

// toLeaveResponse 模型转响应
func toLeaveResponse(r *model.LeaveRequest, submitterName string) dto.LeaveRequestResponse {
	resp := dto.LeaveRequestResponse{
		ID:            r.LeaveRequestID,
		SubmitterID:   r.SubmitterID,
		SubmitterKind: r.SubmitterKind,
		SubmitterName: submitterName,
		ApproverID:    r.ApproverID,
		FromDate:      r.FromDate.Format(dto.DateLayout),
		ToDate:        r.ToDate.Format(dto.DateLayout),
		Category:      r.Category,
		Description:   r.Description,
		Status:        r.Status,
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
	}
	if r.DecidedAt != nil {
		resp.DecidedAt = r.DecidedAt.Format(time.RFC3339)
	}
	return resp
}

// truncateToDate 去掉时分秒，保留本地日历日
func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
