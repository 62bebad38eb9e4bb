package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/internal/model"
	pkgerrors "github.com/KarthikaJayachandran/Leave-Management-System-for-College/pkg/errors"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/pkg/notify"
)

// errDeliveryStub 模拟后端投递失败时返回的错误
var errDeliveryStub = fmt.Errorf("%w: connection refused", notify.ErrDeliveryFailed)

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students map[string]*model.Student
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]*model.Student)}
}

func (m *mockStudentRepo) GetByRollNo(_ context.Context, rollNo string) (*model.Student, error) {
	if s, ok := m.students[rollNo]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock FacultyRepository ──

type mockFacultyRepo struct {
	faculty map[string]*model.Faculty
}

func newMockFacultyRepo() *mockFacultyRepo {
	return &mockFacultyRepo{faculty: make(map[string]*model.Faculty)}
}

func (m *mockFacultyRepo) GetByTutorID(_ context.Context, tutorID string) (*model.Faculty, error) {
	if f, ok := m.faculty[tutorID]; ok {
		return f, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock AdminRepository ──

type mockAdminRepo struct {
	admins map[string]*model.Admin
}

func newMockAdminRepo() *mockAdminRepo {
	return &mockAdminRepo{admins: make(map[string]*model.Admin)}
}

func (m *mockAdminRepo) GetByAdminID(_ context.Context, adminID string) (*model.Admin, error) {
	if a, ok := m.admins[adminID]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAdminRepo) GetDesignated(_ context.Context) (*model.Admin, error) {
	// 与真实实现一致：按 admin_id 排序取第一条
	var ids []string
	for id := range m.admins {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	sort.Strings(ids)
	return m.admins[ids[0]], nil
}

// ── Mock LeaveRequestRepository ──

// mockLeaveRepo 用互斥锁保证 DecideIfPending 的"读检查 + 写更新"整体原子，
// 语义与真实实现的单条条件 UPDATE 一致，可用于并发审批测试。
type mockLeaveRepo struct {
	mu       sync.Mutex
	requests []*model.LeaveRequest
}

func newMockLeaveRepo() *mockLeaveRepo {
	return &mockLeaveRepo{}
}

func sameDate(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

func (m *mockLeaveRepo) Create(_ context.Context, req *model.LeaveRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.requests {
		if r.SubmitterID == req.SubmitterID &&
			sameDate(r.FromDate, req.FromDate) &&
			r.ApproverID == req.ApproverID &&
			r.Status == model.StatusPending {
			return gorm.ErrDuplicatedKey
		}
	}
	clone := *req
	m.requests = append(m.requests, &clone)
	return nil
}

func (m *mockLeaveRepo) GetByKey(_ context.Context, submitterID string, fromDate time.Time, approverID string) (*model.LeaveRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matches []*model.LeaveRequest
	for _, r := range m.requests {
		if r.SubmitterID == submitterID && sameDate(r.FromDate, fromDate) && r.ApproverID == approverID {
			matches = append(matches, r)
		}
	}
	if len(matches) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	sortByStatus(matches)
	clone := *matches[0]
	return &clone, nil
}

func (m *mockLeaveRepo) ListBySubmitter(_ context.Context, submitterID string) ([]model.LeaveRequest, error) {
	return m.list(func(r *model.LeaveRequest) bool { return r.SubmitterID == submitterID })
}

func (m *mockLeaveRepo) ListByApprover(_ context.Context, approverID string) ([]model.LeaveRequest, error) {
	return m.list(func(r *model.LeaveRequest) bool { return r.ApproverID == approverID })
}

func (m *mockLeaveRepo) list(match func(*model.LeaveRequest) bool) ([]model.LeaveRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ptrs []*model.LeaveRequest
	for _, r := range m.requests {
		if match(r) {
			ptrs = append(ptrs, r)
		}
	}
	sortByStatus(ptrs)
	result := make([]model.LeaveRequest, 0, len(ptrs))
	for _, r := range ptrs {
		result = append(result, *r)
	}
	return result, nil
}

func (m *mockLeaveRepo) CountBySubmitter(_ context.Context, submitterID, status string) (int64, error) {
	return m.count(func(r *model.LeaveRequest) bool { return r.SubmitterID == submitterID }, status)
}

func (m *mockLeaveRepo) CountByApprover(_ context.Context, approverID, status string) (int64, error) {
	return m.count(func(r *model.LeaveRequest) bool { return r.ApproverID == approverID }, status)
}

func (m *mockLeaveRepo) count(match func(*model.LeaveRequest) bool, status string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total int64
	for _, r := range m.requests {
		if match(r) && (status == "" || r.Status == status) {
			total++
		}
	}
	return total, nil
}

func (m *mockLeaveRepo) DecideIfPending(_ context.Context, submitterID string, fromDate time.Time, approverID, newStatus string, decidedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.requests {
		if r.SubmitterID == submitterID &&
			sameDate(r.FromDate, fromDate) &&
			r.ApproverID == approverID &&
			r.Status == model.StatusPending {
			r.Status = newStatus
			t := decidedAt
			r.DecidedAt = &t
			return nil
		}
	}
	return pkgerrors.ErrStatusConflict
}

// sortByStatus 与真实实现的列表排序一致：Pending → Approved → Rejected，组内按提交时间倒序
func sortByStatus(reqs []*model.LeaveRequest) {
	rank := map[string]int{
		model.StatusPending:  1,
		model.StatusApproved: 2,
		model.StatusRejected: 3,
	}
	sort.SliceStable(reqs, func(i, j int) bool {
		ri, rj := rank[reqs[i].Status], rank[reqs[j].Status]
		if ri != rj {
			return ri < rj
		}
		return reqs[i].CreatedAt.After(reqs[j].CreatedAt)
	})
}

// ── Mock Notifier ──

// mockNotifier 记录投递内容；fail=true 时模拟投递失败
type mockNotifier struct {
	mu   sync.Mutex
	fail bool
	sent []mockNotice
}

type mockNotice struct {
	Recipient string
	Subject   string
	Body      string
}

func (m *mockNotifier) Notify(_ context.Context, recipient, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errDeliveryStub
	}
	m.sent = append(m.sent, mockNotice{Recipient: recipient, Subject: subject, Body: body})
	return nil
}
