package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/internal/dto"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/internal/model"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/internal/repository"
)

func setupTestCalendarService(f *leaveFixture) CalendarService {
	repo := &repository.Repository{
		Student: f.students,
		Faculty: f.faculty,
		Admin:   f.admins,
		Leave:   f.leaves,
	}
	return NewCalendarService(repo, zap.NewNop())
}

func TestApprovedLeaves_OnlyApprovedAppear(t *testing.T) {
	f := setupTestLeaveService()
	day1 := time.Now().AddDate(0, 0, 1).Format(dto.DateLayout)
	day2 := time.Now().AddDate(0, 0, 5).Format(dto.DateLayout)
	day3 := time.Now().AddDate(0, 0, 10).Format(dto.DateLayout)
	mustSubmit(t, f, studentSession(), day1)
	mustSubmit(t, f, studentSession(), day2)
	mustSubmit(t, f, studentSession(), day3)

	// day1 批准、day2 驳回、day3 未决
	for date, outcome := range map[string]string{
		day1: model.StatusApproved,
		day2: model.StatusRejected,
	} {
		if _, err := f.svc.Decide(context.Background(), facultySession(), &dto.DecideLeaveRequest{
			SubmitterID: "CS2021001", FromDate: date, Outcome: outcome,
		}); err != nil {
			t.Fatalf("预置审批失败: %v", err)
		}
	}

	svc := setupTestCalendarService(f)
	ics, err := svc.ApprovedLeaves(context.Background(), studentSession())
	if err != nil {
		t.Fatalf("ApprovedLeaves 失败: %v", err)
	}

	if !strings.Contains(ics, "BEGIN:VCALENDAR") || !strings.Contains(ics, "END:VCALENDAR") {
		t.Error("输出应为合法的 VCALENDAR")
	}
	if got := strings.Count(ics, "BEGIN:VEVENT"); got != 1 {
		t.Errorf("仅已批准的请假单应出现在日历中，期望 1 个事件，实际=%d", got)
	}
	if !strings.Contains(ics, "SUMMARY:Sick leave") {
		t.Error("事件摘要应包含请假类别")
	}
}

func TestApprovedLeaves_AllDayDates(t *testing.T) {
	f := setupTestLeaveService()
	mustSubmit(t, f, studentSession(), tomorrow())
	if _, err := f.svc.Decide(context.Background(), facultySession(), &dto.DecideLeaveRequest{
		SubmitterID: "CS2021001", FromDate: tomorrow(), Outcome: model.StatusApproved,
	}); err != nil {
		t.Fatalf("预置审批失败: %v", err)
	}

	svc := setupTestCalendarService(f)
	ics, err := svc.ApprovedLeaves(context.Background(), studentSession())
	if err != nil {
		t.Fatalf("ApprovedLeaves 失败: %v", err)
	}

	// days=2：DTSTART 为起始日，DTEND 为结束日次日（独占边界）
	start := time.Now().AddDate(0, 0, 1).Format("20060102")
	end := time.Now().AddDate(0, 0, 3).Format("20060102")
	if !strings.Contains(ics, "DTSTART;VALUE=DATE:"+start) {
		t.Errorf("DTSTART 应为 %s，输出:\n%s", start, ics)
	}
	if !strings.Contains(ics, "DTEND;VALUE=DATE:"+end) {
		t.Errorf("DTEND 应为 %s（独占边界），输出:\n%s", end, ics)
	}
}

func TestApprovedLeaves_Empty(t *testing.T) {
	f := setupTestLeaveService()
	svc := setupTestCalendarService(f)

	ics, err := svc.ApprovedLeaves(context.Background(), studentSession())
	if err != nil {
		t.Fatalf("空日历也应生成成功: %v", err)
	}
	if strings.Contains(ics, "BEGIN:VEVENT") {
		t.Error("无已批准请假单时不应有事件")
	}
}

func TestApprovedLeaves_AdminForbidden(t *testing.T) {
	f := setupTestLeaveService()
	svc := setupTestCalendarService(f)

	if _, err := svc.ApprovedLeaves(context.Background(), adminSession()); !errors.Is(err, ErrSubmitterOnly) {
		t.Errorf("期望 ErrSubmitterOnly，实际=%v", err)
	}
}
