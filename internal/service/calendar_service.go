package service

import (
	"context"
	"fmt"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/internal/dto"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/internal/model"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/internal/repository"
)

// CalendarService 日历订阅接口
//
// 提交人可把自己已批准的请假单订阅为 iCalendar (.ics) 全天事件，
// 导入常用日历客户端。未决与已驳回的请假单不出现在订阅里。
type CalendarService interface {
	// ApprovedLeaves 生成已批准请假单的 .ics 内容
	ApprovedLeaves(ctx context.Context, session *dto.Session) (string, error)
}

type calendarService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(repo *repository.Repository, logger *zap.Logger) CalendarService {
	return &calendarService{repo: repo, logger: logger}
}

func (s *calendarService) ApprovedLeaves(ctx context.Context, session *dto.Session) (string, error) {
	if !session.CanSubmit() {
		return "", ErrSubmitterOnly
	}

	records, err := s.repo.Leave.ListBySubmitter(ctx, session.ID)
	if err != nil {
		s.logger.Error("查询请假单失败", zap.Error(err))
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//college-leave//EN")
	cal.SetName(fmt.Sprintf("Leaves of %s", session.Name))

	for i := range records {
		r := &records[i]
		if r.Status != model.StatusApproved {
			continue
		}
		event := cal.AddEvent(r.LeaveRequestID)
		event.SetAllDayStartAt(r.FromDate)
		// DTEND 为独占边界，全天事件需加一天
		event.SetAllDayEndAt(r.ToDate.AddDate(0, 0, 1))
		event.SetSummary(fmt.Sprintf("%s leave", r.Category))
		if r.Description != "" {
			event.SetDescription(r.Description)
		}
		event.SetDtStampTime(r.CreatedAt)
		if r.DecidedAt != nil {
			event.SetModifiedAt(*r.DecidedAt)
		}
	}

	return cal.Serialize(), nil
}
