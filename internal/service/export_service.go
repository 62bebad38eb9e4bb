package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/internal/dto"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/internal/model"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoRequests   = errors.New("no leave requests to export")
	ErrExportGenerateFail = errors.New("failed to generate Excel file")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 审批人（导师 / 管理员）可把名下全部请假单导出为 Excel (.xlsx)
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportApproverHistory 导出审批人名下的请假单为 Excel
	ExportApproverHistory(ctx context.Context, session *dto.Session) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) ExportApproverHistory(ctx context.Context, session *dto.Session) (*bytes.Buffer, string, error) {
	if !session.CanDecide() {
		return nil, "", ErrDeciderOnly
	}

	// 1. 查询名下全部请假单（列表已按状态 + 提交时间排序）
	records, err := s.repo.Leave.ListByApprover(ctx, session.ID)
	if err != nil {
		s.logger.Error("查询请假单失败", zap.Error(err))
		return nil, "", err
	}
	if len(records) == 0 {
		return nil, "", ErrExportNoRequests
	}

	// 2. 解析提交人姓名，同一提交人只查一次
	names := make(map[string]string)
	for i := range records {
		r := &records[i]
		if _, ok := names[r.SubmitterID]; ok {
			continue
		}
		names[r.SubmitterID] = r.SubmitterID
		switch r.SubmitterKind {
		case string(model.KindStudent):
			if st, err := s.repo.Student.GetByRollNo(ctx, r.SubmitterID); err == nil {
				names[r.SubmitterID] = st.Name
			}
		case string(model.KindFaculty):
			if fa, err := s.repo.Faculty.GetByTutorID(ctx, r.SubmitterID); err == nil {
				names[r.SubmitterID] = fa.Name
			}
		}
	}

	// 3. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Leave Requests"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 14)
	f.SetColWidth(sheetName, "B", "B", 20)
	f.SetColWidth(sheetName, "C", "C", 10)
	f.SetColWidth(sheetName, "D", "E", 12)
	f.SetColWidth(sheetName, "F", "F", 10)
	f.SetColWidth(sheetName, "G", "G", 36)
	f.SetColWidth(sheetName, "H", "H", 10)
	f.SetColWidth(sheetName, "I", "J", 20)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	headers := []string{
		"Submitter ID", "Submitter Name", "Kind",
		"From", "To", "Category", "Reason",
		"Status", "Submitted At", "Decided At",
	}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheetName, "A1", cell(colName(len(headers)-1), 1), headerStyle)

	row := 2
	for i := range records {
		r := &records[i]
		decidedAt := "-"
		if r.DecidedAt != nil {
			decidedAt = r.DecidedAt.Format("2006-01-02 15:04")
		}
		values := []interface{}{
			r.SubmitterID,
			names[r.SubmitterID],
			r.SubmitterKind,
			r.FromDate.Format(dto.DateLayout),
			r.ToDate.Format(dto.DateLayout),
			r.Category,
			r.Description,
			r.Status,
			r.CreatedAt.Format("2006-01-02 15:04"),
			decidedAt,
		}
		for col, v := range values {
			f.SetCellValue(sheetName, cell(colName(col), row), v)
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("leave_requests_%s_%s.xlsx", session.ID, time.Now().Format("20060102"))
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
