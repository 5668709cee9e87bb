package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jfuerlinger/DrugManagement/internal/dto"
	"github.com/jfuerlinger/DrugManagement/internal/model"
	"github.com/jfuerlinger/DrugManagement/internal/repository"
)

// ── 报表模块业务错误 ──

var (
	ErrReportNotFound     = errors.New("报表不存在")
	ErrReportNotReady     = errors.New("报表尚未生成完成")
	ErrReportGenerateFail = errors.New("生成 Excel 文件失败")
)

const reportRenderTimeout = 5 * time.Minute

// ReportEnqueuer 报表任务投递
type ReportEnqueuer interface {
	EnqueueDrugReport(ctx context.Context, reportID string) error
}

// ReportService 药品报表业务接口
//
// Generate 只登记任务；渲染由 worker 调用 Render 完成，
// 未配置队列时在进程内异步渲染。
type ReportService interface {
	Generate(ctx context.Context) (*dto.ReportResponse, error)
	Render(ctx context.Context, reportID string) error
	Status(ctx context.Context, id string) (*dto.ReportResponse, error)
	Download(ctx context.Context, id string) (*dto.ReportFile, error)
}

type reportService struct {
	repo     *repository.Repository
	enqueuer ReportEnqueuer
	now      func() time.Time
	logger   *zap.Logger
}

// NewReportService 创建 ReportService 实例，enqueuer 可为 nil
func NewReportService(repo *repository.Repository, enqueuer ReportEnqueuer, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, enqueuer: enqueuer, now: time.Now, logger: logger}
}

// ────────────────────── Generate ──────────────────────

func (s *reportService) Generate(ctx context.Context) (*dto.ReportResponse, error) {
	report := &model.DrugReport{
		ReportID: uuid.NewString(),
		Status:   model.ReportStatusPending,
	}
	if err := s.repo.Report.Create(ctx, report); err != nil {
		s.logger.Error("创建报表任务失败", zap.Error(err))
		return nil, err
	}

	queued := false
	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueDrugReport(ctx, report.ReportID); err != nil {
			s.logger.Warn("报表任务入队失败，改为进程内生成", zap.String("report_id", report.ReportID), zap.Error(err))
		} else {
			queued = true
		}
	}
	if !queued {
		go s.renderDetached(ctx, report.ReportID)
	}

	return toReportResponse(report), nil
}

func (s *reportService) renderDetached(parent context.Context, id string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), reportRenderTimeout)
	defer cancel()
	if err := s.Render(ctx, id); err != nil {
		s.logger.Error("进程内生成报表失败", zap.String("report_id", id), zap.Error(err))
	}
}

// ────────────────────── Render ──────────────────────

// Render 渲染报表并保存；已完成的报表直接返回
func (s *reportService) Render(ctx context.Context, reportID string) error {
	report, err := s.repo.Report.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReportNotFound
		}
		return err
	}
	if report.Status == model.ReportStatusReady {
		return nil
	}

	drugs, err := s.repo.Drug.ListAll(ctx)
	if err != nil {
		s.markFailed(ctx, reportID, err)
		return err
	}

	generatedAt := s.now()
	buf, err := renderDrugWorkbook(drugs, generatedAt)
	if err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		s.markFailed(ctx, reportID, err)
		return ErrReportGenerateFail
	}

	fileName := fmt.Sprintf("drugs_%s.xlsx", generatedAt.UTC().Format("20060102_150405"))
	if err := s.repo.Report.MarkReady(ctx, reportID, fileName, buf.Bytes(), len(drugs)); err != nil {
		s.logger.Error("保存报表失败", zap.String("report_id", reportID), zap.Error(err))
		return err
	}

	s.logger.Info("报表生成完成", zap.String("report_id", reportID), zap.Int("drugs", len(drugs)))
	return nil
}

func (s *reportService) markFailed(ctx context.Context, id string, cause error) {
	if err := s.repo.Report.MarkFailed(ctx, id, cause.Error()); err != nil {
		s.logger.Error("更新报表状态失败", zap.String("report_id", id), zap.Error(err))
	}
}

// ────────────────────── Status / Download ──────────────────────

func (s *reportService) Status(ctx context.Context, id string) (*dto.ReportResponse, error) {
	report, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toReportResponse(report), nil
}

func (s *reportService) Download(ctx context.Context, id string) (*dto.ReportFile, error) {
	report, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if report.Status != model.ReportStatusReady {
		return nil, ErrReportNotReady
	}
	return &dto.ReportFile{FileName: report.FileName, Content: report.Content}, nil
}

func (s *reportService) get(ctx context.Context, id string) (*model.DrugReport, error) {
	report, err := s.repo.Report.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		s.logger.Error("查询报表失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return report, nil
}

func toReportResponse(r *model.DrugReport) *dto.ReportResponse {
	return &dto.ReportResponse{
		ID:          r.ReportID,
		Status:      r.Status,
		FileName:    r.FileName,
		DrugCount:   r.DrugCount,
		Error:       r.Error,
		CreatedAt:   r.CreatedAt,
		CompletedAt: r.CompletedAt,
	}
}

// ═══════════════════════════════════════════════════════════
// Excel 渲染
// ═══════════════════════════════════════════════════════════
//
// 单 Sheet，按有效期升序；已过期的行标红。

var reportHeaders = []string{
	"药品", "包装规格", "药店", "购买日期", "开封日期", "有效期至",
	"购买人", "用药人", "剩余数量", "剩余百分比",
}

func renderDrugWorkbook(drugs []model.Drug, generatedAt time.Time) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "药品清单"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 28)
	f.SetColWidth(sheetName, "B", "C", 18)
	f.SetColWidth(sheetName, "D", "F", 14)
	f.SetColWidth(sheetName, "G", "H", 20)
	f.SetColWidth(sheetName, "I", "J", 12)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	expiredStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#F8CBAD"}, Pattern: 1},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("药品清单（生成于 %s）", generatedAt.UTC().Format("2006-01-02 15:04 UTC")))
	f.MergeCell(sheetName, "A1", cell(colName(len(reportHeaders)-1), 1))

	// 表头
	row := 2
	for i, h := range reportHeaders {
		f.SetCellValue(sheetName, cell(colName(i), row), h)
	}
	f.SetCellStyle(sheetName, cell("A", row), cell(colName(len(reportHeaders)-1), row), headerStyle)

	// 数据行
	for _, d := range drugs {
		row++
		values := []interface{}{
			metadataName(d.Metadata),
			packageSizeLabel(d.PackageSize),
			shopName(d.Shop),
			formatDate(d.BoughtOn),
			formatDate(d.OpenedOn),
			formatDate(d.PalatableUntil),
			personName(d.BoughtByPerson),
			personName(d.PersonConcernedPerson),
			formatAmount(d.AmountLeftAbsolute),
			formatAmount(d.AmountLeftInPercentage),
		}
		for i, v := range values {
			f.SetCellValue(sheetName, cell(colName(i), row), v)
		}
		if d.PalatableUntil != nil && d.PalatableUntil.Before(generatedAt) {
			f.SetCellStyle(sheetName, cell("A", row), cell(colName(len(reportHeaders)-1), row), expiredStyle)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(DateLayout)
}

func formatAmount(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func metadataName(m *model.DrugMetadata) string {
	if m == nil {
		return "-"
	}
	return m.Name
}

func packageSizeLabel(p *model.DrugPackageSize) string {
	if p == nil {
		return "-"
	}
	if p.BundleType != nil {
		return fmt.Sprintf("%d %s", p.BundleSize, *p.BundleType)
	}
	return strconv.Itoa(p.BundleSize)
}

func shopName(s *model.Shop) string {
	if s == nil {
		return "-"
	}
	return s.Name
}

func personName(p *model.Person) string {
	if p == nil {
		return "-"
	}
	return p.FullName()
}
