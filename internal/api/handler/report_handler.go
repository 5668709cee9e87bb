package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/jfuerlinger/DrugManagement/internal/service"
	"github.com/jfuerlinger/DrugManagement/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler 药品报表 HTTP 处理器
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// GenerateDrugReport 登记报表生成任务
// POST /api/v1/reports/drugs/generate
func (h *ReportHandler) GenerateDrugReport(c *gin.Context) {
	report, err := h.reportSvc.Generate(c.Request.Context())
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.Accepted(c, report)
}

// GetDrugReportStatus 查询报表状态
// GET /api/v1/reports/drugs/status/:id
func (h *ReportHandler) GetDrugReportStatus(c *gin.Context) {
	id, ok := MustGetParam(c, "id", "报表ID不能为空")
	if !ok {
		return
	}

	report, err := h.reportSvc.Status(c.Request.Context(), id)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.OK(c, report)
}

// DownloadDrugReport 下载报表文件
// GET /api/v1/reports/drugs/download/:id
func (h *ReportHandler) DownloadDrugReport(c *gin.Context) {
	id, ok := MustGetParam(c, "id", "报表ID不能为空")
	if !ok {
		return
	}

	file, err := h.reportSvc.Download(c.Request.Context(), id)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(file.FileName))
	c.Data(http.StatusOK, xlsxContentType, file.Content)
}

func (h *ReportHandler) handleReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrReportNotFound):
		response.NotFound(c, 26001, "报表不存在")
	case errors.Is(err, service.ErrReportNotReady):
		response.NotFound(c, 26002, "报表尚未生成完成")
	default:
		response.InternalError(c)
	}
}
