package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/jfuerlinger/DrugManagement/internal/service"
	"github.com/jfuerlinger/DrugManagement/pkg/queue"
)

// ── booking:appointment ──

// BookingHandler 消费预约成功通知
type BookingHandler struct {
	crm    *CRMClient // 可为 nil，此时只记录日志
	logger *zap.Logger
}

// NewBookingHandler 创建预约通知处理器
func NewBookingHandler(crm *CRMClient, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{crm: crm, logger: logger}
}

// ProcessTask 实现 asynq.Handler
func (h *BookingHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	p, err := queue.DecodeBooking(t)
	if err != nil {
		h.logger.Error("丢弃无法解析的预约通知", zap.Error(err))
		return err
	}

	h.logger.Info("收到预约通知",
		zap.String("booking_id", p.BookingID),
		zap.String("date", p.SlotDate),
		zap.String("start_time", p.StartClock),
	)

	if h.crm == nil {
		return nil
	}
	if err := h.crm.ForwardBooking(ctx, p); err != nil {
		h.logger.Warn("转发预约到 CRM 失败，稍后重试", zap.String("booking_id", p.BookingID), zap.Error(err))
		return err
	}
	return nil
}

// ── report:drugs ──

// ReportHandler 消费报表生成任务
type ReportHandler struct {
	reportSvc service.ReportService
	logger    *zap.Logger
}

// NewReportHandler 创建报表任务处理器
func NewReportHandler(reportSvc service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc, logger: logger}
}

// ProcessTask 实现 asynq.Handler
func (h *ReportHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	p, err := queue.DecodeReport(t)
	if err != nil {
		h.logger.Error("丢弃无法解析的报表任务", zap.Error(err))
		return err
	}

	if err := h.reportSvc.Render(ctx, p.ReportID); err != nil {
		if errors.Is(err, service.ErrReportNotFound) {
			return fmt.Errorf("报表 %s 不存在: %w", p.ReportID, asynq.SkipRetry)
		}
		return err
	}
	return nil
}

// NewServeMux 注册全部任务处理器
func NewServeMux(booking *BookingHandler, report *ReportHandler) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Handle(queue.TypeBookingAppointment, booking)
	mux.Handle(queue.TypeDrugReport, report)
	return mux
}
