package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// 任务类型
const (
	TypeBookingAppointment = "booking:appointment"
	TypeDrugReport         = "report:drugs"
)

// BookingPayload 预约成功通知（消费方：CRM 转发）
// Requester 为预约人原始信息，不做解析
type BookingPayload struct {
	BookingID    string          `json:"booking_id"`
	SlotDate     string          `json:"slot_date"`
	StartClock   string          `json:"start_clock"`
	StartTimeUTC time.Time       `json:"start_time_utc"`
	EndTimeUTC   time.Time       `json:"end_time_utc"`
	Requester    json.RawMessage `json:"requester"`
}

// ReportPayload 报表生成任务
type ReportPayload struct {
	ReportID string `json:"report_id"`
}

// NewBookingTask 构造预约通知任务
func NewBookingTask(p BookingPayload, maxRetry int) (*asynq.Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("序列化预约通知失败: %w", err)
	}
	return asynq.NewTask(TypeBookingAppointment, b, asynq.MaxRetry(maxRetry)), nil
}

// NewReportTask 构造报表生成任务
// 同一报表只允许入队一次
func NewReportTask(reportID string, maxRetry int) (*asynq.Task, error) {
	b, err := json.Marshal(ReportPayload{ReportID: reportID})
	if err != nil {
		return nil, fmt.Errorf("序列化报表任务失败: %w", err)
	}
	return asynq.NewTask(TypeDrugReport, b,
		asynq.MaxRetry(maxRetry),
		asynq.TaskID("report-"+reportID),
		asynq.Timeout(5*time.Minute),
	), nil
}

// DecodeBooking 解析预约通知
func DecodeBooking(t *asynq.Task) (BookingPayload, error) {
	var p BookingPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("预约通知格式错误: %w: %w", err, asynq.SkipRetry)
	}
	return p, nil
}

// DecodeReport 解析报表任务
func DecodeReport(t *asynq.Task) (ReportPayload, error) {
	var p ReportPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("报表任务格式错误: %w: %w", err, asynq.SkipRetry)
	}
	if p.ReportID == "" {
		return p, fmt.Errorf("报表任务缺少 report_id: %w", asynq.SkipRetry)
	}
	return p, nil
}
