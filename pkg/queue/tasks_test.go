package queue

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
)

func TestNewBookingTask_KeepsRequesterOpaque(t *testing.T) {
	raw := json.RawMessage(`{"svnr":"1237010180","extra":{"a":[1,2]}}`)
	start := time.Date(2025, 9, 1, 7, 0, 0, 0, time.UTC)
	task, err := NewBookingTask(BookingPayload{
		BookingID:    "b-1",
		SlotDate:     "2025-09-01",
		StartClock:   "09:00",
		StartTimeUTC: start,
		EndTimeUTC:   start.Add(30 * time.Minute),
		Requester:    raw,
	}, 3)
	if err != nil {
		t.Fatalf("NewBookingTask 失败: %v", err)
	}
	if task.Type() != TypeBookingAppointment {
		t.Errorf("任务类型 = %s", task.Type())
	}

	got, err := DecodeBooking(task)
	if err != nil {
		t.Fatalf("DecodeBooking 失败: %v", err)
	}
	if string(got.Requester) != string(raw) {
		t.Errorf("Requester = %s, want %s", got.Requester, raw)
	}
	if !got.StartTimeUTC.Equal(start) {
		t.Errorf("StartTimeUTC = %v", got.StartTimeUTC)
	}
}

func TestDecodeReport_InvalidPayloadSkipsRetry(t *testing.T) {
	_, err := DecodeReport(asynq.NewTask(TypeDrugReport, []byte("not-json")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Errorf("期望 SkipRetry，得到 %v", err)
	}

	_, err = DecodeReport(asynq.NewTask(TypeDrugReport, []byte(`{}`)))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Errorf("缺少 report_id 时期望 SkipRetry，得到 %v", err)
	}
}
