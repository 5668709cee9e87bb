package service

import (
	"strings"
	"testing"
	"time"

	"github.com/jfuerlinger/DrugManagement/internal/model"
)

func TestBuildBookingCalendar(t *testing.T) {
	start := time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)
	b := &model.Booking{
		BookingID:    "0d4c8f8e-4a43-4c8e-9f3b-1c2d3e4f5a6b",
		SlotDate:     "2025-09-01",
		StartClock:   "09:00",
		StartTimeUTC: start,
		EndTimeUTC:   start.Add(30 * time.Minute),
		Payload:      []byte(`{"svnr":"1237010180"}`),
		CreatedAt:    start.Add(-24 * time.Hour),
	}

	out := string(BuildBookingCalendar(b, start.Add(-time.Hour)))

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"BEGIN:VEVENT",
		"UID:" + b.BookingID + "@drugmanagement",
		"DTSTART:20250901T090000Z",
		"DTEND:20250901T093000Z",
		"END:VCALENDAR",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("日历缺少 %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "1237010180") {
		t.Error("日历不应包含预约人信息")
	}
}
