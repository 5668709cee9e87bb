package service

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/jfuerlinger/DrugManagement/internal/model"
)

// ── 预约日历导出 ──────────────────────────────────────────
//
// 将一条预约导出为 iCalendar (RFC 5545) 单事件日历，供预约人导入日程。
// 预约人信息不写入日历正文。
// ─────────────────────────────────────────────────────────────

const calendarProductID = "-//DrugManagement//Appointments//DE"

// BuildBookingCalendar 生成预约的 .ics 内容
func BuildBookingCalendar(b *model.Booking, stamp time.Time) []byte {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)

	ev := cal.AddEvent(b.BookingID + "@drugmanagement")
	ev.SetDtStampTime(stamp.UTC())
	ev.SetCreatedTime(b.CreatedAt.UTC())
	ev.SetStartAt(b.StartTimeUTC.UTC())
	ev.SetEndAt(b.EndTimeUTC.UTC())
	ev.SetSummary("Termin Medikamentenberatung")
	ev.SetDescription(fmt.Sprintf("Buchung %s am %s um %s", b.BookingID, b.SlotDate, b.StartClock))

	return []byte(cal.Serialize())
}
