package dto

import (
	"encoding/json"
	"time"
)

// ── 预约时间段 DTO ──

// SlotQueryRequest 可预约时间段查询参数
// day 与 from/to 二选一；日期格式 2006-01-02
type SlotQueryRequest struct {
	Day  string `form:"day"  binding:"omitempty,datetime=2006-01-02"`
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to"   binding:"omitempty,datetime=2006-01-02"`
}

// SlotResponse 单个时间段
type SlotResponse struct {
	Date         string    `json:"date"`       // 2006-01-02（策略时区）
	StartTime    string    `json:"start_time"` // 15:04（策略时区）
	StartTimeUTC time.Time `json:"start_time_utc"`
	EndTimeUTC   time.Time `json:"end_time_utc"`
	IsAvailable  bool      `json:"is_available"`
}

// DaySlotsResponse 某日全部时间段
type DaySlotsResponse struct {
	Date  string         `json:"date"`
	Slots []SlotResponse `json:"slots"`
}

// RequesterInfo 预约人信息
// 校验通过后整体作为不透明载荷存储与转发
type RequesterInfo struct {
	Firstname string `json:"firstname" binding:"required,min=1,max=100"`
	Lastname  string `json:"lastname"  binding:"required,min=1,max=100"`
	SVNR      string `json:"svnr"      binding:"required,svnr"`
	Email     string `json:"email"     binding:"required,email"`
	Phone     string `json:"phone"     binding:"required,phone"`
}

// BookSlotRequest 预约请求
type BookSlotRequest struct {
	Date      string        `json:"date"       binding:"required,datetime=2006-01-02"`
	StartTime string        `json:"start_time" binding:"required,datetime=15:04"`
	Requester RequesterInfo `json:"requester"  binding:"required"`
}

// BookingResponse 预约结果
type BookingResponse struct {
	ID           string          `json:"id"`
	Date         string          `json:"date"`
	StartTime    string          `json:"start_time"`
	StartTimeUTC time.Time       `json:"start_time_utc"`
	EndTimeUTC   time.Time       `json:"end_time_utc"`
	Requester    json.RawMessage `json:"requester"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ── 管理接口 DTO ──

// SeedResponse 批量生成结果
type SeedResponse struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Inserted int64  `json:"inserted"`
}

// ClearResponse 清空结果
type ClearResponse struct {
	Bookings int64 `json:"bookings"`
	Slots    int64 `json:"slots"`
}

// MigrationResponse 迁移结果
type MigrationResponse struct {
	Version uint `json:"version"`
	Dirty   bool `json:"dirty"`
}
