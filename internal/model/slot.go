package model

import (
	"time"

	"gorm.io/datatypes"
)

// Slot 预约时间段表，对应 slots
//
// (slot_date, start_clock) 唯一标识一个时间段，均为策略时区下的本地日期与时刻。
type Slot struct {
	SlotID       string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"    json:"slot_id"`
	SlotDate     string    `gorm:"type:varchar(10);not null;uniqueIndex:uq_slot_key" json:"slot_date"`   // 2006-01-02
	StartClock   string    `gorm:"type:varchar(5);not null;uniqueIndex:uq_slot_key"  json:"start_clock"` // 15:04
	StartTimeUTC time.Time `gorm:"column:start_time_utc;not null;index"              json:"start_time_utc"`
	EndTimeUTC   time.Time `gorm:"column:end_time_utc;not null"                      json:"end_time_utc"`
	IsAvailable  bool      `gorm:"not null;default:true"                             json:"is_available"`
	Version      int       `gorm:"not null;default:1"                                json:"version"`
	BaseModel
}

// TableName 指定表名
func (Slot) TableName() string { return "slots" }

// Booking 预约记录表，对应 bookings
//
// 每个时间段至多一条预约；Payload 为预约人信息，原样存储与转发。
type Booking struct {
	BookingID    string         `gorm:"type:uuid;primaryKey"                                 json:"booking_id"`
	SlotID       string         `gorm:"type:uuid;not null;uniqueIndex"                       json:"slot_id"`
	SlotDate     string         `gorm:"type:varchar(10);not null;uniqueIndex:uq_booking_key" json:"slot_date"`
	StartClock   string         `gorm:"type:varchar(5);not null;uniqueIndex:uq_booking_key"  json:"start_clock"`
	StartTimeUTC time.Time      `gorm:"column:start_time_utc;not null"                       json:"start_time_utc"`
	EndTimeUTC   time.Time      `gorm:"column:end_time_utc;not null"                         json:"end_time_utc"`
	Payload      datatypes.JSON `gorm:"type:jsonb;not null"                                  json:"payload"`
	CreatedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"                   json:"created_at"`

	// 关联
	Slot *Slot `gorm:"foreignKey:SlotID;references:SlotID" json:"slot,omitempty"`
}

// TableName 指定表名
func (Booking) TableName() string { return "bookings" }
