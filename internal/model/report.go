package model

import "time"

// 报表状态
const (
	ReportStatusPending = "pending"
	ReportStatusReady   = "ready"
	ReportStatusFailed  = "failed"
)

// DrugReport 药品报表任务，对应 drug_reports
type DrugReport struct {
	ReportID    string     `gorm:"type:uuid;primaryKey"                          json:"report_id"`
	Status      string     `gorm:"type:varchar(20);not null;default:'pending'"   json:"status"` // pending | ready | failed
	FileName    string     `gorm:"type:varchar(200)"                             json:"file_name,omitempty"`
	Content     []byte     `gorm:"type:bytea"                                    json:"-"`
	DrugCount   int        `gorm:"not null;default:0"                            json:"drug_count"`
	Error       string     `gorm:"type:text"                                     json:"error,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	BaseModel
}

// TableName 指定表名
func (DrugReport) TableName() string { return "drug_reports" }
