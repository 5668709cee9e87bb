package dto

import "time"

// ReportResponse 报表任务状态
type ReportResponse struct {
	ID          string     `json:"id"`
	Status      string     `json:"status"`
	FileName    string     `json:"file_name,omitempty"`
	DrugCount   int        `json:"drug_count"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ReportFile 报表文件
type ReportFile struct {
	FileName string
	Content  []byte
}
