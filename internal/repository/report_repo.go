package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/jfuerlinger/DrugManagement/internal/model"
)

// ReportRepository 报表任务数据访问接口
type ReportRepository interface {
	Create(ctx context.Context, report *model.DrugReport) error
	GetByID(ctx context.Context, id string) (*model.DrugReport, error)
	MarkReady(ctx context.Context, id, fileName string, content []byte, drugCount int) error
	MarkFailed(ctx context.Context, id, reason string) error
}

type reportRepo struct {
	db *gorm.DB
}

// NewReportRepo 创建 ReportRepository 实例
func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db: db}
}

func (r *reportRepo) Create(ctx context.Context, report *model.DrugReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *reportRepo) GetByID(ctx context.Context, id string) (*model.DrugReport, error) {
	var report model.DrugReport
	err := r.db.WithContext(ctx).
		Where("report_id = ?", id).
		First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepo) MarkReady(ctx context.Context, id, fileName string, content []byte, drugCount int) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&model.DrugReport{}).
		Where("report_id = ?", id).
		Updates(map[string]interface{}{
			"status":       model.ReportStatusReady,
			"file_name":    fileName,
			"content":      content,
			"drug_count":   drugCount,
			"error":        "",
			"completed_at": &now,
		}).Error
}

func (r *reportRepo) MarkFailed(ctx context.Context, id, reason string) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&model.DrugReport{}).
		Where("report_id = ?", id).
		Updates(map[string]interface{}{
			"status":       model.ReportStatusFailed,
			"error":        reason,
			"completed_at": &now,
		}).Error
}
