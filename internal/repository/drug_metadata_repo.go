package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jfuerlinger/DrugManagement/internal/model"
)

// DrugMetadataRepository 药品主数据访问接口
type DrugMetadataRepository interface {
	Create(ctx context.Context, m *model.DrugMetadata) error
	GetByID(ctx context.Context, id string) (*model.DrugMetadata, error)
	List(ctx context.Context, keyword string) ([]model.DrugMetadata, error)
	Update(ctx context.Context, m *model.DrugMetadata) error
	Delete(ctx context.Context, id string) error
}

type drugMetadataRepo struct {
	db *gorm.DB
}

// NewDrugMetadataRepo 创建 DrugMetadataRepository 实例
func NewDrugMetadataRepo(db *gorm.DB) DrugMetadataRepository {
	return &drugMetadataRepo{db: db}
}

func (r *drugMetadataRepo) Create(ctx context.Context, m *model.DrugMetadata) error {
	return r.db.WithContext(ctx).Omit("PackageSizes").Create(m).Error
}

func (r *drugMetadataRepo) GetByID(ctx context.Context, id string) (*model.DrugMetadata, error) {
	var m model.DrugMetadata
	err := r.db.WithContext(ctx).
		Preload("PackageSizes", func(db *gorm.DB) *gorm.DB {
			return db.Order("bundle_size ASC")
		}).
		Where("drug_metadata_id = ?", id).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *drugMetadataRepo) List(ctx context.Context, keyword string) ([]model.DrugMetadata, error) {
	var list []model.DrugMetadata
	db := r.db.WithContext(ctx)
	if keyword != "" {
		db = db.Where("name ILIKE ?", "%"+keyword+"%")
	}
	err := db.Order("name ASC").Find(&list).Error
	return list, err
}

func (r *drugMetadataRepo) Update(ctx context.Context, m *model.DrugMetadata) error {
	return r.db.WithContext(ctx).Omit("PackageSizes").Save(m).Error
}

func (r *drugMetadataRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("drug_metadata_id = ?", id).
		Delete(&model.DrugMetadata{}).Error
}
