package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jfuerlinger/DrugManagement/internal/model"
)

// PackageSizeRepository 包装规格数据访问接口
type PackageSizeRepository interface {
	Create(ctx context.Context, p *model.DrugPackageSize) error
	GetByID(ctx context.Context, id string) (*model.DrugPackageSize, error)
	List(ctx context.Context, metadataID string) ([]model.DrugPackageSize, error)
	Update(ctx context.Context, p *model.DrugPackageSize) error
	Delete(ctx context.Context, id string) error
	CountByMetadata(ctx context.Context, metadataID string) (int64, error)
}

type packageSizeRepo struct {
	db *gorm.DB
}

// NewPackageSizeRepo 创建 PackageSizeRepository 实例
func NewPackageSizeRepo(db *gorm.DB) PackageSizeRepository {
	return &packageSizeRepo{db: db}
}

func (r *packageSizeRepo) Create(ctx context.Context, p *model.DrugPackageSize) error {
	return r.db.WithContext(ctx).Omit("DrugMetadata").Create(p).Error
}

func (r *packageSizeRepo) GetByID(ctx context.Context, id string) (*model.DrugPackageSize, error) {
	var p model.DrugPackageSize
	err := r.db.WithContext(ctx).
		Where("package_size_id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *packageSizeRepo) List(ctx context.Context, metadataID string) ([]model.DrugPackageSize, error) {
	var list []model.DrugPackageSize
	db := r.db.WithContext(ctx)
	if metadataID != "" {
		db = db.Where("drug_metadata_id = ?", metadataID)
	}
	err := db.Order("drug_metadata_id ASC, bundle_size ASC").Find(&list).Error
	return list, err
}

func (r *packageSizeRepo) Update(ctx context.Context, p *model.DrugPackageSize) error {
	return r.db.WithContext(ctx).Omit("DrugMetadata").Save(p).Error
}

func (r *packageSizeRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("package_size_id = ?", id).
		Delete(&model.DrugPackageSize{}).Error
}

func (r *packageSizeRepo) CountByMetadata(ctx context.Context, metadataID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.DrugPackageSize{}).
		Where("drug_metadata_id = ?", metadataID).
		Count(&n).Error
	return n, err
}
