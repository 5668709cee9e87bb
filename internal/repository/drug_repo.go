package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jfuerlinger/DrugManagement/internal/model"
	pkgerrors "github.com/jfuerlinger/DrugManagement/pkg/errors"
)

// DrugRepository 药品库存数据访问接口
type DrugRepository interface {
	Create(ctx context.Context, drug *model.Drug) error
	GetByID(ctx context.Context, id string) (*model.Drug, error)
	List(ctx context.Context, offset, limit int) ([]model.Drug, int64, error)
	ListAll(ctx context.Context) ([]model.Drug, error)
	Update(ctx context.Context, drug *model.Drug) error
	Delete(ctx context.Context, id string) error
	CountByMetadata(ctx context.Context, metadataID string) (int64, error)
	CountByPackageSize(ctx context.Context, packageSizeID string) (int64, error)
}

type drugRepo struct {
	db *gorm.DB
}

// NewDrugRepo 创建 DrugRepository 实例
func NewDrugRepo(db *gorm.DB) DrugRepository {
	return &drugRepo{db: db}
}

// 即将过期的排在前面，无有效期的排最后
const drugOrder = "palatable_until ASC NULLS LAST, created_at ASC"

func (r *drugRepo) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Metadata").
		Preload("PackageSize").
		Preload("Shop").
		Preload("BoughtByPerson").
		Preload("PersonConcernedPerson")
}

func (r *drugRepo) Create(ctx context.Context, drug *model.Drug) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(drug).Error
}

func (r *drugRepo) GetByID(ctx context.Context, id string) (*model.Drug, error) {
	var drug model.Drug
	err := r.preloaded(ctx).
		Where("drug_id = ?", id).
		First(&drug).Error
	if err != nil {
		return nil, err
	}
	return &drug, nil
}

func (r *drugRepo) List(ctx context.Context, offset, limit int) ([]model.Drug, int64, error) {
	var drugs []model.Drug
	var total int64

	if err := r.db.WithContext(ctx).Model(&model.Drug{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.preloaded(ctx).
		Offset(offset).Limit(limit).
		Order(drugOrder).
		Find(&drugs).Error; err != nil {
		return nil, 0, err
	}

	return drugs, total, nil
}

func (r *drugRepo) ListAll(ctx context.Context) ([]model.Drug, error) {
	var drugs []model.Drug
	err := r.preloaded(ctx).Order(drugOrder).Find(&drugs).Error
	return drugs, err
}

// Update 乐观锁更新：version 不匹配时返回 ErrOptimisticLock
func (r *drugRepo) Update(ctx context.Context, drug *model.Drug) error {
	oldVersion := drug.Version
	result := r.db.WithContext(ctx).
		Model(&model.Drug{}).
		Where("drug_id = ? AND version = ?", drug.DrugID, oldVersion).
		Updates(map[string]interface{}{
			"metadata_id":               drug.MetadataID,
			"package_size_id":           drug.PackageSizeID,
			"shop_id":                   drug.ShopID,
			"bought_on":                 drug.BoughtOn,
			"opened_on":                 drug.OpenedOn,
			"palatable_until":           drug.PalatableUntil,
			"bought_by":                 drug.BoughtBy,
			"person_concerned":          drug.PersonConcerned,
			"amount_left_absolute":      drug.AmountLeftAbsolute,
			"amount_left_in_percentage": drug.AmountLeftInPercentage,
			"version":                   oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	drug.Version = oldVersion + 1
	return nil
}

func (r *drugRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("drug_id = ?", id).
		Delete(&model.Drug{}).Error
}

func (r *drugRepo) CountByMetadata(ctx context.Context, metadataID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Drug{}).
		Where("metadata_id = ?", metadataID).
		Count(&n).Error
	return n, err
}

func (r *drugRepo) CountByPackageSize(ctx context.Context, packageSizeID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Drug{}).
		Where("package_size_id = ?", packageSizeID).
		Count(&n).Error
	return n, err
}
