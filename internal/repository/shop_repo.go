package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jfuerlinger/DrugManagement/internal/model"
)

// ShopRepository 药店数据访问接口
type ShopRepository interface {
	Create(ctx context.Context, shop *model.Shop) error
	GetByID(ctx context.Context, id string) (*model.Shop, error)
	List(ctx context.Context) ([]model.Shop, error)
	Update(ctx context.Context, shop *model.Shop) error
	Delete(ctx context.Context, id string) error
}

type shopRepo struct {
	db *gorm.DB
}

// NewShopRepo 创建 ShopRepository 实例
func NewShopRepo(db *gorm.DB) ShopRepository {
	return &shopRepo{db: db}
}

func (r *shopRepo) Create(ctx context.Context, shop *model.Shop) error {
	return r.db.WithContext(ctx).Create(shop).Error
}

func (r *shopRepo) GetByID(ctx context.Context, id string) (*model.Shop, error) {
	var shop model.Shop
	err := r.db.WithContext(ctx).
		Where("shop_id = ?", id).
		First(&shop).Error
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *shopRepo) List(ctx context.Context) ([]model.Shop, error) {
	var shops []model.Shop
	err := r.db.WithContext(ctx).Order("name ASC").Find(&shops).Error
	return shops, err
}

func (r *shopRepo) Update(ctx context.Context, shop *model.Shop) error {
	return r.db.WithContext(ctx).Save(shop).Error
}

// Delete 软删除
func (r *shopRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("shop_id = ?", id).
		Delete(&model.Shop{}).Error
}
