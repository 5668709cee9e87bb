package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jfuerlinger/DrugManagement/internal/dto"
	"github.com/jfuerlinger/DrugManagement/internal/model"
	"github.com/jfuerlinger/DrugManagement/internal/repository"
)

// ── 药店模块业务错误 ──

var (
	ErrShopNotFound = errors.New("药店不存在")
)

// ShopService 药店业务接口
type ShopService interface {
	Create(ctx context.Context, req *dto.CreateShopRequest) (*dto.ShopResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ShopResponse, error)
	List(ctx context.Context) ([]dto.ShopResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateShopRequest) (*dto.ShopResponse, error)
	Delete(ctx context.Context, id string) error
}

type shopService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewShopService 创建 ShopService 实例
func NewShopService(repo *repository.Repository, logger *zap.Logger) ShopService {
	return &shopService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *shopService) Create(ctx context.Context, req *dto.CreateShopRequest) (*dto.ShopResponse, error) {
	shop := &model.Shop{
		Name:       req.Name,
		Street:     req.Street,
		Postalcode: req.Postalcode,
		City:       req.City,
		Phone:      req.Phone,
	}
	if err := s.repo.Shop.Create(ctx, shop); err != nil {
		s.logger.Error("创建药店失败", zap.Error(err))
		return nil, err
	}
	return toShopResponse(shop), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *shopService) GetByID(ctx context.Context, id string) (*dto.ShopResponse, error) {
	shop, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toShopResponse(shop), nil
}

// ────────────────────── List ──────────────────────

func (s *shopService) List(ctx context.Context) ([]dto.ShopResponse, error) {
	shops, err := s.repo.Shop.List(ctx)
	if err != nil {
		s.logger.Error("列出药店失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.ShopResponse, 0, len(shops))
	for i := range shops {
		result = append(result, *toShopResponse(&shops[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *shopService) Update(ctx context.Context, id string, req *dto.UpdateShopRequest) (*dto.ShopResponse, error) {
	shop, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		shop.Name = *req.Name
	}
	if req.Street != nil {
		shop.Street = req.Street
	}
	if req.Postalcode != nil {
		shop.Postalcode = req.Postalcode
	}
	if req.City != nil {
		shop.City = req.City
	}
	if req.Phone != nil {
		shop.Phone = req.Phone
	}

	if err := s.repo.Shop.Update(ctx, shop); err != nil {
		s.logger.Error("更新药店失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toShopResponse(shop), nil
}

// ────────────────────── Delete ──────────────────────

func (s *shopService) Delete(ctx context.Context, id string) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Shop.Delete(ctx, id); err != nil {
		s.logger.Error("删除药店失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *shopService) get(ctx context.Context, id string) (*model.Shop, error) {
	shop, err := s.repo.Shop.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShopNotFound
		}
		s.logger.Error("查询药店失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return shop, nil
}

func toShopResponse(shop *model.Shop) *dto.ShopResponse {
	return &dto.ShopResponse{
		ID:         shop.ShopID,
		Name:       shop.Name,
		Street:     shop.Street,
		Postalcode: shop.Postalcode,
		City:       shop.City,
		Phone:      shop.Phone,
	}
}
