package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jfuerlinger/DrugManagement/internal/dto"
	"github.com/jfuerlinger/DrugManagement/internal/model"
	"github.com/jfuerlinger/DrugManagement/internal/repository"
)

// ── 药品主数据 / 包装规格业务错误 ──

var (
	ErrDrugMetadataNotFound = errors.New("药品主数据不存在")
	ErrDrugMetadataInUse    = errors.New("药品主数据仍被药品或包装规格引用，无法删除")
	ErrPackageSizeNotFound  = errors.New("包装规格不存在")
	ErrPackageSizeInUse     = errors.New("包装规格仍被药品引用，无法删除")
)

// DrugMetadataService 药品主数据业务接口
type DrugMetadataService interface {
	Create(ctx context.Context, req *dto.CreateDrugMetadataRequest) (*dto.DrugMetadataResponse, error)
	GetByID(ctx context.Context, id string) (*dto.DrugMetadataResponse, error)
	List(ctx context.Context, req *dto.DrugMetadataListRequest) ([]dto.DrugMetadataResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateDrugMetadataRequest) (*dto.DrugMetadataResponse, error)
	Delete(ctx context.Context, id string) error
}

type drugMetadataService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDrugMetadataService 创建 DrugMetadataService 实例
func NewDrugMetadataService(repo *repository.Repository, logger *zap.Logger) DrugMetadataService {
	return &drugMetadataService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *drugMetadataService) Create(ctx context.Context, req *dto.CreateDrugMetadataRequest) (*dto.DrugMetadataResponse, error) {
	m := &model.DrugMetadata{
		Name:         req.Name,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		Agreeability: req.Agreeability,
	}
	if err := s.repo.DrugMetadata.Create(ctx, m); err != nil {
		s.logger.Error("创建药品主数据失败", zap.Error(err))
		return nil, err
	}
	return toDrugMetadataResponse(m), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *drugMetadataService) GetByID(ctx context.Context, id string) (*dto.DrugMetadataResponse, error) {
	m, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDrugMetadataResponse(m), nil
}

// ────────────────────── List ──────────────────────

func (s *drugMetadataService) List(ctx context.Context, req *dto.DrugMetadataListRequest) ([]dto.DrugMetadataResponse, error) {
	list, err := s.repo.DrugMetadata.List(ctx, req.Keyword)
	if err != nil {
		s.logger.Error("列出药品主数据失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.DrugMetadataResponse, 0, len(list))
	for i := range list {
		result = append(result, *toDrugMetadataResponse(&list[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *drugMetadataService) Update(ctx context.Context, id string, req *dto.UpdateDrugMetadataRequest) (*dto.DrugMetadataResponse, error) {
	m, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		m.Name = *req.Name
	}
	if req.Description != nil {
		m.Description = req.Description
	}
	if req.ImageURL != nil {
		m.ImageURL = req.ImageURL
	}
	if req.Agreeability != nil {
		m.Agreeability = req.Agreeability
	}

	if err := s.repo.DrugMetadata.Update(ctx, m); err != nil {
		s.logger.Error("更新药品主数据失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toDrugMetadataResponse(m), nil
}

// ────────────────────── Delete ──────────────────────

// Delete 仍有药品或包装规格引用时拒绝删除
func (s *drugMetadataService) Delete(ctx context.Context, id string) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}

	drugs, err := s.repo.Drug.CountByMetadata(ctx, id)
	if err != nil {
		s.logger.Error("统计药品引用失败", zap.String("id", id), zap.Error(err))
		return err
	}
	sizes, err := s.repo.PackageSize.CountByMetadata(ctx, id)
	if err != nil {
		s.logger.Error("统计包装规格引用失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if drugs > 0 || sizes > 0 {
		return ErrDrugMetadataInUse
	}

	if err := s.repo.DrugMetadata.Delete(ctx, id); err != nil {
		s.logger.Error("删除药品主数据失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *drugMetadataService) get(ctx context.Context, id string) (*model.DrugMetadata, error) {
	m, err := s.repo.DrugMetadata.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDrugMetadataNotFound
		}
		s.logger.Error("查询药品主数据失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return m, nil
}

func toDrugMetadataResponse(m *model.DrugMetadata) *dto.DrugMetadataResponse {
	resp := &dto.DrugMetadataResponse{
		ID:           m.DrugMetadataID,
		Name:         m.Name,
		Description:  m.Description,
		ImageURL:     m.ImageURL,
		Agreeability: m.Agreeability,
		CreatedAt:    m.CreatedAt.UTC().Format(time.RFC3339),
	}
	for i := range m.PackageSizes {
		resp.PackageSizes = append(resp.PackageSizes, *toPackageSizeResponse(&m.PackageSizes[i]))
	}
	return resp
}

// ═══════════════════════════════════════════════════════════
// 包装规格
// ═══════════════════════════════════════════════════════════

// PackageSizeService 包装规格业务接口
type PackageSizeService interface {
	Create(ctx context.Context, req *dto.CreatePackageSizeRequest) (*dto.PackageSizeResponse, error)
	GetByID(ctx context.Context, id string) (*dto.PackageSizeResponse, error)
	List(ctx context.Context, req *dto.PackageSizeListRequest) ([]dto.PackageSizeResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdatePackageSizeRequest) (*dto.PackageSizeResponse, error)
	Delete(ctx context.Context, id string) error
}

type packageSizeService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPackageSizeService 创建 PackageSizeService 实例
func NewPackageSizeService(repo *repository.Repository, logger *zap.Logger) PackageSizeService {
	return &packageSizeService{repo: repo, logger: logger}
}

func (s *packageSizeService) Create(ctx context.Context, req *dto.CreatePackageSizeRequest) (*dto.PackageSizeResponse, error) {
	if _, err := s.repo.DrugMetadata.GetByID(ctx, req.DrugMetadataID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDrugMetadataNotFound
		}
		s.logger.Error("查询药品主数据失败", zap.String("id", req.DrugMetadataID), zap.Error(err))
		return nil, err
	}

	p := &model.DrugPackageSize{
		DrugMetadataID: req.DrugMetadataID,
		BundleSize:     req.BundleSize,
		BundleType:     req.BundleType,
	}
	if err := s.repo.PackageSize.Create(ctx, p); err != nil {
		s.logger.Error("创建包装规格失败", zap.Error(err))
		return nil, err
	}
	return toPackageSizeResponse(p), nil
}

func (s *packageSizeService) GetByID(ctx context.Context, id string) (*dto.PackageSizeResponse, error) {
	p, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPackageSizeResponse(p), nil
}

func (s *packageSizeService) List(ctx context.Context, req *dto.PackageSizeListRequest) ([]dto.PackageSizeResponse, error) {
	list, err := s.repo.PackageSize.List(ctx, req.DrugMetadataID)
	if err != nil {
		s.logger.Error("列出包装规格失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.PackageSizeResponse, 0, len(list))
	for i := range list {
		result = append(result, *toPackageSizeResponse(&list[i]))
	}
	return result, nil
}

func (s *packageSizeService) Update(ctx context.Context, id string, req *dto.UpdatePackageSizeRequest) (*dto.PackageSizeResponse, error) {
	p, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.BundleSize != nil {
		p.BundleSize = *req.BundleSize
	}
	if req.BundleType != nil {
		p.BundleType = req.BundleType
	}
	if err := s.repo.PackageSize.Update(ctx, p); err != nil {
		s.logger.Error("更新包装规格失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toPackageSizeResponse(p), nil
}

func (s *packageSizeService) Delete(ctx context.Context, id string) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	n, err := s.repo.Drug.CountByPackageSize(ctx, id)
	if err != nil {
		s.logger.Error("统计药品引用失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if n > 0 {
		return ErrPackageSizeInUse
	}
	if err := s.repo.PackageSize.Delete(ctx, id); err != nil {
		s.logger.Error("删除包装规格失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *packageSizeService) get(ctx context.Context, id string) (*model.DrugPackageSize, error) {
	p, err := s.repo.PackageSize.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPackageSizeNotFound
		}
		s.logger.Error("查询包装规格失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return p, nil
}

func toPackageSizeResponse(p *model.DrugPackageSize) *dto.PackageSizeResponse {
	return &dto.PackageSizeResponse{
		ID:             p.PackageSizeID,
		DrugMetadataID: p.DrugMetadataID,
		BundleSize:     p.BundleSize,
		BundleType:     p.BundleType,
	}
}
