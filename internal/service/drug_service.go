package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jfuerlinger/DrugManagement/internal/dto"
	"github.com/jfuerlinger/DrugManagement/internal/model"
	"github.com/jfuerlinger/DrugManagement/internal/repository"
	pkgerrors "github.com/jfuerlinger/DrugManagement/pkg/errors"
)

// ── 药品库存业务错误 ──

var (
	ErrDrugNotFound        = errors.New("药品不存在")
	ErrDrugVersionConflict = errors.New("药品已被其他操作修改，请刷新后重试")
	ErrPackageSizeMismatch = errors.New("包装规格不属于该药品主数据")
)

// DrugService 药品库存业务接口
type DrugService interface {
	Create(ctx context.Context, req *dto.CreateDrugRequest) (*dto.DrugResponse, error)
	GetByID(ctx context.Context, id string) (*dto.DrugResponse, error)
	List(ctx context.Context, req *dto.DrugListRequest) ([]dto.DrugResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateDrugRequest) (*dto.DrugResponse, error)
	Delete(ctx context.Context, id string) error
}

type drugService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDrugService 创建 DrugService 实例
func NewDrugService(repo *repository.Repository, logger *zap.Logger) DrugService {
	return &drugService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *drugService) Create(ctx context.Context, req *dto.CreateDrugRequest) (*dto.DrugResponse, error) {
	drug := &model.Drug{
		MetadataID:             req.MetadataID,
		PackageSizeID:          req.PackageSizeID,
		ShopID:                 req.ShopID,
		BoughtOn:               req.BoughtOn,
		OpenedOn:               req.OpenedOn,
		PalatableUntil:         req.PalatableUntil,
		BoughtBy:               req.BoughtBy,
		PersonConcerned:        req.PersonConcerned,
		AmountLeftAbsolute:     req.AmountLeftAbsolute,
		AmountLeftInPercentage: req.AmountLeftInPercentage,
	}

	if err := s.checkReferences(ctx, drug); err != nil {
		return nil, err
	}

	if err := s.repo.Drug.Create(ctx, drug); err != nil {
		s.logger.Error("登记药品失败", zap.Error(err))
		return nil, err
	}

	return s.GetByID(ctx, drug.DrugID)
}

// ────────────────────── GetByID ──────────────────────

func (s *drugService) GetByID(ctx context.Context, id string) (*dto.DrugResponse, error) {
	drug, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDrugResponse(drug), nil
}

// ────────────────────── List ──────────────────────

// List 按有效期升序分页
func (s *drugService) List(ctx context.Context, req *dto.DrugListRequest) ([]dto.DrugResponse, int64, error) {
	drugs, total, err := s.repo.Drug.List(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出药品失败", zap.Error(err))
		return nil, 0, err
	}
	result := make([]dto.DrugResponse, 0, len(drugs))
	for i := range drugs {
		result = append(result, *toDrugResponse(&drugs[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *drugService) Update(ctx context.Context, id string, req *dto.UpdateDrugRequest) (*dto.DrugResponse, error) {
	drug, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if drug.Version != req.Version {
		return nil, ErrDrugVersionConflict
	}

	if req.MetadataID != nil {
		drug.MetadataID = *req.MetadataID
	}
	if req.PackageSizeID != nil {
		drug.PackageSizeID = *req.PackageSizeID
	}
	if req.ShopID != nil {
		drug.ShopID = *req.ShopID
	}
	if req.BoughtOn != nil {
		drug.BoughtOn = req.BoughtOn
	}
	if req.OpenedOn != nil {
		drug.OpenedOn = req.OpenedOn
	}
	if req.PalatableUntil != nil {
		drug.PalatableUntil = req.PalatableUntil
	}
	if req.BoughtBy != nil {
		drug.BoughtBy = req.BoughtBy
	}
	if req.PersonConcerned != nil {
		drug.PersonConcerned = req.PersonConcerned
	}
	if req.AmountLeftAbsolute != nil {
		drug.AmountLeftAbsolute = req.AmountLeftAbsolute
	}
	if req.AmountLeftInPercentage != nil {
		drug.AmountLeftInPercentage = req.AmountLeftInPercentage
	}

	if err := s.checkReferences(ctx, drug); err != nil {
		return nil, err
	}

	if err := s.repo.Drug.Update(ctx, drug); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrDrugVersionConflict
		}
		s.logger.Error("更新药品失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// ────────────────────── Delete ──────────────────────

func (s *drugService) Delete(ctx context.Context, id string) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Drug.Delete(ctx, id); err != nil {
		s.logger.Error("删除药品失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func (s *drugService) get(ctx context.Context, id string) (*model.Drug, error) {
	drug, err := s.repo.Drug.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDrugNotFound
		}
		s.logger.Error("查询药品失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return drug, nil
}

// checkReferences 校验引用的主数据、包装规格、药店、人员均存在
func (s *drugService) checkReferences(ctx context.Context, drug *model.Drug) error {
	if _, err := s.repo.DrugMetadata.GetByID(ctx, drug.MetadataID); err != nil {
		return s.notFoundOr(err, ErrDrugMetadataNotFound)
	}

	size, err := s.repo.PackageSize.GetByID(ctx, drug.PackageSizeID)
	if err != nil {
		return s.notFoundOr(err, ErrPackageSizeNotFound)
	}
	if size.DrugMetadataID != drug.MetadataID {
		return ErrPackageSizeMismatch
	}

	if _, err := s.repo.Shop.GetByID(ctx, drug.ShopID); err != nil {
		return s.notFoundOr(err, ErrShopNotFound)
	}

	for _, personID := range []*string{drug.BoughtBy, drug.PersonConcerned} {
		if personID == nil {
			continue
		}
		if _, err := s.repo.Person.GetByID(ctx, *personID); err != nil {
			return s.notFoundOr(err, ErrPersonNotFound)
		}
	}
	return nil
}

func (s *drugService) notFoundOr(err, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	s.logger.Error("校验药品引用失败", zap.Error(err))
	return err
}

func toDrugResponse(d *model.Drug) *dto.DrugResponse {
	resp := &dto.DrugResponse{
		ID:                     d.DrugID,
		BoughtOn:               d.BoughtOn,
		OpenedOn:               d.OpenedOn,
		PalatableUntil:         d.PalatableUntil,
		AmountLeftAbsolute:     d.AmountLeftAbsolute,
		AmountLeftInPercentage: d.AmountLeftInPercentage,
		Version:                d.Version,
	}
	if d.Metadata != nil {
		resp.Metadata = &dto.DrugMetadataBrief{ID: d.Metadata.DrugMetadataID, Name: d.Metadata.Name}
	}
	if d.PackageSize != nil {
		resp.PackageSize = toPackageSizeResponse(d.PackageSize)
	}
	if d.Shop != nil {
		resp.Shop = &dto.ShopBrief{ID: d.Shop.ShopID, Name: d.Shop.Name}
	}
	if d.BoughtByPerson != nil {
		resp.BoughtBy = &dto.PersonBrief{ID: d.BoughtByPerson.PersonID, Name: d.BoughtByPerson.FullName()}
	}
	if d.PersonConcernedPerson != nil {
		resp.PersonConcerned = &dto.PersonBrief{ID: d.PersonConcernedPerson.PersonID, Name: d.PersonConcernedPerson.FullName()}
	}
	return resp
}
