package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jfuerlinger/DrugManagement/internal/dto"
	"github.com/jfuerlinger/DrugManagement/internal/model"
	"github.com/jfuerlinger/DrugManagement/internal/repository"
	"github.com/jfuerlinger/DrugManagement/pkg/validation"
)

// ── 人员模块业务错误 ──

var (
	ErrPersonNotFound = errors.New("人员不存在")
)

// PersonService 人员业务接口
type PersonService interface {
	Create(ctx context.Context, req *dto.CreatePersonRequest) (*dto.PersonResponse, error)
	GetByID(ctx context.Context, id string) (*dto.PersonResponse, error)
	List(ctx context.Context) ([]dto.PersonResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdatePersonRequest) (*dto.PersonResponse, error)
	Delete(ctx context.Context, id string) error
}

type personService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPersonService 创建 PersonService 实例
func NewPersonService(repo *repository.Repository, logger *zap.Logger) PersonService {
	return &personService{repo: repo, logger: logger}
}

func (s *personService) Create(ctx context.Context, req *dto.CreatePersonRequest) (*dto.PersonResponse, error) {
	person := &model.Person{
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Phone:     normalizePhone(req.Phone),
		Email:     req.Email,
	}
	if err := s.repo.Person.Create(ctx, person); err != nil {
		s.logger.Error("创建人员失败", zap.Error(err))
		return nil, err
	}
	return toPersonResponse(person), nil
}

func (s *personService) GetByID(ctx context.Context, id string) (*dto.PersonResponse, error) {
	person, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPersonResponse(person), nil
}

func (s *personService) List(ctx context.Context) ([]dto.PersonResponse, error) {
	persons, err := s.repo.Person.List(ctx)
	if err != nil {
		s.logger.Error("列出人员失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.PersonResponse, 0, len(persons))
	for i := range persons {
		result = append(result, *toPersonResponse(&persons[i]))
	}
	return result, nil
}

func (s *personService) Update(ctx context.Context, id string, req *dto.UpdatePersonRequest) (*dto.PersonResponse, error) {
	person, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Firstname != nil {
		person.Firstname = *req.Firstname
	}
	if req.Lastname != nil {
		person.Lastname = *req.Lastname
	}
	if req.Phone != nil {
		person.Phone = normalizePhone(req.Phone)
	}
	if req.Email != nil {
		person.Email = req.Email
	}

	if err := s.repo.Person.Update(ctx, person); err != nil {
		s.logger.Error("更新人员失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toPersonResponse(person), nil
}

func (s *personService) Delete(ctx context.Context, id string) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Person.Delete(ctx, id); err != nil {
		s.logger.Error("删除人员失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *personService) get(ctx context.Context, id string) (*model.Person, error) {
	person, err := s.repo.Person.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}
		s.logger.Error("查询人员失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return person, nil
}

func toPersonResponse(p *model.Person) *dto.PersonResponse {
	return &dto.PersonResponse{
		ID:        p.PersonID,
		Firstname: p.Firstname,
		Lastname:  p.Lastname,
		Phone:     p.Phone,
		Email:     p.Email,
	}
}

// normalizePhone 去掉格式字符后存储
func normalizePhone(phone *string) *string {
	if phone == nil {
		return nil
	}
	v := validation.NormalizePhone(*phone)
	return &v
}
