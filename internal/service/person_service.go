package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"telar/backend/internal/dto"
	"telar/backend/internal/model"
	"telar/backend/internal/repository"
)

// ── 员工模块业务错误 ──

var (
	ErrPersonNotFound       = errors.New("员工不存在")
	ErrPersonDocumentExists = errors.New("证件号已存在")
)

// PersonService 员工业务接口
type PersonService interface {
	Create(ctx context.Context, req *dto.CreatePersonRequest) (*dto.PersonResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.PersonResponse, error)
	List(ctx context.Context, req *dto.PersonListRequest) ([]dto.PersonResponse, error)
	Update(ctx context.Context, id uint, req *dto.UpdatePersonRequest) (*dto.PersonResponse, error)
	Delete(ctx context.Context, id uint) error
}

type personService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPersonService 创建 PersonService 实例
func NewPersonService(repo *repository.Repository, logger *zap.Logger) PersonService {
	return &personService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *personService) Create(ctx context.Context, req *dto.CreatePersonRequest) (*dto.PersonResponse, error) {
	// 检查证件号唯一性
	existing, err := s.repo.Person.GetByDocument(ctx, req.Document)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询员工失败", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return nil, ErrPersonDocumentExists
	}

	p := &model.Person{
		Name:     req.Name,
		Document: req.Document,
		Phone:    req.Phone,
		IsActive: true,
	}

	if err := s.repo.Person.Create(ctx, p); err != nil {
		s.logger.Error("创建员工失败", zap.Error(err))
		return nil, err
	}

	return s.toPersonResponse(p), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *personService) GetByID(ctx context.Context, id uint) (*dto.PersonResponse, error) {
	p, err := s.repo.Person.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}
		s.logger.Error("查询员工失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	return s.toPersonResponse(p), nil
}

// ────────────────────── List ──────────────────────

func (s *personService) List(ctx context.Context, req *dto.PersonListRequest) ([]dto.PersonResponse, error) {
	persons, err := s.repo.Person.List(ctx, req.IncludeInactive)
	if err != nil {
		s.logger.Error("列出员工失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.PersonResponse, 0, len(persons))
	for i := range persons {
		result = append(result, *s.toPersonResponse(&persons[i]))
	}

	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *personService) Update(ctx context.Context, id uint, req *dto.UpdatePersonRequest) (*dto.PersonResponse, error) {
	p, err := s.repo.Person.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}
		s.logger.Error("查询员工失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	if req.Document != nil && *req.Document != p.Document {
		existing, err := s.repo.Person.GetByDocument(ctx, *req.Document)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询员工失败", zap.Error(err))
			return nil, err
		}
		if existing != nil {
			return nil, ErrPersonDocumentExists
		}
		p.Document = *req.Document
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Phone != nil {
		p.Phone = *req.Phone
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if err := s.repo.Person.Update(ctx, p); err != nil {
		s.logger.Error("更新员工失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	return s.toPersonResponse(p), nil
}

// ────────────────────── Delete ──────────────────────

func (s *personService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.Person.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPersonNotFound
		}
		s.logger.Error("查询员工失败", zap.Uint("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Person.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPersonNotFound
		}
		s.logger.Error("删除员工失败", zap.Uint("id", id), zap.Error(err))
		return err
	}

	return nil
}

// ── 内部辅助方法 ──

func (s *personService) toPersonResponse(p *model.Person) *dto.PersonResponse {
	return &dto.PersonResponse{
		ID:        p.PersonID,
		Name:      p.Name,
		Document:  p.Document,
		Phone:     p.Phone,
		IsActive:  p.IsActive,
		CreatedAt: formatTimestamp(p.CreatedAt),
		UpdatedAt: formatTimestamp(p.UpdatedAt),
	}
}
