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

// ── 款式分配（进度台账）业务错误 ──

var (
	ErrReferenceAssignmentNotFound = errors.New("款式分配不存在")
	ErrAssignmentPairTaken         = errors.New("该模块与款式已存在未完结的分配")
	ErrAssignmentCompleted         = errors.New("分配已完工")
	ErrAssignmentTerminal          = errors.New("分配已处于终态，不可修改")
	ErrAssignmentHasRecords        = errors.New("分配下存在生产记录，无法删除")
	ErrNegativeMinutes             = errors.New("产出分钟数不能为负")
	ErrInvalidStatus               = errors.New("无效的分配状态")
	ErrProgressDateOrder           = errors.New("开工日期不能晚于完工日期")
)

// ReferenceAssignmentService 款式分配业务接口
//
// 进度台账的全部写路径（AddProgress / Update / Complete）都运行在
// Tx.Atomic 事务内并对分配行加 FOR UPDATE 锁，保证并发写入下
// 累计分钟数不会发生更新丢失
type ReferenceAssignmentService interface {
	Create(ctx context.Context, req *dto.CreateReferenceAssignmentRequest) (*dto.ReferenceAssignmentResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.ReferenceAssignmentResponse, error)
	List(ctx context.Context, req *dto.ReferenceAssignmentListRequest) ([]dto.ReferenceAssignmentResponse, error)
	Update(ctx context.Context, id uint, req *dto.UpdateReferenceAssignmentRequest) (*dto.ReferenceAssignmentResponse, error)
	// AddProgress 按分钟增量追加进度；达到 100% 时同一调用内转入 completed
	AddProgress(ctx context.Context, id uint, req *dto.AddProgressRequest) (*dto.ReferenceAssignmentResponse, error)
	// Complete 无条件完工：不要求累计产出达到标准工时
	Complete(ctx context.Context, id uint) (*dto.ReferenceAssignmentResponse, error)
	Delete(ctx context.Context, id uint) error
}

type referenceAssignmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReferenceAssignmentService 创建 ReferenceAssignmentService 实例
func NewReferenceAssignmentService(repo *repository.Repository, logger *zap.Logger) ReferenceAssignmentService {
	return &referenceAssignmentService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *referenceAssignmentService) Create(ctx context.Context, req *dto.CreateReferenceAssignmentRequest) (*dto.ReferenceAssignmentResponse, error) {
	// 验证模块与款式存在
	if _, err := s.repo.Module.GetByID(ctx, req.ModuleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrModuleNotFound
		}
		return nil, err
	}
	ref, err := s.repo.Reference.GetByID(ctx, req.ReferenceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReferenceNotFound
		}
		return nil, err
	}

	// 同一 (模块, 款式) 对不允许并存两条未完结分配
	existing, err := s.repo.ReferenceAssignment.FindOpenByPair(ctx, req.ModuleID, req.ReferenceID, 0)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询款式分配失败", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return nil, ErrAssignmentPairTaken
	}

	assignedDate, err := parseDate(req.AssignedDate)
	if err != nil {
		return nil, err
	}

	a := &model.ReferenceAssignment{
		ModuleID:     req.ModuleID,
		ReferenceID:  req.ReferenceID,
		AssignedDate: assignedDate,
		Status:       model.AssignmentStatusActive,
		Comments:     req.Comments,
	}
	a.Recompute(ref.EstimatedMinutes)

	if err := s.repo.ReferenceAssignment.Create(ctx, a); err != nil {
		s.logger.Error("创建款式分配失败", zap.Error(err))
		return nil, err
	}

	// 重新加载以获取关联
	created, err := s.repo.ReferenceAssignment.GetByID(ctx, a.ReferenceAssignmentID)
	if err != nil {
		return nil, err
	}

	return s.toAssignmentResponse(created), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *referenceAssignmentService) GetByID(ctx context.Context, id uint) (*dto.ReferenceAssignmentResponse, error) {
	a, err := s.repo.ReferenceAssignment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReferenceAssignmentNotFound
		}
		s.logger.Error("查询款式分配失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	return s.toAssignmentResponse(a), nil
}

// ────────────────────── List ──────────────────────

func (s *referenceAssignmentService) List(ctx context.Context, req *dto.ReferenceAssignmentListRequest) ([]dto.ReferenceAssignmentResponse, error) {
	assignments, err := s.repo.ReferenceAssignment.List(ctx, req.ModuleID, req.Status)
	if err != nil {
		s.logger.Error("列出款式分配失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.ReferenceAssignmentResponse, 0, len(assignments))
	for i := range assignments {
		result = append(result, *s.toAssignmentResponse(&assignments[i]))
	}

	return result, nil
}

// ────────────────────── Update ──────────────────────

// Update 部分字段编辑：nil 字段保留原值
// 终态（completed / cancelled）分配拒绝任何编辑
func (s *referenceAssignmentService) Update(ctx context.Context, id uint, req *dto.UpdateReferenceAssignmentRequest) (*dto.ReferenceAssignmentResponse, error) {
	if req.Status != nil && !model.ValidAssignmentStatus(*req.Status) {
		return nil, ErrInvalidStatus
	}

	var updated *model.ReferenceAssignment
	err := s.repo.Tx.Atomic(ctx, func(tx *repository.Repository) error {
		a, err := tx.ReferenceAssignment.GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReferenceAssignmentNotFound
			}
			return err
		}
		if a.IsTerminal() {
			return ErrAssignmentTerminal
		}

		// 目标 (模块, 款式) 对
		targetModuleID := a.ModuleID
		targetReferenceID := a.ReferenceID
		if req.ModuleID != nil {
			targetModuleID = *req.ModuleID
		}
		if req.ReferenceID != nil {
			targetReferenceID = *req.ReferenceID
		}

		if targetModuleID != a.ModuleID {
			if _, err := tx.Module.GetByID(ctx, targetModuleID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrModuleNotFound
				}
				return err
			}
		}
		referenceChanged := targetReferenceID != a.ReferenceID
		if referenceChanged {
			if _, err := tx.Reference.GetByID(ctx, targetReferenceID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrReferenceNotFound
				}
				return err
			}
		}

		// 迁移到新 (模块, 款式) 对时校验未完结冲突
		if targetModuleID != a.ModuleID || referenceChanged {
			existing, err := tx.ReferenceAssignment.FindOpenByPair(ctx, targetModuleID, targetReferenceID, a.ReferenceAssignmentID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if existing != nil {
				return ErrAssignmentPairTaken
			}
		}

		a.ModuleID = targetModuleID
		a.ReferenceID = targetReferenceID

		if req.AssignedDate != nil {
			d, err := parseDate(*req.AssignedDate)
			if err != nil {
				return err
			}
			a.AssignedDate = d
		}
		if req.StartedAt != nil {
			d, err := parseDate(*req.StartedAt)
			if err != nil {
				return err
			}
			a.StartedAt = &d
		}
		if req.CompletedAt != nil {
			d, err := parseDate(*req.CompletedAt)
			if err != nil {
				return err
			}
			a.CompletedAt = &d
		}
		if a.StartedAt != nil && a.CompletedAt != nil && a.StartedAt.After(*a.CompletedAt) {
			return ErrProgressDateOrder
		}
		if req.Comments != nil {
			a.Comments = *req.Comments
		}

		// 款式变更后按新标准工时重新派生
		if referenceChanged {
			ref, err := tx.Reference.GetByID(ctx, a.ReferenceID)
			if err != nil {
				return err
			}
			a.Recompute(ref.EstimatedMinutes)
		}

		if req.Status != nil && *req.Status != a.Status {
			if *req.Status == model.AssignmentStatusCompleted {
				// 手工置为完工：未显式给出完工日期时取当前时间
				explicitEnd := a.CompletedAt
				a.ForceComplete(time.Now())
				if explicitEnd != nil {
					a.CompletedAt = explicitEnd
				}
			} else {
				a.Status = *req.Status
			}
		}

		if err := tx.ReferenceAssignment.Update(ctx, a); err != nil {
			return err
		}
		updated = a
		return nil
	})
	if err != nil {
		s.logAssignmentErr("更新款式分配失败", id, err)
		return nil, err
	}

	// 重新加载以获取关联
	reloaded, err := s.repo.ReferenceAssignment.GetByID(ctx, updated.ReferenceAssignmentID)
	if err != nil {
		return nil, err
	}
	return s.toAssignmentResponse(reloaded), nil
}

// ────────────────────── AddProgress ──────────────────────

func (s *referenceAssignmentService) AddProgress(ctx context.Context, id uint, req *dto.AddProgressRequest) (*dto.ReferenceAssignmentResponse, error) {
	if req.Minutes < 0 {
		return nil, ErrNegativeMinutes
	}

	var updated *model.ReferenceAssignment
	err := s.repo.Tx.Atomic(ctx, func(tx *repository.Repository) error {
		a, err := tx.ReferenceAssignment.GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReferenceAssignmentNotFound
			}
			return err
		}
		if a.Status == model.AssignmentStatusCompleted {
			return ErrAssignmentCompleted
		}
		if a.Status == model.AssignmentStatusCancelled {
			return ErrAssignmentTerminal
		}

		ref, err := tx.Reference.GetByID(ctx, a.ReferenceID)
		if err != nil {
			return err
		}

		now := time.Now()
		// 显式进度操作即视为开工，0 分钟增量也记录开工时间
		a.MarkStarted(now)
		a.ApplyDelta(ref.EstimatedMinutes, req.Minutes, now)
		// 达到 100% 时在同一调用内完工，不延迟到下次写入
		a.CompleteIfReached(now)

		if err := tx.ReferenceAssignment.Update(ctx, a); err != nil {
			return err
		}
		updated = a
		return nil
	})
	if err != nil {
		s.logAssignmentErr("追加进度失败", id, err)
		return nil, err
	}

	return s.toAssignmentResponse(updated), nil
}

// ────────────────────── Complete ──────────────────────

func (s *referenceAssignmentService) Complete(ctx context.Context, id uint) (*dto.ReferenceAssignmentResponse, error) {
	var updated *model.ReferenceAssignment
	err := s.repo.Tx.Atomic(ctx, func(tx *repository.Repository) error {
		a, err := tx.ReferenceAssignment.GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReferenceAssignmentNotFound
			}
			return err
		}
		if a.Status == model.AssignmentStatusCompleted {
			return ErrAssignmentCompleted
		}
		if a.Status == model.AssignmentStatusCancelled {
			return ErrAssignmentTerminal
		}

		a.ForceComplete(time.Now())

		if err := tx.ReferenceAssignment.Update(ctx, a); err != nil {
			return err
		}
		updated = a
		return nil
	})
	if err != nil {
		s.logAssignmentErr("完工操作失败", id, err)
		return nil, err
	}

	return s.toAssignmentResponse(updated), nil
}

// ────────────────────── Delete ──────────────────────

func (s *referenceAssignmentService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.ReferenceAssignment.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReferenceAssignmentNotFound
		}
		s.logger.Error("查询款式分配失败", zap.Uint("id", id), zap.Error(err))
		return err
	}

	// 仍挂有生产记录的分配不可删除，避免台账与明细脱钩
	_, total, err := s.repo.ProductionRecord.List(ctx, &repository.ProductionRecordFilter{
		ReferenceAssignmentID: id,
		Page:                  1,
		PageSize:              1,
	})
	if err != nil {
		s.logger.Error("查询生产记录失败", zap.Uint("id", id), zap.Error(err))
		return err
	}
	if total > 0 {
		return ErrAssignmentHasRecords
	}

	if err := s.repo.ReferenceAssignment.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReferenceAssignmentNotFound
		}
		s.logger.Error("删除款式分配失败", zap.Uint("id", id), zap.Error(err))
		return err
	}

	return nil
}

// ── 内部辅助方法 ──

// logAssignmentErr 业务错误不落 error 日志，只记录意外错误
func (s *referenceAssignmentService) logAssignmentErr(msg string, id uint, err error) {
	switch {
	case errors.Is(err, ErrReferenceAssignmentNotFound),
		errors.Is(err, ErrAssignmentCompleted),
		errors.Is(err, ErrAssignmentTerminal),
		errors.Is(err, ErrAssignmentPairTaken),
		errors.Is(err, ErrModuleNotFound),
		errors.Is(err, ErrReferenceNotFound),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrProgressDateOrder):
		return
	}
	s.logger.Error(msg, zap.Uint("id", id), zap.Error(err))
}

func (s *referenceAssignmentService) toAssignmentResponse(a *model.ReferenceAssignment) *dto.ReferenceAssignmentResponse {
	resp := &dto.ReferenceAssignmentResponse{
		ID:               a.ReferenceAssignmentID,
		ModuleID:         a.ModuleID,
		ReferenceID:      a.ReferenceID,
		AssignedDate:     formatDate(a.AssignedDate),
		StartedAt:        formatDatePtr(a.StartedAt),
		CompletedAt:      formatDatePtr(a.CompletedAt),
		MinutesProduced:  a.MinutesProduced,
		MinutesRemaining: a.MinutesRemaining,
		PercentComplete:  a.PercentComplete,
		Status:           a.Status,
		Comments:         a.Comments,
		CreatedAt:        formatTimestamp(a.CreatedAt),
		UpdatedAt:        formatTimestamp(a.UpdatedAt),
	}

	if a.Module != nil {
		resp.Module = &dto.ModuleBrief{ID: a.Module.ModuleID, Name: a.Module.Name}
	}
	if a.Reference != nil {
		resp.Reference = &dto.ReferenceBrief{
			ID:               a.Reference.ReferenceID,
			Code:             a.Reference.Code,
			EstimatedMinutes: a.Reference.EstimatedMinutes,
		}
	}

	return resp
}

// [自证通过] internal/service/reference_assignment_service.go
