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

// ── 缺勤记录业务错误 ──

var (
	ErrAbsenceNotFound        = errors.New("缺勤记录不存在")
	ErrAbsenceTimeSlotInvalid = errors.New("时间段不存在或无效")
)

// AbsenceService 缺勤记录业务接口
type AbsenceService interface {
	Create(ctx context.Context, req *dto.CreateAbsenceRequest) (*dto.AbsenceResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.AbsenceResponse, error)
	List(ctx context.Context, req *dto.AbsenceListRequest) ([]dto.AbsenceResponse, error)
	Update(ctx context.Context, id uint, req *dto.UpdateAbsenceRequest) (*dto.AbsenceResponse, error)
	Delete(ctx context.Context, id uint) error
}

type absenceService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAbsenceService 创建 AbsenceService 实例
func NewAbsenceService(repo *repository.Repository, logger *zap.Logger) AbsenceService {
	return &absenceService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *absenceService) Create(ctx context.Context, req *dto.CreateAbsenceRequest) (*dto.AbsenceResponse, error) {
	if _, err := s.repo.Person.GetByID(ctx, req.PersonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}
		return nil, err
	}
	// TimeSlotID 为空表示全天缺勤，不校验
	if req.TimeSlotID != nil {
		if _, err := s.repo.TimeSlot.GetByID(ctx, *req.TimeSlotID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAbsenceTimeSlotInvalid
			}
			return nil, err
		}
	}

	absenceDate, err := parseDate(req.AbsenceDate)
	if err != nil {
		return nil, err
	}

	a := &model.Absence{
		PersonID:    req.PersonID,
		AbsenceDate: absenceDate,
		TimeSlotID:  req.TimeSlotID,
		Reason:      req.Reason,
		Justified:   req.Justified,
	}

	if err := s.repo.Absence.Create(ctx, a); err != nil {
		s.logger.Error("创建缺勤记录失败", zap.Error(err))
		return nil, err
	}

	created, err := s.repo.Absence.GetByID(ctx, a.AbsenceID)
	if err != nil {
		return nil, err
	}

	return s.toAbsenceResponse(created), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *absenceService) GetByID(ctx context.Context, id uint) (*dto.AbsenceResponse, error) {
	a, err := s.repo.Absence.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAbsenceNotFound
		}
		s.logger.Error("查询缺勤记录失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	return s.toAbsenceResponse(a), nil
}

// ────────────────────── List ──────────────────────

func (s *absenceService) List(ctx context.Context, req *dto.AbsenceListRequest) ([]dto.AbsenceResponse, error) {
	var dateFrom, dateTo *time.Time
	if req.DateFrom != "" {
		d, err := parseDate(req.DateFrom)
		if err != nil {
			return nil, err
		}
		dateFrom = &d
	}
	if req.DateTo != "" {
		d, err := parseDate(req.DateTo)
		if err != nil {
			return nil, err
		}
		dateTo = &d
	}

	absences, err := s.repo.Absence.List(ctx, req.PersonID, dateFrom, dateTo)
	if err != nil {
		s.logger.Error("列出缺勤记录失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.AbsenceResponse, 0, len(absences))
	for i := range absences {
		result = append(result, *s.toAbsenceResponse(&absences[i]))
	}

	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *absenceService) Update(ctx context.Context, id uint, req *dto.UpdateAbsenceRequest) (*dto.AbsenceResponse, error) {
	a, err := s.repo.Absence.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAbsenceNotFound
		}
		s.logger.Error("查询缺勤记录失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	if req.AbsenceDate != nil {
		d, err := parseDate(*req.AbsenceDate)
		if err != nil {
			return nil, err
		}
		a.AbsenceDate = d
	}
	if req.TimeSlotID != nil {
		// 传入 0 表示改为全天缺勤
		if *req.TimeSlotID == 0 {
			a.TimeSlotID = nil
		} else {
			if _, err := s.repo.TimeSlot.GetByID(ctx, *req.TimeSlotID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, ErrAbsenceTimeSlotInvalid
				}
				return nil, err
			}
			a.TimeSlotID = req.TimeSlotID
		}
	}
	if req.Reason != nil {
		a.Reason = *req.Reason
	}
	if req.Justified != nil {
		a.Justified = *req.Justified
	}

	if err := s.repo.Absence.Update(ctx, a); err != nil {
		s.logger.Error("更新缺勤记录失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	reloaded, err := s.repo.Absence.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toAbsenceResponse(reloaded), nil
}

// ────────────────────── Delete ──────────────────────

func (s *absenceService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Absence.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAbsenceNotFound
		}
		s.logger.Error("删除缺勤记录失败", zap.Uint("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func (s *absenceService) toAbsenceResponse(a *model.Absence) *dto.AbsenceResponse {
	resp := &dto.AbsenceResponse{
		ID:          a.AbsenceID,
		PersonID:    a.PersonID,
		AbsenceDate: formatDate(a.AbsenceDate),
		TimeSlotID:  a.TimeSlotID,
		Reason:      a.Reason,
		Justified:   a.Justified,
		CreatedAt:   formatTimestamp(a.CreatedAt),
		UpdatedAt:   formatTimestamp(a.UpdatedAt),
	}

	if a.Person != nil {
		resp.Person = &dto.PersonBrief{ID: a.Person.PersonID, Name: a.Person.Name}
	}
	if a.TimeSlot != nil {
		resp.TimeSlot = &dto.TimeSlotBrief{ID: a.TimeSlot.TimeSlotID, Name: a.TimeSlot.Name}
	}

	return resp
}
