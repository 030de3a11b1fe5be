package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"telar/backend/internal/model"
)

// AbsenceRepository 缺勤记录数据访问接口
type AbsenceRepository interface {
	Create(ctx context.Context, a *model.Absence) error
	GetByID(ctx context.Context, id uint) (*model.Absence, error)
	List(ctx context.Context, personID uint, dateFrom, dateTo *time.Time) ([]model.Absence, error)
	Update(ctx context.Context, a *model.Absence) error
	Delete(ctx context.Context, id uint) error
}

type absenceRepo struct {
	db *gorm.DB
}

// NewAbsenceRepo 创建 AbsenceRepository 实例
func NewAbsenceRepo(db *gorm.DB) AbsenceRepository {
	return &absenceRepo{db: db}
}

func (r *absenceRepo) Create(ctx context.Context, a *model.Absence) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *absenceRepo) GetByID(ctx context.Context, id uint) (*model.Absence, error) {
	var a model.Absence
	err := r.db.WithContext(ctx).
		Preload("Person").Preload("TimeSlot").
		Where("absence_id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *absenceRepo) List(ctx context.Context, personID uint, dateFrom, dateTo *time.Time) ([]model.Absence, error) {
	var absences []model.Absence
	db := r.db.WithContext(ctx).Preload("Person").Preload("TimeSlot")

	if personID != 0 {
		db = db.Where("person_id = ?", personID)
	}
	if dateFrom != nil {
		db = db.Where("absence_date >= ?", *dateFrom)
	}
	if dateTo != nil {
		db = db.Where("absence_date <= ?", *dateTo)
	}

	err := db.Order("absence_date DESC").Find(&absences).Error
	return absences, err
}

func (r *absenceRepo) Update(ctx context.Context, a *model.Absence) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *absenceRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Absence{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
