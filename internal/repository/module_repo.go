package repository

import (
	"context"

	"gorm.io/gorm"

	"telar/backend/internal/model"
)

// ModuleRepository 生产模块数据访问接口
type ModuleRepository interface {
	Create(ctx context.Context, m *model.Module) error
	GetByID(ctx context.Context, id uint) (*model.Module, error)
	List(ctx context.Context, includeInactive bool) ([]model.Module, error)
	Update(ctx context.Context, m *model.Module) error
	Delete(ctx context.Context, id uint) error
}

type moduleRepo struct {
	db *gorm.DB
}

// NewModuleRepo 创建 ModuleRepository 实例
func NewModuleRepo(db *gorm.DB) ModuleRepository {
	return &moduleRepo{db: db}
}

func (r *moduleRepo) Create(ctx context.Context, m *model.Module) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *moduleRepo) GetByID(ctx context.Context, id uint) (*model.Module, error) {
	var m model.Module
	err := r.db.WithContext(ctx).
		Where("module_id = ?", id).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *moduleRepo) List(ctx context.Context, includeInactive bool) ([]model.Module, error) {
	var modules []model.Module
	db := r.db.WithContext(ctx)
	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}
	err := db.Order("name ASC").Find(&modules).Error
	return modules, err
}

func (r *moduleRepo) Update(ctx context.Context, m *model.Module) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *moduleRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Module{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
