package repository

import (
	"context"

	"gorm.io/gorm"

	"telar/backend/internal/model"
)

// ReferenceRepository 款式参考数据访问接口
type ReferenceRepository interface {
	Create(ctx context.Context, ref *model.Reference) error
	GetByID(ctx context.Context, id uint) (*model.Reference, error)
	GetByCode(ctx context.Context, code string) (*model.Reference, error)
	List(ctx context.Context, includeInactive bool) ([]model.Reference, error)
	Update(ctx context.Context, ref *model.Reference) error
	Delete(ctx context.Context, id uint) error
}

type referenceRepo struct {
	db *gorm.DB
}

// NewReferenceRepo 创建 ReferenceRepository 实例
func NewReferenceRepo(db *gorm.DB) ReferenceRepository {
	return &referenceRepo{db: db}
}

func (r *referenceRepo) Create(ctx context.Context, ref *model.Reference) error {
	return r.db.WithContext(ctx).Create(ref).Error
}

func (r *referenceRepo) GetByID(ctx context.Context, id uint) (*model.Reference, error) {
	var ref model.Reference
	err := r.db.WithContext(ctx).
		Where("reference_id = ?", id).
		First(&ref).Error
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func (r *referenceRepo) GetByCode(ctx context.Context, code string) (*model.Reference, error) {
	var ref model.Reference
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&ref).Error
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func (r *referenceRepo) List(ctx context.Context, includeInactive bool) ([]model.Reference, error) {
	var refs []model.Reference
	db := r.db.WithContext(ctx)
	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}
	err := db.Order("code ASC").Find(&refs).Error
	return refs, err
}

func (r *referenceRepo) Update(ctx context.Context, ref *model.Reference) error {
	return r.db.WithContext(ctx).Save(ref).Error
}

func (r *referenceRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Reference{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
