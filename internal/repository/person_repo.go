package repository

import (
	"context"

	"gorm.io/gorm"

	"telar/backend/internal/model"
)

// PersonRepository 员工数据访问接口
type PersonRepository interface {
	Create(ctx context.Context, p *model.Person) error
	GetByID(ctx context.Context, id uint) (*model.Person, error)
	GetByDocument(ctx context.Context, document string) (*model.Person, error)
	List(ctx context.Context, includeInactive bool) ([]model.Person, error)
	Update(ctx context.Context, p *model.Person) error
	Delete(ctx context.Context, id uint) error
}

type personRepo struct {
	db *gorm.DB
}

// NewPersonRepo 创建 PersonRepository 实例
func NewPersonRepo(db *gorm.DB) PersonRepository {
	return &personRepo{db: db}
}

func (r *personRepo) Create(ctx context.Context, p *model.Person) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *personRepo) GetByID(ctx context.Context, id uint) (*model.Person, error) {
	var p model.Person
	err := r.db.WithContext(ctx).
		Where("person_id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *personRepo) GetByDocument(ctx context.Context, document string) (*model.Person, error) {
	var p model.Person
	err := r.db.WithContext(ctx).
		Where("document = ?", document).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *personRepo) List(ctx context.Context, includeInactive bool) ([]model.Person, error) {
	var persons []model.Person
	db := r.db.WithContext(ctx)
	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}
	err := db.Order("name ASC").Find(&persons).Error
	return persons, err
}

func (r *personRepo) Update(ctx context.Context, p *model.Person) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *personRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Person{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
