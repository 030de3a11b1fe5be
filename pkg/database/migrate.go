package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"telar/backend/internal/model"
)

// AutoMigrate 同步全部业务表结构
// 表顺序满足外键依赖：基础资源在前，关联表在后
func AutoMigrate(db *gorm.DB, logger *zap.Logger) error {
	err := db.AutoMigrate(
		&model.Module{},
		&model.Person{},
		&model.Reference{},
		&model.TimeSlot{},
		&model.ModuleAssignment{},
		&model.ReferenceAssignment{},
		&model.ProductionRecord{},
		&model.Absence{},
	)
	if err != nil {
		return fmt.Errorf("同步表结构失败: %w", err)
	}

	logger.Info("数据库表结构同步完成")
	return nil
}
