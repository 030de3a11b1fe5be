package model

// Module 生产模块（工位/产线）表 — 对应 modules
type Module struct {
	ModuleID    uint   `gorm:"primaryKey;autoIncrement"     json:"module_id"`
	Name        string `gorm:"type:varchar(100);not null"   json:"name"`
	Description string `gorm:"type:varchar(500)"            json:"description,omitempty"`
	IsActive    bool   `gorm:"not null;default:true"        json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (Module) TableName() string { return "modules" }
