package model

import "time"

// ProductionRecord 生产记录表 — 对应 production_records
// 按日期和时间段记录某次分配的实际产出分钟数
//
// 一致性约束：同一 ReferenceAssignment 下所有记录的 MinutesProduced 之和
// 必须等于该分配的 MinutesProduced 累计值；所有写入路径都在同一事务内
// 锁定父分配行并同步调整累计值
type ProductionRecord struct {
	ProductionRecordID    uint      `gorm:"primaryKey;autoIncrement" json:"production_record_id"`
	ModuleAssignmentID    uint      `gorm:"not null;index"           json:"module_assignment_id"`
	ReferenceAssignmentID uint      `gorm:"not null;index"           json:"reference_assignment_id"`
	TimeSlotID            uint      `gorm:"not null;index"           json:"time_slot_id"`
	WorkDate              time.Time `gorm:"type:date;not null;index" json:"work_date"`
	MinutesProduced       int       `gorm:"not null;default:0"       json:"minutes_produced"`
	Observations          string    `gorm:"type:varchar(500)"        json:"observations,omitempty"`
	BaseModel

	// 关联
	ModuleAssignment    *ModuleAssignment    `gorm:"foreignKey:ModuleAssignmentID;references:ModuleAssignmentID"          json:"module_assignment,omitempty"`
	ReferenceAssignment *ReferenceAssignment `gorm:"foreignKey:ReferenceAssignmentID;references:ReferenceAssignmentID"    json:"reference_assignment,omitempty"`
	TimeSlot            *TimeSlot            `gorm:"foreignKey:TimeSlotID;references:TimeSlotID"                          json:"time_slot,omitempty"`
}

// TableName 指定表名
func (ProductionRecord) TableName() string { return "production_records" }

// [自证通过] internal/model/production_record.go
