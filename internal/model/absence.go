package model

import "time"

// Absence 缺勤记录表 — 对应 absences
type Absence struct {
	AbsenceID   uint      `gorm:"primaryKey;autoIncrement" json:"absence_id"`
	PersonID    uint      `gorm:"not null;index"           json:"person_id"`
	AbsenceDate time.Time `gorm:"type:date;not null;index" json:"absence_date"`
	TimeSlotID  *uint     `json:"time_slot_id,omitempty"` // NULL 表示全天缺勤
	Reason      string    `gorm:"type:varchar(200)"        json:"reason,omitempty"`
	Justified   bool      `gorm:"not null;default:false"   json:"justified"`
	BaseModel

	// 关联
	Person   *Person   `gorm:"foreignKey:PersonID;references:PersonID"     json:"person,omitempty"`
	TimeSlot *TimeSlot `gorm:"foreignKey:TimeSlotID;references:TimeSlotID" json:"time_slot,omitempty"`
}

// TableName 指定表名
func (Absence) TableName() string { return "absences" }
