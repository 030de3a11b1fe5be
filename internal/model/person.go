package model

// Person 操作员工表 — 对应 persons
type Person struct {
	PersonID uint   `gorm:"primaryKey;autoIncrement"              json:"person_id"`
	Name     string `gorm:"type:varchar(100);not null"            json:"name"`
	Document string `gorm:"type:varchar(30);not null;uniqueIndex" json:"document"` // 证件号
	Phone    string `gorm:"type:varchar(20)"                      json:"phone,omitempty"`
	IsActive bool   `gorm:"not null;default:true"                 json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (Person) TableName() string { return "persons" }
