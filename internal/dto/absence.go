package dto

// ── 缺勤记录 DTO ──

// CreateAbsenceRequest 创建缺勤记录请求
type CreateAbsenceRequest struct {
	PersonID    uint   `json:"person_id"    binding:"required"`
	AbsenceDate string `json:"absence_date" binding:"required,datetime=2006-01-02"`
	TimeSlotID  *uint  `json:"time_slot_id"` // 为空表示全天缺勤
	Reason      string `json:"reason"       binding:"omitempty,max=200"`
	Justified   bool   `json:"justified"`
}

// UpdateAbsenceRequest 更新缺勤记录请求（部分更新）
type UpdateAbsenceRequest struct {
	AbsenceDate *string `json:"absence_date" binding:"omitempty,datetime=2006-01-02"`
	TimeSlotID  *uint   `json:"time_slot_id"`
	Reason      *string `json:"reason"       binding:"omitempty,max=200"`
	Justified   *bool   `json:"justified"`
}

// AbsenceListRequest 缺勤记录列表查询参数
type AbsenceListRequest struct {
	PersonID uint   `form:"person_id"`
	DateFrom string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo   string `form:"date_to"   binding:"omitempty,datetime=2006-01-02"`
}

// AbsenceResponse 缺勤记录信息响应
type AbsenceResponse struct {
	ID          uint           `json:"id"`
	Person      *PersonBrief   `json:"person,omitempty"`
	PersonID    uint           `json:"person_id"`
	AbsenceDate string         `json:"absence_date"`
	TimeSlot    *TimeSlotBrief `json:"time_slot,omitempty"`
	TimeSlotID  *uint          `json:"time_slot_id,omitempty"`
	Reason      string         `json:"reason,omitempty"`
	Justified   bool           `json:"justified"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
}
