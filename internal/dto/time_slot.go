package dto

// ── 时间段 DTO ──

// CreateTimeSlotRequest 创建时间段请求
type CreateTimeSlotRequest struct {
	Name      string `json:"name"       binding:"required,min=2,max=50"`
	StartTime string `json:"start_time" binding:"required,datetime=15:04"` // "07:00"
	EndTime   string `json:"end_time"   binding:"required,datetime=15:04"` // "09:00"
}

// UpdateTimeSlotRequest 更新时间段请求（部分更新）
type UpdateTimeSlotRequest struct {
	Name      *string `json:"name"       binding:"omitempty,min=2,max=50"`
	StartTime *string `json:"start_time" binding:"omitempty,datetime=15:04"`
	EndTime   *string `json:"end_time"   binding:"omitempty,datetime=15:04"`
	IsActive  *bool   `json:"is_active"`
}

// TimeSlotListRequest 时间段列表查询参数
type TimeSlotListRequest struct {
	IncludeInactive bool `form:"include_inactive"`
}

// TimeSlotResponse 时间段信息响应
type TimeSlotResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
