package dto

// ── 生产记录 DTO ──

// CreateProductionRecordRequest 创建生产记录请求
type CreateProductionRecordRequest struct {
	ModuleAssignmentID    uint   `json:"module_assignment_id"    binding:"required"`
	ReferenceAssignmentID uint   `json:"reference_assignment_id" binding:"required"`
	TimeSlotID            uint   `json:"time_slot_id"            binding:"required"`
	WorkDate              string `json:"work_date"               binding:"required,datetime=2006-01-02"`
	MinutesProduced       int    `json:"minutes_produced"        binding:"min=0"`
	Observations          string `json:"observations"            binding:"omitempty,max=500"`
}

// UpdateProductionRecordRequest 更新生产记录请求（部分更新）
// 全部字段为 nil 时为空操作，返回未变更的记录
type UpdateProductionRecordRequest struct {
	ModuleAssignmentID    *uint   `json:"module_assignment_id"`
	ReferenceAssignmentID *uint   `json:"reference_assignment_id"`
	TimeSlotID            *uint   `json:"time_slot_id"`
	WorkDate              *string `json:"work_date"        binding:"omitempty,datetime=2006-01-02"`
	MinutesProduced       *int    `json:"minutes_produced" binding:"omitempty,min=0"`
	Observations          *string `json:"observations"     binding:"omitempty,max=500"`
}

// ProductionRecordListRequest 生产记录列表查询参数
type ProductionRecordListRequest struct {
	PaginationRequest
	ModuleAssignmentID    uint   `form:"module_assignment_id"`
	ReferenceAssignmentID uint   `form:"reference_assignment_id"`
	TimeSlotID            uint   `form:"time_slot_id"`
	DateFrom              string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo                string `form:"date_to"   binding:"omitempty,datetime=2006-01-02"`
}

// ProductionRecordResponse 生产记录信息响应
type ProductionRecordResponse struct {
	ID                    uint            `json:"id"`
	ModuleAssignmentID    uint            `json:"module_assignment_id"`
	ReferenceAssignmentID uint            `json:"reference_assignment_id"`
	TimeSlotID            uint            `json:"time_slot_id"`
	Person                *PersonBrief    `json:"person,omitempty"`
	Reference             *ReferenceBrief `json:"reference,omitempty"`
	TimeSlot              *TimeSlotBrief  `json:"time_slot,omitempty"`
	WorkDate              string          `json:"work_date"`
	MinutesProduced       int             `json:"minutes_produced"`
	Observations          string          `json:"observations,omitempty"`
	CreatedAt             string          `json:"created_at"`
	UpdatedAt             string          `json:"updated_at"`
}
