package dto

// ── 人员-模块分配 DTO ──

// CreateModuleAssignmentRequest 创建人员分配请求
type CreateModuleAssignmentRequest struct {
	PersonID  uint   `json:"person_id"  binding:"required"`
	ModuleID  uint   `json:"module_id"  binding:"required"`
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
}

// UpdateModuleAssignmentRequest 更新人员分配请求（部分更新）
type UpdateModuleAssignmentRequest struct {
	ModuleID  *uint   `json:"module_id"`
	StartDate *string `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   *string `json:"end_date"   binding:"omitempty,datetime=2006-01-02"`
	IsActive  *bool   `json:"is_active"`
}

// ModuleAssignmentListRequest 人员分配列表查询参数
type ModuleAssignmentListRequest struct {
	ModuleID   uint `form:"module_id"`
	PersonID   uint `form:"person_id"`
	OnlyActive bool `form:"only_active"`
}

// ModuleAssignmentResponse 人员分配信息响应
type ModuleAssignmentResponse struct {
	ID        uint         `json:"id"`
	Person    *PersonBrief `json:"person,omitempty"`
	Module    *ModuleBrief `json:"module,omitempty"`
	PersonID  uint         `json:"person_id"`
	ModuleID  uint         `json:"module_id"`
	StartDate string       `json:"start_date"`
	EndDate   *string      `json:"end_date,omitempty"`
	IsActive  bool         `json:"is_active"`
	CreatedAt string       `json:"created_at"`
	UpdatedAt string       `json:"updated_at"`
}
