package dto

// ── 生产模块 DTO ──

// CreateModuleRequest 创建模块请求
type CreateModuleRequest struct {
	Name        string `json:"name"        binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

// UpdateModuleRequest 更新模块请求（部分更新）
type UpdateModuleRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	IsActive    *bool   `json:"is_active"`
}

// ModuleListRequest 模块列表查询参数
type ModuleListRequest struct {
	IncludeInactive bool `form:"include_inactive"`
}

// ModuleResponse 模块信息响应
type ModuleResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}
