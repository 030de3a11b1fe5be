package dto

// ── 款式参考 DTO ──

// CreateReferenceRequest 创建款式请求
type CreateReferenceRequest struct {
	Code             string `json:"code"              binding:"required,min=1,max=50"`
	Description      string `json:"description"       binding:"omitempty,max=500"`
	EstimatedMinutes int    `json:"estimated_minutes" binding:"omitempty,min=0"`
}

// UpdateReferenceRequest 更新款式请求（部分更新）
type UpdateReferenceRequest struct {
	Code             *string `json:"code"              binding:"omitempty,min=1,max=50"`
	Description      *string `json:"description"       binding:"omitempty,max=500"`
	EstimatedMinutes *int    `json:"estimated_minutes" binding:"omitempty,min=0"`
	IsActive         *bool   `json:"is_active"`
}

// ReferenceListRequest 款式列表查询参数
type ReferenceListRequest struct {
	IncludeInactive bool `form:"include_inactive"`
}

// ReferenceResponse 款式信息响应
type ReferenceResponse struct {
	ID               uint   `json:"id"`
	Code             string `json:"code"`
	Description      string `json:"description,omitempty"`
	EstimatedMinutes int    `json:"estimated_minutes"`
	IsActive         bool   `json:"is_active"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}
