package dto

// ── 员工 DTO ──

// CreatePersonRequest 创建员工请求
type CreatePersonRequest struct {
	Name     string `json:"name"     binding:"required,min=2,max=100"`
	Document string `json:"document" binding:"required,min=5,max=30"`
	Phone    string `json:"phone"    binding:"omitempty,max=20"`
}

// UpdatePersonRequest 更新员工请求（部分更新）
type UpdatePersonRequest struct {
	Name     *string `json:"name"     binding:"omitempty,min=2,max=100"`
	Document *string `json:"document" binding:"omitempty,min=5,max=30"`
	Phone    *string `json:"phone"    binding:"omitempty,max=20"`
	IsActive *bool   `json:"is_active"`
}

// PersonListRequest 员工列表查询参数
type PersonListRequest struct {
	IncludeInactive bool `form:"include_inactive"`
}

// PersonResponse 员工信息响应
type PersonResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Document  string `json:"document"`
	Phone     string `json:"phone,omitempty"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
