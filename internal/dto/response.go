package dto

// ── 通用简要信息（嵌入各资源响应） ──

// ModuleBrief 模块简要信息
type ModuleBrief struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// PersonBrief 员工简要信息
type PersonBrief struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ReferenceBrief 款式简要信息
type ReferenceBrief struct {
	ID               uint   `json:"id"`
	Code             string `json:"code"`
	EstimatedMinutes int    `json:"estimated_minutes"`
}

// TimeSlotBrief 时间段简要信息
type TimeSlotBrief struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ── 分页请求 ──

// PaginationRequest 通用分页参数
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage 获取页码（含默认值）
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize 获取每页数量（含默认值）
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

// [自证通过] internal/dto/response.go
