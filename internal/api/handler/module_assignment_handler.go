package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"telar/backend/internal/dto"
	"telar/backend/internal/service"
	"telar/backend/pkg/response"
)

// ModuleAssignmentHandler 人员分配 HTTP 处理器
type ModuleAssignmentHandler struct {
	assignmentSvc service.ModuleAssignmentService
}

// NewModuleAssignmentHandler 创建 ModuleAssignmentHandler
func NewModuleAssignmentHandler(assignmentSvc service.ModuleAssignmentService) *ModuleAssignmentHandler {
	return &ModuleAssignmentHandler{assignmentSvc: assignmentSvc}
}

// ListModuleAssignments 获取人员分配列表
// GET /api/v1/module-assignments
func (h *ModuleAssignmentHandler) ListModuleAssignments(c *gin.Context) {
	var req dto.ModuleAssignmentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	assignments, err := h.assignmentSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": assignments})
}

// GetModuleAssignment 获取人员分配详情
// GET /api/v1/module-assignments/:id
func (h *ModuleAssignmentHandler) GetModuleAssignment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	assignment, err := h.assignmentSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleModuleAssignmentError(c, err)
		return
	}

	response.OK(c, assignment)
}

// CreateModuleAssignment 创建人员分配
// POST /api/v1/module-assignments
func (h *ModuleAssignmentHandler) CreateModuleAssignment(c *gin.Context) {
	var req dto.CreateModuleAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	assignment, err := h.assignmentSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleModuleAssignmentError(c, err)
		return
	}

	response.Created(c, assignment)
}

// UpdateModuleAssignment 更新人员分配
// PUT /api/v1/module-assignments/:id
func (h *ModuleAssignmentHandler) UpdateModuleAssignment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateModuleAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	assignment, err := h.assignmentSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleModuleAssignmentError(c, err)
		return
	}

	response.OK(c, assignment)
}

// DeleteModuleAssignment 删除人员分配
// DELETE /api/v1/module-assignments/:id
func (h *ModuleAssignmentHandler) DeleteModuleAssignment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.assignmentSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleModuleAssignmentError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleModuleAssignmentError 统一处理人员分配业务错误
func (h *ModuleAssignmentHandler) handleModuleAssignmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrModuleAssignmentNotFound):
		response.NotFound(c, 15001, "人员分配不存在")
	case errors.Is(err, service.ErrPersonNotFound):
		response.BadRequest(c, 15002, "关联的员工不存在")
	case errors.Is(err, service.ErrModuleNotFound):
		response.BadRequest(c, 15003, "关联的模块不存在")
	case errors.Is(err, service.ErrPersonAlreadyAssigned):
		response.Conflict(c, 15004, "该员工已有启用中的模块分配")
	case errors.Is(err, service.ErrAssignmentDateOrder):
		response.BadRequest(c, 15005, "开始日期不能晚于结束日期")
	default:
		response.InternalError(c)
	}
}
