package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"telar/backend/internal/dto"
	"telar/backend/internal/service"
	pkgerrors "telar/backend/pkg/errors"
	"telar/backend/pkg/response"
)

// ReferenceAssignmentHandler 款式分配（进度台账）HTTP 处理器
type ReferenceAssignmentHandler struct {
	assignmentSvc service.ReferenceAssignmentService
}

// NewReferenceAssignmentHandler 创建 ReferenceAssignmentHandler
func NewReferenceAssignmentHandler(assignmentSvc service.ReferenceAssignmentService) *ReferenceAssignmentHandler {
	return &ReferenceAssignmentHandler{assignmentSvc: assignmentSvc}
}

// ListReferenceAssignments 获取款式分配列表
// GET /api/v1/reference-assignments
func (h *ReferenceAssignmentHandler) ListReferenceAssignments(c *gin.Context) {
	var req dto.ReferenceAssignmentListRequest
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

// GetReferenceAssignment 获取款式分配详情
// GET /api/v1/reference-assignments/:id
func (h *ReferenceAssignmentHandler) GetReferenceAssignment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	assignment, err := h.assignmentSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleReferenceAssignmentError(c, err)
		return
	}

	response.OK(c, assignment)
}

// CreateReferenceAssignment 创建款式分配
// POST /api/v1/reference-assignments
func (h *ReferenceAssignmentHandler) CreateReferenceAssignment(c *gin.Context) {
	var req dto.CreateReferenceAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	assignment, err := h.assignmentSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleReferenceAssignmentError(c, err)
		return
	}

	response.Created(c, assignment)
}

// UpdateReferenceAssignment 更新款式分配
// PUT /api/v1/reference-assignments/:id
func (h *ReferenceAssignmentHandler) UpdateReferenceAssignment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateReferenceAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	assignment, err := h.assignmentSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleReferenceAssignmentError(c, err)
		return
	}

	response.OK(c, assignment)
}

// AddProgress 追加产出进度
// POST /api/v1/reference-assignments/:id/progress
func (h *ReferenceAssignmentHandler) AddProgress(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.AddProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	assignment, err := h.assignmentSvc.AddProgress(c.Request.Context(), id, &req)
	if err != nil {
		h.handleReferenceAssignmentError(c, err)
		return
	}

	response.OK(c, assignment)
}

// CompleteReferenceAssignment 手工完工
// POST /api/v1/reference-assignments/:id/complete
func (h *ReferenceAssignmentHandler) CompleteReferenceAssignment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	assignment, err := h.assignmentSvc.Complete(c.Request.Context(), id)
	if err != nil {
		h.handleReferenceAssignmentError(c, err)
		return
	}

	response.OK(c, assignment)
}

// DeleteReferenceAssignment 删除款式分配
// DELETE /api/v1/reference-assignments/:id
func (h *ReferenceAssignmentHandler) DeleteReferenceAssignment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.assignmentSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleReferenceAssignmentError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleReferenceAssignmentError 统一处理款式分配业务错误
func (h *ReferenceAssignmentHandler) handleReferenceAssignmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrReferenceAssignmentNotFound):
		response.NotFound(c, 16001, "款式分配不存在")
	case errors.Is(err, service.ErrModuleNotFound):
		response.BadRequest(c, 16002, "关联的模块不存在")
	case errors.Is(err, service.ErrReferenceNotFound):
		response.BadRequest(c, 16003, "关联的款式不存在")
	case errors.Is(err, service.ErrAssignmentPairTaken):
		response.Conflict(c, 16004, "该模块与款式已存在未完结的分配")
	case errors.Is(err, service.ErrAssignmentCompleted):
		response.Conflict(c, 16005, "分配已完工")
	case errors.Is(err, service.ErrAssignmentTerminal):
		response.Conflict(c, 16006, "分配已处于终态，不可修改")
	case errors.Is(err, service.ErrNegativeMinutes):
		response.BadRequest(c, 16007, "产出分钟数不能为负")
	case errors.Is(err, service.ErrInvalidStatus):
		response.BadRequest(c, 16008, "无效的分配状态")
	case errors.Is(err, service.ErrProgressDateOrder):
		response.BadRequest(c, 16009, "开工日期不能晚于完工日期")
	case errors.Is(err, service.ErrAssignmentHasRecords):
		response.Conflict(c, 16010, "分配下存在生产记录，无法删除")
	case errors.Is(err, pkgerrors.ErrTxConflict):
		response.Conflict(c, 16011, "并发写入冲突，请重试")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/reference_assignment_handler.go
