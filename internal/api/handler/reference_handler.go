package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"telar/backend/internal/dto"
	"telar/backend/internal/service"
	"telar/backend/pkg/response"
)

// ReferenceHandler 款式模块 HTTP 处理器
type ReferenceHandler struct {
	referenceSvc service.ReferenceService
}

// NewReferenceHandler 创建 ReferenceHandler
func NewReferenceHandler(referenceSvc service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{referenceSvc: referenceSvc}
}

// ListReferences 获取款式列表
// GET /api/v1/references
func (h *ReferenceHandler) ListReferences(c *gin.Context) {
	var req dto.ReferenceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	references, err := h.referenceSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": references})
}

// GetReference 获取款式详情
// GET /api/v1/references/:id
func (h *ReferenceHandler) GetReference(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	reference, err := h.referenceSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleReferenceError(c, err)
		return
	}

	response.OK(c, reference)
}

// CreateReference 创建款式
// POST /api/v1/references
func (h *ReferenceHandler) CreateReference(c *gin.Context) {
	var req dto.CreateReferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	reference, err := h.referenceSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleReferenceError(c, err)
		return
	}

	response.Created(c, reference)
}

// UpdateReference 更新款式
// PUT /api/v1/references/:id
func (h *ReferenceHandler) UpdateReference(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateReferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	reference, err := h.referenceSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleReferenceError(c, err)
		return
	}

	response.OK(c, reference)
}

// DeleteReference 删除款式
// DELETE /api/v1/references/:id
func (h *ReferenceHandler) DeleteReference(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.referenceSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleReferenceError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleReferenceError 统一处理款式模块业务错误
func (h *ReferenceHandler) handleReferenceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrReferenceNotFound):
		response.NotFound(c, 13001, "款式不存在")
	case errors.Is(err, service.ErrReferenceCodeExists):
		response.Conflict(c, 13002, "款式编码已存在")
	default:
		response.InternalError(c)
	}
}
