package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"telar/backend/internal/dto"
	"telar/backend/internal/service"
	"telar/backend/pkg/response"
)

// ModuleHandler 生产模块 HTTP 处理器
type ModuleHandler struct {
	moduleSvc service.ModuleService
}

// NewModuleHandler 创建 ModuleHandler
func NewModuleHandler(moduleSvc service.ModuleService) *ModuleHandler {
	return &ModuleHandler{moduleSvc: moduleSvc}
}

// ListModules 获取模块列表
// GET /api/v1/modules
func (h *ModuleHandler) ListModules(c *gin.Context) {
	var req dto.ModuleListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	modules, err := h.moduleSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": modules})
}

// GetModule 获取模块详情
// GET /api/v1/modules/:id
func (h *ModuleHandler) GetModule(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	module, err := h.moduleSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleModuleError(c, err)
		return
	}

	response.OK(c, module)
}

// CreateModule 创建模块
// POST /api/v1/modules
func (h *ModuleHandler) CreateModule(c *gin.Context) {
	var req dto.CreateModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	module, err := h.moduleSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleModuleError(c, err)
		return
	}

	response.Created(c, module)
}

// UpdateModule 更新模块
// PUT /api/v1/modules/:id
func (h *ModuleHandler) UpdateModule(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	module, err := h.moduleSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleModuleError(c, err)
		return
	}

	response.OK(c, module)
}

// DeleteModule 删除模块
// DELETE /api/v1/modules/:id
func (h *ModuleHandler) DeleteModule(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.moduleSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleModuleError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleModuleError 统一处理模块业务错误
func (h *ModuleHandler) handleModuleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrModuleNotFound):
		response.NotFound(c, 11001, "模块不存在")
	case errors.Is(err, service.ErrModuleHasWork):
		response.Conflict(c, 11002, "模块存在未完结的款式分配，无法删除")
	default:
		response.InternalError(c)
	}
}
