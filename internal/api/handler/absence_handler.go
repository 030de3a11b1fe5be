package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"telar/backend/internal/dto"
	"telar/backend/internal/service"
	"telar/backend/pkg/response"
)

// AbsenceHandler 缺勤记录 HTTP 处理器
type AbsenceHandler struct {
	absenceSvc service.AbsenceService
}

// NewAbsenceHandler 创建 AbsenceHandler
func NewAbsenceHandler(absenceSvc service.AbsenceService) *AbsenceHandler {
	return &AbsenceHandler{absenceSvc: absenceSvc}
}

// ListAbsences 获取缺勤记录列表
// GET /api/v1/absences
func (h *AbsenceHandler) ListAbsences(c *gin.Context) {
	var req dto.AbsenceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	absences, err := h.absenceSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": absences})
}

// GetAbsence 获取缺勤记录详情
// GET /api/v1/absences/:id
func (h *AbsenceHandler) GetAbsence(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	absence, err := h.absenceSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleAbsenceError(c, err)
		return
	}

	response.OK(c, absence)
}

// CreateAbsence 创建缺勤记录
// POST /api/v1/absences
func (h *AbsenceHandler) CreateAbsence(c *gin.Context) {
	var req dto.CreateAbsenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	absence, err := h.absenceSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleAbsenceError(c, err)
		return
	}

	response.Created(c, absence)
}

// UpdateAbsence 更新缺勤记录
// PUT /api/v1/absences/:id
func (h *AbsenceHandler) UpdateAbsence(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateAbsenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	absence, err := h.absenceSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleAbsenceError(c, err)
		return
	}

	response.OK(c, absence)
}

// DeleteAbsence 删除缺勤记录
// DELETE /api/v1/absences/:id
func (h *AbsenceHandler) DeleteAbsence(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.absenceSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleAbsenceError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleAbsenceError 统一处理缺勤记录业务错误
func (h *AbsenceHandler) handleAbsenceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAbsenceNotFound):
		response.NotFound(c, 18001, "缺勤记录不存在")
	case errors.Is(err, service.ErrPersonNotFound):
		response.BadRequest(c, 18002, "关联的员工不存在")
	case errors.Is(err, service.ErrAbsenceTimeSlotInvalid):
		response.BadRequest(c, 18003, "关联的时间段不存在")
	default:
		response.InternalError(c)
	}
}
