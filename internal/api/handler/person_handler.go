package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"telar/backend/internal/dto"
	"telar/backend/internal/service"
	"telar/backend/pkg/response"
)

// PersonHandler 员工模块 HTTP 处理器
type PersonHandler struct {
	personSvc service.PersonService
}

// NewPersonHandler 创建 PersonHandler
func NewPersonHandler(personSvc service.PersonService) *PersonHandler {
	return &PersonHandler{personSvc: personSvc}
}

// ListPeople 获取员工列表
// GET /api/v1/people
func (h *PersonHandler) ListPeople(c *gin.Context) {
	var req dto.PersonListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	people, err := h.personSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": people})
}

// GetPerson 获取员工详情
// GET /api/v1/people/:id
func (h *PersonHandler) GetPerson(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	person, err := h.personSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handlePersonError(c, err)
		return
	}

	response.OK(c, person)
}

// CreatePerson 创建员工
// POST /api/v1/people
func (h *PersonHandler) CreatePerson(c *gin.Context) {
	var req dto.CreatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	person, err := h.personSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handlePersonError(c, err)
		return
	}

	response.Created(c, person)
}

// UpdatePerson 更新员工
// PUT /api/v1/people/:id
func (h *PersonHandler) UpdatePerson(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	person, err := h.personSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handlePersonError(c, err)
		return
	}

	response.OK(c, person)
}

// DeletePerson 删除员工
// DELETE /api/v1/people/:id
func (h *PersonHandler) DeletePerson(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.personSvc.Delete(c.Request.Context(), id); err != nil {
		h.handlePersonError(c, err)
		return
	}

	response.OK(c, nil)
}

// handlePersonError 统一处理员工模块业务错误
func (h *PersonHandler) handlePersonError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPersonNotFound):
		response.NotFound(c, 12001, "员工不存在")
	case errors.Is(err, service.ErrPersonDocumentExists):
		response.Conflict(c, 12002, "证件号已存在")
	default:
		response.InternalError(c)
	}
}
