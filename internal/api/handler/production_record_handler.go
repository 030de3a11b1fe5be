package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"telar/backend/internal/dto"
	"telar/backend/internal/service"
	pkgerrors "telar/backend/pkg/errors"
	"telar/backend/pkg/response"
)

// ProductionRecordHandler 生产记录 HTTP 处理器
type ProductionRecordHandler struct {
	recordSvc service.ProductionRecordService
}

// NewProductionRecordHandler 创建 ProductionRecordHandler
func NewProductionRecordHandler(recordSvc service.ProductionRecordService) *ProductionRecordHandler {
	return &ProductionRecordHandler{recordSvc: recordSvc}
}

// ListProductionRecords 获取生产记录列表（分页）
// GET /api/v1/production-records
func (h *ProductionRecordHandler) ListProductionRecords(c *gin.Context) {
	var req dto.ProductionRecordListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	records, total, err := h.recordSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleProductionRecordError(c, err)
		return
	}

	response.OKPage(c, records, total, req.GetPage(), req.GetPageSize())
}

// GetProductionRecord 获取生产记录详情
// GET /api/v1/production-records/:id
func (h *ProductionRecordHandler) GetProductionRecord(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	rec, err := h.recordSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleProductionRecordError(c, err)
		return
	}

	response.OK(c, rec)
}

// CreateProductionRecord 创建生产记录
// POST /api/v1/production-records
func (h *ProductionRecordHandler) CreateProductionRecord(c *gin.Context) {
	var req dto.CreateProductionRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	rec, err := h.recordSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleProductionRecordError(c, err)
		return
	}

	response.Created(c, rec)
}

// UpdateProductionRecord 更新生产记录
// PUT /api/v1/production-records/:id
func (h *ProductionRecordHandler) UpdateProductionRecord(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateProductionRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	rec, err := h.recordSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleProductionRecordError(c, err)
		return
	}

	response.OK(c, rec)
}

// DeleteProductionRecord 删除生产记录
// DELETE /api/v1/production-records/:id
func (h *ProductionRecordHandler) DeleteProductionRecord(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.recordSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleProductionRecordError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleProductionRecordError 统一处理生产记录业务错误
func (h *ProductionRecordHandler) handleProductionRecordError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProductionRecordNotFound):
		response.NotFound(c, 17001, "生产记录不存在")
	case errors.Is(err, service.ErrRecordModuleAssignmentInvalid):
		response.BadRequest(c, 17002, "上岗分配不存在或无效")
	case errors.Is(err, service.ErrRecordReferenceAssignmentInvalid):
		response.BadRequest(c, 17003, "款式分配不存在或无效")
	case errors.Is(err, service.ErrRecordTimeSlotInvalid):
		response.BadRequest(c, 17004, "时间段不存在或无效")
	case errors.Is(err, service.ErrAssignmentCompleted):
		response.Conflict(c, 17005, "款式分配已完工，不可再登记产出")
	case errors.Is(err, service.ErrAssignmentTerminal):
		response.Conflict(c, 17006, "款式分配已处于终态，不可再登记产出")
	case errors.Is(err, pkgerrors.ErrTxConflict):
		response.Conflict(c, 17007, "并发写入冲突，请重试")
	default:
		response.InternalError(c)
	}
}
