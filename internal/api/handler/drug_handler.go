package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/jfuerlinger/DrugManagement/internal/dto"
	"github.com/jfuerlinger/DrugManagement/internal/service"
	"github.com/jfuerlinger/DrugManagement/pkg/response"
)

// DrugHandler 药品库存 HTTP 处理器
type DrugHandler struct {
	drugSvc service.DrugService
}

// NewDrugHandler 创建 DrugHandler
func NewDrugHandler(drugSvc service.DrugService) *DrugHandler {
	return &DrugHandler{drugSvc: drugSvc}
}

// ListDrugs 分页获取药品列表（按有效期升序）
// GET /api/v1/drugs
func (h *DrugHandler) ListDrugs(c *gin.Context) {
	var req dto.DrugListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	drugs, total, err := h.drugSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, drugs, total, req.GetPage(), req.GetPageSize())
}

// GetDrug 获取药品详情
// GET /api/v1/drugs/:id
func (h *DrugHandler) GetDrug(c *gin.Context) {
	id, ok := MustGetParam(c, "id", "药品ID不能为空")
	if !ok {
		return
	}

	drug, err := h.drugSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		handleInventoryError(c, err)
		return
	}

	response.OK(c, drug)
}

// CreateDrug 登记药品
// POST /api/v1/drugs
func (h *DrugHandler) CreateDrug(c *gin.Context) {
	var req dto.CreateDrugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	drug, err := h.drugSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleInventoryError(c, err)
		return
	}

	response.Created(c, drug)
}

// UpdateDrug 更新药品（乐观锁）
// PUT /api/v1/drugs/:id
func (h *DrugHandler) UpdateDrug(c *gin.Context) {
	id, ok := MustGetParam(c, "id", "药品ID不能为空")
	if !ok {
		return
	}

	var req dto.UpdateDrugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	drug, err := h.drugSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		handleInventoryError(c, err)
		return
	}

	response.OK(c, drug)
}

// DeleteDrug 删除药品
// DELETE /api/v1/drugs/:id
func (h *DrugHandler) DeleteDrug(c *gin.Context) {
	id, ok := MustGetParam(c, "id", "药品ID不能为空")
	if !ok {
		return
	}

	if err := h.drugSvc.Delete(c.Request.Context(), id); err != nil {
		handleInventoryError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleInventoryError 统一处理库存相关模块的业务错误
func handleInventoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDrugNotFound):
		response.NotFound(c, 21001, "药品不存在")
	case errors.Is(err, service.ErrDrugVersionConflict):
		response.Conflict(c, 21002, "药品已被其他操作修改，请刷新后重试")
	case errors.Is(err, service.ErrPackageSizeMismatch):
		response.BadRequest(c, 21003, "包装规格不属于该药品主数据")
	case errors.Is(err, service.ErrDrugMetadataNotFound):
		response.NotFound(c, 22001, "药品主数据不存在")
	case errors.Is(err, service.ErrDrugMetadataInUse):
		response.Conflict(c, 22002, "药品主数据仍被引用，无法删除")
	case errors.Is(err, service.ErrPackageSizeNotFound):
		response.NotFound(c, 23001, "包装规格不存在")
	case errors.Is(err, service.ErrPackageSizeInUse):
		response.Conflict(c, 23002, "包装规格仍被药品引用，无法删除")
	case errors.Is(err, service.ErrPersonNotFound):
		response.NotFound(c, 24001, "人员不存在")
	case errors.Is(err, service.ErrShopNotFound):
		response.NotFound(c, 25001, "药店不存在")
	default:
		response.InternalError(c)
	}
}
