package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jfuerlinger/DrugManagement/internal/dto"
	"github.com/jfuerlinger/DrugManagement/internal/service"
	"github.com/jfuerlinger/DrugManagement/pkg/response"
)

// DrugMetadataHandler 药品主数据 HTTP 处理器
type DrugMetadataHandler struct {
	metadataSvc service.DrugMetadataService
}

// NewDrugMetadataHandler 创建 DrugMetadataHandler
func NewDrugMetadataHandler(metadataSvc service.DrugMetadataService) *DrugMetadataHandler {
	return &DrugMetadataHandler{metadataSvc: metadataSvc}
}

// ListDrugMetadata 获取药品主数据列表
// GET /api/v1/drug-metadata?keyword=xxx
func (h *DrugMetadataHandler) ListDrugMetadata(c *gin.Context) {
	var req dto.DrugMetadataListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, err := h.metadataSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// GetDrugMetadata 获取药品主数据详情（含包装规格）
// GET /api/v1/drug-metadata/:id
func (h *DrugMetadataHandler) GetDrugMetadata(c *gin.Context) {
	id, ok := MustGetParam(c, "id", "药品主数据ID不能为空")
	if !ok {
		return
	}

	md, err := h.metadataSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		handleInventoryError(c, err)
		return
	}

	response.OK(c, md)
}

// CreateDrugMetadata 创建药品主数据
// POST /api/v1/drug-metadata
func (h *DrugMetadataHandler) CreateDrugMetadata(c *gin.Context) {
	var req dto.CreateDrugMetadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	md, err := h.metadataSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleInventoryError(c, err)
		return
	}

	response.Created(c, md)
}

// UpdateDrugMetadata 更新药品主数据
// PUT /api/v1/drug-metadata/:id
func (h *DrugMetadataHandler) UpdateDrugMetadata(c *gin.Context) {
	id, ok := MustGetParam(c, "id", "药品主数据ID不能为空")
	if !ok {
		return
	}

	var req dto.UpdateDrugMetadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	md, err := h.metadataSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		handleInventoryError(c, err)
		return
	}

	response.OK(c, md)
}

// DeleteDrugMetadata 删除药品主数据
// DELETE /api/v1/drug-metadata/:id
func (h *DrugMetadataHandler) DeleteDrugMetadata(c *gin.Context) {
	id, ok := MustGetParam(c, "id", "药品主数据ID不能为空")
	if !ok {
		return
	}

	if err := h.metadataSvc.Delete(c.Request.Context(), id); err != nil {
		handleInventoryError(c, err)
		return
	}

	response.OK(c, nil)
}

// ═══════════════════════════════════════════════════════════
// 包装规格
// ═══════════════════════════════════════════════════════════

// PackageSizeHandler 包装规格 HTTP 处理器
type PackageSizeHandler struct {
	packageSizeSvc service.PackageSizeService
}

// NewPackageSizeHandler 创建 PackageSizeHandler
func NewPackageSizeHandler(packageSizeSvc service.PackageSizeService) *PackageSizeHandler {
	return &PackageSizeHandler{packageSizeSvc: packageSizeSvc}
}

// ListPackageSizes 获取包装规格列表
// GET /api/v1/package-sizes?drug_metadata_id=xxx
func (h *PackageSizeHandler) ListPackageSizes(c *gin.Context) {
	var req dto.PackageSizeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, err := h.packageSizeSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// GetPackageSize 获取包装规格详情
// GET /api/v1/package-sizes/:id
func (h *PackageSizeHandler) GetPackageSize(c *gin.Context) {
	id, ok := MustGetParam(c, "id", "包装规格ID不能为空")
	if !ok {
		return
	}

	p, err := h.packageSizeSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		handleInventoryError(c, err)
		return
	}

	response.OK(c, p)
}

// CreatePackageSize 创建包装规格
// POST /api/v1/package-sizes
func (h *PackageSizeHandler) CreatePackageSize(c *gin.Context) {
	var req dto.CreatePackageSizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	p, err := h.packageSizeSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleInventoryError(c, err)
		return
	}

	response.Created(c, p)
}

// UpdatePackageSize 更新包装规格
// PUT /api/v1/package-sizes/:id
func (h *PackageSizeHandler) UpdatePackageSize(c *gin.Context) {
	id, ok := MustGetParam(c, "id", "包装规格ID不能为空")
	if !ok {
		return
	}

	var req dto.UpdatePackageSizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	p, err := h.packageSizeSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		handleInventoryError(c, err)
		return
	}

	response.OK(c, p)
}

// DeletePackageSize 删除包装规格
// DELETE /api/v1/package-sizes/:id
func (h *PackageSizeHandler) DeletePackageSize(c *gin.Context) {
	id, ok := MustGetParam(c, "id", "包装规格ID不能为空")
	if !ok {
		return
	}

	if err := h.packageSizeSvc.Delete(c.Request.Context(), id); err != nil {
		handleInventoryError(c, err)
		return
	}

	response.OK(c, nil)
}
