package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jfuerlinger/DrugManagement/internal/dto"
	"github.com/jfuerlinger/DrugManagement/internal/service"
	"github.com/jfuerlinger/DrugManagement/pkg/response"
)

// ShopHandler 药店 HTTP 处理器
type ShopHandler struct {
	shopSvc service.ShopService
}

// NewShopHandler 创建 ShopHandler
func NewShopHandler(shopSvc service.ShopService) *ShopHandler {
	return &ShopHandler{shopSvc: shopSvc}
}

// ListShops GET /api/v1/shops
func (h *ShopHandler) ListShops(c *gin.Context) {
	list, err := h.shopSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// GetShop GET /api/v1/shops/:id
func (h *ShopHandler) GetShop(c *gin.Context) {
	id, ok := MustGetParam(c, "id", "药店ID不能为空")
	if !ok {
		return
	}
	shop, err := h.shopSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		handleInventoryError(c, err)
		return
	}
	response.OK(c, shop)
}

// CreateShop POST /api/v1/shops
func (h *ShopHandler) CreateShop(c *gin.Context) {
	var req dto.CreateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	shop, err := h.shopSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleInventoryError(c, err)
		return
	}
	response.Created(c, shop)
}

// UpdateShop PUT /api/v1/shops/:id
func (h *ShopHandler) UpdateShop(c *gin.Context) {
	id, ok := MustGetParam(c, "id", "药店ID不能为空")
	if !ok {
		return
	}
	var req dto.UpdateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	shop, err := h.shopSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		handleInventoryError(c, err)
		return
	}
	response.OK(c, shop)
}

// DeleteShop DELETE /api/v1/shops/:id
func (h *ShopHandler) DeleteShop(c *gin.Context) {
	id, ok := MustGetParam(c, "id", "药店ID不能为空")
	if !ok {
		return
	}
	if err := h.shopSvc.Delete(c.Request.Context(), id); err != nil {
		handleInventoryError(c, err)
		return
	}
	response.OK(c, nil)
}
