package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jfuerlinger/DrugManagement/internal/dto"
	"github.com/jfuerlinger/DrugManagement/internal/service"
	"github.com/jfuerlinger/DrugManagement/pkg/response"
)

// Migrator 执行数据库迁移
type Migrator func(ctx context.Context) (*dto.MigrationResponse, error)

// ManagementHandler 运维管理 HTTP 处理器
type ManagementHandler struct {
	slotSvc service.SlotService
	migrate Migrator
}

// NewManagementHandler 创建 ManagementHandler；migrate 为 nil 时迁移接口不可用
func NewManagementHandler(slotSvc service.SlotService, migrate Migrator) *ManagementHandler {
	return &ManagementHandler{slotSvc: slotSvc, migrate: migrate}
}

// MigrateTables 执行数据库迁移
// PATCH /api/v1/management/tables
func (h *ManagementHandler) MigrateTables(c *gin.Context) {
	if h.migrate == nil {
		response.Error(c, http.StatusNotImplemented, 27001, "当前部署未启用迁移接口")
		return
	}

	status, err := h.migrate(c.Request.Context())
	if err != nil {
		response.ErrorWithDetails(c, http.StatusInternalServerError, 27002, "数据库迁移失败", err.Error())
		return
	}

	response.OK(c, status)
}

// SeedData 为当前自然年批量生成时间段
// POST /api/v1/management/data
func (h *ManagementHandler) SeedData(c *gin.Context) {
	result, err := h.slotSvc.SeedCurrentYear(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.Created(c, result)
}

// ClearData 清空全部预约与时间段
// DELETE /api/v1/management/data
func (h *ManagementHandler) ClearData(c *gin.Context) {
	result, err := h.slotSvc.ClearSlots(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
