package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jfuerlinger/DrugManagement/internal/dto"
	"github.com/jfuerlinger/DrugManagement/internal/service"
	"github.com/jfuerlinger/DrugManagement/pkg/response"
)

// SlotHandler 预约模块 HTTP 处理器
type SlotHandler struct {
	slotSvc service.SlotService
}

// NewSlotHandler 创建 SlotHandler
func NewSlotHandler(slotSvc service.SlotService) *SlotHandler {
	return &SlotHandler{slotSvc: slotSvc}
}

// ListSlots 查询可预约时间段
// GET /api/v1/slots?day=2025-09-01 或 ?from=2025-09-01&to=2025-09-07
func (h *SlotHandler) ListSlots(c *gin.Context) {
	var req dto.SlotQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	switch {
	case req.Day != "":
		day, _ := time.Parse(service.DateLayout, req.Day)
		slots, err := h.slotSvc.QueryDay(c.Request.Context(), day)
		if err != nil {
			h.handleSlotError(c, err)
			return
		}
		response.OK(c, slots)

	case req.From != "" && req.To != "":
		from, _ := time.Parse(service.DateLayout, req.From)
		to, _ := time.Parse(service.DateLayout, req.To)
		days, err := h.slotSvc.QueryAvailability(c.Request.Context(), from, to)
		if err != nil {
			h.handleSlotError(c, err)
			return
		}
		response.OK(c, gin.H{"list": days})

	default:
		response.BadRequest(c, 10001, "需提供 day 或同时提供 from 与 to")
	}
}

// BookSlot 预约时间段
// POST /api/v1/bookings
func (h *SlotHandler) BookSlot(c *gin.Context) {
	var req dto.BookSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	requester, err := json.Marshal(req.Requester)
	if err != nil {
		response.InternalError(c)
		return
	}

	booking, err := h.slotSvc.BookSlot(c.Request.Context(), service.SlotKey{
		Date:      req.Date,
		StartTime: req.StartTime,
	}, requester)
	if err != nil {
		h.handleSlotError(c, err)
		return
	}

	response.Created(c, booking)
}

// GetBooking 获取预约详情
// GET /api/v1/bookings/:id
func (h *SlotHandler) GetBooking(c *gin.Context) {
	id, ok := MustGetParam(c, "id", "预约ID不能为空")
	if !ok {
		return
	}

	booking, err := h.slotSvc.GetBooking(c.Request.Context(), id)
	if err != nil {
		h.handleSlotError(c, err)
		return
	}

	response.OK(c, booking)
}

// GetBookingCalendar 下载预约的 iCalendar 文件
// GET /api/v1/bookings/:id/ics
func (h *SlotHandler) GetBookingCalendar(c *gin.Context) {
	id, ok := MustGetParam(c, "id", "预约ID不能为空")
	if !ok {
		return
	}

	ics, err := h.slotSvc.BookingCalendar(c.Request.Context(), id)
	if err != nil {
		h.handleSlotError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="booking-`+id+`.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", ics)
}

// handleSlotError 统一处理预约模块业务错误
func (h *SlotHandler) handleSlotError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSlotNotFound):
		response.NotFound(c, 20001, "预约时间段不存在")
	case errors.Is(err, service.ErrSlotAlreadyBooked):
		response.Conflict(c, 20002, "该时间段已被预约")
	case errors.Is(err, service.ErrRangeTooLarge):
		response.BadRequest(c, 20003, "查询范围超出允许天数")
	case errors.Is(err, service.ErrInvalidRequester):
		response.BadRequest(c, 20004, "预约人信息无效")
	case errors.Is(err, service.ErrBookingNotFound):
		response.NotFound(c, 20005, "预约记录不存在")
	default:
		response.InternalError(c)
	}
}
