package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jfuerlinger/DrugManagement/internal/dto"
	"github.com/jfuerlinger/DrugManagement/internal/service"
	"github.com/jfuerlinger/DrugManagement/pkg/response"
)

// PersonHandler 人员 HTTP 处理器
type PersonHandler struct {
	personSvc service.PersonService
}

// NewPersonHandler 创建 PersonHandler
func NewPersonHandler(personSvc service.PersonService) *PersonHandler {
	return &PersonHandler{personSvc: personSvc}
}

// ListPersons GET /api/v1/persons
func (h *PersonHandler) ListPersons(c *gin.Context) {
	list, err := h.personSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// GetPerson GET /api/v1/persons/:id
func (h *PersonHandler) GetPerson(c *gin.Context) {
	id, ok := MustGetParam(c, "id", "人员ID不能为空")
	if !ok {
		return
	}
	p, err := h.personSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		handleInventoryError(c, err)
		return
	}
	response.OK(c, p)
}

// CreatePerson POST /api/v1/persons
func (h *PersonHandler) CreatePerson(c *gin.Context) {
	var req dto.CreatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	p, err := h.personSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleInventoryError(c, err)
		return
	}
	response.Created(c, p)
}

// UpdatePerson PUT /api/v1/persons/:id
func (h *PersonHandler) UpdatePerson(c *gin.Context) {
	id, ok := MustGetParam(c, "id", "人员ID不能为空")
	if !ok {
		return
	}
	var req dto.UpdatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	p, err := h.personSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		handleInventoryError(c, err)
		return
	}
	response.OK(c, p)
}

// DeletePerson DELETE /api/v1/persons/:id
func (h *PersonHandler) DeletePerson(c *gin.Context) {
	id, ok := MustGetParam(c, "id", "人员ID不能为空")
	if !ok {
		return
	}
	if err := h.personSvc.Delete(c.Request.Context(), id); err != nil {
		handleInventoryError(c, err)
		return
	}
	response.OK(c, nil)
}
