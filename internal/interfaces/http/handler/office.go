package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ecm-api/internal/domain/entity"
	"ecm-api/internal/domain/repository"
	"ecm-api/internal/interfaces/http/dto"
)

// OfficeHandler 办公室管理处理器
type OfficeHandler struct {
	offices repository.OfficeRepository
}

// NewOfficeHandler 创建办公室管理处理器
func NewOfficeHandler(offices repository.OfficeRepository) *OfficeHandler {
	return &OfficeHandler{offices: offices}
}

// Create 创建办公室
func (h *OfficeHandler) Create(c *gin.Context) {
	var req dto.CreateOfficeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	existing, err := h.offices.GetByName(c.Request.Context(), req.Name)
	if err != nil {
		dto.Fail(c, err)
		return
	}
	if existing != nil {
		dto.Conflict(c, "office name already exists")
		return
	}

	office := &entity.Office{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
	}
	if err := h.offices.Create(c.Request.Context(), office); err != nil {
		dto.Fail(c, err)
		return
	}
	dto.Created(c, office)
}

// Get 查询单个办公室
func (h *OfficeHandler) Get(c *gin.Context) {
	office, err := h.offices.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.Fail(c, err)
		return
	}
	if office == nil {
		dto.NotFound(c, "office not found")
		return
	}
	dto.Success(c, office)
}

// List 查询办公室列表
func (h *OfficeHandler) List(c *gin.Context) {
	offices, err := h.offices.List(c.Request.Context())
	if err != nil {
		dto.Fail(c, err)
		return
	}
	dto.Success(c, offices)
}

// Update 更新办公室
func (h *OfficeHandler) Update(c *gin.Context) {
	var req dto.UpdateOfficeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	office, err := h.offices.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.Fail(c, err)
		return
	}
	if office == nil {
		dto.NotFound(c, "office not found")
		return
	}

	if req.Name != nil {
		office.Name = *req.Name
	}
	if req.Code != nil {
		office.Code = *req.Code
	}
	if req.Description != nil {
		office.Description = *req.Description
	}

	if err := h.offices.Update(c.Request.Context(), office); err != nil {
		dto.Fail(c, err)
		return
	}
	dto.Success(c, office)
}

// Delete 删除办公室
func (h *OfficeHandler) Delete(c *gin.Context) {
	if err := h.offices.Delete(c.Request.Context(), c.Param("id")); err != nil {
		dto.Fail(c, err)
		return
	}
	dto.NoContent(c)
}
