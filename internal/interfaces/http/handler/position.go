package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ecm-api/internal/domain/entity"
	"ecm-api/internal/domain/repository"
	"ecm-api/internal/interfaces/http/dto"
)

// PositionHandler 职位管理处理器
type PositionHandler struct {
	positions repository.PositionRepository
}

// NewPositionHandler 创建职位管理处理器
func NewPositionHandler(positions repository.PositionRepository) *PositionHandler {
	return &PositionHandler{positions: positions}
}

// Create 创建职位
func (h *PositionHandler) Create(c *gin.Context) {
	var req dto.CreatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	position := &entity.Position{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.positions.Create(c.Request.Context(), position); err != nil {
		dto.Fail(c, err)
		return
	}
	dto.Created(c, position)
}

// Get 查询单个职位
func (h *PositionHandler) Get(c *gin.Context) {
	position, err := h.positions.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.Fail(c, err)
		return
	}
	if position == nil {
		dto.NotFound(c, "position not found")
		return
	}
	dto.Success(c, position)
}

// List 查询职位列表
func (h *PositionHandler) List(c *gin.Context) {
	positions, err := h.positions.List(c.Request.Context())
	if err != nil {
		dto.Fail(c, err)
		return
	}
	dto.Success(c, positions)
}

// Update 更新职位
func (h *PositionHandler) Update(c *gin.Context) {
	var req dto.UpdatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	position, err := h.positions.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.Fail(c, err)
		return
	}
	if position == nil {
		dto.NotFound(c, "position not found")
		return
	}

	if req.Name != nil {
		position.Name = *req.Name
	}
	if req.Description != nil {
		position.Description = *req.Description
	}

	if err := h.positions.Update(c.Request.Context(), position); err != nil {
		dto.Fail(c, err)
		return
	}
	dto.Success(c, position)
}

// Delete 删除职位
func (h *PositionHandler) Delete(c *gin.Context) {
	if err := h.positions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		dto.Fail(c, err)
		return
	}
	dto.NoContent(c)
}
