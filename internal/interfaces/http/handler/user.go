package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ecm-api/internal/domain/entity"
	"ecm-api/internal/domain/repository"
	"ecm-api/internal/interfaces/http/dto"
)

// UserHandler 用户管理处理器
type UserHandler struct {
	users repository.UserRepository
}

// NewUserHandler 创建用户管理处理器
func NewUserHandler(users repository.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// Create 创建用户（仅管理员）
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	existing, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		dto.Fail(c, err)
		return
	}
	if existing != nil {
		dto.Conflict(c, "email already registered")
		return
	}

	user := &entity.User{
		ID:         uuid.NewString(),
		Email:      req.Email,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Role:       req.Role,
		Status:     entity.UserStatusActive,
		OfficeID:   req.OfficeID,
		PositionID: req.PositionID,
	}
	if err := user.SetPassword(req.Password); err != nil {
		dto.InternalError(c, "failed to hash password")
		return
	}

	if err := h.users.Create(c.Request.Context(), user); err != nil {
		dto.Fail(c, err)
		return
	}
	dto.Created(c, dto.FromUser(user))
}

// Get 查询单个用户
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.Fail(c, err)
		return
	}
	if user == nil {
		dto.NotFound(c, "user not found")
		return
	}
	dto.Success(c, dto.FromUser(user))
}

// List 分页查询用户列表
func (h *UserHandler) List(c *gin.Context) {
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		dto.BadRequest(c, "invalid query: "+err.Error())
		return
	}

	users, total, err := h.users.List(c.Request.Context(), q.Offset(), q.PageSize)
	if err != nil {
		dto.Fail(c, err)
		return
	}

	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.FromUser(u))
	}
	dto.SuccessWithPage(c, out, dto.NewPageMeta(q.Page, q.PageSize, int(total)))
}

// Update 更新用户信息（仅管理员）
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.Fail(c, err)
		return
	}
	if user == nil {
		dto.NotFound(c, "user not found")
		return
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Status != nil {
		user.Status = *req.Status
	}
	if req.OfficeID != nil {
		user.OfficeID = req.OfficeID
	}
	if req.PositionID != nil {
		user.PositionID = req.PositionID
	}

	if err := h.users.Update(c.Request.Context(), user); err != nil {
		dto.Fail(c, err)
		return
	}
	dto.Success(c, dto.FromUser(user))
}

// ChangePassword 修改当前用户密码
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		dto.Fail(c, err)
		return
	}
	if user == nil {
		dto.NotFound(c, "user not found")
		return
	}
	if !user.CheckPassword(req.OldPassword) {
		dto.Unauthorized(c, "old password mismatch")
		return
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		dto.InternalError(c, "failed to hash password")
		return
	}
	if err := h.users.Update(c.Request.Context(), user); err != nil {
		dto.Fail(c, err)
		return
	}
	dto.NoContent(c)
}

// Delete 删除用户（仅管理员）
func (h *UserHandler) Delete(c *gin.Context) {
	if c.Param("id") == c.GetString("user_id") {
		dto.BadRequest(c, "cannot delete yourself")
		return
	}
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		dto.Fail(c, err)
		return
	}
	dto.NoContent(c)
}
