package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ecm-api/internal/config"
	"ecm-api/internal/domain/entity"
	"ecm-api/internal/domain/repository"
	"ecm-api/internal/interfaces/http/dto"
	"ecm-api/pkg/logger"
	"ecm-api/pkg/utils"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	users repository.UserRepository
	jwt   *utils.JWTManager
	cfg   config.JWTConfig
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(users repository.UserRepository, cfg config.JWTConfig) *AuthHandler {
	return &AuthHandler{
		users: users,
		jwt:   utils.NewJWTManager(cfg.Secret, cfg.Issuer),
		cfg:   cfg,
	}
}

// refreshCookieName 存放 RefreshToken 的 HttpOnly Cookie 名
const refreshCookieName = "refresh_token"

// Register 自助注册，新用户固定为 viewer 角色
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
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
		ID:        uuid.NewString(),
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      entity.RoleViewer,
		Status:    entity.UserStatusActive,
	}
	if err := user.SetPassword(req.Password); err != nil {
		dto.InternalError(c, "failed to process password")
		return
	}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		dto.Fail(c, err)
		return
	}

	dto.Created(c, dto.FromUser(user))
}

// Login 邮箱密码登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		dto.Fail(c, err)
		return
	}
	// 用户不存在和密码错误返回同一响应，避免枚举账号
	if user == nil || !user.CheckPassword(req.Password) {
		dto.Unauthorized(c, "invalid email or password")
		return
	}
	if !user.IsActive() {
		dto.Forbidden(c, "account is inactive")
		return
	}

	pair, err := h.jwt.GenerateTokenPair(user.ID, user.Email, user.Role, h.cfg.AccessTTL, h.cfg.RefreshTTL)
	if err != nil {
		dto.InternalError(c, "failed to issue token")
		return
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := h.users.Update(c.Request.Context(), user); err != nil {
		logger.Warn(c.Request.Context(), "failed to update last login time", "error", err)
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	dto.Success(c, dto.LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         dto.FromUser(user),
	})
}

// Refresh 用 RefreshToken 换取新 Token 对
// 请求体未携带时回退读取 HttpOnly Cookie
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	_ = c.ShouldBindJSON(&req)
	if req.RefreshToken == "" {
		req.RefreshToken, _ = c.Cookie(refreshCookieName)
	}
	if req.RefreshToken == "" {
		dto.BadRequest(c, "missing refresh token")
		return
	}

	claims, err := h.jwt.ParseToken(req.RefreshToken)
	if err != nil {
		dto.Unauthorized(c, "invalid refresh token")
		return
	}
	if claims.Type != "refresh" {
		dto.Unauthorized(c, "invalid token type")
		return
	}

	// 重新读取用户，角色或状态可能已变化
	user, err := h.users.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		dto.Fail(c, err)
		return
	}
	if user == nil || !user.IsActive() {
		dto.Unauthorized(c, "account unavailable")
		return
	}

	pair, err := h.jwt.GenerateTokenPair(user.ID, user.Email, user.Role, h.cfg.AccessTTL, h.cfg.RefreshTTL)
	if err != nil {
		dto.InternalError(c, "failed to issue token")
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	dto.Success(c, dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Logout 退出登录，清除 RefreshToken Cookie
// AccessToken 无状态，到期自然失效
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(refreshCookieName, "", -1, "/api/v1/auth", "", false, true)
	dto.NoContent(c)
}

// setRefreshCookie 将 RefreshToken 写入 HttpOnly Cookie
func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	c.SetCookie(refreshCookieName, token, int(h.cfg.RefreshTTL.Seconds()), "/api/v1/auth", "", false, true)
}

// Me 返回当前登录用户信息
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), c.GetString("user_id"))
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
