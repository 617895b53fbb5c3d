package middleware

import (
	"net/http"

	"ecm-api/internal/domain/entity"

	"github.com/gin-gonic/gin"
)

// Permission 权限类型
type Permission string

// 权限常量定义
const (
	PermDocumentRead    Permission = "document:read"
	PermDocumentWrite   Permission = "document:write"
	PermDocumentDelete  Permission = "document:delete"
	PermSearch          Permission = "search:query"
	PermDownloadApprove Permission = "download:approve"
	PermAdminAccess     Permission = "admin:access"
)

// rolePermissions 角色-权限映射表
var rolePermissions = map[string][]Permission{
	entity.RoleAdmin: {
		PermDocumentRead, PermDocumentWrite, PermDocumentDelete,
		PermSearch, PermDownloadApprove, PermAdminAccess,
	},
	entity.RoleStaff: {
		PermDocumentRead, PermDocumentWrite, PermSearch,
	},
	entity.RoleViewer: {
		PermDocumentRead, PermSearch,
	},
}

// HasPermission 检查角色是否具有指定权限
func HasPermission(role string, perm Permission) bool {
	for _, p := range rolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

// RequirePermission 权限检查中间件
// 检查当前用户是否具有指定权限，否则返回 403
func RequirePermission(perm Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			abortForbidden(c, "missing role in context")
			return
		}

		if !HasPermission(role, perm) {
			abortForbidden(c, "permission denied")
			return
		}

		c.Next()
	}
}

// RequireRole 角色检查中间件
func RequireRole(roles ...string) gin.HandlerFunc {
	roleSet := make(map[string]bool)
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			abortForbidden(c, "missing role in context")
			return
		}

		if !roleSet[role] {
			abortForbidden(c, "role not allowed")
			return
		}

		c.Next()
	}
}

// RequireAdmin 管理员权限检查中间件（便捷方法）
func RequireAdmin() gin.HandlerFunc {
	return RequirePermission(PermAdminAccess)
}

// abortForbidden 终止请求并返回 403
func abortForbidden(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"code":     403,
		"message":  msg,
		"trace_id": c.GetString("trace_id"),
	})
}
