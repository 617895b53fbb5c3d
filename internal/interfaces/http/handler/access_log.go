package handler

import (
	"github.com/gin-gonic/gin"

	"ecm-api/internal/domain/repository"
	"ecm-api/internal/interfaces/http/dto"
)

// AccessLogHandler 访问审计查询处理器
type AccessLogHandler struct {
	logs repository.AccessLogRepository
}

// NewAccessLogHandler 创建访问审计查询处理器
func NewAccessLogHandler(logs repository.AccessLogRepository) *AccessLogHandler {
	return &AccessLogHandler{logs: logs}
}

// ListByUser 查询某用户的访问记录（仅管理员）
func (h *AccessLogHandler) ListByUser(c *gin.Context) {
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		dto.BadRequest(c, "invalid query: "+err.Error())
		return
	}

	logs, total, err := h.logs.ListByUser(c.Request.Context(), c.Param("id"), q.Offset(), q.PageSize)
	if err != nil {
		dto.Fail(c, err)
		return
	}
	dto.SuccessWithPage(c, logs, dto.NewPageMeta(q.Page, q.PageSize, int(total)))
}

// ListByDocument 查询某文档的访问记录（仅管理员）
func (h *AccessLogHandler) ListByDocument(c *gin.Context) {
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		dto.BadRequest(c, "invalid query: "+err.Error())
		return
	}

	logs, total, err := h.logs.ListByDocument(c.Request.Context(), c.Param("id"), q.Offset(), q.PageSize)
	if err != nil {
		dto.Fail(c, err)
		return
	}
	dto.SuccessWithPage(c, logs, dto.NewPageMeta(q.Page, q.PageSize, int(total)))
}
