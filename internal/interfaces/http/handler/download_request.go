package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ecm-api/internal/domain/entity"
	"ecm-api/internal/domain/repository"
	"ecm-api/internal/interfaces/http/dto"
)

// DownloadRequestHandler 下载审批处理器
type DownloadRequestHandler struct {
	requests repository.DownloadRequestRepository
	docs     repository.DocumentRepository
}

// NewDownloadRequestHandler 创建下载审批处理器
func NewDownloadRequestHandler(
	requests repository.DownloadRequestRepository,
	docs repository.DocumentRepository,
) *DownloadRequestHandler {
	return &DownloadRequestHandler{
		requests: requests,
		docs:     docs,
	}
}

// Create 提交下载申请
func (h *DownloadRequestHandler) Create(c *gin.Context) {
	var req dto.CreateDownloadRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	doc, err := h.docs.GetByID(c.Request.Context(), req.DocumentID)
	if err != nil {
		dto.Fail(c, err)
		return
	}
	if doc == nil {
		dto.NotFound(c, "document not found")
		return
	}

	userID := c.GetString("user_id")

	// 已有批准的申请则无需重复提交
	approved, err := h.requests.FindApproved(c.Request.Context(), req.DocumentID, userID)
	if err != nil {
		dto.Fail(c, err)
		return
	}
	if approved != nil {
		dto.Conflict(c, "download already approved")
		return
	}

	request := &entity.DownloadRequest{
		ID:          uuid.NewString(),
		DocumentID:  req.DocumentID,
		RequesterID: userID,
		Reason:      req.Reason,
		Status:      entity.DownloadStatusPending,
	}
	if err := h.requests.Create(c.Request.Context(), request); err != nil {
		dto.Fail(c, err)
		return
	}
	dto.Created(c, request)
}

// ListMine 查询当前用户的申请列表
func (h *DownloadRequestHandler) ListMine(c *gin.Context) {
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		dto.BadRequest(c, "invalid query: "+err.Error())
		return
	}

	requests, total, err := h.requests.ListByRequester(
		c.Request.Context(), c.GetString("user_id"), q.Offset(), q.PageSize)
	if err != nil {
		dto.Fail(c, err)
		return
	}
	dto.SuccessWithPage(c, requests, dto.NewPageMeta(q.Page, q.PageSize, int(total)))
}

// ListPending 查询待审批申请（仅管理员）
func (h *DownloadRequestHandler) ListPending(c *gin.Context) {
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		dto.BadRequest(c, "invalid query: "+err.Error())
		return
	}

	requests, total, err := h.requests.ListByStatus(
		c.Request.Context(), entity.DownloadStatusPending, q.Offset(), q.PageSize)
	if err != nil {
		dto.Fail(c, err)
		return
	}
	dto.SuccessWithPage(c, requests, dto.NewPageMeta(q.Page, q.PageSize, int(total)))
}

// Review 审批下载申请（仅管理员）
func (h *DownloadRequestHandler) Review(c *gin.Context) {
	var req dto.ReviewDownloadRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	request, err := h.requests.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.Fail(c, err)
		return
	}
	if request == nil {
		dto.NotFound(c, "download request not found")
		return
	}
	if !request.IsPending() {
		dto.Conflict(c, "request already reviewed")
		return
	}

	reviewer := c.GetString("user_id")
	now := time.Now()
	request.Status = entity.DownloadStatusRejected
	if req.Approve {
		request.Status = entity.DownloadStatusApproved
	}
	request.ReviewedBy = &reviewer
	request.ReviewNote = req.ReviewNote
	request.ReviewedAt = &now

	if err := h.requests.Update(c.Request.Context(), request); err != nil {
		dto.Fail(c, err)
		return
	}
	dto.Success(c, request)
}
