package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ecm-api/internal/application/ingest"
	"ecm-api/internal/domain/entity"
	"ecm-api/internal/domain/repository"
	"ecm-api/internal/infrastructure/extract"
	"ecm-api/internal/infrastructure/messaging"
	"ecm-api/internal/infrastructure/persistence/redis"
	"ecm-api/internal/infrastructure/storage"
	"ecm-api/internal/interfaces/http/dto"
	"ecm-api/pkg/logger"
	"ecm-api/pkg/metrics"
)

// DocumentHandler 文档管理处理器
type DocumentHandler struct {
	docs      repository.DocumentRepository
	requests  repository.DownloadRequestRepository
	logs      repository.AccessLogRepository
	vectors   repository.VectorRepository
	store     *storage.LocalStore
	cache     *redis.Cache
	producer  *messaging.Producer
	ingestSvc *ingest.Service
}

// NewDocumentHandler 创建文档管理处理器
// producer 为 nil 时文档处理在进程内异步执行
func NewDocumentHandler(
	docs repository.DocumentRepository,
	requests repository.DownloadRequestRepository,
	logs repository.AccessLogRepository,
	vectors repository.VectorRepository,
	store *storage.LocalStore,
	cache *redis.Cache,
	producer *messaging.Producer,
	ingestSvc *ingest.Service,
) *DocumentHandler {
	return &DocumentHandler{
		docs:      docs,
		requests:  requests,
		logs:      logs,
		vectors:   vectors,
		store:     store,
		cache:     cache,
		producer:  producer,
		ingestSvc: ingestSvc,
	}
}

// Upload 上传文档并触发处理流水线
func (h *DocumentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		dto.BadRequest(c, "missing file field")
		return
	}

	var form dto.UploadDocumentForm
	if err := c.ShouldBind(&form); err != nil {
		dto.BadRequest(c, "invalid form: "+err.Error())
		return
	}

	docType := extract.DetectType(fileHeader.Filename)
	if docType == "" {
		dto.BadRequest(c, "unsupported file type")
		return
	}
	if max := h.store.MaxFileSize(); max > 0 && fileHeader.Size > max {
		dto.BadRequest(c, "file too large")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		dto.InternalError(c, "failed to read upload")
		return
	}
	defer f.Close()

	relPath, err := h.store.Save(c.Request.Context(), fileHeader.Filename, f)
	if err != nil {
		dto.InternalError(c, "failed to store file")
		return
	}

	year := form.Year
	if year == 0 {
		year = time.Now().Year()
	}

	doc := &entity.Document{
		ID:          uuid.NewString(),
		Filename:    fileHeader.Filename,
		Filepath:    relPath,
		Description: form.Description,
		Type:        docType,
		Size:        fileHeader.Size,
		Year:        year,
		Status:      entity.DocumentStatusPending,
		OfficeID:    form.OfficeID,
		UploadedBy:  c.GetString("user_id"),
	}

	if err := h.docs.Create(c.Request.Context(), doc); err != nil {
		// 入库失败时清理已落盘的文件
		_ = h.store.Delete(c.Request.Context(), relPath)
		dto.Fail(c, err)
		return
	}

	metrics.DocumentsUploadedTotal.WithLabelValues(docType).Inc()
	h.recordAccess(c, doc.ID, entity.AccessActionUpload, doc.Filename)
	h.dispatchIngest(c, doc)

	dto.Accepted(c, dto.FromDocument(doc))
}

// dispatchIngest 下发处理任务：优先走消息队列，未启用时进程内异步处理
func (h *DocumentHandler) dispatchIngest(c *gin.Context, doc *entity.Document) {
	ctx := c.Request.Context()
	if h.producer != nil {
		_, err := h.producer.PublishIngestJob(ctx, &messaging.IngestJobMessage{
			JobID:      uuid.NewString(),
			DocumentID: doc.ID,
			UploadedBy: doc.UploadedBy,
			RequestID:  c.GetString("request_id"),
		})
		if err == nil {
			return
		}
		logger.Warn(ctx, "failed to publish ingest job, processing inline", "error", err, "document_id", doc.ID)
	}

	if h.ingestSvc != nil {
		go func(documentID string) {
			bg, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			if err := h.ingestSvc.Process(bg, documentID); err != nil {
				logger.Error(bg, "inline ingest failed", err, "document_id", documentID)
			}
		}(doc.ID)
	}
}

// Get 查询文档详情
func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.docs.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.Fail(c, err)
		return
	}
	if doc == nil {
		dto.NotFound(c, "document not found")
		return
	}

	h.recordAccess(c, doc.ID, entity.AccessActionView, "")
	dto.Success(c, dto.FromDocument(doc))
}

// List 按条件分页查询文档
func (h *DocumentHandler) List(c *gin.Context) {
	var q dto.ListDocumentsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		dto.BadRequest(c, "invalid query: "+err.Error())
		return
	}

	docs, total, err := h.docs.List(c.Request.Context(), repository.DocumentFilter{
		Category: q.Category,
		Type:     q.Type,
		Year:     q.Year,
		OfficeID: q.OfficeID,
		Status:   q.Status,
		Keyword:  q.Keyword,
		Offset:   q.Offset(),
		Limit:    q.PageSize,
	})
	if err != nil {
		dto.Fail(c, err)
		return
	}

	dto.SuccessWithPage(c, dto.FromDocuments(docs), dto.NewPageMeta(q.Page, q.PageSize, int(total)))
}

// Download 下载文档原件
// 非管理员需持有已批准的下载申请
func (h *DocumentHandler) Download(c *gin.Context) {
	doc, err := h.docs.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.Fail(c, err)
		return
	}
	if doc == nil {
		dto.NotFound(c, "document not found")
		return
	}

	userID := c.GetString("user_id")
	if c.GetString("role") != entity.RoleAdmin && doc.UploadedBy != userID {
		approved, err := h.requests.FindApproved(c.Request.Context(), doc.ID, userID)
		if err != nil {
			dto.Fail(c, err)
			return
		}
		if approved == nil {
			dto.Forbidden(c, "download not approved, submit a download request first")
			return
		}
	}

	h.recordAccess(c, doc.ID, entity.AccessActionDownload, doc.Filename)
	c.FileAttachment(h.store.FullPath(doc.Filepath), doc.Filename)
}

// Reprocess 重跑文档处理流水线（仅管理员）
func (h *DocumentHandler) Reprocess(c *gin.Context) {
	doc, err := h.docs.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.Fail(c, err)
		return
	}
	if doc == nil {
		dto.NotFound(c, "document not found")
		return
	}

	h.invalidateCache(c.Request.Context(), doc.ID)
	h.dispatchIngest(c, doc)
	dto.Accepted(c, dto.FromDocument(doc))
}

// Delete 删除文档及其文件和向量
func (h *DocumentHandler) Delete(c *gin.Context) {
	doc, err := h.docs.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.Fail(c, err)
		return
	}
	if doc == nil {
		dto.NotFound(c, "document not found")
		return
	}

	if err := h.docs.Delete(c.Request.Context(), doc.ID); err != nil {
		dto.Fail(c, err)
		return
	}

	// 文件和向量清理失败不回滚删除，仅记录
	if err := h.store.Delete(c.Request.Context(), doc.Filepath); err != nil {
		logger.Warn(c.Request.Context(), "failed to remove stored file", "error", err, "document_id", doc.ID)
	}
	if h.vectors != nil && h.vectors.Available() {
		if err := h.vectors.Delete(c.Request.Context(), doc.ID); err != nil {
			logger.Warn(c.Request.Context(), "failed to remove vector", "error", err, "document_id", doc.ID)
		}
	}
	h.invalidateCache(c.Request.Context(), doc.ID)

	h.recordAccess(c, doc.ID, entity.AccessActionDelete, doc.Filename)
	dto.NoContent(c)
}

// invalidateCache 使文档和检索缓存失效
func (h *DocumentHandler) invalidateCache(ctx context.Context, documentID string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.InvalidateDocument(ctx, documentID); err != nil {
		logger.Warn(ctx, "failed to invalidate cache", "error", err, "document_id", documentID)
	}
}

// recordAccess 记录访问审计，失败不影响主流程
func (h *DocumentHandler) recordAccess(c *gin.Context, documentID, action, detail string) {
	if h.logs == nil {
		return
	}
	log := &entity.AccessLog{
		ID:         uuid.NewString(),
		UserID:     c.GetString("user_id"),
		DocumentID: &documentID,
		Action:     action,
		Detail:     detail,
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	}
	if err := h.logs.Create(c.Request.Context(), log); err != nil {
		logger.Warn(c.Request.Context(), "failed to record access log", "error", err, "action", action)
	}
}
