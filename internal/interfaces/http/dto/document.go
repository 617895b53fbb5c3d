package dto

import (
	"time"

	"ecm-api/internal/domain/entity"
)

// UploadDocumentForm 文档上传表单（multipart 元数据部分）
type UploadDocumentForm struct {
	Description string  `form:"description"`
	Year        int     `form:"year"`
	OfficeID    *string `form:"office_id"`
}

// ListDocumentsQuery 文档列表查询参数
type ListDocumentsQuery struct {
	ListQuery
	Category string `form:"category"`
	Type     string `form:"type"`
	Year     int    `form:"year"`
	OfficeID string `form:"office_id"`
	Status   string `form:"status"`
	Keyword  string `form:"keyword"`
}

// DocumentResponse 文档响应
type DocumentResponse struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	Description string    `json:"description,omitempty"`
	Type        string    `json:"type"`
	Size        int64     `json:"size"`
	Year        int       `json:"year,omitempty"`
	Category    string    `json:"category,omitempty"`
	Keywords    []string  `json:"keywords,omitempty"`
	Status      string    `json:"status"`
	FailReason  string    `json:"fail_reason,omitempty"`
	OfficeID    *string   `json:"office_id,omitempty"`
	UploadedBy  string    `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FromDocument 实体转响应
func FromDocument(d *entity.Document) DocumentResponse {
	return DocumentResponse{
		ID:          d.ID,
		Filename:    d.Filename,
		Description: d.Description,
		Type:        d.Type,
		Size:        d.Size,
		Year:        d.Year,
		Category:    d.Category,
		Keywords:    d.Keywords,
		Status:      d.Status,
		FailReason:  d.FailReason,
		OfficeID:    d.OfficeID,
		UploadedBy:  d.UploadedBy,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// FromDocuments 实体列表转响应列表
func FromDocuments(docs []*entity.Document) []DocumentResponse {
	out := make([]DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, FromDocument(d))
	}
	return out
}

// CreateDownloadRequestRequest 提交下载申请
type CreateDownloadRequestRequest struct {
	DocumentID string `json:"document_id" binding:"required,uuid"`
	Reason     string `json:"reason" binding:"max=2000"`
}

// ReviewDownloadRequestRequest 审批下载申请
type ReviewDownloadRequestRequest struct {
	Approve    bool   `json:"approve"`
	ReviewNote string `json:"review_note" binding:"max=2000"`
}
