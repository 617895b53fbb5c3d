package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "ecm-api/pkg/errors"

	"ecm-api/internal/domain/entity"
	"ecm-api/internal/domain/repository"
)

// DocumentRepo 文档仓储实现
type DocumentRepo struct {
	client *Client
}

// NewDocumentRepo 创建文档仓储
func NewDocumentRepo(client *Client) repository.DocumentRepository {
	return &DocumentRepo{client: client}
}

// Create 创建文档
func (r *DocumentRepo) Create(ctx context.Context, doc *entity.Document) error {
	ctx, span := tracer.Start(ctx, "DocumentRepo.Create")
	defer span.End()

	if err := getDB(ctx, r.client.db).Create(doc).Error; err != nil {
		span.RecordError(err)
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to create document")
	}
	return nil
}

// GetByID 根据 ID 查询文档，未找到时返回 nil, nil
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	ctx, span := tracer.Start(ctx, "DocumentRepo.GetByID")
	defer span.End()

	var doc entity.Document
	err := getDB(ctx, r.client.db).
		Preload("Office").
		Preload("Uploader").
		First(&doc, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to get document")
	}
	return &doc, nil
}

// Update 更新文档
func (r *DocumentRepo) Update(ctx context.Context, doc *entity.Document) error {
	ctx, span := tracer.Start(ctx, "DocumentRepo.Update")
	defer span.End()

	if err := getDB(ctx, r.client.db).Save(doc).Error; err != nil {
		span.RecordError(err)
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to update document")
	}
	return nil
}

// Delete 软删除文档
func (r *DocumentRepo) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "DocumentRepo.Delete")
	defer span.End()

	if err := getDB(ctx, r.client.db).Delete(&entity.Document{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to delete document")
	}
	return nil
}

// List 按过滤条件分页查询文档
func (r *DocumentRepo) List(ctx context.Context, filter repository.DocumentFilter) ([]*entity.Document, int64, error) {
	ctx, span := tracer.Start(ctx, "DocumentRepo.List")
	defer span.End()

	db := getDB(ctx, r.client.db).Model(&entity.Document{})

	if filter.Category != "" {
		db = db.Where("category = ?", filter.Category)
	}
	if filter.Type != "" {
		db = db.Where("type = ?", filter.Type)
	}
	if filter.Year != 0 {
		db = db.Where("year = ?", filter.Year)
	}
	if filter.OfficeID != "" {
		db = db.Where("office_id = ?", filter.OfficeID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Keyword != "" {
		pattern := fmt.Sprintf("%%%s%%", filter.Keyword)
		db = db.Where("filename ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, 0, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to count documents")
	}

	var docs []*entity.Document
	err := db.Preload("Office").
		Order("created_at DESC").
		Offset(filter.Offset).Limit(filter.Limit).
		Find(&docs).Error
	if err != nil {
		span.RecordError(err)
		return nil, 0, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to list documents")
	}
	return docs, total, nil
}

// ListWithEmbeddings 查询所有已向量化且可检索的文档
func (r *DocumentRepo) ListWithEmbeddings(ctx context.Context) ([]*entity.Document, error) {
	ctx, span := tracer.Start(ctx, "DocumentRepo.ListWithEmbeddings")
	defer span.End()

	var docs []*entity.Document
	err := getDB(ctx, r.client.db).
		Where("status = ?", entity.DocumentStatusReady).
		Where("embedding IS NOT NULL").
		Find(&docs).Error
	if err != nil {
		span.RecordError(err)
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to list embedded documents")
	}
	return docs, nil
}

// UpdateProcessingResult 写回提取/分类/向量化结果
func (r *DocumentRepo) UpdateProcessingResult(ctx context.Context, doc *entity.Document) error {
	ctx, span := tracer.Start(ctx, "DocumentRepo.UpdateProcessingResult")
	defer span.End()

	err := getDB(ctx, r.client.db).
		Model(&entity.Document{}).
		Where("id = ?", doc.ID).
		Updates(map[string]interface{}{
			"extracted_text": doc.ExtractedText,
			"category":       doc.Category,
			"keywords":       doc.Keywords,
			"embedding":      doc.Embedding,
			"status":         doc.Status,
			"fail_reason":    doc.FailReason,
		}).Error
	if err != nil {
		span.RecordError(err)
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to update processing result")
	}
	return nil
}
