package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "ecm-api/pkg/errors"

	"ecm-api/internal/domain/entity"
	"ecm-api/internal/domain/repository"
)

// DownloadRequestRepo 下载申请仓储实现
type DownloadRequestRepo struct {
	client *Client
}

// NewDownloadRequestRepo 创建下载申请仓储
func NewDownloadRequestRepo(client *Client) repository.DownloadRequestRepository {
	return &DownloadRequestRepo{client: client}
}

// Create 创建下载申请
func (r *DownloadRequestRepo) Create(ctx context.Context, req *entity.DownloadRequest) error {
	ctx, span := tracer.Start(ctx, "DownloadRequestRepo.Create")
	defer span.End()

	if err := getDB(ctx, r.client.db).Create(req).Error; err != nil {
		span.RecordError(err)
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to create download request")
	}
	return nil
}

// GetByID 根据 ID 查询下载申请，未找到时返回 nil, nil
func (r *DownloadRequestRepo) GetByID(ctx context.Context, id string) (*entity.DownloadRequest, error) {
	ctx, span := tracer.Start(ctx, "DownloadRequestRepo.GetByID")
	defer span.End()

	var req entity.DownloadRequest
	err := getDB(ctx, r.client.db).
		Preload("Document").
		Preload("Requester").
		First(&req, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to get download request")
	}
	return &req, nil
}

// Update 更新下载申请
func (r *DownloadRequestRepo) Update(ctx context.Context, req *entity.DownloadRequest) error {
	ctx, span := tracer.Start(ctx, "DownloadRequestRepo.Update")
	defer span.End()

	if err := getDB(ctx, r.client.db).Save(req).Error; err != nil {
		span.RecordError(err)
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to update download request")
	}
	return nil
}

// ListByStatus 按状态分页查询下载申请
func (r *DownloadRequestRepo) ListByStatus(ctx context.Context, status string, offset, limit int) ([]*entity.DownloadRequest, int64, error) {
	ctx, span := tracer.Start(ctx, "DownloadRequestRepo.ListByStatus")
	defer span.End()

	db := getDB(ctx, r.client.db).Model(&entity.DownloadRequest{})
	if status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, 0, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to count download requests")
	}

	var reqs []*entity.DownloadRequest
	err := db.Preload("Document").
		Preload("Requester").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&reqs).Error
	if err != nil {
		span.RecordError(err)
		return nil, 0, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to list download requests")
	}
	return reqs, total, nil
}

// ListByRequester 按申请人分页查询下载申请
func (r *DownloadRequestRepo) ListByRequester(ctx context.Context, requesterID string, offset, limit int) ([]*entity.DownloadRequest, int64, error) {
	ctx, span := tracer.Start(ctx, "DownloadRequestRepo.ListByRequester")
	defer span.End()

	db := getDB(ctx, r.client.db).Model(&entity.DownloadRequest{}).Where("requester_id = ?", requesterID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, 0, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to count download requests")
	}

	var reqs []*entity.DownloadRequest
	err := db.Preload("Document").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&reqs).Error
	if err != nil {
		span.RecordError(err)
		return nil, 0, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to list download requests")
	}
	return reqs, total, nil
}

// FindApproved 查找某用户对某文档的已批准申请，未找到时返回 nil, nil
func (r *DownloadRequestRepo) FindApproved(ctx context.Context, documentID, requesterID string) (*entity.DownloadRequest, error) {
	ctx, span := tracer.Start(ctx, "DownloadRequestRepo.FindApproved")
	defer span.End()

	var req entity.DownloadRequest
	err := getDB(ctx, r.client.db).
		Where("document_id = ? AND requester_id = ? AND status = ?",
			documentID, requesterID, entity.DownloadStatusApproved).
		Order("reviewed_at DESC").
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to find approved request")
	}
	return &req, nil
}
