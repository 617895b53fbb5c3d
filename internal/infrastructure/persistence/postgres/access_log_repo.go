package postgres

import (
	"context"

	apperrors "ecm-api/pkg/errors"

	"ecm-api/internal/domain/entity"
	"ecm-api/internal/domain/repository"
)

// AccessLogRepo 访问日志仓储实现
type AccessLogRepo struct {
	client *Client
}

// NewAccessLogRepo 创建访问日志仓储
func NewAccessLogRepo(client *Client) repository.AccessLogRepository {
	return &AccessLogRepo{client: client}
}

// Create 写入访问日志
func (r *AccessLogRepo) Create(ctx context.Context, log *entity.AccessLog) error {
	ctx, span := tracer.Start(ctx, "AccessLogRepo.Create")
	defer span.End()

	if err := getDB(ctx, r.client.db).Create(log).Error; err != nil {
		span.RecordError(err)
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to create access log")
	}
	return nil
}

// ListByUser 按用户分页查询访问日志
func (r *AccessLogRepo) ListByUser(ctx context.Context, userID string, offset, limit int) ([]*entity.AccessLog, int64, error) {
	ctx, span := tracer.Start(ctx, "AccessLogRepo.ListByUser")
	defer span.End()

	db := getDB(ctx, r.client.db).Model(&entity.AccessLog{}).Where("user_id = ?", userID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, 0, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to count access logs")
	}

	var logs []*entity.AccessLog
	err := db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&logs).Error
	if err != nil {
		span.RecordError(err)
		return nil, 0, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to list access logs")
	}
	return logs, total, nil
}

// ListByDocument 按文档分页查询访问日志
func (r *AccessLogRepo) ListByDocument(ctx context.Context, documentID string, offset, limit int) ([]*entity.AccessLog, int64, error) {
	ctx, span := tracer.Start(ctx, "AccessLogRepo.ListByDocument")
	defer span.End()

	db := getDB(ctx, r.client.db).Model(&entity.AccessLog{}).Where("document_id = ?", documentID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, 0, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to count access logs")
	}

	var logs []*entity.AccessLog
	err := db.Preload("User").Order("created_at DESC").Offset(offset).Limit(limit).Find(&logs).Error
	if err != nil {
		span.RecordError(err)
		return nil, 0, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to list access logs")
	}
	return logs, total, nil
}
