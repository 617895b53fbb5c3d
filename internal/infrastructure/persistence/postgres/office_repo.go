package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "ecm-api/pkg/errors"

	"ecm-api/internal/domain/entity"
	"ecm-api/internal/domain/repository"
)

// OfficeRepo 办公室仓储实现
type OfficeRepo struct {
	client *Client
}

// NewOfficeRepo 创建办公室仓储
func NewOfficeRepo(client *Client) repository.OfficeRepository {
	return &OfficeRepo{client: client}
}

// Create 创建办公室
func (r *OfficeRepo) Create(ctx context.Context, office *entity.Office) error {
	ctx, span := tracer.Start(ctx, "OfficeRepo.Create")
	defer span.End()

	if err := getDB(ctx, r.client.db).Create(office).Error; err != nil {
		span.RecordError(err)
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to create office")
	}
	return nil
}

// GetByID 根据 ID 查询办公室，未找到时返回 nil, nil
func (r *OfficeRepo) GetByID(ctx context.Context, id string) (*entity.Office, error) {
	ctx, span := tracer.Start(ctx, "OfficeRepo.GetByID")
	defer span.End()

	var office entity.Office
	err := getDB(ctx, r.client.db).First(&office, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to get office")
	}
	return &office, nil
}

// GetByName 根据名称查询办公室，未找到时返回 nil, nil
func (r *OfficeRepo) GetByName(ctx context.Context, name string) (*entity.Office, error) {
	ctx, span := tracer.Start(ctx, "OfficeRepo.GetByName")
	defer span.End()

	var office entity.Office
	err := getDB(ctx, r.client.db).First(&office, "name = ?", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to get office by name")
	}
	return &office, nil
}

// Update 更新办公室
func (r *OfficeRepo) Update(ctx context.Context, office *entity.Office) error {
	ctx, span := tracer.Start(ctx, "OfficeRepo.Update")
	defer span.End()

	if err := getDB(ctx, r.client.db).Save(office).Error; err != nil {
		span.RecordError(err)
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to update office")
	}
	return nil
}

// Delete 软删除办公室
func (r *OfficeRepo) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "OfficeRepo.Delete")
	defer span.End()

	if err := getDB(ctx, r.client.db).Delete(&entity.Office{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to delete office")
	}
	return nil
}

// List 查询全部办公室
func (r *OfficeRepo) List(ctx context.Context) ([]*entity.Office, error) {
	ctx, span := tracer.Start(ctx, "OfficeRepo.List")
	defer span.End()

	var offices []*entity.Office
	if err := getDB(ctx, r.client.db).Order("name ASC").Find(&offices).Error; err != nil {
		span.RecordError(err)
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to list offices")
	}
	return offices, nil
}
