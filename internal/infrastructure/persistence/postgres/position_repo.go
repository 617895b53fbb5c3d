package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "ecm-api/pkg/errors"

	"ecm-api/internal/domain/entity"
	"ecm-api/internal/domain/repository"
)

// PositionRepo 职位仓储实现
type PositionRepo struct {
	client *Client
}

// NewPositionRepo 创建职位仓储
func NewPositionRepo(client *Client) repository.PositionRepository {
	return &PositionRepo{client: client}
}

// Create 创建职位
func (r *PositionRepo) Create(ctx context.Context, position *entity.Position) error {
	ctx, span := tracer.Start(ctx, "PositionRepo.Create")
	defer span.End()

	if err := getDB(ctx, r.client.db).Create(position).Error; err != nil {
		span.RecordError(err)
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to create position")
	}
	return nil
}

// GetByID 根据 ID 查询职位，未找到时返回 nil, nil
func (r *PositionRepo) GetByID(ctx context.Context, id string) (*entity.Position, error) {
	ctx, span := tracer.Start(ctx, "PositionRepo.GetByID")
	defer span.End()

	var position entity.Position
	err := getDB(ctx, r.client.db).First(&position, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to get position")
	}
	return &position, nil
}

// Update 更新职位
func (r *PositionRepo) Update(ctx context.Context, position *entity.Position) error {
	ctx, span := tracer.Start(ctx, "PositionRepo.Update")
	defer span.End()

	if err := getDB(ctx, r.client.db).Save(position).Error; err != nil {
		span.RecordError(err)
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to update position")
	}
	return nil
}

// Delete 软删除职位
func (r *PositionRepo) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "PositionRepo.Delete")
	defer span.End()

	if err := getDB(ctx, r.client.db).Delete(&entity.Position{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to delete position")
	}
	return nil
}

// List 查询全部职位
func (r *PositionRepo) List(ctx context.Context) ([]*entity.Position, error) {
	ctx, span := tracer.Start(ctx, "PositionRepo.List")
	defer span.End()

	var positions []*entity.Position
	if err := getDB(ctx, r.client.db).Order("name ASC").Find(&positions).Error; err != nil {
		span.RecordError(err)
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to list positions")
	}
	return positions, nil
}
