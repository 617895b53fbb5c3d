package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "ecm-api/pkg/errors"

	"ecm-api/internal/domain/entity"
	"ecm-api/internal/domain/repository"
)

// UserRepo 用户仓储实现
type UserRepo struct {
	client *Client
}

// NewUserRepo 创建用户仓储
func NewUserRepo(client *Client) repository.UserRepository {
	return &UserRepo{client: client}
}

// Create 创建用户
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	ctx, span := tracer.Start(ctx, "UserRepo.Create")
	defer span.End()

	if err := getDB(ctx, r.client.db).Create(user).Error; err != nil {
		span.RecordError(err)
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to create user")
	}
	return nil
}

// GetByID 根据 ID 查询用户，未找到时返回 nil, nil
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepo.GetByID")
	defer span.End()

	var user entity.User
	err := getDB(ctx, r.client.db).
		Preload("Office").
		Preload("Position").
		First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to get user")
	}
	return &user, nil
}

// GetByEmail 根据邮箱查询用户，未找到时返回 nil, nil
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepo.GetByEmail")
	defer span.End()

	var user entity.User
	err := getDB(ctx, r.client.db).
		Preload("Office").
		Preload("Position").
		First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to get user by email")
	}
	return &user, nil
}

// Update 更新用户
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	ctx, span := tracer.Start(ctx, "UserRepo.Update")
	defer span.End()

	if err := getDB(ctx, r.client.db).Save(user).Error; err != nil {
		span.RecordError(err)
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to update user")
	}
	return nil
}

// Delete 软删除用户
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "UserRepo.Delete")
	defer span.End()

	if err := getDB(ctx, r.client.db).Delete(&entity.User{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to delete user")
	}
	return nil
}

// List 分页查询用户列表
func (r *UserRepo) List(ctx context.Context, offset, limit int) ([]*entity.User, int64, error) {
	ctx, span := tracer.Start(ctx, "UserRepo.List")
	defer span.End()

	db := getDB(ctx, r.client.db).Model(&entity.User{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, 0, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to count users")
	}

	var users []*entity.User
	err := db.Preload("Office").
		Preload("Position").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&users).Error
	if err != nil {
		span.RecordError(err)
		return nil, 0, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to list users")
	}
	return users, total, nil
}
