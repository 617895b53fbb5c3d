// Package main 初始化工具入口
// 执行数据库迁移、向量集合创建和管理员账号种子。
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"ecm-api/internal/config"
	"ecm-api/internal/domain/entity"
	"ecm-api/internal/domain/repository"
	"ecm-api/internal/infrastructure/persistence/milvus"
	"ecm-api/internal/wire"
	"ecm-api/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	ctx := context.Background()

	dl, cleanup, err := wire.NewDataLayer(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, "failed to init data layer", err)
	}
	defer cleanup()

	logger.Info(ctx, "running database migration")
	if err := dl.PgClient.AutoMigrate(); err != nil {
		logger.Fatal(ctx, "migration failed", err)
	}
	logger.Info(ctx, "database migration done")

	if repo, ok := dl.VectorRepo.(*milvus.Repository); ok {
		logger.Info(ctx, "ensuring vector collection")
		if err := repo.EnsureCollection(ctx); err != nil {
			logger.Error(ctx, "failed to ensure vector collection, search will fall back to scan", err)
		} else {
			logger.Info(ctx, "vector collection ready")
		}
	}

	if err := seedOffice(ctx, dl.OfficeRepo); err != nil {
		logger.Fatal(ctx, "failed to seed default office", err)
	}
	if err := seedAdmin(ctx, dl.UserRepo); err != nil {
		logger.Fatal(ctx, "failed to seed admin user", err)
	}

	logger.Info(ctx, "bootstrap completed")
}

// seedOffice 创建默认办公室，已存在时跳过
func seedOffice(ctx context.Context, offices repository.OfficeRepository) error {
	const name = "General Administration"

	existing, err := offices.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil {
		logger.Info(ctx, "default office already exists", "name", name)
		return nil
	}

	office := &entity.Office{
		ID:   uuid.NewString(),
		Name: name,
		Code: "GA",
	}
	if err := offices.Create(ctx, office); err != nil {
		return err
	}

	logger.Info(ctx, "default office created", "name", name)
	return nil
}

// seedAdmin 创建初始管理员账号，已存在时跳过
func seedAdmin(ctx context.Context, users repository.UserRepository) error {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "changeme123"
	}

	existing, err := users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		logger.Info(ctx, "admin user already exists", "email", email)
		return nil
	}

	admin := &entity.User{
		ID:        uuid.NewString(),
		Email:     email,
		FirstName: "System",
		LastName:  "Administrator",
		Role:      entity.RoleAdmin,
		Status:    entity.UserStatusActive,
	}
	if err := admin.SetPassword(password); err != nil {
		return err
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}

	logger.Info(ctx, "admin user created", "email", email)
	return nil
}
