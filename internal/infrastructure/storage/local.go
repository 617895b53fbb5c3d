// Package storage 提供文档文件存储实现
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ecm-api/internal/config"
)

var tracer = otel.Tracer("storage")

// LocalStore 本地文件存储
type LocalStore struct {
	baseDir     string
	maxFileSize int64
}

// NewLocalStore 创建本地存储，不存在时创建上传目录
func NewLocalStore(cfg *config.LocalStorageConfig) (*LocalStore, error) {
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStore{
		baseDir:     cfg.UploadDir,
		maxFileSize: cfg.MaxFileSize,
	}, nil
}

// MaxFileSize 返回单文件大小上限
func (s *LocalStore) MaxFileSize() int64 {
	return s.maxFileSize
}

// Save 保存上传内容，返回相对存储路径
// 存储文件名使用 uuid 前缀避免同名覆盖
func (s *LocalStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	ctx, span := tracer.Start(ctx, "storage.Save",
		trace.WithAttributes(attribute.String("filename", filename)))
	defer span.End()

	safeName := sanitizeFilename(filename)
	relPath := uuid.NewString() + "_" + safeName
	fullPath := filepath.Join(s.baseDir, relPath)

	f, err := os.Create(fullPath)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	var written int64
	if s.maxFileSize > 0 {
		written, err = io.Copy(f, io.LimitReader(r, s.maxFileSize+1))
		if err == nil && written > s.maxFileSize {
			os.Remove(fullPath)
			return "", fmt.Errorf("file exceeds max size %d bytes", s.maxFileSize)
		}
	} else {
		written, err = io.Copy(f, r)
	}
	if err != nil {
		span.RecordError(err)
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	span.SetAttributes(attribute.Int64("bytes_written", written))
	return relPath, nil
}

// Open 打开已存储文件
func (s *LocalStore) Open(ctx context.Context, relPath string) (*os.File, error) {
	_, span := tracer.Start(ctx, "storage.Open",
		trace.WithAttributes(attribute.String("path", relPath)))
	defer span.End()

	return os.Open(s.FullPath(relPath))
}

// Delete 删除已存储文件，文件不存在时视为成功
func (s *LocalStore) Delete(ctx context.Context, relPath string) error {
	_, span := tracer.Start(ctx, "storage.Delete",
		trace.WithAttributes(attribute.String("path", relPath)))
	defer span.End()

	err := os.Remove(s.FullPath(relPath))
	if err != nil && !os.IsNotExist(err) {
		span.RecordError(err)
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// FullPath 返回相对路径对应的绝对路径
func (s *LocalStore) FullPath(relPath string) string {
	return filepath.Join(s.baseDir, filepath.Clean("/"+relPath))
}

// sanitizeFilename 去除路径分隔符等危险字符
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
