// Package repository 定义数据访问接口
package repository

import (
	"context"

	"ecm-api/internal/domain/entity"
)

// Transactor 事务管理接口
type Transactor interface {
	// WithTransaction 在事务中执行函数，函数返回错误时回滚
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository 用户数据访问接口
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset, limit int) ([]*entity.User, int64, error)
}

// OfficeRepository 办公室数据访问接口
type OfficeRepository interface {
	Create(ctx context.Context, office *entity.Office) error
	GetByID(ctx context.Context, id string) (*entity.Office, error)
	GetByName(ctx context.Context, name string) (*entity.Office, error)
	Update(ctx context.Context, office *entity.Office) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.Office, error)
}

// PositionRepository 职位数据访问接口
type PositionRepository interface {
	Create(ctx context.Context, position *entity.Position) error
	GetByID(ctx context.Context, id string) (*entity.Position, error)
	Update(ctx context.Context, position *entity.Position) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.Position, error)
}

// DocumentFilter 文档列表过滤条件
type DocumentFilter struct {
	Category string
	Type     string
	Year     int
	OfficeID string
	Status   string
	Keyword  string
	Offset   int
	Limit    int
}

// DocumentRepository 文档数据访问接口
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	GetByID(ctx context.Context, id string) (*entity.Document, error)
	Update(ctx context.Context, doc *entity.Document) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter DocumentFilter) ([]*entity.Document, int64, error)
	// ListWithEmbeddings 返回所有已向量化的文档，用于暴力检索兜底
	ListWithEmbeddings(ctx context.Context) ([]*entity.Document, error)
	// UpdateProcessingResult 写回提取/分类/向量化结果
	UpdateProcessingResult(ctx context.Context, doc *entity.Document) error
}

// AccessLogRepository 访问日志数据访问接口
type AccessLogRepository interface {
	Create(ctx context.Context, log *entity.AccessLog) error
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]*entity.AccessLog, int64, error)
	ListByDocument(ctx context.Context, documentID string, offset, limit int) ([]*entity.AccessLog, int64, error)
}

// DownloadRequestRepository 下载申请数据访问接口
type DownloadRequestRepository interface {
	Create(ctx context.Context, req *entity.DownloadRequest) error
	GetByID(ctx context.Context, id string) (*entity.DownloadRequest, error)
	Update(ctx context.Context, req *entity.DownloadRequest) error
	ListByStatus(ctx context.Context, status string, offset, limit int) ([]*entity.DownloadRequest, int64, error)
	ListByRequester(ctx context.Context, requesterID string, offset, limit int) ([]*entity.DownloadRequest, int64, error)
	// FindApproved 查找某用户对某文档的已批准申请
	FindApproved(ctx context.Context, documentID, requesterID string) (*entity.DownloadRequest, error)
}

// VectorHit 向量检索命中结果
type VectorHit struct {
	DocumentID string
	Score      float32
}

// VectorRepository 向量库访问接口
// Available 为 false 时调用方应走暴力检索兜底
type VectorRepository interface {
	Available() bool
	Upsert(ctx context.Context, documentID string, vector []float32) error
	Search(ctx context.Context, vector []float32, topK int) ([]VectorHit, error)
	Delete(ctx context.Context, documentID string) error
}
