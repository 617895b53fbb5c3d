// Package milvus 提供 Milvus 向量数据库访问层实现
package milvus

import (
	"context"
	"fmt"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ecm-api/internal/domain/repository"
)

// Repository 文档向量仓储
// client 为 nil 时处于禁用状态，调用方应回退到关系库暴力检索
type Repository struct {
	client *Client
	dim    int
}

// NewRepository 创建向量仓储，client 可为 nil（向量库禁用）
func NewRepository(client *Client, dim int) repository.VectorRepository {
	return &Repository{client: client, dim: dim}
}

// Available 判断向量库是否可用
func (r *Repository) Available() bool {
	return r != nil && r.client != nil && r.client.milvus != nil
}

// EnsureCollection 确保集合与索引可用（不存在则创建）
// 约束：不做 drop/rebuild 等破坏性操作
func (r *Repository) EnsureCollection(ctx context.Context) error {
	if !r.Available() {
		return fmt.Errorf("milvus client not configured")
	}

	exists, err := r.client.HasCollection(ctx, CollectionDocumentVectors)
	if err != nil {
		return err
	}
	if !exists {
		schema := DocumentVectorsSchema(r.dim)
		schema.CollectionName = r.client.CollectionName(schema.CollectionName)
		if err := r.client.milvus.CreateCollection(ctx, schema, entity.DefaultShardNumber); err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}
		// 新建集合时创建索引；若失败，允许后续由运维介入
		_ = r.createIndex(ctx)
	}

	return r.client.LoadCollection(ctx, CollectionDocumentVectors)
}

// createIndex 创建 HNSW 索引
func (r *Repository) createIndex(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "milvus.CreateIndex")
	defer span.End()

	collName := r.client.CollectionName(CollectionDocumentVectors)

	idx, err := entity.NewIndexHNSW(
		entity.COSINE,
		r.client.config.HNSWM,
		r.client.config.HNSWEfConstruction,
	)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create index: %w", err)
	}

	if err := r.client.milvus.CreateIndex(ctx, collName, "vector", idx, false); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create index: %w", err)
	}

	return nil
}

// Upsert 写入文档向量（先删后插）
func (r *Repository) Upsert(ctx context.Context, documentID string, vector []float32) error {
	if !r.Available() {
		return fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.Upsert",
		trace.WithAttributes(attribute.String("document_id", documentID)))
	defer span.End()

	collName := r.client.CollectionName(CollectionDocumentVectors)

	filter := fmt.Sprintf(`document_id == "%s"`, documentID)
	if err := r.client.milvus.Delete(ctx, collName, "", filter); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete old vector: %w", err)
	}

	idCol := entity.NewColumnVarChar("document_id", []string{documentID})
	vectorCol := entity.NewColumnFloatVector("vector", r.dim, [][]float32{vector})

	if _, err := r.client.milvus.Insert(ctx, collName, "", idCol, vectorCol); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to insert vector: %w", err)
	}

	return nil
}

// Search 按查询向量检索 TopK 文档
func (r *Repository) Search(ctx context.Context, vector []float32, topK int) ([]repository.VectorHit, error) {
	if !r.Available() {
		return nil, fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.Search",
		trace.WithAttributes(attribute.Int("top_k", topK)))
	defer span.End()

	collName := r.client.CollectionName(CollectionDocumentVectors)

	sp, err := entity.NewIndexHNSWSearchParam(128)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create search param: %w", err)
	}

	results, err := r.client.milvus.Search(ctx,
		collName,
		nil,
		"",
		[]string{"document_id"},
		[]entity.Vector{entity.FloatVector(vector)},
		"vector",
		entity.COSINE,
		topK,
		sp,
	)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	var hits []repository.VectorHit
	for _, result := range results {
		for i := 0; i < result.ResultCount; i++ {
			hit := repository.VectorHit{Score: result.Scores[i]}
			if idCol, ok := result.Fields.GetColumn("document_id").(*entity.ColumnVarChar); ok {
				hit.DocumentID = idCol.Data()[i]
			}
			hits = append(hits, hit)
		}
	}

	span.SetAttributes(attribute.Int("result_count", len(hits)))
	return hits, nil
}

// Delete 删除文档向量
func (r *Repository) Delete(ctx context.Context, documentID string) error {
	if !r.Available() {
		return fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.Delete",
		trace.WithAttributes(attribute.String("document_id", documentID)))
	defer span.End()

	collName := r.client.CollectionName(CollectionDocumentVectors)
	filter := fmt.Sprintf(`document_id == "%s"`, documentID)

	if err := r.client.milvus.Delete(ctx, collName, "", filter); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete vector: %w", err)
	}
	return nil
}
