// Package ingest 提供文档理解流水线：提取 -> 分类 -> 向量化 -> 落库
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/embedding"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "ecm-api/pkg/errors"

	"ecm-api/internal/application/classify"
	"ecm-api/internal/domain/entity"
	"ecm-api/internal/domain/repository"
	"ecm-api/internal/infrastructure/extract"
	"ecm-api/pkg/logger"
	"ecm-api/pkg/metrics"
)

var tracer = otel.Tracer("ingest")

// PathResolver 将文档存储相对路径解析为可读绝对路径
type PathResolver interface {
	FullPath(relPath string) string
}

// Config 流水线配置
type Config struct {
	// MaxEmbedChars 向量化输入截断长度（按字符计）
	MaxEmbedChars int
	// Provider 仅用于指标标注
	Provider string
}

// Service 文档处理服务
// 流水线各环节均降级不中断：提取失败得空文本，分类兜底 General，
// 仅向量化失败会使文档进入 failed 状态并允许重试。
type Service struct {
	docs       repository.DocumentRepository
	vectors    repository.VectorRepository
	extractor  *extract.Extractor
	classifier *classify.Classifier
	embedder   embedding.Embedder
	resolver   PathResolver
	cfg        Config
}

// NewService 创建文档处理服务
func NewService(
	docs repository.DocumentRepository,
	vectors repository.VectorRepository,
	extractor *extract.Extractor,
	classifier *classify.Classifier,
	embedder embedding.Embedder,
	resolver PathResolver,
	cfg Config,
) *Service {
	if cfg.MaxEmbedChars <= 0 {
		cfg.MaxEmbedChars = 5000
	}
	if cfg.Provider == "" {
		cfg.Provider = "local"
	}
	return &Service{
		docs:       docs,
		vectors:    vectors,
		extractor:  extractor,
		classifier: classifier,
		embedder:   embedder,
		resolver:   resolver,
		cfg:        cfg,
	}
}

// Process 执行文档理解流水线
func (s *Service) Process(ctx context.Context, documentID string) error {
	ctx, span := tracer.Start(ctx, "ingest.Process",
		trace.WithAttributes(attribute.String("document_id", documentID)))
	defer span.End()

	ctx = logger.WithContext(ctx, logger.DocumentIDKey, documentID)
	log := logger.FromContext(ctx)

	doc, err := s.docs.GetByID(ctx, documentID)
	if err != nil {
		metrics.IngestJobsTotal.WithLabelValues("failed").Inc()
		return err
	}
	if doc == nil {
		// 文档已被删除，任务作废
		log.Warn("document not found, skipping ingest")
		metrics.IngestJobsTotal.WithLabelValues("skipped").Inc()
		return nil
	}

	doc.Status = entity.DocumentStatusProcessing
	if err := s.docs.UpdateProcessingResult(ctx, doc); err != nil {
		metrics.IngestJobsTotal.WithLabelValues("failed").Inc()
		return err
	}

	// 提取：失败降级为空文本
	text := s.extractor.Extract(ctx, s.resolver.FullPath(doc.Filepath), doc.Type)
	doc.ExtractedText = text

	// 分类：空文本兜底 General
	category := s.classifier.Classify(text)
	doc.Category = category.String()
	doc.Keywords = s.classifier.Keywords(text)

	// 向量化：空文本回退到 描述 + 文件名
	vector, err := s.embed(ctx, doc)
	if err != nil {
		doc.Status = entity.DocumentStatusFailed
		doc.FailReason = err.Error()
		if updErr := s.docs.UpdateProcessingResult(ctx, doc); updErr != nil {
			log.Error("failed to persist failure state", "error", updErr)
		}
		metrics.IngestJobsTotal.WithLabelValues("failed").Inc()
		span.RecordError(err)
		return apperrors.Wrap(err, apperrors.CodeEmbeddingFailed, "failed to embed document")
	}

	doc.Embedding = vector
	doc.Status = entity.DocumentStatusReady
	doc.FailReason = ""

	if err := s.docs.UpdateProcessingResult(ctx, doc); err != nil {
		metrics.IngestJobsTotal.WithLabelValues("failed").Inc()
		return err
	}

	// 向量库可用时同步写入，失败不阻断（检索可回退到暴力扫描）
	if s.vectors != nil && s.vectors.Available() {
		if err := s.vectors.Upsert(ctx, doc.ID, vector); err != nil {
			log.Warn("failed to upsert vector, search will fall back to scan", "error", err)
		}
	}

	log.Info("document ingested",
		"category", doc.Category,
		"text_length", len(text),
		"keywords", len(doc.Keywords),
	)
	metrics.IngestJobsTotal.WithLabelValues("success").Inc()
	return nil
}

// embed 向量化文档内容
func (s *Service) embed(ctx context.Context, doc *entity.Document) (entity.EmbeddingVector, error) {
	input := truncateRunes(doc.EmbeddingInput(), s.cfg.MaxEmbedChars)
	if input == "" {
		return nil, fmt.Errorf("no embeddable content")
	}

	start := time.Now()
	vecs, err := s.embedder.EmbedStrings(ctx, []string{input})
	metrics.EmbeddingDuration.WithLabelValues(s.cfg.Provider).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("unexpected embedding count: %d", len(vecs))
	}

	vector := make(entity.EmbeddingVector, len(vecs[0]))
	for i, v := range vecs[0] {
		vector[i] = float32(v)
	}
	return vector, nil
}

// truncateRunes 按字符数截断文本
func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
