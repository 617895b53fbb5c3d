package search

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/embedding"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ecm-api/internal/domain/entity"
	"ecm-api/internal/domain/repository"
	"ecm-api/pkg/logger"
	"ecm-api/pkg/metrics"
)

var tracer = otel.Tracer("search")

// DocumentMatch 文档检索命中
type DocumentMatch struct {
	Document *entity.Document `json:"document"`
	Score    float64          `json:"score"`
}

// Config 检索配置
type Config struct {
	// ScoreThreshold 文档相似度阈值，含等于
	ScoreThreshold float64
	// DefaultTopK 未指定 top_k 时的默认返回条数
	DefaultTopK int
}

// Engine 语义检索引擎
// 向量库可用时走近似近邻检索，不可用或出错时回退到关系库暴力扫描
type Engine struct {
	docs     repository.DocumentRepository
	vectors  repository.VectorRepository
	embedder embedding.Embedder
	cfg      Config
}

// NewEngine 创建检索引擎
func NewEngine(
	docs repository.DocumentRepository,
	vectors repository.VectorRepository,
	embedder embedding.Embedder,
	cfg Config,
) *Engine {
	if cfg.ScoreThreshold <= 0 {
		cfg.ScoreThreshold = 0.35
	}
	if cfg.DefaultTopK <= 0 {
		cfg.DefaultTopK = 20
	}
	return &Engine{
		docs:     docs,
		vectors:  vectors,
		embedder: embedder,
		cfg:      cfg,
	}
}

// Rank 按语义相似度检索文档
// 空白查询返回空结果；结果按分数严格降序，全部满足 score >= 阈值
func (e *Engine) Rank(ctx context.Context, query string, topK int) ([]DocumentMatch, error) {
	ctx, span := tracer.Start(ctx, "search.Rank",
		trace.WithAttributes(attribute.Int("top_k", topK)))
	defer span.End()

	start := time.Now()
	defer func() {
		metrics.SearchDuration.WithLabelValues("semantic").Observe(time.Since(start).Seconds())
	}()

	if strings.TrimSpace(query) == "" {
		return []DocumentMatch{}, nil
	}
	if topK <= 0 {
		topK = e.cfg.DefaultTopK
	}

	queryVec, err := e.embedQuery(ctx, query)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("semantic", "error").Inc()
		return nil, err
	}

	var matches []DocumentMatch
	if e.vectors != nil && e.vectors.Available() {
		matches, err = e.rankByVectorStore(ctx, queryVec, topK)
		if err != nil {
			// 向量库故障降级为暴力扫描
			logger.FromContext(ctx).Warn("vector store search failed, falling back to scan", "error", err)
			matches = nil
		}
	}
	if matches == nil {
		matches, err = e.rankByScan(ctx, queryVec, topK)
		if err != nil {
			metrics.SearchRequestsTotal.WithLabelValues("semantic", "error").Inc()
			return nil, err
		}
	}

	metrics.SearchRequestsTotal.WithLabelValues("semantic", "ok").Inc()
	metrics.SearchResultCount.WithLabelValues("semantic").Observe(float64(len(matches)))
	span.SetAttributes(attribute.Int("result_count", len(matches)))
	return matches, nil
}

// embedQuery 向量化查询文本
func (e *Engine) embedQuery(ctx context.Context, query string) ([]float64, error) {
	vecs, err := e.embedder.EmbedStrings(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// rankByVectorStore 近似近邻检索路径
func (e *Engine) rankByVectorStore(ctx context.Context, queryVec []float64, topK int) ([]DocumentMatch, error) {
	vec32 := make([]float32, len(queryVec))
	for i, v := range queryVec {
		vec32[i] = float32(v)
	}

	hits, err := e.vectors.Search(ctx, vec32, topK)
	if err != nil {
		return nil, err
	}

	matches := make([]DocumentMatch, 0, len(hits))
	for _, hit := range hits {
		score := float64(hit.Score)
		if score < e.cfg.ScoreThreshold {
			continue
		}
		doc, err := e.docs.GetByID(ctx, hit.DocumentID)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			// 向量库中的孤儿向量，跳过
			continue
		}
		matches = append(matches, DocumentMatch{Document: doc, Score: score})
	}

	sortMatches(matches)
	return matches, nil
}

// rankByScan 暴力扫描路径：遍历所有已向量化文档计算余弦相似度
func (e *Engine) rankByScan(ctx context.Context, queryVec []float64, topK int) ([]DocumentMatch, error) {
	docs, err := e.docs.ListWithEmbeddings(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]DocumentMatch, 0, len(docs))
	for _, doc := range docs {
		// 无向量的候选静默跳过
		if !doc.HasEmbedding() {
			continue
		}
		score := Cosine(queryVec, doc.Embedding)
		if score < e.cfg.ScoreThreshold {
			continue
		}
		matches = append(matches, DocumentMatch{Document: doc, Score: score})
	}

	sortMatches(matches)
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// sortMatches 按分数降序稳定排序，相同输入顺序产出确定结果
func sortMatches(matches []DocumentMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
}
