package search

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/embedding"
	"go.opentelemetry.io/otel/attribute"

	"ecm-api/internal/nlp"
	"ecm-api/pkg/metrics"
)

// SentenceMatch 高亮句命中
type SentenceMatch struct {
	Sentence string  `json:"sentence"`
	Score    float64 `json:"score"`
}

// HighlightConfig 高亮配置
type HighlightConfig struct {
	// ScoreThreshold 句子相似度阈值，严格大于才保留
	ScoreThreshold float64
	// TopK 最多返回条数
	TopK int
}

// Highlighter 句子级高亮器
// 将文档正文切句后逐句与查询比对，挑出最相关的片段
type Highlighter struct {
	pipeline nlp.Pipeline
	embedder embedding.Embedder
	cfg      HighlightConfig
}

// NewHighlighter 创建高亮器
func NewHighlighter(pipeline nlp.Pipeline, embedder embedding.Embedder, cfg HighlightConfig) *Highlighter {
	if cfg.ScoreThreshold <= 0 {
		cfg.ScoreThreshold = 0.35
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	return &Highlighter{
		pipeline: pipeline,
		embedder: embedder,
		cfg:      cfg,
	}
}

// Highlight 返回与查询最相关的句子，按分数降序
// 空文本、空白查询或无句子超过阈值时返回空结果
func (h *Highlighter) Highlight(ctx context.Context, text, query string) ([]SentenceMatch, error) {
	ctx, span := tracer.Start(ctx, "search.Highlight")
	defer span.End()

	start := time.Now()
	defer func() {
		metrics.SearchDuration.WithLabelValues("highlight").Observe(time.Since(start).Seconds())
	}()

	if strings.TrimSpace(text) == "" || strings.TrimSpace(query) == "" {
		return []SentenceMatch{}, nil
	}

	sentences := h.pipeline.Sentences(text)
	if len(sentences) == 0 {
		return []SentenceMatch{}, nil
	}

	// 查询与所有句子合并为一个批次向量化
	inputs := make([]string, 0, len(sentences)+1)
	inputs = append(inputs, query)
	inputs = append(inputs, sentences...)

	vecs, err := h.embedder.EmbedStrings(ctx, inputs)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("highlight", "error").Inc()
		return nil, err
	}
	queryVec := vecs[0]

	type scored struct {
		sentence string
		score    float64
	}
	hits := make([]scored, 0, len(sentences))
	for i, sentence := range sentences {
		score := Cosine64(queryVec, vecs[i+1])
		// 阈值严格大于，与文档检索的含等于阈值不同
		if score <= h.cfg.ScoreThreshold {
			continue
		}
		hits = append(hits, scored{sentence: sentence, score: score})
	}

	// 按原始分数排序，输出时才舍入
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})
	if len(hits) > h.cfg.TopK {
		hits = hits[:h.cfg.TopK]
	}

	matches := make([]SentenceMatch, 0, len(hits))
	for _, hit := range hits {
		matches = append(matches, SentenceMatch{
			Sentence: hit.sentence,
			Score:    roundScore(hit.score),
		})
	}

	metrics.SearchRequestsTotal.WithLabelValues("highlight", "ok").Inc()
	span.SetAttributes(
		attribute.Int("sentence_count", len(sentences)),
		attribute.Int("result_count", len(matches)),
	)
	return matches, nil
}

// roundScore 分数保留三位小数
func roundScore(v float64) float64 {
	return math.Round(v*1000) / 1000
}
