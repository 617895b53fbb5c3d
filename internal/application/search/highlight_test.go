package search

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecm-api/internal/nlp"
)

// stubPipeline 返回预置句子，实体识别不参与高亮
type stubPipeline struct {
	sentences []string
}

func (p *stubPipeline) Entities(_ string) []nlp.Entity { return nil }
func (p *stubPipeline) Sentences(_ string) []string    { return p.sentences }

func TestHighlight_EmptyInputs(t *testing.T) {
	h := NewHighlighter(&stubPipeline{}, &stubEmbedder{}, HighlightConfig{})

	matches, err := h.Highlight(context.Background(), "", "query")
	require.NoError(t, err)
	assert.Empty(t, matches)

	matches, err = h.Highlight(context.Background(), "some document text", "   ")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestHighlight_ThresholdIsExclusive(t *testing.T) {
	// 与查询余弦恰为阈值 0.6 的句子必须被丢弃：高亮阈值严格大于
	pipeline := &stubPipeline{sentences: []string{
		"sentence exactly at the threshold",
		"sentence clearly above the threshold",
	}}
	embedder := &stubEmbedder{
		vectors: map[string][]float64{
			"the query":                            {1, 0},
			"sentence exactly at the threshold":    {3, 4},
			"sentence clearly above the threshold": {1, 0},
		},
	}
	h := NewHighlighter(pipeline, embedder, HighlightConfig{ScoreThreshold: 0.6})

	matches, err := h.Highlight(context.Background(), "document body", "the query")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "sentence clearly above the threshold", matches[0].Sentence)
	assert.Equal(t, 1.0, matches[0].Score)
}

func TestHighlight_SortsDescendingAndCapsTopK(t *testing.T) {
	pipeline := &stubPipeline{sentences: []string{
		"low relevance sentence", "medium relevance sentence", "high relevance sentence",
		"filler sentence one", "filler sentence two", "filler sentence three", "filler sentence four",
	}}
	embedder := &stubEmbedder{
		vectors: map[string][]float64{
			"the query":                 {1, 0},
			"low relevance sentence":    {1, 1},
			"medium relevance sentence": {3, 1},
			"high relevance sentence":   {1, 0},
		},
		fallback: []float64{2, 1},
	}
	h := NewHighlighter(pipeline, embedder, HighlightConfig{ScoreThreshold: 0.35, TopK: 5})

	matches, err := h.Highlight(context.Background(), "document body", "the query")
	require.NoError(t, err)
	require.Len(t, matches, 5)
	assert.Equal(t, "high relevance sentence", matches[0].Sentence)
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].Score, matches[i].Score)
	}
}

func TestHighlight_SortsByRawScoreBeforeRounding(t *testing.T) {
	// 两句的分数舍入后同为 0.700，排序必须依据舍入前的原始分数
	lowRaw := 0.7004
	highRaw := 0.70049
	pipeline := &stubPipeline{sentences: []string{
		"slightly less relevant sentence",
		"slightly more relevant sentence",
	}}
	embedder := &stubEmbedder{
		vectors: map[string][]float64{
			"the query":                       {1, 0},
			"slightly less relevant sentence": {lowRaw, math.Sqrt(1 - lowRaw*lowRaw)},
			"slightly more relevant sentence": {highRaw, math.Sqrt(1 - highRaw*highRaw)},
		},
	}
	h := NewHighlighter(pipeline, embedder, HighlightConfig{ScoreThreshold: 0.35})

	matches, err := h.Highlight(context.Background(), "document body", "the query")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "slightly more relevant sentence", matches[0].Sentence)
	assert.Equal(t, 0.7, matches[0].Score)
	assert.Equal(t, 0.7, matches[1].Score)
}

func TestHighlight_ScoresRoundedToThreeDecimals(t *testing.T) {
	pipeline := &stubPipeline{sentences: []string{"a moderately relevant sentence"}}
	embedder := &stubEmbedder{
		vectors: map[string][]float64{
			"the query":                      {1, 0},
			"a moderately relevant sentence": {1, 1},
		},
	}
	h := NewHighlighter(pipeline, embedder, HighlightConfig{ScoreThreshold: 0.35})

	matches, err := h.Highlight(context.Background(), "document body", "the query")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 0.707, matches[0].Score)
}

func TestHighlight_RealPipelineDropsShortSentences(t *testing.T) {
	text := "Yes. The university research council approved the terminal report last week. No."
	h := NewHighlighter(nlp.NewPipeline(), &stubEmbedder{fallback: []float64{1, 0}}, HighlightConfig{})

	matches, err := h.Highlight(context.Background(), text, "research report approval")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Contains(t, matches[0].Sentence, "research council")
}
