package search

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecm-api/internal/domain/entity"
	"ecm-api/internal/domain/repository"
)

// stubEmbedder 按文本映射返回固定向量，便于构造精确分数
type stubEmbedder struct {
	vectors  map[string][]float64
	fallback []float64
}

func (s *stubEmbedder) EmbedStrings(_ context.Context, texts []string, _ ...embedding.Option) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, t := range texts {
		if v, ok := s.vectors[t]; ok {
			out[i] = v
		} else {
			out[i] = s.fallback
		}
	}
	return out, nil
}

type fakeDocRepo struct {
	docs []*entity.Document
}

func (r *fakeDocRepo) Create(_ context.Context, doc *entity.Document) error {
	r.docs = append(r.docs, doc)
	return nil
}

func (r *fakeDocRepo) GetByID(_ context.Context, id string) (*entity.Document, error) {
	for _, d := range r.docs {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, nil
}

func (r *fakeDocRepo) Update(_ context.Context, _ *entity.Document) error { return nil }
func (r *fakeDocRepo) Delete(_ context.Context, _ string) error           { return nil }

func (r *fakeDocRepo) List(_ context.Context, _ repository.DocumentFilter) ([]*entity.Document, int64, error) {
	return r.docs, int64(len(r.docs)), nil
}

func (r *fakeDocRepo) ListWithEmbeddings(_ context.Context) ([]*entity.Document, error) {
	return r.docs, nil
}

func (r *fakeDocRepo) UpdateProcessingResult(_ context.Context, _ *entity.Document) error {
	return nil
}

type fakeVectorRepo struct {
	available bool
	hits      []repository.VectorHit
	err       error
}

func (r *fakeVectorRepo) Available() bool { return r.available }

func (r *fakeVectorRepo) Upsert(_ context.Context, _ string, _ []float32) error { return nil }

func (r *fakeVectorRepo) Search(_ context.Context, _ []float32, _ int) ([]repository.VectorHit, error) {
	return r.hits, r.err
}

func (r *fakeVectorRepo) Delete(_ context.Context, _ string) error { return nil }

func readyDoc(id string, vec []float32) *entity.Document {
	return &entity.Document{
		ID:        id,
		Filename:  id + ".txt",
		Status:    entity.DocumentStatusReady,
		Embedding: vec,
	}
}

func TestRank_EmptyQueryReturnsEmpty(t *testing.T) {
	engine := NewEngine(&fakeDocRepo{}, nil, &stubEmbedder{}, Config{})

	for _, query := range []string{"", "   ", "\t\n"} {
		matches, err := engine.Rank(context.Background(), query, 10)
		require.NoError(t, err)
		assert.Empty(t, matches)
	}
}

func TestRank_ScanFiltersAndSorts(t *testing.T) {
	// query 与 [3,4] 的余弦恰为阈值 0.6：检索阈值含等于，必须保留
	repo := &fakeDocRepo{docs: []*entity.Document{
		readyDoc("at-threshold", []float32{3, 4}),
		readyDoc("orthogonal", []float32{0, 1}),
		readyDoc("exact", []float32{1, 0}),
	}}
	engine := NewEngine(repo, nil, &stubEmbedder{fallback: []float64{1, 0}}, Config{ScoreThreshold: 0.6})

	matches, err := engine.Rank(context.Background(), "budget report", 10)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "exact", matches[0].Document.ID)
	assert.Equal(t, "at-threshold", matches[1].Document.ID)
	assert.Greater(t, matches[0].Score, matches[1].Score)
}

func TestRank_SkipsDocumentsWithoutEmbedding(t *testing.T) {
	repo := &fakeDocRepo{docs: []*entity.Document{
		readyDoc("no-vector", nil),
		readyDoc("with-vector", []float32{1, 0}),
	}}
	engine := NewEngine(repo, nil, &stubEmbedder{fallback: []float64{1, 0}}, Config{})

	matches, err := engine.Rank(context.Background(), "anything", 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "with-vector", matches[0].Document.ID)
}

func TestRank_TopKLimitsScanResults(t *testing.T) {
	repo := &fakeDocRepo{docs: []*entity.Document{
		readyDoc("a", []float32{1, 0}),
		readyDoc("b", []float32{1, 0}),
		readyDoc("c", []float32{1, 0}),
	}}
	engine := NewEngine(repo, nil, &stubEmbedder{fallback: []float64{1, 0}}, Config{})

	matches, err := engine.Rank(context.Background(), "anything", 2)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestRank_VectorStorePath(t *testing.T) {
	repo := &fakeDocRepo{docs: []*entity.Document{
		readyDoc("doc-1", []float32{1, 0}),
		readyDoc("doc-2", []float32{0, 1}),
	}}
	vectors := &fakeVectorRepo{
		available: true,
		hits: []repository.VectorHit{
			{DocumentID: "doc-2", Score: 0.2},
			{DocumentID: "doc-1", Score: 0.9},
			{DocumentID: "deleted", Score: 0.8},
		},
	}
	engine := NewEngine(repo, vectors, &stubEmbedder{fallback: []float64{1, 0}}, Config{})

	matches, err := engine.Rank(context.Background(), "anything", 10)
	require.NoError(t, err)
	// 低于阈值的命中被过滤，关系库中已不存在的孤儿向量被跳过
	require.Len(t, matches, 1)
	assert.Equal(t, "doc-1", matches[0].Document.ID)
	assert.InDelta(t, 0.9, matches[0].Score, 1e-6)
}

func TestRank_VectorStoreErrorFallsBackToScan(t *testing.T) {
	repo := &fakeDocRepo{docs: []*entity.Document{
		readyDoc("doc-1", []float32{1, 0}),
	}}
	vectors := &fakeVectorRepo{available: true, err: errors.New("milvus down")}
	engine := NewEngine(repo, vectors, &stubEmbedder{fallback: []float64{1, 0}}, Config{})

	matches, err := engine.Rank(context.Background(), "anything", 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "doc-1", matches[0].Document.ID)
}

func TestRank_DeterministicOrderOnTies(t *testing.T) {
	repo := &fakeDocRepo{docs: []*entity.Document{
		readyDoc("first", []float32{1, 0}),
		readyDoc("second", []float32{1, 0}),
	}}
	engine := NewEngine(repo, nil, &stubEmbedder{fallback: []float64{1, 0}}, Config{})

	for i := 0; i < 5; i++ {
		matches, err := engine.Rank(context.Background(), "anything", 10)
		require.NoError(t, err)
		require.Len(t, matches, 2)
		assert.Equal(t, "first", matches[0].Document.ID)
		assert.Equal(t, "second", matches[1].Document.ID)
	}
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float64{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float64{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, Cosine([]float64{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Zero(t, Cosine([]float64{1, 0}, []float32{1}))
	assert.Zero(t, Cosine(nil, nil))
	assert.Zero(t, Cosine([]float64{1, 0}, []float32{0, 0}))
}
