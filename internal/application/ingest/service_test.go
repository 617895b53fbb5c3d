package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecm-api/internal/application/classify"
	"ecm-api/internal/config"
	"ecm-api/internal/domain/entity"
	"ecm-api/internal/domain/repository"
	"ecm-api/internal/infrastructure/embedding"
	"ecm-api/internal/infrastructure/extract"
	"ecm-api/internal/nlp"
)

// fakeDocRepo 内存文档仓储
type fakeDocRepo struct {
	docs map[string]*entity.Document
}

func newFakeDocRepo(docs ...*entity.Document) *fakeDocRepo {
	m := make(map[string]*entity.Document)
	for _, d := range docs {
		m[d.ID] = d
	}
	return &fakeDocRepo{docs: m}
}

func (r *fakeDocRepo) Create(_ context.Context, doc *entity.Document) error {
	r.docs[doc.ID] = doc
	return nil
}

func (r *fakeDocRepo) GetByID(_ context.Context, id string) (*entity.Document, error) {
	return r.docs[id], nil
}

func (r *fakeDocRepo) Update(_ context.Context, doc *entity.Document) error {
	r.docs[doc.ID] = doc
	return nil
}

func (r *fakeDocRepo) Delete(_ context.Context, id string) error {
	delete(r.docs, id)
	return nil
}

func (r *fakeDocRepo) List(_ context.Context, _ repository.DocumentFilter) ([]*entity.Document, int64, error) {
	return nil, 0, nil
}

func (r *fakeDocRepo) ListWithEmbeddings(_ context.Context) ([]*entity.Document, error) {
	var out []*entity.Document
	for _, d := range r.docs {
		if d.HasEmbedding() && d.Status == entity.DocumentStatusReady {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeDocRepo) UpdateProcessingResult(_ context.Context, doc *entity.Document) error {
	r.docs[doc.ID] = doc
	return nil
}

// passthroughResolver 相对路径即绝对路径
type passthroughResolver struct{}

func (passthroughResolver) FullPath(relPath string) string { return relPath }

func newTestService(repo repository.DocumentRepository) *Service {
	return NewService(
		repo,
		nil,
		extract.NewExtractor(&config.OCRConfig{Enabled: false}),
		classify.NewClassifier(nlp.NewPipeline()),
		embedding.NewHashingEmbedder(64),
		passthroughResolver{},
		Config{MaxEmbedChars: 5000, Provider: "local"},
	)
}

func writeTempDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestProcess_FullPipeline(t *testing.T) {
	path := writeTempDoc(t, "Terminal report on the completed clinical trial study submitted for peer review.")

	doc := &entity.Document{
		ID:         "doc-1",
		Filename:   "terminal_report.txt",
		Filepath:   path,
		Type:       entity.DocumentTypeText,
		Status:     entity.DocumentStatusPending,
		UploadedBy: "user-1",
	}
	repo := newFakeDocRepo(doc)

	err := newTestService(repo).Process(context.Background(), "doc-1")
	require.NoError(t, err)

	got := repo.docs["doc-1"]
	assert.Equal(t, entity.DocumentStatusReady, got.Status)
	assert.Equal(t, entity.CategoryResearch.String(), got.Category)
	assert.NotEmpty(t, got.ExtractedText)
	assert.Len(t, got.Embedding, 64)
	assert.Contains(t, []string(got.Keywords), "terminal report")
}

func TestProcess_ExtractionFailureDegradesToFallback(t *testing.T) {
	// 文件不存在：提取得空文本，分类兜底 General，向量回退到 描述+文件名
	doc := &entity.Document{
		ID:          "doc-2",
		Filename:    "budget_2024.pdf",
		Filepath:    "/nonexistent/budget_2024.pdf",
		Description: "annual budget summary",
		Type:        entity.DocumentTypePDF,
		Status:      entity.DocumentStatusPending,
		UploadedBy:  "user-1",
	}
	repo := newFakeDocRepo(doc)

	err := newTestService(repo).Process(context.Background(), "doc-2")
	require.NoError(t, err)

	got := repo.docs["doc-2"]
	assert.Equal(t, entity.DocumentStatusReady, got.Status)
	assert.Equal(t, entity.CategoryGeneral.String(), got.Category)
	assert.Empty(t, got.ExtractedText)
	assert.True(t, got.HasEmbedding())
}

func TestProcess_MissingDocumentSkipped(t *testing.T) {
	repo := newFakeDocRepo()
	assert.NoError(t, newTestService(repo).Process(context.Background(), "ghost"))
}

func TestProcess_DeterministicEmbedding(t *testing.T) {
	content := "Faculty loading schedule for the first semester of the academic year."

	run := func(id string) entity.EmbeddingVector {
		path := writeTempDoc(t, content)
		doc := &entity.Document{
			ID:       id,
			Filename: "load.txt",
			Filepath: path,
			Type:     entity.DocumentTypeText,
			Status:   entity.DocumentStatusPending,
		}
		repo := newFakeDocRepo(doc)
		require.NoError(t, newTestService(repo).Process(context.Background(), id))
		return repo.docs[id].Embedding
	}

	assert.Equal(t, run("a"), run("b"))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", truncateRunes("abc", 5000))
	assert.Equal(t, "ab", truncateRunes("abcd", 2))
	assert.Equal(t, "abcd", truncateRunes("abcd", 0))
	assert.Equal(t, "日本", truncateRunes("日本語テキスト", 2))
}
