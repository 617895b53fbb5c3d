package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ecm-api/internal/application/search"
	"ecm-api/internal/domain/entity"
	"ecm-api/internal/domain/repository"
	"ecm-api/internal/infrastructure/persistence/redis"
	"ecm-api/internal/interfaces/http/dto"
	"ecm-api/pkg/logger"
)

// searchCacheTTL 检索结果缓存时长
const searchCacheTTL = 5 * time.Minute

// SearchHandler 语义检索处理器
type SearchHandler struct {
	engine      *search.Engine
	highlighter *search.Highlighter
	docs        repository.DocumentRepository
	logs        repository.AccessLogRepository
	cache       *redis.Cache
}

// NewSearchHandler 创建语义检索处理器
func NewSearchHandler(
	engine *search.Engine,
	highlighter *search.Highlighter,
	docs repository.DocumentRepository,
	logs repository.AccessLogRepository,
	cache *redis.Cache,
) *SearchHandler {
	return &SearchHandler{
		engine:      engine,
		highlighter: highlighter,
		docs:        docs,
		logs:        logs,
		cache:       cache,
	}
}

// Search 语义检索文档
func (h *SearchHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	resp, err := h.search(c, req)
	if err != nil {
		dto.Fail(c, err)
		return
	}

	h.recordSearch(c, req.Query)
	dto.Success(c, resp)
}

// search 执行检索，结果短暂缓存以吸收重复查询
func (h *SearchHandler) search(c *gin.Context, req dto.SearchRequest) (*dto.SearchResponse, error) {
	load := func() (*dto.SearchResponse, error) {
		matches, err := h.engine.Rank(c.Request.Context(), req.Query, req.TopK)
		if err != nil {
			return nil, err
		}

		results := make([]dto.SearchResultItem, 0, len(matches))
		for _, m := range matches {
			results = append(results, dto.SearchResultItem{
				Document: dto.FromDocument(m.Document),
				Score:    m.Score,
			})
		}
		return &dto.SearchResponse{Query: req.Query, Results: results}, nil
	}

	if h.cache == nil {
		return load()
	}

	key := redis.BuildSearchKey(hashQuery(req.Query, req.TopK))
	raw, err := h.cache.GetOrLoadSafe(c.Request.Context(), key, searchCacheTTL, func() (interface{}, error) {
		return load()
	})
	if err != nil {
		// 缓存层故障时直查
		logger.Warn(c.Request.Context(), "search cache unavailable", "error", err)
		return load()
	}

	var resp dto.SearchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return load()
	}
	return &resp, nil
}

// Highlight 返回文档中与查询最相关的句子
func (h *SearchHandler) Highlight(c *gin.Context) {
	var req dto.HighlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	doc, err := h.docs.GetByID(c.Request.Context(), req.DocumentID)
	if err != nil {
		dto.Fail(c, err)
		return
	}
	if doc == nil {
		dto.NotFound(c, "document not found")
		return
	}

	matches, err := h.highlighter.Highlight(c.Request.Context(), doc.ExtractedText, req.Query)
	if err != nil {
		dto.Fail(c, err)
		return
	}

	highlights := make([]dto.HighlightItem, 0, len(matches))
	for _, m := range matches {
		highlights = append(highlights, dto.HighlightItem{
			Sentence: m.Sentence,
			Score:    m.Score,
		})
	}
	dto.Success(c, dto.HighlightResponse{
		DocumentID: doc.ID,
		Highlights: highlights,
	})
}

// recordSearch 记录检索审计，失败不影响主流程
func (h *SearchHandler) recordSearch(c *gin.Context, query string) {
	if h.logs == nil {
		return
	}
	log := &entity.AccessLog{
		ID:        uuid.NewString(),
		UserID:    c.GetString("user_id"),
		Action:    entity.AccessActionSearch,
		Detail:    query,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if err := h.logs.Create(c.Request.Context(), log); err != nil {
		logger.Warn(c.Request.Context(), "failed to record search log", "error", err)
	}
}

// hashQuery 生成检索缓存键指纹
func hashQuery(query string, topK int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d", query, topK)))
	return hex.EncodeToString(sum[:16])
}
