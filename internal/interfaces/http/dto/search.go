package dto

// SearchRequest 语义检索请求
type SearchRequest struct {
	Query string `json:"query" binding:"required,max=1000"`
	TopK  int    `json:"top_k" binding:"omitempty,min=1,max=100"`
}

// SearchResultItem 检索命中条目
type SearchResultItem struct {
	Document DocumentResponse `json:"document"`
	Score    float64          `json:"score"`
}

// SearchResponse 检索响应
type SearchResponse struct {
	Query   string             `json:"query"`
	Results []SearchResultItem `json:"results"`
}

// HighlightRequest 句子高亮请求
type HighlightRequest struct {
	DocumentID string `json:"document_id" binding:"required,uuid"`
	Query      string `json:"query" binding:"required,max=1000"`
}

// HighlightItem 高亮命中句子
type HighlightItem struct {
	Sentence string  `json:"sentence"`
	Score    float64 `json:"score"`
}

// HighlightResponse 高亮响应
type HighlightResponse struct {
	DocumentID string          `json:"document_id"`
	Highlights []HighlightItem `json:"highlights"`
}
