package embedding

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/embedding"

	"ecm-api/internal/config"
)

// NewEmbedder 按配置创建 Embedder
// provider: "service" 自建 embed 服务 / "openai" Eino OpenAI 适配器 / "local" 哈希降级
func NewEmbedder(ctx context.Context, cfg *config.EmbeddingConfig) (embedding.Embedder, error) {
	switch cfg.Provider {
	case "service":
		return NewClient(cfg), nil
	case "openai":
		return NewEinoEmbedder(ctx, cfg)
	case "local", "":
		return NewHashingEmbedder(cfg.Dimension), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Provider)
	}
}
