package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/cloudwego/eino/components/embedding"
)

// HashingEmbedder 本地确定性向量化器
// 基于特征哈希的词袋模型，不依赖外部服务，用于离线部署和测试。
// 相同文本恒定产出相同向量，向量经 L2 归一化。
type HashingEmbedder struct {
	dim int
}

// NewHashingEmbedder 创建哈希向量化器
func NewHashingEmbedder(dim int) *HashingEmbedder {
	if dim <= 0 {
		dim = 384
	}
	return &HashingEmbedder{dim: dim}
}

// Dimension 返回向量维度
func (e *HashingEmbedder) Dimension() int {
	return e.dim
}

// EmbedStrings 批量向量化文本
func (e *HashingEmbedder) EmbedStrings(_ context.Context, texts []string, _ ...embedding.Option) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vectors[i] = e.embed(text)
	}
	return vectors, nil
}

func (e *HashingEmbedder) embed(text string) []float64 {
	vec := make([]float64, e.dim)

	tokens := tokenize(text)
	if len(tokens) == 0 {
		return vec
	}

	// 词频累加到哈希桶，符号位由次级哈希决定以减小碰撞偏差
	for _, tok := range tokens {
		h := fnv.New64a()
		h.Write([]byte(tok))
		sum := h.Sum64()

		idx := int(sum % uint64(e.dim))
		sign := 1.0
		if (sum>>32)&1 == 1 {
			sign = -1.0
		}
		vec[idx] += sign
	}

	// L2 归一化，使点积等价于余弦相似度
	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}

	return vec
}

// tokenize 小写化并按非字母数字切分
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
