// Package search 提供语义检索和句子高亮实现
package search

import "math"

// Cosine 计算两个向量的余弦相似度
// 维度不一致或任一向量为零向量时返回 0
func Cosine(a []float64, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		bi := float64(b[i])
		dot += a[i] * bi
		normA += a[i] * a[i]
		normB += bi * bi
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Cosine64 计算两个 float64 向量的余弦相似度
func Cosine64(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
