package embedding

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashingEmbedder_Deterministic(t *testing.T) {
	e := NewHashingEmbedder(384)

	v1, err := e.EmbedStrings(context.Background(), []string{"faculty loading schedule"})
	require.NoError(t, err)
	v2, err := e.EmbedStrings(context.Background(), []string{"faculty loading schedule"})
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
	assert.Len(t, v1[0], 384)
}

func TestHashingEmbedder_Normalized(t *testing.T) {
	e := NewHashingEmbedder(128)

	vecs, err := e.EmbedStrings(context.Background(), []string{"memorandum of agreement between parties"})
	require.NoError(t, err)

	var norm float64
	for _, v := range vecs[0] {
		norm += v * v
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)
}

func TestHashingEmbedder_EmptyText(t *testing.T) {
	e := NewHashingEmbedder(64)

	vecs, err := e.EmbedStrings(context.Background(), []string{""})
	require.NoError(t, err)
	require.Len(t, vecs, 1)

	for _, v := range vecs[0] {
		assert.Zero(t, v)
	}
}

func TestHashingEmbedder_SimilarTextsCloser(t *testing.T) {
	e := NewHashingEmbedder(384)

	vecs, err := e.EmbedStrings(context.Background(), []string{
		"research paper on clinical trial methodology",
		"clinical trial research methodology paper",
		"christmas party event announcement",
	})
	require.NoError(t, err)

	dot := func(a, b []float64) float64 {
		var s float64
		for i := range a {
			s += a[i] * b[i]
		}
		return s
	}

	simRelated := dot(vecs[0], vecs[1])
	simUnrelated := dot(vecs[0], vecs[2])
	assert.Greater(t, simRelated, simUnrelated)
}
