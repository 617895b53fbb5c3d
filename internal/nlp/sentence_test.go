package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentenceSplitter_Basic(t *testing.T) {
	s := NewSentenceSplitter()

	got := s.Split("The committee approved the annual budget proposal. The meeting was adjourned at five in the afternoon.")
	require.Len(t, got, 2)
	assert.Equal(t, "The committee approved the annual budget proposal.", got[0])
	assert.Equal(t, "The meeting was adjourned at five in the afternoon.", got[1])
}

func TestSentenceSplitter_DropsShortFragments(t *testing.T) {
	s := NewSentenceSplitter()

	// 修剪后不超过 20 字符的片段被丢弃
	got := s.Split("Heading. The faculty loading schedule for the first semester was finalized today.")
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "faculty loading")
}

func TestSentenceSplitter_ExactlyTwentyCharsDropped(t *testing.T) {
	s := NewSentenceSplitter()

	// 恰好 20 字符不保留，需严格大于
	twenty := "abcdefghij abcdefghi"
	require.Len(t, twenty, 20)
	assert.Empty(t, s.Split(twenty))
}

func TestSentenceSplitter_AbbreviationGuard(t *testing.T) {
	s := NewSentenceSplitter()

	got := s.Split("Dr. Santos presented the findings of the commissioned study to the board.")
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "Dr. Santos")
}

func TestSentenceSplitter_NumberedItems(t *testing.T) {
	s := NewSentenceSplitter()

	// "no. 12" 中的句点不是句子边界
	got := s.Split("Resolution no. 12 was unanimously endorsed by the governing council members.")
	require.Len(t, got, 1)
}

func TestSentenceSplitter_NewlineBoundary(t *testing.T) {
	s := NewSentenceSplitter()

	got := s.Split("First paragraph about administrative matters\nSecond paragraph about academic matters")
	require.Len(t, got, 2)
}

func TestSentenceSplitter_Empty(t *testing.T) {
	s := NewSentenceSplitter()
	assert.Empty(t, s.Split(""))
	assert.Empty(t, s.Split("   \n  "))
}
