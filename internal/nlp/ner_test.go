package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func labelsOf(entities []Entity) []string {
	labels := make([]string, 0, len(entities))
	for _, e := range entities {
		labels = append(labels, e.Label)
	}
	return labels
}

func TestRecognizer_Dates(t *testing.T) {
	r := NewRecognizer()

	ents := r.Recognize("special order no. 12, series of 2024, issued on january 5, 2024")
	labels := labelsOf(ents)
	assert.Contains(t, labels, LabelDate)
}

func TestRecognizer_LawAndPolicy(t *testing.T) {
	r := NewRecognizer()

	ents := r.Recognize("compliance with gdpr and republic act no. 10173 is mandatory per the operations manual")
	labels := labelsOf(ents)
	assert.Contains(t, labels, LabelLaw)
	assert.Contains(t, labels, LabelPolicyKeyword)
}

func TestRecognizer_ResearchTerms(t *testing.T) {
	r := NewRecognizer()

	ents := r.Recognize("the terminal report summarizes the clinical trial and peer review outcomes")
	var researchCount int
	for _, e := range ents {
		if e.Label == LabelResearchTerm {
			researchCount++
		}
	}
	assert.Equal(t, 3, researchCount)
}

func TestRecognizer_CaseInsensitive(t *testing.T) {
	r := NewRecognizer()

	// 分类器传入的是小写化文本，但识别器本身不应依赖大小写
	lower := r.Recognize("office of the president")
	upper := r.Recognize("OFFICE OF THE PRESIDENT")
	assert.Equal(t, labelsOf(lower), labelsOf(upper))
}

func TestRecognizer_EmptyText(t *testing.T) {
	assert.Empty(t, NewRecognizer().Recognize(""))
}

func TestRecognizer_NoEntities(t *testing.T) {
	assert.Empty(t, NewRecognizer().Recognize("nothing interesting here"))
}
