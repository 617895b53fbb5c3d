package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecm-api/internal/domain/entity"
	"ecm-api/internal/nlp"
)

func newTestClassifier() *Classifier {
	return NewClassifier(nlp.NewPipeline())
}

func TestClassify_EmptyText(t *testing.T) {
	c := newTestClassifier()
	assert.Equal(t, entity.CategoryGeneral, c.Classify(""))
	assert.Equal(t, entity.CategoryGeneral, c.Classify("   \n\t  "))
}

func TestClassify_NoSignal(t *testing.T) {
	c := newTestClassifier()
	assert.Equal(t, entity.CategoryGeneral, c.Classify("xyzzy plugh quux"))
}

func TestClassify_TerminalReport(t *testing.T) {
	c := newTestClassifier()

	cat, scores := c.ClassifyWithScores("Terminal Report on the completed project")
	assert.Equal(t, entity.CategoryResearch, cat)
	// 结构信号 +30、实体信号 +20、关键词 +2
	assert.GreaterOrEqual(t, scores[entity.CategoryResearch], 30)
}

func TestClassify_NarrativeReport(t *testing.T) {
	c := newTestClassifier()
	assert.Equal(t, entity.CategoryResearch, c.Classify("narrative report of accomplishments"))
}

func TestClassify_ResolutionNumber(t *testing.T) {
	c := newTestClassifier()
	assert.Equal(t, entity.CategoryOfficialIssuances,
		c.Classify("board resolution no. 45 endorsed by the governing council"))
}

func TestClassify_SpecialOrder(t *testing.T) {
	c := newTestClassifier()
	assert.Equal(t, entity.CategoryOfficialIssuances,
		c.Classify("special order designating the officer in charge"))
}

func TestClassify_MemorandumOfAgreement(t *testing.T) {
	c := newTestClassifier()

	cat, scores := c.ClassifyWithScores(
		"memorandum of agreement: this agreement binds the parties; obligations of the parties are listed below")
	assert.Equal(t, entity.CategoryOfficialIssuances, cat)
	// 结构规则相互独立可叠加: memorandum +8, moa +12, this agreement&parties +8, obligations of the parties +10
	assert.GreaterOrEqual(t, scores[entity.CategoryOfficialIssuances], 38)
}

func TestClassify_PolicyManual(t *testing.T) {
	c := newTestClassifier()
	assert.Equal(t, entity.CategoryPolicies,
		c.Classify("operations manual with repealing clause and compliance guidelines"))
}

func TestClassify_FacultyLoad(t *testing.T) {
	c := newTestClassifier()
	assert.Equal(t, entity.CategoryAcademics,
		c.Classify("faculty teaching load distribution for the semester curriculum"))
}

func TestClassify_Event(t *testing.T) {
	c := newTestClassifier()
	assert.Equal(t, entity.CategoryNewsEvents,
		c.Classify("launching celebration event with program highlights and photo gallery"))
}

func TestClassify_KeywordScoredOncePerRule(t *testing.T) {
	c := newTestClassifier()

	// 同一关键词重复出现只计一次分
	_, once := c.ClassifyWithScores("committee")
	_, many := c.ClassifyWithScores("committee committee committee")
	assert.Equal(t, once[entity.CategoryAdministrative], many[entity.CategoryAdministrative])
}

func TestClassify_SubstringMatching(t *testing.T) {
	c := newTestClassifier()

	// 子串匹配而非词边界匹配
	_, scores := c.ClassifyWithScores("administering")
	assert.Equal(t, 2, scores[entity.CategoryAdministrative]) // "admin" 命中
}

func TestClassify_Idempotent(t *testing.T) {
	c := newTestClassifier()

	text := "special order no. 7 series of 2024 regarding faculty load and research proposal"
	first := c.Classify(text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, c.Classify(text))
	}
}

func TestPickWinner_TieBreakByDeclarationOrder(t *testing.T) {
	scores := map[entity.Category]int{
		entity.CategoryAdministrative:    5,
		entity.CategoryAcademics:         5,
		entity.CategoryResearch:          3,
		entity.CategoryPolicies:          0,
		entity.CategoryOfficialIssuances: 0,
		entity.CategoryNewsEvents:        0,
	}

	// 并列取目录声明顺序在前者，且多次运行结果一致
	for i := 0; i < 10; i++ {
		assert.Equal(t, entity.CategoryAdministrative, pickWinner(scores))
	}
}

func TestPickWinner_BelowFloor(t *testing.T) {
	scores := map[entity.Category]int{
		entity.CategoryAdministrative:    1,
		entity.CategoryAcademics:         0,
		entity.CategoryResearch:          0,
		entity.CategoryPolicies:          0,
		entity.CategoryOfficialIssuances: 1,
		entity.CategoryNewsEvents:        0,
	}
	assert.Equal(t, entity.CategoryGeneral, pickWinner(scores))
}

func TestClassify_AllCategoriesReachable(t *testing.T) {
	c := newTestClassifier()

	samples := map[entity.Category]string{
		entity.CategoryAdministrative:    "committee meeting attendance and endorsement by the secretariat",
		entity.CategoryAcademics:         "syllabus and curriculum for the midterm lecture class",
		entity.CategoryResearch:          "terminal report on the clinical trial study",
		entity.CategoryPolicies:          "policy manual with repealing clause provisions",
		entity.CategoryOfficialIssuances: "memorandum of agreement signed by the parties",
		entity.CategoryNewsEvents:        "workshop launching activity with celebration highlights",
	}

	for want, text := range samples {
		got := c.Classify(text)
		require.Equal(t, want, got, "text: %s", text)
	}
}
