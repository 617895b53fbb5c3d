// Package classify 提供文档分类实现
package classify

import (
	"ecm-api/internal/domain/entity"
	"ecm-api/internal/nlp"
)

// entityRule 实体标签计分规则
type entityRule struct {
	Category entity.Category
	Weight   int
}

// entityRules 实体标签 -> 计分规则
// 实体信号权重远高于关键词权重，代表高置信度结构信号
var entityRules = map[string][]entityRule{
	nlp.LabelOrg:           {{entity.CategoryAdministrative, 1}},
	nlp.LabelPerson:        {{entity.CategoryAdministrative, 1}},
	nlp.LabelDate:          {{entity.CategoryOfficialIssuances, 1}},
	nlp.LabelLaw:           {{entity.CategoryPolicies, 20}},
	nlp.LabelPolicyKeyword: {{entity.CategoryPolicies, 20}},
	nlp.LabelEvent:         {{entity.CategoryNewsEvents, 2}},
	nlp.LabelResearchTerm:  {{entity.CategoryResearch, 20}},
}

// keywordRule 关键词子串计分规则
// 子串在文本中出现即计一次分，与出现次数无关
type keywordRule struct {
	Substr string
	Weight int
}

var keywordRules = map[entity.Category][]keywordRule{
	entity.CategoryAdministrative: {
		{"office", 2}, {"admin", 2}, {"administrative", 2}, {"committee", 2},
		{"meeting", 2}, {"secretariat", 2}, {"endorsement", 2}, {"attendance", 2},
		{"subject", 2},
	},
	entity.CategoryAcademics: {
		{"academic", 2}, {"faculty", 2}, {"student", 2}, {"class", 2},
		{"course", 2}, {"curriculum", 2}, {"syllabus", 2}, {"lecture", 2},
		{"load", 2}, {"midterm", 2}, {"finals", 2},
	},
	entity.CategoryResearch: {
		{"research", 2}, {"study", 2}, {"rde", 2}, {"proposal", 2},
		{"ethics", 2}, {"manuscript", 2}, {"publication", 2}, {"extension", 4},
		{"innovation", 2}, {"narrative report", 2}, {"terminal report", 2},
	},
	entity.CategoryPolicies: {
		{"policy", 2}, {"guidelines", 2}, {"procedures", 2}, {"compliance", 2},
		{"section", 2}, {"article", 2}, {"provision", 2}, {"manual", 2},
		{"effectivity", 2},
	},
	entity.CategoryOfficialIssuances: {
		{"memo", 2}, {"memorandum", 2}, {"special order", 2}, {"directive", 2},
		{"instruction", 2},
		{"resolution", 2}, {"endorsed", 2}, {"recommendation", 2}, {"approved", 2},
		{"council", 2}, {"board", 2},
		{"memorandum of agreement", 2}, {"moa", 2}, {"agreement", 2}, {"parties", 2},
		{"obligations", 2}, {"responsibilities", 2}, {"deliverables", 2},
		{"terms and conditions", 2}, {"scope of work", 2}, {"duration", 2},
		{"effectivity", 2}, {"signatories", 2},
	},
	entity.CategoryNewsEvents: {
		{"event", 2}, {"activity", 2}, {"program", 2}, {"launching", 2},
		{"workshop", 2}, {"celebration", 2}, {"highlights", 2}, {"gallery", 2},
	},
}

// structuralRule 结构短语计分规则
// Any 中任一子串出现，且 All 中全部子串出现时加分；两组都可为空视为不触发
type structuralRule struct {
	Category entity.Category
	Weight   int
	Any      []string
	All      []string
}

var structuralRules = []structuralRule{
	{entity.CategoryOfficialIssuances, 12, []string{"resolution no"}, nil},
	{entity.CategoryOfficialIssuances, 10, []string{"special order", "so no"}, nil},
	{entity.CategoryOfficialIssuances, 8, []string{"memorandum"}, nil},
	{entity.CategoryOfficialIssuances, 12, []string{"memorandum of agreement"}, nil},
	{entity.CategoryOfficialIssuances, 8, nil, []string{"this agreement", "parties"}},
	{entity.CategoryOfficialIssuances, 5, []string{"terms and conditions"}, nil},
	{entity.CategoryOfficialIssuances, 10, []string{"obligations of the parties"}, nil},
	{entity.CategoryAcademics, 7, nil, []string{"faculty", "load"}},
	{entity.CategoryResearch, 5, nil, []string{"research", "abstract"}},
	{entity.CategoryResearch, 30, []string{"narrative report"}, nil},
	{entity.CategoryResearch, 30, []string{"terminal report"}, nil},
	{entity.CategoryNewsEvents, 5, []string{"event", "activity"}, nil},
	{entity.CategoryPolicies, 15, []string{"manual"}, nil},
	{entity.CategoryPolicies, 15, []string{"repealing clause"}, nil},
}

// minWinningScore 最低置信分，低于该分的文档归为 General
const minWinningScore = 2
