package nlp

import (
	"regexp"
)

// patternRule 单条识别规则
type patternRule struct {
	label string
	re    *regexp.Regexp
}

// Recognizer 基于规则的命名实体识别器
// 分类器在小写化后的文本上运行识别，所有规则均大小写不敏感
type Recognizer struct {
	rules []patternRule
}

// NewRecognizer 创建识别器
func NewRecognizer() *Recognizer {
	compile := func(label, expr string) patternRule {
		return patternRule{label: label, re: regexp.MustCompile(`(?i)` + expr)}
	}

	return &Recognizer{
		rules: []patternRule{
			// 日期：月份、编号年份、数字日期
			compile(LabelDate, `\b(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2},?\s+\d{4}\b`),
			compile(LabelDate, `\bseries of \d{4}\b`),
			compile(LabelDate, `\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`),
			compile(LabelDate, `\b(?:a\.?y\.?|s\.?y\.?|fy)\s*\d{4}(?:\s*[-–]\s*\d{2,4})?\b`),

			// 机构：高校与行政单位称谓
			compile(LabelOrg, `\b(?:university|college|institute|campus|bureau|commission|council|secretariat)\b`),
			compile(LabelOrg, `\b(?:office|department|division|unit) of (?:the )?[a-z]+`),
			compile(LabelOrg, `\b(?:ched|deped|dost|dbm|coa|csc)\b`),

			// 人名：称谓 + 名字
			compile(LabelPerson, `\b(?:dr|mr|mrs|ms|engr|atty|prof|hon)\.?\s+[a-z][a-z'-]+`),
			compile(LabelPerson, `\b(?:president|chancellor|director|dean|chairperson|registrar)\s+[a-z][a-z'-]+`),

			// 法规
			compile(LabelLaw, `\bgdpr\b`),
			compile(LabelLaw, `\bhipaa\b`),
			compile(LabelLaw, `\bprivacy policy\b`),
			compile(LabelLaw, `\brepublic act(?:\s+no\.?)?\s*\d+\b`),
			compile(LabelLaw, `\bra\s+\d{4,5}\b`),
			compile(LabelLaw, `\bexecutive order(?:\s+no\.?)?\s*\d+\b`),

			// 活动
			compile(LabelEvent, `\b(?:summit|convocation|commencement|orientation|symposium|conference|festival)\b`),
			compile(LabelEvent, `\b(?:foundation|anniversary) (?:day|week|celebration)\b`),

			// 政策自定义词
			compile(LabelPolicyKeyword, `\bmanual\b`),

			// 研究术语
			compile(LabelResearchTerm, `\bterminal report\b`),
			compile(LabelResearchTerm, `\bclinical trial\b`),
			compile(LabelResearchTerm, `\bpeer review\b`),
			compile(LabelResearchTerm, `\bmethodology section\b`),
			compile(LabelResearchTerm, `\bresearch paper\b`),
		},
	}
}

// Recognize 识别文本中的全部实体，按规则声明顺序返回
func (r *Recognizer) Recognize(text string) []Entity {
	if text == "" {
		return nil
	}

	var entities []Entity
	for _, rule := range r.rules {
		for _, match := range rule.re.FindAllString(text, -1) {
			entities = append(entities, Entity{Text: match, Label: rule.label})
		}
	}
	return entities
}
