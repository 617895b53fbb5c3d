// Package nlp 提供命名实体识别和分句能力
// 管线在进程启动时构建一次，之后只读，可被并发调用。
package nlp

// 实体标签
const (
	LabelOrg           = "ORG"
	LabelPerson        = "PERSON"
	LabelDate          = "DATE"
	LabelLaw           = "LAW"
	LabelEvent         = "EVENT"
	LabelPolicyKeyword = "CUSTOM_POLICY_KEYWORD"
	LabelResearchTerm  = "RESEARCH_TERM"
)

// Entity 命名实体
type Entity struct {
	Text  string
	Label string
}

// Pipeline 自然语言处理管线接口
// 作为只读服务句柄注入到分类器和高亮器，便于测试替换
type Pipeline interface {
	// Entities 识别文本中的命名实体
	Entities(text string) []Entity
	// Sentences 切分句子，丢弃修剪后长度不足的片段
	Sentences(text string) []string
}

// RulePipeline 基于规则的管线实现
type RulePipeline struct {
	ner      *Recognizer
	splitter *SentenceSplitter
}

// NewPipeline 创建规则管线
func NewPipeline() *RulePipeline {
	return &RulePipeline{
		ner:      NewRecognizer(),
		splitter: NewSentenceSplitter(),
	}
}

// Entities 识别文本中的命名实体
func (p *RulePipeline) Entities(text string) []Entity {
	return p.ner.Recognize(text)
}

// Sentences 切分句子
func (p *RulePipeline) Sentences(text string) []string {
	return p.splitter.Split(text)
}
