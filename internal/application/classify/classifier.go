package classify

import (
	"strings"

	"ecm-api/internal/domain/entity"
	"ecm-api/internal/nlp"
	"ecm-api/pkg/metrics"
)

// Classifier 多信号加权分类器
// 信号分三段：实体信号、关键词信号、结构短语信号，逐段累加到计分板。
// 纯函数语义：相同文本恒定产出相同分类。
type Classifier struct {
	pipeline nlp.Pipeline
}

// NewClassifier 创建分类器
func NewClassifier(pipeline nlp.Pipeline) *Classifier {
	return &Classifier{pipeline: pipeline}
}

// Classify 对文本分类，始终返回有效分类
// 空文本或所有信号得分不足时返回 General
func (c *Classifier) Classify(text string) entity.Category {
	lower := strings.ToLower(text)

	scores := make(map[entity.Category]int, len(entity.Categories))
	for _, cat := range entity.Categories {
		scores[cat] = 0
	}

	fold(scores, c.scoreEntities(lower))
	fold(scores, scoreKeywords(lower))
	fold(scores, scoreStructural(lower))

	winner := pickWinner(scores)
	metrics.DocumentsClassifiedTotal.WithLabelValues(winner.String()).Inc()
	return winner
}

// ClassifyWithScores 返回分类结果和完整计分板，用于调试接口
func (c *Classifier) ClassifyWithScores(text string) (entity.Category, map[entity.Category]int) {
	lower := strings.ToLower(text)

	scores := make(map[entity.Category]int, len(entity.Categories))
	for _, cat := range entity.Categories {
		scores[cat] = 0
	}

	fold(scores, c.scoreEntities(lower))
	fold(scores, scoreKeywords(lower))
	fold(scores, scoreStructural(lower))

	return pickWinner(scores), scores
}

// Keywords 返回胜出分类下命中的关键词，按规则表顺序去重
// 用于文档元数据展示和关键词过滤
func (c *Classifier) Keywords(text string) []string {
	lower := strings.ToLower(text)
	winner, _ := c.ClassifyWithScores(text)
	if winner == entity.CategoryGeneral {
		return nil
	}

	seen := make(map[string]struct{})
	var out []string
	for _, rule := range keywordRules[winner] {
		if _, dup := seen[rule.Substr]; dup {
			continue
		}
		if strings.Contains(lower, rule.Substr) {
			seen[rule.Substr] = struct{}{}
			out = append(out, rule.Substr)
		}
	}
	return out
}

// scoreEntities 实体信号：每个识别到的实体按标签规则计分
func (c *Classifier) scoreEntities(lower string) map[entity.Category]int {
	out := make(map[entity.Category]int)
	if lower == "" {
		return out
	}

	for _, ent := range c.pipeline.Entities(lower) {
		for _, rule := range entityRules[ent.Label] {
			out[rule.Category] += rule.Weight
		}
	}
	return out
}

// scoreKeywords 关键词信号：子串出现即按规则计一次分
func scoreKeywords(lower string) map[entity.Category]int {
	out := make(map[entity.Category]int)
	for cat, rules := range keywordRules {
		for _, rule := range rules {
			if strings.Contains(lower, rule.Substr) {
				out[cat] += rule.Weight
			}
		}
	}
	return out
}

// scoreStructural 结构短语信号：规则之间相互独立，可叠加
func scoreStructural(lower string) map[entity.Category]int {
	out := make(map[entity.Category]int)
	for _, rule := range structuralRules {
		if matchStructural(lower, rule) {
			out[rule.Category] += rule.Weight
		}
	}
	return out
}

func matchStructural(lower string, rule structuralRule) bool {
	if len(rule.Any) == 0 && len(rule.All) == 0 {
		return false
	}

	if len(rule.Any) > 0 {
		hit := false
		for _, s := range rule.Any {
			if strings.Contains(lower, s) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}

	for _, s := range rule.All {
		if !strings.Contains(lower, s) {
			return false
		}
	}
	return true
}

// fold 将阶段得分累加到计分板
func fold(scores map[entity.Category]int, stage map[entity.Category]int) {
	for cat, v := range stage {
		scores[cat] += v
	}
}

// pickWinner 选出最高分分类
// 并列时按分类目录声明顺序取先出现者；最高分不足最低置信分时返回 General
func pickWinner(scores map[entity.Category]int) entity.Category {
	winner := entity.Categories[0]
	best := scores[winner]
	for _, cat := range entity.Categories[1:] {
		if scores[cat] > best {
			winner = cat
			best = scores[cat]
		}
	}

	if best < minWinningScore {
		return entity.CategoryGeneral
	}
	return winner
}
