package nlp

import (
	"strings"
	"unicode/utf8"
)

// minSentenceLen 句子修剪后长度需严格大于该值才保留，过滤标题和碎片
const minSentenceLen = 20

// 常见缩写，其后的句点不是句子边界
var abbreviations = map[string]struct{}{
	"mr": {}, "mrs": {}, "ms": {}, "dr": {}, "prof": {}, "engr": {}, "atty": {},
	"no": {}, "vol": {}, "et": {}, "al": {}, "etc": {}, "vs": {}, "inc": {},
	"jr": {}, "sr": {}, "st": {}, "dept": {}, "fig": {}, "approx": {},
}

// SentenceSplitter 句子切分器
type SentenceSplitter struct{}

// NewSentenceSplitter 创建句子切分器
func NewSentenceSplitter() *SentenceSplitter {
	return &SentenceSplitter{}
}

// Split 切分句子并丢弃修剪后长度不超过 20 字符的片段
func (s *SentenceSplitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var sentences []string
	var cur strings.Builder

	flush := func() {
		sent := strings.TrimSpace(cur.String())
		cur.Reset()
		if utf8.RuneCountInString(sent) > minSentenceLen {
			sentences = append(sentences, sent)
		}
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		cur.WriteRune(r)

		switch r {
		case '\n':
			flush()
		case '.', '!', '?':
			if r == '.' && isAbbreviation(cur.String()) {
				continue
			}
			// 句点后跟数字或小写字母时不视为边界（编号、域名）
			if next, ok := peekNonSpace(runes, i+1); ok {
				if r == '.' && (isDigit(next) || isLower(next)) {
					continue
				}
			}
			flush()
		}
	}
	flush()

	return sentences
}

// isAbbreviation 判断当前缓冲是否以常见缩写加句点结尾
func isAbbreviation(buf string) bool {
	trimmed := strings.TrimSuffix(buf, ".")
	idx := strings.LastIndexFunc(trimmed, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '(' || r == '\n'
	})
	word := strings.ToLower(trimmed[idx+1:])
	_, ok := abbreviations[word]
	return ok
}

func peekNonSpace(runes []rune, from int) (rune, bool) {
	for i := from; i < len(runes); i++ {
		if runes[i] != ' ' && runes[i] != '\t' {
			return runes[i], true
		}
	}
	return 0, false
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
func isLower(r rune) bool { return r >= 'a' && r <= 'z' }
