package extract

import (
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// extractPlainText 读取纯文本文件，忽略非法字节
func extractPlainText(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return normalizeText(string(data))
}

// normalizeText 统一文本形态：NFC 归一化，剔除非法 UTF-8 序列和 NUL
func normalizeText(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	s = strings.ReplaceAll(s, "\x00", "")
	return norm.NFC.String(s)
}
