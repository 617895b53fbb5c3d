package extract

import (
	"bytes"
	"context"
	"strings"

	"github.com/ledongthuc/pdf"

	"ecm-api/pkg/logger"
)

// extractPDF 提取 PDF 文本，逐页处理
// 每页先取原生文本层，该页为空时视为扫描页，仅对该页做 OCR，
// 同一份文档中原生页和 OCR 页可以混合。
func (e *Extractor) extractPDF(ctx context.Context, path string) string {
	log := logger.FromContext(ctx)

	f, r, err := pdf.Open(path)
	if err != nil {
		// 文本层解析失败时整份走 OCR 兜底
		log.Warn("failed to open pdf text layer", "path", path, "error", err)
		if e.ocr == nil {
			return ""
		}
		return normalizeText(e.ocr.RecognizePDF(ctx, path))
	}
	defer f.Close()

	var buf bytes.Buffer
	for i := 1; i <= r.NumPage(); i++ {
		text := nativePageText(r, i)
		if strings.TrimSpace(text) == "" {
			if e.ocr == nil {
				log.Warn("pdf page has no native text and OCR is disabled", "path", path, "page", i)
			} else {
				text = e.ocr.RecognizePDFPage(ctx, path, i)
			}
		}
		buf.WriteString(text)
		buf.WriteString("\n")
	}

	return normalizeText(buf.String())
}

// nativePageText 提取单页原生文本层，单页损坏不阻断整份文档
func nativePageText(r *pdf.Reader, page int) string {
	p := r.Page(page)
	if p.V.IsNull() {
		return ""
	}
	text, err := p.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}
