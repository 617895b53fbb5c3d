package extract

import (
	"context"

	"ecm-api/pkg/logger"
)

// extractImage 通过 OCR 提取图片文本
func (e *Extractor) extractImage(ctx context.Context, path string) string {
	if e.ocr == nil {
		logger.FromContext(ctx).Warn("image extraction requires OCR but it is disabled", "path", path)
		return ""
	}
	return e.ocr.RecognizeImage(ctx, path)
}
