// Package extract 提供文档文本提取实现
// 提取永不返回业务错误：任何失败都降级为空字符串，由上层决定回退策略。
package extract

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ecm-api/internal/config"
	"ecm-api/internal/domain/entity"
	"ecm-api/pkg/logger"
	"ecm-api/pkg/metrics"
)

var tracer = otel.Tracer("extract")

// Extractor 多格式文本提取器
type Extractor struct {
	ocr *OCREngine
}

// NewExtractor 创建文本提取器
func NewExtractor(cfg *config.OCRConfig) *Extractor {
	var ocr *OCREngine
	if cfg != nil && cfg.Enabled {
		ocr = NewOCREngine(cfg)
	}
	return &Extractor{ocr: ocr}
}

// Extract 按文档类型提取文本
// 不支持的类型和提取失败一律返回空字符串
func (e *Extractor) Extract(ctx context.Context, path, docType string) string {
	ctx, span := tracer.Start(ctx, "extract.Extract",
		trace.WithAttributes(attribute.String("doc_type", docType)))
	defer span.End()

	start := time.Now()
	defer func() {
		metrics.ExtractionDuration.WithLabelValues(docType).Observe(time.Since(start).Seconds())
	}()

	log := logger.FromContext(ctx)

	var text string
	switch docType {
	case entity.DocumentTypePDF:
		text = e.extractPDF(ctx, path)
	case entity.DocumentTypeDOCX:
		text = extractDOCX(path)
	case entity.DocumentTypeImage:
		text = e.extractImage(ctx, path)
	case entity.DocumentTypeText:
		text = extractPlainText(path)
	default:
		// 未知类型按纯文本读取，非法字节被剔除
		log.Warn("unknown document type, reading as plain text", "type", docType, "path", path)
		text = extractPlainText(path)
	}

	text = strings.TrimSpace(text)
	span.SetAttributes(attribute.Int("text_length", len(text)))
	if text == "" {
		log.Warn("extraction produced no text", "type", docType, "path", path)
	}
	return text
}

// DetectType 根据文件扩展名识别文档类型，未知类型返回空串
func DetectType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return entity.DocumentTypePDF
	case ".docx":
		return entity.DocumentTypeDOCX
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp":
		return entity.DocumentTypeImage
	case ".txt", ".md", ".text":
		return entity.DocumentTypeText
	default:
		return ""
	}
}
