package extract

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"ecm-api/internal/config"
	"ecm-api/pkg/logger"
)

// OCREngine 基于 tesseract 命令行的 OCR 引擎
// PDF 先用 pdftoppm 渲染为逐页 PNG，再逐页识别
type OCREngine struct {
	tesseractPath string
	pdftoppmPath  string
	language      string
}

// NewOCREngine 创建 OCR 引擎
func NewOCREngine(cfg *config.OCRConfig) *OCREngine {
	tess := cfg.TesseractPath
	if tess == "" {
		tess = "tesseract"
	}
	ppm := cfg.PdftoppmPath
	if ppm == "" {
		ppm = "pdftoppm"
	}
	lang := cfg.Language
	if lang == "" {
		lang = "eng"
	}
	return &OCREngine{
		tesseractPath: tess,
		pdftoppmPath:  ppm,
		language:      lang,
	}
}

// RecognizeImage 识别单张图片，失败时返回空字符串
func (o *OCREngine) RecognizeImage(ctx context.Context, path string) string {
	cmd := exec.CommandContext(ctx, o.tesseractPath, path, "stdout", "-l", o.language)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		logger.FromContext(ctx).Warn("tesseract failed",
			"path", path,
			"error", err,
			"stderr", strings.TrimSpace(stderr.String()),
		)
		return ""
	}

	return normalizeText(stdout.String())
}

// RecognizePDF 渲染整份 PDF 为逐页图片并识别，失败时返回空字符串
func (o *OCREngine) RecognizePDF(ctx context.Context, path string) string {
	return o.recognizePDFRange(ctx, path, 0, 0)
}

// RecognizePDFPage 只渲染并识别指定页，失败时返回空字符串
func (o *OCREngine) RecognizePDFPage(ctx context.Context, path string, page int) string {
	return o.recognizePDFRange(ctx, path, page, page)
}

// recognizePDFRange 渲染页区间为图片并识别，first 为 0 时渲染整份文档
func (o *OCREngine) recognizePDFRange(ctx context.Context, path string, first, last int) string {
	tmpDir, err := os.MkdirTemp("", "ecm-ocr-*")
	if err != nil {
		logger.FromContext(ctx).Warn("failed to create ocr temp dir", "error", err)
		return ""
	}
	defer os.RemoveAll(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	args := []string{"-png", "-r", "200"}
	if first > 0 {
		args = append(args, "-f", strconv.Itoa(first), "-l", strconv.Itoa(last))
	}
	args = append(args, path, prefix)
	cmd := exec.CommandContext(ctx, o.pdftoppmPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		logger.FromContext(ctx).Warn("pdftoppm failed",
			"path", path,
			"error", err,
			"stderr", strings.TrimSpace(stderr.String()),
		)
		return ""
	}

	pages, err := filepath.Glob(prefix + "*.png")
	if err != nil || len(pages) == 0 {
		return ""
	}
	sort.Strings(pages)

	var buf bytes.Buffer
	for _, page := range pages {
		// 单页识别失败不阻断整份文档
		text := o.RecognizeImage(ctx, page)
		if text == "" {
			continue
		}
		buf.WriteString(text)
		buf.WriteString("\n")
	}

	return buf.String()
}
