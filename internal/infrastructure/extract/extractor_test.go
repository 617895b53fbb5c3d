package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecm-api/internal/config"
	"ecm-api/internal/domain/entity"
)

func newTestExtractor() *Extractor {
	return NewExtractor(&config.OCRConfig{Enabled: false})
}

func TestDetectType(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"report.pdf", entity.DocumentTypePDF},
		{"Memo.PDF", entity.DocumentTypePDF},
		{"minutes.docx", entity.DocumentTypeDOCX},
		{"scan.jpg", entity.DocumentTypeImage},
		{"scan.png", entity.DocumentTypeImage},
		{"notes.txt", entity.DocumentTypeText},
		{"archive.zip", ""},
		{"noext", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectType(tt.filename), tt.filename)
	}
}

func TestExtract_PlainText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("Special Order No. 42, series of 2024.\n"), 0o644))

	text := newTestExtractor().Extract(context.Background(), path, entity.DocumentTypeText)
	assert.Equal(t, "Special Order No. 42, series of 2024.", text)
}

func TestExtract_PlainTextInvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.txt")
	require.NoError(t, os.WriteFile(path, []byte("valid \xff\xfe text\x00 here"), 0o644))

	text := newTestExtractor().Extract(context.Background(), path, entity.DocumentTypeText)
	assert.Equal(t, "valid  text here", text)
}

func TestExtract_DOCX(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "memo.docx")
	writeDocx(t, path, `<?xml version="1.0"?><w:document><w:body>`+
		`<w:p><w:r><w:t>Memorandum of Agreement</w:t></w:r></w:p>`+
		`<w:p><w:r><w:t>This agreement binds the parties involved.</w:t></w:r></w:p>`+
		`</w:body></w:document>`)

	text := newTestExtractor().Extract(context.Background(), path, entity.DocumentTypeDOCX)
	assert.Contains(t, text, "Memorandum of Agreement")
	assert.Contains(t, text, "This agreement binds the parties involved.")
	// 段落间保留换行
	assert.Contains(t, text, "Agreement\n")
}

func TestExtract_DOCXEntities(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "terms.docx")
	writeDocx(t, path, `<w:document><w:body><w:p><w:r><w:t>Terms &amp; Conditions</w:t></w:r></w:p></w:body></w:document>`)

	text := newTestExtractor().Extract(context.Background(), path, entity.DocumentTypeDOCX)
	assert.Contains(t, text, "Terms & Conditions")
}

func TestExtract_MissingFile(t *testing.T) {
	e := newTestExtractor()
	assert.Empty(t, e.Extract(context.Background(), "/nonexistent/file.pdf", entity.DocumentTypePDF))
	assert.Empty(t, e.Extract(context.Background(), "/nonexistent/file.docx", entity.DocumentTypeDOCX))
	assert.Empty(t, e.Extract(context.Background(), "/nonexistent/file.txt", entity.DocumentTypeText))
}

func TestExtract_UnknownTypeFallsBackToPlainText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inventory.bin")
	require.NoError(t, os.WriteFile(path, []byte("Inventory report for the supply office.\n"), 0o644))

	// 未知类型按纯文本读取而不是直接放弃
	text := newTestExtractor().Extract(context.Background(), path, "bin")
	assert.Equal(t, "Inventory report for the supply office.", text)
}

func TestExtract_PDFMixedNativeAndScannedPages(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.pdf")
	writeMixedPDF(t, path)
	tess, ppm, logPath := writeFakeOCRTools(t, dir)

	e := NewExtractor(&config.OCRConfig{
		Enabled:       true,
		TesseractPath: tess,
		PdftoppmPath:  ppm,
	})
	text := e.Extract(context.Background(), path, entity.DocumentTypePDF)

	// 原生页和 OCR 页在同一份文档中混合，顺序保持页序
	assert.Contains(t, text, "Annual Accomplishment Report")
	assert.Contains(t, text, "Scanned page content for approval")
	assert.Less(t,
		strings.Index(text, "Annual Accomplishment Report"),
		strings.Index(text, "Scanned page content for approval"),
	)

	calls, err := os.ReadFile(logPath)
	require.NoError(t, err)
	// 只对无文本层的第 2 页做 OCR，有文本层的第 1 页不渲染
	assert.Contains(t, string(calls), "-f 2 -l 2")
	assert.NotContains(t, string(calls), "-f 1 -l 1")
}

func TestExtract_PDFNativePagesSkipOCR(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "native.pdf")
	writeNativePDF(t, path)
	tess, ppm, logPath := writeFakeOCRTools(t, dir)

	e := NewExtractor(&config.OCRConfig{
		Enabled:       true,
		TesseractPath: tess,
		PdftoppmPath:  ppm,
	})
	text := e.Extract(context.Background(), path, entity.DocumentTypePDF)

	assert.Contains(t, text, "Annual Accomplishment Report")
	// 所有页都有文本层时不应调用任何 OCR 工具
	_, err := os.Stat(logPath)
	assert.True(t, os.IsNotExist(err))
}

func TestExtract_PDFScannedPageWithOCRDisabled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.pdf")
	writeMixedPDF(t, path)

	// OCR 禁用时扫描页降级为空，原生页正常提取
	text := newTestExtractor().Extract(context.Background(), path, entity.DocumentTypePDF)
	assert.Contains(t, text, "Annual Accomplishment Report")
	assert.NotContains(t, text, "Scanned")
}

func TestExtract_ImageWithoutOCR(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.png")
	require.NoError(t, os.WriteFile(path, []byte("not a real png"), 0o644))

	// OCR 禁用时图片提取降级为空串而不报错
	assert.Empty(t, newTestExtractor().Extract(context.Background(), path, entity.DocumentTypeImage))
}

// writeMixedPDF 写一份两页 PDF：第 1 页有原生文本层，第 2 页内容流为空（模拟扫描页）
func writeMixedPDF(t *testing.T, path string) {
	t.Helper()

	content := "BT /F1 12 Tf 72 720 Td (Annual Accomplishment Report) Tj ET"
	writePDF(t, path, []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R 4 0 R] /Count 2 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 5 0 R >> >> /Contents 6 0 R >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 7 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		"<< /Length 0 >>\nstream\n\nendstream",
	})
}

// writeNativePDF 写一份单页 PDF，带原生文本层
func writeNativePDF(t *testing.T, path string) {
	t.Helper()

	content := "BT /F1 12 Tf 72 720 Td (Annual Accomplishment Report) Tj ET"
	writePDF(t, path, []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
	})
}

// writePDF 按对象列表拼一份未压缩 PDF，交叉引用表偏移量按实际字节位置计算
func writePDF(t *testing.T, path string, objects []string) {
	t.Helper()

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects)+1)
	for i, obj := range objects {
		offsets[i+1] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xrefPos := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(objects); i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(objects)+1, xrefPos)

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

// writeFakeOCRTools 写两个替身脚本：pdftoppm 记录参数并生成空白页图片，
// tesseract 记录参数并输出固定识别文本。调用记录写入返回的日志文件。
func writeFakeOCRTools(t *testing.T, dir string) (tesseract, pdftoppm, logPath string) {
	t.Helper()
	logPath = filepath.Join(dir, "ocr-calls.log")

	pdftoppm = filepath.Join(dir, "pdftoppm")
	script := fmt.Sprintf("#!/bin/sh\necho \"pdftoppm $@\" >> %q\neval \"prefix=\\${$#}\"\n: > \"${prefix}-1.png\"\n", logPath)
	require.NoError(t, os.WriteFile(pdftoppm, []byte(script), 0o755))

	tesseract = filepath.Join(dir, "tesseract")
	script = fmt.Sprintf("#!/bin/sh\necho \"tesseract $@\" >> %q\necho \"Scanned page content for approval\"\n", logPath)
	require.NoError(t, os.WriteFile(tesseract, []byte(script), 0o755))

	return tesseract, pdftoppm, logPath
}

func writeDocx(t *testing.T, path, documentXML string) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
}
