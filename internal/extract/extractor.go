package extract

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/aherreros/invoice-ledger/constants"
	"github.com/aherreros/invoice-ledger/internal/common"
)

// Config holds the external extraction binaries.
type Config struct {
	Pdftotext     string // binary name or absolute path; if empty -> "pdftotext"
	Tesseract     string // binary name or absolute path; if empty -> "tesseract"
	TesseractLang string // default "eng"
}

// Extractor shells out to pdftotext for PDF text layers and to tesseract
// for scanned images. It never panics; every tool failure comes back as a
// wrapped common.ErrExtraction.
type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

// Extract picks a strategy based on file extension. Callers are expected to
// have filtered out unsupported extensions at discovery time.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	ext := constants.NormalizeExt(filepath.Ext(path))
	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		return e.extractPDF(ctx, path)
	case constants.IMAGE:
		return e.extractImage(ctx, path)
	default:
		return "", fmt.Errorf("%w: unsupported extension %q", common.ErrExtraction, ext)
	}
}

func (e *Extractor) extractPDF(ctx context.Context, path string) (string, error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		e.logger.Error("pdf text extraction failed", "path", path, "stderr", truncate(string(errb), 2<<10), "error", err)
		return "", fmt.Errorf("%w: pdftotext: %v", common.ErrExtraction, err)
	}
	// pdftotext emits a form feed between pages; the downstream contract is
	// per-page text joined by newlines.
	text := strings.ReplaceAll(string(out), "\f", "\n")
	if strings.TrimSpace(text) == "" {
		e.logger.Warn("pdf contains no extractable text", "path", path)
		return "", fmt.Errorf("%w: pdftotext: no text found in %s", common.ErrExtraction, path)
	}
	pages := 1 + strings.Count(string(out), "\f")
	e.logger.Debug("pdf text extracted", "path", path, "pages", pages, "bytes", len(text))
	return text, nil
}

func (e *Extractor) extractImage(ctx context.Context, path string) (string, error) {
	// tesseract <file> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, path, "stdout", "-l", e.cfg.TesseractLang)
	if err != nil {
		e.logger.Error("image ocr failed", "path", path, "stderr", truncate(string(errb), 2<<10), "error", err)
		return "", fmt.Errorf("%w: tesseract: %v", common.ErrExtraction, err)
	}
	if strings.TrimSpace(string(out)) == "" {
		e.logger.Warn("image contains no recognizable text", "path", path)
		return "", fmt.Errorf("%w: tesseract: no text found in %s", common.ErrExtraction, path)
	}
	e.logger.Debug("image ocr ok", "path", path, "bytes", len(out))
	return string(out), nil
}
