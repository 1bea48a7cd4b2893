// Package extract turns stored files into raw text. Each pipeline maps
// empty or unreadable content to a typed content error and wraps I/O and
// capability failures as temporary, so the task layer can tell terminal
// failures from retryable ones.
package extract

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/kirillkom/doc-insight/internal/core/domain"
	"github.com/kirillkom/doc-insight/internal/core/ports"
)

type Extractor struct {
	ocr      ports.OCREngine
	langHint string
}

func New(ocr ports.OCREngine, langHint string) *Extractor {
	if strings.TrimSpace(langHint) == "" {
		langHint = "rus+eng"
	}
	return &Extractor{ocr: ocr, langHint: langHint}
}

func (e *Extractor) Extract(ctx context.Context, pipeline domain.Pipeline, path string) (string, error) {
	switch pipeline {
	case domain.PipelineImageOCR:
		return e.extractImage(ctx, path)
	case domain.PipelinePDFOCR:
		return e.extractPDF(ctx, path)
	case domain.PipelineDocx:
		return extractDocx(path)
	case domain.PipelineSpreadsheet:
		return extractSpreadsheet(path)
	case domain.PipelinePlainText:
		return extractPlainText(path)
	default:
		return "", domain.WrapError(domain.ErrUnsupportedType, "extract",
			fmt.Errorf("pipeline %q", pipeline))
	}
}

func readSource(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.WrapError(domain.ErrTemporary, "read source file", err)
	}
	return raw, nil
}
