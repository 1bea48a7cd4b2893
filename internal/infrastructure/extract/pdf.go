package extract

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/kirillkom/doc-insight/internal/core/domain"
)

// extractPDF walks pages in order. A page with an embedded text layer is
// read directly; pages without one are handed to the OCR capability. Page
// texts are concatenated with a page-number header in rendering order.
func (e *Extractor) extractPDF(ctx context.Context, path string) (string, error) {
	raw, err := readSource(path)
	if err != nil {
		return "", err
	}

	file, reader, err := openPDF(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	pages := make([]string, 0, reader.NumPage())
	for page := 1; page <= reader.NumPage(); page++ {
		text := embeddedPageText(reader, page)
		if strings.TrimSpace(text) == "" {
			text, err = e.ocr.RecognizePDFPage(ctx, raw, page, e.langHint)
			if err != nil {
				return "", fmt.Errorf("ocr pdf page %d: %w", page, err)
			}
		}
		pages = append(pages, text)
	}

	full := concatPages(pages)
	if stripPageHeaders(full) == "" {
		return "", domain.WrapError(domain.ErrOCREmpty, "extract pdf",
			fmt.Errorf("no text recognized on %d pages", reader.NumPage()))
	}
	return full, nil
}

// concatPages assembles per-page texts with page-number headers, in
// rendering order.
func concatPages(pages []string) string {
	var b strings.Builder
	for i, text := range pages {
		fmt.Fprintf(&b, "\n\nPage %d:\n%s", i+1, text)
	}
	return strings.TrimSpace(b.String())
}

// openPDF shields callers from panics inside the pdf library on malformed
// input; those surface as temporary errors and go through the retry policy.
func openPDF(path string) (file *os.File, reader *pdf.Reader, err error) {
	defer func() {
		if r := recover(); r != nil {
			if file != nil {
				file.Close()
			}
			file, reader = nil, nil
			err = domain.WrapError(domain.ErrTemporary, "open pdf", fmt.Errorf("pdf reader panic: %v", r))
		}
	}()

	file, reader, err = pdf.Open(path)
	if err != nil {
		return nil, nil, domain.WrapError(domain.ErrTemporary, "open pdf", err)
	}
	return file, reader, nil
}

func embeddedPageText(reader *pdf.Reader, page int) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()

	p := reader.Page(page)
	if p.V.IsNull() {
		return ""
	}
	text, err := p.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}

// stripPageHeaders removes the "Page N:" scaffolding so emptiness checks
// look at recognized text only.
func stripPageHeaders(text string) string {
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "Page ") && strings.HasSuffix(trimmed, ":") {
			continue
		}
		b.WriteString(trimmed)
	}
	return b.String()
}
