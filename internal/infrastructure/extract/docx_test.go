package extract

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/kirillkom/doc-insight/internal/core/domain"
)

func writeDocx(t *testing.T, entry, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.docx")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create docx fixture: %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	entryWriter, err := w.Create(entry)
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := entryWriter.Write([]byte(content)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return path
}

const structuredDoc = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph</w:t></w:r></w:p>
    <w:p><w:r><w:t xml:space="preserve">Second </w:t></w:r><w:r><w:t>paragraph</w:t></w:r></w:p>
    <w:p></w:p>
  </w:body>
</w:document>`

func TestExtractDocxParagraphs(t *testing.T) {
	path := writeDocx(t, "word/document.xml", structuredDoc)

	text, err := extractDocx(path)
	if err != nil {
		t.Fatalf("extractDocx() error = %v", err)
	}
	if text != "First paragraph\nSecond paragraph" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestExtractDocxFallbackToRawTags(t *testing.T) {
	// Text tags outside any paragraph, as produced by some table-only
	// documents. The structured pass finds nothing, the raw scan does.
	doc := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body><w:tbl><w:t>Cell one</w:t><w:t>Cell two</w:t></w:tbl></w:body>
</w:document>`
	path := writeDocx(t, "word/document.xml", doc)

	text, err := extractDocx(path)
	if err != nil {
		t.Fatalf("extractDocx() error = %v", err)
	}
	if text != "Cell one Cell two" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestExtractDocxEmptyDocument(t *testing.T) {
	doc := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body><w:p><w:r><w:t>   </w:t></w:r></w:p></w:body>
</w:document>`
	path := writeDocx(t, "word/document.xml", doc)

	_, err := extractDocx(path)
	if !domain.IsKind(err, domain.ErrDocxUnreadable) {
		t.Fatalf("expected ErrDocxUnreadable, got %v", err)
	}
}

func TestExtractDocxMissingDocumentEntry(t *testing.T) {
	path := writeDocx(t, "word/styles.xml", "<w:styles/>")

	_, err := extractDocx(path)
	if !domain.IsKind(err, domain.ErrDocxUnreadable) {
		t.Fatalf("expected ErrDocxUnreadable, got %v", err)
	}
}

func TestExtractDocxNotAnArchive(t *testing.T) {
	path := writeTemp(t, "fake.docx", []byte("this is not a zip"))

	_, err := extractDocx(path)
	if !domain.IsKind(err, domain.ErrDocxUnreadable) {
		t.Fatalf("expected ErrDocxUnreadable, got %v", err)
	}
}
