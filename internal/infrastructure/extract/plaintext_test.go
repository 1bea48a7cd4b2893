package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/encoding/charmap"
	textunicode "golang.org/x/text/encoding/unicode"

	"github.com/kirillkom/doc-insight/internal/core/domain"
)

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestExtractPlainTextUTF8(t *testing.T) {
	path := writeTemp(t, "notes.txt", []byte("  Привет, мир!\n"))

	text, err := extractPlainText(path)
	if err != nil {
		t.Fatalf("extractPlainText() error = %v", err)
	}
	if text != "Привет, мир!" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestExtractPlainTextCP1251(t *testing.T) {
	raw, err := charmap.Windows1251.NewEncoder().Bytes([]byte("Отчёт за квартал"))
	if err != nil {
		t.Fatalf("encode cp1251 fixture: %v", err)
	}
	path := writeTemp(t, "report.txt", raw)

	text, err := extractPlainText(path)
	if err != nil {
		t.Fatalf("extractPlainText() error = %v", err)
	}
	if text != "Отчёт за квартал" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestExtractPlainTextUTF16WithBOM(t *testing.T) {
	enc := textunicode.UTF16(textunicode.LittleEndian, textunicode.ExpectBOM).NewEncoder()
	raw, err := enc.Bytes([]byte("hello from utf-16"))
	if err != nil {
		t.Fatalf("encode utf-16 fixture: %v", err)
	}
	path := writeTemp(t, "legacy.txt", raw)

	text, err := extractPlainText(path)
	if err != nil {
		t.Fatalf("extractPlainText() error = %v", err)
	}
	if text != "hello from utf-16" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestExtractPlainTextBinaryRejected(t *testing.T) {
	path := writeTemp(t, "blob.txt", []byte{0x00, 0x01, 0x07, 0x1B, 0x02})

	_, err := extractPlainText(path)
	if !domain.IsKind(err, domain.ErrEncodingUnresolved) {
		t.Fatalf("expected ErrEncodingUnresolved, got %v", err)
	}
}

func TestExtractPlainTextWhitespaceOnly(t *testing.T) {
	path := writeTemp(t, "empty.txt", []byte("  \n\t  "))

	_, err := extractPlainText(path)
	if !domain.IsKind(err, domain.ErrEncodingUnresolved) {
		t.Fatalf("expected ErrEncodingUnresolved, got %v", err)
	}
}

func TestExtractPlainTextMissingFileIsTemporary(t *testing.T) {
	_, err := extractPlainText(filepath.Join(t.TempDir(), "gone.txt"))
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected ErrTemporary for I/O failure, got %v", err)
	}
}

func TestExtractDispatchesPlainText(t *testing.T) {
	e := New(nil, "")
	path := writeTemp(t, "notes.txt", []byte("dispatch works"))

	text, err := e.Extract(context.Background(), domain.PipelinePlainText, path)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "dispatch works" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestExtractUnknownPipeline(t *testing.T) {
	e := New(nil, "")

	_, err := e.Extract(context.Background(), domain.Pipeline("video"), "ignored")
	if !domain.IsKind(err, domain.ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}
