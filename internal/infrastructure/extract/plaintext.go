package extract

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	textunicode "golang.org/x/text/encoding/unicode"

	"github.com/kirillkom/doc-insight/internal/core/domain"
)

var utf16Decoders = []struct {
	name string
	enc  encoding.Encoding
}{
	{"utf-16le", textunicode.UTF16(textunicode.LittleEndian, textunicode.ExpectBOM)},
	{"utf-16be", textunicode.UTF16(textunicode.BigEndian, textunicode.ExpectBOM)},
}

// extractPlainText recovers text from raw bytes by trying candidate
// encodings in a fixed order: UTF-8, BOM-marked UTF-16, then CP1251. The
// first candidate yielding plausible non-empty text wins.
func extractPlainText(path string) (string, error) {
	raw, err := readSource(path)
	if err != nil {
		return "", err
	}

	if utf8.Valid(raw) {
		if text := strings.TrimSpace(string(raw)); text != "" && plausibleText(text) {
			return text, nil
		}
	}

	if hasUTF16BOM(raw) {
		for _, candidate := range utf16Decoders {
			decoded, err := candidate.enc.NewDecoder().Bytes(raw)
			if err != nil {
				continue
			}
			if text := strings.TrimSpace(string(decoded)); text != "" && plausibleText(text) {
				return text, nil
			}
		}
	}

	decoded, err := charmap.Windows1251.NewDecoder().Bytes(raw)
	if err == nil {
		if text := strings.TrimSpace(string(decoded)); text != "" && plausibleText(text) {
			return text, nil
		}
	}

	return "", domain.WrapError(domain.ErrEncodingUnresolved, "decode plain text",
		fmt.Errorf("%d bytes, no candidate encoding accepted", len(raw)))
}

func hasUTF16BOM(raw []byte) bool {
	return bytes.HasPrefix(raw, []byte{0xFF, 0xFE}) || bytes.HasPrefix(raw, []byte{0xFE, 0xFF})
}

// plausibleText rejects decodings that are technically valid byte-wise but
// clearly not text: replacement runes or any control characters besides
// whitespace.
func plausibleText(text string) bool {
	for _, r := range text {
		if r == utf8.RuneError {
			return false
		}
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
