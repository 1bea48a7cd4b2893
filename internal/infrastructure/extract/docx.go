package extract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/kirillkom/doc-insight/internal/core/domain"
)

const docxDocumentEntry = "word/document.xml"

var docxTextTag = regexp.MustCompile(`<w:t[^>]*?>([^<]*)</w:t>`)

// extractDocx tries structured paragraph extraction first and falls back
// to a raw scan of the text tags in the main document XML. Only when both
// come up empty is the document declared unreadable.
func extractDocx(path string) (string, error) {
	docXML, err := readDocxDocument(path)
	if err != nil {
		return "", err
	}

	if text := paragraphText(docXML); text != "" {
		return text, nil
	}
	if text := rawTagText(docXML); text != "" {
		return text, nil
	}

	return "", domain.WrapError(domain.ErrDocxUnreadable, "extract docx",
		fmt.Errorf("no paragraph text in %s", docxDocumentEntry))
}

func readDocxDocument(path string) ([]byte, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, domain.WrapError(domain.ErrDocxUnreadable, "open docx archive", err)
	}
	defer archive.Close()

	for _, entry := range archive.File {
		if entry.Name != docxDocumentEntry {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return nil, domain.WrapError(domain.ErrDocxUnreadable, "open document xml", err)
		}
		defer rc.Close()

		raw, err := io.ReadAll(rc)
		if err != nil {
			return nil, domain.WrapError(domain.ErrDocxUnreadable, "read document xml", err)
		}
		return raw, nil
	}

	return nil, domain.WrapError(domain.ErrDocxUnreadable, "read docx archive",
		fmt.Errorf("missing %s", docxDocumentEntry))
}

// paragraphText joins the non-empty paragraphs of the document in order,
// one line per paragraph.
func paragraphText(docXML []byte) string {
	decoder := xml.NewDecoder(strings.NewReader(string(docXML)))

	var (
		paragraphs []string
		current    strings.Builder
		inPara     bool
		inText     bool
	)
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inPara = true
				current.Reset()
			case "t":
				inText = inPara
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if inPara {
					if text := strings.TrimSpace(current.String()); text != "" {
						paragraphs = append(paragraphs, text)
					}
				}
				inPara = false
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	return strings.Join(paragraphs, "\n")
}

// rawTagText is the fallback: pull every text-tag payload out of the XML
// without caring about document structure.
func rawTagText(docXML []byte) string {
	matches := docxTextTag.FindAllSubmatch(docXML, -1)
	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		if text := strings.TrimSpace(string(m[1])); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
