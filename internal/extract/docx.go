package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
)

const docxDocumentPath = "word/document.xml"

// textRun matches <w:t>...</w:t> nodes with any attributes. Pulling the text
// nodes directly keeps runs split across formatting boundaries intact, where
// paragraph-level regexes silently drop attributed paragraphs.
var textRun = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)

func fromDOCX(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open DOCX: not a zip: %w", err)
	}
	docXML, err := readZipFile(zr, docxDocumentPath)
	if err != nil {
		return "", fmt.Errorf("open DOCX: %w", err)
	}

	runs := textRun.FindAllSubmatch(docXML, -1)
	var b strings.Builder
	for _, r := range runs {
		text := strings.TrimSpace(string(r[1]))
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(text)
	}
	return b.String(), nil
}

func readZipFile(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%s not found", name)
}
