package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// loadPDF extracts plain text from a local PDF file. Pages that fail to
// parse are skipped; a file where every page fails yields ErrEmptyDocument.
func loadPDF(path string) (Document, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	var content strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if content.Len() > 0 {
			content.WriteString("\n\n")
		}
		content.WriteString(text)
	}

	if content.Len() == 0 {
		return Document{}, fmt.Errorf("%w: %s", ErrEmptyDocument, path)
	}

	return Document{
		Source:  path,
		Title:   strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Content: content.String(),
	}, nil
}
