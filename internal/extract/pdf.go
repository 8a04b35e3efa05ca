package extract

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// extractPDF extracts text from every page of a PDF, prefixing each page with
// a "Page N:" marker so retrieved chunks can be traced back to a page.
func extractPDF(sourceName string, content []byte) (string, Metadata, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", Metadata{}, fmt.Errorf("open PDF %s: %w", sourceName, err)
	}

	numPages := r.NumPage()
	meta := Metadata{
		PageCount:  numPages,
		SourceName: sourceName,
	}

	info := r.Trailer().Key("Info")
	if !info.IsNull() {
		meta.Title = info.Key("Title").Text()
		meta.Author = info.Key("Author").Text()
	}
	if meta.Title == "" {
		meta.Title = titleFromSourceName(sourceName)
	}

	var buf bytes.Buffer
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", Metadata{}, fmt.Errorf("extract page %d of %s: %w", i, sourceName, err)
		}
		fmt.Fprintf(&buf, "Page %d:\n%s\n\n", i, text)
	}

	return buf.String(), meta, nil
}
