// Package extract pulls plain text and document metadata out of uploaded
// files. Supported formats: PDF, markdown, and plain text.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Metadata describes an extracted document.
type Metadata struct {
	Title      string `json:"title"`
	Author     string `json:"author"`
	PageCount  int    `json:"page_count"`
	SourceName string `json:"source_name"`
}

// Extract dispatches on the file extension of sourceName and returns the
// document's raw text plus whatever metadata the format carries.
func Extract(sourceName string, content []byte) (string, Metadata, error) {
	if len(content) == 0 {
		return "", Metadata{}, fmt.Errorf("empty file: %s", sourceName)
	}

	ext := strings.ToLower(filepath.Ext(sourceName))
	switch ext {
	case ".pdf":
		return extractPDF(sourceName, content)
	case ".md", ".markdown":
		return extractMarkdown(sourceName, content)
	case ".txt", "", ".text":
		return extractPlain(sourceName, content)
	default:
		return "", Metadata{}, fmt.Errorf("unsupported file type %q for %s", ext, sourceName)
	}
}

// titleFromSourceName derives a fallback title from the file name by
// stripping the extension and capitalizing words.
func titleFromSourceName(sourceName string) string {
	name := filepath.Base(sourceName)
	if ext := filepath.Ext(name); ext != "" {
		name = name[:len(name)-len(ext)]
	}
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)

	words := strings.Fields(name)
	for i, word := range words {
		runes := []rune(word)
		if len(runes) > 0 {
			runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
			words[i] = string(runes)
		}
	}
	return strings.Join(words, " ")
}
