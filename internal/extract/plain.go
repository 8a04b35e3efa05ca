package extract

// extractPlain treats the content as UTF-8 text as-is.
func extractPlain(sourceName string, content []byte) (string, Metadata, error) {
	meta := Metadata{
		Title:      titleFromSourceName(sourceName),
		SourceName: sourceName,
	}
	return string(content), meta, nil
}
