package storage

import "time"

// DocumentRecord represents an ingested document. Documents are immutable:
// re-uploading the same source name with different content creates a new
// record and marks the old one superseded rather than mutating it.
type DocumentRecord struct {
	ID           string // UUID
	SourceName   string // Uploaded file name
	Title        string
	Author       string
	PageCount    int
	RawText      string // Extracted full text
	Hash         string // SHA256 hex of the uploaded bytes
	SupersededBy string // UUID of the replacing document, empty if current
	CreatedAt    time.Time
}

// ChunkRecord represents one chunk of a document, mirrored in the vector
// store under the same ID.
type ChunkRecord struct {
	ID         string // UUID (same as the vector store point ID)
	DocumentID string // UUID (foreign key to documents.id)
	ChunkIndex int    // Index within the document (starts at 0)
	Text       string
}
