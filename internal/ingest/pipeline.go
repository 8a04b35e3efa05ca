// Package ingest orchestrates document ingestion: text extraction, chunking,
// embedding, and vector storage.
package ingest

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"studymate/internal/chunker"
	"studymate/internal/contextutil"
	"studymate/internal/extract"
	"studymate/internal/llm"
	"studymate/internal/storage"
	"studymate/internal/vectorstore"
)

// Pipeline orchestrates the ingestion of uploaded documents into SQLite and
// the vector store.
type Pipeline struct {
	docRepo     storage.DocumentStore
	chunkRepo   storage.ChunkStore
	embedder    llm.Embedder
	vectorStore vectorstore.VectorStore
	collection  string
	chunker     *chunker.Chunker
}

// Result summarizes one ingestion run.
type Result struct {
	Document   *storage.DocumentRecord
	ChunkCount int
	Skipped    bool // true when the content was already ingested unchanged
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	docRepo storage.DocumentStore,
	chunkRepo storage.ChunkStore,
	embedder llm.Embedder,
	vectorStore vectorstore.VectorStore,
	collection string,
	c *chunker.Chunker,
) *Pipeline {
	return &Pipeline{
		docRepo:     docRepo,
		chunkRepo:   chunkRepo,
		embedder:    embedder,
		vectorStore: vectorStore,
		collection:  collection,
		chunker:     c,
	}
}

// Ingest processes one uploaded file end to end: extract text, chunk, embed
// every chunk in a single batched call, and upsert (id, vector, text,
// metadata) tuples into the collection.
//
// Unchanged content (same source name, same hash) is skipped. Changed content
// supersedes the previous document: a new document record is created and the
// old document's chunks are removed from both stores. Any failure aborts the
// run. Vectors are written before the registry rows, so a failed run leaves
// no current document record and a retry re-ingests from scratch; vectors
// already upserted are not rolled back and are overwritten on retry only if
// their IDs recur (they are fresh UUIDs, so stale points may remain).
func (p *Pipeline) Ingest(ctx context.Context, sourceName string, content []byte) (*Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	hash := sha256.Sum256(content)
	hashHex := fmt.Sprintf("%x", hash)

	existing, err := p.docRepo.GetCurrentBySourceName(ctx, sourceName)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing document: %w", err)
	}

	if existing != nil && existing.Hash == hashHex {
		logger.InfoContext(ctx, "skipping unchanged document", "source", sourceName, "hash", hashHex)
		return &Result{Document: existing, Skipped: true}, nil
	}

	text, meta, err := extract.Extract(sourceName, content)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text: %w", err)
	}

	chunks := p.chunker.Chunk(text)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("document %s produced no chunks", sourceName)
	}

	// One batched call; the provider returns vectors order-preserving.
	embeddings, err := p.embedder.EmbedTexts(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(chunks), len(embeddings))
	}

	doc := &storage.DocumentRecord{
		ID:         uuid.New().String(),
		SourceName: sourceName,
		Title:      meta.Title,
		Author:     meta.Author,
		PageCount:  meta.PageCount,
		RawText:    text,
		Hash:       hashHex,
	}

	points := make([]vectorstore.Point, len(chunks))
	records := make([]*storage.ChunkRecord, len(chunks))
	for i, chunkText := range chunks {
		// UUIDs keep chunk IDs unique across documents sharing a
		// collection; index-derived IDs would collide.
		chunkID := uuid.New().String()

		records[i] = &storage.ChunkRecord{
			ID:         chunkID,
			DocumentID: doc.ID,
			ChunkIndex: i,
			Text:       chunkText,
		}
		points[i] = vectorstore.Point{
			ID:   chunkID,
			Vec:  embeddings[i],
			Text: chunkText,
			Meta: map[string]any{
				"document_id": doc.ID,
				"chunk_index": i,
				"source":      sourceName,
				"title":       meta.Title,
			},
		}
	}

	// Vectors go in before the registry rows. A failed upsert must leave no
	// current document record, or a retry of the same content would be
	// hash-skipped with nothing searchable.
	if err := p.vectorStore.Upsert(ctx, p.collection, points); err != nil {
		return nil, fmt.Errorf("failed to upsert vectors: %w", err)
	}

	if err := p.docRepo.Insert(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to insert document: %w", err)
	}
	for i, record := range records {
		if err := p.chunkRepo.Insert(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to insert chunk %d: %w", i, err)
		}
	}

	// The new document is fully stored; retire the superseded one.
	if existing != nil {
		if err := p.retire(ctx, existing.ID, doc.ID); err != nil {
			return nil, err
		}
	}

	logger.InfoContext(ctx, "ingested document",
		"source", sourceName, "document_id", doc.ID, "chunks", len(chunks), "title", meta.Title)

	return &Result{Document: doc, ChunkCount: len(chunks)}, nil
}

// retire removes a superseded document's chunks from both stores and marks
// the document record superseded.
func (p *Pipeline) retire(ctx context.Context, oldID, newID string) error {
	logger := contextutil.LoggerFromContext(ctx)

	oldChunkIDs, err := p.chunkRepo.ListIDsByDocument(ctx, oldID)
	if err != nil {
		return fmt.Errorf("failed to list superseded chunk IDs: %w", err)
	}

	if len(oldChunkIDs) > 0 {
		if err := p.vectorStore.Delete(ctx, p.collection, oldChunkIDs); err != nil {
			// The new chunks are already live; stale points only waste space.
			logger.WarnContext(ctx, "failed to delete superseded chunks from vector store",
				"document_id", oldID, "count", len(oldChunkIDs), "error", err)
		}
		if err := p.chunkRepo.DeleteByDocument(ctx, oldID); err != nil {
			return fmt.Errorf("failed to delete superseded chunks: %w", err)
		}
	}

	if err := p.docRepo.MarkSuperseded(ctx, oldID, newID); err != nil {
		return fmt.Errorf("failed to mark document superseded: %w", err)
	}
	return nil
}
