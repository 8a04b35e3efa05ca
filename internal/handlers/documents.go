package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"studymate/internal/contextutil"
	"studymate/internal/ingest"
	"studymate/internal/storage"
)

// maxUploadBytes caps uploaded document size.
const maxUploadBytes = 32 << 20 // 32 MiB

// DocumentsHandler handles document upload, listing, and lookup.
type DocumentsHandler struct {
	pipeline *ingest.Pipeline
	docRepo  storage.DocumentStore
}

// NewDocumentsHandler creates a new DocumentsHandler.
func NewDocumentsHandler(pipeline *ingest.Pipeline, docRepo storage.DocumentStore) *DocumentsHandler {
	return &DocumentsHandler{pipeline: pipeline, docRepo: docRepo}
}

// DocumentResponse represents one document in API responses. The raw text is
// omitted; it can be large.
type DocumentResponse struct {
	ID         string `json:"id"`
	SourceName string `json:"source_name"`
	Title      string `json:"title"`
	Author     string `json:"author,omitempty"`
	PageCount  int    `json:"page_count,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// UploadResponse represents the result of a document upload.
type UploadResponse struct {
	Document   DocumentResponse `json:"document"`
	ChunkCount int              `json:"chunk_count"`
	Skipped    bool             `json:"skipped"`
}

func documentResponse(doc *storage.DocumentRecord) DocumentResponse {
	return DocumentResponse{
		ID:         doc.ID,
		SourceName: doc.SourceName,
		Title:      doc.Title,
		Author:     doc.Author,
		PageCount:  doc.PageCount,
		CreatedAt:  doc.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// Upload ingests a document from a multipart form with a "file" field.
func (h *DocumentsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		logger.WarnContext(ctx, "invalid upload request", "error", err)
		writeError(w, http.StatusBadRequest, "A 'file' form field is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		logger.WarnContext(ctx, "failed to read upload", "error", err)
		writeError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}
	if len(content) == 0 {
		writeError(w, http.StatusBadRequest, "Uploaded file is empty")
		return
	}

	result, err := h.pipeline.Ingest(ctx, header.Filename, content)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to ingest document")
		return
	}

	status := http.StatusCreated
	if result.Skipped {
		status = http.StatusOK
	}
	writeJSON(ctx, w, status, UploadResponse{
		Document:   documentResponse(result.Document),
		ChunkCount: result.ChunkCount,
		Skipped:    result.Skipped,
	})
}

// List returns all current (non-superseded) documents.
func (h *DocumentsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	docs, err := h.docRepo.ListCurrent(ctx)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to list documents")
		return
	}

	resp := make([]DocumentResponse, len(docs))
	for i, doc := range docs {
		resp[i] = documentResponse(doc)
	}
	writeJSON(ctx, w, http.StatusOK, map[string]any{"documents": resp})
}

// Get returns one document by ID.
func (h *DocumentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := chi.URLParam(r, "id")
	doc, err := h.docRepo.GetByID(ctx, id)
	if err != nil {
		handleServiceError(ctx, w, err, fmt.Sprintf("Failed to get document %s", id))
		return
	}
	writeJSON(ctx, w, http.StatusOK, documentResponse(doc))
}
