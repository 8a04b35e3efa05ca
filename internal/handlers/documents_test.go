package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	"studymate/internal/chunker"
	"studymate/internal/ingest"
	"studymate/internal/storage"
	"studymate/internal/vectorstore"
)

// hashEmbedder produces deterministic vectors without a network call.
type hashEmbedder struct{}

func (hashEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = []float32{float32(len(text)), float32(i), 1}
	}
	return vectors, nil
}

func newDocumentsRouter(t *testing.T) http.Handler {
	t.Helper()

	db, err := storage.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.Migrate(db); err != nil {
		t.Fatalf("storage.Migrate() error = %v", err)
	}
	docRepo := storage.NewDocumentRepo(db)
	chunkRepo := storage.NewChunkRepo(db)

	store := vectorstore.NewMemoryStore()
	if err := store.EnsureCollection(context.Background(), "docs", 3); err != nil {
		t.Fatalf("EnsureCollection() error = %v", err)
	}

	splitter, err := chunker.New(100, 20)
	if err != nil {
		t.Fatalf("chunker.New() error = %v", err)
	}

	pipeline := ingest.NewPipeline(docRepo, chunkRepo, hashEmbedder{}, store, "docs", splitter)
	h := NewDocumentsHandler(pipeline, docRepo)

	r := chi.NewRouter()
	r.Post("/documents", h.Upload)
	r.Get("/documents", h.List)
	r.Get("/documents/{id}", h.Get)
	return r
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	fmt.Fprint(part, content)
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/documents", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestDocumentsHandler_UploadListGet(t *testing.T) {
	router := newDocumentsRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "notes.txt", "Photosynthesis converts light into chemical energy."))
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var uploaded UploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &uploaded); err != nil {
		t.Fatalf("failed to decode upload response: %v", err)
	}
	if uploaded.ChunkCount == 0 || uploaded.Skipped {
		t.Errorf("upload = %+v", uploaded)
	}
	if uploaded.Document.SourceName != "notes.txt" {
		t.Errorf("SourceName = %q", uploaded.Document.SourceName)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/documents", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var list struct {
		Documents []DocumentResponse `json:"documents"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(list.Documents) != 1 {
		t.Fatalf("documents = %d, want 1", len(list.Documents))
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/documents/"+uploaded.Document.ID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestDocumentsHandler_UploadUnchangedSkips(t *testing.T) {
	router := newDocumentsRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "notes.txt", "Photosynthesis converts light into chemical energy."))
	if rec.Code != http.StatusCreated {
		t.Fatalf("first upload status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "notes.txt", "Photosynthesis converts light into chemical energy."))
	if rec.Code != http.StatusOK {
		t.Fatalf("second upload status = %d, want 200", rec.Code)
	}
	var resp UploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Skipped {
		t.Error("second upload not marked skipped")
	}
}

func TestDocumentsHandler_UploadErrors(t *testing.T) {
	router := newDocumentsRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/documents", bytes.NewReader(nil)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing file field status = %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "empty.txt", ""))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty file status = %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/documents/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown document status = %d, want 404", rec.Code)
	}
}
