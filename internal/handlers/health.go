package handlers

import (
	"context"
	"net/http"
	"time"

	"studymate/internal/contextutil"
	"studymate/internal/vectorstore"
)

// HealthHandler handles health checks.
type HealthHandler struct {
	vectorStore vectorstore.VectorStore
	collection  string
	timeout     time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(vectorStore vectorstore.VectorStore, collection string) *HealthHandler {
	return &HealthHandler{
		vectorStore: vectorStore,
		collection:  collection,
		timeout:     5 * time.Second,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	// Status is "healthy" or "unhealthy".
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
	Issues    []string          `json:"issues,omitempty"`
}

// ServeHTTP reports the health of the service and its vector store. The LLM
// API is not probed; it would add latency on every check.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	checks := make(map[string]string)
	var issues []string

	if h.checkVectorStore(checkCtx) {
		checks["vector_store"] = "ok"
	} else {
		logger.WarnContext(ctx, "vector store health check failed", "collection", h.collection)
		checks["vector_store"] = "error"
		issues = append(issues, "vector_store_unavailable")
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if len(issues) > 0 {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(ctx, w, httpStatus, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Issues:    issues,
	})
}

func (h *HealthHandler) checkVectorStore(ctx context.Context) bool {
	collections, err := h.vectorStore.ListCollections(ctx)
	if err != nil {
		return false
	}
	for _, c := range collections {
		if c == h.collection {
			return true
		}
	}
	return false
}
