package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"studymate/internal/contextutil"
	"studymate/internal/session"
)

// SessionsHandler handles conversation session lifecycle.
type SessionsHandler struct {
	sessions *session.Manager
}

// NewSessionsHandler creates a new SessionsHandler.
func NewSessionsHandler(sessions *session.Manager) *SessionsHandler {
	return &SessionsHandler{sessions: sessions}
}

// SetDocumentRequest selects the session's active document.
type SetDocumentRequest struct {
	DocumentID string `json:"document_id"`
}

// Create starts a new session.
func (h *SessionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s := h.sessions.Create()
	writeJSON(ctx, w, http.StatusCreated, s)
}

// Get returns a session with its history.
func (h *SessionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	s, err := h.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to get session")
		return
	}
	writeJSON(ctx, w, http.StatusOK, s)
}

// SetDocument selects the document the session works against.
func (h *SessionsHandler) SetDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req SetDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.DocumentID == "" {
		writeError(w, http.StatusBadRequest, "document_id is required")
		return
	}

	if err := h.sessions.SetActiveDocument(chi.URLParam(r, "id"), req.DocumentID); err != nil {
		handleServiceError(ctx, w, err, "Failed to set active document")
		return
	}
	writeJSON(ctx, w, http.StatusOK, map[string]string{"status": "updated"})
}

// Close discards a session.
func (h *SessionsHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.sessions.Close(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}
