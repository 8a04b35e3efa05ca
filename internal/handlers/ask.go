package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"studymate/internal/contextutil"
	"studymate/internal/llm"
	"studymate/internal/rag"
	"studymate/internal/session"
)

// AskHandler handles grounded question answering.
type AskHandler struct {
	engine   rag.Engine
	sessions *session.Manager
}

// NewAskHandler creates a new AskHandler.
func NewAskHandler(engine rag.Engine, sessions *session.Manager) *AskHandler {
	return &AskHandler{engine: engine, sessions: sessions}
}

// AskRequest represents the request payload for a grounded question.
type AskRequest struct {
	Question string `json:"question"`
	// NResults is the number of chunks to retrieve; 0 uses the default.
	NResults int `json:"n_results,omitempty"`
	// WithSources requests the citation variant.
	WithSources bool `json:"with_sources,omitempty"`
	// SessionID records the exchange in a conversation session when set.
	SessionID string `json:"session_id,omitempty"`
}

// AskResponse represents the response payload for a grounded question.
type AskResponse struct {
	Response string          `json:"response"`
	Context  []rag.Retrieved `json:"context,omitempty"`
	Sources  []rag.Source    `json:"sources,omitempty"`
}

// ServeHTTP answers a question grounded in ingested documents.
func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "Question is required")
		return
	}

	// Fail before the model call if the session is unknown.
	if req.SessionID != "" {
		if _, err := h.sessions.Get(req.SessionID); err != nil {
			handleServiceError(ctx, w, err, "Failed to load session")
			return
		}
	}

	var (
		answer *rag.Answer
		err    error
	)
	if req.WithSources {
		answer, err = h.engine.AnswerWithSources(ctx, req.Question, req.NResults)
	} else {
		answer, err = h.engine.GenerateResponse(ctx, req.Question, req.NResults)
	}
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to answer question")
		return
	}

	if req.SessionID != "" {
		h.recordExchange(r, req.SessionID, req.Question, answer.Response)
	}

	writeJSON(ctx, w, http.StatusOK, AskResponse{
		Response: answer.Response,
		Context:  answer.Context,
		Sources:  answer.Sources,
	})
}

// recordExchange appends the question and answer to the session history.
// The answer has already been produced; history failures are only logged.
func (h *AskHandler) recordExchange(r *http.Request, sessionID, question, response string) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if err := h.sessions.AppendMessage(sessionID, llm.Message{Role: "user", Content: question}); err != nil {
		logger.WarnContext(ctx, "failed to record question in session", "session_id", sessionID, "error", err)
		return
	}
	if err := h.sessions.AppendMessage(sessionID, llm.Message{Role: "assistant", Content: response}); err != nil {
		logger.WarnContext(ctx, "failed to record answer in session", "session_id", sessionID, "error", err)
	}
}
