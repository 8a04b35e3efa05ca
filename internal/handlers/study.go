package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"studymate/internal/contextutil"
	"studymate/internal/storage"
	"studymate/internal/study"
)

// StudyHandler handles study artifact generation: quizzes, flashcards,
// summaries, study guides, and concept maps.
type StudyHandler struct {
	service *study.Service
	docRepo storage.DocumentStore
}

// NewStudyHandler creates a new StudyHandler.
func NewStudyHandler(service *study.Service, docRepo storage.DocumentStore) *StudyHandler {
	return &StudyHandler{service: service, docRepo: docRepo}
}

// StudyRequest represents the shared request payload for study generation.
// Exactly one of Content or DocumentID must be set.
type StudyRequest struct {
	Content    string `json:"content,omitempty"`
	DocumentID string `json:"document_id,omitempty"`

	NumQuestions int      `json:"num_questions,omitempty"` // quiz
	Difficulty   string   `json:"difficulty,omitempty"`    // quiz
	Topics       []string `json:"topics,omitempty"`        // quiz, study guide
	NumCards     int      `json:"num_cards,omitempty"`     // flashcards
	Length       string   `json:"length,omitempty"`        // summary
	Focus        string   `json:"focus,omitempty"`         // summary
	MainConcept  string   `json:"main_concept,omitempty"`  // concept map
}

// resolveContent returns the request's inline content, or the referenced
// document's raw text. The bool is false when the response has already been
// written.
func (h *StudyHandler) resolveContent(w http.ResponseWriter, r *http.Request, req *StudyRequest) (string, bool) {
	ctx := r.Context()

	hasContent := strings.TrimSpace(req.Content) != ""
	if hasContent && req.DocumentID != "" {
		writeError(w, http.StatusBadRequest, "Provide either content or document_id, not both")
		return "", false
	}
	if hasContent {
		return req.Content, true
	}
	if req.DocumentID == "" {
		writeError(w, http.StatusBadRequest, "Either content or document_id is required")
		return "", false
	}

	doc, err := h.docRepo.GetByID(ctx, req.DocumentID)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to load document")
		return "", false
	}
	return doc.RawText, true
}

func (h *StudyHandler) decode(w http.ResponseWriter, r *http.Request) (*StudyRequest, bool) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req StudyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	return &req, true
}

// Quiz generates multiple-choice questions.
func (h *StudyHandler) Quiz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	content, ok := h.resolveContent(w, r, req)
	if !ok {
		return
	}

	var (
		quiz *study.Quiz
		err  error
	)
	if req.DocumentID != "" {
		quiz, err = h.service.GenerateQuizFromDocument(ctx, content, req.NumQuestions, req.Topics, req.Difficulty)
	} else {
		quiz, err = h.service.GenerateMCQs(ctx, content, req.NumQuestions, req.Difficulty)
	}
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to generate quiz")
		return
	}
	writeJSON(ctx, w, http.StatusOK, quiz)
}

// Flashcards generates front/back study cards.
func (h *StudyHandler) Flashcards(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	content, ok := h.resolveContent(w, r, req)
	if !ok {
		return
	}

	cards, err := h.service.GenerateFlashcards(ctx, content, req.NumCards)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to generate flashcards")
		return
	}
	writeJSON(ctx, w, http.StatusOK, cards)
}

// Summary generates a summary with key points.
func (h *StudyHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	content, ok := h.resolveContent(w, r, req)
	if !ok {
		return
	}

	summary, err := h.service.Summarize(ctx, content, req.Length, req.Focus)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to generate summary")
		return
	}
	writeJSON(ctx, w, http.StatusOK, summary)
}

// StudyGuide generates a sectioned study guide.
func (h *StudyHandler) StudyGuide(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	content, ok := h.resolveContent(w, r, req)
	if !ok {
		return
	}

	guide, err := h.service.GenerateStudyGuide(ctx, content, req.Topics)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to generate study guide")
		return
	}
	writeJSON(ctx, w, http.StatusOK, guide)
}

// Pronunciation generates a pronunciation guide for difficult terms.
func (h *StudyHandler) Pronunciation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	content, ok := h.resolveContent(w, r, req)
	if !ok {
		return
	}

	guide, err := h.service.GeneratePronunciationGuide(ctx, content)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to generate pronunciation guide")
		return
	}
	writeJSON(ctx, w, http.StatusOK, guide)
}

// ConceptMap generates a concept graph around a main concept.
func (h *StudyHandler) ConceptMap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	if req.MainConcept == "" {
		writeError(w, http.StatusBadRequest, "main_concept is required")
		return
	}
	content, ok := h.resolveContent(w, r, req)
	if !ok {
		return
	}

	graph, err := h.service.GenerateConceptMap(ctx, content, req.MainConcept)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to generate concept map")
		return
	}
	writeJSON(ctx, w, http.StatusOK, graph)
}
