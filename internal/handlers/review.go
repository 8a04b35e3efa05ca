package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"studymate/internal/contextutil"
	"studymate/internal/review"
)

// ReviewHandler handles peer-review submissions and reviews.
type ReviewHandler struct {
	feedback *review.FeedbackSystem
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(feedback *review.FeedbackSystem) *ReviewHandler {
	return &ReviewHandler{feedback: feedback}
}

// SubmitRequest represents a content submission for peer review.
type SubmitRequest struct {
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
	Subject     string `json:"subject"`
	AuthorName  string `json:"author_name"`
	Notes       string `json:"notes,omitempty"`
}

// PeerReviewRequest represents one peer review of a submission.
type PeerReviewRequest struct {
	ReviewerName        string   `json:"reviewer_name"`
	Rating              int      `json:"rating"`
	Comments            string   `json:"comments"`
	Strengths           []string `json:"strengths,omitempty"`
	AreasForImprovement []string `json:"areas_for_improvement,omitempty"`
}

// Submit stores content for peer review.
func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	submission, err := h.feedback.Submit(ctx, req.Content, req.ContentType, req.Subject, req.AuthorName, req.Notes)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to submit content")
		return
	}
	writeJSON(ctx, w, http.StatusCreated, submission)
}

// List returns submissions, filtered by ?author= or ?status=pending.
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		submissions []*review.Submission
		err         error
	)
	switch {
	case r.URL.Query().Get("author") != "":
		submissions, err = h.feedback.SubmissionsByAuthor(r.URL.Query().Get("author"))
	case r.URL.Query().Get("status") == review.StatusPending:
		submissions, err = h.feedback.PendingSubmissions()
	default:
		submissions, err = h.feedback.PendingSubmissions()
	}
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to list submissions")
		return
	}
	writeJSON(ctx, w, http.StatusOK, map[string]any{"submissions": submissions})
}

// Get returns one submission by ID.
func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	submission, err := h.feedback.GetSubmission(chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to get submission")
		return
	}
	writeJSON(ctx, w, http.StatusOK, submission)
}

// AddReview attaches a peer review to a submission.
func (h *ReviewHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req PeerReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id := chi.URLParam(r, "id")
	err := h.feedback.AddPeerReview(ctx, id, req.ReviewerName, req.Rating, req.Comments, req.Strengths, req.AreasForImprovement)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to add review")
		return
	}
	writeJSON(ctx, w, http.StatusCreated, map[string]string{"status": "reviewed"})
}

// Summary aggregates the feedback on one submission.
func (h *ReviewHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summary, err := h.feedback.SummarizeFeedback(chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to summarize feedback")
		return
	}
	writeJSON(ctx, w, http.StatusOK, summary)
}
