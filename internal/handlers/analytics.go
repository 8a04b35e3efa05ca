package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"studymate/internal/analytics"
	"studymate/internal/contextutil"
)

// AnalyticsHandler handles study activity recording and reporting.
type AnalyticsHandler struct {
	tracker *analytics.Tracker
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(tracker *analytics.Tracker) *AnalyticsHandler {
	return &AnalyticsHandler{tracker: tracker}
}

// StudySessionRequest records one block of study time.
type StudySessionRequest struct {
	Subject         string `json:"subject"`
	DurationMinutes int    `json:"duration_minutes"`
	DocumentName    string `json:"document_name,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// QuizResultRequest records one quiz outcome.
type QuizResultRequest struct {
	Subject          string  `json:"subject"`
	ScorePercentage  float64 `json:"score_percentage"`
	NumQuestions     int     `json:"num_questions"`
	Difficulty       string  `json:"difficulty"`
	TimeTakenSeconds int     `json:"time_taken_seconds,omitempty"`
}

// ReportResponse bundles the summaries and recommendations.
type ReportResponse struct {
	StudyTime       *analytics.StudyTimeSummary       `json:"study_time"`
	QuizPerformance *analytics.QuizPerformanceSummary `json:"quiz_performance"`
	Topics          map[string]analytics.TopicStats   `json:"topics"`
	Recommendations []string                          `json:"recommendations"`
}

// RecordStudySession records a study session.
func (h *AnalyticsHandler) RecordStudySession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req StudySessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.tracker.RecordStudySession(req.Subject, req.DurationMinutes, req.DocumentName, req.Notes); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(ctx, w, http.StatusCreated, map[string]string{"status": "recorded"})
}

// RecordQuizResult records a quiz result.
func (h *AnalyticsHandler) RecordQuizResult(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req QuizResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.tracker.RecordQuizResult(req.Subject, req.ScorePercentage, req.NumQuestions, req.Difficulty, req.TimeTakenSeconds); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(ctx, w, http.StatusCreated, map[string]string{"status": "recorded"})
}

// Report returns study and quiz summaries with recommendations. The window
// defaults to 30 days; override with ?days=N.
func (h *AnalyticsHandler) Report(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	days := 30
	if param := r.URL.Query().Get("days"); param != "" {
		parsed, err := strconv.Atoi(param)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = parsed
	}

	studyTime, err := h.tracker.StudyTimeSummary(days)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to summarize study time")
		return
	}
	quiz, err := h.tracker.QuizPerformanceSummary(days)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to summarize quiz performance")
		return
	}
	topics, err := h.tracker.TopicData()
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to load topic data")
		return
	}
	recs, err := h.tracker.Recommendations()
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to generate recommendations")
		return
	}

	writeJSON(ctx, w, http.StatusOK, ReportResponse{
		StudyTime:       studyTime,
		QuizPerformance: quiz,
		Topics:          topics,
		Recommendations: recs,
	})
}
