package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"studymate/internal/analytics"
)

func newAnalyticsHandler(t *testing.T) *AnalyticsHandler {
	t.Helper()
	tracker, err := analytics.NewTracker(t.TempDir())
	if err != nil {
		t.Fatalf("NewTracker() error = %v", err)
	}
	return NewAnalyticsHandler(tracker)
}

func TestAnalyticsHandler_RecordAndReport(t *testing.T) {
	h := newAnalyticsHandler(t)

	rec := httptest.NewRecorder()
	h.RecordStudySession(rec, httptest.NewRequest(http.MethodPost, "/api/analytics/sessions",
		strings.NewReader(`{"subject": "Biology", "duration_minutes": 45}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("session status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.RecordQuizResult(rec, httptest.NewRequest(http.MethodPost, "/api/analytics/quizzes",
		strings.NewReader(`{"subject": "Biology", "score_percentage": 80, "num_questions": 5, "difficulty": "medium"}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("quiz status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.Report(rec, httptest.NewRequest(http.MethodGet, "/api/analytics/report", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("report status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var report ReportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("failed to decode report: %v", err)
	}
	if report.StudyTime == nil || report.StudyTime.TopSubject != "Biology" {
		t.Errorf("StudyTime = %+v", report.StudyTime)
	}
	if report.QuizPerformance == nil || report.QuizPerformance.TotalQuizzes != 1 {
		t.Errorf("QuizPerformance = %+v", report.QuizPerformance)
	}
	if _, ok := report.Topics["Biology"]; !ok {
		t.Errorf("Topics = %v", report.Topics)
	}
}

func TestAnalyticsHandler_Validation(t *testing.T) {
	h := newAnalyticsHandler(t)

	rec := httptest.NewRecorder()
	h.RecordStudySession(rec, httptest.NewRequest(http.MethodPost, "/api/analytics/sessions",
		strings.NewReader(`{"subject": "", "duration_minutes": 45}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blank subject status = %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.RecordQuizResult(rec, httptest.NewRequest(http.MethodPost, "/api/analytics/quizzes",
		strings.NewReader(`{"subject": "Biology", "score_percentage": 150, "num_questions": 5, "difficulty": "easy"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("out-of-range score status = %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Report(rec, httptest.NewRequest(http.MethodGet, "/api/analytics/report?days=zero", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad days param status = %d, want 400", rec.Code)
	}
}
