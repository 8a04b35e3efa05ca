package review

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"studymate/internal/llm"
	"studymate/internal/service"
)

type fakeFeedbackGenerator struct {
	response string
	err      error
	calls    int
}

func (g *fakeFeedbackGenerator) Generate(_ context.Context, _ string, _ llm.GenerateParams) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

func (g *fakeFeedbackGenerator) ChatWithMessages(context.Context, []llm.Message, llm.ChatParams) (string, error) {
	return "", fmt.Errorf("not implemented")
}

const feedbackResponse = `Overall this is a solid summary of cellular respiration.

Strengths:
- Clear explanation of glycolysis
- Good use of terminology

Areas for improvement:
- Missing the electron transport chain
- No mention of ATP yield

Suggestions: add a paragraph on oxidative phosphorylation.`

func TestFeedbackSystem_SubmitWithAIFeedback(t *testing.T) {
	gen := &fakeFeedbackGenerator{response: feedbackResponse}
	fs, err := NewFeedbackSystem(t.TempDir(), gen)
	if err != nil {
		t.Fatalf("NewFeedbackSystem() error = %v", err)
	}

	submission, err := fs.Submit(context.Background(), "Respiration releases energy...", "summary", "Biology", "ada", "")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if submission.Status != StatusPending {
		t.Errorf("Status = %s, want pending", submission.Status)
	}
	if submission.AIFeedback == nil {
		t.Fatal("AIFeedback = nil")
	}
	if len(submission.AIFeedback.Strengths) != 2 {
		t.Errorf("Strengths = %v", submission.AIFeedback.Strengths)
	}
	if len(submission.AIFeedback.AreasForImprovement) != 2 {
		t.Errorf("AreasForImprovement = %v", submission.AIFeedback.AreasForImprovement)
	}
	if submission.AIFeedback.Overall == "" {
		t.Error("Overall is empty")
	}
}

func TestFeedbackSystem_SubmitSurvivesAIFailure(t *testing.T) {
	gen := &fakeFeedbackGenerator{err: fmt.Errorf("model down")}
	fs, err := NewFeedbackSystem(t.TempDir(), gen)
	if err != nil {
		t.Fatalf("NewFeedbackSystem() error = %v", err)
	}

	submission, err := fs.Submit(context.Background(), "some notes", "notes", "History", "ada", "")
	if err != nil {
		t.Fatalf("Submit() error = %v, want AI failure swallowed", err)
	}
	if submission.AIFeedback != nil {
		t.Errorf("AIFeedback = %+v, want nil", submission.AIFeedback)
	}
}

func TestFeedbackSystem_SubmitWithoutGenerator(t *testing.T) {
	fs, err := NewFeedbackSystem(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewFeedbackSystem() error = %v", err)
	}

	submission, err := fs.Submit(context.Background(), "an essay", "essay", "Physics", "grace", "please review")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if submission.AIFeedback != nil {
		t.Error("AIFeedback set without a generator")
	}
}

func TestFeedbackSystem_PeerReviewFlow(t *testing.T) {
	fs, err := NewFeedbackSystem(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewFeedbackSystem() error = %v", err)
	}
	ctx := context.Background()

	submission, err := fs.Submit(ctx, "an essay", "essay", "Physics", "grace", "")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	pending, err := fs.PendingSubmissions()
	if err != nil {
		t.Fatalf("PendingSubmissions() error = %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending = %d, want 1", len(pending))
	}

	err = fs.AddPeerReview(ctx, submission.ID, "ada", 4, "well structured",
		[]string{"clear writing"}, []string{"needs citations"})
	if err != nil {
		t.Fatalf("AddPeerReview() error = %v", err)
	}
	err = fs.AddPeerReview(ctx, submission.ID, "linus", 5, "excellent",
		[]string{"clear writing", "good examples"}, []string{"needs citations"})
	if err != nil {
		t.Fatalf("AddPeerReview() error = %v", err)
	}

	got, err := fs.GetSubmission(submission.ID)
	if err != nil {
		t.Fatalf("GetSubmission() error = %v", err)
	}
	if got.Status != StatusReviewed {
		t.Errorf("Status = %s, want reviewed", got.Status)
	}
	if len(got.Reviews) != 2 {
		t.Fatalf("reviews = %d, want 2", len(got.Reviews))
	}

	pending, err = fs.PendingSubmissions()
	if err != nil {
		t.Fatalf("PendingSubmissions() error = %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending after review = %d, want 0", len(pending))
	}

	summary, err := fs.SummarizeFeedback(submission.ID)
	if err != nil {
		t.Fatalf("SummarizeFeedback() error = %v", err)
	}
	if summary.AvgRating != 4.5 {
		t.Errorf("AvgRating = %v, want 4.5", summary.AvgRating)
	}
	if summary.NumReviews != 2 {
		t.Errorf("NumReviews = %d, want 2", summary.NumReviews)
	}
	if len(summary.TopStrengths) == 0 || summary.TopStrengths[0] != "clear writing" {
		t.Errorf("TopStrengths = %v, want clear writing first", summary.TopStrengths)
	}
	if len(summary.TopAreasForImprovement) != 1 || summary.TopAreasForImprovement[0] != "needs citations" {
		t.Errorf("TopAreasForImprovement = %v", summary.TopAreasForImprovement)
	}
}

func TestFeedbackSystem_Validation(t *testing.T) {
	fs, err := NewFeedbackSystem(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewFeedbackSystem() error = %v", err)
	}
	ctx := context.Background()

	if _, err := fs.Submit(ctx, "   ", "essay", "Physics", "grace", ""); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("Submit(blank content) error = %v, want ErrInvalidInput", err)
	}
	if _, err := fs.Submit(ctx, "content", "essay", "Physics", "", ""); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("Submit(no author) error = %v, want ErrInvalidInput", err)
	}
	if err := fs.AddPeerReview(ctx, "some-id", "ada", 6, "", nil, nil); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("AddPeerReview(rating 6) error = %v, want ErrInvalidInput", err)
	}
	if err := fs.AddPeerReview(ctx, "missing-id", "ada", 3, "", nil, nil); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("AddPeerReview(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := fs.GetSubmission("missing-id"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("GetSubmission(missing) error = %v, want ErrNotFound", err)
	}
}

func TestFeedbackSystem_SubmissionsByAuthor(t *testing.T) {
	fs, err := NewFeedbackSystem(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewFeedbackSystem() error = %v", err)
	}
	ctx := context.Background()

	if _, err := fs.Submit(ctx, "a", "notes", "Biology", "ada", ""); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if _, err := fs.Submit(ctx, "b", "notes", "Biology", "grace", ""); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if _, err := fs.Submit(ctx, "c", "essay", "History", "ada", ""); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	byAda, err := fs.SubmissionsByAuthor("ada")
	if err != nil {
		t.Fatalf("SubmissionsByAuthor() error = %v", err)
	}
	if len(byAda) != 2 {
		t.Errorf("submissions by ada = %d, want 2", len(byAda))
	}
}
