// Package review implements peer review of study content: JSON-file-backed
// submissions with optional AI feedback and rated peer reviews.
package review

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"studymate/internal/contextutil"
	"studymate/internal/llm"
	"studymate/internal/parse"
	"studymate/internal/service"
)

const feedbackFile = "feedback_data.json"

// Submission statuses.
const (
	StatusPending  = "pending"
	StatusReviewed = "reviewed"
)

// AIFeedback is model-generated feedback on a submission.
type AIFeedback struct {
	Overall             string   `json:"overall"`
	Strengths           []string `json:"strengths"`
	AreasForImprovement []string `json:"areas_for_improvement"`
	Suggestions         string   `json:"suggestions,omitempty"`
}

// PeerReview is one reviewer's feedback on a submission.
type PeerReview struct {
	Timestamp           time.Time `json:"timestamp"`
	ReviewerName        string    `json:"reviewer_name"`
	Rating              int       `json:"rating"` // 1-5
	Comments            string    `json:"comments"`
	Strengths           []string  `json:"strengths,omitempty"`
	AreasForImprovement []string  `json:"areas_for_improvement,omitempty"`
}

// Submission is content submitted for peer review.
type Submission struct {
	ID          string       `json:"id"`
	Timestamp   time.Time    `json:"timestamp"`
	Content     string       `json:"content"`
	ContentType string       `json:"content_type"` // essay, summary, notes
	Subject     string       `json:"subject"`
	AuthorName  string       `json:"author_name"`
	Notes       string       `json:"notes,omitempty"`
	Reviews     []PeerReview `json:"reviews"`
	AIFeedback  *AIFeedback  `json:"ai_feedback,omitempty"`
	Status      string       `json:"status"`
}

// FeedbackSummary aggregates all feedback on one submission.
type FeedbackSummary struct {
	AvgRating              float64     `json:"avg_rating"`
	NumReviews             int         `json:"num_reviews"`
	TopStrengths           []string    `json:"top_strengths"`
	TopAreasForImprovement []string    `json:"top_areas_for_improvement"`
	AIFeedback             *AIFeedback `json:"ai_feedback,omitempty"`
}

const aiFeedbackPrompt = `Please provide constructive feedback on the following %s about %s.

CONTENT:
%s

Please structure your feedback with the following sections:
1. Overall assessment
2. Strengths (list 3-5 specific strengths)
3. Areas for improvement (list 3-5 specific areas)
4. Specific suggestions for improvement

Be specific, constructive, and educational in your feedback.`

// FeedbackSystem stores submissions in a flat JSON file, read-modify-write.
// Single-user local use; a mutex guards in-process access.
type FeedbackSystem struct {
	mu        sync.Mutex
	dataDir   string
	generator llm.Generator // nil disables AI feedback
	clock     func() time.Time
}

// NewFeedbackSystem creates a feedback system storing its data under
// dataDir. A nil generator disables AI feedback on submissions.
func NewFeedbackSystem(dataDir string, generator llm.Generator) (*FeedbackSystem, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create feedback directory: %w", err)
	}
	return &FeedbackSystem{dataDir: dataDir, generator: generator, clock: time.Now}, nil
}

func (f *FeedbackSystem) load() ([]*Submission, error) {
	path := filepath.Join(f.dataDir, feedbackFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return []*Submission{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read feedback data: %w", err)
	}
	var submissions []*Submission
	if err := json.Unmarshal(data, &submissions); err != nil {
		return nil, fmt.Errorf("failed to decode feedback data: %w", err)
	}
	return submissions, nil
}

func (f *FeedbackSystem) save(submissions []*Submission) error {
	data, err := json.MarshalIndent(submissions, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode feedback data: %w", err)
	}
	path := filepath.Join(f.dataDir, feedbackFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write feedback data: %w", err)
	}
	return nil
}

// Submit stores content for peer review and returns the new submission. AI
// feedback is attached best-effort; its failure does not fail the submit.
func (f *FeedbackSystem) Submit(ctx context.Context, content, contentType, subject, authorName, notes string) (*Submission, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(content) == "" {
		return nil, &service.ValidationError{Field: "content", Message: "must not be empty"}
	}
	if authorName == "" {
		return nil, &service.ValidationError{Field: "author_name", Message: "must not be empty"}
	}

	submission := &Submission{
		ID:          uuid.New().String(),
		Timestamp:   f.clock(),
		Content:     content,
		ContentType: contentType,
		Subject:     subject,
		AuthorName:  authorName,
		Notes:       notes,
		Reviews:     []PeerReview{},
		Status:      StatusPending,
	}

	if f.generator != nil {
		feedback, err := f.generateAIFeedback(ctx, content, contentType, subject)
		if err != nil {
			logger.WarnContext(ctx, "AI feedback generation failed", "submission_id", submission.ID, "error", err)
		} else {
			submission.AIFeedback = feedback
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	submissions, err := f.load()
	if err != nil {
		return nil, err
	}
	submissions = append(submissions, submission)
	if err := f.save(submissions); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "content submitted for review",
		"submission_id", submission.ID, "content_type", contentType, "author", authorName)
	return submission, nil
}

// AddPeerReview attaches a review to a submission and marks it reviewed.
func (f *FeedbackSystem) AddPeerReview(ctx context.Context, submissionID, reviewerName string, rating int, comments string, strengths, areas []string) error {
	if rating < 1 || rating > 5 {
		return &service.ValidationError{Field: "rating", Message: fmt.Sprintf("must be between 1 and 5, got %d", rating)}
	}
	if reviewerName == "" {
		return &service.ValidationError{Field: "reviewer_name", Message: "must not be empty"}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	submissions, err := f.load()
	if err != nil {
		return err
	}
	for _, s := range submissions {
		if s.ID != submissionID {
			continue
		}
		s.Reviews = append(s.Reviews, PeerReview{
			Timestamp:           f.clock(),
			ReviewerName:        reviewerName,
			Rating:              rating,
			Comments:            comments,
			Strengths:           strengths,
			AreasForImprovement: areas,
		})
		s.Status = StatusReviewed
		return f.save(submissions)
	}
	return fmt.Errorf("submission %s: %w", submissionID, service.ErrNotFound)
}

// GetSubmission returns the submission with the given ID.
func (f *FeedbackSystem) GetSubmission(submissionID string) (*Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	submissions, err := f.load()
	if err != nil {
		return nil, err
	}
	for _, s := range submissions {
		if s.ID == submissionID {
			return s, nil
		}
	}
	return nil, fmt.Errorf("submission %s: %w", submissionID, service.ErrNotFound)
}

// SubmissionsByAuthor returns all submissions by the given author.
func (f *FeedbackSystem) SubmissionsByAuthor(authorName string) ([]*Submission, error) {
	return f.filter(func(s *Submission) bool { return s.AuthorName == authorName })
}

// PendingSubmissions returns all submissions awaiting review.
func (f *FeedbackSystem) PendingSubmissions() ([]*Submission, error) {
	return f.filter(func(s *Submission) bool { return s.Status == StatusPending })
}

func (f *FeedbackSystem) filter(keep func(*Submission) bool) ([]*Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	submissions, err := f.load()
	if err != nil {
		return nil, err
	}
	matched := make([]*Submission, 0, len(submissions))
	for _, s := range submissions {
		if keep(s) {
			matched = append(matched, s)
		}
	}
	return matched, nil
}

// SummarizeFeedback aggregates the reviews of one submission: average
// rating plus the most frequently named strengths and improvement areas.
func (f *FeedbackSystem) SummarizeFeedback(submissionID string) (*FeedbackSummary, error) {
	submission, err := f.GetSubmission(submissionID)
	if err != nil {
		return nil, err
	}
	if len(submission.Reviews) == 0 {
		return nil, fmt.Errorf("submission %s has no reviews yet", submissionID)
	}

	var totalRating int
	strengthCounts := make(map[string]int)
	areaCounts := make(map[string]int)
	for _, r := range submission.Reviews {
		totalRating += r.Rating
		for _, s := range r.Strengths {
			strengthCounts[s]++
		}
		for _, a := range r.AreasForImprovement {
			areaCounts[a]++
		}
	}

	avg := float64(totalRating) / float64(len(submission.Reviews))
	return &FeedbackSummary{
		AvgRating:              math.Round(avg*10) / 10,
		NumReviews:             len(submission.Reviews),
		TopStrengths:           topByCount(strengthCounts, 5),
		TopAreasForImprovement: topByCount(areaCounts, 5),
		AIFeedback:             submission.AIFeedback,
	}, nil
}

// generateAIFeedback asks the model for structured feedback and extracts
// sections heuristically from its response.
func (f *FeedbackSystem) generateAIFeedback(ctx context.Context, content, contentType, subject string) (*AIFeedback, error) {
	prompt := fmt.Sprintf(aiFeedbackPrompt, contentType, subject, content)
	response, err := f.generator.Generate(ctx, prompt, llm.GenerateParams{Temperature: 0.3})
	if err != nil {
		return nil, fmt.Errorf("failed to generate feedback: %w", err)
	}

	blocks := parse.Blocks(response)
	if len(blocks) == 0 {
		return nil, fmt.Errorf("empty feedback response")
	}

	feedback := &AIFeedback{Overall: blocks[0]}
	if len(blocks) > 3 {
		feedback.Suggestions = blocks[len(blocks)-1]
	}
	for _, block := range blocks {
		lower := strings.ToLower(block)
		switch {
		case strings.Contains(lower, "strength"):
			feedback.Strengths = parse.BulletItems(block)
		case strings.Contains(lower, "improvement") || strings.Contains(lower, "improve"):
			feedback.AreasForImprovement = parse.BulletItems(block)
		}
	}
	return feedback, nil
}

// topByCount returns up to limit keys ordered by descending count, ties
// alphabetical.
func topByCount(counts map[string]int, limit int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > limit {
		keys = keys[:limit]
	}
	return keys
}
