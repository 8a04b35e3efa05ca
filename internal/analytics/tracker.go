// Package analytics tracks study activity and quiz performance in flat JSON
// files with read-modify-write persistence. Single-user local use only; a
// mutex guards in-process access but there is no cross-process locking.
package analytics

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	studyTimeFile   = "study_time.json"
	quizResultsFile = "quiz_results.json"
	topicDataFile   = "topic_data.json"
)

// StudySession is one recorded block of study time.
type StudySession struct {
	Timestamp       time.Time `json:"timestamp"`
	Subject         string    `json:"subject"`
	DurationMinutes int       `json:"duration_minutes"`
	DocumentName    string    `json:"document_name,omitempty"`
	Notes           string    `json:"notes,omitempty"`
}

// QuizResult is one recorded quiz outcome.
type QuizResult struct {
	Timestamp        time.Time `json:"timestamp"`
	Subject          string    `json:"subject"`
	ScorePercentage  float64   `json:"score_percentage"`
	NumQuestions     int       `json:"num_questions"`
	Difficulty       string    `json:"difficulty"`
	TimeTakenSeconds int       `json:"time_taken_seconds,omitempty"`
}

// TopicStats aggregates activity per subject.
type TopicStats struct {
	TotalTime int     `json:"total_time"` // minutes
	Sessions  int     `json:"sessions"`
	Quizzes   int     `json:"quizzes"`
	AvgScore  float64 `json:"avg_score"`
}

// StudyTimeSummary summarizes study time over a window.
type StudyTimeSummary struct {
	TotalHours      float64 `json:"total_hours"`
	DaysStudied     int     `json:"days_studied"`
	AvgDailyMinutes float64 `json:"avg_daily_minutes"`
	TopSubject      string  `json:"top_subject,omitempty"`
}

// QuizPerformanceSummary summarizes quiz results over a window.
type QuizPerformanceSummary struct {
	TotalQuizzes int     `json:"total_quizzes"`
	AvgScore     float64 `json:"avg_score"`
	BestSubject  string  `json:"best_subject,omitempty"`
	// NeedsImprovement is the lowest-scoring subject, set only when more
	// than one subject has results.
	NeedsImprovement string `json:"needs_improvement,omitempty"`
}

// Tracker records and summarizes study analytics.
type Tracker struct {
	mu      sync.Mutex
	dataDir string
	clock   func() time.Time
}

// NewTracker creates a tracker storing its JSON files under dataDir, which
// is created if missing.
func NewTracker(dataDir string) (*Tracker, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create analytics directory: %w", err)
	}
	return &Tracker{dataDir: dataDir, clock: time.Now}, nil
}

func loadJSON[T any](path string, fallback T) (T, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fallback, nil
	}
	if err != nil {
		return fallback, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return fallback, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return v, nil
}

func saveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (t *Tracker) path(name string) string {
	return filepath.Join(t.dataDir, name)
}

// RecordStudySession appends a study session and updates the subject's
// aggregate stats.
func (t *Tracker) RecordStudySession(subject string, durationMinutes int, documentName, notes string) error {
	if subject == "" {
		return fmt.Errorf("subject must not be empty")
	}
	if durationMinutes <= 0 {
		return fmt.Errorf("duration must be positive, got %d", durationMinutes)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	sessions, err := loadJSON(t.path(studyTimeFile), []StudySession{})
	if err != nil {
		return err
	}
	sessions = append(sessions, StudySession{
		Timestamp:       t.clock(),
		Subject:         subject,
		DurationMinutes: durationMinutes,
		DocumentName:    documentName,
		Notes:           notes,
	})
	if err := saveJSON(t.path(studyTimeFile), sessions); err != nil {
		return err
	}

	topics, err := loadJSON(t.path(topicDataFile), map[string]TopicStats{})
	if err != nil {
		return err
	}
	stats := topics[subject]
	stats.TotalTime += durationMinutes
	stats.Sessions++
	topics[subject] = stats
	return saveJSON(t.path(topicDataFile), topics)
}

// RecordQuizResult appends a quiz result and folds the score into the
// subject's running average.
func (t *Tracker) RecordQuizResult(subject string, scorePercentage float64, numQuestions int, difficulty string, timeTakenSeconds int) error {
	if subject == "" {
		return fmt.Errorf("subject must not be empty")
	}
	if scorePercentage < 0 || scorePercentage > 100 {
		return fmt.Errorf("score must be in [0,100], got %v", scorePercentage)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	results, err := loadJSON(t.path(quizResultsFile), []QuizResult{})
	if err != nil {
		return err
	}
	results = append(results, QuizResult{
		Timestamp:        t.clock(),
		Subject:          subject,
		ScorePercentage:  scorePercentage,
		NumQuestions:     numQuestions,
		Difficulty:       difficulty,
		TimeTakenSeconds: timeTakenSeconds,
	})
	if err := saveJSON(t.path(quizResultsFile), results); err != nil {
		return err
	}

	topics, err := loadJSON(t.path(topicDataFile), map[string]TopicStats{})
	if err != nil {
		return err
	}
	stats := topics[subject]
	stats.AvgScore = (stats.AvgScore*float64(stats.Quizzes) + scorePercentage) / float64(stats.Quizzes+1)
	stats.Quizzes++
	topics[subject] = stats
	return saveJSON(t.path(topicDataFile), topics)
}

// Sessions returns recorded study sessions from the last `days` days.
func (t *Tracker) Sessions(days int) ([]StudySession, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sessionsLocked(days)
}

func (t *Tracker) sessionsLocked(days int) ([]StudySession, error) {
	sessions, err := loadJSON(t.path(studyTimeFile), []StudySession{})
	if err != nil {
		return nil, err
	}
	cutoff := t.clock().AddDate(0, 0, -days)
	recent := make([]StudySession, 0, len(sessions))
	for _, s := range sessions {
		if !s.Timestamp.Before(cutoff) {
			recent = append(recent, s)
		}
	}
	return recent, nil
}

// QuizResults returns recorded quiz results from the last `days` days.
func (t *Tracker) QuizResults(days int) ([]QuizResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.quizResultsLocked(days)
}

func (t *Tracker) quizResultsLocked(days int) ([]QuizResult, error) {
	results, err := loadJSON(t.path(quizResultsFile), []QuizResult{})
	if err != nil {
		return nil, err
	}
	cutoff := t.clock().AddDate(0, 0, -days)
	recent := make([]QuizResult, 0, len(results))
	for _, r := range results {
		if !r.Timestamp.Before(cutoff) {
			recent = append(recent, r)
		}
	}
	return recent, nil
}

// TopicData returns the per-subject aggregates.
func (t *Tracker) TopicData() (map[string]TopicStats, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return loadJSON(t.path(topicDataFile), map[string]TopicStats{})
}

// StudyTimeSummary summarizes study time over the last `days` days.
func (t *Tracker) StudyTimeSummary(days int) (*StudyTimeSummary, error) {
	sessions, err := t.Sessions(days)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return &StudyTimeSummary{}, nil
	}

	totalMinutes := 0
	daysSeen := make(map[string]bool)
	bySubject := make(map[string]int)
	for _, s := range sessions {
		totalMinutes += s.DurationMinutes
		daysSeen[s.Timestamp.Format("2006-01-02")] = true
		bySubject[s.Subject] += s.DurationMinutes
	}

	return &StudyTimeSummary{
		TotalHours:      round1(float64(totalMinutes) / 60),
		DaysStudied:     len(daysSeen),
		AvgDailyMinutes: round1(float64(totalMinutes) / float64(len(daysSeen))),
		TopSubject:      maxKey(bySubject),
	}, nil
}

// QuizPerformanceSummary summarizes quiz results over the last `days` days.
func (t *Tracker) QuizPerformanceSummary(days int) (*QuizPerformanceSummary, error) {
	results, err := t.QuizResults(days)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return &QuizPerformanceSummary{}, nil
	}

	var total float64
	scores := make(map[string][]float64)
	for _, r := range results {
		total += r.ScorePercentage
		scores[r.Subject] = append(scores[r.Subject], r.ScorePercentage)
	}

	means := make(map[string]float64, len(scores))
	for subject, ss := range scores {
		var sum float64
		for _, s := range ss {
			sum += s
		}
		means[subject] = sum / float64(len(ss))
	}

	summary := &QuizPerformanceSummary{
		TotalQuizzes: len(results),
		AvgScore:     round1(total / float64(len(results))),
		BestSubject:  maxKeyFloat(means),
	}
	if len(means) > 1 {
		summary.NeedsImprovement = minKeyFloat(means)
	}
	return summary, nil
}

// Recommendations derives up to three study recommendations from the last
// 30 days of activity.
func (t *Tracker) Recommendations() ([]string, error) {
	t.mu.Lock()
	sessions, err := t.sessionsLocked(30)
	if err != nil {
		t.mu.Unlock()
		return nil, err
	}
	results, err := t.quizResultsLocked(30)
	if err != nil {
		t.mu.Unlock()
		return nil, err
	}
	topics, err := loadJSON(t.path(topicDataFile), map[string]TopicStats{})
	t.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if len(sessions) == 0 && len(results) == 0 {
		return []string{"Not enough data to generate recommendations. Keep studying to get personalized insights."}, nil
	}

	var recs []string

	if len(sessions) > 0 {
		daysSeen := make(map[string]bool)
		earliest := sessions[0].Timestamp
		bySubject := make(map[string]int)
		totalMinutes := 0
		for _, s := range sessions {
			daysSeen[s.Timestamp.Format("2006-01-02")] = true
			if s.Timestamp.Before(earliest) {
				earliest = s.Timestamp
			}
			bySubject[s.Subject] += s.DurationMinutes
			totalMinutes += s.DurationMinutes
		}

		spanDays := int(t.clock().Sub(earliest).Hours()/24) + 1
		if spanDays > 0 && float64(len(daysSeen))/float64(spanDays) < 0.5 {
			recs = append(recs, "Try to study more consistently. Regular study sessions are more effective than cramming.")
		}
		if top := maxKey(bySubject); len(bySubject) > 1 && float64(bySubject[top])/float64(totalMinutes) > 0.7 {
			recs = append(recs, fmt.Sprintf("Your study time is heavily focused on %s. Consider balancing your time across different subjects.", top))
		}
	}

	if len(results) > 0 {
		scores := make(map[string][]float64)
		onlyEasy := true
		for _, r := range results {
			scores[r.Subject] = append(scores[r.Subject], r.ScorePercentage)
			if !strings.EqualFold(r.Difficulty, "easy") {
				onlyEasy = false
			}
		}
		var low []string
		for subject, ss := range scores {
			var sum float64
			for _, s := range ss {
				sum += s
			}
			if sum/float64(len(ss)) < 70 {
				low = append(low, subject)
			}
		}
		if len(low) > 0 {
			sort.Strings(low)
			recs = append(recs, fmt.Sprintf("Consider spending more time on %s to improve your quiz scores.", strings.Join(low, ", ")))
		}
		if onlyEasy {
			recs = append(recs, "Try increasing the difficulty of your quizzes to challenge yourself.")
		}
	}

	var neglected []string
	for subject, stats := range topics {
		if stats.Sessions <= 1 {
			neglected = append(neglected, subject)
		}
	}
	if len(neglected) > 0 {
		sort.Strings(neglected)
		if len(neglected) > 2 {
			neglected = neglected[:2]
		}
		recs = append(recs, fmt.Sprintf("You haven't spent much time on %s. Consider revisiting these topics.", strings.Join(neglected, ", ")))
	}

	if len(recs) < 2 {
		general := []string{
			"Try using the concept map feature to visualize connections between topics.",
			"Regular quizzing helps with long-term retention. Try taking quizzes on topics you studied a week ago.",
			"Summarizing content in your own words is an effective study technique.",
		}
		for _, g := range general {
			if len(recs) >= 2 {
				break
			}
			recs = append(recs, g)
		}
	}

	if len(recs) > 3 {
		recs = recs[:3]
	}
	return recs, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func maxKey(m map[string]int) string {
	var best string
	bestVal := -1
	for k, v := range m {
		if v > bestVal || (v == bestVal && k < best) {
			best, bestVal = k, v
		}
	}
	return best
}

func maxKeyFloat(m map[string]float64) string {
	var best string
	bestVal := math.Inf(-1)
	for k, v := range m {
		if v > bestVal || (v == bestVal && k < best) {
			best, bestVal = k, v
		}
	}
	return best
}

func minKeyFloat(m map[string]float64) string {
	var best string
	bestVal := math.Inf(1)
	for k, v := range m {
		if v < bestVal || (v == bestVal && k < best) {
			best, bestVal = k, v
		}
	}
	return best
}
