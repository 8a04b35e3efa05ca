package study

import (
	"context"
	"fmt"
	"strings"

	"studymate/internal/contextutil"
	"studymate/internal/llm"
	"studymate/internal/parse"
)

const mcqSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["question", "options", "correct_answer"],
		"properties": {
			"question": {"type": "string"},
			"options": {"type": "array", "items": {"type": "string"}, "minItems": 2},
			"correct_answer": {"type": "string"},
			"explanation": {"type": "string"}
		}
	}
}`

const mcqPrompt = `Generate %d multiple-choice questions with %s difficulty based on the following content.
For each question, provide 4 options (A, B, C, D) with exactly one correct answer.
Format the output as a list of JSON objects with the following structure for each question:
{"question": "Question text", "options": ["A. Option A", "B. Option B", "C. Option C", "D. Option D"], "correct_answer": "A", "explanation": "Explanation why this is correct"}

Content:
%s`

// placeholderQuiz is returned when no structure at all is recognizable in
// the model output.
func placeholderQuiz() *Quiz {
	return &Quiz{
		Status: parse.StatusFailed,
		Questions: []Question{{
			Question:      "Failed to parse questions properly. Please try again.",
			Options:       []string{"A. Try again", "B. Use different content", "C. Adjust parameters", "D. Contact support"},
			CorrectAnswer: "A",
			Explanation:   "There was an error processing the AI response.",
		}},
	}
}

// GenerateMCQs generates numQuestions multiple-choice questions from the
// given content at the given difficulty (easy, medium, hard).
func (s *Service) GenerateMCQs(ctx context.Context, content string, numQuestions int, difficulty string) (*Quiz, error) {
	if numQuestions <= 0 {
		numQuestions = 5
	}
	if difficulty == "" {
		difficulty = "medium"
	}

	prompt := fmt.Sprintf(mcqPrompt, numQuestions, difficulty, truncate(content, contentLimit))
	return s.generateQuiz(ctx, prompt, numQuestions)
}

// GenerateQuizFromDocument generates a quiz from whole-document text,
// optionally focused on the given topics.
func (s *Service) GenerateQuizFromDocument(ctx context.Context, documentText string, numQuestions int, topics []string, difficulty string) (*Quiz, error) {
	if numQuestions <= 0 {
		numQuestions = 5
	}
	if difficulty == "" {
		difficulty = "medium"
	}

	text := truncate(documentText, documentContentLimit)
	var focus string
	if len(topics) > 0 {
		focus = fmt.Sprintf(" focusing on these topics: %s", strings.Join(topics, ", "))
	} else {
		focus = " covering the main concepts"
	}
	content := fmt.Sprintf("From the following document content, generate %d multiple-choice questions with %s difficulty%s.\n\nDocument Content:\n%s",
		numQuestions, difficulty, focus, text)

	prompt := fmt.Sprintf(mcqPrompt, numQuestions, difficulty, content)
	return s.generateQuiz(ctx, prompt, numQuestions)
}

func (s *Service) generateQuiz(ctx context.Context, prompt string, numQuestions int) (*Quiz, error) {
	logger := contextutil.LoggerFromContext(ctx)

	response, err := s.generator.Generate(ctx, prompt, llm.GenerateParams{Temperature: generationTemperature})
	if err != nil {
		return nil, fmt.Errorf("failed to generate questions: %w", err)
	}

	if span, ok := parse.ExtractList(response); ok {
		var questions []Question
		if err := parse.Decode(span, mcqSchema, &questions); err == nil && len(questions) > 0 {
			return &Quiz{Questions: questions, Status: parse.StatusParsed}, nil
		}
		logger.WarnContext(ctx, "quiz JSON rejected, falling back to heuristic parsing", "error", err)
	}

	if questions := parseQuestionBlocks(response, numQuestions); len(questions) > 0 {
		logger.InfoContext(ctx, "quiz parsed heuristically", "questions", len(questions))
		return &Quiz{Questions: questions, Status: parse.StatusDegraded}, nil
	}

	logger.WarnContext(ctx, "quiz output unparseable, returning placeholder")
	return placeholderQuiz(), nil
}

// parseQuestionBlocks reconstructs questions from blank-line-separated
// blocks containing a question mark and lettered options.
func parseQuestionBlocks(response string, limit int) []Question {
	var questions []Question
	for _, block := range parse.Blocks(response) {
		if len(questions) >= limit {
			break
		}
		if !strings.Contains(block, "?") || !strings.Contains(block, "A.") || !strings.Contains(block, "B.") {
			continue
		}

		questionText, optionsText, _ := strings.Cut(block, "?")
		options := splitOptions(optionsText)
		if len(options) < 2 {
			continue
		}

		questions = append(questions, Question{
			Question:      strings.TrimSpace(questionText) + "?",
			Options:       options,
			CorrectAnswer: detectCorrectAnswer(block),
			Explanation:   "Explanation not available in parsed format",
		})
	}
	return questions
}

// splitOptions carves "A." through "D." spans out of the text following the
// question mark.
func splitOptions(text string) []string {
	markers := []string{"A.", "B.", "C.", "D."}
	var options []string
	for i, marker := range markers {
		start := strings.Index(text, marker)
		if start < 0 {
			continue
		}
		end := len(text)
		for _, next := range markers[i+1:] {
			if idx := strings.Index(text, next); idx > start {
				end = idx
				break
			}
		}
		if option := strings.TrimSpace(text[start:end]); option != "" {
			options = append(options, option)
		}
	}
	return options
}

// detectCorrectAnswer looks for "correct answer is X" or "correct: X"
// annotations; defaults to "A" when none is found.
func detectCorrectAnswer(block string) string {
	lower := strings.ToLower(block)
	if !strings.Contains(lower, "correct") {
		return "A"
	}
	for _, letter := range []string{"a", "b", "c", "d"} {
		if strings.Contains(lower, "correct answer is "+letter) || strings.Contains(lower, "correct: "+letter) {
			return strings.ToUpper(letter)
		}
	}
	return "A"
}
