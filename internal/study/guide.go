package study

import (
	"context"
	"fmt"
	"strings"

	"studymate/internal/contextutil"
	"studymate/internal/llm"
	"studymate/internal/parse"
)

var guideSections = []string{"Key Concepts", "Definitions", "Summary", "Practice Questions"}

const guidePrompt = `Create a comprehensive study guide based on the following content%s.

Include the following sections:
1. Key Concepts - List and briefly explain the most important concepts
2. Definitions - Provide clear definitions for important terms
3. Summary - Summarize the main points in a concise way
4. Practice Questions - Include 3-5 practice questions with answers

Content:
%s`

// GenerateStudyGuide generates a sectioned study guide from the content,
// optionally focused on the given topics.
func (s *Service) GenerateStudyGuide(ctx context.Context, content string, topics []string) (*Guide, error) {
	logger := contextutil.LoggerFromContext(ctx)

	var focusClause string
	if len(topics) > 0 {
		focusClause = fmt.Sprintf(", focusing on these topics: %s", strings.Join(topics, ", "))
	}

	prompt := fmt.Sprintf(guidePrompt, focusClause, truncate(content, contentLimit))
	response, err := s.generator.Generate(ctx, prompt, llm.GenerateParams{
		Temperature: generationTemperature,
		MaxTokens:   2048,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate study guide: %w", err)
	}

	sections := parse.Sections(response, guideSections...)
	guide := &Guide{
		KeyConcepts:       sections["Key Concepts"],
		Definitions:       sections["Definitions"],
		Summary:           sections["Summary"],
		PracticeQuestions: sections["Practice Questions"],
	}

	switch {
	case len(sections) == len(guideSections):
		guide.Status = parse.StatusParsed
	case len(sections) > 0:
		logger.InfoContext(ctx, "study guide partially sectioned", "sections", len(sections))
		guide.Status = parse.StatusDegraded
	default:
		logger.WarnContext(ctx, "study guide output unsectioned, returning raw content")
		guide.Raw = response
		guide.Status = parse.StatusFailed
	}
	return guide, nil
}
