package study

import (
	"context"
	"fmt"
	"strings"

	"studymate/internal/contextutil"
	"studymate/internal/llm"
	"studymate/internal/parse"
)

// maxKeyPoints caps the key points attached to a summary.
const maxKeyPoints = 5

// summaryWordTargets maps requested summary lengths to word counts.
var summaryWordTargets = map[string]int{
	"short":  150,
	"medium": 300,
	"long":   500,
}

const summaryPrompt = `Summarize the following text in approximately %d words%s.
Also extract 3-5 key points from the text.

Text to summarize:
%s

Format the output as follows:
Summary: [Your summary here]

Key Points:
- [Key point 1]
- [Key point 2]
- [Key point 3]
- [Key point 4 (if applicable)]
- [Key point 5 (if applicable)]`

// Summarize generates a summary of the text at the requested length (short,
// medium, long), optionally focused on a topic.
func (s *Service) Summarize(ctx context.Context, text, length, focus string) (*Summary, error) {
	logger := contextutil.LoggerFromContext(ctx)

	targetWords, ok := summaryWordTargets[strings.ToLower(length)]
	if !ok {
		targetWords = summaryWordTargets["medium"]
	}
	var focusClause string
	if focus != "" {
		focusClause = fmt.Sprintf(", focusing on aspects related to %s", focus)
	}

	prompt := fmt.Sprintf(summaryPrompt, targetWords, focusClause, truncate(text, documentContentLimit))
	response, err := s.generator.Generate(ctx, prompt, llm.GenerateParams{Temperature: generationTemperature})
	if err != nil {
		return nil, fmt.Errorf("failed to generate summary: %w", err)
	}

	if strings.Contains(response, "Summary:") && strings.Contains(response, "Key Points:") {
		sections := parse.Sections(response, "Summary", "Key Points")
		points := parse.BulletItems(sections["Key Points"])
		if len(points) > maxKeyPoints {
			points = points[:maxKeyPoints]
		}
		return &Summary{
			Summary:   sections["Summary"],
			KeyPoints: points,
			Status:    parse.StatusParsed,
		}, nil
	}

	// Format not followed. Treat the first half as the summary and any
	// bulleted lines as key points.
	lines := strings.Split(response, "\n")
	var summaryLines []string
	for i := 0; i < len(lines)/2; i++ {
		summaryLines = append(summaryLines, lines[i])
	}
	summaryText := strings.TrimSpace(strings.Join(summaryLines, "\n"))
	points := parse.BulletItems(response)

	if summaryText == "" {
		logger.WarnContext(ctx, "summary output unparseable, returning placeholder")
		return &Summary{
			Summary:   truncate(response, 500),
			KeyPoints: []string{"Error parsing key points"},
			Status:    parse.StatusFailed,
		}, nil
	}

	if len(points) == 0 {
		// Second chance: ask the model to pull key points out of the summary.
		followup := fmt.Sprintf("Extract 3-5 key points from this summary:\n%s", summaryText)
		if extracted, err := s.generator.Generate(ctx, followup, llm.GenerateParams{Temperature: generationTemperature}); err == nil {
			points = parse.BulletItems(extracted)
		} else {
			logger.WarnContext(ctx, "key point extraction failed", "error", err)
		}
	}
	if len(points) > maxKeyPoints {
		points = points[:maxKeyPoints]
	}

	logger.InfoContext(ctx, "summary parsed heuristically", "key_points", len(points))
	return &Summary{Summary: summaryText, KeyPoints: points, Status: parse.StatusDegraded}, nil
}

// SummarizeChapters generates a short summary per chapter, keyed by chapter
// title. A chapter whose summarization fails is skipped rather than failing
// the batch.
func (s *Service) SummarizeChapters(ctx context.Context, chapters map[string]string) (map[string]*Summary, error) {
	logger := contextutil.LoggerFromContext(ctx)

	summaries := make(map[string]*Summary, len(chapters))
	for title, content := range chapters {
		summary, err := s.Summarize(ctx, content, "short", "")
		if err != nil {
			logger.WarnContext(ctx, "chapter summary failed", "chapter", title, "error", err)
			continue
		}
		summaries[title] = summary
	}
	if len(summaries) == 0 && len(chapters) > 0 {
		return nil, fmt.Errorf("all %d chapter summaries failed", len(chapters))
	}
	return summaries, nil
}
