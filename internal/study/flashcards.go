package study

import (
	"context"
	"fmt"

	"studymate/internal/contextutil"
	"studymate/internal/llm"
	"studymate/internal/parse"
)

const flashcardSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["front", "back"],
		"properties": {
			"front": {"type": "string"},
			"back": {"type": "string"}
		}
	}
}`

const flashcardPrompt = `Generate %d flashcards based on the following content.
Each flashcard should have a question on the front and the answer on the back.
Focus on key concepts, definitions, and important facts.

Format the output as a list of JSON objects with the following structure for each flashcard:
{"front": "Question or concept", "back": "Answer or explanation"}

Content:
%s`

func placeholderFlashcards() *FlashcardSet {
	return &FlashcardSet{
		Status: parse.StatusFailed,
		Cards: []Flashcard{{
			Front: "Failed to parse flashcards properly. Please try again.",
			Back:  "There was an error processing the AI response.",
		}},
	}
}

// GenerateFlashcards generates numCards front/back flashcards from the given
// content.
func (s *Service) GenerateFlashcards(ctx context.Context, content string, numCards int) (*FlashcardSet, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if numCards <= 0 {
		numCards = 10
	}

	prompt := fmt.Sprintf(flashcardPrompt, numCards, truncate(content, contentLimit))
	response, err := s.generator.Generate(ctx, prompt, llm.GenerateParams{Temperature: generationTemperature})
	if err != nil {
		return nil, fmt.Errorf("failed to generate flashcards: %w", err)
	}

	if span, ok := parse.ExtractList(response); ok {
		var cards []Flashcard
		if err := parse.Decode(span, flashcardSchema, &cards); err == nil && len(cards) > 0 {
			return &FlashcardSet{Cards: cards, Status: parse.StatusParsed}, nil
		}
		logger.WarnContext(ctx, "flashcard JSON rejected, falling back to heuristic parsing", "error", err)
	}

	var cards []Flashcard
	for _, block := range parse.Blocks(response) {
		if len(cards) >= numCards {
			break
		}
		fields := parse.Fields(block, "Front", "Back")
		if fields["Front"] != "" && fields["Back"] != "" {
			cards = append(cards, Flashcard{Front: fields["Front"], Back: fields["Back"]})
		}
	}
	if len(cards) > 0 {
		logger.InfoContext(ctx, "flashcards parsed heuristically", "cards", len(cards))
		return &FlashcardSet{Cards: cards, Status: parse.StatusDegraded}, nil
	}

	logger.WarnContext(ctx, "flashcard output unparseable, returning placeholder")
	return placeholderFlashcards(), nil
}
