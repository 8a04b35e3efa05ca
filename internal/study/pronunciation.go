package study

import (
	"context"
	"fmt"

	"studymate/internal/contextutil"
	"studymate/internal/llm"
	"studymate/internal/parse"
)

// pronunciationContentLimit caps the text scanned for difficult terms.
const pronunciationContentLimit = 5000

// pronunciationSchema accepts a flat term→guide object.
const pronunciationSchema = `{
	"type": "object",
	"additionalProperties": {"type": "string"}
}`

const pronunciationPrompt = `Identify difficult or technical terms in the following text and provide pronunciation guides for them.
Format the output as a JSON object with terms as keys and pronunciation guides as values.

Text:
%s`

// PronunciationGuide maps difficult terms to spoken-out pronunciations.
type PronunciationGuide struct {
	Terms  map[string]string `json:"terms"`
	Status parse.Status      `json:"status"`
}

// GeneratePronunciationGuide extracts the hard terms from the text and asks
// the model for pronunciation guidance on each. There is no heuristic tier:
// the output is a single flat object, so it either decodes or fails.
func (s *Service) GeneratePronunciationGuide(ctx context.Context, content string) (*PronunciationGuide, error) {
	logger := contextutil.LoggerFromContext(ctx)

	prompt := fmt.Sprintf(pronunciationPrompt, truncate(content, pronunciationContentLimit))
	response, err := s.generator.Generate(ctx, prompt, llm.GenerateParams{Temperature: generationTemperature})
	if err != nil {
		return nil, fmt.Errorf("failed to generate pronunciation guide: %w", err)
	}

	if jsonText, ok := parse.ExtractObject(response); ok {
		var terms map[string]string
		if err := parse.Decode(jsonText, pronunciationSchema, &terms); err == nil && len(terms) > 0 {
			return &PronunciationGuide{Terms: terms, Status: parse.StatusParsed}, nil
		}
	}

	logger.WarnContext(ctx, "pronunciation guide output unparseable")
	return &PronunciationGuide{Terms: map[string]string{}, Status: parse.StatusFailed}, nil
}
