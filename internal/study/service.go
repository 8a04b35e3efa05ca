package study

import (
	"studymate/internal/llm"
)

const (
	// contentLimit caps prompt content to stay under model token limits.
	contentLimit = 8000
	// documentContentLimit caps whole-document content in prompts.
	documentContentLimit = 10000

	// generationTemperature keeps structured output determinism-leaning.
	generationTemperature = 0.3
)

// Service generates study artifacts from document content. Parse failures
// never surface as errors; artifacts carry a status tag instead.
type Service struct {
	generator llm.Generator
}

// NewService creates a study artifact generator.
func NewService(generator llm.Generator) *Service {
	return &Service{generator: generator}
}

// truncate limits content to at most n bytes.
func truncate(content string, n int) string {
	if len(content) > n {
		return content[:n]
	}
	return content
}
