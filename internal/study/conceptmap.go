package study

import (
	"context"
	"fmt"

	"studymate/internal/contextutil"
	"studymate/internal/llm"
	"studymate/internal/parse"
)

const conceptMapSchema = `{
	"type": "object",
	"required": ["nodes", "edges"],
	"properties": {
		"nodes": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "label"],
				"properties": {
					"id": {"type": "string"},
					"label": {"type": "string"},
					"type": {"type": "string"}
				}
			}
		},
		"edges": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["from", "to"],
				"properties": {
					"from": {"type": "string"},
					"to": {"type": "string"},
					"label": {"type": "string"}
				}
			}
		}
	}
}`

const conceptMapPrompt = `Analyze the following content and identify concepts related to '%s'.
For each related concept, explain how it connects to '%s' and to other concepts.

Format the output as a JSON object with the following structure:
{
  "nodes": [
    {"id": "1", "label": "%s", "type": "main"},
    {"id": "2", "label": "Related Concept 1", "type": "related"}
  ],
  "edges": [
    {"from": "1", "to": "2", "label": "relationship description"}
  ]
}

Content:
%s`

// fallbackConceptMap carries only the main concept as a single node.
func fallbackConceptMap(mainConcept string) *ConceptMap {
	return &ConceptMap{
		Nodes:  []Node{{ID: "1", Label: mainConcept, Type: "main"}},
		Edges:  []Edge{},
		Status: parse.StatusFailed,
	}
}

// GenerateConceptMap generates a graph of concepts related to mainConcept
// from the given content.
func (s *Service) GenerateConceptMap(ctx context.Context, content, mainConcept string) (*ConceptMap, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if mainConcept == "" {
		return nil, fmt.Errorf("main concept must not be empty")
	}

	prompt := fmt.Sprintf(conceptMapPrompt, mainConcept, mainConcept, mainConcept, truncate(content, contentLimit))
	response, err := s.generator.Generate(ctx, prompt, llm.GenerateParams{Temperature: generationTemperature})
	if err != nil {
		return nil, fmt.Errorf("failed to generate concept map: %w", err)
	}

	if span, ok := parse.ExtractObject(response); ok {
		var graph ConceptMap
		if err := parse.Decode(span, conceptMapSchema, &graph); err == nil && len(graph.Nodes) > 0 {
			graph.Status = parse.StatusParsed
			return &graph, nil
		}
		logger.WarnContext(ctx, "concept map JSON rejected", "error", err)
	}

	logger.WarnContext(ctx, "concept map output unparseable, returning fallback", "main_concept", mainConcept)
	return fallbackConceptMap(mainConcept), nil
}
