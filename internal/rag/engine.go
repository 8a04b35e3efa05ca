// Package rag implements retrieval-augmented generation: embed the query,
// retrieve the nearest chunks, and ground the model's answer in them.
package rag

import (
	"context"
	"fmt"
	"strings"

	"studymate/internal/contextutil"
	"studymate/internal/llm"
	"studymate/internal/vectorstore"
)

const (
	// defaultResults is used when the caller does not request a result count.
	defaultResults = 3
	// maxResults caps the retrievable chunk count per query.
	maxResults = 20

	// answerTemperature keeps grounded answers determinism-leaning.
	answerTemperature = 0.3
)

const answerPrompt = `Context information is below.
---------------------
%s
---------------------
Given the context information and not prior knowledge, answer the query.
Query: %s
Answer:`

const citedAnswerPrompt = `Context information is below.
---------------------
%s
---------------------
Given the context information and not prior knowledge, answer the query and cite your sources.
Query: %s
Answer (include [Source X] citations):`

// noContextAnswer is returned without calling the model when retrieval
// yields nothing to ground an answer on.
const noContextAnswer = "I couldn't find any relevant information in your documents to answer this question."

// Engine answers queries grounded in previously ingested documents.
type Engine interface {
	// Retrieve returns up to n chunks relevant to the query, ordered by
	// ascending distance (lower = more similar).
	Retrieve(ctx context.Context, query string, n int) ([]Retrieved, error)
	// GenerateResponse answers the query grounded in retrieved context and
	// returns the answer together with that context.
	GenerateResponse(ctx context.Context, query string, n int) (*Answer, error)
	// AnswerWithSources answers the query with source citations and returns
	// the answer together with the cited sources.
	AnswerWithSources(ctx context.Context, query string, n int) (*Answer, error)
}

// engine implements the Engine interface.
type engine struct {
	embedder    llm.Embedder
	vectorStore vectorstore.VectorStore
	collection  string
	generator   llm.Generator
}

// NewEngine creates a new RAG engine over the given collection.
func NewEngine(
	embedder llm.Embedder,
	vectorStore vectorstore.VectorStore,
	collection string,
	generator llm.Generator,
) Engine {
	return &engine{
		embedder:    embedder,
		vectorStore: vectorStore,
		collection:  collection,
		generator:   generator,
	}
}

// Retrieve embeds the query and runs a nearest-neighbor search. Results come
// back ascending by distance; ties keep the store's native order.
func (e *engine) Retrieve(ctx context.Context, query string, n int) ([]Retrieved, error) {
	logger := contextutil.LoggerFromContext(ctx)

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query must not be empty")
	}

	if n <= 0 {
		n = defaultResults
	}
	if n > maxResults {
		n = maxResults
	}

	embeddings, err := e.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned for query")
	}

	results, err := e.vectorStore.Search(ctx, e.collection, embeddings[0], n)
	if err != nil {
		return nil, fmt.Errorf("failed to search vector store: %w", err)
	}

	retrieved := make([]Retrieved, 0, len(results))
	for _, r := range results {
		retrieved = append(retrieved, Retrieved{
			ID:       r.ID,
			Text:     r.Text,
			Distance: r.Distance,
			Meta:     r.Meta,
		})
	}

	logger.InfoContext(ctx, "retrieval completed",
		"collection", e.collection, "requested", n, "results", len(retrieved))
	return retrieved, nil
}

// GenerateResponse retrieves context and generates a grounded answer. The
// grounding is a prompt-level instruction, not enforced.
func (e *engine) GenerateResponse(ctx context.Context, query string, n int) (*Answer, error) {
	logger := contextutil.LoggerFromContext(ctx)

	retrieved, err := e.Retrieve(ctx, query, n)
	if err != nil {
		return nil, err
	}
	if len(retrieved) == 0 {
		logger.InfoContext(ctx, "no context retrieved", "query", query)
		return &Answer{Response: noContextAnswer, Context: []Retrieved{}}, nil
	}

	parts := make([]string, len(retrieved))
	for i, doc := range retrieved {
		parts[i] = doc.Text
	}
	contextText := strings.Join(parts, "\n\n")

	prompt := fmt.Sprintf(answerPrompt, contextText, query)
	response, err := e.generator.Generate(ctx, prompt, llm.GenerateParams{
		Temperature: answerTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate response: %w", err)
	}

	logger.InfoContext(ctx, "generated grounded response",
		"query", query, "context_chunks", len(retrieved), "answer_length", len(response))

	return &Answer{Response: response, Context: retrieved}, nil
}

// AnswerWithSources retrieves context, labels each chunk with a Source N
// annotation, and asks the model for an answer with citations.
func (e *engine) AnswerWithSources(ctx context.Context, query string, n int) (*Answer, error) {
	logger := contextutil.LoggerFromContext(ctx)

	retrieved, err := e.Retrieve(ctx, query, n)
	if err != nil {
		return nil, err
	}
	if len(retrieved) == 0 {
		logger.InfoContext(ctx, "no context retrieved", "query", query)
		return &Answer{Response: noContextAnswer, Sources: []Source{}}, nil
	}

	parts := make([]string, len(retrieved))
	for i, doc := range retrieved {
		source := "Unknown"
		if s, ok := doc.Meta["source"].(string); ok && s != "" {
			source = s
		}
		parts[i] = fmt.Sprintf("%s\nSource %d: %s", doc.Text, i+1, source)
	}
	contextText := strings.Join(parts, "\n\n")

	prompt := fmt.Sprintf(citedAnswerPrompt, contextText, query)
	response, err := e.generator.Generate(ctx, prompt, llm.GenerateParams{
		Temperature: answerTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate response: %w", err)
	}

	sources := make([]Source, len(retrieved))
	for i, doc := range retrieved {
		sources[i] = Source{ID: doc.ID, Meta: doc.Meta}
	}

	logger.InfoContext(ctx, "generated cited response",
		"query", query, "sources", len(sources), "answer_length", len(response))

	return &Answer{Response: response, Sources: sources}, nil
}
