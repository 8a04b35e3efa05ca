package rag

// Retrieved represents one chunk returned by a retrieval query, ranked by
// distance (lower = more similar). Lifetime is a single query.
type Retrieved struct {
	// ID is the chunk's vector store point ID.
	ID string `json:"id"`
	// Text is the chunk text.
	Text string `json:"text"`
	// Distance is the similarity distance to the query vector.
	Distance float32 `json:"distance"`
	// Meta is the metadata stored with the chunk (document_id, source, title, chunk_index).
	Meta map[string]any `json:"metadata"`
}

// Source identifies a chunk that contributed context to an answer.
type Source struct {
	// ID is the chunk's vector store point ID.
	ID string `json:"id"`
	// Meta is the chunk's stored metadata.
	Meta map[string]any `json:"metadata"`
}

// Answer is the result of a context-grounded generation.
type Answer struct {
	// Response is the generated answer text.
	Response string `json:"response"`
	// Context holds the retrieved chunks the answer was grounded on.
	// Populated by GenerateResponse.
	Context []Retrieved `json:"context,omitempty"`
	// Sources holds citation information for the retrieved chunks.
	// Populated by AnswerWithSources.
	Sources []Source `json:"sources,omitempty"`
}
