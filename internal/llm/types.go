package llm

import "context"

// Message represents a single message in a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerateParams holds sampling parameters for single-prompt generation.
type GenerateParams struct {
	// Temperature controls randomness in [0,1]; higher = more random.
	// Zero value means the API default (0.7).
	Temperature float32

	// MaxTokens caps the number of generated tokens. 0 means no explicit cap.
	MaxTokens int

	// TopK samples from the top k likely tokens. 0 means the API default.
	TopK int

	// TopP samples from tokens comprising the top p probability mass.
	// 0 means the API default.
	TopP float32
}

// ChatParams holds parameters for chat completion requests.
type ChatParams struct {
	// Model overrides the client's default model when non-empty.
	Model string

	// MaxTokens caps the number of generated tokens. 0 means no cap.
	MaxTokens int

	// Temperature controls the randomness of the output.
	Temperature float32
}

// Generator is the text-generation capability consumed by the RAG engine and
// the study-content generators.
type Generator interface {
	Generate(ctx context.Context, prompt string, params GenerateParams) (string, error)
	ChatWithMessages(ctx context.Context, messages []Message, params ChatParams) (string, error)
}

// Embedder converts text to fixed-length vectors.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
