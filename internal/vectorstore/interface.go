package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks studymate/internal/vectorstore VectorStore

import "context"

// Point represents a stored vector with its source text and metadata.
type Point struct {
	ID   string
	Vec  []float32
	Text string
	Meta map[string]any
}

// SearchResult represents one nearest-neighbor match. Distance is the store's
// similarity metric normalized so that lower means more similar; results are
// returned in non-decreasing Distance order. Ties keep store-native order,
// which is not deterministic across backends.
type SearchResult struct {
	ID       string
	Text     string
	Distance float32
	Meta     map[string]any
}

// VectorStore defines the interface for vector storage backends.
type VectorStore interface {
	// EnsureCollection creates the named collection with the given vector
	// size if it does not exist, and validates the size if it does.
	EnsureCollection(ctx context.Context, collection string, vectorSize int) error

	// Upsert inserts or updates points in the collection.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search returns up to k nearest neighbors of the query vector,
	// ordered by ascending distance.
	Search(ctx context.Context, collection string, query []float32, k int) ([]SearchResult, error)

	// Delete removes points by their IDs.
	Delete(ctx context.Context, collection string, ids []string) error

	// DeleteCollection removes the named collection entirely.
	DeleteCollection(ctx context.Context, collection string) error

	// ListCollections returns the names of all collections.
	ListCollections(ctx context.Context) ([]string, error)
}
