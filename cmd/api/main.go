package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"path/filepath"

	"studymate/internal/analytics"
	"studymate/internal/chunker"
	"studymate/internal/config"
	"studymate/internal/http"
	"studymate/internal/ingest"
	"studymate/internal/llm"
	"studymate/internal/rag"
	"studymate/internal/review"
	"studymate/internal/session"
	"studymate/internal/storage"
	"studymate/internal/study"
	"studymate/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	docRepo := storage.NewDocumentRepo(db)
	chunkRepo := storage.NewChunkRepo(db)

	ctx := context.Background()

	// Initialize vector store
	var vectorStore vectorstore.VectorStore
	if cfg.VectorBackend == "memory" {
		vectorStore = vectorstore.NewMemoryStore()
	} else {
		qdrant, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
		if err != nil {
			log.Fatalf("Failed to create Qdrant client: %v", err)
		}
		vectorStore = qdrant
	}

	// Ensure collection exists with correct vector size
	if err := vectorStore.EnsureCollection(ctx, cfg.Collection, cfg.VectorSize); err != nil {
		log.Fatalf("Failed to ensure vector collection: %v", err)
	}
	slog.Info("Vector collection ready", "backend", cfg.VectorBackend, "collection", cfg.Collection, "vector_size", cfg.VectorSize)

	// Validate embedding client vector size (fail-fast)
	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.VectorSize)
	testEmbeddings, err := embedder.EmbedTexts(ctx, []string{"test"})
	if err != nil {
		log.Fatalf("Failed to validate embedding client: %v", err)
	}
	if len(testEmbeddings) == 0 || len(testEmbeddings[0]) != cfg.VectorSize {
		log.Fatalf("Embedding vector size mismatch: expected %d, got %d", cfg.VectorSize, len(testEmbeddings[0]))
	}
	slog.Info("Embedding client validated", "vector_size", cfg.VectorSize)

	// Create ingestion pipeline
	splitter, err := chunker.New(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		log.Fatalf("Failed to create chunker: %v", err)
	}
	pipeline := ingest.NewPipeline(
		docRepo,
		chunkRepo,
		embedder,
		vectorStore,
		cfg.Collection,
		splitter,
	)

	// Create LLM client (external service layer)
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)

	// Create RAG engine
	ragEngine := rag.NewEngine(
		embedder,
		vectorStore,
		cfg.Collection,
		llmClient,
	)
	slog.Info("RAG engine initialized")

	// Create study, analytics, review, and session services
	studyService := study.NewService(llmClient)
	tracker, err := analytics.NewTracker(filepath.Join(cfg.DataDir, "analytics"))
	if err != nil {
		log.Fatalf("Failed to initialize study tracker: %v", err)
	}
	feedback, err := review.NewFeedbackSystem(filepath.Join(cfg.DataDir, "feedback"), llmClient)
	if err != nil {
		log.Fatalf("Failed to initialize feedback system: %v", err)
	}
	sessions := session.NewManager(0)

	// Create router with dependencies
	deps := &http.Deps{
		Pipeline:    pipeline,
		DocRepo:     docRepo,
		Engine:      ragEngine,
		Study:       studyService,
		Tracker:     tracker,
		Feedback:    feedback,
		Sessions:    sessions,
		VectorStore: vectorStore,
		Collection:  cfg.Collection,
	}
	router := http.NewRouter(deps)

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
