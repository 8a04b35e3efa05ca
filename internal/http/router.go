// Package http wires the API routes and middleware.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"studymate/internal/analytics"
	"studymate/internal/handlers"
	"studymate/internal/ingest"
	"studymate/internal/rag"
	"studymate/internal/review"
	"studymate/internal/session"
	"studymate/internal/storage"
	"studymate/internal/study"
	"studymate/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Pipeline    *ingest.Pipeline
	DocRepo     storage.DocumentStore
	Engine      rag.Engine
	Study       *study.Service
	Tracker     *analytics.Tracker
	Feedback    *review.FeedbackSystem
	Sessions    *session.Manager
	VectorStore vectorstore.VectorStore
	Collection  string
}

// NewRouter creates the API router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	documents := handlers.NewDocumentsHandler(deps.Pipeline, deps.DocRepo)
	ask := handlers.NewAskHandler(deps.Engine, deps.Sessions)
	studyHandler := handlers.NewStudyHandler(deps.Study, deps.DocRepo)
	analyticsHandler := handlers.NewAnalyticsHandler(deps.Tracker)
	reviewHandler := handlers.NewReviewHandler(deps.Feedback)
	sessions := handlers.NewSessionsHandler(deps.Sessions)
	health := handlers.NewHealthHandler(deps.VectorStore, deps.Collection)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", health)

		r.Route("/documents", func(r chi.Router) {
			r.Post("/", documents.Upload)
			r.Get("/", documents.List)
			r.Get("/{id}", documents.Get)
		})

		r.Method(http.MethodPost, "/ask", ask)

		r.Route("/study", func(r chi.Router) {
			r.Post("/quiz", studyHandler.Quiz)
			r.Post("/flashcards", studyHandler.Flashcards)
			r.Post("/summary", studyHandler.Summary)
			r.Post("/guide", studyHandler.StudyGuide)
			r.Post("/concept-map", studyHandler.ConceptMap)
			r.Post("/pronunciation", studyHandler.Pronunciation)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Post("/sessions", analyticsHandler.RecordStudySession)
			r.Post("/quizzes", analyticsHandler.RecordQuizResult)
			r.Get("/report", analyticsHandler.Report)
		})

		r.Route("/review", func(r chi.Router) {
			r.Post("/submissions", reviewHandler.Submit)
			r.Get("/submissions", reviewHandler.List)
			r.Get("/submissions/{id}", reviewHandler.Get)
			r.Post("/submissions/{id}/reviews", reviewHandler.AddReview)
			r.Get("/submissions/{id}/summary", reviewHandler.Summary)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessions.Create)
			r.Get("/{id}", sessions.Get)
			r.Put("/{id}/document", sessions.SetDocument)
			r.Delete("/{id}", sessions.Close)
		})
	})

	return r
}
