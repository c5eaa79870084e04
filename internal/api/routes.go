package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/daily", s.handleDailyCards)
		r.Get("/daily/{date}", s.handleDailyCardsForDate)
		r.Post("/daily/refresh", s.handleRefreshDailyCards)
		r.Get("/cards/{suit}/{rank}", s.handleCardDefinition)
		r.Get("/decks/public", s.handlePublicDecks)

		r.Group(func(r chi.Router) {
			r.Use(s.userMiddleware)

			r.Get("/decks", s.handleListDecks)
			r.Post("/decks", s.handleCreateDeck)
			r.Get("/decks/{id}", s.handleGetDeck)
			r.Put("/decks/{id}", s.handleUpdateDeck)
			r.Delete("/decks/{id}", s.handleDeleteDeck)

			r.Get("/flashcards", s.handleListFlashcards)
			r.Post("/flashcards", s.handleCreateFlashcard)
			r.Get("/flashcards/due", s.handleDueFlashcards)
			r.Get("/flashcards/{id}", s.handleGetFlashcard)
			r.Put("/flashcards/{id}", s.handleUpdateFlashcard)
			r.Delete("/flashcards/{id}", s.handleDeleteFlashcard)
			r.Post("/flashcards/{id}/review", s.handleReviewFlashcard)

			r.Get("/sessions", s.handleListSessions)
			r.Post("/sessions", s.handleRecordSession)
			r.Get("/stats", s.handleUserStats)
			r.Get("/stats/summary", s.handleStudySummary)
		})
	})

	return r
}
