package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cardy/cardy/internal/logger"
	"github.com/cardy/cardy/internal/models"
)

func (s *Server) handleListFlashcards(w http.ResponseWriter, r *http.Request) {
	filter := models.FlashcardFilter{
		UserID:     userFromContext(r.Context()),
		DeckID:     r.URL.Query().Get("deckId"),
		Difficulty: r.URL.Query().Get("difficulty"),
		Limit:      queryInt(r, "limit", 0),
		Offset:     queryInt(r, "offset", 0),
	}
	cards, err := s.Flashcards.ListFlashcards(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"flashcards": cards})
}

func (s *Server) handleCreateFlashcard(w http.ResponseWriter, r *http.Request) {
	var req createFlashcardRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.Flashcards.CreateFlashcard(r.Context(), models.Flashcard{
		DeckID:     req.DeckID,
		Front:      req.Front,
		Back:       req.Back,
		Difficulty: req.Difficulty,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, card)
}

func (s *Server) handleGetFlashcard(w http.ResponseWriter, r *http.Request) {
	card, err := s.Flashcards.GetFlashcard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, card)
}

func (s *Server) handleUpdateFlashcard(w http.ResponseWriter, r *http.Request) {
	var req updateFlashcardRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.Flashcards.UpdateFlashcard(r.Context(), chi.URLParam(r, "id"), models.Flashcard{
		Front:      req.Front,
		Back:       req.Back,
		Difficulty: req.Difficulty,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, card)
}

func (s *Server) handleDeleteFlashcard(w http.ResponseWriter, r *http.Request) {
	if err := s.Flashcards.DeleteFlashcard(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDueFlashcards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	limit := queryInt(r, "limit", s.DueLimitDefault)
	cards, err := s.Flashcards.DueFlashcards(
		r.Context(),
		userFromContext(r.Context()),
		r.URL.Query().Get("deckId"),
		limit,
		time.Now().UTC(),
	)
	if err != nil {
		handleError(w, r, err)
		return
	}
	log.Debug("due cards selected: %d (limit %d)", len(cards), limit)
	respondJSON(w, http.StatusOK, map[string]any{"flashcards": cards})
}

func (s *Server) handleReviewFlashcard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req reviewRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	observedAt := time.Now().UTC()
	if req.ObservedAt != nil {
		observedAt = req.ObservedAt.UTC()
	}

	card, err := s.Flashcards.ReviewFlashcard(r.Context(), chi.URLParam(r, "id"), req.Rating, observedAt)
	if err != nil {
		handleError(w, r, err)
		return
	}
	log.Info("flashcard reviewed: id=%s, rating=%s", card.ID, req.Rating)
	respondJSON(w, http.StatusOK, card)
}
