package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cardy/cardy/internal/errors"
	"github.com/cardy/cardy/internal/models"
)

func (s *Server) handleDailyCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.Daily.TodayCards(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"cards": cards})
}

func (s *Server) handleDailyCardsForDate(w http.ResponseWriter, r *http.Request) {
	cards, err := s.Daily.CardsForDate(r.Context(), chi.URLParam(r, "date"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"cards": cards})
}

func (s *Server) handleRefreshDailyCards(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}
	cards, err := s.Daily.RefreshCards(r.Context(), date)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"cards": cards})
}

func (s *Server) handleCardDefinition(w http.ResponseWriter, r *http.Request) {
	suit := models.Suit(chi.URLParam(r, "suit"))
	rank := models.Rank(chi.URLParam(r, "rank"))
	if !suit.Valid() {
		handleError(w, r, errors.NewValidationError("suit", "must be one of hearts, diamonds, clubs, spades"))
		return
	}
	if !rank.Valid() {
		handleError(w, r, errors.NewValidationError("rank", "must be ace, 2-10, jack, queen, or king"))
		return
	}

	card := models.Card{Suit: suit, Rank: rank}
	def, ok := s.Catalog.Definition(card)
	if !ok {
		handleError(w, r, errors.NewNotFoundError("card definition", string(rank)+" of "+string(suit)))
		return
	}

	// Resolve blessing/duty companions to their full definitions when the
	// catalog carries them. Companions without definitions stay name-only.
	payload := cardDefinitionResponse{CardDefinition: def}
	if blessing, ok := s.Catalog.DefinitionByName(def.BlessingCard); ok {
		payload.Blessing = &blessing
	}
	if duty, ok := s.Catalog.DefinitionByName(def.DutyCard); ok {
		payload.Duty = &duty
	}
	respondJSON(w, http.StatusOK, payload)
}

type cardDefinitionResponse struct {
	models.CardDefinition
	Blessing *models.CardDefinition `json:"blessing,omitempty"`
	Duty     *models.CardDefinition `json:"duty,omitempty"`
}
