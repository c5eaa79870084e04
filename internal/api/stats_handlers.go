package api

import (
	"net/http"

	"github.com/cardy/cardy/internal/models"
)

func (s *Server) handleRecordSession(w http.ResponseWriter, r *http.Request) {
	var req recordSessionRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	session := models.StudySession{
		UserID:         userFromContext(r.Context()),
		DeckID:         req.DeckID,
		CardsStudied:   req.CardsStudied,
		CorrectAnswers: req.CorrectAnswers,
	}
	if req.StartedAt != nil {
		session.StartedAt = req.StartedAt.UTC()
	}
	if req.EndedAt != nil {
		ended := req.EndedAt.UTC()
		session.EndedAt = &ended
	}

	recorded, err := s.Stats.RecordSession(r.Context(), session)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, recorded)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.Stats.Sessions(r.Context(), models.SessionFilter{
		UserID: userFromContext(r.Context()),
		DeckID: r.URL.Query().Get("deckId"),
		Limit:  queryInt(r, "limit", 10),
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

func (s *Server) handleUserStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Stats.UserStats(r.Context(), userFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleStudySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.Stats.Summary(r.Context(), userFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}
