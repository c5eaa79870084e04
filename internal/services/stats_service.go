package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cardy/cardy/internal/errors"
	"github.com/cardy/cardy/internal/logger"
	"github.com/cardy/cardy/internal/models"
	"github.com/cardy/cardy/internal/repository"
	"github.com/cardy/cardy/internal/scheduler"
)

// StatsService records study sessions and reports user statistics.
type StatsService interface {
	// RecordSession stores a finished study session and rolls its results
	// into the user's stats, advancing the streak.
	RecordSession(ctx context.Context, input models.StudySession) (*models.StudySession, error)
	UserStats(ctx context.Context, userID string) (*models.UserStats, error)
	Sessions(ctx context.Context, filter models.SessionFilter) ([]models.StudySession, error)
	Summary(ctx context.Context, userID string) (*models.StudySummary, error)
}

type statsService struct {
	stats repository.StatsRepository
	cards repository.FlashcardRepository
	now   func() time.Time
}

// NewStatsService creates a new StatsService
func NewStatsService(stats repository.StatsRepository, cards repository.FlashcardRepository) StatsService {
	return &statsService{stats: stats, cards: cards, now: time.Now}
}

func (s *statsService) RecordSession(ctx context.Context, input models.StudySession) (*models.StudySession, error) {
	log := logger.FromContext(ctx)

	if input.CardsStudied < 0 {
		return nil, errors.NewValidationError("cardsStudied", "must not be negative")
	}
	if input.CorrectAnswers < 0 || input.CorrectAnswers > input.CardsStudied {
		return nil, errors.NewValidationError("correctAnswers", "must be between 0 and cardsStudied")
	}

	now := s.now().UTC()
	session := input
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.StartedAt.IsZero() {
		session.StartedAt = now
	}
	if session.EndedAt == nil {
		ended := now
		session.EndedAt = &ended
	}

	if err := s.stats.InsertSession(ctx, session); err != nil {
		log.Error("failed to record session: %v", err)
		return nil, errors.NewUnavailableError(err)
	}

	if err := s.rollupSession(ctx, session, now); err != nil {
		return nil, err
	}
	log.Info("session recorded: id=%s, user=%s, studied=%d", session.ID, session.UserID, session.CardsStudied)
	return &session, nil
}

func (s *statsService) rollupSession(ctx context.Context, session models.StudySession, now time.Time) error {
	log := logger.FromContext(ctx)

	stats, err := s.stats.GetUserStats(ctx, session.UserID)
	if err != nil {
		return errors.NewUnavailableError(err)
	}
	if stats == nil {
		stats = &models.UserStats{UserID: session.UserID}
	}

	stats.Streak = scheduler.NextStreak(stats.Streak, stats.LastStudyDate, now)
	studied := now
	stats.LastStudyDate = &studied
	if session.CardsStudied > 0 {
		prev := float64(stats.CardsLearned)
		sessionAcc := 100.0 * float64(session.CorrectAnswers) / float64(session.CardsStudied)
		n := float64(session.CardsStudied)
		stats.Accuracy = (stats.Accuracy*prev + sessionAcc*n) / (prev + n)
		stats.CardsLearned += session.CardsStudied
	}

	if total, err := s.totalCards(ctx, session.UserID); err != nil {
		log.Warn("failed to count cards for stats rollup: %v", err)
	} else {
		stats.TotalCards = total
	}

	if err := s.stats.PutUserStats(ctx, *stats); err != nil {
		return errors.NewUnavailableError(err)
	}
	return nil
}

func (s *statsService) totalCards(ctx context.Context, userID string) (int, error) {
	cards, err := s.cards.List(ctx, models.FlashcardFilter{UserID: userID})
	if err != nil {
		return 0, err
	}
	return len(cards), nil
}

func (s *statsService) UserStats(ctx context.Context, userID string) (*models.UserStats, error) {
	stats, err := s.stats.GetUserStats(ctx, userID)
	if err != nil {
		return nil, errors.NewUnavailableError(err)
	}
	if stats == nil {
		return &models.UserStats{UserID: userID}, nil
	}
	return stats, nil
}

func (s *statsService) Sessions(ctx context.Context, filter models.SessionFilter) ([]models.StudySession, error) {
	sessions, err := s.stats.ListSessions(ctx, filter)
	if err != nil {
		return nil, errors.NewUnavailableError(err)
	}
	return sessions, nil
}

func (s *statsService) Summary(ctx context.Context, userID string) (*models.StudySummary, error) {
	sum, err := s.stats.Summary(ctx, userID)
	if err != nil {
		return nil, errors.NewUnavailableError(err)
	}
	return sum, nil
}
