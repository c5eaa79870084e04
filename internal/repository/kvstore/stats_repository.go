package kvstore

import (
	"context"
	"sort"

	"github.com/cardy/cardy/internal/kv"
	"github.com/cardy/cardy/internal/models"
	"github.com/cardy/cardy/internal/repository"
)

type statsRepository struct {
	store kv.Store
}

// NewStatsRepository creates a StatsRepository over the key-value store.
func NewStatsRepository(store kv.Store) repository.StatsRepository {
	return &statsRepository{store: store}
}

func (r *statsRepository) GetUserStats(ctx context.Context, userID string) (*models.UserStats, error) {
	allStats := make(map[string]models.UserStats)
	if err := readJSON(ctx, r.store, userStatsKey, &allStats); err != nil {
		return nil, err
	}
	if s, ok := allStats[userID]; ok {
		return &s, nil
	}
	return nil, nil
}

func (r *statsRepository) PutUserStats(ctx context.Context, s models.UserStats) error {
	allStats := make(map[string]models.UserStats)
	if err := readJSON(ctx, r.store, userStatsKey, &allStats); err != nil {
		return err
	}
	allStats[s.UserID] = s
	return writeJSON(ctx, r.store, userStatsKey, allStats)
}

func (r *statsRepository) InsertSession(ctx context.Context, s models.StudySession) error {
	var sessions []models.StudySession
	if err := readJSON(ctx, r.store, sessionsKey, &sessions); err != nil {
		return err
	}
	sessions = append(sessions, s)
	return writeJSON(ctx, r.store, sessionsKey, sessions)
}

func (r *statsRepository) ListSessions(ctx context.Context, filter models.SessionFilter) ([]models.StudySession, error) {
	var sessions []models.StudySession
	if err := readJSON(ctx, r.store, sessionsKey, &sessions); err != nil {
		return nil, err
	}

	var out []models.StudySession
	for _, s := range sessions {
		if filter.UserID != "" && s.UserID != filter.UserID {
			continue
		}
		if filter.DeckID != "" && s.DeckID != filter.DeckID {
			continue
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *statsRepository) Summary(ctx context.Context, userID string) (*models.StudySummary, error) {
	var sessions []models.StudySession
	if err := readJSON(ctx, r.store, sessionsKey, &sessions); err != nil {
		return nil, err
	}

	var sum models.StudySummary
	for _, s := range sessions {
		if s.UserID != userID || s.EndedAt == nil {
			continue
		}
		sum.TotalSessions++
		sum.TotalCardsStudied += s.CardsStudied
		sum.TotalCorrectAnswers += s.CorrectAnswers
		sum.TotalStudyMinutes += s.EndedAt.Sub(s.StartedAt).Minutes()
	}
	if sum.TotalCardsStudied > 0 {
		sum.Accuracy = 100.0 * float64(sum.TotalCorrectAnswers) / float64(sum.TotalCardsStudied)
	}
	if sum.TotalSessions > 0 {
		sum.AvgSessionMinutes = sum.TotalStudyMinutes / float64(sum.TotalSessions)
	}
	return &sum, nil
}
