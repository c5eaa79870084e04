package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"

	"github.com/cardy/cardy/internal/logger"
	"github.com/cardy/cardy/internal/models"
	"github.com/cardy/cardy/internal/repository"
)

type statsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new StatsRepository implementation
func NewStatsRepository(db *sql.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) GetUserStats(ctx context.Context, userID string) (*models.UserStats, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("getting user stats: user_id=%s", userID)

	var s models.UserStats
	var lastStudy sql.NullTime
	err := r.db.QueryRowContext(ctx, `
SELECT user_id, total_cards, cards_learned, streak, last_study_date, accuracy
FROM user_stats
WHERE user_id = ?
`, userID).Scan(&s.UserID, &s.TotalCards, &s.CardsLearned, &s.Streak, &lastStudy, &s.Accuracy)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get user stats: %v", err)
		return nil, err
	}
	s.LastStudyDate = timePtr(lastStudy)
	return &s, nil
}

func (r *statsRepository) PutUserStats(ctx context.Context, s models.UserStats) error {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("putting user stats: user_id=%s, streak=%d", s.UserID, s.Streak)

	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		return upsertUserStats(ctx, tx, s)
	})
	if err != nil {
		log.Error("failed to put user stats: %v", err)
	}
	return err
}

func (r *statsRepository) InsertSession(ctx context.Context, s models.StudySession) error {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("inserting study session: id=%s, deck_id=%s", s.ID, s.DeckID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO study_sessions (id, user_id, deck_id, started_at, ended_at, cards_studied, correct_answers)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, s.ID, s.UserID, s.DeckID, s.StartedAt, nullTime(s.EndedAt), s.CardsStudied, s.CorrectAnswers)
	if err != nil {
		log.Error("failed to insert study session: %v", err)
	}
	return err
}

func (r *statsRepository) ListSessions(ctx context.Context, filter models.SessionFilter) ([]models.StudySession, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("listing sessions: user_id=%s, deck_id=%s", filter.UserID, filter.DeckID)

	query := sqlBuilder.
		Select("id", "user_id", "deck_id", "started_at", "ended_at", "cards_studied", "correct_answers").
		From("study_sessions").
		OrderBy("started_at DESC")

	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"user_id": filter.UserID})
	}
	if filter.DeckID != "" {
		query = query.Where(squirrel.Eq{"deck_id": filter.DeckID})
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	query = query.Limit(uint64(limit))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list sessions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var sessions []models.StudySession
	for rows.Next() {
		var s models.StudySession
		var ended sql.NullTime
		if err := rows.Scan(&s.ID, &s.UserID, &s.DeckID, &s.StartedAt, &ended, &s.CardsStudied, &s.CorrectAnswers); err != nil {
			return nil, err
		}
		s.EndedAt = timePtr(ended)
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *statsRepository) Summary(ctx context.Context, userID string) (*models.StudySummary, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("computing study summary: user_id=%s", userID)

	var sum models.StudySummary
	var totalMinutes sql.NullFloat64
	err := r.db.QueryRowContext(ctx, `
SELECT
    COUNT(*) AS total_sessions,
    COALESCE(SUM(cards_studied), 0) AS total_cards,
    COALESCE(SUM(correct_answers), 0) AS total_correct,
    SUM((strftime('%s', ended_at) - strftime('%s', started_at)) / 60.0) AS total_minutes
FROM study_sessions
WHERE user_id = ? AND ended_at IS NOT NULL
`, userID).Scan(&sum.TotalSessions, &sum.TotalCardsStudied, &sum.TotalCorrectAnswers, &totalMinutes)
	if err != nil {
		log.Error("failed to compute summary: %v", err)
		return nil, err
	}

	if totalMinutes.Valid {
		sum.TotalStudyMinutes = totalMinutes.Float64
	}
	if sum.TotalCardsStudied > 0 {
		sum.Accuracy = 100.0 * float64(sum.TotalCorrectAnswers) / float64(sum.TotalCardsStudied)
	}
	if sum.TotalSessions > 0 {
		sum.AvgSessionMinutes = sum.TotalStudyMinutes / float64(sum.TotalSessions)
	}
	return &sum, nil
}

func upsertUserStats(ctx context.Context, tx *sql.Tx, s models.UserStats) error {
	_, err := tx.ExecContext(ctx, `
INSERT INTO user_stats (user_id, total_cards, cards_learned, streak, last_study_date, accuracy)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
    total_cards = excluded.total_cards,
    cards_learned = excluded.cards_learned,
    streak = excluded.streak,
    last_study_date = excluded.last_study_date,
    accuracy = excluded.accuracy
`, s.UserID, s.TotalCards, s.CardsLearned, s.Streak, nullTime(s.LastStudyDate), s.Accuracy)
	return err
}
