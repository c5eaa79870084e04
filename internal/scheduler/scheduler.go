// Package scheduler implements review timing for flashcards: a fixed
// rating-to-interval table, due classification, due-list selection, and the
// study streak rule. Everything here is a pure function of its inputs.
package scheduler

import (
	"sort"
	"time"

	"github.com/cardy/cardy/internal/errors"
	"github.com/cardy/cardy/internal/models"
)

// Rating is the user's difficulty classification after reviewing a card.
type Rating string

const (
	RatingEasy   Rating = "easy"
	RatingMedium Rating = "medium"
	RatingHard   Rating = "hard"
)

// ParseRating validates a rating string.
func ParseRating(s string) (Rating, error) {
	switch Rating(s) {
	case RatingEasy, RatingMedium, RatingHard:
		return Rating(s), nil
	}
	return "", errors.NewValidationError("rating", "must be one of easy, medium, hard")
}

// IntervalPolicy maps a rating to the delay before the next review. The
// scheduler only ever calls Interval, so an adaptive policy can be swapped in
// without touching callers.
type IntervalPolicy interface {
	Interval(r Rating) time.Duration
}

// FixedIntervals is the shipped policy: easy 7 days, medium 3 days, hard
// 1 day, always, regardless of review history.
type FixedIntervals struct{}

func (FixedIntervals) Interval(r Rating) time.Duration {
	switch r {
	case RatingEasy:
		return 7 * 24 * time.Hour
	case RatingHard:
		return 24 * time.Hour
	default:
		return 3 * 24 * time.Hour
	}
}

// ApplyReview returns the card with its review state advanced: difficulty
// recorded, lastReviewedAt set to observedAt, nextReviewAt pushed out by the
// policy interval.
func ApplyReview(card models.Flashcard, rating Rating, observedAt time.Time, policy IntervalPolicy) models.Flashcard {
	next := observedAt.Add(policy.Interval(rating))
	reviewed := observedAt
	card.Difficulty = string(rating)
	card.LastReviewedAt = &reviewed
	card.NextReviewAt = &next
	card.UpdatedAt = observedAt
	return card
}

// IsDue reports whether a card should be reviewed at asOf. A card that has
// never been reviewed is always due.
func IsDue(card models.Flashcard, asOf time.Time) bool {
	if card.LastReviewedAt == nil || card.NextReviewAt == nil {
		return true
	}
	return !asOf.Before(*card.NextReviewAt)
}

// SelectDue filters a pool down to at most limit due cards: never-reviewed
// cards first, then overdue cards, each group in creation order.
func SelectDue(pool []models.Flashcard, limit int, asOf time.Time) []models.Flashcard {
	if limit <= 0 {
		return nil
	}

	ordered := make([]models.Flashcard, len(pool))
	copy(ordered, pool)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	var due []models.Flashcard
	for _, c := range ordered {
		if c.LastReviewedAt == nil {
			due = append(due, c)
			if len(due) == limit {
				return due
			}
		}
	}
	for _, c := range ordered {
		if c.LastReviewedAt != nil && IsDue(c, asOf) {
			due = append(due, c)
			if len(due) == limit {
				return due
			}
		}
	}
	return due
}

// NextStreak computes the study streak after an activity at now, given the
// previous streak and last study time. Consecutive UTC calendar days extend
// the streak, a repeat on the same day keeps it, anything else resets to 1.
func NextStreak(current int, lastStudy *time.Time, now time.Time) int {
	if lastStudy == nil || current < 1 {
		return 1
	}
	last := calendarDay(*lastStudy)
	today := calendarDay(now)
	yesterday := calendarDay(now.AddDate(0, 0, -1))

	switch last {
	case today:
		return current
	case yesterday:
		return current + 1
	}
	return 1
}

func calendarDay(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
