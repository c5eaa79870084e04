package scheduler_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardy/cardy/internal/models"
	"github.com/cardy/cardy/internal/scheduler"
)

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func tsp(s string) *time.Time {
	t := ts(s)
	return &t
}

func TestParseRating(t *testing.T) {
	for _, valid := range []string{"easy", "medium", "hard"} {
		r, err := scheduler.ParseRating(valid)
		require.NoError(t, err)
		assert.Equal(t, scheduler.Rating(valid), r)
	}

	_, err := scheduler.ParseRating("trivial")
	assert.Error(t, err)
	_, err = scheduler.ParseRating("")
	assert.Error(t, err)
	_, err = scheduler.ParseRating("Easy")
	assert.Error(t, err, "ratings are case-sensitive")
}

func TestApplyReview_Intervals(t *testing.T) {
	observed := ts("2025-04-11T09:00:00Z")
	card := models.Flashcard{ID: "c1"}

	tests := []struct {
		rating scheduler.Rating
		next   time.Time
	}{
		{scheduler.RatingEasy, ts("2025-04-18T09:00:00Z")},
		{scheduler.RatingMedium, ts("2025-04-14T09:00:00Z")},
		{scheduler.RatingHard, ts("2025-04-12T09:00:00Z")},
	}
	for _, tt := range tests {
		updated := scheduler.ApplyReview(card, tt.rating, observed, scheduler.FixedIntervals{})

		assert.Equal(t, string(tt.rating), updated.Difficulty)
		require.NotNil(t, updated.LastReviewedAt)
		assert.Equal(t, observed, *updated.LastReviewedAt)
		require.NotNil(t, updated.NextReviewAt)
		assert.Equal(t, tt.next, *updated.NextReviewAt, "rating %s", tt.rating)
	}
}

func TestApplyReview_DoesNotMutateInput(t *testing.T) {
	card := models.Flashcard{ID: "c1"}
	_ = scheduler.ApplyReview(card, scheduler.RatingEasy, ts("2025-04-11T09:00:00Z"), scheduler.FixedIntervals{})
	assert.Nil(t, card.LastReviewedAt)
	assert.Nil(t, card.NextReviewAt)
	assert.Empty(t, card.Difficulty)
}

func TestIsDue_NeverReviewed(t *testing.T) {
	card := models.Flashcard{ID: "c1"}
	assert.True(t, scheduler.IsDue(card, ts("2025-04-11T09:00:00Z")))
	assert.True(t, scheduler.IsDue(card, time.Time{}), "never-reviewed cards are due at any time")
}

func TestIsDue_Boundary(t *testing.T) {
	reviewed := scheduler.ApplyReview(models.Flashcard{ID: "c1"}, scheduler.RatingHard, ts("2025-04-11T09:00:00Z"), scheduler.FixedIntervals{})

	assert.False(t, scheduler.IsDue(reviewed, ts("2025-04-12T08:59:59Z")), "one second before nextReviewAt")
	assert.True(t, scheduler.IsDue(reviewed, ts("2025-04-12T09:00:00Z")), "exactly at nextReviewAt")
	assert.True(t, scheduler.IsDue(reviewed, ts("2025-04-13T09:00:00Z")))
}

func TestSelectDue_UnseenBeforeOverdue(t *testing.T) {
	asOf := ts("2025-04-20T12:00:00Z")
	pool := []models.Flashcard{
		{ID: "overdue-1", CreatedAt: ts("2025-01-01T00:00:00Z"), LastReviewedAt: tsp("2025-04-10T00:00:00Z"), NextReviewAt: tsp("2025-04-11T00:00:00Z")},
		{ID: "unseen-2", CreatedAt: ts("2025-02-01T00:00:00Z")},
		{ID: "future-1", CreatedAt: ts("2025-01-15T00:00:00Z"), LastReviewedAt: tsp("2025-04-19T00:00:00Z"), NextReviewAt: tsp("2025-04-26T00:00:00Z")},
		{ID: "unseen-1", CreatedAt: ts("2025-01-20T00:00:00Z")},
		{ID: "overdue-2", CreatedAt: ts("2025-03-01T00:00:00Z"), LastReviewedAt: tsp("2025-04-15T00:00:00Z"), NextReviewAt: tsp("2025-04-18T00:00:00Z")},
	}

	due := scheduler.SelectDue(pool, 3, asOf)

	require.Len(t, due, 3)
	assert.Equal(t, "unseen-1", due[0].ID, "never-studied cards come first, in creation order")
	assert.Equal(t, "unseen-2", due[1].ID)
	assert.Equal(t, "overdue-1", due[2].ID, "then overdue cards in creation order")
}

func TestSelectDue_LimitAndEmpty(t *testing.T) {
	asOf := ts("2025-04-20T12:00:00Z")
	pool := []models.Flashcard{
		{ID: "a", CreatedAt: ts("2025-01-01T00:00:00Z")},
		{ID: "b", CreatedAt: ts("2025-01-02T00:00:00Z")},
	}

	assert.Len(t, scheduler.SelectDue(pool, 1, asOf), 1)
	assert.Len(t, scheduler.SelectDue(pool, 10, asOf), 2)
	assert.Empty(t, scheduler.SelectDue(pool, 0, asOf))
	assert.Empty(t, scheduler.SelectDue(nil, 5, asOf))
}

func TestNextStreak(t *testing.T) {
	now := ts("2025-04-11T09:00:00Z")

	assert.Equal(t, 1, scheduler.NextStreak(0, nil, now), "first ever study day starts at 1")
	assert.Equal(t, 1, scheduler.NextStreak(5, nil, now), "missing last study date resets")

	sameDay := ts("2025-04-11T01:00:00Z")
	assert.Equal(t, 4, scheduler.NextStreak(4, &sameDay, now), "second study on the same day keeps the streak")

	yesterday := ts("2025-04-10T23:30:00Z")
	assert.Equal(t, 5, scheduler.NextStreak(4, &yesterday, now), "consecutive day extends the streak")

	twoDaysAgo := ts("2025-04-09T09:00:00Z")
	assert.Equal(t, 1, scheduler.NextStreak(4, &twoDaysAgo, now), "gap resets the streak")

	future := ts("2025-04-12T09:00:00Z")
	assert.Equal(t, 1, scheduler.NextStreak(4, &future, now), "clock skew does not extend the streak")
}

func TestNextStreak_UTCBoundary(t *testing.T) {
	// 23:30 UTC on the 10th and 00:30 UTC on the 11th are consecutive days
	// even though less than two hours apart.
	last := ts("2025-04-10T23:30:00Z")
	now := ts("2025-04-11T00:30:00Z")
	assert.Equal(t, 3, scheduler.NextStreak(2, &last, now))
}
