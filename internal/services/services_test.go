package services_test

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardy/cardy/internal/errors"
	"github.com/cardy/cardy/internal/kv"
	"github.com/cardy/cardy/internal/models"
	"github.com/cardy/cardy/internal/repository/kvstore"
	"github.com/cardy/cardy/internal/scheduler"
	"github.com/cardy/cardy/internal/services"
)

type env struct {
	deckSvc  services.DeckService
	cardSvc  services.FlashcardService
	statsSvc services.StatsService
	seedSvc  services.SeedService
}

func newEnv() *env {
	return newEnvWith(kv.NewMemoryStore())
}

func newEnvWith(store kv.Store) *env {
	decks := kvstore.NewDeckRepository(store)
	cards := kvstore.NewFlashcardRepository(store)
	stats := kvstore.NewStatsRepository(store)
	return &env{
		deckSvc:  services.NewDeckService(decks),
		cardSvc:  services.NewFlashcardService(cards, decks, stats, scheduler.FixedIntervals{}),
		statsSvc: services.NewStatsService(stats, cards),
		seedSvc:  services.NewSeedService(decks, cards, stats),
	}
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok, "expected *errors.AppError, got %T", err)
	return appErr.Status
}

func TestCreateDeck_DefaultTitle(t *testing.T) {
	ctx := context.Background()
	e := newEnv()

	deck, err := e.deckSvc.CreateDeck(ctx, "u1", models.Deck{})
	require.NoError(t, err)
	assert.Equal(t, "Untitled Deck", deck.Title)
	assert.Equal(t, "u1", deck.UserID)
	assert.NotEmpty(t, deck.ID)
}

func TestGetDeck_NotFound(t *testing.T) {
	e := newEnv()
	_, err := e.deckSvc.GetDeck(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, 404, statusOf(t, err))
}

func TestDeleteDeck_RemovesCards(t *testing.T) {
	ctx := context.Background()
	e := newEnv()

	deck, err := e.deckSvc.CreateDeck(ctx, "u1", models.Deck{Title: "D"})
	require.NoError(t, err)
	card, err := e.cardSvc.CreateFlashcard(ctx, models.Flashcard{DeckID: deck.ID, Front: "f"})
	require.NoError(t, err)

	require.NoError(t, e.deckSvc.DeleteDeck(ctx, deck.ID))

	_, err = e.cardSvc.GetFlashcard(ctx, card.ID)
	assert.Equal(t, 404, statusOf(t, err))
}

func TestCreateFlashcard_DeckMustExist(t *testing.T) {
	e := newEnv()
	_, err := e.cardSvc.CreateFlashcard(context.Background(), models.Flashcard{DeckID: "ghost", Front: "f"})
	require.Error(t, err)
	assert.Equal(t, 404, statusOf(t, err))
}

func TestCreateFlashcard_UpdatesDeckCount(t *testing.T) {
	ctx := context.Background()
	e := newEnv()

	deck, err := e.deckSvc.CreateDeck(ctx, "u1", models.Deck{Title: "D"})
	require.NoError(t, err)
	_, err = e.cardSvc.CreateFlashcard(ctx, models.Flashcard{DeckID: deck.ID, Front: "a"})
	require.NoError(t, err)
	_, err = e.cardSvc.CreateFlashcard(ctx, models.Flashcard{DeckID: deck.ID, Front: "b"})
	require.NoError(t, err)

	got, err := e.deckSvc.GetDeck(ctx, deck.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.CardCount)
}

func TestReviewFlashcard(t *testing.T) {
	ctx := context.Background()
	e := newEnv()

	deck, err := e.deckSvc.CreateDeck(ctx, "u1", models.Deck{Title: "D"})
	require.NoError(t, err)
	card, err := e.cardSvc.CreateFlashcard(ctx, models.Flashcard{DeckID: deck.ID, Front: "f"})
	require.NoError(t, err)

	observed := time.Date(2025, 4, 11, 9, 0, 0, 0, time.UTC)
	reviewed, err := e.cardSvc.ReviewFlashcard(ctx, card.ID, "medium", observed)
	require.NoError(t, err)

	assert.Equal(t, "medium", reviewed.Difficulty)
	require.NotNil(t, reviewed.NextReviewAt)
	assert.Equal(t, time.Date(2025, 4, 14, 9, 0, 0, 0, time.UTC), *reviewed.NextReviewAt)

	// The review also advanced the owner's stats.
	stats, err := e.statsSvc.UserStats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CardsLearned)
	assert.Equal(t, 100.0, stats.Accuracy)
	assert.Equal(t, 0, stats.Streak, "reviews alone do not advance the streak")
}

func TestReviewFlashcard_HardCountsAsIncorrect(t *testing.T) {
	ctx := context.Background()
	e := newEnv()

	deck, err := e.deckSvc.CreateDeck(ctx, "u1", models.Deck{Title: "D"})
	require.NoError(t, err)
	c1, err := e.cardSvc.CreateFlashcard(ctx, models.Flashcard{DeckID: deck.ID, Front: "a"})
	require.NoError(t, err)
	c2, err := e.cardSvc.CreateFlashcard(ctx, models.Flashcard{DeckID: deck.ID, Front: "b"})
	require.NoError(t, err)

	observed := time.Date(2025, 4, 11, 9, 0, 0, 0, time.UTC)
	_, err = e.cardSvc.ReviewFlashcard(ctx, c1.ID, "easy", observed)
	require.NoError(t, err)
	_, err = e.cardSvc.ReviewFlashcard(ctx, c2.ID, "hard", observed)
	require.NoError(t, err)

	stats, err := e.statsSvc.UserStats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.CardsLearned)
	assert.InDelta(t, 50.0, stats.Accuracy, 0.001)
}

func TestReviewFlashcard_Errors(t *testing.T) {
	ctx := context.Background()
	e := newEnv()

	deck, err := e.deckSvc.CreateDeck(ctx, "u1", models.Deck{Title: "D"})
	require.NoError(t, err)
	card, err := e.cardSvc.CreateFlashcard(ctx, models.Flashcard{DeckID: deck.ID, Front: "f"})
	require.NoError(t, err)

	now := time.Now().UTC()
	_, err = e.cardSvc.ReviewFlashcard(ctx, card.ID, "impossible", now)
	require.Error(t, err)
	assert.Equal(t, 400, statusOf(t, err))

	_, err = e.cardSvc.ReviewFlashcard(ctx, "ghost", "easy", now)
	require.Error(t, err)
	assert.Equal(t, 404, statusOf(t, err))
}

func TestDueFlashcards_Ordering(t *testing.T) {
	ctx := context.Background()
	e := newEnv()

	deck, err := e.deckSvc.CreateDeck(ctx, "u1", models.Deck{Title: "D"})
	require.NoError(t, err)

	first, err := e.cardSvc.CreateFlashcard(ctx, models.Flashcard{DeckID: deck.ID, Front: "first"})
	require.NoError(t, err)
	second, err := e.cardSvc.CreateFlashcard(ctx, models.Flashcard{DeckID: deck.ID, Front: "second"})
	require.NoError(t, err)

	// Review the first card with "hard": due again in a day.
	observed := time.Date(2025, 4, 11, 9, 0, 0, 0, time.UTC)
	_, err = e.cardSvc.ReviewFlashcard(ctx, first.ID, "hard", observed)
	require.NoError(t, err)

	asOf := observed.AddDate(0, 0, 2)
	due, err := e.cardSvc.DueFlashcards(ctx, "u1", "", 10, asOf)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, second.ID, due[0].ID, "never-studied card comes first")
	assert.Equal(t, first.ID, due[1].ID)

	// Before the hard interval elapses only the unseen card is due.
	due, err = e.cardSvc.DueFlashcards(ctx, "u1", "", 10, observed.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, second.ID, due[0].ID)
}

func TestRecordSession_StreakAndAccuracy(t *testing.T) {
	ctx := context.Background()
	e := newEnv()

	deck, err := e.deckSvc.CreateDeck(ctx, "u1", models.Deck{Title: "D"})
	require.NoError(t, err)

	session, err := e.statsSvc.RecordSession(ctx, models.StudySession{
		UserID:         "u1",
		DeckID:         deck.ID,
		CardsStudied:   10,
		CorrectAnswers: 8,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	require.NotNil(t, session.EndedAt)

	stats, err := e.statsSvc.UserStats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Streak, "first session starts the streak")
	assert.Equal(t, 10, stats.CardsLearned)
	assert.InDelta(t, 80.0, stats.Accuracy, 0.001)
	require.NotNil(t, stats.LastStudyDate)

	// A second session on the same day keeps the streak at 1.
	_, err = e.statsSvc.RecordSession(ctx, models.StudySession{
		UserID:       "u1",
		DeckID:       deck.ID,
		CardsStudied: 5, CorrectAnswers: 5,
	})
	require.NoError(t, err)
	stats, err = e.statsSvc.UserStats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Streak)
	assert.Equal(t, 15, stats.CardsLearned)
}

func TestRecordSession_Validation(t *testing.T) {
	ctx := context.Background()
	e := newEnv()

	_, err := e.statsSvc.RecordSession(ctx, models.StudySession{UserID: "u1", CardsStudied: -1})
	require.Error(t, err)
	assert.Equal(t, 400, statusOf(t, err))

	_, err = e.statsSvc.RecordSession(ctx, models.StudySession{UserID: "u1", CardsStudied: 2, CorrectAnswers: 3})
	require.Error(t, err)
	assert.Equal(t, 400, statusOf(t, err))
}

// brokenStore always errors, standing in for an unreachable backing store.
type brokenStore struct{}

func (brokenStore) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, stderrors.New("store offline")
}

func (brokenStore) Set(ctx context.Context, key string, value []byte) error {
	return stderrors.New("store offline")
}

func (brokenStore) Remove(ctx context.Context, key string) error {
	return stderrors.New("store offline")
}

func TestStoreOutage_SurfacesAsUnavailable(t *testing.T) {
	ctx := context.Background()
	e := newEnvWith(brokenStore{})

	_, err := e.deckSvc.ListDecks(ctx, "u1")
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, 503, appErr.Status, "unreachable store is recoverable, not a programming error")
	assert.Equal(t, errors.ErrCodeUnavailable, appErr.Code)

	_, err = e.cardSvc.CreateFlashcard(ctx, models.Flashcard{DeckID: "d1", Front: "f"})
	require.Error(t, err)
	assert.Equal(t, 503, statusOf(t, err))

	_, err = e.statsSvc.UserStats(ctx, "u1")
	require.Error(t, err)
	assert.Equal(t, 503, statusOf(t, err))

	err = e.seedSvc.EnsureSampleData(ctx, "u1")
	require.Error(t, err)
	assert.Equal(t, 503, statusOf(t, err))
}

func TestEnsureSampleData(t *testing.T) {
	ctx := context.Background()
	e := newEnv()

	require.NoError(t, e.seedSvc.EnsureSampleData(ctx, "u1"))

	decks, err := e.deckSvc.ListDecks(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, decks, 2)

	titles := []string{decks[0].Title, decks[1].Title}
	assert.Contains(t, titles, "Daily Affirmations")
	assert.Contains(t, titles, "Zodiac Signs")

	for _, d := range decks {
		assert.Greater(t, d.CardCount, 0, "seeded decks carry cards")
	}

	// Seeding again is a no-op.
	require.NoError(t, e.seedSvc.EnsureSampleData(ctx, "u1"))
	decks, err = e.deckSvc.ListDecks(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, decks, 2)
}
