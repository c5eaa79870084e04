package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cardy/cardy/internal/errors"
	"github.com/cardy/cardy/internal/logger"
	"github.com/cardy/cardy/internal/models"
	"github.com/cardy/cardy/internal/repository"
)

// SeedService populates a fresh installation with starter content.
type SeedService interface {
	// EnsureSampleData creates the starter decks for a user who has none.
	// It is a no-op when the user already owns at least one deck.
	EnsureSampleData(ctx context.Context, userID string) error
}

type seedService struct {
	decks repository.DeckRepository
	cards repository.FlashcardRepository
	stats repository.StatsRepository
	now   func() time.Time
}

// NewSeedService creates a new SeedService
func NewSeedService(decks repository.DeckRepository, cards repository.FlashcardRepository, stats repository.StatsRepository) SeedService {
	return &seedService{decks: decks, cards: cards, stats: stats, now: time.Now}
}

type seedCard struct {
	front, back, difficulty string
}

var affirmationCards = []seedCard{
	{"I am capable", "I have the skills and abilities to achieve my goals", "easy"},
	{"I am worthy", "I deserve love, respect, and good things in my life", "medium"},
	{"I am resilient", "I can overcome any challenge that comes my way", "medium"},
	{"I am grateful", "I appreciate the abundance in my life", "easy"},
	{"I am present", "I focus on the here and now, not the past or future", "hard"},
}

var zodiacCards = []seedCard{
	{"Aries (March 21 - April 19)", "Fire sign. Traits: Bold, ambitious, impulsive, passionate", "medium"},
	{"Taurus (April 20 - May 20)", "Earth sign. Traits: Reliable, patient, practical, devoted", "medium"},
	{"Gemini (May 21 - June 20)", "Air sign. Traits: Curious, adaptable, communicative, witty", "easy"},
}

func (s *seedService) EnsureSampleData(ctx context.Context, userID string) error {
	log := logger.FromContext(ctx)

	existing, err := s.decks.ListByUser(ctx, userID)
	if err != nil {
		return errors.NewUnavailableError(err)
	}
	if len(existing) > 0 {
		log.Debug("sample data skipped: user %s already has %d decks", userID, len(existing))
		return nil
	}

	now := s.now().UTC()
	affirmations := models.Deck{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       "Daily Affirmations",
		Description: "Positive affirmations to start your day",
		Tags:        []string{"personal", "growth"},
		IsPublic:    false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	zodiac := models.Deck{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       "Zodiac Signs",
		Description: "Learn about the 12 zodiac signs and their traits",
		Tags:        []string{"astrology", "learning"},
		IsPublic:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, deck := range []models.Deck{affirmations, zodiac} {
		if err := s.decks.Insert(ctx, deck); err != nil {
			return errors.NewUnavailableError(err)
		}
	}

	total := 0
	for _, set := range []struct {
		deckID string
		cards  []seedCard
	}{
		{affirmations.ID, affirmationCards},
		{zodiac.ID, zodiacCards},
	} {
		for _, c := range set.cards {
			card := models.Flashcard{
				ID:         uuid.NewString(),
				DeckID:     set.deckID,
				Front:      c.front,
				Back:       c.back,
				Difficulty: c.difficulty,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := s.cards.Insert(ctx, card); err != nil {
				return errors.NewUnavailableError(err)
			}
			total++
		}
	}

	if err := s.stats.PutUserStats(ctx, models.UserStats{
		UserID:     userID,
		TotalCards: total,
	}); err != nil {
		return errors.NewUnavailableError(err)
	}

	log.Info("sample data created: user=%s, decks=2, cards=%d", userID, total)
	return nil
}
