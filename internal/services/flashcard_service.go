package services

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"

	"github.com/cardy/cardy/internal/errors"
	"github.com/cardy/cardy/internal/logger"
	"github.com/cardy/cardy/internal/models"
	"github.com/cardy/cardy/internal/repository"
	"github.com/cardy/cardy/internal/scheduler"
)

// FlashcardService handles flashcard business logic, including review
// scheduling.
type FlashcardService interface {
	CreateFlashcard(ctx context.Context, input models.Flashcard) (*models.Flashcard, error)
	GetFlashcard(ctx context.Context, id string) (*models.Flashcard, error)
	ListFlashcards(ctx context.Context, filter models.FlashcardFilter) ([]models.Flashcard, error)
	UpdateFlashcard(ctx context.Context, id string, input models.Flashcard) (*models.Flashcard, error)
	DeleteFlashcard(ctx context.Context, id string) error

	// DueFlashcards returns at most limit cards from the user's pool that
	// are due at asOf, never-studied cards first.
	DueFlashcards(ctx context.Context, userID, deckID string, limit int, asOf time.Time) ([]models.Flashcard, error)

	// ReviewFlashcard records a difficulty rating for a card, advancing its
	// review schedule and the owner's stats in one step.
	ReviewFlashcard(ctx context.Context, id, rating string, observedAt time.Time) (*models.Flashcard, error)
}

type flashcardService struct {
	cards  repository.FlashcardRepository
	decks  repository.DeckRepository
	stats  repository.StatsRepository
	policy scheduler.IntervalPolicy
	now    func() time.Time
}

// NewFlashcardService creates a new FlashcardService
func NewFlashcardService(cards repository.FlashcardRepository, decks repository.DeckRepository, stats repository.StatsRepository, policy scheduler.IntervalPolicy) FlashcardService {
	return &flashcardService{
		cards:  cards,
		decks:  decks,
		stats:  stats,
		policy: policy,
		now:    time.Now,
	}
}

func (s *flashcardService) CreateFlashcard(ctx context.Context, input models.Flashcard) (*models.Flashcard, error) {
	log := logger.FromContext(ctx)

	if input.Front == "" {
		return nil, errors.NewValidationError("front", "must not be empty")
	}
	if input.Difficulty != "" {
		if _, err := scheduler.ParseRating(input.Difficulty); err != nil {
			return nil, err
		}
	}
	deck, err := s.decks.Get(ctx, input.DeckID)
	if err != nil {
		return nil, errors.NewUnavailableError(err)
	}
	if deck == nil {
		return nil, errors.NewNotFoundError("deck", input.DeckID)
	}

	now := s.now().UTC()
	card := models.Flashcard{
		ID:         uuid.NewString(),
		DeckID:     input.DeckID,
		Front:      input.Front,
		Back:       input.Back,
		Difficulty: input.Difficulty,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.cards.Insert(ctx, card); err != nil {
		log.Error("failed to create flashcard: %v", err)
		return nil, errors.NewUnavailableError(err)
	}
	log.Debug("flashcard created: id=%s, deck=%s", card.ID, card.DeckID)
	return &card, nil
}

func (s *flashcardService) GetFlashcard(ctx context.Context, id string) (*models.Flashcard, error) {
	card, err := s.cards.Get(ctx, id)
	if err != nil {
		return nil, errors.NewUnavailableError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("flashcard", id)
	}
	return card, nil
}

func (s *flashcardService) ListFlashcards(ctx context.Context, filter models.FlashcardFilter) ([]models.Flashcard, error) {
	cards, err := s.cards.List(ctx, filter)
	if err != nil {
		return nil, errors.NewUnavailableError(err)
	}
	return cards, nil
}

func (s *flashcardService) UpdateFlashcard(ctx context.Context, id string, input models.Flashcard) (*models.Flashcard, error) {
	card, err := s.GetFlashcard(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Front != "" {
		card.Front = input.Front
	}
	card.Back = input.Back
	if input.Difficulty != "" {
		if _, err := scheduler.ParseRating(input.Difficulty); err != nil {
			return nil, err
		}
		card.Difficulty = input.Difficulty
	}
	card.UpdatedAt = s.now().UTC()

	if err := s.cards.Update(ctx, *card); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NewNotFoundError("flashcard", id)
		}
		return nil, errors.NewUnavailableError(err)
	}
	return card, nil
}

func (s *flashcardService) DeleteFlashcard(ctx context.Context, id string) error {
	if err := s.cards.Delete(ctx, id); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return errors.NewNotFoundError("flashcard", id)
		}
		return errors.NewUnavailableError(err)
	}
	return nil
}

func (s *flashcardService) DueFlashcards(ctx context.Context, userID, deckID string, limit int, asOf time.Time) ([]models.Flashcard, error) {
	pool, err := s.cards.List(ctx, models.FlashcardFilter{UserID: userID, DeckID: deckID})
	if err != nil {
		return nil, errors.NewUnavailableError(err)
	}
	return scheduler.SelectDue(pool, limit, asOf), nil
}

func (s *flashcardService) ReviewFlashcard(ctx context.Context, id, rating string, observedAt time.Time) (*models.Flashcard, error) {
	log := logger.FromContext(ctx)

	r, err := scheduler.ParseRating(rating)
	if err != nil {
		return nil, err
	}
	card, err := s.GetFlashcard(ctx, id)
	if err != nil {
		return nil, err
	}
	deck, err := s.decks.Get(ctx, card.DeckID)
	if err != nil {
		return nil, errors.NewUnavailableError(err)
	}
	if deck == nil {
		return nil, errors.NewNotFoundError("deck", card.DeckID)
	}

	updated := scheduler.ApplyReview(*card, r, observedAt, s.policy)

	stats, err := s.stats.GetUserStats(ctx, deck.UserID)
	if err != nil {
		return nil, errors.NewUnavailableError(err)
	}
	if stats == nil {
		stats = &models.UserStats{UserID: deck.UserID}
	}
	rollup := mergeReview(*stats, r != scheduler.RatingHard)

	if err := s.cards.UpdateReview(ctx, updated, rollup); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NewNotFoundError("flashcard", id)
		}
		log.Error("failed to record review: %v", err)
		return nil, errors.NewUnavailableError(err)
	}
	log.Debug("review recorded: card=%s, rating=%s, next=%s", id, r, updated.NextReviewAt.Format(time.RFC3339))
	return &updated, nil
}

// mergeReview folds one review into the running stats. Accuracy is a running
// average over reviews, weighted by the prior review count; easy and medium
// count as correct. The streak is only advanced by session recording, not by
// individual reviews.
func mergeReview(stats models.UserStats, correct bool) models.UserStats {
	score := 0.0
	if correct {
		score = 100.0
	}
	n := float64(stats.CardsLearned)
	stats.Accuracy = (stats.Accuracy*n + score) / (n + 1)
	stats.CardsLearned++
	return stats
}
