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

// DeckService handles deck-related business logic
type DeckService interface {
	CreateDeck(ctx context.Context, userID string, input models.Deck) (*models.Deck, error)
	GetDeck(ctx context.Context, id string) (*models.Deck, error)
	ListDecks(ctx context.Context, userID string) ([]models.Deck, error)
	ListPublicDecks(ctx context.Context, limit int) ([]models.Deck, error)
	UpdateDeck(ctx context.Context, id string, input models.Deck) (*models.Deck, error)
	DeleteDeck(ctx context.Context, id string) error
}

type deckService struct {
	decks repository.DeckRepository
	now   func() time.Time
}

// NewDeckService creates a new DeckService
func NewDeckService(decks repository.DeckRepository) DeckService {
	return &deckService{decks: decks, now: time.Now}
}

func (s *deckService) CreateDeck(ctx context.Context, userID string, input models.Deck) (*models.Deck, error) {
	log := logger.FromContext(ctx)

	title := input.Title
	if title == "" {
		title = "Untitled Deck"
	}
	now := s.now().UTC()
	deck := models.Deck{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       title,
		Description: input.Description,
		Tags:        input.Tags,
		IsPublic:    input.IsPublic,
		CardCount:   0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.decks.Insert(ctx, deck); err != nil {
		log.Error("failed to create deck: %v", err)
		return nil, errors.NewUnavailableError(err)
	}
	log.Info("deck created: id=%s, title=%q", deck.ID, deck.Title)
	return &deck, nil
}

func (s *deckService) GetDeck(ctx context.Context, id string) (*models.Deck, error) {
	deck, err := s.decks.Get(ctx, id)
	if err != nil {
		return nil, errors.NewUnavailableError(err)
	}
	if deck == nil {
		return nil, errors.NewNotFoundError("deck", id)
	}
	return deck, nil
}

func (s *deckService) ListDecks(ctx context.Context, userID string) ([]models.Deck, error) {
	decks, err := s.decks.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.NewUnavailableError(err)
	}
	return decks, nil
}

func (s *deckService) ListPublicDecks(ctx context.Context, limit int) ([]models.Deck, error) {
	decks, err := s.decks.ListPublic(ctx, limit)
	if err != nil {
		return nil, errors.NewUnavailableError(err)
	}
	return decks, nil
}

func (s *deckService) UpdateDeck(ctx context.Context, id string, input models.Deck) (*models.Deck, error) {
	log := logger.FromContext(ctx)

	deck, err := s.GetDeck(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != "" {
		deck.Title = input.Title
	}
	deck.Description = input.Description
	if input.Tags != nil {
		deck.Tags = input.Tags
	}
	deck.IsPublic = input.IsPublic
	deck.UpdatedAt = s.now().UTC()

	if err := s.decks.Update(ctx, *deck); err != nil {
		log.Error("failed to update deck: %v", err)
		return nil, errors.NewUnavailableError(err)
	}
	return deck, nil
}

func (s *deckService) DeleteDeck(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	if _, err := s.GetDeck(ctx, id); err != nil {
		return err
	}
	if err := s.decks.Delete(ctx, id); err != nil {
		log.Error("failed to delete deck: %v", err)
		return errors.NewUnavailableError(err)
	}
	log.Info("deck deleted: id=%s", id)
	return nil
}
