package repository

import (
	"context"
	"errors"

	"github.com/cardy/cardy/internal/models"
)

// ErrNotFound is returned by mutating operations whose target record does
// not exist.
var ErrNotFound = errors.New("repository: not found")

// DeckRepository handles deck data access. Get returns (nil, nil) when the
// deck does not exist.
type DeckRepository interface {
	Insert(ctx context.Context, deck models.Deck) error
	Get(ctx context.Context, id string) (*models.Deck, error)
	ListByUser(ctx context.Context, userID string) ([]models.Deck, error)
	ListPublic(ctx context.Context, limit int) ([]models.Deck, error)
	Update(ctx context.Context, deck models.Deck) error
	Delete(ctx context.Context, id string) error
}

// FlashcardRepository handles flashcard data access. Insert and Delete keep
// the owning deck's card_count in step with the flashcards table. Get returns
// (nil, nil) when the card does not exist.
type FlashcardRepository interface {
	Insert(ctx context.Context, card models.Flashcard) error
	Get(ctx context.Context, id string) (*models.Flashcard, error)
	List(ctx context.Context, filter models.FlashcardFilter) ([]models.Flashcard, error)
	Update(ctx context.Context, card models.Flashcard) error
	Delete(ctx context.Context, id string) error

	// UpdateReview persists a reviewed flashcard together with the user's
	// updated aggregate stats as one atomic write: either both land or
	// neither does.
	UpdateReview(ctx context.Context, card models.Flashcard, stats models.UserStats) error
}

// StatsRepository handles user stats and study session data access.
// GetUserStats returns (nil, nil) when the user has no stats row yet.
type StatsRepository interface {
	GetUserStats(ctx context.Context, userID string) (*models.UserStats, error)
	PutUserStats(ctx context.Context, stats models.UserStats) error
	InsertSession(ctx context.Context, session models.StudySession) error
	ListSessions(ctx context.Context, filter models.SessionFilter) ([]models.StudySession, error)
	Summary(ctx context.Context, userID string) (*models.StudySummary, error)
}
