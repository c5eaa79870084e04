package kvstore

import (
	"context"
	"sort"

	"github.com/cardy/cardy/internal/kv"
	"github.com/cardy/cardy/internal/models"
	"github.com/cardy/cardy/internal/repository"
)

type flashcardRepository struct {
	store kv.Store
}

// NewFlashcardRepository creates a FlashcardRepository over the key-value store.
func NewFlashcardRepository(store kv.Store) repository.FlashcardRepository {
	return &flashcardRepository{store: store}
}

func (r *flashcardRepository) Insert(ctx context.Context, c models.Flashcard) error {
	var cards []models.Flashcard
	if err := readJSON(ctx, r.store, flashcardsKey, &cards); err != nil {
		return err
	}
	cards = append(cards, c)
	if err := writeJSON(ctx, r.store, flashcardsKey, cards); err != nil {
		return err
	}
	return r.recountDeck(ctx, c.DeckID, cards)
}

func (r *flashcardRepository) Get(ctx context.Context, id string) (*models.Flashcard, error) {
	var cards []models.Flashcard
	if err := readJSON(ctx, r.store, flashcardsKey, &cards); err != nil {
		return nil, err
	}
	for i := range cards {
		if cards[i].ID == id {
			return &cards[i], nil
		}
	}
	return nil, nil
}

func (r *flashcardRepository) List(ctx context.Context, filter models.FlashcardFilter) ([]models.Flashcard, error) {
	var cards []models.Flashcard
	if err := readJSON(ctx, r.store, flashcardsKey, &cards); err != nil {
		return nil, err
	}

	var userDecks map[string]bool
	if filter.UserID != "" {
		var decks []models.Deck
		if err := readJSON(ctx, r.store, decksKey, &decks); err != nil {
			return nil, err
		}
		userDecks = make(map[string]bool)
		for _, d := range decks {
			if d.UserID == filter.UserID {
				userDecks[d.ID] = true
			}
		}
	}

	var out []models.Flashcard
	for _, c := range cards {
		if filter.DeckID != "" && c.DeckID != filter.DeckID {
			continue
		}
		if userDecks != nil && !userDecks[c.DeckID] {
			continue
		}
		if filter.Difficulty != "" && c.Difficulty != filter.Difficulty {
			continue
		}
		if filter.DueBefore != nil {
			if c.LastReviewedAt != nil && (c.NextReviewAt == nil || c.NextReviewAt.After(*filter.DueBefore)) {
				continue
			}
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *flashcardRepository) Update(ctx context.Context, c models.Flashcard) error {
	var cards []models.Flashcard
	if err := readJSON(ctx, r.store, flashcardsKey, &cards); err != nil {
		return err
	}
	for i := range cards {
		if cards[i].ID == c.ID {
			cards[i] = c
			return writeJSON(ctx, r.store, flashcardsKey, cards)
		}
	}
	return repository.ErrNotFound
}

func (r *flashcardRepository) Delete(ctx context.Context, id string) error {
	var cards []models.Flashcard
	if err := readJSON(ctx, r.store, flashcardsKey, &cards); err != nil {
		return err
	}
	for i := range cards {
		if cards[i].ID == id {
			deckID := cards[i].DeckID
			cards = append(cards[:i], cards[i+1:]...)
			if err := writeJSON(ctx, r.store, flashcardsKey, cards); err != nil {
				return err
			}
			return r.recountDeck(ctx, deckID, cards)
		}
	}
	return repository.ErrNotFound
}

// UpdateReview writes the stats rollup first and the flashcard list last; the
// flashcard write is the commit point, so an interrupted call leaves the
// previous card state readable rather than a half-applied review.
func (r *flashcardRepository) UpdateReview(ctx context.Context, c models.Flashcard, stats models.UserStats) error {
	var cards []models.Flashcard
	if err := readJSON(ctx, r.store, flashcardsKey, &cards); err != nil {
		return err
	}
	idx := -1
	for i := range cards {
		if cards[i].ID == c.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return repository.ErrNotFound
	}

	allStats := make(map[string]models.UserStats)
	if err := readJSON(ctx, r.store, userStatsKey, &allStats); err != nil {
		return err
	}
	allStats[stats.UserID] = stats
	if err := writeJSON(ctx, r.store, userStatsKey, allStats); err != nil {
		return err
	}

	cards[idx] = c
	return writeJSON(ctx, r.store, flashcardsKey, cards)
}

func (r *flashcardRepository) recountDeck(ctx context.Context, deckID string, cards []models.Flashcard) error {
	count := 0
	for _, c := range cards {
		if c.DeckID == deckID {
			count++
		}
	}
	var decks []models.Deck
	if err := readJSON(ctx, r.store, decksKey, &decks); err != nil {
		return err
	}
	for i := range decks {
		if decks[i].ID == deckID {
			decks[i].CardCount = count
			return writeJSON(ctx, r.store, decksKey, decks)
		}
	}
	return nil
}
