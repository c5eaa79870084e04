package kvstore

import (
	"context"
	"sort"

	"github.com/cardy/cardy/internal/kv"
	"github.com/cardy/cardy/internal/models"
	"github.com/cardy/cardy/internal/repository"
)

type deckRepository struct {
	store kv.Store
}

// NewDeckRepository creates a DeckRepository over the key-value store.
func NewDeckRepository(store kv.Store) repository.DeckRepository {
	return &deckRepository{store: store}
}

func (r *deckRepository) Insert(ctx context.Context, d models.Deck) error {
	var decks []models.Deck
	if err := readJSON(ctx, r.store, decksKey, &decks); err != nil {
		return err
	}
	decks = append(decks, d)
	return writeJSON(ctx, r.store, decksKey, decks)
}

func (r *deckRepository) Get(ctx context.Context, id string) (*models.Deck, error) {
	var decks []models.Deck
	if err := readJSON(ctx, r.store, decksKey, &decks); err != nil {
		return nil, err
	}
	for i := range decks {
		if decks[i].ID == id {
			return &decks[i], nil
		}
	}
	return nil, nil
}

func (r *deckRepository) ListByUser(ctx context.Context, userID string) ([]models.Deck, error) {
	var decks []models.Deck
	if err := readJSON(ctx, r.store, decksKey, &decks); err != nil {
		return nil, err
	}
	var out []models.Deck
	for _, d := range decks {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	sortDecks(out)
	return out, nil
}

func (r *deckRepository) ListPublic(ctx context.Context, limit int) ([]models.Deck, error) {
	if limit <= 0 {
		limit = 10
	}
	var decks []models.Deck
	if err := readJSON(ctx, r.store, decksKey, &decks); err != nil {
		return nil, err
	}
	var out []models.Deck
	for _, d := range decks {
		if d.IsPublic {
			out = append(out, d)
		}
	}
	sortDecks(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *deckRepository) Update(ctx context.Context, d models.Deck) error {
	var decks []models.Deck
	if err := readJSON(ctx, r.store, decksKey, &decks); err != nil {
		return err
	}
	for i := range decks {
		if decks[i].ID == d.ID {
			decks[i] = d
			return writeJSON(ctx, r.store, decksKey, decks)
		}
	}
	return repository.ErrNotFound
}

func (r *deckRepository) Delete(ctx context.Context, id string) error {
	var cards []models.Flashcard
	if err := readJSON(ctx, r.store, flashcardsKey, &cards); err != nil {
		return err
	}
	kept := cards[:0]
	for _, c := range cards {
		if c.DeckID != id {
			kept = append(kept, c)
		}
	}
	if err := writeJSON(ctx, r.store, flashcardsKey, kept); err != nil {
		return err
	}

	var decks []models.Deck
	if err := readJSON(ctx, r.store, decksKey, &decks); err != nil {
		return err
	}
	for i := range decks {
		if decks[i].ID == id {
			decks = append(decks[:i], decks[i+1:]...)
			return writeJSON(ctx, r.store, decksKey, decks)
		}
	}
	return nil
}

func sortDecks(decks []models.Deck) {
	sort.SliceStable(decks, func(i, j int) bool {
		return decks[i].UpdatedAt.After(decks[j].UpdatedAt)
	})
}
