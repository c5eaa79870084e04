package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cardy/cardy/internal/logger"
	"github.com/cardy/cardy/internal/models"
	"github.com/cardy/cardy/internal/repository"
)

type deckRepository struct {
	db *sql.DB
}

// NewDeckRepository creates a new DeckRepository implementation
func NewDeckRepository(db *sql.DB) repository.DeckRepository {
	return &deckRepository{db: db}
}

func (r *deckRepository) Insert(ctx context.Context, d models.Deck) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("inserting deck: id=%s, user_id=%s", d.ID, d.UserID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO decks (id, user_id, title, description, tags, is_public, card_count, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, d.ID, d.UserID, d.Title, d.Description, encodeTags(d.Tags), d.IsPublic, d.CardCount, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		log.Error("failed to insert deck: %v", err)
	}
	return err
}

func (r *deckRepository) Get(ctx context.Context, id string) (*models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("getting deck: id=%s", id)

	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, title, description, tags, is_public, card_count, created_at, updated_at
FROM decks
WHERE id = ?
`, id)

	d, err := scanDeck(row)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("deck not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get deck: %v", err)
		return nil, err
	}
	return d, nil
}

func (r *deckRepository) ListByUser(ctx context.Context, userID string) ([]models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("listing decks: user_id=%s", userID)

	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, title, description, tags, is_public, card_count, created_at, updated_at
FROM decks
WHERE user_id = ?
ORDER BY updated_at DESC
`, userID)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, err
	}
	defer rows.Close()
	return collectDecks(rows)
}

func (r *deckRepository) ListPublic(ctx context.Context, limit int) ([]models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("listing public decks: limit=%d", limit)

	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, title, description, tags, is_public, card_count, created_at, updated_at
FROM decks
WHERE is_public = 1
ORDER BY updated_at DESC
LIMIT ?
`, limit)
	if err != nil {
		log.Error("failed to list public decks: %v", err)
		return nil, err
	}
	defer rows.Close()
	return collectDecks(rows)
}

func (r *deckRepository) Update(ctx context.Context, d models.Deck) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("updating deck: id=%s", d.ID)

	_, err := r.db.ExecContext(ctx, `
UPDATE decks
SET title = ?, description = ?, tags = ?, is_public = ?, updated_at = ?
WHERE id = ?
`, d.Title, d.Description, encodeTags(d.Tags), d.IsPublic, d.UpdatedAt, d.ID)
	if err != nil {
		log.Error("failed to update deck: %v", err)
	}
	return err
}

func (r *deckRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("deleting deck: id=%s", id)

	// Owned flashcards go with the deck (ON DELETE CASCADE).
	_, err := r.db.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete deck: %v", err)
	}
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDeck(row rowScanner) (*models.Deck, error) {
	var d models.Deck
	var tags string
	err := row.Scan(&d.ID, &d.UserID, &d.Title, &d.Description, &tags, &d.IsPublic, &d.CardCount, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	d.Tags = decodeTags(tags)
	return &d, nil
}

func collectDecks(rows *sql.Rows) ([]models.Deck, error) {
	var decks []models.Deck
	for rows.Next() {
		d, err := scanDeck(rows)
		if err != nil {
			return nil, err
		}
		decks = append(decks, *d)
	}
	return decks, rows.Err()
}
