package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"

	"github.com/cardy/cardy/internal/logger"
	"github.com/cardy/cardy/internal/models"
	"github.com/cardy/cardy/internal/repository"
)

type flashcardRepository struct {
	db *sql.DB
}

// NewFlashcardRepository creates a new FlashcardRepository implementation
func NewFlashcardRepository(db *sql.DB) repository.FlashcardRepository {
	return &flashcardRepository{db: db}
}

func (r *flashcardRepository) Insert(ctx context.Context, c models.Flashcard) error {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("inserting flashcard: id=%s, deck_id=%s", c.ID, c.DeckID)

	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO flashcards (id, deck_id, front, back, difficulty, last_reviewed_at, next_review_at, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, c.ID, c.DeckID, c.Front, c.Back, c.Difficulty, nullTime(c.LastReviewedAt), nullTime(c.NextReviewAt), c.CreatedAt, c.UpdatedAt)
		if err != nil {
			return err
		}
		return recountDeck(ctx, tx, c.DeckID)
	})
	if err != nil {
		log.Error("failed to insert flashcard: %v", err)
	}
	return err
}

func (r *flashcardRepository) Get(ctx context.Context, id string) (*models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("getting flashcard: id=%s", id)

	row := r.db.QueryRowContext(ctx, `
SELECT id, deck_id, front, back, difficulty, last_reviewed_at, next_review_at, created_at, updated_at
FROM flashcards
WHERE id = ?
`, id)

	c, err := scanFlashcard(row)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("flashcard not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get flashcard: %v", err)
		return nil, err
	}
	return c, nil
}

func (r *flashcardRepository) List(ctx context.Context, filter models.FlashcardFilter) ([]models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("listing flashcards: deck_id=%s, user_id=%s", filter.DeckID, filter.UserID)

	query := sqlBuilder.
		Select("f.id", "f.deck_id", "f.front", "f.back", "f.difficulty",
			"f.last_reviewed_at", "f.next_review_at", "f.created_at", "f.updated_at").
		From("flashcards f").
		OrderBy("f.created_at ASC")

	if filter.UserID != "" {
		query = query.
			Join("decks d ON d.id = f.deck_id").
			Where(squirrel.Eq{"d.user_id": filter.UserID})
	}
	if filter.DeckID != "" {
		query = query.Where(squirrel.Eq{"f.deck_id": filter.DeckID})
	}
	if filter.Difficulty != "" {
		query = query.Where(squirrel.Eq{"f.difficulty": filter.Difficulty})
	}
	if filter.DueBefore != nil {
		query = query.Where(squirrel.Or{
			squirrel.Eq{"f.last_reviewed_at": nil},
			squirrel.LtOrEq{"f.next_review_at": *filter.DueBefore},
		})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list flashcards: %v", err)
		return nil, err
	}
	defer rows.Close()

	var cards []models.Flashcard
	for rows.Next() {
		c, err := scanFlashcard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, *c)
	}
	log.Debug("found %d flashcards", len(cards))
	return cards, rows.Err()
}

func (r *flashcardRepository) Update(ctx context.Context, c models.Flashcard) error {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("updating flashcard: id=%s", c.ID)

	_, err := r.db.ExecContext(ctx, `
UPDATE flashcards
SET front = ?, back = ?, difficulty = ?, last_reviewed_at = ?, next_review_at = ?, updated_at = ?
WHERE id = ?
`, c.Front, c.Back, c.Difficulty, nullTime(c.LastReviewedAt), nullTime(c.NextReviewAt), c.UpdatedAt, c.ID)
	if err != nil {
		log.Error("failed to update flashcard: %v", err)
	}
	return err
}

func (r *flashcardRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("deleting flashcard: id=%s", id)

	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		var deckID string
		err := tx.QueryRowContext(ctx, `SELECT deck_id FROM flashcards WHERE id = ?`, id).Scan(&deckID)
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrNotFound
		}
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM flashcards WHERE id = ?`, id); err != nil {
			return err
		}
		return recountDeck(ctx, tx, deckID)
	})
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.Error("failed to delete flashcard: %v", err)
	}
	return err
}

// UpdateReview writes the reviewed card and the user's aggregate stats in one
// transaction so they cannot diverge. Returns repository.ErrNotFound when the
// card is gone.
func (r *flashcardRepository) UpdateReview(ctx context.Context, c models.Flashcard, stats models.UserStats) error {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("recording review: id=%s, difficulty=%s", c.ID, c.Difficulty)

	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
UPDATE flashcards
SET difficulty = ?, last_reviewed_at = ?, next_review_at = ?, updated_at = ?
WHERE id = ?
`, c.Difficulty, nullTime(c.LastReviewedAt), nullTime(c.NextReviewAt), c.UpdatedAt, c.ID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return repository.ErrNotFound
		}
		return upsertUserStats(ctx, tx, stats)
	})
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.Error("failed to record review: %v", err)
	}
	return err
}

// recountDeck refreshes the deck's cached card_count from the flashcards
// table. Idempotent by construction: a recount, not an increment.
func recountDeck(ctx context.Context, tx *sql.Tx, deckID string) error {
	_, err := tx.ExecContext(ctx, `
UPDATE decks
SET card_count = (SELECT COUNT(*) FROM flashcards WHERE deck_id = ?),
    updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, deckID, deckID)
	return err
}

func scanFlashcard(row rowScanner) (*models.Flashcard, error) {
	var c models.Flashcard
	var lastReviewed, nextReview sql.NullTime
	err := row.Scan(&c.ID, &c.DeckID, &c.Front, &c.Back, &c.Difficulty, &lastReviewed, &nextReview, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.LastReviewedAt = timePtr(lastReviewed)
	c.NextReviewAt = timePtr(nextReview)
	return &c, nil
}
