// Package draw generates the shared daily three-card draw. The draw is a
// pure function of the UTC calendar date, so every client that computes it
// independently arrives at the same cards without coordination.
package draw

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/cardy/cardy/internal/catalog"
	"github.com/cardy/cardy/internal/errors"
	"github.com/cardy/cardy/internal/kv"
	"github.com/cardy/cardy/internal/logger"
	"github.com/cardy/cardy/internal/models"
)

// CacheKey is where the current draw is stored in the key-value store.
const CacheKey = "daily_cards"

// DrawSize is the number of cards in a daily draw.
const DrawSize = 3

const dateLayout = "2006-01-02"

const imageBaseURL = "https://deckofcardsapi.com/static/img"

// Engine computes and caches daily draws.
type Engine struct {
	catalog  *catalog.Catalog
	store    kv.Store
	now      func() time.Time
	shuffles int
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the engine's time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an Engine over the given catalog and cache store.
func NewEngine(cat *catalog.Catalog, store kv.Store, opts ...Option) *Engine {
	e := &Engine{
		catalog: cat,
		store:   store,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Today returns the draw for the current UTC calendar day.
func (e *Engine) Today(ctx context.Context) ([]models.DailyCard, error) {
	return e.DrawForDate(ctx, e.now().UTC().Format(dateLayout))
}

// DrawForDate returns the draw for the given YYYY-MM-DD date, serving the
// cached value when one exists for that date and computing (then caching) it
// otherwise. Cache failures degrade to recomputation, never to an error: the
// draw is deterministic, so a recomputed value equals the lost cached one.
func (e *Engine) DrawForDate(ctx context.Context, date string) ([]models.DailyCard, error) {
	log := logger.FromContext(ctx).WithPrefix("draw")

	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, errors.NewValidationError("date", "must be YYYY-MM-DD")
	}

	if cached := e.cachedDraw(ctx, date); cached != nil {
		log.Debug("serving cached draw for %s", date)
		return cached, nil
	}

	cards := e.generate(date)
	e.storeDraw(ctx, cards)
	log.Info("generated daily draw for %s", date)
	return cards, nil
}

// Refresh recomputes the draw for the given date and overwrites the cache.
// An explicit user action: the fresh draw carries new card IDs but the same
// (suit, rank) triple, since the generator is deterministic.
func (e *Engine) Refresh(ctx context.Context, date string) ([]models.DailyCard, error) {
	log := logger.FromContext(ctx).WithPrefix("draw")

	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, errors.NewValidationError("date", "must be YYYY-MM-DD")
	}

	cards := e.generate(date)
	e.storeDraw(ctx, cards)
	log.Info("refreshed daily draw for %s", date)
	return cards, nil
}

// ShuffleCount reports how many times the shuffle has run. Lets tests verify
// that cached draws are served without recomputation.
func (e *Engine) ShuffleCount() int {
	return e.shuffles
}

func (e *Engine) cachedDraw(ctx context.Context, date string) []models.DailyCard {
	log := logger.FromContext(ctx).WithPrefix("draw")

	raw, err := e.store.Get(ctx, CacheKey)
	if err != nil {
		if err != kv.ErrNotFound {
			log.Warn("draw cache unreadable, recomputing: %v", err)
		}
		return nil
	}

	var stored []models.DailyCard
	if err := json.Unmarshal(raw, &stored); err != nil {
		log.Warn("draw cache corrupt, recomputing: %v", err)
		return nil
	}

	var cards []models.DailyCard
	for _, c := range stored {
		if c.Date == date {
			cards = append(cards, c)
		}
	}
	return cards
}

func (e *Engine) storeDraw(ctx context.Context, cards []models.DailyCard) {
	log := logger.FromContext(ctx).WithPrefix("draw")

	raw, err := json.Marshal(cards)
	if err != nil {
		log.Error("failed to encode draw: %v", err)
		return
	}
	// Whole-value overwrite supersedes any previous day's entry.
	if err := e.store.Set(ctx, CacheKey, raw); err != nil {
		log.Warn("failed to cache draw, serving uncached: %v", err)
	}
}

func (e *Engine) generate(date string) []models.DailyCard {
	selected := e.shuffledDeck(date)[:DrawSize]

	cards := make([]models.DailyCard, 0, DrawSize)
	for _, c := range selected {
		dc := models.DailyCard{
			ID:          uuid.NewString(),
			Date:        date,
			Suit:        c.Suit,
			Rank:        c.Rank,
			Color:       catalog.SuitColor(c.Suit),
			Symbol:      catalog.SuitSymbol(c.Suit),
			DisplayName: catalog.DisplayName(c),
			ImageURL:    fmt.Sprintf("%s/%s.png", imageBaseURL, catalog.ImageCode(c)),
		}
		if def, ok := e.catalog.Definition(c); ok {
			dc.Definition = &def
			dc.Meaning = def.Summary
		} else {
			// Catalog miss is non-fatal: fall back to the generic
			// rank and suit meanings so the draw always renders.
			dc.Meaning = genericMeaning(c)
		}
		cards = append(cards, dc)
	}
	return cards
}

// shuffledDeck runs a Fisher-Yates shuffle over the full deck, drawing each
// step's "random" value from a sine hash of (dateSeed + position). Same date,
// same permutation, on any machine.
func (e *Engine) shuffledDeck(date string) []models.Card {
	e.shuffles++

	day, _ := time.Parse(dateLayout, date) // validated by callers
	seed := day.UnixMilli()

	deck := catalog.Deck()
	for i := len(deck) - 1; i > 0; i-- {
		j := int(seededRandom(float64(seed + int64(i))) * float64(i+1))
		deck[i], deck[j] = deck[j], deck[i]
	}
	return deck
}

// seededRandom maps a seed to [0, 1). Reproducibility matters here,
// statistical quality does not.
func seededRandom(seed float64) float64 {
	x := math.Sin(seed) * 10000
	return x - math.Floor(x)
}

func genericMeaning(c models.Card) string {
	return rankMeanings[c.Rank] + " " + suitMeanings[c.Suit]
}

var suitMeanings = map[models.Suit]string{
	models.SuitHearts:   "Hearts represent emotions, relationships, and matters of the heart. They suggest focusing on your emotional connections today.",
	models.SuitDiamonds: "Diamonds represent wealth, resources, and material aspects of life. They suggest paying attention to your resources and values today.",
	models.SuitClubs:    "Clubs represent knowledge, growth, and achievement. They suggest focusing on personal development and learning today.",
	models.SuitSpades:   "Spades represent challenges, obstacles, and transformation. They suggest facing difficulties with courage and seeing them as opportunities for growth.",
}

var rankMeanings = map[models.Rank]string{
	models.RankAce:   "Aces represent new beginnings, opportunities, and potential. This card suggests being open to new possibilities.",
	models.RankTwo:   "Twos represent balance, partnership, and choices. This card suggests finding harmony in duality.",
	models.RankThree: "Threes represent creativity, growth, and expression. This card suggests collaborative energy and expansion.",
	models.RankFour:  "Fours represent stability, structure, and foundation. This card suggests building solid bases for your endeavors.",
	models.RankFive:  "Fives represent change, adaptation, and freedom. This card suggests embracing transitions and flexibility.",
	models.RankSix:   "Sixes represent harmony, healing, and nurturing. This card suggests finding balance and caring for yourself and others.",
	models.RankSeven: "Sevens represent reflection, analysis, and spiritual awareness. This card suggests looking inward for answers.",
	models.RankEight: "Eights represent power, achievement, and mastery. This card suggests taking control of your circumstances.",
	models.RankNine:  "Nines represent completion, fulfillment, and wisdom. This card suggests reaching the final stages of a cycle.",
	models.RankTen:   "Tens represent culmination, transition, and endings that lead to new beginnings. This card suggests completing one phase to start another.",
	models.RankJack:  "Jacks represent youth, enthusiasm, and new ideas. This card suggests approaching situations with fresh energy and creativity.",
	models.RankQueen: "Queens represent nurturing power, emotional intelligence, and inner wisdom. This card suggests leading with compassion and intuition.",
	models.RankKing:  "Kings represent authority, leadership, and mastery. This card suggests taking charge and expressing your power with wisdom.",
}
