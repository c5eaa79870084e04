package models

import "time"

// Suit is one of the four playing card suits.
type Suit string

const (
	SuitHearts   Suit = "hearts"
	SuitDiamonds Suit = "diamonds"
	SuitClubs    Suit = "clubs"
	SuitSpades   Suit = "spades"
)

// Valid reports whether s is one of the four suits.
func (s Suit) Valid() bool {
	switch s {
	case SuitHearts, SuitDiamonds, SuitClubs, SuitSpades:
		return true
	}
	return false
}

// Rank is a playing card rank: "ace", "2".."10", "jack", "queen", "king".
type Rank string

const (
	RankAce   Rank = "ace"
	RankTwo   Rank = "2"
	RankThree Rank = "3"
	RankFour  Rank = "4"
	RankFive  Rank = "5"
	RankSix   Rank = "6"
	RankSeven Rank = "7"
	RankEight Rank = "8"
	RankNine  Rank = "9"
	RankTen   Rank = "10"
	RankJack  Rank = "jack"
	RankQueen Rank = "queen"
	RankKing  Rank = "king"
)

// Valid reports whether r is one of the thirteen ranks.
func (r Rank) Valid() bool {
	switch r {
	case RankAce, RankTwo, RankThree, RankFour, RankFive, RankSix, RankSeven,
		RankEight, RankNine, RankTen, RankJack, RankQueen, RankKing:
		return true
	}
	return false
}

// Card identifies one of the 52 catalog cards by (suit, rank).
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// CardDefinition is the static interpretive text attached to a catalog card.
type CardDefinition struct {
	Name            string   `json:"name"`
	Number          string   `json:"number"`
	Suit            Suit     `json:"suit"`
	Keywords        []string `json:"keywords"`
	Summary         string   `json:"summary"`
	InLoveMeaning   string   `json:"in_love_meaning"`
	BlessingCard    string   `json:"blessing_card"`
	BlessingMeaning string   `json:"blessing_meaning"`
	DutyCard        string   `json:"duty_card"`
	DutyMeaning     string   `json:"duty_meaning"`
}

// DailyCard is one card of the shared daily draw, enriched with display
// fields and, when the catalog has one, its definition.
type DailyCard struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"` // YYYY-MM-DD, UTC calendar day
	Suit        Suit            `json:"suit"`
	Rank        Rank            `json:"rank"`
	Color       string          `json:"color"`
	Symbol      string          `json:"symbol"`
	DisplayName string          `json:"display_name"`
	Meaning     string          `json:"meaning"`
	ImageURL    string          `json:"image_url,omitempty"`
	Definition  *CardDefinition `json:"definition,omitempty"`
}

type Deck struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	IsPublic    bool      `json:"is_public"`
	CardCount   int       `json:"card_count"` // cached aggregate, recomputed on card add/remove
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Flashcard struct {
	ID             string     `json:"id"`
	DeckID         string     `json:"deck_id"`
	Front          string     `json:"front"`
	Back           string     `json:"back"`
	Difficulty     string     `json:"difficulty,omitempty"` // easy|medium|hard, empty until first review
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	NextReviewAt   *time.Time `json:"next_review_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// FlashcardFilter narrows flashcard list queries.
type FlashcardFilter struct {
	DeckID     string
	UserID     string
	Difficulty string
	DueBefore  *time.Time
	Limit      int
	Offset     int
}

type StudySession struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	DeckID         string     `json:"deck_id"`
	StartedAt      time.Time  `json:"started_at"`
	EndedAt        *time.Time `json:"ended_at,omitempty"`
	CardsStudied   int        `json:"cards_studied"`
	CorrectAnswers int        `json:"correct_answers"`
}

// SessionFilter narrows study session list queries.
type SessionFilter struct {
	UserID string
	DeckID string
	Limit  int
}

// UserStats is the per-user aggregate maintained alongside reviews and
// completed sessions. It is a cached rollup, never a source of truth.
type UserStats struct {
	UserID        string     `json:"user_id"`
	TotalCards    int        `json:"total_cards"`
	CardsLearned  int        `json:"cards_learned"`
	Streak        int        `json:"streak"`
	LastStudyDate *time.Time `json:"last_study_date,omitempty"`
	Accuracy      float64    `json:"accuracy"` // percentage, 0-100
}

// StudySummary aggregates a user's completed study sessions.
type StudySummary struct {
	TotalSessions       int     `json:"total_sessions"`
	TotalCardsStudied   int     `json:"total_cards_studied"`
	TotalCorrectAnswers int     `json:"total_correct_answers"`
	Accuracy            float64 `json:"accuracy"`
	AvgSessionMinutes   float64 `json:"avg_session_minutes"`
	TotalStudyMinutes   float64 `json:"total_study_minutes"`
}
