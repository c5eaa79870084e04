package api

import "time"

type createDeckRequest struct {
	Title       string   `json:"title" validate:"max=200"`
	Description string   `json:"description" validate:"max=2000"`
	Tags        []string `json:"tags" validate:"max=20,dive,max=50"`
	IsPublic    bool     `json:"isPublic"`
}

type updateDeckRequest struct {
	Title       string   `json:"title" validate:"max=200"`
	Description string   `json:"description" validate:"max=2000"`
	Tags        []string `json:"tags" validate:"max=20,dive,max=50"`
	IsPublic    bool     `json:"isPublic"`
}

type createFlashcardRequest struct {
	DeckID     string `json:"deckId" validate:"required"`
	Front      string `json:"front" validate:"required,max=2000"`
	Back       string `json:"back" validate:"max=2000"`
	Difficulty string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
}

type updateFlashcardRequest struct {
	Front      string `json:"front" validate:"max=2000"`
	Back       string `json:"back" validate:"max=2000"`
	Difficulty string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
}

type reviewRequest struct {
	Rating     string     `json:"rating" validate:"required,oneof=easy medium hard"`
	ObservedAt *time.Time `json:"observedAt"`
}

type recordSessionRequest struct {
	DeckID         string     `json:"deckId" validate:"required"`
	StartedAt      *time.Time `json:"startedAt"`
	EndedAt        *time.Time `json:"endedAt"`
	CardsStudied   int        `json:"cardsStudied" validate:"min=0"`
	CorrectAnswers int        `json:"correctAnswers" validate:"min=0"`
}
