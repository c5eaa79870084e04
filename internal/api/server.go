package api

import (
	"github.com/go-playground/validator/v10"

	"github.com/cardy/cardy/internal/catalog"
	"github.com/cardy/cardy/internal/services"
)

// Server holds the HTTP handler dependencies.
type Server struct {
	Decks      services.DeckService
	Flashcards services.FlashcardService
	Daily      services.DailyCardService
	Stats      services.StatsService
	Catalog    *catalog.Catalog

	DueLimitDefault int

	validate *validator.Validate
}

// NewServer creates a Server wired to the given services.
func NewServer(decks services.DeckService, flashcards services.FlashcardService, daily services.DailyCardService, stats services.StatsService, cat *catalog.Catalog, dueLimit int) *Server {
	return &Server{
		Decks:           decks,
		Flashcards:      flashcards,
		Daily:           daily,
		Stats:           stats,
		Catalog:         cat,
		DueLimitDefault: dueLimit,
		validate:        validator.New(validator.WithRequiredStructEnabled()),
	}
}
