// Package catalog holds the static 52-card reference data: the ordered deck,
// display formatting, and the interpretive definitions shipped with the app.
// Definitions are loaded once from an embedded CSV and indexed by (suit, rank)
// so lookups never depend on display-name matching.
package catalog

import (
	"encoding/csv"
	"fmt"
	"strings"

	_ "embed"

	"github.com/cardy/cardy/internal/models"
)

//go:embed definitions.csv
var definitionsCSV string

// Suits in deck order.
var suits = []models.Suit{
	models.SuitHearts,
	models.SuitDiamonds,
	models.SuitClubs,
	models.SuitSpades,
}

// Ranks in deck order, ace low.
var ranks = []models.Rank{
	models.RankAce, models.RankTwo, models.RankThree, models.RankFour,
	models.RankFive, models.RankSix, models.RankSeven, models.RankEight,
	models.RankNine, models.RankTen, models.RankJack, models.RankQueen,
	models.RankKing,
}

// Deck returns the full ordered 52-card deck: hearts, diamonds, clubs,
// spades, each ace through king.
func Deck() []models.Card {
	deck := make([]models.Card, 0, len(suits)*len(ranks))
	for _, s := range suits {
		for _, r := range ranks {
			deck = append(deck, models.Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// DisplayName formats a card as e.g. "Jack of Clubs".
func DisplayName(c models.Card) string {
	return fmt.Sprintf("%s of %s", titleRank(c.Rank), titleSuit(c.Suit))
}

// SuitColor returns the render color for a suit: red for hearts/diamonds,
// black for clubs/spades.
func SuitColor(s models.Suit) string {
	if s == models.SuitHearts || s == models.SuitDiamonds {
		return "#E53935"
	}
	return "#212121"
}

// SuitSymbol returns the unicode symbol for a suit.
func SuitSymbol(s models.Suit) string {
	switch s {
	case models.SuitHearts:
		return "♥"
	case models.SuitDiamonds:
		return "♦"
	case models.SuitClubs:
		return "♣"
	case models.SuitSpades:
		return "♠"
	}
	return "?"
}

// ImageCode returns the two-character code used by the card image CDN,
// e.g. "AS" for the ace of spades. Ten is encoded as "0".
func ImageCode(c models.Card) string {
	var rank string
	switch c.Rank {
	case models.RankTen:
		rank = "0"
	default:
		rank = strings.ToUpper(string(c.Rank[0]))
	}
	return rank + strings.ToUpper(string(c.Suit[0]))
}

func titleRank(r models.Rank) string {
	switch r {
	case models.RankAce, models.RankJack, models.RankQueen, models.RankKing:
		return strings.ToUpper(string(r[0])) + string(r[1:])
	}
	return string(r)
}

func titleSuit(s models.Suit) string {
	return strings.ToUpper(string(s[0])) + string(s[1:])
}

// Catalog is the definition lookup table, built once at startup and injected
// into whatever needs interpretive text. Read-only after construction.
type Catalog struct {
	byCard map[models.Card]models.CardDefinition
	byName map[string]models.CardDefinition
}

// New parses the embedded definitions CSV and builds the lookup indexes.
// Not every card carries a definition; lookups for the rest miss cleanly.
func New() (*Catalog, error) {
	r := csv.NewReader(strings.NewReader(definitionsCSV))
	r.FieldsPerRecord = 10

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse card definitions: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("card definitions: empty file")
	}

	c := &Catalog{
		byCard: make(map[models.Card]models.CardDefinition),
		byName: make(map[string]models.CardDefinition),
	}

	for _, rec := range records[1:] { // skip header
		def := models.CardDefinition{
			Name:            rec[0],
			Number:          rec[1],
			Suit:            models.Suit(strings.ToLower(rec[2])),
			Keywords:        splitKeywords(rec[3]),
			Summary:         rec[4],
			InLoveMeaning:   rec[5],
			BlessingCard:    rec[6],
			BlessingMeaning: rec[7],
			DutyCard:        rec[8],
			DutyMeaning:     rec[9],
		}
		card, err := cardFromName(def.Name)
		if err != nil {
			return nil, fmt.Errorf("card definitions: %w", err)
		}
		c.byCard[card] = def
		c.byName[strings.ToLower(def.Name)] = def
	}
	return c, nil
}

// Definition looks up the interpretive text for a card by its (suit, rank)
// identity. A miss returns false, never an error.
func (c *Catalog) Definition(card models.Card) (models.CardDefinition, bool) {
	def, ok := c.byCard[card]
	return def, ok
}

// DefinitionByName looks up a definition by its exact display name,
// case-insensitively. Used to resolve blessing/duty companion references.
func (c *Catalog) DefinitionByName(name string) (models.CardDefinition, bool) {
	def, ok := c.byName[strings.ToLower(name)]
	return def, ok
}

// Size reports how many cards carry definitions.
func (c *Catalog) Size() int {
	return len(c.byCard)
}

func splitKeywords(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// cardFromName parses a "<Rank> of <Suit>" display name back into a card
// identity. Names in the CSV are authored, so a bad one is a data error.
func cardFromName(name string) (models.Card, error) {
	parts := strings.SplitN(name, " of ", 2)
	if len(parts) != 2 {
		return models.Card{}, fmt.Errorf("malformed card name %q", name)
	}
	rankName := strings.ToLower(strings.TrimSpace(parts[0]))
	suitName := strings.ToLower(strings.TrimSpace(parts[1]))

	rank, ok := rankFromWord(rankName)
	if !ok {
		return models.Card{}, fmt.Errorf("unknown rank in card name %q", name)
	}
	suit := models.Suit(suitName)
	switch suit {
	case models.SuitHearts, models.SuitDiamonds, models.SuitClubs, models.SuitSpades:
	default:
		return models.Card{}, fmt.Errorf("unknown suit in card name %q", name)
	}
	return models.Card{Suit: suit, Rank: rank}, nil
}

var rankWords = map[string]models.Rank{
	"ace":   models.RankAce,
	"two":   models.RankTwo,
	"three": models.RankThree,
	"four":  models.RankFour,
	"five":  models.RankFive,
	"six":   models.RankSix,
	"seven": models.RankSeven,
	"eight": models.RankEight,
	"nine":  models.RankNine,
	"ten":   models.RankTen,
	"jack":  models.RankJack,
	"queen": models.RankQueen,
	"king":  models.RankKing,
}

func rankFromWord(w string) (models.Rank, bool) {
	r, ok := rankWords[w]
	return r, ok
}
