package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardy/cardy/internal/api"
	"github.com/cardy/cardy/internal/catalog"
	"github.com/cardy/cardy/internal/draw"
	"github.com/cardy/cardy/internal/kv"
	"github.com/cardy/cardy/internal/models"
	"github.com/cardy/cardy/internal/repository/kvstore"
	"github.com/cardy/cardy/internal/scheduler"
	"github.com/cardy/cardy/internal/services"
)

func newTestServer(t *testing.T) *httptest.Server {
	return newTestServerWith(t, kv.NewMemoryStore())
}

func newTestServerWith(t *testing.T, store kv.Store) *httptest.Server {
	t.Helper()

	decks := kvstore.NewDeckRepository(store)
	cards := kvstore.NewFlashcardRepository(store)
	stats := kvstore.NewStatsRepository(store)

	cat, err := catalog.New()
	require.NoError(t, err)
	engine := draw.NewEngine(cat, store)

	srv := api.NewServer(
		services.NewDeckService(decks),
		services.NewFlashcardService(cards, decks, stats, scheduler.FixedIntervals{}),
		services.NewDailyCardService(engine),
		services.NewStatsService(stats, cards),
		cat,
		20,
	)

	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, ts *httptest.Server, method, path, userID string, body any) (*http.Response, []byte) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, ts.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, out.Bytes()
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, body := doJSON(t, ts, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"ok"`)
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doJSON(t, ts, http.MethodGet, "/api/decks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var errBody struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &errBody))
	assert.Equal(t, "UNAUTHORIZED", errBody.Error.Code)
}

func TestDeckLifecycle(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doJSON(t, ts, http.MethodPost, "/api/decks", "u1", map[string]any{
		"title": "Zodiac Signs",
		"tags":  []string{"astrology"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var deck models.Deck
	require.NoError(t, json.Unmarshal(body, &deck))
	assert.Equal(t, "Zodiac Signs", deck.Title)
	assert.NotEmpty(t, deck.ID)

	resp, body = doJSON(t, ts, http.MethodGet, "/api/decks", "u1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listing struct {
		Decks []models.Deck `json:"decks"`
	}
	require.NoError(t, json.Unmarshal(body, &listing))
	assert.Len(t, listing.Decks, 1)

	resp, _ = doJSON(t, ts, http.MethodDelete, "/api/decks/"+deck.ID, "u1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, ts, http.MethodGet, "/api/decks/"+deck.ID, "u1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFlashcardReviewFlow(t *testing.T) {
	ts := newTestServer(t)

	_, body := doJSON(t, ts, http.MethodPost, "/api/decks", "u1", map[string]any{"title": "D"})
	var deck models.Deck
	require.NoError(t, json.Unmarshal(body, &deck))

	resp, body := doJSON(t, ts, http.MethodPost, "/api/flashcards", "u1", map[string]any{
		"deckId": deck.ID,
		"front":  "I am capable",
		"back":   "I have the skills and abilities to achieve my goals",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var card models.Flashcard
	require.NoError(t, json.Unmarshal(body, &card))

	// Unreviewed card shows up in the due queue.
	resp, body = doJSON(t, ts, http.MethodGet, "/api/flashcards/due", "u1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var due struct {
		Flashcards []models.Flashcard `json:"flashcards"`
	}
	require.NoError(t, json.Unmarshal(body, &due))
	require.Len(t, due.Flashcards, 1)

	resp, body = doJSON(t, ts, http.MethodPost, "/api/flashcards/"+card.ID+"/review", "u1", map[string]any{
		"rating": "easy",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var reviewed models.Flashcard
	require.NoError(t, json.Unmarshal(body, &reviewed))
	assert.Equal(t, "easy", reviewed.Difficulty)
	require.NotNil(t, reviewed.NextReviewAt)

	// Freshly reviewed: out of the due queue.
	resp, body = doJSON(t, ts, http.MethodGet, "/api/flashcards/due", "u1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	due.Flashcards = nil
	require.NoError(t, json.Unmarshal(body, &due))
	assert.Empty(t, due.Flashcards)
}

func TestReviewValidation(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doJSON(t, ts, http.MethodPost, "/api/flashcards/whatever/review", "u1", map[string]any{
		"rating": "brutal",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "VALIDATION_ERROR")

	resp, _ = doJSON(t, ts, http.MethodPost, "/api/flashcards/ghost/review", "u1", map[string]any{
		"rating": "easy",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDailyCards(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doJSON(t, ts, http.MethodGet, "/api/daily/2025-04-11", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var first struct {
		Cards []models.DailyCard `json:"cards"`
	}
	require.NoError(t, json.Unmarshal(body, &first))
	require.Len(t, first.Cards, 3)

	// Same date, same cards, same IDs: the cache serves the second request.
	_, body = doJSON(t, ts, http.MethodGet, "/api/daily/2025-04-11", "", nil)
	var second struct {
		Cards []models.DailyCard `json:"cards"`
	}
	require.NoError(t, json.Unmarshal(body, &second))
	assert.Equal(t, first.Cards, second.Cards)

	resp, _ = doJSON(t, ts, http.MethodGet, "/api/daily/not-a-date", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = doJSON(t, ts, http.MethodPost, "/api/daily/refresh?date=2025-04-11", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var refreshed struct {
		Cards []models.DailyCard `json:"cards"`
	}
	require.NoError(t, json.Unmarshal(body, &refreshed))
	require.Len(t, refreshed.Cards, 3)
	assert.NotEqual(t, first.Cards[0].ID, refreshed.Cards[0].ID, "refresh issues new IDs")
	assert.Equal(t, first.Cards[0].Suit, refreshed.Cards[0].Suit, "same deterministic triple")
}

func TestCardDefinitionEndpoint(t *testing.T) {
	ts := newTestServer(t)

	type definitionBody struct {
		models.CardDefinition
		Blessing *models.CardDefinition `json:"blessing"`
		Duty     *models.CardDefinition `json:"duty"`
	}

	resp, body := doJSON(t, ts, http.MethodGet, "/api/cards/hearts/4", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var def definitionBody
	require.NoError(t, json.Unmarshal(body, &def))
	assert.Equal(t, "Four of Hearts", def.Name)
	assert.Nil(t, def.Blessing, "companion without its own entry stays name-only")

	// Ten of Clubs names Four of Hearts as its blessing card; that one has a
	// full entry, so the response carries it expanded.
	resp, body = doJSON(t, ts, http.MethodGet, "/api/cards/clubs/10", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	def = definitionBody{}
	require.NoError(t, json.Unmarshal(body, &def))
	assert.Equal(t, "Ten of Clubs", def.Name)
	require.NotNil(t, def.Blessing)
	assert.Equal(t, "Four of Hearts", def.Blessing.Name)

	resp, _ = doJSON(t, ts, http.MethodGet, "/api/cards/hearts/2", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "undefined card is a miss")

	resp, _ = doJSON(t, ts, http.MethodGet, "/api/cards/stars/4", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// unreachableStore always errors, standing in for a down persistence layer.
type unreachableStore struct{}

func (unreachableStore) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("store offline")
}

func (unreachableStore) Set(ctx context.Context, key string, value []byte) error {
	return errors.New("store offline")
}

func (unreachableStore) Remove(ctx context.Context, key string) error {
	return errors.New("store offline")
}

func TestStoreOutage_Returns503(t *testing.T) {
	ts := newTestServerWith(t, unreachableStore{})

	resp, body := doJSON(t, ts, http.MethodGet, "/api/decks", "u1", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, string(body), "STORE_UNAVAILABLE")

	// The daily draw recomputes instead of depending on the store.
	resp, _ = doJSON(t, ts, http.MethodGet, "/api/daily", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSessionsAndStats(t *testing.T) {
	ts := newTestServer(t)

	_, body := doJSON(t, ts, http.MethodPost, "/api/decks", "u1", map[string]any{"title": "D"})
	var deck models.Deck
	require.NoError(t, json.Unmarshal(body, &deck))

	resp, body := doJSON(t, ts, http.MethodPost, "/api/sessions", "u1", map[string]any{
		"deckId":         deck.ID,
		"cardsStudied":   10,
		"correctAnswers": 8,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = doJSON(t, ts, http.MethodGet, "/api/stats", "u1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats models.UserStats
	require.NoError(t, json.Unmarshal(body, &stats))
	assert.Equal(t, 1, stats.Streak)
	assert.InDelta(t, 80.0, stats.Accuracy, 0.001)

	resp, body = doJSON(t, ts, http.MethodGet, "/api/sessions", "u1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sessions struct {
		Sessions []models.StudySession `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(body, &sessions))
	assert.Len(t, sessions.Sessions, 1)

	resp, body = doJSON(t, ts, http.MethodGet, "/api/stats/summary", "u1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary models.StudySummary
	require.NoError(t, json.Unmarshal(body, &summary))
	assert.Equal(t, 1, summary.TotalSessions)
	assert.Equal(t, 10, summary.TotalCardsStudied)
}
