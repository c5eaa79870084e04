// Package kvstore implements the repositories over the byte-string key-value
// store, for the offline-first deployment mode. Records are JSON lists under
// well-known keys; every operation is a read-modify-write of one list.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/cardy/cardy/internal/kv"
)

// Storage keys, shared with the mobile client's local store.
const (
	decksKey      = "cardy_decks"
	flashcardsKey = "cardy_flashcards"
	sessionsKey   = "cardy_study_sessions"
	userStatsKey  = "cardy_user_stats"
)

func readJSON[T any](ctx context.Context, store kv.Store, key string, out *T) error {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func writeJSON(ctx context.Context, store kv.Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return store.Set(ctx, key, raw)
}
