// Package store holds the two process-wide state containers: the
// authenticated Session and the UI Preferences. Each mutates only through its
// methods and writes a fixed subset of its fields to durable storage.
package store

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/naveenspark/mbadmin/internal/storage"
)

// Storage keys for the persisted slices.
const (
	SessionKey     = "auth-storage"
	PreferencesKey = "ui-storage"
)

// envelope is the on-disk shape of a persisted slice.
type envelope[T any] struct {
	State   T   `json:"state"`
	Version int `json:"version"`
}

func save[T any](kv storage.Storage, key string, state T, log zerolog.Logger) {
	data, err := json.Marshal(envelope[T]{State: state})
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("encode persisted state")
		return
	}
	if err := kv.Set(key, string(data)); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("persist state")
	}
}

func load[T any](kv storage.Storage, key string) (T, bool, error) {
	var env envelope[T]
	raw, ok, err := kv.Get(key)
	if err != nil || !ok {
		return env.State, false, err
	}
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return env.State, false, fmt.Errorf("decode %s: %w", key, err)
	}
	return env.State, true, nil
}
