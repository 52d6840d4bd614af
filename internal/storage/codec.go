package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"cozinha-magica/internal/recipe"
	"cozinha-magica/internal/shopping"
)

// legacyVersion marks a bare JSON value with no envelope, as the browser app stored it.
const legacyVersion = 0

// Codec converts one persisted type to and from its stored form.
type Codec[T any] struct {
	Version int
	Encode  func(T) ([]byte, error)
	Decode  func([]byte) (T, error)
}

type envelope struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// RecipesCodec stores the recipe collection.
var RecipesCodec = versionedJSON[[]recipe.Recipe](1, map[int]func(json.RawMessage) ([]recipe.Recipe, error){
	legacyVersion: decodeJSON[[]recipe.Recipe],
	1:             decodeJSON[[]recipe.Recipe],
})

// ShoppingListsCodec stores the shopping-list collection.
var ShoppingListsCodec = versionedJSON[[]shopping.ShoppingList](1, map[int]func(json.RawMessage) ([]shopping.ShoppingList, error){
	legacyVersion: decodeJSON[[]shopping.ShoppingList],
	1:             decodeJSON[[]shopping.ShoppingList],
})

// versionedJSON wraps values in {"version":N,"data":...}. Each known version has its
// own decoder so older blobs can be upgraded on read.
func versionedJSON[T any](version int, decoders map[int]func(json.RawMessage) (T, error)) Codec[T] {
	return Codec[T]{
		Version: version,
		Encode: func(v T) ([]byte, error) {
			data, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal value: %w", err)
			}
			return json.Marshal(envelope{Version: version, Data: data})
		},
		Decode: func(raw []byte) (T, error) {
			var zero T
			env, err := openEnvelope(raw)
			if err != nil {
				return zero, err
			}
			decode, ok := decoders[env.Version]
			if !ok {
				return zero, fmt.Errorf("unsupported schema version %d", env.Version)
			}
			return decode(env.Data)
		},
	}
}

func openEnvelope(raw []byte) (envelope, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return envelope{}, fmt.Errorf("empty value")
	}
	if trimmed[0] != '{' {
		return envelope{Version: legacyVersion, Data: trimmed}, nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return envelope{}, fmt.Errorf("failed to unmarshal envelope: %w", err)
	}
	if env.Data == nil {
		return envelope{}, fmt.Errorf("envelope has no data")
	}
	return env, nil
}

func decodeJSON[T any](data json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("failed to unmarshal value: %w", err)
	}
	return v, nil
}
