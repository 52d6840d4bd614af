package storage

import (
	"context"
	"errors"

	"cozinha-magica/internal/recipe"
	"cozinha-magica/internal/shopping"

	"go.uber.org/zap"
)

// Keys of the two persisted collections.
const (
	KeyRecipes       = "recipes"
	KeyShoppingLists = "shoppingLists"
)

// ErrNotFound is returned by a Substrate when a key has never been written.
var ErrNotFound = errors.New("key not found")

// Substrate is a durable key-value blob store.
type Substrate interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Store is the best-effort persistence adapter: failures are logged, never returned.
type Store struct {
	sub    Substrate
	logger *zap.Logger
}

// NewStore wraps a substrate.
func NewStore(sub Substrate, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{sub: sub, logger: logger}
}

// Close releases the substrate.
func (s *Store) Close() error {
	return s.sub.Close()
}

// Load returns the last value saved under key, or def when it is absent or cannot be decoded.
func Load[T any](ctx context.Context, s *Store, key string, codec Codec[T], def T) T {
	data, err := s.sub.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("failed to read stored value", zap.String("key", key), zap.Error(err))
		}
		return def
	}

	v, err := codec.Decode(data)
	if err != nil {
		s.logger.Warn("failed to decode stored value", zap.String("key", key), zap.Error(err))
		return def
	}
	return v
}

// Save stores value under key, replacing what was there. Failures are logged and dropped.
func Save[T any](ctx context.Context, s *Store, key string, codec Codec[T], value T) {
	data, err := codec.Encode(value)
	if err != nil {
		s.logger.Error("failed to encode value", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.sub.Put(ctx, key, data); err != nil {
		s.logger.Error("failed to write value", zap.String("key", key), zap.Error(err))
	}
}

// Collections gives typed access to the recipe and shopping-list collections.
type Collections struct {
	store *Store
}

// NewCollections creates the typed facade.
func NewCollections(store *Store) *Collections {
	return &Collections{store: store}
}

// Recipes loads the recipe collection in storage order.
func (c *Collections) Recipes(ctx context.Context) []recipe.Recipe {
	return Load(ctx, c.store, KeyRecipes, RecipesCodec, []recipe.Recipe{})
}

// SaveRecipes replaces the recipe collection.
func (c *Collections) SaveRecipes(ctx context.Context, recipes []recipe.Recipe) {
	Save(ctx, c.store, KeyRecipes, RecipesCodec, recipes)
}

// ShoppingLists loads the shopping-list collection in storage order.
func (c *Collections) ShoppingLists(ctx context.Context) []shopping.ShoppingList {
	return Load(ctx, c.store, KeyShoppingLists, ShoppingListsCodec, []shopping.ShoppingList{})
}

// SaveShoppingLists replaces the shopping-list collection.
func (c *Collections) SaveShoppingLists(ctx context.Context, lists []shopping.ShoppingList) {
	Save(ctx, c.store, KeyShoppingLists, ShoppingListsCodec, lists)
}
