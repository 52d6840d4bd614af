package app

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cozinha-magica/internal/recipe"
	"cozinha-magica/internal/shopping"
	"cozinha-magica/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dumpOf(t *testing.T, recipes []recipe.Recipe, lists []shopping.ShoppingList) []byte {
	t.Helper()
	out := map[string]string{}
	if recipes != nil {
		raw, err := json.Marshal(recipes)
		require.NoError(t, err)
		out["recipes"] = string(raw)
	}
	if lists != nil {
		raw, err := json.Marshal(lists)
		require.NoError(t, err)
		out["shoppingLists"] = string(raw)
	}
	data, err := json.Marshal(out)
	require.NoError(t, err)
	return data
}

func TestMigrateLegacy(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("MergesNewRecords", func(t *testing.T) {
		cols := storage.NewCollections(storage.NewStore(storage.NewMemorySubstrate(), nil))
		cols.SaveRecipes(ctx, []recipe.Recipe{{ID: "a", Title: "Arroz", CreatedAt: created}})

		data := dumpOf(t,
			[]recipe.Recipe{
				{ID: "a", Title: "Arroz antigo", CreatedAt: created},
				{ID: "b", Title: "Bolo", IsAIGenerated: true, CreatedAt: created},
			},
			[]shopping.ShoppingList{{ID: "l1", RecipeID: "b", RecipeTitle: "Bolo", Ingredients: "Ovos", CreatedAt: created}},
		)

		report, err := MigrateLegacy(ctx, cols, data, nil)
		require.NoError(t, err)

		assert.Equal(t, MigrationReport{Recipes: 1, ShoppingLists: 1, SkippedRecipes: 1}, report)
		recipes := cols.Recipes(ctx)
		require.Len(t, recipes, 2)
		assert.Equal(t, "Arroz", recipes[0].Title, "stored record wins")
		assert.Equal(t, "Bolo", recipes[1].Title)
		assert.True(t, recipes[1].IsAIGenerated)
		assert.Len(t, cols.ShoppingLists(ctx), 1)
	})

	t.Run("MissingCollectionIsLeftAlone", func(t *testing.T) {
		cols := storage.NewCollections(storage.NewStore(storage.NewMemorySubstrate(), nil))
		cols.SaveShoppingLists(ctx, []shopping.ShoppingList{{ID: "keep", CreatedAt: created}})

		report, err := MigrateLegacy(ctx, cols, dumpOf(t, []recipe.Recipe{{ID: "x", Title: "X"}}, nil), nil)
		require.NoError(t, err)

		assert.Equal(t, 1, report.Recipes)
		assert.Equal(t, "keep", cols.ShoppingLists(ctx)[0].ID)
	})

	t.Run("InvalidDump", func(t *testing.T) {
		cols := storage.NewCollections(storage.NewStore(storage.NewMemorySubstrate(), nil))

		_, err := MigrateLegacy(ctx, cols, []byte("not json"), nil)
		assert.Error(t, err)

		_, err = MigrateLegacy(ctx, cols, []byte(`{"recipes":"{broken"}`), nil)
		assert.Error(t, err)
		assert.Empty(t, cols.Recipes(ctx))
	})
}

func TestNewLogger(t *testing.T) {
	for _, debug := range []bool{true, false} {
		logger, err := NewLogger(debug)
		require.NoError(t, err)
		assert.NotNil(t, logger)
	}
}
