package shopping

import (
	"testing"
	"time"

	"cozinha-magica/internal/recipe"

	"github.com/stretchr/testify/assert"
)

func TestNewSnapshotsRecipe(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	src := recipe.Recipe{ID: "r1", Title: "Feijoada", Ingredients: "Feijão\nCarne (Suína)"}
	details := Details{}.Set(DetailMarket, "Feira").Set(DetailExtraItems, "Laranja")

	list := New(src, details, "l1", now)

	// Later edits to the source must not leak into the list.
	src.Title = "Feijoada Light"
	src.Ingredients = "Feijão"

	assert.Equal(t, "l1", list.ID)
	assert.Equal(t, "r1", list.RecipeID)
	assert.Equal(t, "Feijoada", list.RecipeTitle)
	assert.Equal(t, "Feijão\nCarne (Suína)", list.Ingredients)
	assert.Equal(t, "Feira", list.Market)
	assert.Equal(t, "Laranja", list.ExtraItems)
	assert.Equal(t, now, list.CreatedAt)
	assert.Equal(t, "lista-Feijoada", list.FileName())
	assert.Equal(t, details, list.Details())
}

func TestDetails(t *testing.T) {
	var d Details
	for _, f := range AllDetails {
		d = d.Set(f, f.Label())
	}
	for _, f := range AllDetails {
		assert.Equal(t, f.Label(), d.Get(f))
	}

	f, ok := ParseDetail("time")
	assert.True(t, ok)
	assert.Equal(t, DetailTime, f)

	_, ok = ParseDetail("recipeId")
	assert.False(t, ok)
}
